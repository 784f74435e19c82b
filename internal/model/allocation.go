package model

import (
	"strings"
	"time"
)

// Product categories that allocations are tracked against. The free-text
// product on a truck is folded into one of these two for ledger purposes.
const (
	CategoryAGO = "AGO"
	CategoryPMS = "PMS"
)

// Categories lists the closed set of product categories.
var Categories = []string{CategoryAGO, CategoryPMS}

// Allocation is a volume budget for one (company, product category) pair.
// RemainingVolume is only ever moved through the store's set/deduct/return
// operations; setting an allocation resets remaining to the new initial value.
type Allocation struct {
	ID              uint      `json:"id" gorm:"primarykey"`
	CompanyID       uint      `json:"company_id" gorm:"uniqueIndex:idx_company_product;not null"`
	ProductType     string    `json:"product_type" gorm:"type:varchar(10);uniqueIndex:idx_company_product;not null"`
	InitialVolume   float64   `json:"initial_volume" gorm:"not null;default:0"`
	RemainingVolume float64   `json:"remaining_volume" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ResolveCategory maps a free-text product name to its allocation category.
// AGO and DIESEL count against AGO; everything else (PMS, GASOLINE, unknown)
// counts against PMS. The mapping is total and never fails.
func ResolveCategory(product string) string {
	switch strings.ToUpper(strings.TrimSpace(product)) {
	case "AGO", "DIESEL":
		return CategoryAGO
	default:
		return CategoryPMS
	}
}
