package model

import (
	"time"

	"gorm.io/gorm"
)

// Truck lifecycle statuses. A blank status means the truck is still pending
// permit generation.
const (
	StatusPending   = ""
	StatusGenerated = "GENERATED"
	StatusLoaded    = "LOADED"
	StatusCancelled = "CANCELLED"
)

// Truck is a shipment record scoped to a company. Permit fields are stamped
// when a permit is generated, loading fields when the truck is confirmed
// loaded. Status is the single source of truth for the lifecycle; the loaded
// flag exposed over the API is derived from it.
type Truck struct {
	ID           uint    `json:"id" gorm:"primarykey"`
	CompanyID    uint    `json:"company_id" gorm:"index;not null"`
	TruckTrailer string  `json:"truck_trailer" gorm:"type:varchar(100);not null"`
	Product      string  `json:"product" gorm:"type:varchar(100);not null"`
	Transporter  string  `json:"transporter" gorm:"type:varchar(255)"`
	Quantity     float64 `json:"quantity" gorm:"not null"`
	DriverName   string  `json:"driver_name" gorm:"type:varchar(255)"`
	IDNumber     string  `json:"id_number" gorm:"type:varchar(100)"`
	PhoneNumber  string  `json:"phone_number" gorm:"type:varchar(50)"`
	Destination  string  `json:"destination" gorm:"type:varchar(255)"`
	LoadingPoint string  `json:"loading_point" gorm:"type:varchar(255)"`

	Status     string `json:"status" gorm:"type:varchar(20);default:''"`
	PermitNo   string `json:"permit_no" gorm:"type:varchar(100)"`
	PermitDate string `json:"permit_date" gorm:"type:varchar(50)"`

	Loaded      bool     `json:"loaded" gorm:"-"`
	At20        *float64 `json:"at20"`
	LoCompany   string   `json:"lo_company" gorm:"type:varchar(255)"`
	LoadingDate string   `json:"loading_date" gorm:"type:varchar(50)"`
	BolNo       string   `json:"bol_no" gorm:"type:varchar(100)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AfterFind derives the loaded flag from status so the two can never disagree.
func (t *Truck) AfterFind(_ *gorm.DB) error {
	t.Loaded = t.Status == StatusLoaded
	return nil
}

// Category returns the allocation category this truck draws on.
func (t *Truck) Category() string {
	return ResolveCategory(t.Product)
}

// NormalizeQuantity applies the bulk-sheet unit heuristic: operators enter
// small values in thousands of liters, so anything under 100 is scaled up.
func NormalizeQuantity(quantity float64) float64 {
	if quantity < 100 {
		return quantity * 1000
	}
	return quantity
}
