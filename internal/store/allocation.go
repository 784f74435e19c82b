package store

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"permit-service/internal/model"
)

// Availability reports whether a requested volume fits in the remaining
// balance of an allocation.
type Availability struct {
	Available bool    `json:"available"`
	Remaining float64 `json:"remaining"`
}

// Allocations lists allocation rows, optionally scoped to a company.
func (s *Store) Allocations(companyID uint) ([]model.Allocation, error) {
	var allocations []model.Allocation
	query := s.db.Order("company_id, product_type")
	if companyID != 0 {
		query = query.Where("company_id = ?", companyID)
	}
	if err := query.Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

// SetAllocation upserts the (company, category) row, resetting both initial
// and remaining volume to the given value. This is a full reset: whatever was
// consumed before is discarded from tracking, which is the documented policy
// for re-issuing allocation targets.
func (s *Store) SetAllocation(companyID uint, productType string, initialVolume float64) (*model.Allocation, error) {
	allocation := model.Allocation{
		CompanyID:       companyID,
		ProductType:     productType,
		InitialVolume:   initialVolume,
		RemainingVolume: initialVolume,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "company_id"}, {Name: "product_type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"initial_volume":   initialVolume,
			"remaining_volume": initialVolume,
			"updated_at":       time.Now(),
		}),
	}).Create(&allocation).Error
	if err != nil {
		return nil, err
	}
	var saved model.Allocation
	if err := s.db.Where("company_id = ? AND product_type = ?", companyID, productType).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// CheckAvailable reports whether the remaining balance covers the requested
// volume. A missing allocation row counts as zero remaining.
func (s *Store) CheckAvailable(companyID uint, productType string, volume float64) (Availability, error) {
	var allocation model.Allocation
	err := s.db.Where("company_id = ? AND product_type = ?", companyID, productType).First(&allocation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Availability{Available: false, Remaining: 0}, nil
	}
	if err != nil {
		return Availability{}, err
	}
	return Availability{
		Available: allocation.RemainingVolume >= volume,
		Remaining: allocation.RemainingVolume,
	}, nil
}

// Deduct unconditionally subtracts volume from the remaining balance. Used by
// restore, which re-consumes the allocation without an availability guard.
// Fails with NotFound when no row exists for the pair.
func (s *Store) Deduct(companyID uint, productType string, volume float64) error {
	result := s.db.Model(&model.Allocation{}).
		Where("company_id = ? AND product_type = ?", companyID, productType).
		Update("remaining_volume", gorm.Expr("remaining_volume - ?", volume))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFoundf("no %s allocation for company %d", productType, companyID)
	}
	return nil
}

// DeductIfAvailable subtracts volume only when the remaining balance covers
// it, as a single conditional update so two concurrent permits cannot both
// pass the check and oversubscribe the balance. On refusal it reports the
// remaining balance.
func (s *Store) DeductIfAvailable(companyID uint, productType string, volume float64) error {
	result := s.db.Model(&model.Allocation{}).
		Where("company_id = ? AND product_type = ? AND remaining_volume >= ?", companyID, productType, volume).
		Update("remaining_volume", gorm.Expr("remaining_volume - ?", volume))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		availability, err := s.CheckAvailable(companyID, productType, volume)
		if err != nil {
			return err
		}
		return InsufficientAllocation(productType, availability.Remaining, volume)
	}
	return nil
}

// Return adds volume back to the remaining balance on cancellation. A missing
// row is tolerated, matching the cancel path's best-effort return.
func (s *Store) Return(companyID uint, productType string, volume float64) error {
	return s.db.Model(&model.Allocation{}).
		Where("company_id = ? AND product_type = ?", companyID, productType).
		Update("remaining_volume", gorm.Expr("remaining_volume + ?", volume)).Error
}
