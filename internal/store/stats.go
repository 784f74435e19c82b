package store

import (
	"gorm.io/gorm"

	"permit-service/internal/model"
)

// TruckStats are on-demand aggregates over the truck table. Generated counts
// both GENERATED and LOADED trucks, since a loaded truck still holds a
// permit. Volumes sum the quantities of permit-holding trucks per category.
type TruckStats struct {
	Total        int64   `json:"total"`
	Generated    int64   `json:"generated"`
	Loaded       int64   `json:"loaded"`
	Pending      int64   `json:"pending"`
	Cancelled    int64   `json:"cancelled"`
	AGOGenerated float64 `json:"agoGenerated"`
	PMSGenerated float64 `json:"pmsGenerated"`
}

var permitStatuses = []string{model.StatusGenerated, model.StatusLoaded}

// Stats recomputes the aggregate counts and generated volumes, optionally
// scoped to one company. Nothing is cached.
func (s *Store) Stats(companyID uint) (*TruckStats, error) {
	stats := &TruckStats{}

	trucks := func() *gorm.DB {
		query := s.db.Model(&model.Truck{})
		if companyID != 0 {
			query = query.Where("company_id = ?", companyID)
		}
		return query
	}

	if err := trucks().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := trucks().Where("status IN ?", permitStatuses).Count(&stats.Generated).Error; err != nil {
		return nil, err
	}
	if err := trucks().Where("status = ?", model.StatusLoaded).Count(&stats.Loaded).Error; err != nil {
		return nil, err
	}
	if err := trucks().Where("status = '' OR status IS NULL").Count(&stats.Pending).Error; err != nil {
		return nil, err
	}
	if err := trucks().Where("status = ?", model.StatusCancelled).Count(&stats.Cancelled).Error; err != nil {
		return nil, err
	}

	if err := trucks().
		Select("COALESCE(SUM(quantity), 0)").
		Where("UPPER(product) IN ?", []string{"AGO", "DIESEL"}).
		Where("status IN ?", permitStatuses).
		Scan(&stats.AGOGenerated).Error; err != nil {
		return nil, err
	}
	if err := trucks().
		Select("COALESCE(SUM(quantity), 0)").
		Where("UPPER(product) NOT IN ?", []string{"AGO", "DIESEL"}).
		Where("status IN ?", permitStatuses).
		Scan(&stats.PMSGenerated).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
