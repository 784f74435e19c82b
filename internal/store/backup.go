package store

import (
	"time"

	"permit-service/internal/model"
)

const snapshotAuditLimit = 1000

// Snapshot is a point-in-time copy of a tenant's state (or the whole system
// when unscoped): enough to rebuild trucks and allocation balances. It is a
// best-effort read, not isolated from concurrent writes.
type Snapshot struct {
	Trucks      []model.Truck      `json:"trucks"`
	Allocations []model.Allocation `json:"allocations"`
	AuditLogs   []model.AuditLog   `json:"auditLogs"`
}

// TakeSnapshot reads trucks, allocations and recent audit entries for the
// scope.
func (s *Store) TakeSnapshot(companyID uint) (*Snapshot, error) {
	trucks, err := s.Trucks(companyID)
	if err != nil {
		return nil, err
	}
	allocations, err := s.Allocations(companyID)
	if err != nil {
		return nil, err
	}
	auditLogs, err := s.AuditLogs(companyID, snapshotAuditLimit)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Trucks: trucks, Allocations: allocations, AuditLogs: auditLogs}, nil
}

// RestoreSnapshot rebuilds a company's trucks from the snapshot and overwrites
// its allocation balances, all in one transaction. Trucks are inserted
// verbatim: stored status, permit and loading fields are preserved rather than
// re-derived. Allocation rows that do not already exist for the company are
// skipped, never created.
func (s *Store) RestoreSnapshot(companyID uint, snapshot *Snapshot) error {
	if snapshot == nil {
		return InvalidInputf("snapshot is required")
	}
	return s.withTx(func(tx *Store) error {
		if err := tx.db.Where("company_id = ?", companyID).Delete(&model.Truck{}).Error; err != nil {
			return err
		}
		for _, truck := range snapshot.Trucks {
			restored := truck
			restored.ID = 0
			restored.CompanyID = companyID
			if err := tx.db.Create(&restored).Error; err != nil {
				return err
			}
		}
		for _, allocation := range snapshot.Allocations {
			updates := map[string]interface{}{
				"initial_volume":   allocation.InitialVolume,
				"remaining_volume": allocation.RemainingVolume,
				"updated_at":       allocation.UpdatedAt,
			}
			if allocation.UpdatedAt.IsZero() {
				updates["updated_at"] = time.Now()
			}
			if err := tx.db.Model(&model.Allocation{}).
				Where("company_id = ? AND product_type = ?", companyID, allocation.ProductType).
				Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
