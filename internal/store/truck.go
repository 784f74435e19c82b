package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"permit-service/internal/model"
)

// TruckFields is the insertable subset of a truck record. Lifecycle fields
// (status, permit, loading) are only ever set through the lifecycle
// operations.
type TruckFields struct {
	TruckTrailer string
	Product      string
	Transporter  string
	Quantity     float64
	DriverName   string
	IDNumber     string
	PhoneNumber  string
	Destination  string
	LoadingPoint string
}

// TruckPatch is a partial update; nil fields are left untouched. Status and
// quantity are patchable on purpose: edits apply directly and do not
// reconcile the allocation ledger.
type TruckPatch struct {
	TruckTrailer *string  `json:"truck_trailer"`
	Product      *string  `json:"product"`
	Transporter  *string  `json:"transporter"`
	Quantity     *float64 `json:"quantity"`
	DriverName   *string  `json:"driver_name"`
	IDNumber     *string  `json:"id_number"`
	PhoneNumber  *string  `json:"phone_number"`
	Destination  *string  `json:"destination"`
	LoadingPoint *string  `json:"loading_point"`
	Status       *string  `json:"status"`
	PermitNo     *string  `json:"permit_no"`
	PermitDate   *string  `json:"permit_date"`
	At20         *float64 `json:"at20"`
	LoCompany    *string  `json:"lo_company"`
	LoadingDate  *string  `json:"loading_date"`
	BolNo        *string  `json:"bol_no"`
}

func (p *TruckPatch) updates() map[string]interface{} {
	updates := map[string]interface{}{}
	set := func(column string, value interface{}, present bool) {
		if present {
			updates[column] = value
		}
	}
	set("truck_trailer", deref(p.TruckTrailer), p.TruckTrailer != nil)
	set("product", deref(p.Product), p.Product != nil)
	set("transporter", deref(p.Transporter), p.Transporter != nil)
	set("quantity", derefFloat(p.Quantity), p.Quantity != nil)
	set("driver_name", deref(p.DriverName), p.DriverName != nil)
	set("id_number", deref(p.IDNumber), p.IDNumber != nil)
	set("phone_number", deref(p.PhoneNumber), p.PhoneNumber != nil)
	set("destination", deref(p.Destination), p.Destination != nil)
	set("loading_point", deref(p.LoadingPoint), p.LoadingPoint != nil)
	set("status", deref(p.Status), p.Status != nil)
	set("permit_no", deref(p.PermitNo), p.PermitNo != nil)
	set("permit_date", deref(p.PermitDate), p.PermitDate != nil)
	set("at20", p.At20, p.At20 != nil)
	set("lo_company", deref(p.LoCompany), p.LoCompany != nil)
	set("loading_date", deref(p.LoadingDate), p.LoadingDate != nil)
	set("bol_no", deref(p.BolNo), p.BolNo != nil)
	return updates
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// setTruckStatus applies updates only while the truck still holds the status
// it was read with. Two writers racing on the same row both read the old
// status, but only the first conditional update matches; the loser's
// transaction rolls back, so a permit can never be generated twice and a
// cancellation can never return volume twice.
func (s *Store) setTruckStatus(id uint, from string, updates map[string]interface{}) error {
	query := s.db.Model(&model.Truck{}).Where("id = ?", id)
	if from == model.StatusPending {
		query = query.Where("status = '' OR status IS NULL")
	} else {
		query = query.Where("status = ?", from)
	}
	result := query.Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return Conflictf("truck %d was updated concurrently", id)
	}
	return nil
}

// Trucks lists truck records, optionally scoped to a company, in id order.
func (s *Store) Trucks(companyID uint) ([]model.Truck, error) {
	var trucks []model.Truck
	query := s.db.Order("id")
	if companyID != 0 {
		query = query.Where("company_id = ?", companyID)
	}
	if err := query.Find(&trucks).Error; err != nil {
		return nil, err
	}
	return trucks, nil
}

// TruckByID resolves a single truck record.
func (s *Store) TruckByID(id uint) (*model.Truck, error) {
	var truck model.Truck
	err := s.db.First(&truck, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundf("truck %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &truck, nil
}

// InsertTruck creates a pending truck for a company. The quantity unit
// heuristic is applied here, same as on bulk import.
func (s *Store) InsertTruck(fields TruckFields, companyID uint) (*model.Truck, error) {
	if fields.TruckTrailer == "" || fields.Product == "" {
		return nil, InvalidInputf("truck_trailer and product are required")
	}
	quantity := model.NormalizeQuantity(fields.Quantity)
	if quantity <= 0 {
		return nil, InvalidInputf("quantity must be greater than zero")
	}
	truck := model.Truck{
		CompanyID:    companyID,
		TruckTrailer: fields.TruckTrailer,
		Product:      fields.Product,
		Transporter:  fields.Transporter,
		Quantity:     quantity,
		DriverName:   fields.DriverName,
		IDNumber:     fields.IDNumber,
		PhoneNumber:  fields.PhoneNumber,
		Destination:  fields.Destination,
		LoadingPoint: fields.LoadingPoint,
		Status:       model.StatusPending,
	}
	if err := s.db.Create(&truck).Error; err != nil {
		return nil, err
	}
	return &truck, nil
}

// BulkReplaceTrucks discards every truck the company currently has and
// inserts the given rows as pending trucks. The whole import runs in one
// transaction: a failing row rolls back the clear as well, so the table is
// never left partially replaced. The allocation ledger is not touched.
func (s *Store) BulkReplaceTrucks(rows []TruckFields, companyID uint) (int, error) {
	err := s.withTx(func(tx *Store) error {
		if err := tx.db.Where("company_id = ?", companyID).Delete(&model.Truck{}).Error; err != nil {
			return err
		}
		for _, fields := range rows {
			truck := model.Truck{
				CompanyID:    companyID,
				TruckTrailer: fields.TruckTrailer,
				Product:      fields.Product,
				Transporter:  fields.Transporter,
				Quantity:     model.NormalizeQuantity(fields.Quantity),
				DriverName:   fields.DriverName,
				IDNumber:     fields.IDNumber,
				PhoneNumber:  fields.PhoneNumber,
				Destination:  fields.Destination,
				LoadingPoint: fields.LoadingPoint,
				Status:       model.StatusPending,
			}
			if err := tx.db.Create(&truck).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// UpdateTruck applies an arbitrary field patch. No allocation reconciliation
// happens here even when quantity or status change; that matches the observed
// edit semantics.
func (s *Store) UpdateTruck(id uint, patch TruckPatch) (*model.Truck, error) {
	truck, err := s.TruckByID(id)
	if err != nil {
		return nil, err
	}
	updates := patch.updates()
	if len(updates) == 0 {
		return truck, nil
	}
	if err := s.db.Model(truck).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.TruckByID(id)
}

// DeleteTruck hard-deletes a single truck record.
func (s *Store) DeleteTruck(id uint) error {
	result := s.db.Delete(&model.Truck{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFoundf("truck %d not found", id)
	}
	return nil
}

// ClearTrucks hard-deletes all trucks, or all trucks of one company.
func (s *Store) ClearTrucks(companyID uint) error {
	if companyID != 0 {
		return s.db.Where("company_id = ?", companyID).Delete(&model.Truck{}).Error
	}
	return s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Truck{}).Error
}

// GeneratePermit commits a pending truck's quantity against its category's
// allocation and stamps the permit fields. Both the status transition and the
// deduction are conditional updates inside one transaction: the status update
// takes the row lock first, so concurrent generations serialize per truck and
// cannot deduct the same quantity twice or oversubscribe the balance.
// Re-generating an already generated or loaded truck is a conflict and leaves
// the ledger untouched.
func (s *Store) GeneratePermit(id uint, permitNo, permitDate string, companyID uint) (*model.Truck, error) {
	var generated *model.Truck
	err := s.withTx(func(tx *Store) error {
		truck, err := tx.TruckByID(id)
		if err != nil {
			return err
		}
		if truck.Status == model.StatusGenerated || truck.Status == model.StatusLoaded {
			return Conflictf("permit already generated for truck %d", id)
		}

		if permitDate == "" {
			permitDate = time.Now().Format("2006-01-02 15:04:05")
		}
		updates := map[string]interface{}{
			"status":      model.StatusGenerated,
			"permit_no":   permitNo,
			"permit_date": permitDate,
		}
		if err := tx.setTruckStatus(id, truck.Status, updates); err != nil {
			return err
		}

		effectiveCompany := companyID
		if effectiveCompany == 0 {
			effectiveCompany = truck.CompanyID
		}
		if err := tx.DeductIfAvailable(effectiveCompany, truck.Category(), truck.Quantity); err != nil {
			return err
		}

		generated, err = tx.TruckByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return generated, nil
}

// MarkLoaded confirms loading for a truck that has not been loaded yet and
// records the loading measurements. Marking twice is a conflict.
func (s *Store) MarkLoaded(id uint, at20 float64, loCompany, loadingDate, bolNo string) (*model.Truck, error) {
	truck, err := s.TruckByID(id)
	if err != nil {
		return nil, err
	}
	if truck.Status == model.StatusLoaded {
		return nil, Conflictf("truck %d already marked as loaded", id)
	}
	updates := map[string]interface{}{
		"status":       model.StatusLoaded,
		"at20":         at20,
		"lo_company":   loCompany,
		"loading_date": loadingDate,
		"bol_no":       bolNo,
	}
	if err := s.setTruckStatus(id, truck.Status, updates); err != nil {
		return nil, err
	}
	return s.TruckByID(id)
}

// Cancel voids a pending or generated truck. When a permit existed the
// quantity goes back to the allocation. Cancelling a loaded truck is rejected
// as a conflict: once product left the depot the volume cannot be returned.
// The status transition is conditional on the status that decided whether to
// return volume, so two concurrent cancels cannot both credit the ledger.
func (s *Store) Cancel(id uint) (*model.Truck, error) {
	var cancelled *model.Truck
	err := s.withTx(func(tx *Store) error {
		truck, err := tx.TruckByID(id)
		if err != nil {
			return err
		}
		switch truck.Status {
		case model.StatusLoaded:
			return Conflictf("truck %d is already loaded and cannot be cancelled", id)
		case model.StatusCancelled:
			return Conflictf("truck %d is already cancelled", id)
		}

		if err := tx.setTruckStatus(id, truck.Status, map[string]interface{}{"status": model.StatusCancelled}); err != nil {
			return err
		}
		if truck.Status == model.StatusGenerated {
			if err := tx.Return(truck.CompanyID, truck.Category(), truck.Quantity); err != nil {
				return err
			}
		}
		cancelled, err = tx.TruckByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// Restore brings a cancelled truck back to GENERATED, re-consuming its
// quantity from the allocation. Only cancelled trucks can be restored. The
// deduction is unconditional; a missing allocation row is tolerated the same
// way cancellation tolerates it.
func (s *Store) Restore(id uint) (*model.Truck, error) {
	var restored *model.Truck
	err := s.withTx(func(tx *Store) error {
		truck, err := tx.TruckByID(id)
		if err != nil {
			return err
		}
		if truck.Status != model.StatusCancelled {
			return Conflictf("truck %d is not cancelled", id)
		}

		if err := tx.setTruckStatus(id, model.StatusCancelled, map[string]interface{}{"status": model.StatusGenerated}); err != nil {
			return err
		}
		if err := tx.Deduct(truck.CompanyID, truck.Category(), truck.Quantity); err != nil && ErrKind(err) != KindNotFound {
			return err
		}
		restored, err = tx.TruckByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

// DuplicateTrailers reports which of the given trailer identifiers already
// exist for the company. Used by the import flow to warn before replacing.
func (s *Store) DuplicateTrailers(companyID uint, trailers []string) ([]string, error) {
	if len(trailers) == 0 {
		return nil, nil
	}
	var existing []string
	err := s.db.Model(&model.Truck{}).
		Where("company_id = ? AND truck_trailer IN ?", companyID, trailers).
		Pluck("truck_trailer", &existing).Error
	if err != nil {
		return nil, err
	}
	return existing, nil
}
