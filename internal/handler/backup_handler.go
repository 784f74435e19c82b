package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"permit-service/internal/model"
	"permit-service/internal/store"
	"permit-service/pkg/logger"
)

// RestoreBackupRequest carries a snapshot back into a company's state.
type RestoreBackupRequest struct {
	CompanyID   uint               `json:"companyId"`
	Trucks      []model.Truck      `json:"trucks"`
	Allocations []model.Allocation `json:"allocations"`
}

// GetBackup snapshots trucks, allocations and recent audit entries for the
// scope (or system-wide when unscoped).
func GetBackup(c echo.Context) error {
	log := logger.FromEcho(c)

	companyID := companyScope(c)
	st := dataStore()
	snapshot, err := st.TakeSnapshot(companyID)
	if err != nil {
		log.Error("Failed to create backup", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create backup"})
	}

	st.RecordAudit(model.ActionBackup, "system", nil, "Database backup created", companyID)

	log.Info("Backup created",
		zap.Uint("company_id", companyID),
		zap.Int("trucks", len(snapshot.Trucks)),
		zap.Int("allocations", len(snapshot.Allocations)))
	return c.JSON(http.StatusOK, snapshot)
}

// RestoreBackup replaces a company's trucks with the snapshot's and
// overwrites its allocation balances.
func RestoreBackup(c echo.Context) error {
	log := logger.FromEcho(c)

	var req RestoreBackupRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Trucks == nil || req.Allocations == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid backup format"})
	}

	companyID := req.CompanyID
	if companyID == 0 {
		companyID = 1
	}

	st := dataStore()
	snapshot := &store.Snapshot{Trucks: req.Trucks, Allocations: req.Allocations}
	if err := st.RestoreSnapshot(companyID, snapshot); err != nil {
		return storeError(c, log, err, "Failed to restore backup")
	}

	st.RecordAudit(model.ActionRestoreBackup, "system", nil,
		fmt.Sprintf("Restored %d trucks", len(req.Trucks)), companyID)

	log.Info("Backup restored",
		zap.Uint("company_id", companyID),
		zap.Int("trucks", len(req.Trucks)))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "trucksRestored": len(req.Trucks)})
}
