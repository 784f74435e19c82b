package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"permit-service/internal/model"
	"permit-service/pkg/logger"
	"permit-service/prometheus"
)

// AllocationRequest sets a category's allocation target. Setting is a full
// reset: remaining is set to the new initial volume.
type AllocationRequest struct {
	ProductType   string  `json:"product_type" validate:"required,oneof=AGO PMS"`
	InitialVolume float64 `json:"initial_volume"`
}

// ListAllocations returns allocation rows, optionally scoped by ?companyId=.
func ListAllocations(c echo.Context) error {
	log := logger.FromEcho(c)

	allocations, err := dataStore().Allocations(companyScope(c))
	if err != nil {
		log.Error("Failed to list allocations", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve allocations"})
	}
	return c.JSON(http.StatusOK, allocations)
}

// SetAllocation upserts the (company, category) budget.
func SetAllocation(c echo.Context) error {
	log := logger.FromEcho(c)

	companyID := companyScope(c)
	if companyID == 0 {
		companyID = 1
	}

	var req AllocationRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	st := dataStore()
	allocation, err := st.SetAllocation(companyID, req.ProductType, req.InitialVolume)
	if err != nil {
		return storeError(c, log, err, "Failed to update allocation")
	}

	st.RecordAudit(model.ActionAllocation, "allocation", nil,
		fmt.Sprintf("Set %s to %.0fL", req.ProductType, req.InitialVolume), companyID)
	prometheus.UpdateAllocationRemaining(strconv.FormatUint(uint64(companyID), 10),
		allocation.ProductType, allocation.RemainingVolume)

	log.Info("Allocation set",
		zap.Uint("company_id", companyID),
		zap.String("product_type", req.ProductType),
		zap.Float64("initial_volume", req.InitialVolume))
	return c.JSON(http.StatusOK, allocation)
}
