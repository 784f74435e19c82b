package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"permit-service/internal/model"
	"permit-service/internal/store"
	"permit-service/pkg/logger"
	"permit-service/prometheus"
)

// TruckRequest defines the structure for truck creation and bulk import rows
type TruckRequest struct {
	TruckTrailer string  `json:"truck_trailer"`
	Product      string  `json:"product"`
	Transporter  string  `json:"transporter"`
	Quantity     float64 `json:"quantity"`
	DriverName   string  `json:"driver_name"`
	IDNumber     string  `json:"id_number"`
	PhoneNumber  string  `json:"phone_number"`
	Destination  string  `json:"destination"`
	LoadingPoint string  `json:"loading_point"`
}

func (r *TruckRequest) fields() store.TruckFields {
	return store.TruckFields{
		TruckTrailer: r.TruckTrailer,
		Product:      r.Product,
		Transporter:  r.Transporter,
		Quantity:     r.Quantity,
		DriverName:   r.DriverName,
		IDNumber:     r.IDNumber,
		PhoneNumber:  r.PhoneNumber,
		Destination:  r.Destination,
		LoadingPoint: r.LoadingPoint,
	}
}

// GeneratePermitRequest commits a truck's volume against its allocation.
type GeneratePermitRequest struct {
	TruckID    uint   `json:"truckId" validate:"required"`
	PermitNo   string `json:"permitNo"`
	PermitDate string `json:"permitDate"`
	CompanyID  uint   `json:"companyId"`
}

// LoadingRequest confirms loading for a generated truck.
type LoadingRequest struct {
	TruckID     uint    `json:"truckId" validate:"required"`
	At20        float64 `json:"at20"`
	LoCompany   string  `json:"loCompany"`
	LoadingDate string  `json:"loadingDate"`
	BolNo       string  `json:"bolNo"`
	CompanyID   uint    `json:"companyId"`
}

// CheckDuplicatesRequest asks which trailers already exist for a company.
type CheckDuplicatesRequest struct {
	TruckTrailers []string `json:"truck_trailers" validate:"required"`
}

// ListTrucks returns truck records, optionally scoped by ?companyId=.
func ListTrucks(c echo.Context) error {
	log := logger.FromEcho(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	trucks, err := dataStore().Trucks(companyScope(c))
	if err != nil {
		log.Error("Failed to list trucks", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve trucks"})
	}
	return c.JSON(http.StatusOK, trucks)
}

// GetTruck returns a single truck record.
func GetTruck(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid truck ID"})
	}
	truck, err := dataStore().TruckByID(id)
	if err != nil {
		return storeError(c, log, err, "Failed to retrieve truck")
	}
	return c.JSON(http.StatusOK, truck)
}

// CreateTruck handles both a single truck creation and a bulk replace-all
// import: a JSON array body replaces every truck the company currently has.
func CreateTruck(c echo.Context) error {
	log := logger.FromEcho(c)

	companyID := companyScope(c)
	if companyID == 0 {
		companyID = 1
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if bytes.HasPrefix(bytes.TrimSpace(body), []byte("[")) {
		var rows []TruckRequest
		if err := json.Unmarshal(body, &rows); err != nil {
			log.Error("Invalid bulk import payload", zap.Error(err))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
		}
		return bulkImport(c, log, rows, companyID)
	}

	var req TruckRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Error("Invalid truck payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	truck, err := dataStore().InsertTruck(req.fields(), companyID)
	if err != nil {
		return storeError(c, log, err, "Failed to create truck")
	}

	prometheus.RecordTruckOperation("create")
	log.Info("Truck created",
		zap.Uint("truck_id", truck.ID),
		zap.Uint("company_id", companyID),
		zap.String("truck_trailer", truck.TruckTrailer),
		zap.Float64("quantity", truck.Quantity))
	return c.JSON(http.StatusCreated, truck)
}

func bulkImport(c echo.Context, log *zap.Logger, rows []TruckRequest, companyID uint) error {
	fields := make([]store.TruckFields, 0, len(rows))
	for _, row := range rows {
		fields = append(fields, row.fields())
	}

	st := dataStore()
	count, err := st.BulkReplaceTrucks(fields, companyID)
	if err != nil {
		return storeError(c, log, err, "Failed to import trucks")
	}

	st.RecordAudit(model.ActionImport, "truck", nil,
		fmt.Sprintf("Imported %d trucks", count), companyID)
	prometheus.RecordTruckOperation("import")

	log.Info("Trucks imported", zap.Uint("company_id", companyID), zap.Int("count", count))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": count})
}

// UpdateTruck applies a partial field patch to a truck. Quantity and status
// edits go straight through without touching the allocation ledger.
func UpdateTruck(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid truck ID"})
	}

	var patch store.TruckPatch
	if err := c.Bind(&patch); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	st := dataStore()
	truck, err := st.UpdateTruck(id, patch)
	if err != nil {
		return storeError(c, log, err, "Failed to update truck")
	}

	details, _ := json.Marshal(patch)
	st.RecordAudit(model.ActionUpdate, "truck", &id, fmt.Sprintf("Updated: %s", details), truck.CompanyID)
	prometheus.RecordTruckOperation("update")

	log.Info("Truck updated", zap.Uint("truck_id", id))
	return c.JSON(http.StatusOK, truck)
}

// DeleteTruck hard-deletes a truck, or cancels/restores it when the action
// query parameter says so.
func DeleteTruck(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid truck ID"})
	}

	st := dataStore()
	switch c.QueryParam("action") {
	case "cancel":
		truck, err := st.Cancel(id)
		if err != nil {
			return storeError(c, log, err, "Failed to cancel truck")
		}
		st.RecordAudit(model.ActionCancel, "truck", &id, "Truck cancelled, volume returned", truck.CompanyID)
		prometheus.RecordTruckOperation("cancel")
		log.Info("Truck cancelled", zap.Uint("truck_id", id))
		return c.JSON(http.StatusOK, truck)

	case "restore":
		truck, err := st.Restore(id)
		if err != nil {
			return storeError(c, log, err, "Failed to restore truck")
		}
		st.RecordAudit(model.ActionRestore, "truck", &id, "Cancelled truck restored", truck.CompanyID)
		prometheus.RecordTruckOperation("restore")
		log.Info("Truck restored", zap.Uint("truck_id", id))
		return c.JSON(http.StatusOK, truck)

	default:
		truck, err := st.TruckByID(id)
		if err != nil {
			return storeError(c, log, err, "Failed to delete truck")
		}
		if err := st.DeleteTruck(id); err != nil {
			return storeError(c, log, err, "Failed to delete truck")
		}
		st.RecordAudit(model.ActionDelete, "truck", &id, "Truck deleted", truck.CompanyID)
		prometheus.RecordTruckOperation("delete")
		log.Info("Truck deleted", zap.Uint("truck_id", id))
		return c.JSON(http.StatusOK, echo.Map{"success": true})
	}
}

// ClearTrucks removes every truck, or every truck of one company.
func ClearTrucks(c echo.Context) error {
	log := logger.FromEcho(c)

	companyID := companyScope(c)
	st := dataStore()
	if err := st.ClearTrucks(companyID); err != nil {
		log.Error("Failed to clear trucks", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to clear trucks"})
	}

	st.RecordAudit(model.ActionClearAll, "truck", nil, "All trucks cleared", companyID)
	prometheus.RecordTruckOperation("clear_all")

	log.Info("Trucks cleared", zap.Uint("company_id", companyID))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GeneratePermit commits a pending truck's quantity against its category's
// allocation and stamps permit number and date.
func GeneratePermit(c echo.Context) error {
	log := logger.FromEcho(c)

	var req GeneratePermitRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	st := dataStore()
	defer prometheus.TrackDBOperation("update")(time.Now())
	truck, err := st.GeneratePermit(req.TruckID, req.PermitNo, req.PermitDate, req.CompanyID)
	if err != nil {
		if se, ok := err.(*store.Error); ok && se.Kind == store.KindInsufficientAllocation {
			prometheus.RecordPermitRejection(se.Category, "insufficient_allocation")
		}
		return storeError(c, log, err, "Failed to generate permit")
	}

	category := truck.Category()
	st.RecordAudit(model.ActionGeneratePermit, "truck", &truck.ID,
		fmt.Sprintf("Permit: %s, Volume: %.0fL %s", orAuto(truck.PermitNo), truck.Quantity, category),
		truck.CompanyID)
	prometheus.RecordPermitGenerated(category)

	log.Info("Permit generated",
		zap.Uint("truck_id", truck.ID),
		zap.String("permit_no", truck.PermitNo),
		zap.String("category", category),
		zap.Float64("quantity", truck.Quantity))
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"truck":      truck,
		"permitDate": truck.PermitDate,
		"message":    fmt.Sprintf("Deducted %.0fL from %s allocation", truck.Quantity, category),
	})
}

// MarkLoaded records the loading confirmation for a truck.
func MarkLoaded(c echo.Context) error {
	log := logger.FromEcho(c)

	var req LoadingRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	st := dataStore()
	truck, err := st.MarkLoaded(req.TruckID, req.At20, req.LoCompany, req.LoadingDate, req.BolNo)
	if err != nil {
		return storeError(c, log, err, "Failed to update loading")
	}

	st.RecordAudit(model.ActionLoading, "truck", &truck.ID,
		fmt.Sprintf("BOL: %s, AT20: %.0fL", req.BolNo, req.At20), truck.CompanyID)
	prometheus.RecordTruckOperation("loading")

	log.Info("Truck marked loaded",
		zap.Uint("truck_id", truck.ID),
		zap.String("bol_no", req.BolNo))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "truck": truck})
}

// CheckDuplicates reports which of the given trailers already exist for the
// company. The import dialog calls this before a replace-all import.
func CheckDuplicates(c echo.Context) error {
	log := logger.FromEcho(c)

	companyID := companyScope(c)
	if companyID == 0 {
		companyID = 1
	}

	var req CheckDuplicatesRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	duplicates, err := dataStore().DuplicateTrailers(companyID, req.TruckTrailers)
	if err != nil {
		log.Error("Failed to check duplicates", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to check duplicates"})
	}
	return c.JSON(http.StatusOK, echo.Map{"duplicates": duplicates})
}

func orAuto(permitNo string) string {
	if permitNo == "" {
		return "auto"
	}
	return permitNo
}
