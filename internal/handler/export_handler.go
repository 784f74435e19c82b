package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"permit-service/internal/model"
	"permit-service/internal/store"
	"permit-service/pkg/logger"
)

var exportHeaders = []string{
	"Truck/Trailer", "Product", "Transporter", "Quantity", "Driver Name",
	"ID Number", "Phone Number", "Destination", "Loading Point",
	"Status", "Permit No", "Permit Date", "BOL No",
}

// ExportTrucks writes the truck list for the scope as an xlsx attachment.
// This is a thin spreadsheet wrapper over the list operation.
func ExportTrucks(c echo.Context) error {
	log := logger.FromEcho(c)

	trucks, err := dataStore().Trucks(companyScope(c))
	if err != nil {
		log.Error("Failed to list trucks for export", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to export trucks"})
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	for i, truck := range trucks {
		row := i + 2
		values := []interface{}{
			truck.TruckTrailer, truck.Product, truck.Transporter, truck.Quantity,
			truck.DriverName, truck.IDNumber, truck.PhoneNumber, truck.Destination,
			truck.LoadingPoint, truck.Status, truck.PermitNo, truck.PermitDate, truck.BolNo,
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, value)
		}
	}

	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=trucks.xlsx")
	c.Response().WriteHeader(http.StatusOK)
	if err := f.Write(c.Response()); err != nil {
		log.Error("Failed to write xlsx", zap.Error(err))
		return err
	}

	log.Info("Trucks exported", zap.Int("count", len(trucks)))
	return nil
}

// ImportTrucks parses an uploaded xlsx and runs a replace-all import for the
// company. Columns follow the export layout; the header row is skipped.
func ImportTrucks(c echo.Context) error {
	log := logger.FromEcho(c)

	companyID := companyScope(c)
	if companyID == 0 {
		companyID = 1
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}
	src, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open upload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "failed to read file"})
	}
	defer src.Close()

	f, err := excelize.OpenReader(src)
	if err != nil {
		log.Error("Failed to parse xlsx", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spreadsheet"})
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		log.Error("Failed to read sheet", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spreadsheet"})
	}

	var fields []store.TruckFields
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		cell := func(idx int) string {
			if idx < len(row) {
				return row[idx]
			}
			return ""
		}
		if cell(0) == "" && cell(1) == "" {
			continue
		}
		quantity, _ := strconv.ParseFloat(cell(3), 64)
		fields = append(fields, store.TruckFields{
			TruckTrailer: cell(0),
			Product:      cell(1),
			Transporter:  cell(2),
			Quantity:     quantity,
			DriverName:   cell(4),
			IDNumber:     cell(5),
			PhoneNumber:  cell(6),
			Destination:  cell(7),
			LoadingPoint: cell(8),
		})
	}

	st := dataStore()
	count, err := st.BulkReplaceTrucks(fields, companyID)
	if err != nil {
		return storeError(c, log, err, "Failed to import trucks")
	}

	st.RecordAudit(model.ActionImport, "truck", nil,
		fmt.Sprintf("Imported %d trucks from Excel", count), companyID)

	log.Info("Trucks imported from spreadsheet",
		zap.Uint("company_id", companyID),
		zap.Int("count", count))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": count})
}
