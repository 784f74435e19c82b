package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"permit-service/internal/model"
	"permit-service/pkg/logger"
)

// CompanyRequest defines the structure for company creation/update requests
type CompanyRequest struct {
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug" validate:"required"`
}

// ListCompanies returns all tenants, or a single one when ?slug= is given.
func ListCompanies(c echo.Context) error {
	log := logger.FromEcho(c)
	st := dataStore()

	if slug := c.QueryParam("slug"); slug != "" {
		company, err := st.CompanyBySlug(slug)
		if err != nil {
			return storeError(c, log, err, "Failed to retrieve company")
		}
		return c.JSON(http.StatusOK, company)
	}

	companies, err := st.Companies()
	if err != nil {
		log.Error("Failed to list companies", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve companies"})
	}
	return c.JSON(http.StatusOK, companies)
}

// CreateCompany registers a new tenant with its zeroed allocations.
func CreateCompany(c echo.Context) error {
	log := logger.FromEcho(c)

	var req CompanyRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	st := dataStore()
	company, err := st.CreateCompany(req.Name, req.Slug)
	if err != nil {
		return storeError(c, log, err, "Failed to create company")
	}

	st.RecordAudit(model.ActionCreateCompany, "company", &company.ID,
		fmt.Sprintf("Created company: %s (%s)", company.Name, company.Slug), 0)

	log.Info("Company created",
		zap.Uint("company_id", company.ID),
		zap.String("name", company.Name),
		zap.String("slug", company.Slug))
	return c.JSON(http.StatusCreated, company)
}

// UpdateCompany renames a tenant or changes its slug.
func UpdateCompany(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company ID"})
	}

	var req CompanyRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	st := dataStore()
	company, err := st.UpdateCompany(id, req.Name, req.Slug)
	if err != nil {
		return storeError(c, log, err, "Failed to update company")
	}

	st.RecordAudit(model.ActionUpdateCompany, "company", &company.ID,
		fmt.Sprintf("Updated company: %s", company.Name), 0)

	log.Info("Company updated", zap.Uint("company_id", company.ID), zap.String("name", company.Name))
	return c.JSON(http.StatusOK, company)
}

// DeleteCompany removes a tenant and cascades to everything it owns. The
// admin company is silently left alone.
func DeleteCompany(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company ID"})
	}

	st := dataStore()
	if err := st.DeleteCompany(id); err != nil {
		return storeError(c, log, err, "Failed to delete company")
	}

	st.RecordAudit(model.ActionDeleteCompany, "company", &id, "Deleted company", 0)

	log.Info("Company deleted", zap.Uint("company_id", id))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
