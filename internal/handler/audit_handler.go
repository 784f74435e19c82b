package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"permit-service/pkg/logger"
)

// ListAuditLogs returns the most recent audit entries. A company scope also
// includes global entries.
func ListAuditLogs(c echo.Context) error {
	log := logger.FromEcho(c)

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	entries, err := dataStore().AuditLogs(companyScope(c), limit)
	if err != nil {
		log.Error("Failed to list audit logs", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve audit logs"})
	}
	return c.JSON(http.StatusOK, entries)
}
