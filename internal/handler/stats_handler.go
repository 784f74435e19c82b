package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"permit-service/pkg/logger"
	"permit-service/prometheus"
)

// GetStats returns the on-demand truck/allocation aggregates, optionally
// scoped by ?companyId=.
func GetStats(c echo.Context) error {
	log := logger.FromEcho(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	stats, err := dataStore().Stats(companyScope(c))
	if err != nil {
		log.Error("Failed to compute stats", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute stats"})
	}
	return c.JSON(http.StatusOK, stats)
}
