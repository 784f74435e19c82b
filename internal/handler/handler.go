package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"permit-service/internal/store"
	"permit-service/pkg/database"
)

// dataStore binds a Store to the shared database handle.
func dataStore() *store.Store {
	return store.New(database.GetDB())
}

// companyScope reads the optional companyId query parameter; 0 means
// unscoped. There is no authentication: callers pick their tenant.
func companyScope(c echo.Context) uint {
	raw := c.QueryParam("companyId")
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// storeError maps a store failure to an HTTP response. Unknown errors become
// a 500 with the fallback message so internals never leak to the caller.
func storeError(c echo.Context, log *zap.Logger, err error, fallback string) error {
	switch store.ErrKind(err) {
	case store.KindNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case store.KindConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case store.KindInsufficientAllocation:
		se := err.(*store.Error)
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     se.Message,
			"remaining": se.Remaining,
		})
	case store.KindInvalidInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		log.Error(fallback, zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
	}
}
