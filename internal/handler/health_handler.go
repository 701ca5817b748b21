package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suhailullakhan1/FruitMandi/internal/store"
)

// HealthHandler reports service liveness and database reachability.
type HealthHandler struct {
	store *store.Store
}

func NewHealthHandler(s *store.Store) *HealthHandler {
	return &HealthHandler{store: s}
}

// Check pings the database and reports status.
func (h *HealthHandler) Check(c echo.Context) error {
	sqlDB, err := h.store.DB().DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status": "degraded",
			"db":     "unreachable",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
