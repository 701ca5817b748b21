package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suhailullakhan1/FruitMandi/internal/store"
	"github.com/suhailullakhan1/FruitMandi/pkg/logger"
	"github.com/suhailullakhan1/FruitMandi/prometheus"
	"go.uber.org/zap"
)

// DashboardHandler serves the landing-page aggregates.
type DashboardHandler struct {
	store *store.Store
}

func NewDashboardHandler(s *store.Store) *DashboardHandler {
	return &DashboardHandler{store: s}
}

// Stats recomputes today's numbers from source data on every call.
func (h *DashboardHandler) Stats(c echo.Context) error {
	defer prometheus.TrackDBOperation("dashboard_stats")(time.Now())

	stats, err := h.store.GetDashboardStats(c.Request().Context(), time.Now())
	if err != nil {
		logger.FromEcho(c).Error("Failed to compute dashboard stats", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch dashboard stats"})
	}

	return c.JSON(http.StatusOK, stats)
}
