package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/suhailullakhan1/FruitMandi/internal/model"
	"github.com/suhailullakhan1/FruitMandi/internal/store"
	"github.com/suhailullakhan1/FruitMandi/pkg/logger"
	"go.uber.org/zap"
)

// FruitHandler serves the priced-commodity reference data.
type FruitHandler struct {
	store *store.Store
}

func NewFruitHandler(s *store.Store) *FruitHandler {
	return &FruitHandler{store: s}
}

// List returns all active fruits for selection UIs.
func (h *FruitHandler) List(c echo.Context) error {
	fruits, err := h.store.ListFruits(c.Request().Context())
	if err != nil {
		logger.FromEcho(c).Error("Failed to list fruits", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch fruits"})
	}
	return c.JSON(http.StatusOK, fruits)
}

// Create adds a new priced fruit.
func (h *FruitHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Name    string          `json:"name" validate:"required"`
		Variety *string         `json:"variety"`
		Rate    decimal.Decimal `json:"rate"`
		Unit    string          `json:"unit"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return validationError(c, "name is required", err)
	}
	if !req.Rate.IsPositive() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rate must be a positive amount"})
	}

	unit := req.Unit
	if unit == "" {
		unit = "kg"
	}

	fruit := &model.Fruit{
		Name:        req.Name,
		Variety:     req.Variety,
		CurrentRate: req.Rate.Round(2),
		Unit:        unit,
		IsActive:    true,
	}
	if err := h.store.CreateFruit(c.Request().Context(), fruit); err != nil {
		log.Error("Failed to create fruit", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fruit creation failed"})
	}

	log.Info("Fruit created", zap.String("name", fruit.Name))
	return c.JSON(http.StatusCreated, fruit)
}

// UpdateRate overwrites a fruit's current rate. Past weight entries and bill
// items keep their stored snapshots.
func (h *FruitHandler) UpdateRate(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var req struct {
		Rate decimal.Decimal `json:"rate"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if !req.Rate.IsPositive() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rate must be a positive amount"})
	}

	fruit, err := h.store.UpdateFruitRate(c.Request().Context(), id, req.Rate.Round(2))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "fruit not found"})
		}
		log.Error("Failed to update fruit rate", zap.String("fruit_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update rate"})
	}

	log.Info("Fruit rate updated",
		zap.String("fruit_id", fruit.ID),
		zap.String("rate", fruit.CurrentRate.String()))
	return c.JSON(http.StatusOK, fruit)
}
