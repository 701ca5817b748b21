package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/suhailullakhan1/FruitMandi/internal/model"
	"github.com/suhailullakhan1/FruitMandi/internal/store"
	"github.com/suhailullakhan1/FruitMandi/pkg/logger"
	"go.uber.org/zap"
)

// MerchantHandler serves the trading-partner reference data.
type MerchantHandler struct {
	store *store.Store
}

func NewMerchantHandler(s *store.Store) *MerchantHandler {
	return &MerchantHandler{store: s}
}

// List returns active merchants, newest first.
func (h *MerchantHandler) List(c echo.Context) error {
	merchants, err := h.store.ListMerchants(c.Request().Context())
	if err != nil {
		logger.FromEcho(c).Error("Failed to list merchants", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch merchants"})
	}
	return c.JSON(http.StatusOK, merchants)
}

// Create registers a merchant profile with a generated unique code.
func (h *MerchantHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Name           string           `json:"name" validate:"required"`
		Phone          string           `json:"phone" validate:"required"`
		Address        *string          `json:"address"`
		CommissionRate *decimal.Decimal `json:"commissionRate"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return validationError(c, "name and phone are required", err)
	}

	commission := decimal.NewFromFloat(5.00)
	if req.CommissionRate != nil {
		if req.CommissionRate.IsNegative() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "commission rate must not be negative"})
		}
		commission = *req.CommissionRate
	}

	code, err := generateMerchantCode(c.Request().Context(), h.store)
	if err != nil {
		log.Error("Failed to generate merchant code", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "merchant creation failed"})
	}

	merchant := &model.Merchant{
		MerchantCode:   code,
		Name:           req.Name,
		Phone:          req.Phone,
		Address:        req.Address,
		CommissionRate: commission,
		IsActive:       true,
	}
	if err := h.store.CreateMerchant(c.Request().Context(), merchant); err != nil {
		log.Error("Failed to create merchant", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "merchant creation failed"})
	}

	log.Info("Merchant created",
		zap.String("merchant_code", merchant.MerchantCode),
		zap.String("name", merchant.Name))

	return c.JSON(http.StatusCreated, merchant)
}

// generateMerchantCode derives an M-prefixed code from the timestamp and
// re-rolls on the unlikely collision.
func generateMerchantCode(ctx context.Context, s *store.Store) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		millis := time.Now().UnixMilli()
		code := fmt.Sprintf("M%06d", (millis+int64(attempt))%1000000)
		exists, err := s.MerchantCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique merchant code")
}
