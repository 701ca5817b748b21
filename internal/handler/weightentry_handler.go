package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/suhailullakhan1/FruitMandi/internal/billing"
	"github.com/suhailullakhan1/FruitMandi/internal/middleware"
	"github.com/suhailullakhan1/FruitMandi/internal/model"
	"github.com/suhailullakhan1/FruitMandi/internal/store"
	"github.com/suhailullakhan1/FruitMandi/pkg/logger"
	"github.com/suhailullakhan1/FruitMandi/prometheus"
	"go.uber.org/zap"
)

// WeightEntryHandler records and lists intake transactions.
type WeightEntryHandler struct {
	store *store.Store
}

func NewWeightEntryHandler(s *store.Store) *WeightEntryHandler {
	return &WeightEntryHandler{store: s}
}

// List returns entries with merchant, fruit and recorder hydrated, optionally
// filtered to one merchant via ?merchantId=.
func (h *WeightEntryHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	var entries []model.WeightEntry
	var err error
	if merchantID := c.QueryParam("merchantId"); merchantID != "" {
		entries, err = h.store.ListWeightEntriesByMerchant(ctx, merchantID)
	} else {
		entries, err = h.store.ListWeightEntries(ctx)
	}
	if err != nil {
		logger.FromEcho(c).Error("Failed to list weight entries", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch weight entries"})
	}
	return c.JSON(http.StatusOK, entries)
}

type createWeightEntryRequest struct {
	MerchantID   string            `json:"merchantId" validate:"required"`
	FruitID      string            `json:"fruitId" validate:"required"`
	EntryType    string            `json:"entryType" validate:"omitempty,oneof=single multiple"`
	Weight       *decimal.Decimal  `json:"weight"`
	CrateWeights []decimal.Decimal `json:"crateWeights"`
	Rate         *decimal.Decimal  `json:"rate"`
	Notes        *string           `json:"notes"`
}

// Create records one intake transaction. Single entries take the weight as
// given; multiple entries sum the per-crate weights and derive the average.
// The rate defaults to the fruit's current rate and the total amount is the
// caller-visible snapshot of weight × rate.
func (h *WeightEntryHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req createWeightEntryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return validationError(c, "merchantId and fruitId are required", err)
	}

	entryType := req.EntryType
	if entryType == "" {
		entryType = model.EntryTypeSingle
	}

	ctx := c.Request().Context()
	if _, err := h.store.GetMerchantByID(ctx, req.MerchantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "merchant not found"})
		}
		log.Error("Failed to look up merchant", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record weight entry"})
	}

	fruit, err := h.store.GetFruitByID(ctx, req.FruitID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "fruit not found"})
		}
		log.Error("Failed to look up fruit", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record weight entry"})
	}

	rate := fruit.CurrentRate
	if req.Rate != nil {
		rate = *req.Rate
	}
	if !rate.IsPositive() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rate must be a positive amount"})
	}

	entry := &model.WeightEntry{
		MerchantID: req.MerchantID,
		FruitID:    req.FruitID,
		EntryType:  entryType,
		Rate:       rate.Round(billing.MoneyScale),
		RecordedBy: claims.UserID,
		Notes:      req.Notes,
	}

	switch entryType {
	case model.EntryTypeMultiple:
		agg, err := billing.AggregateCrates(req.CrateWeights)
		if err != nil {
			if errors.Is(err, billing.ErrNoCrates) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "crate weights are required for multiple entries"})
			}
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "crate weights must be positive amounts"})
		}
		entry.Weight = agg.TotalWeight
		entry.NumberOfCrates = &agg.NumberOfCrates
		entry.AverageWeightPerCrate = &agg.AveragePerCrate
	default:
		if req.Weight == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "weight is required for single entries"})
		}
		entry.Weight = req.Weight.Round(billing.WeightScale)
	}

	total, err := billing.EntryTotal(entry.Weight, entry.Rate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "weight must be a positive amount"})
	}
	entry.TotalAmount = total

	if err := h.store.CreateWeightEntry(ctx, entry); err != nil {
		log.Error("Failed to create weight entry", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record weight entry"})
	}

	prometheus.WeightEntryCounter.WithLabelValues(entryType).Inc()
	log.Info("Weight entry recorded",
		zap.String("entry_id", entry.ID),
		zap.String("entry_type", entryType),
		zap.String("weight", entry.Weight.String()),
		zap.String("total_amount", entry.TotalAmount.String()))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Weight entry recorded successfully",
		"entry":   entry,
	})
}
