package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/suhailullakhan1/FruitMandi/internal/billing"
	"github.com/suhailullakhan1/FruitMandi/internal/middleware"
	"github.com/suhailullakhan1/FruitMandi/internal/model"
	"github.com/suhailullakhan1/FruitMandi/internal/store"
	"github.com/suhailullakhan1/FruitMandi/pkg/config"
	"github.com/suhailullakhan1/FruitMandi/pkg/logger"
	"github.com/suhailullakhan1/FruitMandi/prometheus"
	"go.uber.org/zap"
)

// BillHandler generates invoices and manages their status lifecycle.
type BillHandler struct {
	store *store.Store
	cfg   *config.BillingConfig
}

func NewBillHandler(s *store.Store, cfg *config.BillingConfig) *BillHandler {
	return &BillHandler{store: s, cfg: cfg}
}

// List returns bill summaries with merchant details, newest first.
func (h *BillHandler) List(c echo.Context) error {
	bills, err := h.store.ListBills(c.Request().Context())
	if err != nil {
		logger.FromEcho(c).Error("Failed to list bills", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch bills"})
	}
	return c.JSON(http.StatusOK, bills)
}

// Get returns one bill fully hydrated with merchant and line items. Reads are
// pure lookups: totals come back exactly as stored at creation.
func (h *BillHandler) Get(c echo.Context) error {
	bill, err := h.store.GetBillByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bill not found"})
		}
		logger.FromEcho(c).Error("Failed to fetch bill", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch bill"})
	}
	return c.JSON(http.StatusOK, bill)
}

type billItemRequest struct {
	FruitID string          `json:"fruitId" validate:"required"`
	Weight  decimal.Decimal `json:"weight"`
	Rate    decimal.Decimal `json:"rate"`
}

type createBillRequest struct {
	BillData struct {
		MerchantID          string           `json:"merchantId" validate:"required"`
		TransportDeduction  *decimal.Decimal `json:"transportDeduction"`
		CommissionDeduction *decimal.Decimal `json:"commissionDeduction"`
		OtherDeduction      *decimal.Decimal `json:"otherDeduction"`
		CustomMessage       *string          `json:"customMessage"`
	} `json:"billData"`
	Items []billItemRequest `json:"items" validate:"required,min=1,dive"`
}

// Create generates a bill from its line items: per-item amounts, subtotal and
// net after deductions are computed here, a unique bill number is assigned,
// and the header plus items are persisted in one transaction.
func (h *BillHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req createBillRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return validationError(c, "bill data and items are required", err)
	}

	// Amounts must match the stored weight and rate exactly, so both are
	// normalized to their column scale before any arithmetic.
	lines := make([]billing.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, billing.LineItem{
			FruitID: item.FruitID,
			Weight:  item.Weight.Round(billing.WeightScale),
			Rate:    item.Rate.Round(billing.MoneyScale),
		})
	}

	deductions := billing.Deductions{
		Transport:  deductionOrZero(req.BillData.TransportDeduction),
		Commission: deductionOrZero(req.BillData.CommissionDeduction),
		Other:      deductionOrZero(req.BillData.OtherDeduction),
	}

	totals, err := billing.ComputeBill(lines, deductions)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	if _, err := h.store.GetMerchantByID(ctx, req.BillData.MerchantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "merchant not found"})
		}
		log.Error("Failed to look up merchant", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "bill creation failed"})
	}

	billNumber, err := h.uniqueBillNumber(c)
	if err != nil {
		log.Error("Failed to generate bill number", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "bill creation failed"})
	}

	now := time.Now()
	bill := &model.Bill{
		BillNumber:          billNumber,
		MerchantID:          req.BillData.MerchantID,
		Subtotal:            totals.Subtotal,
		TransportDeduction:  deductions.Transport.Round(billing.MoneyScale),
		CommissionDeduction: deductions.Commission.Round(billing.MoneyScale),
		OtherDeduction:      deductions.Other.Round(billing.MoneyScale),
		NetAmount:           totals.Net,
		CustomMessage:       req.BillData.CustomMessage,
		Status:              model.BillStatusPending,
		CreatedBy:           claims.UserID,
		DueDate:             now.AddDate(0, 0, h.cfg.DueDays),
	}

	items := make([]model.BillItem, 0, len(lines))
	for i, line := range lines {
		items = append(items, model.BillItem{
			FruitID: line.FruitID,
			Weight:  line.Weight,
			Rate:    line.Rate,
			Amount:  totals.Amounts[i],
		})
	}

	if err := h.store.CreateBill(ctx, bill, items); err != nil {
		log.Error("Failed to create bill", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "bill creation failed"})
	}

	prometheus.BillCreatedCounter.Inc()
	log.Info("Bill created",
		zap.String("bill_number", bill.BillNumber),
		zap.String("merchant_id", bill.MerchantID),
		zap.String("net_amount", bill.NetAmount.String()))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Bill created successfully",
		"bill":    bill,
	})
}

// UpdateStatus moves a bill out of pending. Completed and cancelled bills
// reject further transitions.
func (h *BillHandler) UpdateStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var req struct {
		Status string `json:"status" validate:"required,oneof=completed cancelled"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return validationError(c, "status must be completed or cancelled", err)
	}

	bill, err := h.store.UpdateBillStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bill not found"})
		case errors.Is(err, store.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, echo.Map{"error": "bill is not pending"})
		default:
			log.Error("Failed to update bill status", zap.String("bill_id", id), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update bill status"})
		}
	}

	prometheus.BillStatusCounter.WithLabelValues(req.Status).Inc()
	log.Info("Bill status updated",
		zap.String("bill_number", bill.BillNumber),
		zap.String("status", bill.Status))
	return c.JSON(http.StatusOK, bill)
}

// uniqueBillNumber builds a timestamp-based number and double-checks it
// against existing bills rather than trusting timestamp uniqueness alone.
func (h *BillHandler) uniqueBillNumber(c echo.Context) (string, error) {
	ctx := c.Request().Context()
	for attempt := 0; attempt < 5; attempt++ {
		number := fmt.Sprintf("%s-%d", h.cfg.NumberPrefix, time.Now().UnixMilli()+int64(attempt))
		exists, err := h.store.BillNumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", errors.New("could not generate a unique bill number")
}

func deductionOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
