package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suhailullakhan1/FruitMandi/internal/store"
	"github.com/suhailullakhan1/FruitMandi/pkg/logger"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ReportHandler exports trade data as spreadsheets.
type ReportHandler struct {
	store *store.Store
}

func NewReportHandler(s *store.Store) *ReportHandler {
	return &ReportHandler{store: s}
}

// BillsExport streams all bills as an xlsx workbook, one row per bill.
func (h *ReportHandler) BillsExport(c echo.Context) error {
	log := logger.FromEcho(c)

	bills, err := h.store.ListBills(c.Request().Context())
	if err != nil {
		log.Error("Failed to load bills for export", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to export bills"})
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Bills"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Bill Number", "Merchant", "Merchant Code", "Subtotal",
		"Transport", "Commission", "Other", "Net Amount",
		"Status", "Due Date", "Created At",
	}
	for i, head := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, head)
	}

	for row, bill := range bills {
		merchantName, merchantCode := "", ""
		if bill.Merchant != nil {
			merchantName = bill.Merchant.Name
			merchantCode = bill.Merchant.MerchantCode
		}

		values := []interface{}{
			bill.BillNumber,
			merchantName,
			merchantCode,
			bill.Subtotal.StringFixed(2),
			bill.TransportDeduction.StringFixed(2),
			bill.CommissionDeduction.StringFixed(2),
			bill.OtherDeduction.StringFixed(2),
			bill.NetAmount.StringFixed(2),
			bill.Status,
			bill.DueDate.Format("2006-01-02"),
			bill.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Error("Failed to build bills workbook", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to export bills"})
	}

	filename := fmt.Sprintf("bills-%s.xlsx", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
