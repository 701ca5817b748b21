package handler_test

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suhailullakhan1/FruitMandi/internal/model"
	"github.com/xuri/excelize/v2"
)

func TestBillsExport(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.loginAs(t, model.RoleCompany)
	merchant := app.seedMerchant(t, "M000001")
	fruit := app.seedFruit(t, "Mango", "Large", "50.00")

	items := fmt.Sprintf(`[{"fruitId":%q,"weight":"10.000","rate":"50.00"}]`, fruit.ID)
	created := app.createBill(t, cookie, merchant.ID, items, `,"transportDeduction":"50.00"`)

	rec := app.request(t, http.MethodGet, "/reports/bills", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bills")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bill Number", rows[0][0])
	assert.Equal(t, created.Bill.BillNumber, rows[1][0])
	assert.Equal(t, "Merchant M000001", rows[1][1])
	assert.Equal(t, "M000001", rows[1][2])
	assert.Equal(t, "500.00", rows[1][3])
	assert.Equal(t, "450.00", rows[1][7])
	assert.Equal(t, model.BillStatusPending, rows[1][8])
}

func TestBillsExportWriterForbidden(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.loginAs(t, model.RoleWriter)

	rec := app.request(t, http.MethodGet, "/reports/bills", "", cookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
