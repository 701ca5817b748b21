package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suhailullakhan1/FruitMandi/internal/model"
)

func TestCreateMerchantAsCompany(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.loginAs(t, model.RoleCompany)

	rec := app.request(t, http.MethodPost, "/merchants",
		`{"name":"Fresh Fruits Co","phone":"+914444","address":"Market Road","commissionRate":"7.50"}`,
		cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	var merchant model.Merchant
	decodeBody(t, rec, &merchant)
	assert.Equal(t, "Fresh Fruits Co", merchant.Name)
	assert.Regexp(t, `^M\d{6}$`, merchant.MerchantCode)
	assert.Equal(t, "7.50", merchant.CommissionRate.StringFixed(2))
	assert.True(t, merchant.IsActive)
}

func TestCreateMerchantDefaultsCommission(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.loginAs(t, model.RoleCompany)

	rec := app.request(t, http.MethodPost, "/merchants",
		`{"name":"Plain","phone":"+915555"}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	var merchant model.Merchant
	decodeBody(t, rec, &merchant)
	assert.Equal(t, "5.00", merchant.CommissionRate.StringFixed(2))
}

func TestCreateMerchantValidation(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.loginAs(t, model.RoleCompany)

	rec := app.request(t, http.MethodPost, "/merchants", `{"name":"No Phone"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.Details)
	assert.Equal(t, "Phone", resp.Details[0].Field)
}

func TestWriterCannotCreateMerchant(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.loginAs(t, model.RoleWriter)

	rec := app.request(t, http.MethodPost, "/merchants",
		`{"name":"Nope","phone":"+916666"}`, cookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	merchants, err := app.store.ListMerchants(context.Background())
	require.NoError(t, err)
	assert.Empty(t, merchants, "rejected request must not create a merchant")
}

func TestListMerchants(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.loginAs(t, model.RoleWriter)
	app.seedMerchant(t, "M000001")
	app.seedMerchant(t, "M000002")

	rec := app.request(t, http.MethodGet, "/merchants", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var merchants []model.Merchant
	decodeBody(t, rec, &merchants)
	assert.Len(t, merchants, 2)
}
