package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/suhailullakhan1/FruitMandi/internal/handler"
	"github.com/suhailullakhan1/FruitMandi/internal/middleware"
	"github.com/suhailullakhan1/FruitMandi/internal/model"
	"github.com/suhailullakhan1/FruitMandi/internal/store"
	"github.com/suhailullakhan1/FruitMandi/pkg/config"
	"github.com/suhailullakhan1/FruitMandi/pkg/jwtutil"
	"github.com/suhailullakhan1/FruitMandi/pkg/otp"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testCookieName = "session_token"

type testApp struct {
	e     *echo.Echo
	store *store.Store
	jwt   *jwtutil.JWTUtil
}

// newTestApp wires the full route table against an in-memory database, the
// same shape as the production server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Merchant{},
		&model.Fruit{},
		&model.WeightEntry{},
		&model.Bill{},
		&model.BillItem{},
	))

	st := store.New(db)

	jwtCfg := &config.JWTConfig{
		SigningKey:      "test-signing-key",
		ExpirationHours: 1,
		CookieName:      testCookieName,
	}
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      jwtCfg.SigningKey,
		ExpirationHours: jwtCfg.ExpirationHours,
	})
	verifier := otp.NewStaticVerifier("123456", 5*time.Minute, zap.NewNop())
	billingCfg := &config.BillingConfig{NumberPrefix: "BILL", DueDays: 15}

	authHandler := handler.NewAuthHandler(st, jwt, verifier, jwtCfg)
	merchantHandler := handler.NewMerchantHandler(st)
	fruitHandler := handler.NewFruitHandler(st)
	weightEntryHandler := handler.NewWeightEntryHandler(st)
	billHandler := handler.NewBillHandler(st, billingCfg)
	dashboardHandler := handler.NewDashboardHandler(st)
	reportHandler := handler.NewReportHandler(st)

	e := echo.New()
	e.Validator = handler.NewValidator()

	auth := e.Group("/auth")
	auth.POST("/send-otp", authHandler.SendOTP)
	auth.POST("/verify-otp", authHandler.VerifyOTP)
	auth.POST("/logout", authHandler.Logout)

	sessionAuth := middleware.SessionAuthMiddleware(jwt, testCookieName)
	auth.GET("/me", authHandler.Me, sessionAuth)

	api := e.Group("", sessionAuth)
	api.GET("/dashboard/stats", dashboardHandler.Stats)
	api.GET("/merchants", merchantHandler.List)
	api.POST("/merchants", merchantHandler.Create, middleware.RequireRole(model.RoleCompany))
	api.GET("/fruits", fruitHandler.List)
	api.POST("/fruits", fruitHandler.Create, middleware.RequireRole(model.RoleCompany))
	api.PATCH("/fruits/:id/rate", fruitHandler.UpdateRate, middleware.RequireRole(model.RoleCompany))
	api.GET("/weight-entries", weightEntryHandler.List)
	api.POST("/weight-entries", weightEntryHandler.Create,
		middleware.RequireRole(model.RoleWriter, model.RoleCompany))
	api.GET("/bills", billHandler.List)
	api.GET("/bills/:id", billHandler.Get)
	api.POST("/bills", billHandler.Create, middleware.RequireRole(model.RoleCompany))
	api.PATCH("/bills/:id/status", billHandler.UpdateStatus, middleware.RequireRole(model.RoleCompany))
	api.GET("/reports/bills", reportHandler.BillsExport, middleware.RequireRole(model.RoleCompany))

	return &testApp{e: e, store: st, jwt: jwt}
}

// loginAs creates a user with the given role and returns its session cookie.
func (a *testApp) loginAs(t *testing.T, role string) (*model.User, *http.Cookie) {
	t.Helper()

	user := &model.User{
		Phone:    "+91" + role + "1",
		Role:     role,
		Name:     role + " user",
		IsActive: true,
	}
	require.NoError(t, a.store.CreateUser(context.Background(), user))

	token, err := a.jwt.GenerateToken(user.ID, user.Phone, user.Role, user.Name)
	require.NoError(t, err)

	return user, &http.Cookie{Name: testCookieName, Value: token}
}

func (a *testApp) request(t *testing.T, method, path string, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) seedMerchant(t *testing.T, code string) *model.Merchant {
	t.Helper()
	merchant := &model.Merchant{
		MerchantCode:   code,
		Name:           "Merchant " + code,
		Phone:          "+91000" + code,
		CommissionRate: decimal.NewFromFloat(5.00),
		IsActive:       true,
	}
	require.NoError(t, a.store.CreateMerchant(context.Background(), merchant))
	return merchant
}

func (a *testApp) seedFruit(t *testing.T, name, variety, rate string) *model.Fruit {
	t.Helper()
	r, err := decimal.NewFromString(rate)
	require.NoError(t, err)
	fruit := &model.Fruit{Name: name, Variety: &variety, CurrentRate: r, Unit: "kg", IsActive: true}
	require.NoError(t, a.store.CreateFruit(context.Background(), fruit))
	return fruit
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}
