package main

import (
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/suhailullakhan1/FruitMandi/internal/handler"
	"github.com/suhailullakhan1/FruitMandi/internal/middleware"
	"github.com/suhailullakhan1/FruitMandi/internal/model"
	"github.com/suhailullakhan1/FruitMandi/internal/store"
	"github.com/suhailullakhan1/FruitMandi/pkg/config"
	"github.com/suhailullakhan1/FruitMandi/pkg/database"
	"github.com/suhailullakhan1/FruitMandi/pkg/jwtutil"
	"github.com/suhailullakhan1/FruitMandi/pkg/logger"
	"github.com/suhailullakhan1/FruitMandi/pkg/metrics"
	"github.com/suhailullakhan1/FruitMandi/pkg/otp"
)

func main() {
	// Load configuration
	conf, err := config.Load("fruitmandi")
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.InitLogger(&logger.LogConfig{
		Level:       conf.Log.Level,
		Environment: conf.Server.Env,
		ServiceName: conf.ServiceName,
	})
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()

	// Initialize database connection
	db, err := database.InitDB(&conf.DB)
	if err != nil {
		log.Fatal("Failed to initialize database")
	}

	// Run migrations for trade models
	if err := database.MigrateModels(
		&model.User{},
		&model.Merchant{},
		&model.Fruit{},
		&model.WeightEntry{},
		&model.Bill{},
		&model.BillItem{},
	); err != nil {
		log.Fatal("Failed to migrate database models")
	}

	// Seed defaults on an empty database
	if err := database.SeedDefaults(db, log); err != nil {
		log.Fatal("Failed to seed database")
	}

	// Initialize JWT utility for session tokens
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      conf.JWT.SigningKey,
		ExpirationHours: conf.JWT.ExpirationHours,
	})

	// OTP verifier: static code for development, pluggable for a real gateway
	verifier := otp.NewStaticVerifier(conf.OTP.StaticCode, conf.OTP.TTL, log)

	// Initialize HTTP metrics
	httpMetrics := metrics.NewHTTPMetrics(conf.ServiceName)

	st := store.New(db)

	authHandler := handler.NewAuthHandler(st, jwt, verifier, &conf.JWT)
	merchantHandler := handler.NewMerchantHandler(st)
	fruitHandler := handler.NewFruitHandler(st)
	weightEntryHandler := handler.NewWeightEntryHandler(st)
	billHandler := handler.NewBillHandler(st, &conf.Billing)
	dashboardHandler := handler.NewDashboardHandler(st)
	reportHandler := handler.NewReportHandler(st)
	healthHandler := handler.NewHealthHandler(st)

	// Initialize Echo framework
	e := echo.New()
	e.Validator = handler.NewValidator()

	// Apply middleware
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(httpMetrics.Middleware())

	// Ops endpoints
	e.GET("/metrics", echo.WrapHandler(metrics.GetPrometheusHandler()))
	e.GET("/healthz", healthHandler.Check)

	// Public auth routes
	auth := e.Group("/auth")
	auth.POST("/send-otp", authHandler.SendOTP)
	auth.POST("/verify-otp", authHandler.VerifyOTP)
	auth.POST("/logout", authHandler.Logout)

	sessionAuth := middleware.SessionAuthMiddleware(jwt, conf.JWT.CookieName)
	auth.GET("/me", authHandler.Me, sessionAuth)

	// Secured routes
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

	// Start server
	log.Info("Starting fruitmandi on port " + conf.Server.Port)
	e.Logger.Fatal(e.Start(":" + conf.Server.Port))
}
