package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"permit-service/internal/handler"
	mid "permit-service/internal/middleware"
	"permit-service/pkg/config"
	"permit-service/pkg/database"
	"permit-service/pkg/logger"
	"permit-service/prometheus"
)

func main() {
	// Load configuration (reads .env when present)
	appConfig, err := config.Load("permit-service")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting permit-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database, run migrations and seed the admin tenant
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Company API routes
	companyAPI := e.Group("/api/companies")
	companyAPI.GET("", handler.ListCompanies)
	companyAPI.POST("", handler.CreateCompany)
	companyAPI.PUT("/:id", handler.UpdateCompany)
	companyAPI.DELETE("/:id", handler.DeleteCompany)

	// Allocation API routes
	allocationAPI := e.Group("/api/allocations")
	allocationAPI.GET("", handler.ListAllocations)
	allocationAPI.POST("", handler.SetAllocation)

	// Truck API routes
	truckAPI := e.Group("/api/trucks")
	truckAPI.GET("", handler.ListTrucks)
	truckAPI.GET("/export", handler.ExportTrucks)
	truckAPI.GET("/:id", handler.GetTruck)
	truckAPI.POST("", handler.CreateTruck)
	truckAPI.POST("/import", handler.ImportTrucks)
	truckAPI.POST("/generate", handler.GeneratePermit)
	truckAPI.POST("/loading", handler.MarkLoaded)
	truckAPI.POST("/check-duplicates", handler.CheckDuplicates)
	truckAPI.PUT("/:id", handler.UpdateTruck)
	truckAPI.DELETE("", handler.ClearTrucks)
	truckAPI.DELETE("/:id", handler.DeleteTruck)

	// Stats, audit and backup routes
	e.GET("/api/stats", handler.GetStats)
	e.GET("/api/audit", handler.ListAuditLogs)
	e.GET("/api/backup", handler.GetBackup)
	e.POST("/api/backup", handler.RestoreBackup)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
