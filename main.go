package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"landlord-service/internal/config"
	"landlord-service/internal/handlers"
	"landlord-service/internal/metrics"
	"landlord-service/internal/middleware"
	natsClient "landlord-service/internal/nats"
	redisClient "landlord-service/internal/redis"
	"landlord-service/internal/services"
	"landlord-service/internal/store"
)

func main() {
	// Load .env if present (development convenience)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.New()

	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if cfg.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	// Initialize the durable backend
	st, err := initStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage backend: %v", err)
	}
	log.Printf("Storage backend: %s", st.Kind())

	// Initialize Redis connection (optional)
	var rc *redisClient.Client
	rc, err = redisClient.NewClient(cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		log.Println("Dashboard summary caching will be disabled")
		rc = nil
	} else {
		log.Println("Connected to Redis successfully")
	}

	// Initialize NATS connection for event publishing (optional)
	var nc *natsClient.Client
	nc, err = natsClient.NewClient(nil) // Uses NATS_URL env var or default
	if err != nil {
		log.Printf("Warning: Failed to connect to NATS: %v", err)
		log.Println("Event publishing will be disabled")
		nc = nil
	} else {
		log.Println("Connected to NATS successfully")
		defer nc.Close()
	}

	// Initialize the orchestration layer and load collections
	dataSvc := services.NewDataService(st, logger)
	dataSvc.SetCascadeRepairs(cfg.Store.CascadeRepairs)
	dataSvc.SetDemoFallback(!cfg.IsProduction())
	if nc != nil {
		dataSvc.SetEventPublisher(nc)
	}
	if rc != nil {
		dataSvc.SetCache(rc)
	}

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 60*time.Second)
	dataSvc.Load(loadCtx)
	loadCancel()

	syncSvc := services.NewSyncService(dataSvc, logger)
	if nc != nil {
		syncSvc.SetEventPublisher(nc)
	}
	if rc != nil {
		syncSvc.SetCache(rc)
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(st)
	if nc != nil {
		healthHandler.SetNATS(nc)
	}
	if rc != nil {
		healthHandler.SetRedis(rc)
	}
	propertyHandler := handlers.NewPropertyHandler(dataSvc)
	tenantHandler := handlers.NewTenantHandler(dataSvc)
	paymentHandler := handlers.NewPaymentHandler(dataSvc)
	repairHandler := handlers.NewRepairHandler(dataSvc)
	syncHandler := handlers.NewSyncHandler(syncSvc)
	dashboardHandler := handlers.NewDashboardHandler(dataSvc)
	if rc != nil {
		dashboardHandler.SetCache(rc)
	}

	router := setupRouter(
		healthHandler,
		propertyHandler,
		tenantHandler,
		paymentHandler,
		repairHandler,
		syncHandler,
		dashboardHandler,
	)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting landlord-service on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if rc != nil {
		if err := rc.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	}

	log.Println("Server exited")
}

// initStore builds the storage backend selected by STORE_BACKEND. The
// in-memory store is the fallback for unknown values so a misconfigured
// deployment still comes up.
func initStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case store.KindPostgres:
		dbc := cfg.Store.Database
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			dbc.Host, dbc.Port, dbc.User, dbc.Password, dbc.Name, dbc.SSLMode)
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		st := store.NewGormStore(db, store.KindPostgres)
		if err := st.AutoMigrate(); err != nil {
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
		return st, nil

	case store.KindSQLite:
		db, err := gorm.Open(sqlite.Open(cfg.Store.Database.SQLitePath), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		st := store.NewGormStore(db, store.KindSQLite)
		if err := st.AutoMigrate(); err != nil {
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
		return st, nil

	case store.KindSheets:
		sc := cfg.Store.Sheets
		tokens := store.NewTokenSource(store.TokenConfig{
			TokenURL:     sc.TokenURL,
			ClientID:     sc.ClientID,
			ClientSecret: sc.ClientSecret,
			RefreshToken: sc.RefreshToken,
		})
		logger := logrus.New()
		return store.NewSheetsStore(store.SheetsConfig{
			BaseURL:       sc.BaseURL,
			SpreadsheetID: sc.SpreadsheetID,
		}, tokens, logger), nil

	case store.KindMemory:
		return store.NewMemoryStore(), nil

	default:
		log.Printf("Unknown STORE_BACKEND %q, falling back to in-memory store", cfg.Store.Backend)
		return store.NewMemoryStore(), nil
	}
}

func setupRouter(
	healthHandler *handlers.HealthHandler,
	propertyHandler *handlers.PropertyHandler,
	tenantHandler *handlers.TenantHandler,
	paymentHandler *handlers.PaymentHandler,
	repairHandler *handlers.RepairHandler,
	syncHandler *handlers.SyncHandler,
	dashboardHandler *handlers.DashboardHandler,
) *gin.Engine {
	// Set Gin mode
	if getEnv("GIN_MODE", "debug") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"http://localhost:3000", // Dashboard frontend (local)
		"http://localhost:5173", // Dashboard frontend (vite dev server)
	}
	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, extra)
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"}
	corsConfig.AllowCredentials = true

	// Global middleware
	router.Use(cors.New(corsConfig))          // CORS
	router.Use(gin.Recovery())                // Panic recovery
	router.Use(middleware.RequestID())        // Correlation IDs
	router.Use(middleware.StructuredLogger()) // Structured logging
	router.Use(metrics.Middleware())          // Prometheus metrics

	// Metrics endpoint (Prometheus scraping)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health endpoints
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		properties := v1.Group("/properties")
		{
			properties.GET("", propertyHandler.List)
			properties.POST("", propertyHandler.Create)
			properties.GET("/:id", propertyHandler.Get)
			properties.PUT("/:id", propertyHandler.Update)
			properties.DELETE("/:id", propertyHandler.Delete)
		}

		tenants := v1.Group("/tenants")
		{
			tenants.GET("", tenantHandler.List)
			tenants.POST("", tenantHandler.Create)
			tenants.GET("/:id", tenantHandler.Get)
			tenants.PUT("/:id", tenantHandler.Update)
			tenants.DELETE("/:id", tenantHandler.Delete)
		}

		payments := v1.Group("/payments")
		{
			payments.GET("", paymentHandler.List)
			payments.POST("", paymentHandler.Create)
			payments.POST("/generate", paymentHandler.Generate)
			payments.GET("/:id", paymentHandler.Get)
			payments.PUT("/:id", paymentHandler.Update)
			payments.DELETE("/:id", paymentHandler.Delete)
		}

		repairs := v1.Group("/repairs")
		{
			repairs.GET("", repairHandler.List)
			repairs.POST("", repairHandler.Create)
			repairs.GET("/:id", repairHandler.Get)
			repairs.PUT("/:id", repairHandler.Update)
			repairs.DELETE("/:id", repairHandler.Delete)
		}

		sync := v1.Group("/sync")
		{
			sync.POST("", syncHandler.Trigger)
			sync.GET("/status", syncHandler.Status)
		}

		v1.GET("/dashboard/summary", dashboardHandler.Summary)
	}

	return router
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
