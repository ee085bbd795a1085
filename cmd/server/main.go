package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/niaga-platform/service-analytics/internal/analytics"
	"github.com/niaga-platform/service-analytics/internal/config"
	"github.com/niaga-platform/service-analytics/internal/database"
	gadomain "github.com/niaga-platform/service-analytics/internal/domain/ga"
	"github.com/niaga-platform/service-analytics/internal/events"
	"github.com/niaga-platform/service-analytics/internal/ga"
	"github.com/niaga-platform/service-analytics/internal/handlers"
	"github.com/niaga-platform/service-analytics/internal/logger"
	"github.com/niaga-platform/service-analytics/internal/middleware"
	"github.com/niaga-platform/service-analytics/internal/repository"
	"github.com/niaga-platform/service-analytics/internal/routes"
	"github.com/niaga-platform/service-analytics/internal/services"
)

func main() {
	// Load .env file in development
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize Sentry for error tracking
	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			Release:          cfg.Sentry.Release,
			TracesSampleRate: 0.1,
		}); err != nil {
			zapLogger.Warn("Failed to initialize Sentry", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Build the GA4 reporting client. Missing or malformed credentials
	// leave the client unset and the adapter serves fallback data.
	var reportClient analytics.ReportClient
	credentials, err := cfg.Analytics.Credentials()
	if err != nil {
		zapLogger.Warn("Failed to load analytics credentials, running in fallback mode", zap.Error(err))
	} else {
		client, err := ga.NewClient(&ga.ClientConfig{
			CredentialsJSON: credentials,
			Logger:          zapLogger,
			RetryPolicy:     gadomain.DefaultRetryPolicy().WithMaxAttempts(cfg.Analytics.MaxRetries),
		})
		switch {
		case errors.Is(err, gadomain.ErrNotConfigured):
			zapLogger.Info("No analytics credentials configured, running in fallback mode")
		case err != nil:
			zapLogger.Warn("Failed to create analytics client, running in fallback mode", zap.Error(err))
		default:
			reportClient = client
		}
	}

	if cfg.Analytics.PropertyID == "" {
		zapLogger.Info("No analytics property configured, running in fallback mode")
	}

	// Initialize the reporting adapter
	adapter := analytics.NewAdapter(&analytics.AdapterConfig{
		Client:     reportClient,
		PropertyID: cfg.Analytics.PropertyID,
		Logger:     zapLogger,
	})

	// Connect to database for snapshot history (optional)
	var snapshotService *services.SnapshotService
	db, err := database.Connect(cfg.Database.DSN(), zapLogger)
	if err != nil {
		zapLogger.Warn("Failed to connect to database, snapshot history disabled", zap.Error(err))
	} else {
		snapshotRepo := repository.NewSnapshotRepository(db)
		snapshotService = services.NewSnapshotService(snapshotRepo, zapLogger)

		// Prune old snapshots daily so the history table stays bounded.
		retention := time.Duration(cfg.Analytics.SnapshotRetentionDays) * 24 * time.Hour
		go func() {
			ticker := time.NewTicker(24 * time.Hour)
			defer ticker.Stop()
			snapshotService.Prune(context.Background(), retention)
			for range ticker.C {
				snapshotService.Prune(context.Background(), retention)
			}
		}()
	}

	// Connect to Redis for report caching (optional)
	var cacheService *services.ReportCacheService
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		zapLogger.Warn("Failed to connect to Redis, report caching disabled", zap.Error(err))
	} else {
		ttl := time.Duration(cfg.Analytics.CacheTTLMinutes) * time.Minute
		cacheService = services.NewReportCacheService(redisClient, ttl, zapLogger)
	}

	// Connect to NATS (optional - only if configured)
	var eventPublisher *events.Publisher
	if cfg.NATS.URL != "" {
		natsConn, err := nats.Connect(cfg.NATS.URL)
		if err != nil {
			zapLogger.Warn("Failed to connect to NATS, telemetry events disabled", zap.Error(err))
		} else {
			zapLogger.Info("Connected to NATS", zap.String("url", cfg.NATS.URL))
			eventPublisher = events.NewPublisher(natsConn, zapLogger)
		}
	}

	// Initialize handlers
	analyticsHandler := handlers.NewAnalyticsHandler(
		adapter,
		cacheService,
		snapshotService,
		eventPublisher,
		zapLogger,
	)

	// Set Gin mode
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	if cfg.Sentry.DSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	// CORS - use environment-based configuration
	allowedOrigins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")
	router.Use(middleware.CORSWithOrigins(allowedOrigins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "analytics",
			"time":    time.Now().UTC(),
		})
	})

	// Setup routes using the routes package
	routes.SetupRoutes(router, &routes.RouteConfig{
		AnalyticsHandler: analyticsHandler,
		JWTSecret:        cfg.JWT.Secret,
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		zapLogger.Info("🚀 Analytics service starting on port " + cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
