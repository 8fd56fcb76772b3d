package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stickerpack-service/internal/assets"
	"stickerpack-service/internal/config"
	"stickerpack-service/internal/delivery"
	httpHandler "stickerpack-service/internal/handler/http"
	"stickerpack-service/internal/ratelimit"
	"stickerpack-service/internal/repository/postgres"
	"stickerpack-service/internal/service"
	"stickerpack-service/internal/validation"
	"stickerpack-service/pkg/logger"
)

func main() {
	// ========================================================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================================================
	// .env is optional; in containers everything comes from the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// ========================================================================
	// STEP 2: INITIALIZE STRUCTURED LOGGER
	// ========================================================================
	appLogger := logger.New(cfg.App.LogLevel)
	appLogger.Info("Starting Sticker Pack Service",
		"environment", cfg.App.Environment,
		"port", cfg.Server.Port,
	)

	// ========================================================================
	// STEP 3: INITIALIZE DATABASE CONNECTION POOL
	// ========================================================================
	ctx := context.Background()
	db, err := postgres.InitDB(
		ctx,
		cfg.Database.DatabaseDSN(),
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime,
	)
	if err != nil {
		appLogger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()
	appLogger.Info("Database connection established")

	// ========================================================================
	// STEP 4: INITIALIZE REDIS
	// ========================================================================
	// Redis backs both the asset cache and the rate limiter. The service can
	// run without it, so a connection failure only degrades those features.
	redisClient, err := assets.InitRedis(cfg.Redis.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		appLogger.Warn("Redis unavailable, caching and rate limiting disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		appLogger.Info("Redis connection established")
	}

	// ========================================================================
	// STEP 5: DEPENDENCY INJECTION - BUILD THE DEPENDENCY GRAPH
	// ========================================================================
	// Asset loading: filesystem loader, optionally wrapped in the Redis cache.
	dirLoader := assets.NewDirLoader(cfg.Assets.BaseDir)
	var loader validation.AssetLoader = dirLoader
	if redisClient != nil && cfg.Assets.CacheEnabled {
		loader = assets.NewCachedLoader(dirLoader, redisClient, cfg.Redis.CacheTTL)
	}

	// Validation engine. The image probe is optional; without it size and
	// dimension checks still run, only deep sticker inspection is skipped.
	var probe validation.ImageProbe = validation.NopProbe{}
	if cfg.App.ProbeEnabled {
		probe = validation.WebPProbe{}
	}
	packValidator := validation.New(cfg.Limits, probe)

	// Repositories (Data Access Layer)
	packRepo := postgres.NewPackRepository(db)
	eventRepo := postgres.NewEventRepository(db)

	// Host-app bridge client
	deliverer := delivery.NewHTTPClient(cfg.Delivery.Endpoint, cfg.Delivery.Timeout, appLogger.Logger)

	// Service (Business Logic Layer)
	packService := service.NewPackService(packRepo, eventRepo, packValidator, loader, deliverer, appLogger.Logger)

	// HTTP handler (Presentation Layer)
	handler := httpHandler.NewHandler(packService, appLogger.Logger)

	// ========================================================================
	// STEP 6: SET UP HTTP ROUTES
	// ========================================================================
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/packs", handler.Packs)
	mux.HandleFunc("/api/v1/packs/validate", handler.ValidatePack)
	mux.HandleFunc("/api/v1/packs/", handler.PackByIdentifier) // Trailing slash matches /api/v1/packs/*

	// Health check endpoint (for Kubernetes liveness probes)
	mux.HandleFunc("/health/live", handler.HealthCheck)

	// Prometheus scrape endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// ========================================================================
	// STEP 7: APPLY MIDDLEWARE CHAIN
	// ========================================================================
	// Execution order (outside-in):
	// Request -> Recovery -> Logging -> RequestID -> CORS -> RateLimit -> Metrics -> Handler
	middlewares := []func(http.Handler) http.Handler{
		httpHandler.RecoveryMiddleware(appLogger.Logger),
		httpHandler.LoggingMiddleware(appLogger.Logger),
		httpHandler.RequestIDMiddleware,
		httpHandler.CORSMiddleware,
	}
	if redisClient != nil && cfg.App.RateLimitEnabled {
		limiter := ratelimit.New(redisClient, cfg.App.RateLimitPerMinute, time.Minute)
		middlewares = append(middlewares, httpHandler.RateLimitMiddleware(limiter))
	}
	middlewares = append(middlewares, httpHandler.MetricsMiddleware)

	finalHandler := httpHandler.Chain(middlewares...)(mux)

	// ========================================================================
	// STEP 8: CREATE AND START HTTP SERVER
	// ========================================================================
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      finalHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", "error", err)
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// ========================================================================
	// STEP 9: GRACEFUL SHUTDOWN
	// ========================================================================
	// Stop accepting new requests, then give in-flight ones 30s to drain.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	appLogger.Info("Server exited gracefully")
}
