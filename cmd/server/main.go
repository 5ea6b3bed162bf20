package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"linkstat/internal/config"
	"linkstat/internal/handlers"
	"linkstat/internal/repository"
	"linkstat/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(handler)
}

func Run(ctx context.Context) error {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Setup Logger
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Database
	db, err := repository.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	logger.Info("Preparing database schema...")
	if err := repository.PrepareSchema(cfg, db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// 4. Initialize Redis (optional)
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = repository.InitRedis(cfg.RedisURL, cfg.RedisPassword, 0)
		if err != nil {
			logger.Warn("Failed to connect to Redis, redirect cache disabled", "error", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	// 5. Initialize Services
	geoIPService := services.NewGeoIPService(logger)
	if err := geoIPService.Open(cfg.GeoIPDBPath); err != nil {
		logger.Warn("GeoIP database unavailable, lookups disabled", "path", cfg.GeoIPDBPath, "error", err)
	}
	defer geoIPService.Close()

	store := repository.NewGormStore(db)
	cache := repository.NewURLCache(rdb, cfg.CacheTTL)
	auditService := services.NewAuditService(db, logger)
	registry := services.NewRegistry(store, cache, auditService, logger)
	recorder := services.NewRecorder(store, geoIPService, logger, services.RecorderOptions{
		MaskIPs:   cfg.MaskIPs,
		QueueSize: cfg.ClickQueueSize,
	})
	qrService := services.NewQRService()

	var rateLimiter *services.IPRateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = services.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, logger)
	}

	// 6. Setup Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	h := handlers.NewHandler(cfg, logger, registry, recorder, qrService)
	r := h.SetupRouter(rateLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 7. Start Background Workers
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var workers sync.WaitGroup
	workers.Add(2)
	go func() {
		defer workers.Done()
		auditService.Start(workerCtx)
	}()
	go func() {
		defer workers.Done()
		recorder.Start(workerCtx, cfg.ClickWorkers)
	}()
	if rateLimiter != nil {
		go rateLimiter.StartCleanup(workerCtx, 10*time.Minute)
	}

	// 8. Start Server with Graceful Shutdown
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Stop the workers only after the server so in-flight redirects can
	// still enqueue; they drain their queues before returning.
	workerCancel()
	workers.Wait()

	logger.Info("Server exiting")
	return nil
}
