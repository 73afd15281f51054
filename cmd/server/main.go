package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/archive"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/b2bdata"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/domain"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/feedback"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/handler"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/linesheet"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/metrics"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/middleware"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/repository"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/selection"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/storage"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection (optional; without it the service
	// runs but keeps no generation history)
	var historyRepo *repository.HistoryRepository
	if cfg.DatabaseUrl != "" {
		db, err := sql.Open("pgx", cfg.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}

		// Run migrations
		if err := internal.RunMigrations(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Database ready")

		historyRepo = repository.NewHistoryRepository(db)
	} else {
		logger.Warn("DATABASE_URL not set; generation history disabled")
	}

	// Initialize storage for archival copies
	store, err := newStorage(cfg, logger)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}
	logger.Info("Storage ready", "provider", cfg.StorageProvider)

	// Initialize redis cache for business data (optional)
	var cache b2bdata.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := b2bdata.NewRedisCache(ctx, b2bdata.RedisCacheConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		}, logger)
		if err != nil {
			logger.Warn("redis unreachable; continuing without cache", "error", err)
		} else {
			defer redisCache.Close()
			cache = redisCache
			logger.Info("Redis cache ready", "addr", cfg.RedisAddr)
		}
	}

	// Buyer identity for this storefront session
	identity := domain.Identity{
		LocationID:  cfg.LocationID,
		CompanyID:   cfg.CompanyID,
		CompanyName: cfg.CompanyName,
		Email:       cfg.Email,
		Phone:       cfg.Phone,
	}

	// Initialize upstream clients
	dataClient, err := b2bdata.NewClient(b2bdata.Config{
		BaseURL:        cfg.LinesheetServiceURL,
		RequestTimeout: cfg.B2BDataTimeout,
	}, cache, logger)
	if err != nil {
		return fmt.Errorf("b2b data client initialization failed: %w", err)
	}

	generator, err := linesheet.NewClient(linesheet.ClientConfig{
		BaseURL:        cfg.LinesheetServiceURL,
		RequestTimeout: cfg.GenerationTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("linesheet client initialization failed: %w", err)
	}

	// Initialize core components
	sel := selection.New()
	fb := feedback.NewMachine(cfg.FeedbackDismissAfter)
	archiver := archive.NewService(store, historyRepo, logger)
	orchestrator := linesheet.NewOrchestrator(sel, fb, generator, archiver, cfg.LocationID, logger)

	// Initialize middleware
	isSecure := cfg.Env != "development"
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	rateLimitMw := middleware.NewRateLimitMiddleware(
		middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute, logger),
		logger,
	)

	// Initialize handlers
	var history handler.HistoryLister
	if historyRepo != nil {
		history = historyRepo
	}
	linesheetHandler := handler.NewLinesheetHandler(dataClient, sel, fb, orchestrator, history, identity, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics (basic auth when configured)
	mux.Handle("GET /metrics", metricsAuthMw.Handler(promhttp.Handler()))

	// Archived linesheets when using local storage
	if cfg.StorageProvider == storage.ProviderLocal {
		filesFS := http.FileServer(http.Dir(cfg.LocalStoragePath))
		mux.Handle("GET /files/", http.StripPrefix("/files/", filesFS))
	}

	// Portal API
	linesheetHandler.RegisterRoutes(mux)

	// Generation is the expensive path; it gets its own rate limit
	mux.Handle("POST /api/linesheet/generate",
		rateLimitMw.Limit(http.HandlerFunc(linesheetHandler.HandleGenerate)))

	root := securityMw.Handler(loggingMw.Handler(metrics.Middleware(mux)))

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: root,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func newStorage(cfg *internal.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.StorageProvider == storage.ProviderR2 {
		return storage.NewR2Storage(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		}, logger)
	}

	return storage.NewLocalStorage(storage.LocalConfig{
		BasePath: cfg.LocalStoragePath,
		BaseURL:  cfg.LocalStorageURL,
	}, logger)
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
