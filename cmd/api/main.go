package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/praxia/citas-gateway/internal/api/router"
	"github.com/praxia/citas-gateway/internal/app/bootstrap"
	"github.com/praxia/citas-gateway/internal/citas"
	appconfig "github.com/praxia/citas-gateway/internal/config"
	"github.com/praxia/citas-gateway/internal/http/handlers"
	"github.com/praxia/citas-gateway/internal/notify"
	"github.com/praxia/citas-gateway/internal/observability/metrics"
	"github.com/praxia/citas-gateway/internal/upstream"
	"github.com/praxia/citas-gateway/pkg/logging"
)

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting citas gateway",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient == nil {
		logger.Error("redis is required, aborting")
		os.Exit(1)
	}
	stores := bootstrap.BuildStores(redisClient, cfg)

	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		if err := db.PingContext(ctx); err != nil {
			logger.Warn("database not reachable, booking audit disabled", "error", err)
		} else {
			sqlDB = db
		}
	}
	eventLog := bootstrap.BuildEventLog(sqlDB, logger)

	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)

	upstreamClient, err := upstream.New(upstream.Config{
		BaseURL: cfg.UpstreamBaseURL,
		Timeout: cfg.UpstreamTimeout,
		Logger:  logger,
		Metrics: bookingMetrics,
	})
	if err != nil {
		logger.Error("failed to build upstream client", "error", err)
		os.Exit(1)
	}

	emailSender := bootstrap.BuildEmailSender(ctx, cfg, logger)
	notifier := notify.NewService(emailSender, logger)

	svc := citas.NewService(citas.Config{
		Drafts:    stores.Drafts,
		Pending:   stores.Pending,
		Confirmed: stores.Confirmed,
		API:       upstreamClient,
		Events:    eventLog,
		Notifier:  notifier,
		Metrics:   bookingMetrics,
		Logger:    logger,

		ReservaTTLMinutos:      cfg.ReservaTTLMinutos,
		RecuperacionTTLMinutos: cfg.RecuperacionTTLMin,
		ConfirmadaDisplaySeg:   cfg.ConfirmadaDisplaySec,
	})

	r := router.New(&router.Config{
		Logger:             logger,
		Citas:              handlers.NewCitasHandler(svc, logger),
		Catalog:            handlers.NewCatalogHandler(upstreamClient, logger),
		PagoSocket:         handlers.NewPagoSocket(svc, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		SessionTTL:         cfg.SessionTTL,
		UserJWTSecret:      cfg.SessionJWTSecret,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if sqlDB != nil {
		_ = sqlDB.Close()
	}
	_ = redisClient.Close()

	logger.Info("server stopped")
}
