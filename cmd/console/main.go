package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/text/currency"

	"github.com/troveretail/trove-console/internal/app"
	"github.com/troveretail/trove-console/internal/audit"
	"github.com/troveretail/trove-console/internal/backend"
	"github.com/troveretail/trove-console/internal/catalog/discounts"
	"github.com/troveretail/trove-console/internal/catalog/products"
	"github.com/troveretail/trove-console/internal/catalog/variants"
	"github.com/troveretail/trove-console/internal/dashboard"
	"github.com/troveretail/trove-console/internal/observability"
	"github.com/troveretail/trove-console/internal/orders"
	"github.com/troveretail/trove-console/internal/platform/cache"
	"github.com/troveretail/trove-console/internal/platform/db"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	unit, err := currency.ParseISO(cfg.Currency)
	if err != nil {
		logger.Error("parse currency", slog.String("currency", cfg.Currency), slog.Any("error", err))
		os.Exit(1)
	}

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	client := backend.NewClient(cfg.BackendURL, cfg.BackendToken)
	recorder := audit.NewRecorder(dbpool)
	timeline := audit.NewTimeline(dbpool)

	lifecycle := products.NewLifecycle(client, recorder, logger)
	variantService := variants.NewService(client, lifecycle, recorder, logger)
	discountService := discounts.NewService(client, lifecycle, recorder, logger)

	orderService := orders.NewService(client)
	dashboardService := dashboard.NewService(client, logger)
	dashboardCache := dashboard.NewCache(redisClient, cfg.DashboardCacheTTL)
	cachedDashboard := dashboard.NewCachedService(dashboardService, dashboardCache, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		ProductHandler:   products.NewHandler(logger, lifecycle, variantService, discountService, unit),
		VariantHandler:   variants.NewHandler(logger, variantService),
		DiscountHandler:  discounts.NewHandler(logger, discountService),
		DashboardHandler: dashboard.NewHandler(logger, cachedDashboard),
		OrderHandler:     orders.NewHandler(logger, orderService),
		AuditHandler:     audit.NewHandler(logger, timeline),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("console started", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
	}
	logger.Info("console stopped")
}
