package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/johnkommas/corgres/api/routes"
	"github.com/johnkommas/corgres/internal/allocation"
	"github.com/johnkommas/corgres/internal/freight"
	"github.com/johnkommas/corgres/internal/pricing"
	"github.com/johnkommas/corgres/internal/tariffs"
	"github.com/johnkommas/corgres/pkg/config"
	"github.com/johnkommas/corgres/pkg/db"
	"github.com/johnkommas/corgres/pkg/logger"
	"github.com/johnkommas/corgres/pkg/metrics"
	"github.com/johnkommas/corgres/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	tariffRepo := tariffs.NewRepository(dbClient.DB())
	tariffSet, err := tariffRepo.Load(context.Background())
	if err != nil {
		logg.Error(context.Background(), "failed to load tariffs", err)
		os.Exit(1)
	}

	tariffStore, err := tariffs.NewStore(tariffSet)
	if err != nil {
		logg.Error(context.Background(), "persisted tariff set is invalid", err)
		os.Exit(1)
	}

	tariffService, err := tariffs.NewService(tariffStore, tariffRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create tariff service", err)
		os.Exit(1)
	}

	pricingService, err := pricing.NewService(
		tariffStore,
		allocation.NewAllocator(),
		freight.NewCalculator(),
		cfg.Pricing,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	quoteMetrics := metrics.NewQuoteMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"origins": len(tariffSet.Origins),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient,
			registry, httpMetrics, quoteMetrics,
			pricingService, tariffService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
