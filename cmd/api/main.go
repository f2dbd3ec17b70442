package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/o-complex/storefront-backend/api/routes"
	"github.com/o-complex/storefront-backend/internal/cart"
	"github.com/o-complex/storefront-backend/internal/catalog"
	"github.com/o-complex/storefront-backend/internal/checkout"
	"github.com/o-complex/storefront-backend/internal/orders"
	"github.com/o-complex/storefront-backend/pkg/config"
	"github.com/o-complex/storefront-backend/pkg/db"
	"github.com/o-complex/storefront-backend/pkg/logger"
	"github.com/o-complex/storefront-backend/pkg/metrics"
	"github.com/o-complex/storefront-backend/pkg/redis"
	"github.com/o-complex/storefront-backend/pkg/shop"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	journal, err := orders.NewJournal(dbClient.DB(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order journal", err)
		os.Exit(1)
	}
	if err := journal.Migrate(); err != nil {
		logg.Error(context.Background(), "failed to migrate order journal", err)
		os.Exit(1)
	}

	shopClient, err := shop.NewClient(cfg.Upstream.BaseURL, shop.WithTimeout(cfg.Upstream.Timeout))
	if err != nil {
		logg.Error(context.Background(), "failed to create upstream client", err)
		os.Exit(1)
	}

	upstreamMetrics := metrics.NewUpstreamMetrics(prometheus.DefaultRegisterer)

	catalogService, err := catalog.NewService(shopClient, cfg.Upstream.PageSize, logg, upstreamMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartManager, err := cart.NewManager(redisClient, cfg.Cart.TTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart manager", err)
		os.Exit(1)
	}

	checkoutWorkflow, err := checkout.NewWorkflow(catalogService, journal, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout workflow", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			redisClient,
			dbClient,
			catalogService,
			cartManager,
			checkoutWorkflow,
			journal,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
