package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/blackboxinc/storefront-backend/api/routes"
	cartsvc "github.com/blackboxinc/storefront-backend/internal/cart"
	catalogsvc "github.com/blackboxinc/storefront-backend/internal/catalog"
	checkoutsvc "github.com/blackboxinc/storefront-backend/internal/checkout"
	"github.com/blackboxinc/storefront-backend/pkg/commerce"
	"github.com/blackboxinc/storefront-backend/pkg/config"
	"github.com/blackboxinc/storefront-backend/pkg/logger"
	"github.com/blackboxinc/storefront-backend/pkg/metrics"
	"github.com/blackboxinc/storefront-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	commerceClient, err := commerce.New(cfg.Commerce, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build commerce client", err)
		os.Exit(1)
	}

	cartRepo, err := cartsvc.NewRedisRepository(redisClient, cfg.Cart.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to build cart repository", err)
		os.Exit(1)
	}
	cartStore, err := cartsvc.NewStore(cartRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build cart store", err)
		os.Exit(1)
	}

	guestInfoStore, err := checkoutsvc.NewGuestInfoStore(redisClient, cfg.Cart.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to build guest info store", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	checkoutService, err := checkoutsvc.NewService(
		cartStore,
		commerceClient,
		guestInfoStore,
		metrics.NewCheckoutMetrics(registry),
		logg,
		cfg.Commerce.ShopID,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to build checkout service", err)
		os.Exit(1)
	}

	catalogService, err := catalogsvc.NewService(commerceClient)
	if err != nil {
		logg.Error(context.Background(), "failed to build catalog service", err)
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
	logg.Info(ctx, "starting storefront api")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			Redis:     redisClient,
			Carts:     cartStore,
			Checkout:  checkoutService,
			GuestInfo: guestInfoStore,
			Catalog:   catalogService,
			Metrics:   registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront api stopped unexpectedly", err)
		os.Exit(1)
	}
}
