package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/llatelier/storefront/api/controllers"
	"github.com/llatelier/storefront/api/routes"
	"github.com/llatelier/storefront/internal/cart"
	"github.com/llatelier/storefront/internal/checkout"
	"github.com/llatelier/storefront/internal/prefs"
	"github.com/llatelier/storefront/internal/products"
	"github.com/llatelier/storefront/internal/shopapi"
	"github.com/llatelier/storefront/pkg/config"
	"github.com/llatelier/storefront/pkg/db"
	"github.com/llatelier/storefront/pkg/logger"
	"github.com/llatelier/storefront/pkg/metrics"
	"github.com/llatelier/storefront/pkg/migrate"
	"github.com/llatelier/storefront/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	var dbClient *db.Client
	if cfg.Cart.Backend == config.CartBackendDB {
		dbClient, err = db.New(context.Background(), cfg.DB, logg)
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
	}

	var redisClient *redis.Client
	if cfg.Cart.Backend == config.CartBackendRedis || cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	shopClient, err := shopapi.NewClient(cfg.ShopAPI.BaseURL, shopapi.WithTimeout(cfg.ShopAPI.Timeout))
	if err != nil {
		logg.Error(context.Background(), "failed to create shop api client", err)
		os.Exit(1)
	}

	var cartStorage cart.Storage
	var prefStorage prefs.Storage
	switch cfg.Cart.Backend {
	case config.CartBackendRedis:
		cartStorage, err = cart.NewRedisStorage(redisClient, cfg.Cart.SnapshotTTL)
		if err == nil {
			prefStorage, err = prefs.NewRedisStorage(redisClient)
		}
	default:
		cartStorage, err = cart.NewDBStorage(dbClient)
		if err == nil {
			prefStorage, err = prefs.NewDBStorage(dbClient)
		}
	}
	if err != nil {
		logg.Error(context.Background(), "failed to wire cart storage", err)
		os.Exit(1)
	}

	notifier := cart.NewLogNotifier(logg)
	carts := controllers.CartFactory(func(ctx context.Context, cartID string) (*cart.Store, error) {
		return cart.NewStore(ctx, cartID, cartStorage, notifier, logg)
	})

	var productCache products.Cache
	if redisClient != nil {
		productCache = redisClient
	}
	catalogService, err := products.NewService(shopClient, productCache, cfg.Products, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	confirmMetrics := metrics.NewConfirmationMetrics(prometheus.DefaultRegisterer)
	checkoutService, err := checkout.NewService(shopClient, cfg.App.OriginURL, checkout.ConfirmBudget{
		MaxAttempts: cfg.Confirm.MaxAttempts,
		PollDelay:   cfg.Confirm.PollDelay,
	}, confirmMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	prefsService, err := prefs.NewService(prefStorage)
	if err != nil {
		logg.Error(context.Background(), "failed to create preferences service", err)
		os.Exit(1)
	}

	var dbPinger, redisPinger controllers.Pinger
	if dbClient != nil {
		dbPinger = dbClient
	}
	if redisClient != nil {
		redisPinger = redisClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"cart_backend": cfg.Cart.Backend,
	})
	logg.Info(ctx, "starting storefront server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			carts,
			catalogService,
			checkoutService,
			prefsService,
			shopClient,
			dbPinger,
			redisPinger,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront server stopped unexpectedly", err)
		os.Exit(1)
	}
}
