package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AliCapone21/nonkabob-guliston/api/routes"
	"github.com/AliCapone21/nonkabob-guliston/internal/admin"
	"github.com/AliCapone21/nonkabob-guliston/internal/cart"
	"github.com/AliCapone21/nonkabob-guliston/internal/orders"
	"github.com/AliCapone21/nonkabob-guliston/internal/products"
	"github.com/AliCapone21/nonkabob-guliston/internal/realtime"
	"github.com/AliCapone21/nonkabob-guliston/internal/telegram"
	"github.com/AliCapone21/nonkabob-guliston/internal/users"
	"github.com/AliCapone21/nonkabob-guliston/pkg/auth/session"
	"github.com/AliCapone21/nonkabob-guliston/pkg/config"
	"github.com/AliCapone21/nonkabob-guliston/pkg/db"
	"github.com/AliCapone21/nonkabob-guliston/pkg/logger"
	"github.com/AliCapone21/nonkabob-guliston/pkg/metrics"
	"github.com/AliCapone21/nonkabob-guliston/pkg/migrate"
	"github.com/AliCapone21/nonkabob-guliston/pkg/redis"
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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

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

	registry := prometheus.NewRegistry()
	httpStats := metrics.NewHTTPMetrics(registry)
	orderStats := metrics.NewOrderMetrics(registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	catalog := products.NewCatalog()
	resolver := telegram.NewResolver(cfg.Telegram, cfg.App.IsDev())

	carts := cart.NewManager(cfg.Cart, logg)
	carts.StartJanitor(ctx)

	profileService, err := users.NewService(users.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	feed, err := realtime.NewRedisFeed(redisClient, cfg.Realtime.Channel, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create realtime feed", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:     orders.NewRepository(dbClient.DB()),
		Profiles: profileService,
		Feed:     feed,
		Logg:     logg,
		Stats:    orderStats,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	board, err := admin.NewBoard(admin.BoardParams{
		Repo:  orders.NewRepository(dbClient.DB()),
		Feed:  feed,
		Logg:  logg,
		Stats: orderStats,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order board", err)
		os.Exit(1)
	}
	if err := board.Watch(ctx); err != nil {
		logg.Error(context.Background(), "failed to watch realtime feed", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := admin.NewAuthService(admin.AuthParams{
		Admin:     cfg.Admin,
		JWT:       cfg.JWT,
		RateLimit: cfg.AdminRateLimit,
		Sessions:  sessionManager,
		Limiter:   redisClient,
		DevMode:   cfg.App.IsDev(),
		Logg:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin auth service", err)
		os.Exit(1)
	}

	hub := realtime.NewHub(logg, orderStats)
	if err := hub.Run(ctx, feed); err != nil {
		logg.Error(context.Background(), "failed to start websocket hub", err)
		os.Exit(1)
	}

	router := routes.NewRouter(
		cfg,
		logg,
		httpStats,
		dbClient,
		redisClient,
		catalog,
		carts,
		resolver,
		profileService,
		orderService,
		board,
		authService,
		hub,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	runCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(runCtx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(runCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(runCtx, "error during shutdown", err)
		}
	}

	logg.Info(runCtx, "api server shutting down gracefully")
}
