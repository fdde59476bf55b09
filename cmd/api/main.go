package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/laptopshop/api/routes"
	"github.com/angelmondragon/laptopshop/api/views"
	"github.com/angelmondragon/laptopshop/internal/auth"
	"github.com/angelmondragon/laptopshop/internal/cart"
	products "github.com/angelmondragon/laptopshop/internal/products"
	"github.com/angelmondragon/laptopshop/internal/seed"
	"github.com/angelmondragon/laptopshop/internal/users"
	"github.com/angelmondragon/laptopshop/pkg/auth/session"
	"github.com/angelmondragon/laptopshop/pkg/config"
	"github.com/angelmondragon/laptopshop/pkg/db"
	"github.com/angelmondragon/laptopshop/pkg/logger"
	"github.com/angelmondragon/laptopshop/pkg/metrics"
	"github.com/angelmondragon/laptopshop/pkg/migrate"
	"github.com/angelmondragon/laptopshop/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		return multierr.Append(err, dbClient.Close())
	}
	defer func() {
		err = multierr.Combine(err, redisClient.Close(), dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		return err
	}
	if cfg.App.IsDev() && cfg.FeatureFlags.SeedDemo {
		if _, err := seed.Run(ctx, dbClient, logg, seed.Options{Password: cfg.Password}); err != nil {
			logg.Error(ctx, "failed to seed demo catalog", err)
			return err
		}
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT.AccessTTL())
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storefrontMetrics := metrics.NewStorefront(reg)

	productService, err := products.NewService(products.NewRepository(dbClient), storefrontMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create product service", err)
		return err
	}

	cartService, err := cart.NewService(cart.NewRepository(dbClient.DB()), dbClient, storefrontMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		return err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		return err
	}

	renderer, err := views.New(logg)
	if err != nil {
		logg.Error(ctx, "failed to parse templates", err)
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":       cfg.App.Env,
		"addr":      addr,
		"db_driver": dbClient.Dialect(),
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, renderer, storefrontMetrics, reg, productService, cartService, authService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logg.Info(logCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logg.Info(logCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
