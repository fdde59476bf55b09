package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/angelmondragon/laptopshop/internal/seed"
	"github.com/angelmondragon/laptopshop/pkg/config"
	"github.com/angelmondragon/laptopshop/pkg/db"
	"github.com/angelmondragon/laptopshop/pkg/logger"
	"github.com/angelmondragon/laptopshop/pkg/migrate"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	adminEmail := flag.String("admin-email", "admin@laptopshop.local", "email of the admin account to create (empty skips it)")
	adminName := flag.String("admin-name", "Quản trị viên", "full name of the admin account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	result, err := seed.Run(ctx, dbClient, logg, seed.Options{
		AdminEmail:    *adminEmail,
		AdminFullName: *adminName,
		Password:      cfg.Password,
	})
	if err != nil {
		logg.Error(ctx, "seed failed", err)
		os.Exit(1)
	}

	fmt.Printf("products created: %d\n", result.ProductsCreated)
	if result.AdminCreated {
		// printed once; only the hash is stored
		fmt.Printf("admin account: %s\nadmin password: %s\n", *adminEmail, result.AdminPassword)
	}
}
