package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/laptopshop/pkg/config"
	"github.com/angelmondragon/laptopshop/pkg/db"
	"github.com/angelmondragon/laptopshop/pkg/db/models"
	"github.com/angelmondragon/laptopshop/pkg/logger"
)

// MaybeRunDev brings the schema up to date in dev when LAPTOPSHOP_AUTO_MIGRATE
// is set. SQLite schemas come from the models because the SQL files are
// Postgres-only.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "db_driver": client.Dialect()})

	if client.Dialect() == config.DriverSQLite {
		logg.Info(ctx, "migrations.sqlite_automigrate")
		return AutoMigrateModels(ctx, client)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	migrator, err := NewMigrator(sqlDB, "", logg)
	if err != nil {
		return err
	}
	logg.Info(ctx, "migrations.auto_run")
	return migrator.Up(ctx)
}

// AutoMigrateModels creates the storefront tables from the GORM models.
func AutoMigrateModels(ctx context.Context, client *db.Client) error {
	if err := client.DB().WithContext(ctx).AutoMigrate(
		&models.Product{},
		&models.User{},
		&models.Cart{},
		&models.CartDetail{},
	); err != nil {
		return fmt.Errorf("auto-migrate models: %w", err)
	}
	return nil
}
