package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/catering-backend/pkg/config"
	"github.com/angelmondragon/catering-backend/pkg/db"
	"github.com/angelmondragon/catering-backend/pkg/db/models"
	"gorm.io/gorm"
)

// MaybeRunDev executes migrations automatically when the app is running in dev mode and
// the feature flag is enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg loggerLike, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir, "driver": cfg.DB.Driver}
	ctx = logg.WithFields(ctx, meta)

	if cfg.DB.IsSQLite() {
		logg.Info(ctx, "creating sqlite schema from models (dev auto-run)")
		if err := AutoMigrateModels(client.DB()); err != nil {
			return err
		}
		logg.Info(ctx, "sqlite schema ready")
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	logg.Info(ctx, "running Goose migrations (dev auto-run)")
	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}

// AutoMigrateModels creates or updates the schema straight from the gorm
// models and seeds the default header text. Used for SQLite, where the
// Postgres SQL migrations do not apply.
func AutoMigrateModels(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db is required")
	}
	if err := conn.AutoMigrate(
		&models.Product{},
		&models.Catering{},
		&models.CateringItem{},
		&models.Setting{},
		&models.User{},
	); err != nil {
		return fmt.Errorf("auto migrate models: %w", err)
	}

	header := models.Setting{Key: models.HeaderTextKey, Value: DefaultHeaderText}
	if err := conn.Where("key = ?", header.Key).FirstOrCreate(&header).Error; err != nil {
		return fmt.Errorf("seed %s: %w", models.HeaderTextKey, err)
	}
	return nil
}

// DefaultHeaderText mirrors the value seeded by the settings migration.
const DefaultHeaderText = "Catering dolci e salati preparati con passione per i tuoi eventi speciali.\n\nSe hai domande o richieste, per favore scrivimele dopo aver inviato il preventivo, farò del mio meglio per aiutarti."

type loggerLike interface {
	WithFields(ctx context.Context, fields map[string]any) context.Context
	Info(ctx context.Context, msg string)
}
