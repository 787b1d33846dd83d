package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pixelbook/internal/config"
	"pixelbook/internal/http-api/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDB opens the postgres database via gorm and migrates the schema.
// TranslateError maps driver errors onto gorm sentinels, duplicate key
// detection in the repositories depends on it.
func ConnectDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrateSchema(db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Connected to the database successfully")
	return db, nil
}

func migrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Manga{},
		&models.Volume{},
		&models.Bookshelf{},
		&models.Content{},
		&models.ShopCart{},
		&models.CartItem{},
		&models.RefreshToken{},
	)
}

// NewHealthPool opens a small pgx pool used only by the health endpoint, so
// liveness checks do not compete with gorm's connection pool.
func NewHealthPool(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	poolCfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create health pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Health check pool ready")
	return pool, nil
}
