package database

import (
	"context"
	"fmt"

	"github.com/sifan077/linkdash/config"
	"github.com/sifan077/linkdash/internal/app/model"
	"github.com/sifan077/linkdash/internal/infra/logger"
	"github.com/sifan077/linkdash/internal/infra/postgres"
	"github.com/sifan077/linkdash/internal/infra/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the configured driver and migrates the link schema.
func Open(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	log := logger.Gorm(logger.Named("gorm"))

	switch cfg.Database.Driver {
	case "", DriverPostgres:
		db, err = postgres.NewGorm(cfg.Postgres, log)
	case DriverSQLite:
		db, err = sqlite.NewGorm(cfg.SQLite, log)
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).AutoMigrate(&model.Link{}); err != nil {
		return nil, fmt.Errorf("database: auto migrate: %w", err)
	}

	return db, nil
}
