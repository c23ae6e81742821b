package sqlite

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/sifan077/linkdash/config"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const memoryPath = ":memory:"

// NewGorm opens the SQLite database at cfg.Path. An empty path opens an in-memory database.
func NewGorm(cfg config.SQLiteConfig, log gormlogger.Interface) (*gorm.DB, error) {
	if log == nil {
		log = gormlogger.Discard
	}
	path := cfg.Path
	if path == "" {
		path = memoryPath
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: log,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: open gorm connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite: retrieve sql db: %w", err)
	}

	// SQLite serialises writers; a single connection also keeps :memory: databases shared.
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}
