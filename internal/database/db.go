package database

import (
	"fmt"
	"log/slog"

	"salesdesk/internal/config"
	"salesdesk/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection opens the sales store selected by source and migrates the
// sales table.
func NewConnection(source string, cfg config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch source {
	case config.SourcePostgres:
		dialector = postgres.Open(cfg.DSN())
	case config.SourceSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("no database for data source %q", source)
	}

	db, err := Open(dialector)
	if err != nil {
		return nil, err
	}
	if source == config.SourceSQLite {
		// One writer at a time; readers queue behind it instead of failing with SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info("connected to sales store", "source", source)
	return db, nil
}

// Open connects through dialector and migrates the schema.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&model.SalesRecord{}); err != nil {
		return nil, fmt.Errorf("migrate sales table: %w", err)
	}
	return db, nil
}
