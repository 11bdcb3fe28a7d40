package infra

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"stajdefteri/internal/config"
	"stajdefteri/internal/models/db_models"
	"stajdefteri/pkg/logger"
)

// OpenDatabase connects to Postgres or a local SQLite file depending on
// DB_DRIVER and migrates the journal tables.
func OpenDatabase(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.PostgresURL)
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	level := gormlogger.Warn
	if cfg.IsProduction() {
		level = gormlogger.Error
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(level)})
	if err != nil {
		log.Error("Error connecting to database", "driver", cfg.DBDriver, "error", err)
		return nil, err
	}

	if sqlDB, err := db.DB(); err == nil && cfg.DBDriver == "postgres" {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := Migrate(db); err != nil {
		log.Error("Error migrating database", "error", err)
		return nil, err
	}
	log.Info("database ready", "driver", cfg.DBDriver)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&db_models.DayRecord{}, &db_models.PlanDocument{})
}

func CloseDatabase(db *gorm.DB, log *logger.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("Error getting database instance", "error", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("Error closing database connection", "error", err)
		return
	}
	log.Info("database connection closed")
}

// WithTransaction commits when fn returns nil and rolls back otherwise.
func WithTransaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit().Error
}
