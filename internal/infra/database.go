package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/brimesh123/search-engine/internal/config"
	"github.com/brimesh123/search-engine/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported DB_DRIVER values.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// NewDatabase opens the store selected by cfg.DBDriver, pings it and, when
// DB_AUTO_MIGRATE is on, creates the item tables if they are missing.
// A failed ping is returned as an error so the caller can exit at startup.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	if cfg.DBDriver == DriverSQLite {
		// SQLite allows a single writer; one connection serializes upload transactions.
		sqlDB.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.DBDriver, err)
	}

	if cfg.DBAutoMigrate {
		if err := RunMigrations(db); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("AutoMigrate: %w", err)
		}
	}

	return db, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// RunMigrations creates the item tables. It only adds what is missing and
// never drops columns, so it is safe on a database that already holds data.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.MainItem{},
		&model.ChildItem{},
		&model.ItemRelationship{},
	)
}

// CloseDatabase releases the connection pool.
func CloseDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
