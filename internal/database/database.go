// Package database opens the postgres connection and keeps the schema
// in sync with the models.
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/digitales-2024/perucontrol-sub003/internal/business"
	"github.com/digitales-2024/perucontrol-sub003/internal/certificates"
	"github.com/digitales-2024/perucontrol-sub003/internal/clients"
	"github.com/digitales-2024/perucontrol-sub003/internal/config"
	"github.com/digitales-2024/perucontrol-sub003/internal/projects"
	"github.com/digitales-2024/perucontrol-sub003/internal/purchaseorders"
	"github.com/digitales-2024/perucontrol-sub003/internal/quotations"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	if cfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.MaxLifetime)
	} else {
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&business.Profile{},
		&clients.Client{},
		&projects.Project{},
		&projects.Appointment{},
		&quotations.Quotation{},
		&quotations.QuotationLine{},
		&purchaseorders.PurchaseOrder{},
		&purchaseorders.ProductLine{},
		&certificates.Certificate{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
