package database

import (
	"fmt"

	"shoptobd/internal/config"
	"shoptobd/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection opens the pgx-backed pool and applies pool limits.
func NewConnection(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// Migrate creates or updates every table the API owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Customer{},
		&model.UserAuth{},
		&model.AdminRole{},
		&model.AdminUser{},
		&model.TaxRate{},
		&model.WeightChargeCategory{},
		&model.DocumentSequence{},
		&model.Order{},
		&model.OrderItem{},
		&model.Invoice{},
		&model.Payment{},
		&model.Refund{},
		&model.RefundProcessing{},
		&model.SalesReport{},
		&model.AuditLog{},
		&model.OutboxMessage{},
	)
}
