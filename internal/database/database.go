package database

import (
	"context"
	"fmt"
	"time"

	"github.com/fruta004-ux/olens-crm-api/internal/config"
	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase creates a new database connection
func NewDatabase(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := cfg.ConnectionString()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// HealthCheck pings the database with a short timeout
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// PoolStats reports connection pool state for the health endpoint
type PoolStats struct {
	OpenConnections int `json:"openConnections"`
	InUse           int `json:"inUse"`
	Idle            int `json:"idle"`
}

// HealthCheckWithStats pings the database and returns pool statistics
func HealthCheckWithStats(ctx context.Context, db *gorm.DB) (PoolStats, error) {
	var stats PoolStats
	sqlDB, err := db.DB()
	if err != nil {
		return stats, fmt.Errorf("failed to get database instance: %w", err)
	}

	s := sqlDB.Stats()
	stats.OpenConnections = s.OpenConnections
	stats.InUse = s.InUse
	stats.Idle = s.Idle

	return stats, HealthCheck(ctx, db)
}

// AutoMigrate runs automatic migrations (for development only)
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Issuer{},
		&domain.Account{},
		&domain.Contact{},
		&domain.Deal{},
		&domain.DealStageHistory{},
		&domain.Quotation{},
		&domain.QuotationItem{},
		&domain.QuotationPreset{},
		&domain.QuotationPresetItem{},
		&domain.DocumentSequence{},
		&domain.SettingEntry{},
		&domain.Task{},
		&domain.Memo{},
		&domain.FeatureRequest{},
		&domain.Activity{},
		&domain.Notification{},
	)
}
