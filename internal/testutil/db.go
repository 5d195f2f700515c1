package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/fruta004-ux/olens-crm-api/internal/auth"
	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates a connection to the test PostgreSQL database.
// It uses environment variables or falls back to docker-compose defaults.
func SetupTestDB(t *testing.T) *gorm.DB {
	host := getEnvOrDefault("DATABASE_HOST", "localhost")
	port := getEnvOrDefault("DATABASE_PORT", "5432")
	user := getEnvOrDefault("DATABASE_USER", "crm_user")
	password := getEnvOrDefault("DATABASE_PASSWORD", "crm_password")
	dbname := getEnvOrDefault("DATABASE_NAME", "crm")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		host, port, user, password, dbname)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err, "Failed to connect to test database. Ensure PostgreSQL is running.")

	EnsureTestIssuers(t, db)

	return db
}

// CleanupTestData cleans up test data from all tables.
// This should be called after tests to ensure a clean state.
func CleanupTestData(t *testing.T, db *gorm.DB) {
	// Delete in order to respect foreign key constraints
	tables := []string{
		"deal_stage_history",
		"quotation_items",
		"quotations",
		"quotation_preset_items",
		"quotation_presets",
		"document_sequences",
		"notifications",
		"activities",
		"memos",
		"tasks",
		"feature_requests",
		"setting_entries",
		"deals",
		"contacts",
		"accounts",
	}

	for _, table := range tables {
		err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id IS NOT NULL", table)).Error
		if err != nil {
			// Table might not exist, that's ok
			t.Logf("Note: Could not clean table %s: %v", table, err)
		}
	}
}

// CreateTestAccount creates a test account and returns it.
func CreateTestAccount(t *testing.T, db *gorm.DB, name string) *domain.Account {
	account := &domain.Account{
		Name:               name,
		RegistrationNumber: fmt.Sprintf("%09d", randomInt()%1000000000),
		Industry:           "소프트웨어",
		Phone:              "02-555-0199",
		Source:             "홈페이지 문의",
		Channel:            "이메일",
	}
	err := db.Omit(clause.Associations).Create(account).Error
	require.NoError(t, err)
	return account
}

// CreateTestDeal creates a test deal attached to the given account.
func CreateTestDeal(t *testing.T, db *gorm.DB, account *domain.Account, name string, stage domain.Stage) *domain.Deal {
	deal := &domain.Deal{
		Name:        name,
		AccountID:   account.ID,
		AccountName: account.Name,
		Stage:       stage,
		Amount:      1000000,
		OwnerID:     "user-test-owner",
		OwnerName:   "테스트 담당자",
	}
	err := db.Omit(clause.Associations).Create(deal).Error
	require.NoError(t, err)
	return deal
}

// EnsureTestIssuers creates the issuer records if they don't exist.
func EnsureTestIssuers(t *testing.T, db *gorm.DB) {
	issuers := []struct {
		id   domain.IssuerID
		name string
	}{
		{domain.IssuerOlensKorea, "주식회사 오렌즈"},
		{domain.IssuerOlensLab, "오렌즈랩 주식회사"},
		{domain.IssuerOlensGSA, "오렌즈GSA 주식회사"},
	}

	for _, i := range issuers {
		err := db.Exec(`
			INSERT INTO issuers (id, name, registration_number, ceo, address, is_active, created_at, updated_at)
			VALUES ($1, $2, '123-86-01234', '김태호', '서울특별시 강남구 테헤란로 152', true, NOW(), NOW())
			ON CONFLICT (id) DO NOTHING
		`, i.id, i.name).Error
		if err != nil {
			t.Logf("Note: Could not insert issuer %s: %v", i.id, err)
		}
	}
}

// TestUserContext returns a context carrying an authenticated test user.
func TestUserContext() context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      "user-test-owner",
		DisplayName: "테스트 담당자",
		Email:       "tester@olens.co.kr",
		Department:  "영업팀",
	})
}

// randomInt returns a unique integer for test data
func randomInt() int64 {
	return time.Now().UnixNano()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
