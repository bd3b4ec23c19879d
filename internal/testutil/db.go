// Package testutil opens a throwaway Postgres connection for integration tests.
package testutil

import (
	"os"
	"testing"

	"shoptobd/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSNEnv names the variable that enables database-backed tests.
const DSNEnv = "TEST_DATABASE_DSN"

// OpenDB connects to TEST_DATABASE_DSN and migrates the schema, or skips the
// test when the variable is unset.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", DSNEnv)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(20)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}
