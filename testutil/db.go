// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"restaurant-admin-api/config"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// DB returns a migrated sqlite database in a temp dir, closed at cleanup.
func DB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		DBDriver: config.DriverSQLite,
		DBDSN:    filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := config.OpenDB(context.Background(), cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
