// Package testkit opens isolated in-memory stores for package tests.
package testkit

import (
	"fmt"
	"regexp"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"schoolku_backend/internals/persistence"
	"schoolku_backend/internals/persistence/uow"
)

var (
	unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]+`)
	dbSeq      atomic.Int64
)

// OpenDB returns a fresh shared-cache sqlite database with the active-row
// filter installed and models migrated. One connection only, so every
// statement of a transaction sees the same store.
func OpenDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()

	name := unsafeName.ReplaceAllString(t.Name(), "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, persistence.RegisterActiveFilter(db))
	if len(models) > 0 {
		require.NoError(t, db.AutoMigrate(models...))
	}
	return db
}

// Factory is a unit-of-work factory with audit hooks and a silent logger.
func Factory(db *gorm.DB, opts ...uow.Option) *uow.Factory {
	return uow.NewFactory(db, zerolog.Nop(), opts...)
}
