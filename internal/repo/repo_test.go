package repo

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB инициализирует in-memory SQLite (modernc.org/sqlite) с применёнными миграциями.
// Каждый вызов получает свою базу: пул держит одно соединение.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := InitDB(":memory:")
	require.NoError(t, err, "failed to open sqlite (modernc)")
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
