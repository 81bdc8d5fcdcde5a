package sqlitedb

import (
	"testing"

	"microlending/internal/adapter/repository/gormrepo"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open creates an in-memory sqlite DB with the full schema migrated.
// The pool is pinned to one connection: every new connection to ":memory:" is a fresh, empty DB.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := gormrepo.Migrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
