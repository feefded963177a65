package models

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "models.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestCompareColumnsAfterMigrate(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, Migrate(db))

	report, err := CompareColumns(db)
	require.NoError(t, err)

	require.Len(t, report, len(All()))
	for _, m := range report {
		assert.Empty(t, m.ExtraColumns, "table %s", m.Table)
		assert.Empty(t, m.MissingFields, "table %s", m.Table)
	}
}

func TestCompareColumnsReportsDrift(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, db.Exec("ALTER TABLE settings ADD COLUMN legacy_flag integer").Error)
	require.NoError(t, db.Migrator().DropTable(&Tag{}))

	report, err := CompareColumns(db)
	require.NoError(t, err)

	byTable := make(map[string]ColumnMismatch, len(report))
	for _, m := range report {
		byTable[m.Table] = m
	}
	assert.Equal(t, []string{"legacy_flag"}, byTable["settings"].ExtraColumns)
	assert.Equal(t, []string{"created_at", "id", "name", "slug"}, byTable["tags"].MissingFields)
}

func TestPostStatusValid(t *testing.T) {
	assert.True(t, PostStatusDraft.Valid())
	assert.True(t, PostStatusPublished.Valid())
	assert.True(t, PostStatusArchived.Valid())
	assert.False(t, PostStatus("LIVE").Valid())
	assert.False(t, PostStatus("").Valid())
}
