package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestMigrate_CreatesSchemaAndIndexes(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))

	migrator := db.Migrator()
	for _, table := range []string{"users", "boards", "board_members", "columns", "tasks", "task_assignments", "tags", "task_tags", "notifications"} {
		require.True(t, migrator.HasTable(table), table)
	}
	require.True(t, migrator.HasIndex("board_members", "idx_board_members_board_role"))
	require.True(t, migrator.HasIndex("notifications", "idx_notifications_user_created"))
	require.True(t, migrator.HasColumn("tasks", "position"))
}

func TestAddIndexes_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	require.NoError(t, AddIndexes(db))
}
