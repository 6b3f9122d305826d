// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/kanban-api/internal/database"
	"github.com/yukikurage/kanban-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the full schema.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection serialises transactions the way row locks would.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateBoard creates a board owned by owner together with its owner membership.
func CreateBoard(t testing.TB, db *gorm.DB, owner *models.User, name string) *models.Board {
	t.Helper()
	board := &models.Board{Name: name, OwnerID: owner.ID}
	require.NoError(t, db.Create(board).Error)
	AddMember(t, db, board, owner, models.RoleOwner)
	return board
}

func AddMember(t testing.TB, db *gorm.DB, board *models.Board, user *models.User, role models.BoardRole) *models.BoardMember {
	t.Helper()
	member := &models.BoardMember{BoardID: board.ID, UserID: user.ID, Role: role}
	require.NoError(t, db.Create(member).Error)
	return member
}

func CreateColumn(t testing.TB, db *gorm.DB, board *models.Board, name string, order int) *models.Column {
	t.Helper()
	column := &models.Column{BoardID: board.ID, Name: name, Order: order}
	require.NoError(t, db.Create(column).Error)
	return column
}

func CreateTask(t testing.TB, db *gorm.DB, column *models.Column, title string, order int) *models.Task {
	t.Helper()
	task := &models.Task{ColumnID: column.ID, Title: title, Order: order}
	require.NoError(t, db.Create(task).Error)
	return task
}

func CreateTag(t testing.TB, db *gorm.DB, board *models.Board, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{BoardID: board.ID, Name: name, Color: models.DefaultTagColor}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// Positions returns the order keys of the given rows keyed by id.
func Positions(t testing.TB, db *gorm.DB, table string, ids ...uint64) map[uint64]int {
	t.Helper()
	var rows []struct {
		ID       uint64
		Position int
	}
	require.NoError(t, db.Table(table).Select("id, position").Where("id IN ?", ids).Scan(&rows).Error)

	positions := make(map[uint64]int, len(rows))
	for _, row := range rows {
		positions[row.ID] = row.Position
	}
	return positions
}
