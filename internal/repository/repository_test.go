package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/testutil"
	"github.com/yukikurage/kanban-api/internal/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestLockByID_UsesRowLock(t *testing.T) {
	db, mock := newMockPostgres(t)

	mock.ExpectQuery(`SELECT \* FROM "boards" WHERE "boards"\."id" = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "owner_id"}).AddRow(7, "Board", 1))
	mock.ExpectQuery(`SELECT \* FROM "columns" WHERE "columns"\."id" = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "name", "position"}).AddRow(3, 7, "Todo", 10))
	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE "tasks"\."id" = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "column_id", "title", "position"}).AddRow(9, 3, "Write docs", 20))

	board, err := NewBoardRepository(db).LockByID(7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), board.ID)

	column, err := NewColumnRepository(db).LockByID(3)
	require.NoError(t, err)
	assert.Equal(t, 10, column.Order)

	task, err := NewTaskRepository(db).LockByID(9)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), task.ColumnID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountOwners_FiltersByRole(t *testing.T) {
	db, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "board_members" WHERE board_id = $1 AND role = $2`)).
		WithArgs(5, "owner").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := NewMemberRepository(db).CountOwners(5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		unique     bool
		foreignKey bool
		retryable  bool
	}{
		{"gorm duplicate", gorm.ErrDuplicatedKey, true, false, false},
		{"gorm foreign key", gorm.ErrForeignKeyViolated, false, true, false},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, true, false, false},
		{"postgres foreign key", &pgconn.PgError{Code: "23503"}, false, true, false},
		{"postgres serialization", &pgconn.PgError{Code: "40001"}, false, false, true},
		{"postgres deadlock", fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "40P01"}), false, false, true},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062}, true, false, false},
		{"mysql foreign key", &mysql.MySQLError{Number: 1452}, false, true, false},
		{"mysql deadlock", &mysql.MySQLError{Number: 1213}, false, false, true},
		{"mysql lock wait", &mysql.MySQLError{Number: 1205}, false, false, true},
		{"stale read", fmt.Errorf("move: %w", ErrStaleRead), false, false, true},
		{"other", errors.New("boom"), false, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.unique, IsUniqueViolation(tc.err))
			assert.Equal(t, tc.foreignKey, IsForeignKeyViolation(tc.err))
			assert.Equal(t, tc.retryable, IsRetryable(tc.err))
		})
	}
}

func TestTransaction_RetriesConflicts(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewStore(db, WithMaxAttempts(3))

	attempts := 0
	err := store.Transaction(context.Background(), func(tx *Store) error {
		attempts++
		if err := tx.Users.Create(&models.User{Username: fmt.Sprintf("user%d", attempts), PasswordHash: "x"}); err != nil {
			return err
		}
		if attempts < 3 {
			return &pgconn.PgError{Code: "40001"}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "failed attempts are rolled back")
}

func TestTransaction_GivesUpAfterMaxAttempts(t *testing.T) {
	store := NewStore(testutil.NewDB(t), WithMaxAttempts(2))

	attempts := 0
	err := store.Transaction(context.Background(), func(tx *Store) error {
		attempts++
		return &mysql.MySQLError{Number: 1213}
	})
	assert.True(t, IsRetryable(err))
	assert.Equal(t, 2, attempts)
}

func TestTransaction_DoesNotRetryOtherErrors(t *testing.T) {
	store := NewStore(testutil.NewDB(t))

	boom := errors.New("boom")
	attempts := 0
	err := store.Transaction(context.Background(), func(tx *Store) error {
		attempts++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func TestMemberGetOrCreate(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner")
	alice := testutil.CreateUser(t, db, "alice")
	board := testutil.CreateBoard(t, db, owner, "Board")
	repo := NewMemberRepository(db)

	member := &models.BoardMember{BoardID: board.ID, UserID: alice.ID, Role: models.RoleEditor}
	created, err := repo.GetOrCreate(member)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, member.ID)

	again := &models.BoardMember{BoardID: board.ID, UserID: alice.ID, Role: models.RoleViewer}
	created, err = repo.GetOrCreate(again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, member.ID, again.ID)
	assert.Equal(t, models.RoleEditor, again.Role, "existing row is returned untouched")

	members, err := repo.List(board.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "alice", members[0].User.Username)
	assert.Equal(t, "owner", members[1].User.Username)
}

func TestBoardListForUser(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	own := testutil.CreateBoard(t, db, alice, "Own")
	shared := testutil.CreateBoard(t, db, bob, "Shared")
	testutil.AddMember(t, db, shared, alice, models.RoleViewer)
	testutil.CreateBoard(t, db, bob, "Private")

	require.NoError(t, db.Model(own).Update("created_at", time.Now().Add(-time.Hour)).Error)

	boards, total, err := NewBoardRepository(db).ListForUser(alice.ID, utils.PaginationParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, boards, 2)
	assert.Equal(t, shared.ID, boards[0].ID)
	assert.Equal(t, own.ID, boards[1].ID)
}

func TestBoardDelete_Cascades(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner")
	board := testutil.CreateBoard(t, db, owner, "Board")
	other := testutil.CreateBoard(t, db, owner, "Other")
	column := testutil.CreateColumn(t, db, board, "Todo", 10)
	task := testutil.CreateTask(t, db, column, "Task", 10)
	tag := testutil.CreateTag(t, db, board, "bug")
	keep := testutil.CreateTask(t, db, testutil.CreateColumn(t, db, other, "Keep", 10), "Keep", 10)

	tasks := NewTaskRepository(db)
	_, err := tasks.Assign(task.ID, owner.ID)
	require.NoError(t, err)
	_, err = tasks.AttachTag(task.ID, tag.ID)
	require.NoError(t, err)
	_, err = tasks.Assign(keep.ID, owner.ID)
	require.NoError(t, err)

	boardID := board.ID
	notification := &models.Notification{UserID: owner.ID, Message: "hello", RefBoardID: &boardID}
	require.NoError(t, db.Create(notification).Error)

	require.NoError(t, NewBoardRepository(db).Delete(board.ID))

	count := func(model interface{}) int64 {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}
	assert.Equal(t, int64(1), count(&models.Board{}))
	assert.Equal(t, int64(1), count(&models.BoardMember{}))
	assert.Equal(t, int64(1), count(&models.Column{}))
	assert.Equal(t, int64(1), count(&models.Task{}))
	assert.Equal(t, int64(1), count(&models.TaskAssignment{}))
	assert.Equal(t, int64(0), count(&models.TaskTag{}))
	assert.Equal(t, int64(0), count(&models.Tag{}))

	var stored models.Notification
	require.NoError(t, db.First(&stored, notification.ID).Error)
	assert.Nil(t, stored.RefBoardID)
}

func TestTaskAssignAndAttach_AreIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner")
	board := testutil.CreateBoard(t, db, owner, "Board")
	task := testutil.CreateTask(t, db, testutil.CreateColumn(t, db, board, "Todo", 10), "Task", 10)
	tag := testutil.CreateTag(t, db, board, "bug")
	repo := NewTaskRepository(db)

	created, err := repo.Assign(task.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = repo.Assign(task.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, created)

	created, err = repo.AttachTag(task.ID, tag.ID)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = repo.AttachTag(task.ID, tag.ID)
	require.NoError(t, err)
	assert.False(t, created)

	users, err := repo.ListAssignees(task.ID)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	tags, err := repo.ListTags(task.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 1)

	require.NoError(t, repo.DetachTag(task.ID, tag.ID))
	require.NoError(t, repo.DetachTag(task.ID, tag.ID))

	removed, err := repo.Unassign(task.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repo.Unassign(task.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestTagCreate_DuplicateNameIsUniqueViolation(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner")
	board := testutil.CreateBoard(t, db, owner, "Board")
	testutil.CreateTag(t, db, board, "bug")

	err := NewTagRepository(db).Create(&models.Tag{BoardID: board.ID, Name: "bug"})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestNotificationMarkRead(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice")
	repo := NewNotificationRepository(db)

	notification := &models.Notification{UserID: user.ID, Message: "hi"}
	require.NoError(t, repo.Create(notification))

	first := time.Now().Add(-time.Minute).UTC().Truncate(time.Second)
	require.NoError(t, repo.MarkRead(notification, first))
	require.NotNil(t, notification.ReadAt)

	stored, err := repo.FindForUser(user.ID, notification.ID)
	require.NoError(t, err)
	require.NoError(t, repo.MarkRead(stored, time.Now()))
	require.NotNil(t, stored.ReadAt)
	assert.True(t, stored.ReadAt.Equal(first))

	_, err = repo.FindForUser(user.ID+1, notification.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
