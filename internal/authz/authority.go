package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/repository"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the resource does not exist or the user has
	// no role on its board.
	ErrNotFound = errors.New("resource not found")
	// ErrPermissionDenied is returned when the user's role does not permit the action.
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")
)

// Access is a resolved resource together with its board and the caller's role.
type Access struct {
	Board  *models.Board
	Column *models.Column
	Task   *models.Task
	Role   Role
}

// Authority resolves access from storage on every call.
type Authority struct {
	store *repository.Store
}

// NewAuthority creates a new Authority.
func NewAuthority(store *repository.Store) *Authority {
	return &Authority{store: store}
}

// RoleOf returns the effective role of userID on board.
func (a *Authority) RoleOf(ctx context.Context, userID uint64, board *models.Board) (Role, error) {
	return roleOf(a.store.WithContext(ctx), userID, board)
}

// ForBoard authorises action on a board.
func (a *Authority) ForBoard(ctx context.Context, userID, boardID uint64, action Action) (*Access, error) {
	store := a.store.WithContext(ctx)

	board, err := store.Boards.FindByID(boardID)
	if err != nil {
		return nil, notFound(err, "board")
	}

	return authorize(store, userID, &Access{Board: board}, action)
}

// ForColumn authorises action on a column through its board.
func (a *Authority) ForColumn(ctx context.Context, userID, columnID uint64, action Action) (*Access, error) {
	store := a.store.WithContext(ctx)

	column, err := store.Columns.FindByID(columnID)
	if err != nil {
		return nil, notFound(err, "column")
	}
	board, err := store.Boards.FindByID(column.BoardID)
	if err != nil {
		return nil, notFound(err, "board")
	}

	return authorize(store, userID, &Access{Board: board, Column: column}, action)
}

// ForTask authorises action on a task through its column's board.
func (a *Authority) ForTask(ctx context.Context, userID, taskID uint64, action Action) (*Access, error) {
	store := a.store.WithContext(ctx)

	task, err := store.Tasks.FindByID(taskID, "Column")
	if err != nil {
		return nil, notFound(err, "task")
	}
	board, err := store.Boards.FindByID(task.Column.BoardID)
	if err != nil {
		return nil, notFound(err, "board")
	}
	column := task.Column

	return authorize(store, userID, &Access{Board: board, Column: &column, Task: task}, action)
}

func authorize(store *repository.Store, userID uint64, access *Access, action Action) (*Access, error) {
	role, err := roleOf(store, userID, access.Board)
	if err != nil {
		return nil, err
	}
	if role == RoleNone {
		return nil, ErrNotFound
	}
	if !role.Allows(action) {
		return nil, ErrPermissionDenied
	}

	access.Role = role
	return access, nil
}

func roleOf(store *repository.Store, userID uint64, board *models.Board) (Role, error) {
	if board.OwnerID == userID {
		return RoleOwner, nil
	}

	member, err := store.Members.FindByUser(board.ID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RoleNone, nil
		}
		return RoleNone, fmt.Errorf("failed to load membership: %w", err)
	}

	return Effective(board, userID, member), nil
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}
