package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/repository"
	"gorm.io/gorm"
)

// lookupError maps a missing row to sentinel and wraps anything else.
func lookupError(err error, sentinel error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

func lockBoard(tx *repository.Store, boardID uint64) (*models.Board, error) {
	board, err := tx.Boards.LockByID(boardID)
	if err != nil {
		return nil, lookupError(err, ErrBoardNotFound, "board")
	}
	return board, nil
}

func lockColumn(tx *repository.Store, columnID uint64) (*models.Column, error) {
	column, err := tx.Columns.LockByID(columnID)
	if err != nil {
		return nil, lookupError(err, ErrColumnNotFound, "column")
	}
	return column, nil
}

func findUserByUsername(tx *repository.Store, username string) (*models.User, error) {
	user, err := tx.Users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fieldError("username", ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
