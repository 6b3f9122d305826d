package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yukikurage/kanban-api/internal/authz"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/repository"
)

// ColumnService handles the columns of a board
type ColumnService struct {
	store *repository.Store
}

// NewColumnService creates a new ColumnService
func NewColumnService(store *repository.Store) *ColumnService {
	return &ColumnService{store: store}
}

// CreateColumn appends a column to the board.
func (s *ColumnService) CreateColumn(ctx context.Context, access *authz.Access, name string) (*models.Column, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fieldError("name", ErrNameRequired)
	}

	var column *models.Column
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := lockBoard(tx, access.Board.ID); err != nil {
			return err
		}

		column = &models.Column{BoardID: access.Board.ID, Name: name}
		if err := tx.Columns.Append(column); err != nil {
			return fmt.Errorf("failed to create column: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return column, nil
}

// ListColumns lists the columns of the board in display order.
func (s *ColumnService) ListColumns(ctx context.Context, access *authz.Access) ([]models.Column, error) {
	columns, err := s.store.WithContext(ctx).Columns.List(access.Board.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	return columns, nil
}

// GetColumn returns the resolved column.
func (s *ColumnService) GetColumn(ctx context.Context, access *authz.Access) (*models.Column, error) {
	column, err := s.store.WithContext(ctx).Columns.FindByID(access.Column.ID)
	if err != nil {
		return nil, lookupError(err, ErrColumnNotFound, "column")
	}
	return column, nil
}

// UpdateColumn renames a column. Its order key is only changed by reorder.
func (s *ColumnService) UpdateColumn(ctx context.Context, access *authz.Access, name *string) (*models.Column, error) {
	var trimmed string
	if name != nil {
		trimmed = strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, fieldError("name", ErrNameRequired)
		}
	}

	var column *models.Column
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		column, err = lockColumn(tx, access.Column.ID)
		if err != nil {
			return err
		}
		if name == nil {
			return nil
		}

		column.Name = trimmed
		if err := tx.Columns.Update(column); err != nil {
			return fmt.Errorf("failed to update column: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return column, nil
}

// DeleteColumn deletes a column with its tasks.
func (s *ColumnService) DeleteColumn(ctx context.Context, access *authz.Access) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := lockBoard(tx, access.Board.ID); err != nil {
			return err
		}
		if err := tx.Columns.Delete(access.Column.ID); err != nil {
			return fmt.Errorf("failed to delete column: %w", err)
		}
		return nil
	})
}

// ReorderColumns renumbers the listed columns of the board. Ids of columns on
// other boards are ignored.
func (s *ColumnService) ReorderColumns(ctx context.Context, access *authz.Access, ids []uint64) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := lockBoard(tx, access.Board.ID); err != nil {
			return err
		}
		if err := tx.Columns.Reorder(access.Board.ID, ids); err != nil {
			return fmt.Errorf("failed to reorder columns: %w", err)
		}
		return nil
	})
}
