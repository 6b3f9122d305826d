package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yukikurage/kanban-api/internal/authz"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/repository"
)

// TagService handles the tags of a board
type TagService struct {
	store *repository.Store
}

// NewTagService creates a new TagService
func NewTagService(store *repository.Store) *TagService {
	return &TagService{store: store}
}

// CreateTagInput represents input for creating a tag
type CreateTagInput struct {
	Name  string
	Color string
}

// ListTags lists the tags of the board ordered by name.
func (s *TagService) ListTags(ctx context.Context, access *authz.Access) ([]models.Tag, error) {
	tags, err := s.store.WithContext(ctx).Tags.List(access.Board.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// CreateTag creates a tag on the board. Names are unique per board.
func (s *TagService) CreateTag(ctx context.Context, access *authz.Access, input CreateTagInput) (*models.Tag, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fieldError("name", ErrNameRequired)
	}
	color := strings.TrimSpace(input.Color)
	if color == "" {
		color = models.DefaultTagColor
	}

	var tag *models.Tag
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		tag = &models.Tag{BoardID: access.Board.ID, Name: name, Color: color}
		if err := tx.Tags.Create(tag); err != nil {
			if repository.IsUniqueViolation(err) {
				return fieldError("name", ErrTagNameTaken)
			}
			return fmt.Errorf("failed to create tag: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tag, nil
}
