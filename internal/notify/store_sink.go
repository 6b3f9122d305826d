package notify

import (
	"context"
	"fmt"

	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/repository"
)

// StoreSink persists notifications as rows users can list and mark read.
type StoreSink struct {
	store *repository.Store
}

func NewStoreSink(store *repository.Store) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Name() string {
	return "store"
}

// Deliver inserts the row. A row already stored under the same event id
// counts as delivered.
func (s *StoreSink) Deliver(ctx context.Context, n Notification) error {
	row := &models.Notification{
		EventID:    n.EventID,
		UserID:     n.UserID,
		Message:    n.Message,
		RefBoardID: n.BoardID,
		CreatedAt:  n.CreatedAt,
	}

	if err := s.store.WithContext(ctx).Notifications.Create(row); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to store notification: %w", err)
	}
	return nil
}
