package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/repository"
	"github.com/yukikurage/kanban-api/internal/utils"
)

// NotificationService reads and acknowledges a user's notifications
type NotificationService struct {
	store *repository.Store
	now   func() time.Time
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(store *repository.Store) *NotificationService {
	return &NotificationService{
		store: store,
		now:   time.Now,
	}
}

// ListNotifications lists the user's notifications, newest first
func (s *NotificationService) ListNotifications(ctx context.Context, userID uint64, params utils.PaginationParams) ([]models.Notification, int64, error) {
	notifications, total, err := s.store.WithContext(ctx).Notifications.ListForUser(userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

// MarkRead marks one of the user's notifications as read. Marking it again
// keeps the first read time.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint64) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		notification, err := tx.Notifications.FindForUser(userID, notificationID)
		if err != nil {
			return lookupError(err, ErrNotificationNotFound, "notification")
		}
		if notification.IsRead() {
			return nil
		}

		if err := tx.Notifications.MarkRead(notification, s.now()); err != nil {
			return fmt.Errorf("failed to mark notification read: %w", err)
		}
		return nil
	})
}
