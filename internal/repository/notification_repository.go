package repository

import (
	"time"

	"github.com/yukikurage/kanban-api/internal/database"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/utils"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create stores a notification
func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// ListForUser lists a user's notifications, newest first
func (r *GormNotificationRepository) ListForUser(userID uint64, params utils.PaginationParams) ([]models.Notification, int64, error) {
	var total int64
	if err := r.db.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Scopes(database.Paginate(params)).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// FindForUser finds a notification owned by the user
func (r *GormNotificationRepository) FindForUser(userID, id uint64) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.Where("user_id = ? AND id = ?", userID, id).First(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// MarkRead sets read_at unless it is already set
func (r *GormNotificationRepository) MarkRead(notification *models.Notification, at time.Time) error {
	if notification.ReadAt != nil {
		return nil
	}
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND read_at IS NULL", notification.ID).
		Update("read_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		notification.ReadAt = &at
	}
	return nil
}
