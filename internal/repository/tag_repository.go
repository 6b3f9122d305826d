package repository

import (
	"github.com/yukikurage/kanban-api/internal/models"
	"gorm.io/gorm"
)

// GormTagRepository is a GORM implementation of TagRepository
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &GormTagRepository{db: db}
}

// Create creates a new tag
func (r *GormTagRepository) Create(tag *models.Tag) error {
	return r.db.Create(tag).Error
}

// FindInBoard finds a tag that belongs to the given board
func (r *GormTagRepository) FindInBoard(boardID, tagID uint64) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Where("board_id = ? AND id = ?", boardID, tagID).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// List lists the tags of a board ordered by name
func (r *GormTagRepository) List(boardID uint64) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Where("board_id = ?", boardID).Order("name ASC").Find(&tags).Error
	return tags, err
}
