package repository

import (
	"github.com/yukikurage/kanban-api/internal/database"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/ordering"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormColumnRepository is a GORM implementation of ColumnRepository
type GormColumnRepository struct {
	db *gorm.DB
}

// NewColumnRepository creates a new ColumnRepository
func NewColumnRepository(db *gorm.DB) ColumnRepository {
	return &GormColumnRepository{db: db}
}

// Append creates a column after the last column of its board
func (r *GormColumnRepository) Append(column *models.Column) error {
	position, err := ordering.Columns.Next(r.db, column.BoardID)
	if err != nil {
		return err
	}
	column.Order = position
	return r.db.Create(column).Error
}

// FindByID finds a column by ID
func (r *GormColumnRepository) FindByID(id uint64) (*models.Column, error) {
	var column models.Column
	if err := r.db.First(&column, id).Error; err != nil {
		return nil, err
	}
	return &column, nil
}

// LockByID loads a column with SELECT ... FOR UPDATE
func (r *GormColumnRepository) LockByID(id uint64) (*models.Column, error) {
	var column models.Column
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&column, id).Error; err != nil {
		return nil, err
	}
	return &column, nil
}

// List lists the columns of a board in display order
func (r *GormColumnRepository) List(boardID uint64) ([]models.Column, error) {
	var columns []models.Column
	err := r.db.Where("board_id = ?", boardID).
		Scopes(database.ByPosition("columns")).
		Find(&columns).Error
	return columns, err
}

// Update saves column fields
func (r *GormColumnRepository) Update(column *models.Column) error {
	return r.db.Model(column).Update("name", column.Name).Error
}

// Delete deletes a column and its tasks
func (r *GormColumnRepository) Delete(id uint64) error {
	tasks := r.db.Model(&models.Task{}).Select("id").Where("column_id = ?", id)

	if err := r.db.Where("task_id IN (?)", tasks).Delete(&models.TaskAssignment{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("task_id IN (?)", tasks).Delete(&models.TaskTag{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("column_id = ?", id).Delete(&models.Task{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Column{}, id).Error
}

// Reorder renumbers the listed columns of a board
func (r *GormColumnRepository) Reorder(boardID uint64, ids []uint64) error {
	return ordering.Columns.Reorder(r.db, boardID, ids)
}
