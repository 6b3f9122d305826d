package repository

import (
	"github.com/yukikurage/kanban-api/internal/database"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/ordering"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Append creates a task after the last task of its column
func (r *GormTaskRepository) Append(task *models.Task) error {
	position, err := ordering.Tasks.Next(r.db, task.ColumnID)
	if err != nil {
		return err
	}
	task.Order = position
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// LockByID loads a task with SELECT ... FOR UPDATE
func (r *GormTaskRepository) LockByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List lists the tasks of a column in display order
func (r *GormTaskRepository) List(columnID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Where("column_id = ?", columnID).
		Scopes(database.ByPosition("tasks")).
		Find(&tasks).Error
	return tasks, err
}

// Update saves task fields
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Model(task).Select("title", "description").Updates(task).Error
}

// Delete deletes a task together with its assignments and tag links
func (r *GormTaskRepository) Delete(id uint64) error {
	if err := r.db.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("task_id = ?", id).Delete(&models.TaskTag{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Task{}, id).Error
}

// Reorder renumbers the listed tasks of a column
func (r *GormTaskRepository) Reorder(columnID uint64, ids []uint64) error {
	return ordering.Tasks.Reorder(r.db, columnID, ids)
}

// Move places a task in a column relative to an anchor
func (r *GormTaskRepository) Move(taskID, columnID uint64, anchor ordering.Anchor) (int, error) {
	return ordering.Tasks.Move(r.db, taskID, columnID, anchor)
}

// ListAssignees lists the users assigned to a task ordered by username
func (r *GormTaskRepository) ListAssignees(taskID uint64) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN task_assignments ON task_assignments.user_id = users.id").
		Where("task_assignments.task_id = ?", taskID).
		Order("users.username ASC").
		Find(&users).Error
	return users, err
}

// Assign assigns a user to a task
func (r *GormTaskRepository) Assign(taskID, userID uint64) (bool, error) {
	result := r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&models.TaskAssignment{TaskID: taskID, UserID: userID})
	return result.RowsAffected > 0, result.Error
}

// Unassign removes an assignment
func (r *GormTaskRepository) Unassign(taskID, userID uint64) (bool, error) {
	result := r.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		Delete(&models.TaskAssignment{})
	return result.RowsAffected > 0, result.Error
}

// ListTags lists the tags attached to a task ordered by name
func (r *GormTaskRepository) ListTags(taskID uint64) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.
		Joins("JOIN task_tags ON task_tags.tag_id = tags.id").
		Where("task_tags.task_id = ?", taskID).
		Order("tags.name ASC").
		Find(&tags).Error
	return tags, err
}

// AttachTag links a tag to a task
func (r *GormTaskRepository) AttachTag(taskID, tagID uint64) (bool, error) {
	result := r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "tag_id"}},
			DoNothing: true,
		}).
		Create(&models.TaskTag{TaskID: taskID, TagID: tagID})
	return result.RowsAffected > 0, result.Error
}

// DetachTag removes a tag link if present
func (r *GormTaskRepository) DetachTag(taskID, tagID uint64) error {
	return r.db.Where("task_id = ? AND tag_id = ?", taskID, tagID).
		Delete(&models.TaskTag{}).Error
}
