package dto

import (
	"time"

	"github.com/yukikurage/kanban-api/internal/models"
)

// ColumnDTO represents a column in API responses
type ColumnDTO struct {
	ID        uint64    `json:"id"`
	BoardID   uint64    `json:"board"`
	Name      string    `json:"name"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskAssignmentDTO represents a task assignment in API responses
type TaskAssignmentDTO struct {
	User       UserDTO   `json:"user"`
	AssignedAt time.Time `json:"assigned_at"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	ColumnID    uint64              `json:"column"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Order       int                 `json:"order"`
	CreatedByID *uint64             `json:"created_by"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Assignments []TaskAssignmentDTO `json:"assignments,omitempty"`
	Tags        []TagDTO            `json:"tags,omitempty"`
}

// GeneratedTaskDTO represents an AI task suggestion
type GeneratedTaskDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ToColumnDTO converts a Column model to ColumnDTO
func ToColumnDTO(column models.Column) ColumnDTO {
	return ColumnDTO{
		ID:        column.ID,
		BoardID:   column.BoardID,
		Name:      column.Name,
		Order:     column.Order,
		CreatedAt: column.CreatedAt,
	}
}

// ToColumnDTOs converts columns to DTOs
func ToColumnDTOs(columns []models.Column) []ColumnDTO {
	dtos := make([]ColumnDTO, len(columns))
	for i, column := range columns {
		dtos[i] = ToColumnDTO(column)
	}
	return dtos
}

// ToTaskDTO converts a Task model to TaskDTO with whatever relations are loaded
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		ColumnID:    task.ColumnID,
		Title:       task.Title,
		Description: task.Description,
		Order:       task.Order,
		CreatedByID: task.CreatedByID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if len(task.Assignments) > 0 {
		dto.Assignments = make([]TaskAssignmentDTO, len(task.Assignments))
		for i, assignment := range task.Assignments {
			dto.Assignments[i] = TaskAssignmentDTO{
				User:       ToUserDTO(assignment.User),
				AssignedAt: assignment.AssignedAt,
			}
		}
	}

	if len(task.TaskTags) > 0 {
		dto.Tags = make([]TagDTO, len(task.TaskTags))
		for i, link := range task.TaskTags {
			dto.Tags[i] = ToTagDTO(link.Tag)
		}
	}

	return dto
}

// ToTaskDTOs converts tasks to DTOs
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
