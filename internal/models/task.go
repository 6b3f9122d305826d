package models

import (
	"time"
)

type Task struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	ColumnID    uint64    `gorm:"not null;index:idx_tasks_column_position,priority:1" json:"column"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Order       int       `gorm:"column:position;not null;default:0;index:idx_tasks_column_position,priority:2" json:"order"`
	CreatedByID *uint64   `gorm:"index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Column      Column           `gorm:"foreignKey:ColumnID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedBy   *User            `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
	TaskTags    []TaskTag        `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
}
