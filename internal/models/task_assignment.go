package models

import (
	"time"
)

type TaskAssignment struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	TaskID     uint64    `gorm:"not null;uniqueIndex:idx_task_assignments_task_user" json:"task_id"`
	UserID     uint64    `gorm:"not null;uniqueIndex:idx_task_assignments_task_user;index" json:"user_id"`
	AssignedAt time.Time `gorm:"autoCreateTime" json:"assigned_at"`

	// Relations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}
