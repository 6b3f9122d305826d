package models

import (
	"time"

	"gorm.io/gorm"
)

type BoardRole string

const (
	RoleOwner  BoardRole = "owner"
	RoleEditor BoardRole = "editor"
	RoleViewer BoardRole = "viewer"
)

// Valid reports whether r is one of the known membership roles.
func (r BoardRole) Valid() bool {
	switch r {
	case RoleOwner, RoleEditor, RoleViewer:
		return true
	}
	return false
}

type BoardMember struct {
	ID       uint64    `gorm:"primarykey" json:"id"`
	BoardID  uint64    `gorm:"not null;uniqueIndex:idx_board_members_board_user" json:"board_id"`
	UserID   uint64    `gorm:"not null;uniqueIndex:idx_board_members_board_user;index" json:"user_id"`
	Role     BoardRole `gorm:"type:varchar(12);not null;default:'viewer'" json:"role"`
	JoinedAt time.Time `json:"joined_at"`

	// Relations
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
}

func (m *BoardMember) BeforeCreate(tx *gorm.DB) error {
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	if m.Role == "" {
		m.Role = RoleViewer
	}
	return nil
}
