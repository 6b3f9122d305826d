package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID         uint64     `gorm:"primarykey" json:"id"`
	UserID     uint64     `gorm:"not null;index" json:"user_id"`
	Message    string     `gorm:"type:varchar(255);not null" json:"message"`
	RefBoardID *uint64    `gorm:"index" json:"ref_board"`
	EventID    string     `gorm:"type:varchar(36);uniqueIndex" json:"-"`
	ReadAt     *time.Time `json:"read_at"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`

	// Relations
	User     User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	RefBoard *Board `gorm:"foreignKey:RefBoardID;constraint:OnDelete:SET NULL" json:"-"`
}

func (n Notification) IsRead() bool {
	return n.ReadAt != nil
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.EventID == "" {
		n.EventID = uuid.NewString()
	}
	return nil
}
