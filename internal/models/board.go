package models

import (
	"time"
)

type Board struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	OwnerID     uint64    `gorm:"not null;index" json:"owner_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Owner   User          `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Members []BoardMember `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"-"`
	Columns []Column      `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"-"`
	Tags    []Tag         `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"-"`
}
