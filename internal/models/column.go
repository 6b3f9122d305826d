package models

import "time"

// Column is a board lane. Order is stored as "position" to stay clear of the
// reserved ORDER keyword across dialects.
type Column struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	BoardID   uint64    `gorm:"not null;index:idx_columns_board_position,priority:1" json:"board"`
	Name      string    `gorm:"type:varchar(120);not null" json:"name"`
	Order     int       `gorm:"column:position;not null;default:0;index:idx_columns_board_position,priority:2" json:"order"`
	CreatedAt time.Time `json:"created_at"`
}
