package models

const DefaultTagColor = "#FFFFFF"

type Tag struct {
	ID      uint64 `gorm:"primarykey" json:"id"`
	BoardID uint64 `gorm:"not null;uniqueIndex:idx_tags_board_name" json:"board_id"`
	Name    string `gorm:"type:varchar(50);not null;uniqueIndex:idx_tags_board_name" json:"name"`
	Color   string `gorm:"type:varchar(16);default:'#FFFFFF'" json:"color"`
}

// TaskTag links a task to a tag of the same board.
type TaskTag struct {
	ID     uint64 `gorm:"primarykey" json:"id"`
	TaskID uint64 `gorm:"not null;uniqueIndex:idx_task_tags_task_tag" json:"task_id"`
	TagID  uint64 `gorm:"not null;uniqueIndex:idx_task_tags_task_tag;index" json:"tag_id"`

	// Relations
	Tag Tag `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"tag,omitempty"`
}
