package models

import (
	"time"

	"gorm.io/gorm"
)

// FeedSource is a configured podcast feed URL.
// Position preserves the order feeds were added in.
type FeedSource struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	URL       string         `gorm:"uniqueIndex;not null" json:"url"`
	Name      string         `json:"name"`
	Position  int            `gorm:"index" json:"position"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for FeedSource
func (FeedSource) TableName() string {
	return "feed_sources"
}
