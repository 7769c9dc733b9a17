package models

import (
	"time"

	"gorm.io/gorm"
)

// HistoryRecord marks an episode as fully processed.
// Rows are only written after every pipeline stage for the episode has
// completed, so presence of a successful record means "skip on re-run".
type HistoryRecord struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	EpisodeKey  string         `gorm:"uniqueIndex;not null" json:"episode_key"`
	Title       string         `json:"title"`
	SourceURL   string         `json:"source_url"`
	FeedName    string         `json:"feed_name"`
	Success     bool           `gorm:"default:true" json:"success"`
	ProcessedAt time.Time      `json:"processed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for HistoryRecord
func (HistoryRecord) TableName() string {
	return "history_records"
}
