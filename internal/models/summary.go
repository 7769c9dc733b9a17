package models

import (
	"time"

	"gorm.io/gorm"
)

// Summary is one generated summary document, keyed by episode and template.
type Summary struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	EpisodeKey string         `gorm:"uniqueIndex:idx_summaries_key_template;not null" json:"episode_key"`
	Template   string         `gorm:"uniqueIndex:idx_summaries_key_template;not null" json:"template"`
	Content    string         `gorm:"type:text" json:"content"`
	Model      string         `json:"model"`
	Path       string         `json:"path"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Summary
func (Summary) TableName() string {
	return "summaries"
}
