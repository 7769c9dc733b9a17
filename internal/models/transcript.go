package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// TranscriptSegment is a timed slice of transcript text, passed through
// unmodified from the speech-to-text engine.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// SegmentList stores transcript segments as a JSON column.
type SegmentList []TranscriptSegment

// Value implements driver.Valuer for SegmentList
func (s SegmentList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for SegmentList
func (s *SegmentList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, s)
}

// Transcript represents the text transcription of one episode.
type Transcript struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	EpisodeKey string         `gorm:"uniqueIndex;not null" json:"episode_key"`
	Text       string         `gorm:"type:text" json:"text"`
	Language   string         `json:"language"`
	Model      string         `json:"model"`
	Duration   float64        `json:"duration"`
	Path       string         `json:"path"`
	Segments   SegmentList    `gorm:"type:json" json:"segments,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Transcript
func (Transcript) TableName() string {
	return "transcripts"
}
