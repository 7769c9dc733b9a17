package transcriber

import (
	"context"
	"errors"

	"github.com/podbrief/podbrief-api/internal/models"
	"gorm.io/gorm"
)

// repository implements the Repository interface using GORM
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new transcript repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetByKey retrieves a transcript by episode key, nil when absent
func (r *repository) GetByKey(ctx context.Context, episodeKey string) (*models.Transcript, error) {
	var transcript models.Transcript

	result := r.db.WithContext(ctx).Where("episode_key = ?", episodeKey).First(&transcript)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return &transcript, nil
}

// Save creates a new transcript or replaces the existing one for the
// same episode key, keeping re-runs idempotent.
func (r *repository) Save(ctx context.Context, transcript *models.Transcript) error {
	if transcript == nil {
		return errors.New("transcript cannot be nil")
	}

	existing, err := r.GetByKey(ctx, transcript.EpisodeKey)
	if err != nil {
		return err
	}

	if existing != nil {
		existing.Text = transcript.Text
		existing.Language = transcript.Language
		existing.Model = transcript.Model
		existing.Duration = transcript.Duration
		existing.Path = transcript.Path
		existing.Segments = transcript.Segments
		return r.db.WithContext(ctx).Save(existing).Error
	}

	return r.db.WithContext(ctx).Create(transcript).Error
}
