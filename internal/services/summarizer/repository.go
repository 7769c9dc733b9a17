package summarizer

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/podbrief/podbrief-api/internal/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new summary repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByKey(ctx context.Context, episodeKey string) ([]*models.Summary, error) {
	var summaries []*models.Summary
	err := r.db.WithContext(ctx).
		Where("episode_key = ?", episodeKey).
		Order("template ASC").
		Find(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("fetching summaries for %s: %w", episodeKey, err)
	}
	return summaries, nil
}

// Save upserts on (episode_key, template) so re-running an episode
// replaces stale content instead of violating the unique index
func (r *repository) Save(ctx context.Context, summary *models.Summary) error {
	var existing models.Summary
	err := r.db.WithContext(ctx).
		Where("episode_key = ? AND template = ?", summary.EpisodeKey, summary.Template).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.db.WithContext(ctx).Create(summary).Error; err != nil {
			return fmt.Errorf("creating summary: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("looking up summary: %w", err)
	}

	updates := map[string]interface{}{
		"content": summary.Content,
		"model":   summary.Model,
		"path":    summary.Path,
	}
	if err := r.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		return fmt.Errorf("updating summary: %w", err)
	}
	summary.ID = existing.ID
	return nil
}
