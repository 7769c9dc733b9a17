package feedsources

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

// NewRepository creates a new feed source repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create inserts a new feed source
func (r *repository) Create(ctx context.Context, source *models.FeedSource) error {
	if source == nil {
		return errors.New("feed source cannot be nil")
	}
	return r.db.WithContext(ctx).Create(source).Error
}

// GetByURL retrieves a feed source by URL, nil when absent
func (r *repository) GetByURL(ctx context.Context, url string) (*models.FeedSource, error) {
	var source models.FeedSource

	result := r.db.WithContext(ctx).Where("url = ?", url).First(&source)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return &source, nil
}

// List returns all feed sources ordered by position
func (r *repository) List(ctx context.Context) ([]models.FeedSource, error) {
	var sources []models.FeedSource

	result := r.db.WithContext(ctx).Order("position ASC").Find(&sources)
	if result.Error != nil {
		return nil, result.Error
	}

	return sources, nil
}

// DeleteByURL removes a feed source by URL. Unscoped so the URL's
// unique index slot is freed for re-adding the feed later.
func (r *repository) DeleteByURL(ctx context.Context, url string) error {
	result := r.db.WithContext(ctx).Unscoped().Where("url = ?", url).Delete(&models.FeedSource{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MaxPosition returns the highest position in use, 0 when empty
func (r *repository) MaxPosition(ctx context.Context) (int, error) {
	var max *int

	result := r.db.WithContext(ctx).Model(&models.FeedSource{}).Select("MAX(position)").Scan(&max)
	if result.Error != nil {
		return 0, result.Error
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}
