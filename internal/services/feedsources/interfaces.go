package feedsources

import (
	"context"

	"github.com/podbrief/podbrief-api/internal/models"
)

// Service manages the configured feed source list
type Service interface {
	// Add registers feed URLs, skipping duplicates. Returns the number
	// of feeds actually added.
	Add(ctx context.Context, urls []string) (int, error)

	// List returns all feed sources in the order they were added
	List(ctx context.Context) ([]models.FeedSource, error)

	// Remove deletes feed sources by URL. Returns the number removed.
	Remove(ctx context.Context, urls []string) (int, error)
}

// Repository defines the persistence interface for feed sources
type Repository interface {
	Create(ctx context.Context, source *models.FeedSource) error
	GetByURL(ctx context.Context, url string) (*models.FeedSource, error)
	List(ctx context.Context) ([]models.FeedSource, error)
	DeleteByURL(ctx context.Context, url string) error
	MaxPosition(ctx context.Context) (int, error)
}
