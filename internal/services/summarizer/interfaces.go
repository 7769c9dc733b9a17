package summarizer

import (
	"context"

	"github.com/podbrief/podbrief-api/internal/models"
)

// Generator produces a summary of transcript text using a named
// template. Implementations handle chunking internally.
type Generator interface {
	Generate(ctx context.Context, templateName, text string) (string, error)
}

// Service coordinates summary generation across the configured
// templates for an episode
type Service interface {
	// Summarize renders every requested template over the transcript
	// text. Templates fail independently: the returned summaries hold
	// whatever succeeded and the error aggregates per-template
	// failures, if any.
	Summarize(ctx context.Context, episodeKey, text string, templates []string) ([]*models.Summary, error)

	// GetSummaries returns all stored summaries for an episode
	GetSummaries(ctx context.Context, episodeKey string) ([]*models.Summary, error)
}

// Repository handles summary persistence
type Repository interface {
	GetByKey(ctx context.Context, episodeKey string) ([]*models.Summary, error)
	Save(ctx context.Context, summary *models.Summary) error
}
