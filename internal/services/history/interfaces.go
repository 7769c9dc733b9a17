package history

import (
	"context"

	"github.com/podbrief/podbrief-api/internal/models"
)

// Service defines the processing history operations used by the
// pipeline. IsProcessed must reflect the persisted state at call time;
// implementations do not cache across calls.
type Service interface {
	// IsProcessed reports whether the episode key has a successful record
	IsProcessed(ctx context.Context, episodeKey string) (bool, error)

	// MarkProcessed records an episode as fully processed. Callers only
	// invoke this after every pipeline stage succeeded.
	MarkProcessed(ctx context.Context, record *models.HistoryRecord) error

	// Remove deletes a single record by episode key
	Remove(ctx context.Context, episodeKey string) error

	// Clear empties the history entirely
	Clear(ctx context.Context) error

	// List returns all records, most recent first
	List(ctx context.Context) ([]models.HistoryRecord, error)
}

// Repository defines the persistence interface for history records
type Repository interface {
	GetByKey(ctx context.Context, episodeKey string) (*models.HistoryRecord, error)
	Upsert(ctx context.Context, record *models.HistoryRecord) error
	DeleteByKey(ctx context.Context, episodeKey string) error
	DeleteAll(ctx context.Context) error
	List(ctx context.Context) ([]models.HistoryRecord, error)
}
