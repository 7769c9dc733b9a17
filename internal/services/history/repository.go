package history

import (
	"context"
	"errors"

	"github.com/podbrief/podbrief-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// repository implements the Repository interface using GORM
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new history repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetByKey retrieves a record by episode key, nil when absent
func (r *repository) GetByKey(ctx context.Context, episodeKey string) (*models.HistoryRecord, error) {
	var record models.HistoryRecord

	result := r.db.WithContext(ctx).Where("episode_key = ?", episodeKey).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return &record, nil
}

// Upsert inserts or replaces the record for an episode key
func (r *repository) Upsert(ctx context.Context, record *models.HistoryRecord) error {
	if record == nil {
		return errors.New("record cannot be nil")
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "episode_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "source_url", "feed_name", "success", "processed_at", "updated_at",
		}),
	}).Create(record)

	return result.Error
}

// DeleteByKey removes a single record. Unscoped for the same reason
// as DeleteAll: the key must be free for re-processing.
func (r *repository) DeleteByKey(ctx context.Context, episodeKey string) error {
	result := r.db.WithContext(ctx).Unscoped().Where("episode_key = ?", episodeKey).Delete(&models.HistoryRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAll empties the table
func (r *repository) DeleteAll(ctx context.Context) error {
	// Unscoped so cleared keys do not linger as soft-deleted rows that
	// would break the unique index on re-processing
	return r.db.WithContext(ctx).Unscoped().Where("1 = 1").Delete(&models.HistoryRecord{}).Error
}

// List returns all records ordered by processing time, newest first
func (r *repository) List(ctx context.Context) ([]models.HistoryRecord, error) {
	var records []models.HistoryRecord

	result := r.db.WithContext(ctx).Order("processed_at DESC").Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	return records, nil
}
