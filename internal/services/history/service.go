package history

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/podbrief/podbrief-api/internal/models"
	apperrors "github.com/podbrief/podbrief-api/pkg/errors"
)

// service implements the Service interface. Writes to the same episode
// key serialize through a keyed mutex; writes to different keys proceed
// independently.
type service struct {
	repo Repository

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a new history service
func NewService(repo Repository) Service {
	return &service{
		repo:  repo,
		locks: make(map[string]*sync.Mutex),
	}
}

// keyLock returns the mutex guarding one episode key
func (s *service) keyLock(episodeKey string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[episodeKey]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[episodeKey] = lock
	}
	return lock
}

// IsProcessed reports whether the episode has a successful record.
// It always consults the store, so state survives process restarts.
func (s *service) IsProcessed(ctx context.Context, episodeKey string) (bool, error) {
	if episodeKey == "" {
		return false, errors.New("episode key cannot be empty")
	}

	record, err := s.repo.GetByKey(ctx, episodeKey)
	if err != nil {
		return false, err
	}

	return record != nil && record.Success, nil
}

// MarkProcessed records a completed episode
func (s *service) MarkProcessed(ctx context.Context, record *models.HistoryRecord) error {
	if record == nil {
		return errors.New("record cannot be nil")
	}
	if record.EpisodeKey == "" {
		return errors.New("episode key cannot be empty")
	}

	if record.ProcessedAt.IsZero() {
		record.ProcessedAt = time.Now().UTC()
	}
	record.Success = true

	lock := s.keyLock(record.EpisodeKey)
	lock.Lock()
	defer lock.Unlock()

	return s.repo.Upsert(ctx, record)
}

// Remove deletes a single record
func (s *service) Remove(ctx context.Context, episodeKey string) error {
	if episodeKey == "" {
		return errors.New("episode key cannot be empty")
	}

	lock := s.keyLock(episodeKey)
	lock.Lock()
	defer lock.Unlock()

	if err := s.repo.DeleteByKey(ctx, episodeKey); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("history record", episodeKey)
		}
		return err
	}
	return nil
}

// Clear empties the history
func (s *service) Clear(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}

// List returns all records
func (s *service) List(ctx context.Context) ([]models.HistoryRecord, error) {
	return s.repo.List(ctx)
}
