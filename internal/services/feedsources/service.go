package feedsources

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/podbrief/podbrief-api/internal/models"
	apperrors "github.com/podbrief/podbrief-api/pkg/errors"
	"gorm.io/gorm"
)

// service implements the Service interface
type service struct {
	repo Repository
}

// NewService creates a new feed source service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Add registers feed URLs, preserving insertion order and skipping URLs
// that are already configured.
func (s *service) Add(ctx context.Context, urls []string) (int, error) {
	position, err := s.repo.MaxPosition(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading feed positions: %w", err)
	}

	added := 0
	for _, raw := range urls {
		feedURL := strings.TrimSpace(raw)
		if err := validateFeedURL(feedURL); err != nil {
			return added, err
		}

		existing, err := s.repo.GetByURL(ctx, feedURL)
		if err != nil {
			return added, fmt.Errorf("checking feed %s: %w", feedURL, err)
		}
		if existing != nil {
			log.Printf("[DEBUG] Feed already configured, skipping: %s", feedURL)
			continue
		}

		position++
		source := &models.FeedSource{URL: feedURL, Position: position}
		if err := s.repo.Create(ctx, source); err != nil {
			return added, fmt.Errorf("adding feed %s: %w", feedURL, err)
		}
		added++
	}

	return added, nil
}

// List returns all configured feed sources
func (s *service) List(ctx context.Context) ([]models.FeedSource, error) {
	return s.repo.List(ctx)
}

// Remove deletes feed sources by URL
func (s *service) Remove(ctx context.Context, urls []string) (int, error) {
	removed := 0
	for _, raw := range urls {
		feedURL := strings.TrimSpace(raw)
		if feedURL == "" {
			continue
		}

		err := s.repo.DeleteByURL(ctx, feedURL)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return removed, fmt.Errorf("removing feed %s: %w", feedURL, err)
		}
		removed++
	}

	return removed, nil
}

func validateFeedURL(feedURL string) error {
	if feedURL == "" {
		return apperrors.MissingFieldError("url")
	}

	u, err := url.Parse(feedURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return apperrors.Newf(apperrors.ErrCodeInvalidInput, "invalid feed URL: %s", feedURL)
	}

	return nil
}
