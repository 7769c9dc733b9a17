package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/podbrief/podbrief-api/internal/models"
	"github.com/podbrief/podbrief-api/pkg/feedparse"
)

// FeedError records a feed that could not be resolved. One feed's
// failure never aborts resolution of the others.
type FeedError struct {
	FeedURL string
	Err     error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("feed %s: %v", e.FeedURL, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

// Resolver turns feed URLs into episode descriptors ready for the
// orchestrator
type Resolver struct {
	parser *feedparse.Parser
}

// NewResolver creates a feed resolver
func NewResolver(parser *feedparse.Parser) *Resolver {
	return &Resolver{parser: parser}
}

// ResolveFeeds fetches each feed and enumerates candidate episodes.
// Items arrive newest-first; by default only the latest item per feed
// is selected, latestOnly=false selects all. Failed feeds are
// collected and returned alongside the episodes that did resolve.
func (r *Resolver) ResolveFeeds(ctx context.Context, feedURLs []string, latestOnly bool) ([]*models.Episode, []*FeedError) {
	var episodes []*models.Episode
	var failures []*FeedError

	for _, feedURL := range feedURLs {
		feed, err := r.parser.Resolve(ctx, feedURL)
		if err != nil {
			log.Printf("[ERROR] Failed to resolve feed %s: %v", feedURL, err)
			failures = append(failures, &FeedError{FeedURL: feedURL, Err: err})
			continue
		}

		items := feed.Items
		if latestOnly && len(items) > 1 {
			items = items[:1]
		}
		if len(items) == 0 {
			log.Printf("[DEBUG] Feed %s has no entries", feedURL)
			continue
		}

		for _, item := range items {
			episode, err := episodeFromItem(item)
			if err != nil {
				failures = append(failures, &FeedError{FeedURL: feedURL, Err: err})
				continue
			}
			episodes = append(episodes, episode)
		}
	}

	return episodes, failures
}

// ResolveDirect builds an episode descriptor for an ad-hoc URL with
// an optional user-supplied title
func (r *Resolver) ResolveDirect(rawURL, title string) (*models.Episode, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("episode URL cannot be empty")
	}
	episode := models.NewEpisode("", rawURL)
	episode.Title = title
	return &episode, nil
}

func episodeFromItem(item feedparse.Item) (*models.Episode, error) {
	sourceURL := item.AudioURL
	if sourceURL == "" {
		sourceURL = item.Link
	}
	if sourceURL == "" {
		return nil, fmt.Errorf("feed item %q carries no audio URL or link", item.Title)
	}

	episode := models.NewEpisode(item.GUID, sourceURL)
	episode.Title = item.Title
	episode.Description = item.Description
	episode.PublishedAt = item.Published
	episode.FeedName = item.FeedName
	episode.AudioURL = item.AudioURL
	return &episode, nil
}
