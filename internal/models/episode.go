package models

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"time"
)

// DirectFeedName is the originating feed name recorded for episodes
// submitted as bare URLs rather than resolved from a feed.
const DirectFeedName = "direct"

// Episode is an in-memory episode descriptor flowing through the pipeline.
// It is never persisted itself; only its Key ends up in the history store.
type Episode struct {
	Key         string
	GUID        string
	Title       string
	SourceURL   string
	AudioURL    string
	Description string
	PublishedAt time.Time
	FeedName    string
}

// NewEpisode builds an episode descriptor and derives its stable key.
func NewEpisode(guid, sourceURL string) Episode {
	return Episode{
		Key:       EpisodeKey(guid, sourceURL),
		GUID:      guid,
		SourceURL: sourceURL,
		FeedName:  DirectFeedName,
	}
}

// EpisodeKey derives the stable identity key for an episode.
// The feed item GUID wins when present; otherwise the key is the SHA-256
// of the canonicalized source URL, so the same audio URL always maps to
// the same key across runs.
func EpisodeKey(guid, sourceURL string) string {
	if guid != "" {
		return fmt.Sprintf("%x", sha256.Sum256([]byte(guid)))
	}
	return fmt.Sprintf("%x", sha256.Sum256([]byte(CanonicalURL(sourceURL))))
}

// CanonicalURL strips query parameters and fragments so tracking-token
// variations of the same audio URL produce the same episode key.
func CanonicalURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
