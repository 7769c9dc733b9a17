package feedparse

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Item is one episode entry resolved from a feed.
type Item struct {
	GUID        string
	Title       string
	Description string
	AudioURL    string
	Link        string
	FeedName    string
	Published   time.Time
}

// Feed is the resolved view of one podcast feed.
type Feed struct {
	URL   string
	Title string
	Items []Item
}

// Options configures feed resolution
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// DefaultOptions returns default resolution options
func DefaultOptions() Options {
	return Options{
		Timeout:   30 * time.Second,
		UserAgent: "PodbriefAPI/1.0",
	}
}

// Parser fetches and parses RSS/Atom podcast feeds.
type Parser struct {
	fp      *gofeed.Parser
	options Options
}

// NewParser creates a new feed parser with the given options
func NewParser(options Options) *Parser {
	fp := gofeed.NewParser()
	fp.UserAgent = options.UserAgent
	fp.Client = &http.Client{Timeout: options.Timeout}

	return &Parser{
		fp:      fp,
		options: options,
	}
}

// Resolve fetches a feed and returns its items ordered newest-first.
// A feed with zero entries is not an error.
func (p *Parser) Resolve(ctx context.Context, feedURL string) (*Feed, error) {
	feed, err := p.fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", feedURL, err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		item := Item{
			GUID:        entry.GUID,
			Title:       entry.Title,
			Description: entry.Description,
			AudioURL:    audioURL(entry),
			Link:        entry.Link,
			FeedName:    feed.Title,
		}
		if entry.PublishedParsed != nil {
			item.Published = *entry.PublishedParsed
		}
		items = append(items, item)
	}

	// Feeds usually list newest first, but that is convention, not contract
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Published.After(items[j].Published)
	})

	return &Feed{
		URL:   feedURL,
		Title: feed.Title,
		Items: items,
	}, nil
}

// audioURL picks the audio enclosure from a feed entry. Entries
// without one return empty so the entry link goes through page
// classification instead of being downloaded as audio.
func audioURL(entry *gofeed.Item) string {
	for _, enc := range entry.Enclosures {
		if strings.HasPrefix(strings.ToLower(enc.Type), "audio/") && enc.URL != "" {
			return enc.URL
		}
	}
	return ""
}
