package pagetitle

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Strategy attempts to produce a title for an episode URL.
// It returns the title and true on success, or "" and false to let the
// next strategy in the chain run.
type Strategy func(ctx context.Context, rawURL string) (string, bool)

// Options configures the extractor
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// DefaultOptions returns default extraction options
func DefaultOptions() Options {
	return Options{
		Timeout:   15 * time.Second,
		UserAgent: "PodbriefAPI/1.0",
	}
}

// Extractor resolves a human-readable title for an episode URL.
// Resolution is total: it runs an ordered strategy chain (override, page
// metadata, URL filename) and the last strategy cannot fail.
type Extractor struct {
	client  *http.Client
	options Options
}

// NewExtractor creates a new title extractor
func NewExtractor(options Options) *Extractor {
	return &Extractor{
		client:  &http.Client{Timeout: options.Timeout},
		options: options,
	}
}

// Resolve returns a non-empty title for the given URL. A non-empty
// override wins unconditionally. Errors never reach the caller.
func (e *Extractor) Resolve(ctx context.Context, rawURL, override string) string {
	strategies := []Strategy{
		overrideStrategy(override),
		e.pageStrategy,
		filenameStrategy,
	}

	for _, strategy := range strategies {
		if title, ok := strategy(ctx, rawURL); ok {
			return title
		}
	}

	// filenameStrategy always succeeds; this is unreachable in practice
	return rawURL
}

// overrideStrategy wins when the caller supplied a non-empty title.
func overrideStrategy(override string) Strategy {
	return func(_ context.Context, _ string) (string, bool) {
		title := strings.TrimSpace(override)
		return title, title != ""
	}
}

// pageStrategy fetches the URL as a webpage and reads standard metadata:
// Open Graph title first, then the document title.
func (e *Extractor) pageStrategy(ctx context.Context, rawURL string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", e.options.UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return "", false
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", false
	}

	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if title := strings.TrimSpace(og); title != "" {
			return title, true
		}
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title, true
	}

	return "", false
}

// filenameStrategy derives a title from the final URL path segment with
// the extension stripped. It never fails.
func filenameStrategy(_ context.Context, rawURL string) (string, bool) {
	return FromURLPath(rawURL), true
}

// FromURLPath derives a fallback title from a URL's last path segment.
func FromURLPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return fallbackHost(rawURL)
	}

	base := path.Base(u.Path)
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	base = strings.TrimSpace(base)
	if base == "" || base == "." {
		return fallbackHost(rawURL)
	}
	return base
}

func fallbackHost(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return fmt.Sprintf("episode from %s", u.Host)
	}
	return "untitled episode"
}
