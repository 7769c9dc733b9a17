package download

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SourceKind classifies what an episode URL points at.
type SourceKind string

const (
	// DirectAudio means the URL itself is an audio resource
	DirectAudio SourceKind = "direct_audio"
	// WebpageWithAudio means the URL is an HTML page embedding audio
	WebpageWithAudio SourceKind = "webpage_with_audio"
	// Unresolvable means no audio resource could be located
	Unresolvable SourceKind = "unresolvable"
)

// Classification is the result of resolving an episode URL to a concrete
// audio stream.
type Classification struct {
	Kind     SourceKind
	AudioURL string // concrete audio URL; empty when Unresolvable
}

// Classify determines whether url points directly at audio or at a
// webpage embedding audio, resolving to the concrete audio URL either
// way. Unreachable or audio-free pages classify as Unresolvable.
func (d *Downloader) Classify(ctx context.Context, rawURL string) (Classification, error) {
	// Extension check first, sparing a network round trip
	if hasAudioExtension(rawURL) {
		return Classification{Kind: DirectAudio, AudioURL: rawURL}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return Classification{Kind: Unresolvable}, fmt.Errorf("creating HEAD request: %w", err)
	}
	req.Header.Set("User-Agent", d.options.UserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return Classification{Kind: Unresolvable}, fmt.Errorf("probing %s: %w", rawURL, err)
	}
	resp.Body.Close()

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	switch {
	case isAudioContentType(contentType):
		return Classification{Kind: DirectAudio, AudioURL: rawURL}, nil
	case strings.Contains(contentType, "text/html"):
		return d.classifyWebpage(ctx, rawURL)
	default:
		return Classification{Kind: Unresolvable}, fmt.Errorf("unsupported content type %q at %s", contentType, rawURL)
	}
}

// classifyWebpage fetches an HTML page and scans it for embedded audio:
// audio/source elements, og:audio metadata, and enclosure-style links.
func (d *Downloader) classifyWebpage(ctx context.Context, pageURL string) (Classification, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return Classification{Kind: Unresolvable}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", d.options.UserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return Classification{Kind: Unresolvable}, fmt.Errorf("fetching page %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Classification{Kind: Unresolvable}, fmt.Errorf("page %s returned status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Classification{Kind: Unresolvable}, fmt.Errorf("parsing page %s: %w", pageURL, err)
	}

	if audio := findEmbeddedAudio(doc); audio != "" {
		resolved := resolveRelative(pageURL, audio)
		return Classification{Kind: WebpageWithAudio, AudioURL: resolved}, nil
	}

	return Classification{Kind: Unresolvable}, fmt.Errorf("no audio found at %s", pageURL)
}

func findEmbeddedAudio(doc *goquery.Document) string {
	selectors := []string{
		"audio[src]",
		"audio source[src]",
		`meta[property="og:audio"]`,
		`link[type^="audio/"]`,
	}

	for _, sel := range selectors {
		var found string
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			for _, attr := range []string{"src", "content", "href"} {
				if v, ok := s.Attr(attr); ok && v != "" {
					found = v
					return false
				}
			}
			return true
		})
		if found != "" {
			return found
		}
	}

	// Last resort: any anchor pointing at an audio file
	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if hasAudioExtension(href) {
			found = href
			return false
		}
		return true
	})
	return found
}

func resolveRelative(pageURL, ref string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// hasAudioExtension reports whether a URL path ends in a known audio
// file extension.
func hasAudioExtension(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), ".")
	return isValidAudioExtension(ext)
}

// AudioExtension returns the audio file extension for a URL, defaulting
// to mp3 when none can be determined.
func AudioExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err == nil {
		ext := strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), ".")
		if isValidAudioExtension(ext) {
			return ext
		}
	}
	return "mp3"
}
