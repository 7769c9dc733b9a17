package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDirectAudioByExtension(t *testing.T) {
	// Extension check happens before any network call
	d := NewDownloader(DefaultOptions())

	classification, err := d.Classify(context.Background(), "https://cdn.example.com/show/ep42.mp3")
	require.NoError(t, err)

	assert.Equal(t, DirectAudio, classification.Kind)
	assert.Equal(t, "https://cdn.example.com/show/ep42.mp3", classification.AudioURL)
}

func TestClassifyDirectAudioByContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
	}))
	defer server.Close()

	d := NewDownloader(DefaultOptions())
	classification, err := d.Classify(context.Background(), server.URL+"/stream")
	require.NoError(t, err)

	assert.Equal(t, DirectAudio, classification.Kind)
	assert.Equal(t, server.URL+"/stream", classification.AudioURL)
}

func TestClassifyWebpageWithAudio(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string // audio URL path expected, or absolute URL
	}{
		{
			name:     "audio element",
			html:     `<html><body><audio src="/media/ep.mp3"></audio></body></html>`,
			expected: "/media/ep.mp3",
		},
		{
			name:     "audio source element",
			html:     `<html><body><audio><source src="/media/ep.ogg" type="audio/ogg"></audio></body></html>`,
			expected: "/media/ep.ogg",
		},
		{
			name:     "og:audio meta",
			html:     `<html><head><meta property="og:audio" content="https://cdn.example.com/ep.mp3"/></head></html>`,
			expected: "https://cdn.example.com/ep.mp3",
		},
		{
			name:     "anchor to audio file",
			html:     `<html><body><a href="/downloads/episode-7.mp3">Download</a></body></html>`,
			expected: "/downloads/episode-7.mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte(tt.html))
			}))
			defer server.Close()

			d := NewDownloader(DefaultOptions())
			classification, err := d.Classify(context.Background(), server.URL+"/episodes/7")
			require.NoError(t, err)

			assert.Equal(t, WebpageWithAudio, classification.Kind)
			if tt.expected[0] == '/' {
				// Relative references resolve against the page URL
				assert.Equal(t, server.URL+tt.expected, classification.AudioURL)
			} else {
				assert.Equal(t, tt.expected, classification.AudioURL)
			}
		})
	}
}

func TestClassifyWebpageWithoutAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><p>just text</p></body></html>`))
	}))
	defer server.Close()

	d := NewDownloader(DefaultOptions())
	classification, err := d.Classify(context.Background(), server.URL+"/about")
	require.Error(t, err)

	assert.Equal(t, Unresolvable, classification.Kind)
	assert.Empty(t, classification.AudioURL)
}

func TestClassifyUnreachableURL(t *testing.T) {
	d := NewDownloader(DefaultOptions())

	classification, err := d.Classify(context.Background(), "http://127.0.0.1:1/whatever")
	require.Error(t, err)
	assert.Equal(t, Unresolvable, classification.Kind)
}

func TestAudioExtension(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://example.com/ep.mp3", "mp3"},
		{"https://example.com/ep.OGG", "ogg"},
		{"https://example.com/ep.m4a?sig=abc", "m4a"},
		{"https://example.com/stream", "mp3"},
		{"https://example.com/page.html", "mp3"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, AudioExtension(tt.input), tt.input)
	}
}
