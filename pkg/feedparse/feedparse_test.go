package feedparse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Podcast</title>
    <item>
      <guid>ep-1</guid>
      <title>Oldest Episode</title>
      <description>First one</description>
      <pubDate>Mon, 02 Jan 2023 10:00:00 GMT</pubDate>
      <enclosure url="https://cdn.example.com/ep1.mp3" type="audio/mpeg" length="1000"/>
    </item>
    <item>
      <guid>ep-2</guid>
      <title>Newest Episode</title>
      <description>Second one</description>
      <pubDate>Tue, 03 Jan 2023 10:00:00 GMT</pubDate>
      <enclosure url="https://cdn.example.com/ep2.mp3" type="audio/mpeg" length="1000"/>
    </item>
  </channel>
</rss>`

const emptyFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Empty Podcast</title>
  </channel>
</rss>`

const noAudioEnclosureFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Video Podcast</title>
    <item>
      <guid>v-1</guid>
      <title>Video Episode</title>
      <link>https://example.com/episodes/v1</link>
      <enclosure url="https://cdn.example.com/v1.mp4" type="video/mp4" length="1000"/>
    </item>
  </channel>
</rss>`

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestResolveOrdersNewestFirst(t *testing.T) {
	server := serveFeed(t, testFeed)
	parser := NewParser(DefaultOptions())

	feed, err := parser.Resolve(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "Test Podcast", feed.Title)
	require.Len(t, feed.Items, 2)
	assert.Equal(t, "Newest Episode", feed.Items[0].Title)
	assert.Equal(t, "Oldest Episode", feed.Items[1].Title)
}

func TestResolveItemFields(t *testing.T) {
	server := serveFeed(t, testFeed)
	parser := NewParser(DefaultOptions())

	feed, err := parser.Resolve(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, feed.Items, 2)

	item := feed.Items[0]
	assert.Equal(t, "ep-2", item.GUID)
	assert.Equal(t, "https://cdn.example.com/ep2.mp3", item.AudioURL)
	assert.Equal(t, "Test Podcast", item.FeedName)
	assert.Equal(t, "Second one", item.Description)
	assert.False(t, item.Published.IsZero())
}

func TestResolveEmptyFeed(t *testing.T) {
	server := serveFeed(t, emptyFeed)
	parser := NewParser(DefaultOptions())

	feed, err := parser.Resolve(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Empty(t, feed.Items)
}

func TestResolveNonAudioEnclosureLeavesAudioEmpty(t *testing.T) {
	server := serveFeed(t, noAudioEnclosureFeed)
	parser := NewParser(DefaultOptions())

	feed, err := parser.Resolve(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)

	// Only audio/* enclosures count; the link stays available for
	// page classification
	assert.Empty(t, feed.Items[0].AudioURL)
	assert.Equal(t, "https://example.com/episodes/v1", feed.Items[0].Link)
}

func TestResolveMalformedFeed(t *testing.T) {
	server := serveFeed(t, "this is not XML")
	parser := NewParser(DefaultOptions())

	_, err := parser.Resolve(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestResolveUnreachableFeed(t *testing.T) {
	parser := NewParser(DefaultOptions())

	_, err := parser.Resolve(context.Background(), "http://127.0.0.1:1/feed.xml")
	assert.Error(t, err)
}
