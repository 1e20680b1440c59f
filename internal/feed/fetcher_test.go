package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockNewsDigest/internal/config"
	"StockNewsDigest/internal/logging"
)

var fixedNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func rssDocument(items ...string) string {
	body := ""
	for _, item := range items {
		body += item
	}
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Test Feed</title>` + body + `</channel></rss>`
}

func rssItem(title, link, description, pubDate string) string {
	return fmt.Sprintf(`<item><title>%s</title><link>%s</link><description>%s</description><pubDate>%s</pubDate></item>`,
		title, link, description, pubDate)
}

func newTestFetcher(t *testing.T, feedURL string) *Fetcher {
	t.Helper()

	sources := map[string]config.Source{
		"reuters": {
			Name:  "Reuters",
			Feeds: []config.FeedConfig{{URL: feedURL, Category: "Markets"}},
		},
	}

	f := NewFetcher(sources, []string{"reuters"}, logging.New("error"))
	f.delay = 0
	f.now = func() time.Time { return fixedNow }
	return f
}

func serveRSS(t *testing.T, document string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(document))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchCutoffBoundary(t *testing.T) {
	t.Parallel()

	// One day lookback against fixedNow: exactly on the cutoff is
	// retained, one second older is dropped.
	document := rssDocument(
		rssItem("On the boundary", "https://example.com/a", "kept", "Sun, 09 Mar 2025 12:00:00 +0000"),
		rssItem("One second older", "https://example.com/b", "dropped", "Sun, 09 Mar 2025 11:59:59 +0000"),
	)
	server := serveRSS(t, document)

	f := newTestFetcher(t, server.URL)
	articles, err := f.Fetch(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, articles, 1)
	assert.Equal(t, "On the boundary", articles[0].Title)
}

func TestFetchKeepsUnparseableDates(t *testing.T) {
	t.Parallel()

	document := rssDocument(
		rssItem("Fresh", "https://example.com/a", "new", "Mon, 10 Mar 2025 09:00:00 +0000"),
		rssItem("Dateless", "https://example.com/b", "kept anyway", "not a date"),
	)
	server := serveRSS(t, document)

	f := newTestFetcher(t, server.URL)
	articles, err := f.Fetch(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, articles, 2)
	// Unparseable dates sort as oldest.
	assert.Equal(t, "Fresh", articles[0].Title)
	assert.Equal(t, "Dateless", articles[1].Title)
	assert.True(t, articles[1].PublishedAt.IsZero())
	assert.Equal(t, "not a date", articles[1].PublishedRaw)
}

func TestFetchSortsNewestFirst(t *testing.T) {
	t.Parallel()

	document := rssDocument(
		rssItem("Older", "https://example.com/a", "x", "Mon, 10 Mar 2025 06:00:00 +0000"),
		rssItem("Newest", "https://example.com/b", "x", "Mon, 10 Mar 2025 11:00:00 +0000"),
		rssItem("Middle", "https://example.com/c", "x", "Mon, 10 Mar 2025 09:00:00 +0000"),
	)
	server := serveRSS(t, document)

	f := newTestFetcher(t, server.URL)
	articles, err := f.Fetch(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, articles, 3)
	assert.Equal(t, "Newest", articles[0].Title)
	assert.Equal(t, "Middle", articles[1].Title)
	assert.Equal(t, "Older", articles[2].Title)
}

func TestFetchDefaultsAndHTMLCleanup(t *testing.T) {
	t.Parallel()

	document := rssDocument(
		`<item><link>https://example.com/a</link><pubDate>Mon, 10 Mar 2025 09:00:00 +0000</pubDate>` +
			`<description>&lt;p&gt;AAPL &lt;b&gt;rallies&lt;/b&gt; hard&lt;/p&gt;</description></item>`,
	)
	server := serveRSS(t, document)

	f := newTestFetcher(t, server.URL)
	articles, err := f.Fetch(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, articles, 1)
	assert.Equal(t, "No title", articles[0].Title)
	assert.Equal(t, "AAPL rallies hard", articles[0].Summary)
	assert.Equal(t, "Markets", articles[0].Category)
	assert.Equal(t, "Reuters", articles[0].SourceName)
	assert.Equal(t, "reuters", articles[0].SourceID)
}

func TestFetchIsolatesBadFeeds(t *testing.T) {
	t.Parallel()

	good := serveRSS(t, rssDocument(
		rssItem("Survivor", "https://example.com/a", "x", "Mon, 10 Mar 2025 09:00:00 +0000"),
	))
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(bad.Close)

	sources := map[string]config.Source{
		"mixed": {
			Name: "Mixed",
			Feeds: []config.FeedConfig{
				{URL: bad.URL, Category: "Broken"},
				{URL: good.URL, Category: "Markets"},
			},
		},
	}

	f := NewFetcher(sources, []string{"mixed"}, logging.New("error"))
	f.delay = 0
	f.now = func() time.Time { return fixedNow }

	articles, err := f.Fetch(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, articles, 1)
	assert.Equal(t, "Survivor", articles[0].Title)
}

func TestFetchSkipsUnknownSources(t *testing.T) {
	t.Parallel()

	server := serveRSS(t, rssDocument(
		rssItem("Known", "https://example.com/a", "x", "Mon, 10 Mar 2025 09:00:00 +0000"),
	))

	f := newTestFetcher(t, server.URL)
	f.preferred = []string{"missing", "reuters"}

	articles, err := f.Fetch(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, articles, 1)
}

func TestFetchNotConfigured(t *testing.T) {
	t.Parallel()

	f := NewFetcher(nil, nil, logging.New("error"))
	f.delay = 0

	articles, err := f.Fetch(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Empty(t, articles)
	assert.NotNil(t, articles)
}

func TestFetchDefaultCategory(t *testing.T) {
	t.Parallel()

	server := serveRSS(t, rssDocument(
		rssItem("Uncategorized", "https://example.com/a", "x", "Mon, 10 Mar 2025 09:00:00 +0000"),
	))

	sources := map[string]config.Source{
		"plain": {Name: "Plain", Feeds: []config.FeedConfig{{URL: server.URL}}},
	}

	f := NewFetcher(sources, []string{"plain"}, logging.New("error"))
	f.delay = 0
	f.now = func() time.Time { return fixedNow }

	articles, err := f.Fetch(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "General", articles[0].Category)
}
