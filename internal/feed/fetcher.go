package feed

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"StockNewsDigest/internal/config"
	"StockNewsDigest/internal/domain"
	"StockNewsDigest/internal/ports"
)

const (
	defaultTitle    = "No title"
	defaultSummary  = "No summary available"
	defaultDate     = "Unknown date"
	defaultCategory = "General"

	// Self-imposed rate limit between feed retrievals.
	defaultDelay = 500 * time.Millisecond

	feedTimeout = 20 * time.Second
)

// ErrNotConfigured reports that sources or preferred source IDs are
// absent. Callers treat it as "nothing to do", not as a failure.
var ErrNotConfigured = errors.New("feed: sources or news_sources not configured")

// Fetcher retrieves and normalizes articles from the configured RSS
// sources. One bad feed never aborts a run.
type Fetcher struct {
	sources   map[string]config.Source
	preferred []string
	parser    *gofeed.Parser
	dates     *DateParser
	logger    *slog.Logger
	delay     time.Duration
	now       func() time.Time
}

var _ ports.ArticleSource = (*Fetcher)(nil)

// NewFetcher wires the feed parser against the configured source map
// and the ordered list of preferred source IDs.
func NewFetcher(sources map[string]config.Source, preferred []string, logger *slog.Logger) *Fetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = "StockNewsDigest/1.0"
	parser.Client = &http.Client{Timeout: feedTimeout}

	return &Fetcher{
		sources:   sources,
		preferred: preferred,
		parser:    parser,
		dates:     NewDateParser(logger),
		logger:    logger,
		delay:     defaultDelay,
		now:       time.Now,
	}
}

// Fetch retrieves every feed of every preferred source, drops entries
// strictly older than the lookback cutoff and returns the surviving
// articles sorted by publication date, newest first. Entries whose
// date cannot be parsed are kept and sort as oldest.
func (f *Fetcher) Fetch(ctx context.Context, lookbackDays int) ([]domain.Article, error) {
	if len(f.sources) == 0 || len(f.preferred) == 0 {
		return []domain.Article{}, ErrNotConfigured
	}

	cutoff := naive(f.now()).Add(-time.Duration(lookbackDays) * 24 * time.Hour)
	articles := make([]domain.Article, 0)

	for _, sourceID := range f.preferred {
		source, ok := f.sources[sourceID]
		if !ok {
			f.logger.Warn("source not found in sources configuration", "source_id", sourceID)
			continue
		}

		f.logger.Info("fetching news", "source", source.Name, "feeds", len(source.Feeds))

		for _, feedInfo := range source.Feeds {
			parsed, err := f.parser.ParseURLWithContext(feedInfo.URL, ctx)

			f.pause(ctx)

			if err != nil {
				f.logger.Error("error fetching feed", "url", feedInfo.URL, "error", err)
				continue
			}

			for _, item := range parsed.Items {
				published := f.itemDate(item)

				if !published.IsZero() && published.Before(cutoff) {
					continue
				}

				articles = append(articles, f.toArticle(item, published, source, sourceID, feedInfo))
			}
		}
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})

	f.logger.Info("fetched articles", "count", len(articles), "sources", len(f.preferred))
	return articles, nil
}

// itemDate prefers the feed library's permissive parse result, falling
// back to the explicit format list on the raw string.
func (f *Fetcher) itemDate(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return f.dates.Normalize(*item.PublishedParsed)
	}
	return f.dates.Parse(item.Published)
}

func (f *Fetcher) toArticle(item *gofeed.Item, published time.Time, source config.Source, sourceID string, feedInfo config.FeedConfig) domain.Article {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = defaultTitle
	}

	summary := stripHTML(item.Description)
	if summary == "" {
		summary = stripHTML(item.Content)
	}
	if summary == "" {
		summary = defaultSummary
	}

	publishedRaw := item.Published
	if publishedRaw == "" {
		publishedRaw = defaultDate
	}

	category := feedInfo.Category
	if category == "" {
		category = defaultCategory
	}

	return domain.Article{
		Title:        title,
		Link:         item.Link,
		Summary:      summary,
		PublishedRaw: publishedRaw,
		PublishedAt:  published,
		SourceName:   source.Name,
		SourceID:     sourceID,
		Category:     category,
	}
}

// pause enforces the inter-feed delay without outliving the context.
func (f *Fetcher) pause(ctx context.Context) {
	if f.delay <= 0 {
		return
	}

	timer := time.NewTimer(f.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// stripHTML flattens feed summaries that arrive as HTML fragments into
// plain text.
func stripHTML(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}

	return strings.Join(strings.Fields(doc.Text()), " ")
}
