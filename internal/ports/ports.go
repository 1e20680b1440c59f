package ports

import (
	"context"
	"time"

	"StockNewsDigest/internal/domain"
)

// ArticleSource pulls fresh articles from the configured feeds.
// An empty slice with a nil error means "nothing to do", not a failure.
type ArticleSource interface {
	Fetch(ctx context.Context, lookbackDays int) ([]domain.Article, error)
}

// Summarizer turns the ranked working set into digest text.
type Summarizer interface {
	GenerateSummary(ctx context.Context, articles []domain.Article, useAllArticles bool) (string, error)
}

// SentimentClassifier labels article text as positive, negative or
// neutral. Implementations may fail; callers fall back to the
// rule-based path.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// QuoteSource returns a price snapshot per ticker. Tickers that cannot
// be quoted are simply absent from the result.
type QuoteSource interface {
	FetchQuotes(ctx context.Context, tickers []string) map[string]domain.Quote
}

// Notifier fans the digest out to delivery channels, reporting whether
// at least one channel accepted it.
type Notifier interface {
	Deliver(ctx context.Context, summary, title string) bool
}

// Exporter writes the digest to local files.
type Exporter interface {
	ExportMarkdown(summary, title string, data domain.DigestData) (string, error)
	ExportPDF(summary, title string, data domain.DigestData) (string, error)
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
