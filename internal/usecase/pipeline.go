package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"StockNewsDigest/internal/domain"
	"StockNewsDigest/internal/feed"
	"StockNewsDigest/internal/ports"
	"StockNewsDigest/internal/relevance"
	"StockNewsDigest/internal/sentiment"
)

// Summarization consumes at most this many top-ranked articles.
const summaryArticleLimit = 20

// Export format selectors accepted by RunOptions.
const (
	ExportNone     = ""
	ExportMarkdown = "markdown"
	ExportPDF      = "pdf"
	ExportBoth     = "both"
)

// Fallback texts surfaced when summarization is unavailable or fails.
const (
	summaryUnavailable = "Error: AI summarization service not available."
	summaryFailed      = "Error: Unable to generate summary at this time."
)

// PipelineDeps wires all collaborators into the digest pipeline.
type PipelineDeps struct {
	Source    ports.ArticleSource
	Processor *relevance.Processor
	Sentiment *sentiment.Analyzer
	Quotes    ports.QuoteSource
	Summarize ports.Summarizer
	Exporter  ports.Exporter
	Notifier  ports.Notifier
	Prefs     domain.Preferences
	Logger    *slog.Logger
	Now       func() time.Time
}

// Pipeline implements one digest run: fetch, filter, rank, sentiment,
// quotes, summarize, export, deliver. Nothing in it is fatal; missing
// data degrades to an empty run that ends cleanly.
type Pipeline struct {
	source    ports.ArticleSource
	processor *relevance.Processor
	sentiment *sentiment.Analyzer
	quotes    ports.QuoteSource
	summarize ports.Summarizer
	exporter  ports.Exporter
	notifier  ports.Notifier
	prefs     domain.Preferences
	logger    *slog.Logger
	now       func() time.Time
}

// RunOptions select per-invocation behavior.
type RunOptions struct {
	UseAllArticles bool
	ExportFormat   string
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		source:    deps.Source,
		processor: deps.Processor,
		sentiment: deps.Sentiment,
		quotes:    deps.Quotes,
		summarize: deps.Summarize,
		exporter:  deps.Exporter,
		notifier:  deps.Notifier,
		prefs:     deps.Prefs,
		logger:    logger,
		now:       now,
	}
}

// Run executes one full digest generation.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) error {
	if p.source == nil {
		return nil
	}

	p.logger.Info("starting news summary generation")

	articles, err := p.source.Fetch(ctx, p.prefs.LookbackDays)
	if err != nil {
		if errors.Is(err, feed.ErrNotConfigured) {
			p.logger.Error("sources or preferences not configured, nothing to do")
			return nil
		}
		return err
	}

	if len(articles) == 0 {
		p.logger.Warn("no articles found")
		return nil
	}

	filtered := p.processor.Filter(articles, p.prefs.Tickers, p.prefs.Keywords, !opts.UseAllArticles)
	ranked := p.processor.Rank(filtered, p.prefs.Tickers, p.prefs.Keywords)

	if len(ranked) == 0 {
		p.logger.Warn("no relevant articles found after filtering")
		return nil
	}

	sentimentResults := map[string]domain.SentimentBucket{}
	if p.sentiment != nil {
		sentimentResults = p.sentiment.Analyze(ctx, ranked, p.prefs.Tickers)
	}

	quoteResults := map[string]domain.Quote{}
	if p.quotes != nil {
		quoteResults = p.quotes.FetchQuotes(ctx, p.prefs.Tickers)
	}

	top := ranked
	if len(top) > summaryArticleLimit {
		top = top[:summaryArticleLimit]
	}

	summary := p.buildSummary(ctx, top, opts.UseAllArticles)
	title := "Stock News Summary - " + p.now().Format("January 2, 2006")

	data := domain.DigestData{Sentiment: sentimentResults, Quotes: quoteResults}
	p.export(summary, title, data, opts.ExportFormat)

	if p.notifier == nil {
		return nil
	}

	if p.notifier.Deliver(ctx, summary, title) {
		p.logger.Info("summary delivered successfully")
	} else {
		p.logger.Error("failed to deliver summary")
	}

	return nil
}

// buildSummary asks the external summarizer, degrading to fixed
// fallback text instead of failing the run.
func (p *Pipeline) buildSummary(ctx context.Context, articles []domain.Article, useAllArticles bool) string {
	if p.summarize == nil {
		p.logger.Error("ai client not initialized")
		return summaryUnavailable
	}

	summary, err := p.summarize.GenerateSummary(ctx, articles, useAllArticles)
	if err != nil {
		p.logger.Error("error generating summary", "error", err)
		return summaryFailed
	}

	return summary
}

func (p *Pipeline) export(summary, title string, data domain.DigestData, format string) {
	if p.exporter == nil || format == ExportNone {
		return
	}

	if format == ExportMarkdown || format == ExportBoth {
		if path, err := p.exporter.ExportMarkdown(summary, title, data); err != nil {
			p.logger.Error("error exporting to markdown", "error", err)
		} else {
			p.logger.Info("exported summary to markdown", "path", path)
		}
	}

	if format == ExportPDF || format == ExportBoth {
		if path, err := p.exporter.ExportPDF(summary, title, data); err != nil {
			p.logger.Error("error exporting to pdf", "error", err)
		} else {
			p.logger.Info("exported summary to pdf", "path", path)
		}
	}
}
