package app

import (
	"context"
	"log/slog"

	"StockNewsDigest/internal/config"
	"StockNewsDigest/internal/domain"
	"StockNewsDigest/internal/feed"
	"StockNewsDigest/internal/infrastructure/delivery"
	"StockNewsDigest/internal/infrastructure/export"
	"StockNewsDigest/internal/infrastructure/llm"
	"StockNewsDigest/internal/infrastructure/quotes"
	"StockNewsDigest/internal/infrastructure/scheduler"
	"StockNewsDigest/internal/logging"
	"StockNewsDigest/internal/ports"
	"StockNewsDigest/internal/relevance"
	"StockNewsDigest/internal/sentiment"
	"StockNewsDigest/internal/usecase"
)

// Application wires the config snapshot into all components once and
// owns the pipeline lifecycle.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	logger   *slog.Logger
}

// New builds a runnable application instance. The configuration is the
// single snapshot every component observes for its entire lifetime.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	prefs := domain.Preferences{
		Tickers:      cfg.Tickers,
		Keywords:     cfg.Keywords,
		LookbackDays: cfg.Lookback,
	}

	fetcher := feed.NewFetcher(cfg.Sources, cfg.NewsSources, logging.Component(baseLogger, "fetcher"))
	processor := relevance.NewProcessor(logging.Component(baseLogger, "relevance"))

	var summarizer ports.Summarizer
	var classifier ports.SentimentClassifier
	if cfg.AI.APIKey != "" {
		groq := llm.NewGroqClient(cfg.AI, prefs)
		summarizer = groq
		if cfg.Sentiment.UseAI {
			classifier = groq
		}
	}

	analyzer := sentiment.NewAnalyzer(classifier, logging.Component(baseLogger, "sentiment"))
	quoteClient := quotes.NewClient(cfg.StockPrices, logging.Component(baseLogger, "quotes"))
	notifier := delivery.NewManager(cfg.Delivery, logging.Component(baseLogger, "delivery"))
	exporter := export.NewFileExporter(cfg.Export.Directory, logging.Component(baseLogger, "export"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:    fetcher,
		Processor: processor,
		Sentiment: analyzer,
		Quotes:    quoteClient,
		Summarize: summarizer,
		Exporter:  exporter,
		Notifier:  notifier,
		Prefs:     prefs,
		Logger:    logging.Component(baseLogger, "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline, logger: baseLogger}
}

// RunOnce performs a single pipeline execution.
func (a *Application) RunOnce(ctx context.Context, opts usecase.RunOptions) error {
	if a.pipeline == nil {
		return nil
	}
	return a.pipeline.Run(ctx, opts)
}

// RunScheduled starts the daily schedule and blocks until the context
// is cancelled.
func (a *Application) RunScheduled(ctx context.Context) error {
	driver := scheduler.NewCronScheduler(
		a.cfg.Schedule.Time,
		a.cfg.Schedule.Location(),
		logging.Component(a.logger, "scheduler"),
	)

	sched := usecase.NewScheduler(driver, a.pipeline)
	if err := sched.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return sched.Stop(context.Background())
}
