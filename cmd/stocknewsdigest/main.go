package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"StockNewsDigest/internal/app"
	"StockNewsDigest/internal/config"
	"StockNewsDigest/internal/logging"
	"StockNewsDigest/internal/usecase"
)

var (
	flagConfig      string
	flagSources     string
	flagInstant     bool
	flagAllArticles bool
	flagExport      string
)

var rootCmd = &cobra.Command{
	Use:   "stocknewsdigest",
	Short: "Aggregate financial news feeds into a daily AI digest",
	Long: "stocknewsdigest fetches configured RSS feeds, filters and ranks articles " +
		"against your tickers and keywords, scores sentiment, and delivers an " +
		"AI-generated summary through the enabled channels. Without --instant it " +
		"runs on the configured daily schedule.",
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to config YAML (default $STOCK_DIGEST_CONFIG)")
	rootCmd.Flags().StringVar(&flagSources, "sources", "", "path to sources YAML (default $STOCK_DIGEST_SOURCES)")
	rootCmd.Flags().BoolVar(&flagInstant, "instant", false, "generate the summary immediately instead of scheduling")
	rootCmd.Flags().BoolVar(&flagAllArticles, "all-articles", false, "summarize all fetched articles, not just relevant ones")
	rootCmd.Flags().StringVar(&flagExport, "export", "", "export the summary to a file format: markdown, pdf or both")
}

func run(cmd *cobra.Command, _ []string) error {
	switch flagExport {
	case usecase.ExportNone, usecase.ExportMarkdown, usecase.ExportPDF, usecase.ExportBoth:
	default:
		return fmt.Errorf("invalid --export value %q, want markdown, pdf or both", flagExport)
	}

	cfg := config.Load(flagConfig, flagSources)
	logger := logging.New(cfg.Logging.Level)
	application := app.New(cfg, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagInstant {
		if err := application.RunOnce(ctx, usecase.RunOptions{
			UseAllArticles: flagAllArticles,
			ExportFormat:   flagExport,
		}); err != nil {
			return err
		}
		logger.Info("instant summary generation completed")
		return nil
	}

	return application.RunScheduled(ctx)
}

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
