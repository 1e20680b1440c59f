package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"StockNewsDigest/internal/domain"
	"StockNewsDigest/internal/ports"
)

// FileExporter writes digests into a local export directory, one
// dated file per run and format.
type FileExporter struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

var _ ports.Exporter = (*FileExporter)(nil)

// NewFileExporter ensures the export directory exists; failure to
// create it falls back to "exports" in the working directory.
func NewFileExporter(dir string, logger *slog.Logger) *FileExporter {
	if dir == "" {
		dir = "exports"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error("error creating export directory", "dir", dir, "error", err)
		dir = "exports"
		_ = os.MkdirAll(dir, 0o755)
	}

	return &FileExporter{dir: dir, logger: logger, now: time.Now}
}

// ExportMarkdown writes the digest as stock_summary_YYYY-MM-DD.md.
func (e *FileExporter) ExportMarkdown(summary, title string, data domain.DigestData) (string, error) {
	path := filepath.Join(e.dir, fmt.Sprintf("stock_summary_%s.md", e.now().Format("2006-01-02")))

	content := e.buildMarkdown(summary, title, data)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write markdown export: %w", err)
	}

	return path, nil
}

func (e *FileExporter) buildMarkdown(summary, title string, data domain.DigestData) string {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", title)

	if len(data.Quotes) > 0 {
		md.WriteString("## Current Stock Prices\n\n")
		md.WriteString("| Ticker | Price | Change | % Change |\n")
		md.WriteString("|--------|-------|--------|---------|\n")

		for _, ticker := range sortedKeys(data.Quotes) {
			quote := data.Quotes[ticker]
			fmt.Fprintf(&md, "| %s | $%s | %s | %s%% |\n",
				ticker, quote.Price, signedChange(quote.Change), quote.PercentChange)
		}
		md.WriteString("\n")
	}

	if len(data.Sentiment) > 0 {
		md.WriteString("## Market Sentiment\n\n")

		for _, ticker := range sortedKeys(data.Sentiment) {
			bucket := data.Sentiment[ticker]
			if bucket.Positive+bucket.Negative+bucket.Neutral == 0 {
				continue
			}
			fmt.Fprintf(&md, "### %s\n\n", ticker)
			fmt.Fprintf(&md, "- Positive mentions: %d\n", bucket.Positive)
			fmt.Fprintf(&md, "- Negative mentions: %d\n", bucket.Negative)
			fmt.Fprintf(&md, "- Neutral mentions: %d\n\n", bucket.Neutral)
		}
	}

	md.WriteString("## Summary\n\n")
	md.WriteString(summary)

	return md.String()
}

// signedChange prefixes positive changes with "+" so gains read at a
// glance; non-numeric values pass through untouched.
func signedChange(change string) string {
	v, err := strconv.ParseFloat(change, 64)
	if err != nil || v <= 0 {
		return change
	}
	return "+" + change
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
