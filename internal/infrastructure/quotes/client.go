package quotes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"StockNewsDigest/internal/config"
	"StockNewsDigest/internal/domain"
	"StockNewsDigest/internal/ports"
)

// provider fetches a single ticker's snapshot.
type provider interface {
	name() string
	quote(ctx context.Context, ticker string) (domain.Quote, error)
}

// Client fans quote lookups out to the configured provider. Tickers
// that fail are logged and absent from the result; quote data is
// best-effort decoration, never a reason to abort a run.
type Client struct {
	provider provider
	logger   *slog.Logger
}

var _ ports.QuoteSource = (*Client)(nil)

// NewClient selects the provider named in configuration. An unknown
// provider or a missing API key yields a client that returns no quotes.
func NewClient(cfg config.StockPricesConfig, logger *slog.Logger) *Client {
	httpClient := &http.Client{Timeout: 15 * time.Second}

	c := &Client{logger: logger}

	if cfg.APIKey == "" {
		logger.Warn("no api key configured for stock price fetching")
		return c
	}

	switch cfg.Provider {
	case "alphavantage", "":
		c.provider = &alphaVantage{apiKey: cfg.APIKey, http: httpClient}
	case "finnhub":
		c.provider = &finnhub{apiKey: cfg.APIKey, http: httpClient}
	default:
		logger.Error("unsupported stock price provider", "provider", cfg.Provider)
	}

	return c
}

// FetchQuotes returns a snapshot per ticker that could be quoted.
func (c *Client) FetchQuotes(ctx context.Context, tickers []string) map[string]domain.Quote {
	results := make(map[string]domain.Quote)

	if c.provider == nil || len(tickers) == 0 {
		return results
	}

	for _, ticker := range tickers {
		quote, err := c.provider.quote(ctx, ticker)
		if err != nil {
			c.logger.Error("error fetching price", "ticker", ticker, "provider", c.provider.name(), "error", err)
			continue
		}
		results[ticker] = quote
	}

	return results
}
