package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"StockNewsDigest/internal/domain"
)

const finnhubBaseURL = "https://finnhub.io/api/v1/quote"

// finnhub reads the /quote endpoint and derives change figures itself.
type finnhub struct {
	apiKey  string
	baseURL string
	http    *http.Client
	now     func() time.Time
}

func (f *finnhub) name() string {
	return "finnhub"
}

type finnhubResponse struct {
	Current       *float64 `json:"c"`
	PreviousClose float64  `json:"pc"`
	Volume        *float64 `json:"v"`
}

func (f *finnhub) quote(ctx context.Context, ticker string) (domain.Quote, error) {
	base := f.baseURL
	if base == "" {
		base = finnhubBaseURL
	}

	endpoint := fmt.Sprintf("%s?symbol=%s&token=%s",
		base, url.QueryEscape(ticker), url.QueryEscape(f.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("new request: %w", err)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Quote{}, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var parsed finnhubResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.Quote{}, fmt.Errorf("decode response: %w", err)
	}

	if parsed.Current == nil {
		return domain.Quote{}, fmt.Errorf("no price data returned for %s", ticker)
	}

	current := decimal.NewFromFloat(*parsed.Current)
	previous := decimal.NewFromFloat(parsed.PreviousClose)
	change := current.Sub(previous)

	percentChange := decimal.Zero
	if !previous.IsZero() {
		percentChange = change.Div(previous).Mul(decimal.NewFromInt(100))
	}

	volume := "N/A"
	if parsed.Volume != nil {
		volume = decimal.NewFromFloat(*parsed.Volume).String()
	}

	nowFn := f.now
	if nowFn == nil {
		nowFn = time.Now
	}

	return domain.Quote{
		Price:            current.StringFixed(2),
		Change:           change.StringFixed(2),
		PercentChange:    percentChange.StringFixed(2),
		Volume:           volume,
		LatestTradingDay: nowFn().Format("2006-01-02"),
	}, nil
}
