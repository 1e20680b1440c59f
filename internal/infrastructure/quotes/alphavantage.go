package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"StockNewsDigest/internal/domain"
)

const alphaVantageBaseURL = "https://www.alphavantage.co/query"

// alphaVantage reads the GLOBAL_QUOTE endpoint.
type alphaVantage struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func (a *alphaVantage) name() string {
	return "alphavantage"
}

type alphaVantageResponse struct {
	GlobalQuote map[string]string `json:"Global Quote"`
}

func (a *alphaVantage) quote(ctx context.Context, ticker string) (domain.Quote, error) {
	base := a.baseURL
	if base == "" {
		base = alphaVantageBaseURL
	}

	endpoint := fmt.Sprintf("%s?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		base, url.QueryEscape(ticker), url.QueryEscape(a.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("new request: %w", err)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Quote{}, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var parsed alphaVantageResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.Quote{}, fmt.Errorf("decode response: %w", err)
	}

	if len(parsed.GlobalQuote) == 0 {
		return domain.Quote{}, fmt.Errorf("no price data returned for %s", ticker)
	}

	return domain.Quote{
		Price:            valueOr(parsed.GlobalQuote, "05. price"),
		Change:           valueOr(parsed.GlobalQuote, "09. change"),
		PercentChange:    strings.TrimSuffix(valueOr(parsed.GlobalQuote, "10. change percent"), "%"),
		Volume:           valueOr(parsed.GlobalQuote, "06. volume"),
		LatestTradingDay: valueOr(parsed.GlobalQuote, "07. latest trading day"),
	}, nil
}

func valueOr(quote map[string]string, key string) string {
	if v, ok := quote[key]; ok && v != "" {
		return v
	}
	return "N/A"
}
