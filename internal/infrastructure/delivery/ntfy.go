package delivery

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"StockNewsDigest/internal/config"
)

const defaultNtfyBaseURL = "https://ntfy.sh"

// ntfyChannel pushes the digest to an ntfy.sh topic.
type ntfyChannel struct {
	topic   string
	baseURL string
	client  *http.Client
}

func newNtfyChannel(cfg config.NtfyConfig) *ntfyChannel {
	return &ntfyChannel{
		topic:   cfg.Topic,
		baseURL: defaultNtfyBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *ntfyChannel) name() string {
	return "ntfy"
}

func (n *ntfyChannel) send(ctx context.Context, summary, title string) error {
	if n.topic == "" {
		return fmt.Errorf("ntfy topic not configured")
	}

	endpoint := fmt.Sprintf("%s/%s", strings.TrimSuffix(n.baseURL, "/"), n.topic)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(summary))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Title", title)
	req.Header.Set("Priority", "default")
	req.Header.Set("Tags", "chart_with_upwards_trend")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ntfy error: %s", resp.Status)
	}

	return nil
}
