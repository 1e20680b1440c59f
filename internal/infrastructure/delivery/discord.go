package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"StockNewsDigest/internal/config"
)

const (
	// Discord rejects messages above 2000 characters.
	discordMessageLimit = 2000
	discordChunkSize    = 1950
	discordChunkDelay   = 500 * time.Millisecond
)

// discordChannel posts the digest to a webhook, splitting long
// summaries into multiple messages.
type discordChannel struct {
	webhookURL string
	client     *http.Client
	chunkDelay time.Duration
}

func newDiscordChannel(cfg config.DiscordConfig) *discordChannel {
	return &discordChannel{
		webhookURL: cfg.WebhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		chunkDelay: discordChunkDelay,
	}
}

func (d *discordChannel) name() string {
	return "discord"
}

func (d *discordChannel) send(ctx context.Context, summary, title string) error {
	if d.webhookURL == "" {
		return fmt.Errorf("discord webhook_url not configured")
	}

	header := fmt.Sprintf("**%s**\n\n", title)
	available := discordMessageLimit - len(header)

	if len(summary) <= available {
		return d.post(ctx, header+summary)
	}

	if err := d.post(ctx, header+summary[:available]); err != nil {
		return fmt.Errorf("first part: %w", err)
	}

	remaining := summary[available:]
	for start := 0; start < len(remaining); start += discordChunkSize {
		end := start + discordChunkSize
		if end > len(remaining) {
			end = len(remaining)
		}

		d.pause(ctx)
		if err := d.post(ctx, remaining[start:end]); err != nil {
			return fmt.Errorf("part %d: %w", start/discordChunkSize+2, err)
		}
	}

	return nil
}

func (d *discordChannel) post(ctx context.Context, content string) error {
	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("discord error: %s", resp.Status)
	}

	return nil
}

func (d *discordChannel) pause(ctx context.Context) {
	if d.chunkDelay <= 0 {
		return
	}

	timer := time.NewTimer(d.chunkDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
