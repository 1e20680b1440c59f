package delivery

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"StockNewsDigest/internal/config"
)

const defaultTelegramAPIBase = "https://api.telegram.org"

// telegramChannel sends the digest to a Telegram chat via bot API.
type telegramChannel struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

func newTelegramChannel(cfg config.TelegramConfig) *telegramChannel {
	return &telegramChannel{
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		apiBase:  defaultTelegramAPIBase,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *telegramChannel) name() string {
	return "telegram"
}

func (t *telegramChannel) send(ctx context.Context, summary, title string) error {
	if t.botToken == "" || t.chatID == "" {
		return fmt.Errorf("telegram bot_token or chat_id not configured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimSuffix(t.apiBase, "/"), t.botToken)
	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", fmt.Sprintf("*%s*\n\n%s", title, summary))
	form.Set("parse_mode", "Markdown")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}
