package delivery

import (
	"context"
	"log/slog"

	"StockNewsDigest/internal/config"
	"StockNewsDigest/internal/ports"
)

// channel is one outbound destination for a finished digest.
type channel interface {
	name() string
	send(ctx context.Context, summary, title string) error
}

// Manager fans a digest out to every enabled channel. Delivery
// succeeds when at least one channel accepts the message; individual
// channel failures are logged and do not stop the fan-out.
type Manager struct {
	channels []channel
	logger   *slog.Logger
}

var _ ports.Notifier = (*Manager)(nil)

// NewManager builds the enabled channel set from configuration.
func NewManager(cfg config.DeliveryConfig, logger *slog.Logger) *Manager {
	m := &Manager{logger: logger}

	if cfg.Ntfy.Enabled {
		m.channels = append(m.channels, newNtfyChannel(cfg.Ntfy))
	}
	if cfg.Email.Enabled {
		m.channels = append(m.channels, newEmailChannel(cfg.Email, logger))
	}
	if cfg.Telegram.Enabled {
		m.channels = append(m.channels, newTelegramChannel(cfg.Telegram))
	}
	if cfg.Discord.Enabled {
		m.channels = append(m.channels, newDiscordChannel(cfg.Discord))
	}

	return m
}

// Deliver sends the digest through every enabled channel.
func (m *Manager) Deliver(ctx context.Context, summary, title string) bool {
	if len(m.channels) == 0 {
		m.logger.Error("no delivery channels enabled")
		return false
	}

	delivered := false
	for _, ch := range m.channels {
		if err := ch.send(ctx, summary, title); err != nil {
			m.logger.Error("delivery failed", "channel", ch.name(), "error", err)
			continue
		}
		m.logger.Info("delivered summary", "channel", ch.name())
		delivered = true
	}

	return delivered
}
