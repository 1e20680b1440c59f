package delivery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"StockNewsDigest/internal/config"
	"StockNewsDigest/internal/logging"
)

func TestEmailChannelDefaults(t *testing.T) {
	t.Parallel()

	ch := newEmailChannel(config.EmailConfig{Address: "user@example.com"}, logging.New("error"))

	assert.Equal(t, "smtp.gmail.com", ch.cfg.SMTPServer)
	assert.Equal(t, 587, ch.cfg.SMTPPort)
	assert.Equal(t, "user@example.com", ch.cfg.SenderEmail)
}

func TestEmailChannelExplicitSender(t *testing.T) {
	t.Parallel()

	ch := newEmailChannel(config.EmailConfig{
		Address:     "inbox@example.com",
		SenderEmail: "digest@example.com",
	}, logging.New("error"))

	assert.Equal(t, "digest@example.com", ch.cfg.SenderEmail)
}

func TestEmailSendMissingConfiguration(t *testing.T) {
	t.Parallel()

	ch := newEmailChannel(config.EmailConfig{}, logging.New("error"))
	assert.Error(t, ch.send(context.Background(), "summary", "title"))

	ch = newEmailChannel(config.EmailConfig{Address: "user@example.com"}, logging.New("error"))
	assert.Error(t, ch.send(context.Background(), "summary", "title"))
}

func TestEmailBuildMessage(t *testing.T) {
	t.Parallel()

	ch := newEmailChannel(config.EmailConfig{
		Address:     "inbox@example.com",
		SenderEmail: "digest@example.com",
		Password:    "secret",
	}, logging.New("error"))

	message := string(ch.buildMessage("line one\nline two", "Daily Digest"))

	assert.Contains(t, message, "From: digest@example.com\r\n")
	assert.Contains(t, message, "To: inbox@example.com\r\n")
	assert.Contains(t, message, "Subject: Daily Digest\r\n")
	assert.Contains(t, message, "Content-Type: text/html")
	assert.Contains(t, message, "line one<br>line two")
	assert.Contains(t, message, "generated automatically by Stock News Digest")
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	assert.True(t, retryable(errors.New("dial tcp: connection refused")))
	assert.True(t, retryable(errors.New("read: connection reset by peer")))
	assert.True(t, retryable(errors.New("write: broken pipe")))
	assert.True(t, retryable(errors.New("unexpected EOF")))
	assert.False(t, retryable(errors.New("535 authentication failed")))
}
