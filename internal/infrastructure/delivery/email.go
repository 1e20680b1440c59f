package delivery

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"StockNewsDigest/internal/config"
)

const (
	emailMaxRetries  = 2
	emailDialTimeout = 30 * time.Second
)

// emailChannel sends the digest as an HTML email over SMTP. Port 465
// uses implicit TLS, anything else negotiates STARTTLS. Transient
// connection failures are retried with progressive backoff.
type emailChannel struct {
	cfg    config.EmailConfig
	logger *slog.Logger
}

func newEmailChannel(cfg config.EmailConfig, logger *slog.Logger) *emailChannel {
	if cfg.SMTPServer == "" {
		cfg.SMTPServer = "smtp.gmail.com"
	}
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 587
	}
	if cfg.SenderEmail == "" {
		cfg.SenderEmail = cfg.Address
	}
	return &emailChannel{cfg: cfg, logger: logger}
}

func (e *emailChannel) name() string {
	return "email"
}

func (e *emailChannel) send(ctx context.Context, summary, title string) error {
	if e.cfg.Address == "" {
		return fmt.Errorf("email address not configured")
	}
	if e.cfg.Password == "" {
		return fmt.Errorf("email password not configured")
	}

	message := e.buildMessage(summary, title)

	var lastErr error
	for attempt := 0; attempt <= emailMaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 3 * time.Second
			e.logger.Warn("connection issue, retrying", "wait", backoff, "attempt", attempt, "error", lastErr)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := e.deliver(message)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("email delivery failed after retries: %w", lastErr)
}

func (e *emailChannel) deliver(message []byte) error {
	addr := fmt.Sprintf("%s:%d", e.cfg.SMTPServer, e.cfg.SMTPPort)
	auth := smtp.PlainAuth("", e.cfg.SenderEmail, e.cfg.Password, e.cfg.SMTPServer)

	if e.cfg.SMTPPort == 465 {
		return e.deliverTLS(addr, auth, message)
	}

	if err := smtp.SendMail(addr, auth, e.cfg.SenderEmail, []string{e.cfg.Address}, message); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// deliverTLS handles implicit-TLS servers, which net/smtp.SendMail
// cannot speak to directly.
func (e *emailChannel) deliverTLS(addr string, auth smtp.Auth, message []byte) error {
	dialer := &net.Dialer{Timeout: emailDialTimeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: e.cfg.SMTPServer})
	if err != nil {
		return fmt.Errorf("tls dial: %w", err)
	}

	client, err := smtp.NewClient(conn, e.cfg.SMTPServer)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := client.Mail(e.cfg.SenderEmail); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(e.cfg.Address); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := writer.Write(message); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close message: %w", err)
	}

	return client.Quit()
}

func (e *emailChannel) buildMessage(summary, title string) []byte {
	htmlBody := fmt.Sprintf(`<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; }
  h1 { color: #333366; }
  .footer { font-size: 12px; color: #999; margin-top: 30px; }
</style>
</head>
<body>
<div class="container">
  <h1>%s</h1>
  %s
  <div class="footer">
    <p>This summary was generated automatically by Stock News Digest.</p>
  </div>
</div>
</body>
</html>`, title, strings.ReplaceAll(summary, "\n", "<br>"))

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", e.cfg.SenderEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", e.cfg.Address)
	fmt.Fprintf(&msg, "Subject: %s\r\n", title)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	return []byte(msg.String())
}

// retryable reports whether the failure looks like a transient
// connection problem rather than a hard server rejection.
func retryable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "EOF")
}
