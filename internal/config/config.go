package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "America/New_York"

	configPathEnv   = "STOCK_DIGEST_CONFIG"
	sourcesPathEnv  = "STOCK_DIGEST_SOURCES"
	groqAPIKeyEnv   = "GROQ_API_KEY"
	stockAPIKeyEnv  = "STOCK_API_KEY"
	telegramToken   = "TELEGRAM_BOT_TOKEN"
	telegramChatID  = "TELEGRAM_CHAT_ID"
	discordWebhook  = "DISCORD_WEBHOOK_URL"
	smtpPasswordEnv = "SMTP_PASSWORD"
	ntfyTopicEnv    = "NTFY_TOPIC"
)

// Config holds every setting the application needs, loaded once by the
// entry point and passed into component constructors.
type Config struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
	NewsSources []string          `yaml:"news_sources"`
	Tickers     []string          `yaml:"tickers"`
	Keywords    []string          `yaml:"keywords"`
	Lookback    int               `yaml:"lookback_days"`
	Sentiment   SentimentConfig   `yaml:"sentiment"`
	AI          AIConfig          `yaml:"ai"`
	StockPrices StockPricesConfig `yaml:"stock_prices"`
	Delivery    DeliveryConfig    `yaml:"delivery"`
	Export      ExportConfig      `yaml:"export"`
	Sources     map[string]Source `yaml:"sources"`
}

// LoggingConfig controls slog level selection.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ScheduleConfig defines when the daily digest runs.
type ScheduleConfig struct {
	Time     string         `yaml:"time"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the schedule timezone string to a time.Location.
func (s ScheduleConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SentimentConfig toggles AI-backed classification.
type SentimentConfig struct {
	UseAI bool `yaml:"use_ai"`
}

// AIConfig defines how to contact the Groq (OpenAI-compatible) API.
type AIConfig struct {
	Provider      string `yaml:"provider"`
	Endpoint      string `yaml:"endpoint"`
	Model         string `yaml:"model"`
	APIKey        string `yaml:"api_key"`
	MaxTokens     int    `yaml:"max_tokens"`
	SummaryLength string `yaml:"summary_length"`
}

// StockPricesConfig selects the quote provider.
type StockPricesConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
}

// DeliveryConfig encapsulates the outbound channels.
type DeliveryConfig struct {
	Ntfy     NtfyConfig     `yaml:"ntfy"`
	Email    EmailConfig    `yaml:"email"`
	Telegram TelegramConfig `yaml:"telegram"`
	Discord  DiscordConfig  `yaml:"discord"`
}

// NtfyConfig wires push notifications via ntfy.sh.
type NtfyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Topic   string `yaml:"topic"`
}

// EmailConfig wires SMTP delivery.
type EmailConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Address     string `yaml:"address"`
	SenderEmail string `yaml:"sender_email"`
	SMTPServer  string `yaml:"smtp_server"`
	SMTPPort    int    `yaml:"smtp_port"`
	Password    string `yaml:"password"`
}

// TelegramConfig wires all data required to send bot messages.
type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// DiscordConfig wires webhook delivery.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// ExportConfig points at the directory summaries are written to.
type ExportConfig struct {
	Directory string `yaml:"directory"`
}

// Source is a named news provider with its RSS feed endpoints.
type Source struct {
	Name  string       `yaml:"name"`
	Feeds []FeedConfig `yaml:"rss_feeds"`
}

// FeedConfig holds one concrete feed endpoint and its category label.
type FeedConfig struct {
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
}

// sourcesFile mirrors the on-disk sources document layout.
type sourcesFile struct {
	Sources map[string]Source `yaml:"sources"`
}

// Load reads YAML configuration and the sources document (if present)
// and applies environment overrides. Missing or malformed files fall
// back to defaults; loading never fails hard.
func Load(configPath, sourcesPath string) Config {
	cfg := defaultConfig()

	if configPath == "" {
		configPath = os.Getenv(configPathEnv)
	}
	if sourcesPath == "" {
		sourcesPath = os.Getenv(sourcesPathEnv)
	}

	if configPath != "" {
		if raw, err := os.ReadFile(configPath); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", configPath, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			cfg = defaultConfig()
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", configPath, err)
		}
	}

	if sourcesPath != "" {
		var sf sourcesFile
		if raw, err := os.ReadFile(sourcesPath); err != nil {
			log.Printf("config: cannot read %s: %v", sourcesPath, err)
		} else if err := yaml.Unmarshal(raw, &sf); err != nil {
			log.Printf("config: cannot parse %s: %v", sourcesPath, err)
		} else if len(sf.Sources) > 0 {
			cfg.Sources = sf.Sources
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if cfg.Lookback <= 0 {
		cfg.Lookback = 1
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(groqAPIKeyEnv); v != "" {
		c.AI.APIKey = v
	}

	if v := os.Getenv(stockAPIKeyEnv); v != "" {
		c.StockPrices.APIKey = v
	}

	if v := os.Getenv(telegramToken); v != "" {
		c.Delivery.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatID); v != "" {
		c.Delivery.Telegram.ChatID = v
	}

	if v := os.Getenv(discordWebhook); v != "" {
		c.Delivery.Discord.WebhookURL = v
	}

	if v := os.Getenv(smtpPasswordEnv); v != "" {
		c.Delivery.Email.Password = v
	}

	if v := os.Getenv(ntfyTopicEnv); v != "" {
		c.Delivery.Ntfy.Topic = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Schedule.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Schedule.location = loc
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:  LoggingConfig{Level: "info"},
		Schedule: ScheduleConfig{Time: "07:00", Timezone: defaultTimezone, location: tz},
		Lookback: 1,
		AI: AIConfig{
			Provider:      "groq",
			Endpoint:      "https://api.groq.com/openai/v1/chat/completions",
			Model:         "llama3-8b-8192",
			MaxTokens:     8192,
			SummaryLength: "300-1000",
		},
		StockPrices: StockPricesConfig{Provider: "alphavantage"},
		Export:      ExportConfig{Directory: "exports"},
		Sources: map[string]Source{
			"cnbc": {
				Name: "CNBC",
				Feeds: []FeedConfig{
					{URL: "https://search.cnbc.com/rs/search/combinedcms/view.xml?partnerId=wrss01&id=100003114", Category: "Top News"},
					{URL: "https://search.cnbc.com/rs/search/combinedcms/view.xml?partnerId=wrss01&id=10000664", Category: "Markets"},
				},
			},
			"yahoo_finance": {
				Name: "Yahoo Finance",
				Feeds: []FeedConfig{
					{URL: "https://finance.yahoo.com/news/rssindex", Category: "Markets"},
				},
			},
		},
	}
}
