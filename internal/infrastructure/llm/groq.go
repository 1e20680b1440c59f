package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"StockNewsDigest/internal/config"
	"StockNewsDigest/internal/domain"
	"StockNewsDigest/internal/ports"
)

const summarySystemPrompt = "You are a financial news analyst assistant that provides concise, " +
	"informative summaries of financial news. Focus on key information relevant to investors and market trends."

const sentimentSystemPrompt = "You are a financial sentiment analyzer that classifies text as " +
	"positive, negative, or neutral."

// GroqClient talks to Groq's OpenAI-compatible chat-completions API,
// serving both digest summarization and sentiment classification.
type GroqClient struct {
	endpoint      string
	model         string
	apiKey        string
	maxTokens     int
	summaryLength string
	tickers       []string
	keywords      []string
	httpClient    *http.Client
}

var _ ports.Summarizer = (*GroqClient)(nil)
var _ ports.SentimentClassifier = (*GroqClient)(nil)

// NewGroqClient builds a client from configuration and the user's
// relevance preferences, which shape the summary prompt.
func NewGroqClient(cfg config.AIConfig, prefs domain.Preferences) *GroqClient {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	summaryLength := cfg.SummaryLength
	if summaryLength == "" {
		summaryLength = "300-1000"
	}

	return &GroqClient{
		endpoint:      cfg.Endpoint,
		model:         cfg.Model,
		apiKey:        cfg.APIKey,
		maxTokens:     maxTokens,
		summaryLength: summaryLength,
		tickers:       prefs.Tickers,
		keywords:      prefs.Keywords,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateSummary asks the model for a digest of the ranked articles.
func (c *GroqClient) GenerateSummary(ctx context.Context, articles []domain.Article, useAllArticles bool) (string, error) {
	if len(articles) == 0 {
		return "No relevant news articles found for your preferences.", nil
	}

	prompt := c.summaryPrompt(articles, useAllArticles)

	content, err := c.complete(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: summarySystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.3,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}

	return content, nil
}

// Classify labels financial text as positive, negative or neutral.
func (c *GroqClient) Classify(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(`Analyze the sentiment of the following financial news text regarding stock market or company performance.
Classify it as 'positive', 'negative', or 'neutral'.

Text: %s

Sentiment:`, text)

	content, err := c.complete(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: sentimentSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.1,
		MaxTokens:   10,
	})
	if err != nil {
		return "", fmt.Errorf("classify sentiment: %w", err)
	}

	lowered := strings.ToLower(content)
	switch {
	case strings.Contains(lowered, domain.SentimentPositive):
		return domain.SentimentPositive, nil
	case strings.Contains(lowered, domain.SentimentNegative):
		return domain.SentimentNegative, nil
	default:
		return domain.SentimentNeutral, nil
	}
}

func (c *GroqClient) complete(ctx context.Context, payload chatRequest) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("groq client misconfigured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("groq error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty chat response")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func (c *GroqClient) summaryPrompt(articles []domain.Article, useAllArticles bool) string {
	var articlesText strings.Builder
	for i, article := range articles {
		fmt.Fprintf(&articlesText, "Article %d:\n", i+1)
		fmt.Fprintf(&articlesText, "Title: %s\n", article.Title)
		fmt.Fprintf(&articlesText, "Source: %s\n", article.SourceName)
		fmt.Fprintf(&articlesText, "Date: %s\n", article.PublishedRaw)
		fmt.Fprintf(&articlesText, "Summary: %s\n", article.Summary)
		fmt.Fprintf(&articlesText, "URL: %s\n\n", article.Link)
	}

	if useAllArticles {
		return fmt.Sprintf(`Please provide a concise summary of the following financial news articles.

Here are the articles to summarize:

%s

Please create a well-structured summary that:
1. Identifies key market trends and insights
2. Organizes information by topic or relevance
3. Is concise and easy to read (around %s words)
4. Includes a brief market outlook based on the news`, articlesText.String(), c.summaryLength)
	}

	return fmt.Sprintf(`Please provide a concise summary of the following financial news articles.

Focus on these stocks/tickers of interest: %s
And these keywords/topics: %s

Here are the articles to summarize:

%s

Please create a well-structured summary that:
1. Highlights the most important news for the specified tickers
2. Identifies key market trends and insights
3. Organizes information by topic or relevance
4. Is concise and easy to read (around %s words)
5. Includes a brief market outlook based on the news`,
		strings.Join(c.tickers, ", "), strings.Join(c.keywords, ", "), articlesText.String(), c.summaryLength)
}
