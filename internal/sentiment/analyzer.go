package sentiment

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"StockNewsDigest/internal/domain"
	"StockNewsDigest/internal/ports"
)

var positiveWords = []string{
	"up", "rise", "gain", "growth", "profit", "positive", "bullish", "outperform",
	"beat", "exceed", "strong", "success", "opportunity", "improve", "advantage",
}

var negativeWords = []string{
	"down", "fall", "drop", "decline", "loss", "negative", "bearish", "underperform",
	"miss", "weak", "fail", "risk", "concern", "problem", "challenge",
}

var (
	positivePatterns = compileWordList(positiveWords)
	negativePatterns = compileWordList(negativeWords)
)

func compileWordList(words []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(words))
	for _, word := range words {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return patterns
}

// Analyzer buckets ranked articles into positive/negative/neutral
// counts per configured ticker. Classification is rule-based unless an
// external classifier is wired in; classifier failures fall back to
// the rules, never to the caller.
type Analyzer struct {
	classifier ports.SentimentClassifier
	logger     *slog.Logger
}

// NewAnalyzer builds an analyzer; classifier and logger may be nil.
func NewAnalyzer(classifier ports.SentimentClassifier, logger *slog.Logger) *Analyzer {
	return &Analyzer{classifier: classifier, logger: logger}
}

// Analyze returns one bucket per configured ticker, in each case even
// when no article mentions it. Articles mentioning no ticker are
// skipped. Ticker matching is whole-word and case-insensitive against
// title plus summary.
func (a *Analyzer) Analyze(ctx context.Context, articles []domain.Article, tickers []string) map[string]domain.SentimentBucket {
	if len(tickers) == 0 {
		if a.logger != nil {
			a.logger.Warn("no tickers configured for sentiment analysis")
		}
		return map[string]domain.SentimentBucket{}
	}

	results := make(map[string]domain.SentimentBucket, len(tickers))
	patterns := make(map[string]*regexp.Regexp, len(tickers))
	for _, ticker := range tickers {
		results[ticker] = domain.SentimentBucket{Articles: []domain.SentimentMention{}}
		patterns[ticker] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(ticker) + `\b`)
	}

	for _, article := range articles {
		content := article.Content()

		var mentioned []string
		for _, ticker := range tickers {
			if patterns[ticker].MatchString(content) {
				mentioned = append(mentioned, ticker)
			}
		}
		if len(mentioned) == 0 {
			continue
		}

		label := a.classify(ctx, content)

		for _, ticker := range mentioned {
			bucket := results[ticker]
			switch label {
			case domain.SentimentPositive:
				bucket.Positive++
			case domain.SentimentNegative:
				bucket.Negative++
			default:
				bucket.Neutral++
			}
			bucket.Articles = append(bucket.Articles, domain.SentimentMention{
				Title:     article.Title,
				Sentiment: label,
				Source:    article.SourceName,
				Link:      article.Link,
			})
			results[ticker] = bucket
		}
	}

	return results
}

// classify prefers the external classifier when present and falls back
// to the rule-based path on any failure or unrecognized label.
func (a *Analyzer) classify(ctx context.Context, text string) string {
	if a.classifier != nil {
		label, err := a.classifier.Classify(ctx, text)
		if err == nil {
			switch label {
			case domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral:
				return label
			}
		} else if a.logger != nil {
			a.logger.Warn("ai sentiment classification failed, using rule-based", "error", err)
		}
	}

	return ruleClassify(text)
}

// ruleClassify counts distinct positive and negative words present in
// the lowered text; the larger count wins, equal counts are neutral.
func ruleClassify(text string) string {
	lowered := strings.ToLower(text)

	positive := countPresent(positivePatterns, lowered)
	negative := countPresent(negativePatterns, lowered)

	switch {
	case positive > negative:
		return domain.SentimentPositive
	case negative > positive:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func countPresent(patterns []*regexp.Regexp, text string) int {
	count := 0
	for _, pattern := range patterns {
		if pattern.MatchString(text) {
			count++
		}
	}
	return count
}
