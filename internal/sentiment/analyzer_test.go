package sentiment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockNewsDigest/internal/domain"
)

type stubClassifier struct {
	label string
	err   error
	calls int
}

func (s *stubClassifier) Classify(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.label, s.err
}

func TestAnalyzeEmptyArticlesStillReturnsBuckets(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(nil, nil)
	got := a.Analyze(context.Background(), nil, []string{"TSLA"})

	require.Contains(t, got, "TSLA")
	bucket := got["TSLA"]
	assert.Zero(t, bucket.Positive)
	assert.Zero(t, bucket.Negative)
	assert.Zero(t, bucket.Neutral)
	assert.NotNil(t, bucket.Articles)
	assert.Empty(t, bucket.Articles)
}

func TestAnalyzeNoTickers(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(nil, nil)
	got := a.Analyze(context.Background(), []domain.Article{{Title: "AAPL up"}}, nil)
	assert.Empty(t, got)
}

func TestAnalyzeRuleBasedLabels(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(nil, nil)
	articles := []domain.Article{
		{Title: "Stock sees strong gain and growth", Summary: "TSLA momentum", SourceName: "Reuters", Link: "https://example.com/a"},
		{Title: "TSLA hit by decline and loss", Summary: "weak quarter", SourceName: "CNBC", Link: "https://example.com/b"},
		{Title: "TSLA gain offset by loss", Summary: "flat session", SourceName: "Yahoo", Link: "https://example.com/c"},
	}

	got := a.Analyze(context.Background(), articles, []string{"TSLA"})
	bucket := got["TSLA"]

	assert.Equal(t, 1, bucket.Positive)
	assert.Equal(t, 1, bucket.Negative)
	assert.Equal(t, 1, bucket.Neutral)
	require.Len(t, bucket.Articles, 3)
	assert.Equal(t, domain.SentimentPositive, bucket.Articles[0].Sentiment)
	assert.Equal(t, "Reuters", bucket.Articles[0].Source)
}

func TestAnalyzeSkipsArticlesWithoutMentions(t *testing.T) {
	t.Parallel()

	classifier := &stubClassifier{label: domain.SentimentPositive}
	a := NewAnalyzer(classifier, nil)

	articles := []domain.Article{
		{Title: "Unrelated strong gain", Summary: "no symbols here"},
	}

	got := a.Analyze(context.Background(), articles, []string{"TSLA"})

	assert.Zero(t, classifier.calls)
	assert.Empty(t, got["TSLA"].Articles)
}

func TestAnalyzeCountsDistinctWordsNotOccurrences(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(nil, nil)
	// "gain" three times is still one positive word; two distinct
	// negative words outweigh it.
	articles := []domain.Article{
		{Title: "TSLA gain gain gain", Summary: "but decline and loss loom"},
	}

	got := a.Analyze(context.Background(), articles, []string{"TSLA"})
	assert.Equal(t, 1, got["TSLA"].Negative)
}

func TestAnalyzeMultipleTickersShareArticle(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(nil, nil)
	articles := []domain.Article{
		{Title: "AAPL and MSFT post strong growth", Summary: "sector gain"},
	}

	got := a.Analyze(context.Background(), articles, []string{"AAPL", "MSFT"})
	assert.Equal(t, 1, got["AAPL"].Positive)
	assert.Equal(t, 1, got["MSFT"].Positive)
}

func TestAnalyzeUsesClassifierWhenPresent(t *testing.T) {
	t.Parallel()

	classifier := &stubClassifier{label: domain.SentimentNegative}
	a := NewAnalyzer(classifier, nil)

	articles := []domain.Article{
		{Title: "TSLA strong gain and growth", Summary: "rule path would say positive"},
	}

	got := a.Analyze(context.Background(), articles, []string{"TSLA"})
	assert.Equal(t, 1, got["TSLA"].Negative)
	assert.Equal(t, 1, classifier.calls)
}

func TestAnalyzeFallsBackOnClassifierError(t *testing.T) {
	t.Parallel()

	classifier := &stubClassifier{err: errors.New("service unavailable")}
	a := NewAnalyzer(classifier, nil)

	articles := []domain.Article{
		{Title: "TSLA strong gain and growth", Summary: "momentum"},
	}

	got := a.Analyze(context.Background(), articles, []string{"TSLA"})
	assert.Equal(t, 1, got["TSLA"].Positive)
}

func TestAnalyzeFallsBackOnUnrecognizedLabel(t *testing.T) {
	t.Parallel()

	classifier := &stubClassifier{label: "enthusiastic"}
	a := NewAnalyzer(classifier, nil)

	articles := []domain.Article{
		{Title: "TSLA strong gain and growth", Summary: "momentum"},
	}

	got := a.Analyze(context.Background(), articles, []string{"TSLA"})
	assert.Equal(t, 1, got["TSLA"].Positive)
}

func TestRuleClassifyTieIsNeutral(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.SentimentNeutral, ruleClassify("gain and loss in equal measure"))
	assert.Equal(t, domain.SentimentNeutral, ruleClassify("nothing sentimental at all"))
}
