package domain

import "time"

// Article is a single news item pulled from an RSS feed.
//
// PublishedAt is timezone-naive (wall clock kept in the UTC location);
// the zero value means the source date could not be parsed. Such
// articles are retained but always sort older than any dated article.
type Article struct {
	Title          string
	Link           string
	Summary        string
	PublishedRaw   string
	PublishedAt    time.Time
	SourceName     string
	SourceID       string
	Category       string
	RelevanceScore int
}

// Content joins title and summary, the text every relevance and
// sentiment match runs against.
func (a Article) Content() string {
	return a.Title + " " + a.Summary
}

// Sentiment classification labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// SentimentMention records one article's contribution to a ticker bucket.
type SentimentMention struct {
	Title     string
	Sentiment string
	Source    string
	Link      string
}

// SentimentBucket aggregates article sentiment for a single ticker.
// A bucket exists for every configured ticker even when nothing
// mentioned it; all-zero is a valid result.
type SentimentBucket struct {
	Positive int
	Negative int
	Neutral  int
	Articles []SentimentMention
}

// Quote is a point-in-time price snapshot for one ticker, passed
// through to export and delivery without further computation.
type Quote struct {
	Price            string
	Change           string
	PercentChange    string
	Volume           string
	LatestTradingDay string
}

// Preferences are the user-configured relevance criteria, immutable
// for the duration of one pipeline run.
type Preferences struct {
	Tickers      []string
	Keywords     []string
	LookbackDays int
}

// DigestData carries the per-run aggregates attached to an exported or
// delivered digest.
type DigestData struct {
	Sentiment map[string]SentimentBucket
	Quotes    map[string]Quote
}
