package relevance

import (
	"log/slog"
	"regexp"
	"sort"

	"StockNewsDigest/internal/domain"
)

// Processor narrows and orders a fetched article batch against the
// user's tickers and keywords. Both operations are value transforms:
// the input slice is never mutated.
type Processor struct {
	logger *slog.Logger
}

// NewProcessor builds a processor; logger may be nil.
func NewProcessor(logger *slog.Logger) *Processor {
	return &Processor{logger: logger}
}

// Filter keeps articles matching at least one ticker or one keyword.
// Tickers match whole words, keywords match anywhere; both are
// case-insensitive literals. With applyFilter false, or with no
// criteria configured, the input passes through unchanged.
func (p *Processor) Filter(articles []domain.Article, tickers, keywords []string, applyFilter bool) []domain.Article {
	if len(articles) == 0 {
		return []domain.Article{}
	}

	if !applyFilter {
		p.info("bypassing filtering, returning all articles")
		return articles
	}

	if len(tickers) == 0 && len(keywords) == 0 {
		p.info("no filtering criteria specified, returning all articles")
		return articles
	}

	tickerPatterns := compileWordPatterns(tickers)
	keywordPatterns := compileSubstringPatterns(keywords)

	filtered := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		content := article.Content()
		if matchesAny(tickerPatterns, content) || matchesAny(keywordPatterns, content) {
			filtered = append(filtered, article)
		}
	}

	p.info("filtered articles", "before", len(articles), "after", len(filtered))
	return filtered
}

// Rank scores each article by occurrence counts of tickers and
// keywords and returns a new slice in descending score order. Ties
// keep their incoming relative order. A title occurrence counts three
// times overall: once in the raw total and twice more as title bonus.
func (p *Processor) Rank(articles []domain.Article, tickers, keywords []string) []domain.Article {
	if len(articles) == 0 {
		return []domain.Article{}
	}

	if len(tickers) == 0 && len(keywords) == 0 {
		return articles
	}

	tickerPatterns := compileWordPatterns(tickers)
	keywordPatterns := compileSubstringPatterns(keywords)

	ranked := make([]domain.Article, len(articles))
	copy(ranked, articles)

	for i := range ranked {
		content := ranked[i].Content()
		title := ranked[i].Title

		total := countMatches(tickerPatterns, content) + countMatches(keywordPatterns, content)
		inTitle := countMatches(tickerPatterns, title) + countMatches(keywordPatterns, title)

		ranked[i].RelevanceScore = total + inTitle*2
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})

	return ranked
}

func (p *Processor) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

// compileWordPatterns escapes each term and requires word boundaries,
// the matching rule for ticker symbols.
func compileWordPatterns(terms []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(terms))
	for _, term := range terms {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(term)+`\b`))
	}
	return patterns
}

// compileSubstringPatterns escapes each term without boundaries, the
// looser rule for keywords.
func compileSubstringPatterns(terms []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(terms))
	for _, term := range terms {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(term)))
	}
	return patterns
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

func countMatches(patterns []*regexp.Regexp, text string) int {
	count := 0
	for _, pattern := range patterns {
		count += len(pattern.FindAllStringIndex(text, -1))
	}
	return count
}
