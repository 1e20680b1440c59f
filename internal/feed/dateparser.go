package feed

import (
	"log/slog"
	"time"
)

// dateLayouts are tried in order when the feed library could not make
// sense of the raw string itself.
var dateLayouts = []string{
	time.RFC1123Z,          // RFC 822 with numeric offset
	time.RFC1123,           // RFC 822 with timezone name
	time.RFC3339,           // ISO 8601, Z or explicit offset
	"2006-01-02T15:04:05",  // ISO 8601 without zone
	"2006-01-02 15:04:05",  // plain date-time
	time.ANSIC,             // named-month format without timezone
}

// DateParser normalizes heterogeneous publication-date strings into
// naive timestamps comparable across feeds.
type DateParser struct {
	logger *slog.Logger
}

// NewDateParser builds a parser; logger may be nil.
func NewDateParser(logger *slog.Logger) *DateParser {
	return &DateParser{logger: logger}
}

// Normalize strips the zone and sub-second precision from a timestamp
// the feed library already parsed, keeping the UTC wall clock.
func (p *DateParser) Normalize(t time.Time) time.Time {
	return naive(t.UTC())
}

// Parse converts a raw feed date string to a naive timestamp. The zero
// time reports failure; failure is an expected outcome, never an error.
// Strings parsed with an explicit offset keep their original wall clock.
func (p *DateParser) Parse(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return naive(t)
		}
	}

	if p.logger != nil {
		p.logger.Warn("could not parse date", "date", raw)
	}
	return time.Time{}
}

// naive rebuilds t's wall clock in the UTC location, discarding the
// original zone without converting.
func naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}
