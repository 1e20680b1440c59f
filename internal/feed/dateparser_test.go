package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDateFormats(t *testing.T) {
	t.Parallel()

	parser := NewDateParser(nil)

	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{
			name: "rfc822 with offset",
			raw:  "Mon, 10 Mar 2025 14:30:05 -0400",
			want: time.Date(2025, time.March, 10, 14, 30, 5, 0, time.UTC),
		},
		{
			name: "rfc822 with timezone name",
			raw:  "Mon, 10 Mar 2025 14:30:05 EST",
			want: time.Date(2025, time.March, 10, 14, 30, 5, 0, time.UTC),
		},
		{
			name: "iso8601 utc marker",
			raw:  "2025-03-10T14:30:05Z",
			want: time.Date(2025, time.March, 10, 14, 30, 5, 0, time.UTC),
		},
		{
			name: "iso8601 with offset keeps wall clock",
			raw:  "2025-03-10T14:30:05+02:00",
			want: time.Date(2025, time.March, 10, 14, 30, 5, 0, time.UTC),
		},
		{
			name: "plain date time",
			raw:  "2025-03-10 14:30:05",
			want: time.Date(2025, time.March, 10, 14, 30, 5, 0, time.UTC),
		},
		{
			name: "named month without timezone",
			raw:  "Mon Mar 10 14:30:05 2025",
			want: time.Date(2025, time.March, 10, 14, 30, 5, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parser.Parse(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseDateFailure(t *testing.T) {
	t.Parallel()

	parser := NewDateParser(nil)

	assert.True(t, parser.Parse("").IsZero())
	assert.True(t, parser.Parse("not a date").IsZero())
	assert.True(t, parser.Parse("32 Foo 2025").IsZero())
}

func TestNormalizeStripsZoneAndSubseconds(t *testing.T) {
	t.Parallel()

	parser := NewDateParser(nil)

	loc := time.FixedZone("X", -5*3600)
	in := time.Date(2025, time.March, 10, 1, 2, 3, 999_000_000, loc)

	got := parser.Normalize(in)

	// -0500 wall clock 01:02:03 is 06:02:03 UTC.
	assert.Equal(t, time.Date(2025, time.March, 10, 6, 2, 3, 0, time.UTC), got)
}
