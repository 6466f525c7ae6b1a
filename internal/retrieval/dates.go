package retrieval

import (
	"regexp"
	"time"
)

// metadataDateKeys are checked in order against provider metatags.
var metadataDateKeys = []string{
	"article:published_time",
	"og:published_time",
	"datepublished",
	"date",
	"pubdate",
	"article:modified_time",
}

// metadataDateLayouts are tried in order for each metadata value.
var metadataDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
}

var (
	isoDatePattern = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	// monthDayYearPattern matches snippet prefixes like "Mar 15, 2024" and
	// "March 15, 2024".
	monthDayYearPattern = regexp.MustCompile(`\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* (\d{1,2}), (\d{4})\b`)
	dayMonthYearPattern = regexp.MustCompile(`\b(\d{1,2}) (Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* (\d{4})\b`)
)

// extractPublishedAt resolves a publication date from structured metadata
// first, then a date-pattern scan of the snippet. Returns nil when neither
// yields a parseable date; the hit is not failed.
func extractPublishedAt(metadata map[string]string, snippet string) *time.Time {
	for _, key := range metadataDateKeys {
		v, ok := metadata[key]
		if !ok || v == "" {
			continue
		}
		for _, layout := range metadataDateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return &t
			}
		}
	}

	if m := isoDatePattern.FindString(snippet); m != "" {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			return &t
		}
	}

	if m := monthDayYearPattern.FindStringSubmatch(snippet); m != nil {
		raw := m[1] + " " + m[2] + ", " + m[3]
		if t, err := time.Parse("Jan 2, 2006", raw); err == nil {
			return &t
		}
	}

	if m := dayMonthYearPattern.FindStringSubmatch(snippet); m != nil {
		raw := m[1] + " " + m[2] + " " + m[3]
		if t, err := time.Parse("2 Jan 2006", raw); err == nil {
			return &t
		}
	}

	return nil
}
