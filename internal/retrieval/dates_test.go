package retrieval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPublishedAt_MetadataFirst(t *testing.T) {
	got := extractPublishedAt(
		map[string]string{"article:published_time": "2024-03-15T10:30:00Z"},
		"Jan 1, 2020 · old date in snippet should lose",
	)
	require.NotNil(t, got)
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.March, got.Month())
}

func TestExtractPublishedAt_MetadataDateOnly(t *testing.T) {
	got := extractPublishedAt(map[string]string{"date": "2023-11-02"}, "")
	require.NotNil(t, got)
	assert.Equal(t, "2023-11-02", got.Format("2006-01-02"))
}

func TestExtractPublishedAt_SnippetISO(t *testing.T) {
	got := extractPublishedAt(nil, "Published 2022-07-04 by the agency.")
	require.NotNil(t, got)
	assert.Equal(t, "2022-07-04", got.Format("2006-01-02"))
}

func TestExtractPublishedAt_SnippetMonthDayYear(t *testing.T) {
	got := extractPublishedAt(nil, "Mar 15, 2024 · The commission ruled that...")
	require.NotNil(t, got)
	assert.Equal(t, "2024-03-15", got.Format("2006-01-02"))

	got = extractPublishedAt(nil, "March 5, 2021 — findings published")
	require.NotNil(t, got)
	assert.Equal(t, "2021-03-05", got.Format("2006-01-02"))
}

func TestExtractPublishedAt_SnippetDayMonthYear(t *testing.T) {
	got := extractPublishedAt(nil, "Updated 7 December 2023.")
	require.NotNil(t, got)
	assert.Equal(t, "2023-12-07", got.Format("2006-01-02"))
}

func TestExtractPublishedAt_NoDate(t *testing.T) {
	assert.Nil(t, extractPublishedAt(nil, "No dates to be found here."))
	assert.Nil(t, extractPublishedAt(map[string]string{"date": "yesterday"}, ""))
}
