package reputation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonderben-code/honestgpt/internal/model"
)

func TestLookup_ExactMatch(t *testing.T) {
	e := Lookup("nature.com")
	assert.Equal(t, 92, e.Score)
	assert.Equal(t, model.TierHigh, e.Tier)
	assert.Equal(t, model.CategoryJournal, e.Category)
}

func TestLookup_SuffixMatch(t *testing.T) {
	e := Lookup("energy.gov")
	assert.Equal(t, model.TierHigh, e.Tier)
	assert.Equal(t, model.CategoryGovernment, e.Category)
}

func TestLookup_LongestSubstringWins(t *testing.T) {
	// pubmed.ncbi.nlm.nih.gov is both an exact entry and contains ".gov";
	// the exact entry must win.
	e := Lookup("pubmed.ncbi.nlm.nih.gov")
	assert.Equal(t, 94, e.Score)
	assert.Equal(t, model.CategoryJournal, e.Category)
}

func TestLookup_UnknownDomainDefaults(t *testing.T) {
	e := Lookup("random-widgets.example")
	assert.Equal(t, DefaultScore, e.Score)
	assert.Equal(t, model.TierLimited, e.Tier)
	assert.Equal(t, model.CategoryWebsite, e.Category)
}

func TestLookup_Deterministic(t *testing.T) {
	for range 5 {
		assert.Equal(t, Lookup("bbc.co.uk"), Lookup("bbc.co.uk"))
	}
}

func TestTierFor_Boundaries(t *testing.T) {
	assert.Equal(t, model.TierHigh, TierFor(85))
	assert.Equal(t, model.TierMedium, TierFor(84))
	assert.Equal(t, model.TierMedium, TierFor(70))
	assert.Equal(t, model.TierLimited, TierFor(69))
}

func TestCategorize_PriorityOrder(t *testing.T) {
	// ".gov" outranks "news" even when both substrings are present.
	assert.Equal(t, model.CategoryGovernment, Categorize("news.ca.gov"))
	assert.Equal(t, model.CategoryAcademic, Categorize("physics.mit.edu"))
	assert.Equal(t, model.CategoryBlog, Categorize("myblog.example.com"))
	assert.Equal(t, model.CategoryWebsite, Categorize("acme-widgets.com"))
}

func TestTrustedDomains_AllResolveHigh(t *testing.T) {
	for _, d := range TrustedDomains {
		e := Lookup(d)
		assert.GreaterOrEqual(t, e.Score, 70, "trusted domain %s should not be limited", d)
	}
}
