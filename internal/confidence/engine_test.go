package confidence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonderben-code/honestgpt/internal/model"
)

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func datedSource(pos int, domain string, trust int, snippet string, age time.Duration) model.SourceHit {
	published := testNow.Add(-age)
	return model.SourceHit{
		Position:    pos,
		URL:         "https://" + domain + "/page",
		Domain:      domain,
		TrustScore:  trust,
		QualityTier: model.TierHigh,
		Snippet:     snippet,
		PublishedAt: &published,
	}
}

func TestScoreAt_NoSources(t *testing.T) {
	b := ScoreAt(nil, "any question", "general", testNow)

	assert.Equal(t, 0, b.Overall)
	assert.Equal(t, model.LevelLow, b.Level)
	assert.Equal(t, 0, b.Factors.SourceQuality.Score)
	assert.Contains(t, b.Factors.SourceQuality.Details, "No sources available")
	// Neutral fallbacks are still reported per factor.
	assert.Equal(t, 50, b.Factors.SourceAgreement.Score)
	assert.Equal(t, 60, b.Factors.RecencyScore.Score)
	assert.Equal(t, 50, b.Factors.CertaintyScore.Score)
}

func TestScoreAt_Deterministic(t *testing.T) {
	sources := []model.SourceHit{
		datedSource(1, "cdc.gov", 95, "The treatment is considered safe and effective in trials.", 30*24*time.Hour),
		datedSource(2, "nih.gov", 95, "Clinical trials found the treatment safe and effective overall.", 60*24*time.Hour),
	}
	a := ScoreAt(sources, "Is the treatment safe?", "medicine", testNow)
	b := ScoreAt(sources, "Is the treatment safe?", "medicine", testNow)
	assert.Equal(t, a, b)
}

func TestScoreAt_HighConfidenceScenario(t *testing.T) {
	// Ten recent, consistent, high-trust sources with low hedge density.
	snippet := "Nuclear power plants operate under strict federal safety regulations with extensive oversight and continuous monitoring programs across every facility."
	var sources []model.SourceHit
	for i := range 10 {
		sources = append(sources, datedSource(i+1, "nrc.gov", 92, snippet, 20*24*time.Hour))
		sources[i].URL = sources[i].URL + string(rune('a'+i))
	}

	b := ScoreAt(sources, "Is nuclear energy safe?", "science", testNow)

	assert.GreaterOrEqual(t, b.Overall, 80)
	assert.Equal(t, model.LevelHigh, b.Level)
}

func TestSourceAgreement_FewerThanTwoSourcesIsFifty(t *testing.T) {
	f := scoreSourceAgreement(nil)
	assert.Equal(t, 50, f.Score)

	f = scoreSourceAgreement([]model.SourceHit{{Snippet: "only one"}})
	assert.Equal(t, 50, f.Score)
}

func TestSourceAgreement_ContradictionDropsBelowFifty(t *testing.T) {
	sources := []model.SourceHit{
		{Snippet: "this treatment is safe"},
		{Snippet: "this treatment is unsafe"},
	}
	f := scoreSourceAgreement(sources)
	assert.Less(t, f.Score, 50)
}

func TestSourceAgreement_SharedVocabularyRaisesScore(t *testing.T) {
	shared := "federal regulators approved comprehensive safety standards following extensive independent review procedures"
	sources := []model.SourceHit{
		{Snippet: shared + " last year"},
		{Snippet: shared + " in a public statement"},
	}
	f := scoreSourceAgreement(sources)
	assert.Greater(t, f.Score, 50)
}

func TestSourceQuality_RankWeighted(t *testing.T) {
	// A top-ranked strong source outweighs a weak trailing one.
	strongFirst := scoreSourceQuality([]model.SourceHit{
		{TrustScore: 90, QualityTier: model.TierHigh},
		{TrustScore: 30, QualityTier: model.TierLimited},
	})
	weakFirst := scoreSourceQuality([]model.SourceHit{
		{TrustScore: 30, QualityTier: model.TierLimited},
		{TrustScore: 90, QualityTier: model.TierHigh},
	})
	assert.Greater(t, strongFirst.Score, weakFirst.Score)

	// weights 1 and 1/2: (90 + 15) / 1.5 = 70
	assert.Equal(t, 70, strongFirst.Score)
}

func TestRecency_NoDatedSourcesIsSixty(t *testing.T) {
	sources := []model.SourceHit{
		{Snippet: "undated"},
		{Snippet: "also undated"},
	}
	f := scoreRecency(sources, "medicine", testNow)
	assert.Equal(t, 60, f.Score)
}

func TestRecency_StableTopicFloors(t *testing.T) {
	old := testNow.Add(-20 * 365 * 24 * time.Hour)
	sources := []model.SourceHit{{PublishedAt: &old}}

	f := scoreRecency(sources, "history", testNow)
	assert.Equal(t, 70, f.Score)
}

func TestRecency_VolatileTopicDecaysFast(t *testing.T) {
	sixMonths := testNow.Add(-180 * 24 * time.Hour)
	sources := []model.SourceHit{{PublishedAt: &sixMonths}}

	f := scoreRecency(sources, "cryptocurrency", testNow)
	assert.Equal(t, 0, f.Score)

	fresh := testNow.Add(-9 * 24 * time.Hour)
	sources = []model.SourceHit{{PublishedAt: &fresh}}
	f = scoreRecency(sources, "cryptocurrency", testNow)
	assert.Equal(t, 90, f.Score)
}

func TestRecency_UndatedExcludedNotPenalized(t *testing.T) {
	fresh := testNow.Add(-10 * 24 * time.Hour)
	sources := []model.SourceHit{
		{PublishedAt: &fresh},
		{Snippet: "undated source"},
	}
	f := scoreRecency(sources, "medicine", testNow)
	// Average over the single dated source only.
	assert.Greater(t, f.Score, 95)
}

func TestCertainty_HedgeDensity(t *testing.T) {
	confident := []model.SourceHit{
		{Snippet: "The study demonstrates a clear causal relationship between exposure and outcome."},
	}
	hedged := []model.SourceHit{
		{Snippet: "The study may possibly show what could perhaps be an unclear relationship."},
	}

	fc := scoreCertainty(confident)
	fh := scoreCertainty(hedged)
	assert.Equal(t, 100, fc.Score)
	assert.Less(t, fh.Score, fc.Score)
}

func TestCertainty_NoWordsIsFifty(t *testing.T) {
	f := scoreCertainty([]model.SourceHit{{Snippet: ""}})
	assert.Equal(t, 50, f.Score)
}

func TestCertainty_PhraseMatching(t *testing.T) {
	f := scoreCertainty([]model.SourceHit{
		{Snippet: "Researchers report mixed results across the cohort populations studied during followup."},
	})
	// One phrase hit in 11 words: 100 - 1000/11 ≈ 9.
	assert.Less(t, f.Score, 50)
}

func TestLevelBoundaries(t *testing.T) {
	assert.Equal(t, model.LevelLow, model.LevelFor(59))
	assert.Equal(t, model.LevelMedium, model.LevelFor(60))
	assert.Equal(t, model.LevelMedium, model.LevelFor(79))
	assert.Equal(t, model.LevelHigh, model.LevelFor(80))
}

func TestNewBreakdown_WeightedAggregate(t *testing.T) {
	factors := model.ConfidenceFactors{
		SourceQuality:   model.ConfidenceFactor{Score: 100, Weight: model.WeightSourceQuality},
		SourceAgreement: model.ConfidenceFactor{Score: 100, Weight: model.WeightSourceAgreement},
		RecencyScore:    model.ConfidenceFactor{Score: 100, Weight: model.WeightRecency},
		CertaintyScore:  model.ConfidenceFactor{Score: 100, Weight: model.WeightCertainty},
	}
	b := model.NewBreakdown(factors)
	require.Equal(t, 100, b.Overall)
	assert.Equal(t, model.LevelHigh, b.Level)

	factors.SourceQuality.Score = 0
	b = model.NewBreakdown(factors)
	// 0*0.30 + 100*0.70 = 70
	assert.Equal(t, 70, b.Overall)
	assert.Equal(t, model.LevelMedium, b.Level)
}

func TestMinimumBreakdown(t *testing.T) {
	b := model.MinimumBreakdown()
	assert.Equal(t, 25, b.Overall)
	assert.Equal(t, model.LevelLow, b.Level)
	assert.Contains(t, b.Factors.SourceQuality.Details, "error")
}
