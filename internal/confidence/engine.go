// Package confidence computes a reproducible multi-factor confidence score
// for a set of classified sources. Scoring is a pure function of its inputs
// and the evaluation time; it never aborts the caller.
package confidence

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/wonderben-code/honestgpt/internal/model"
)

// Score computes the weighted confidence breakdown for a question's
// evidence. Any panic inside scoring is converted into the minimum
// breakdown rather than propagated.
func Score(sources []model.SourceHit, question, topicLabel string) model.ConfidenceBreakdown {
	return ScoreAt(sources, question, topicLabel, time.Now().UTC())
}

// ScoreAt is Score with an explicit evaluation time. Identical inputs
// always produce bit-identical breakdowns.
func ScoreAt(sources []model.SourceHit, question, topicLabel string, now time.Time) (breakdown model.ConfidenceBreakdown) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("confidence: scoring failed, returning minimum breakdown",
				zap.String("question", question),
				zap.Any("panic", r),
			)
			breakdown = model.MinimumBreakdown()
		}
	}()

	factors := model.ConfidenceFactors{
		SourceQuality:   scoreSourceQuality(sources),
		SourceAgreement: scoreSourceAgreement(sources),
		RecencyScore:    scoreRecency(sources, topicLabel, now),
		CertaintyScore:  scoreCertainty(sources),
	}

	breakdown = model.NewBreakdown(factors)

	// No evidence at all means no confidence, not the neutral fallback
	// values the individual factors report.
	if len(sources) == 0 {
		breakdown.Overall = 0
		breakdown.Level = model.LevelLow
	}

	zap.L().Debug("confidence: breakdown computed",
		zap.String("topic", topicLabel),
		zap.Int("overall", breakdown.Overall),
		zap.String("level", string(breakdown.Level)),
		zap.Int("source_quality", factors.SourceQuality.Score),
		zap.Int("source_agreement", factors.SourceAgreement.Score),
		zap.Int("recency", factors.RecencyScore.Score),
		zap.Int("certainty", factors.CertaintyScore.Score),
	)
	return breakdown
}

// scoreSourceQuality is the rank-weighted average of per-source reputation
// scores, with weight 1/(index+1) so top-ranked sources dominate.
func scoreSourceQuality(sources []model.SourceHit) model.ConfidenceFactor {
	if len(sources) == 0 {
		return model.ConfidenceFactor{
			Score:   0,
			Weight:  model.WeightSourceQuality,
			Details: "No sources available",
		}
	}

	var weightedSum, weightTotal float64
	for i, s := range sources {
		w := 1.0 / float64(i+1)
		weightedSum += w * float64(s.TrustScore)
		weightTotal += w
	}

	score := clamp(int(math.Round(weightedSum / weightTotal)))
	high := 0
	for _, s := range sources {
		if s.QualityTier == model.TierHigh {
			high++
		}
	}

	return model.ConfidenceFactor{
		Score:   score,
		Weight:  model.WeightSourceQuality,
		Details: fmt.Sprintf("%d of %d sources are high quality; rank-weighted reputation %d/100", high, len(sources), score),
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
