package model

import "math"

// ConfidenceLevel is the coarse tier derived from the overall score.
type ConfidenceLevel string

const (
	LevelHigh   ConfidenceLevel = "high"
	LevelMedium ConfidenceLevel = "medium"
	LevelLow    ConfidenceLevel = "low"
)

// Factor weights. Fixed; they sum to 1.0.
const (
	WeightSourceQuality   = 0.30
	WeightSourceAgreement = 0.25
	WeightRecency         = 0.25
	WeightCertainty       = 0.20
)

// ConfidenceFactor is one scored dimension of the evidence.
type ConfidenceFactor struct {
	Score   int     `json:"score"`  // 0-100
	Weight  float64 `json:"weight"` // fraction of the overall score
	Details string  `json:"details"`
}

// ConfidenceFactors holds the four named factors that are always present.
type ConfidenceFactors struct {
	SourceQuality   ConfidenceFactor `json:"source_quality"`
	SourceAgreement ConfidenceFactor `json:"source_agreement"`
	RecencyScore    ConfidenceFactor `json:"recency_score"`
	CertaintyScore  ConfidenceFactor `json:"certainty_score"`
}

// ConfidenceBreakdown is the terminal scoring artifact. Created once per
// evaluation and never mutated afterwards.
type ConfidenceBreakdown struct {
	Overall int               `json:"overall"` // 0-100
	Level   ConfidenceLevel   `json:"level"`
	Factors ConfidenceFactors `json:"factors"`
}

// LevelFor buckets an overall score: high at 80 and above, medium at 60-79,
// low below 60.
func LevelFor(overall int) ConfidenceLevel {
	switch {
	case overall >= 80:
		return LevelHigh
	case overall >= 60:
		return LevelMedium
	default:
		return LevelLow
	}
}

// NewBreakdown aggregates the four factors into an overall score and tier.
// Each factor is already in [0,100], so the weighted sum needs no clamp.
func NewBreakdown(factors ConfidenceFactors) ConfidenceBreakdown {
	sum := float64(factors.SourceQuality.Score)*factors.SourceQuality.Weight +
		float64(factors.SourceAgreement.Score)*factors.SourceAgreement.Weight +
		float64(factors.RecencyScore.Score)*factors.RecencyScore.Weight +
		float64(factors.CertaintyScore.Score)*factors.CertaintyScore.Weight

	overall := int(math.Round(sum))
	return ConfidenceBreakdown{
		Overall: overall,
		Level:   LevelFor(overall),
		Factors: factors,
	}
}

// MinimumBreakdown is the degraded breakdown produced when scoring itself
// fails. Callers always receive a well-formed value, never a panic.
func MinimumBreakdown() ConfidenceBreakdown {
	errFactor := func(weight float64) ConfidenceFactor {
		return ConfidenceFactor{Score: 25, Weight: weight, Details: "error: scoring failed"}
	}
	return ConfidenceBreakdown{
		Overall: 25,
		Level:   LevelLow,
		Factors: ConfidenceFactors{
			SourceQuality:   errFactor(WeightSourceQuality),
			SourceAgreement: errFactor(WeightSourceAgreement),
			RecencyScore:    errFactor(WeightRecency),
			CertaintyScore:  errFactor(WeightCertainty),
		},
	}
}
