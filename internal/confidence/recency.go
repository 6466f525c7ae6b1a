package confidence

import (
	"fmt"
	"math"
	"time"

	"github.com/wonderben-code/honestgpt/internal/model"
	"github.com/wonderben-code/honestgpt/internal/topic"
)

// scoreRecency averages per-source age scores using a decay curve chosen
// by the topic's stability class. Sources with no resolvable date are
// excluded from the average rather than penalized.
func scoreRecency(sources []model.SourceHit, topicLabel string, now time.Time) model.ConfidenceFactor {
	stability := topic.StabilityOf(topicLabel)

	var sum float64
	var dated int
	for _, s := range sources {
		if s.PublishedAt == nil {
			continue
		}
		days := now.Sub(*s.PublishedAt).Hours() / 24
		if days < 0 {
			days = 0
		}
		sum += recencyDecay(days, stability)
		dated++
	}

	if dated == 0 {
		return model.ConfidenceFactor{
			Score:   60,
			Weight:  model.WeightRecency,
			Details: "No dated sources; recency unknown",
		}
	}

	score := clamp(int(math.Round(sum / float64(dated))))
	return model.ConfidenceFactor{
		Score:   score,
		Weight:  model.WeightRecency,
		Details: fmt.Sprintf("%d of %d sources dated; %s-topic decay applied", dated, len(sources), stability),
	}
}

// recencyDecay maps an age in days to a 0-100 score.
//
// Stable topics barely age: linear loss of 30 points over ten years with a
// floor of 70. Moderate topics decay linearly to zero over three years.
// Volatile topics decay to zero over roughly three months.
func recencyDecay(ageDays float64, stability topic.Stability) float64 {
	switch stability {
	case topic.StabilityStable:
		score := 100 - 30*(ageDays/3650)
		if score < 70 {
			return 70
		}
		return score
	case topic.StabilityVolatile:
		score := 100 - 100*(ageDays/90)
		if score < 0 {
			return 0
		}
		return score
	default: // moderate
		score := 100 - 100*(ageDays/1095)
		if score < 0 {
			return 0
		}
		return score
	}
}
