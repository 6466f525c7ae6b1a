package confidence

import (
	"fmt"
	"math"

	"github.com/wonderben-code/honestgpt/internal/model"
)

// antonymPairs flag a contradiction when one snippet uses a term and
// another uses its opposite.
var antonymPairs = [][2]string{
	{"safe", "unsafe"},
	{"safe", "dangerous"},
	{"effective", "ineffective"},
	{"increase", "decrease"},
	{"increases", "decreases"},
	{"rising", "falling"},
	{"proven", "unproven"},
	{"confirmed", "debunked"},
	{"beneficial", "harmful"},
	{"supports", "refutes"},
	{"true", "false"},
	{"legal", "illegal"},
	{"causes", "prevents"},
}

// agreementSharedWordMin is the number of shared long words (>4 chars) two
// snippets need to count as agreeing.
const agreementSharedWordMin = 5

// scoreSourceAgreement pairwise-compares snippets. Contradictions (antonym
// pairs split across two snippets) pull the score down twice as hard as
// agreements (substantial shared vocabulary) pull it up.
func scoreSourceAgreement(sources []model.SourceHit) model.ConfidenceFactor {
	if len(sources) < 2 {
		return model.ConfidenceFactor{
			Score:   50,
			Weight:  model.WeightSourceAgreement,
			Details: "Fewer than 2 sources; insufficient data to compare",
		}
	}

	tokenSets := make([]map[string]bool, len(sources))
	for i, s := range sources {
		tokenSets[i] = tokenSet(s.Snippet)
	}

	var agreements, contradictions, pairs int
	for i := 0; i < len(sources); i++ {
		for j := i + 1; j < len(sources); j++ {
			pairs++
			if pairContradicts(tokenSets[i], tokenSets[j]) {
				contradictions++
			}
			if sharedLongWords(tokenSets[i], tokenSets[j]) > agreementSharedWordMin {
				agreements++
			}
		}
	}

	agreementRatio := float64(agreements) / float64(pairs)
	contradictionRatio := float64(contradictions) / float64(pairs)
	score := clamp(int(math.Round(50 + 100*agreementRatio - 200*contradictionRatio)))

	return model.ConfidenceFactor{
		Score:   score,
		Weight:  model.WeightSourceAgreement,
		Details: fmt.Sprintf("%d agreeing and %d contradicting pairs out of %d compared", agreements, contradictions, pairs),
	}
}

func pairContradicts(a, b map[string]bool) bool {
	for _, pair := range antonymPairs {
		if (a[pair[0]] && b[pair[1]]) || (a[pair[1]] && b[pair[0]]) {
			return true
		}
	}
	return false
}

// sharedLongWords counts distinct words longer than 4 characters present
// in both token sets.
func sharedLongWords(a, b map[string]bool) int {
	n := 0
	for w := range a {
		if len(w) > 4 && b[w] {
			n++
		}
	}
	return n
}
