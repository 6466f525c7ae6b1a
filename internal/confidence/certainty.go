package confidence

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/wonderben-code/honestgpt/internal/model"
)

// hedgePhrases are counted case-insensitively as whole words or phrases.
var hedgePhrases = []string{
	"may",
	"might",
	"could",
	"possibly",
	"perhaps",
	"likely",
	"unlikely",
	"estimated",
	"controversial",
	"unclear",
	"uncertain",
	"disputed",
	"allegedly",
	"reportedly",
	"suggests",
	"mixed results",
	"some studies",
	"not yet known",
}

var hedgePatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(hedgePhrases))
	for i, p := range hedgePhrases {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(p) + `\b`)
	}
	return out
}()

// scoreCertainty inverts hedge-word density across all snippets. A 10%
// hedge density already drives the score to zero.
func scoreCertainty(sources []model.SourceHit) model.ConfidenceFactor {
	var text strings.Builder
	for _, s := range sources {
		text.WriteString(s.Snippet)
		text.WriteString(" ")
	}
	normalized := normalizeText(text.String())

	totalWords := len(strings.Fields(normalized))
	if totalWords == 0 {
		return model.ConfidenceFactor{
			Score:   50,
			Weight:  model.WeightCertainty,
			Details: "No snippet text to assess",
		}
	}

	hedges := 0
	for _, p := range hedgePatterns {
		hedges += len(p.FindAllStringIndex(normalized, -1))
	}

	ratio := float64(hedges) / float64(totalWords)
	score := clamp(int(math.Round(100 - 1000*ratio)))

	return model.ConfidenceFactor{
		Score:   score,
		Weight:  model.WeightCertainty,
		Details: fmt.Sprintf("%d hedging terms across %d words", hedges, totalWords),
	}
}

// normalizeText applies NFKC normalization and lowercases, so token and
// phrase matching behaves the same for typographic variants.
func normalizeText(s string) string {
	return strings.ToLower(norm.NFKC.String(s))
}

// tokenSet splits normalized text into a set of word tokens.
func tokenSet(s string) map[string]bool {
	fields := strings.FieldsFunc(normalizeText(s), func(r rune) bool {
		return !isWordRune(r)
	})
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

func isWordRune(r rune) bool {
	return r == '\'' ||
		(r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9') ||
		r > 127 // keep non-ASCII letters intact
}
