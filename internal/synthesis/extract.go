package synthesis

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/wonderben-code/honestgpt/internal/model"
)

const shortResponseLimit = 150

var sentenceEndPattern = regexp.MustCompile(`(?s)^(.*?[.!?])(\s|$)`)

// extractShort condenses generated text to a short-form answer: the first
// paragraph when it fits, otherwise the first sentence, otherwise a
// truncated prefix.
func extractShort(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	paragraph := text
	if idx := strings.Index(text, "\n\n"); idx > 0 {
		paragraph = strings.TrimSpace(text[:idx])
	}
	if len(paragraph) <= shortResponseLimit {
		return paragraph
	}

	if m := sentenceEndPattern.FindStringSubmatch(paragraph); m != nil && len(m[1]) <= shortResponseLimit {
		return strings.TrimSpace(m[1])
	}

	return strings.TrimSpace(text[:shortResponseLimit]) + "..."
}

// extractCitedSources returns the subset of sources the generated text
// appears to reference: by domain, by title prefix, or by "source N"
// position. This is a best-effort filter, not a guarantee that the model
// actually used the source.
func extractCitedSources(text string, sources []model.SourceHit) []model.SourceHit {
	lower := strings.ToLower(text)
	cited := make([]model.SourceHit, 0, len(sources))

	for _, s := range sources {
		if s.Domain != "" && strings.Contains(lower, strings.ToLower(s.Domain)) {
			cited = append(cited, s)
			continue
		}
		if prefix := titlePrefix(s.Title); prefix != "" && strings.Contains(lower, prefix) {
			cited = append(cited, s)
			continue
		}
		if strings.Contains(lower, fmt.Sprintf("source %d", s.Position)) {
			cited = append(cited, s)
		}
	}
	return cited
}

// titlePrefix lowercases the first ~20 characters of a title, cut at a
// word boundary so partial words don't produce accidental matches.
func titlePrefix(title string) string {
	title = strings.ToLower(strings.TrimSpace(title))
	if len(title) <= 20 {
		return title
	}
	cut := title[:20]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}

// Bias detection thresholds.
const (
	usCentricTLDShare    = 0.7
	governmentShare      = 0.6
	freshSourceShareMin  = 0.3
	freshnessWindowHours = 365 * 24
)

// detectBiases runs rule-based checks over the source set: TLD
// homogeneity, institutional concentration, staleness, and commercial
// interest.
func detectBiases(sources []model.SourceHit) []string {
	biases := []string{}
	if len(sources) == 0 {
		return biases
	}
	total := float64(len(sources))

	usTLD := 0
	gov := 0
	fresh := 0
	sponsored := false
	cutoff := time.Now().Add(-freshnessWindowHours * time.Hour)

	for _, s := range sources {
		if strings.HasSuffix(s.Domain, ".gov") || strings.HasSuffix(s.Domain, ".com") {
			usTLD++
		}
		if s.Category == model.CategoryGovernment {
			gov++
		}
		if s.PublishedAt != nil && s.PublishedAt.After(cutoff) {
			fresh++
		}
		if strings.Contains(strings.ToLower(s.Snippet), "sponsored") {
			sponsored = true
		}
	}

	if float64(usTLD)/total > usCentricTLDShare {
		biases = append(biases, "Sources are predominantly US-centric (.gov/.com domains); international perspectives may be underrepresented")
	}
	if float64(gov)/total > governmentShare {
		biases = append(biases, "Sources are concentrated in government institutions")
	}
	if float64(fresh)/total < freshSourceShareMin {
		biases = append(biases, "Most sources are more than a year old")
	}
	if sponsored {
		biases = append(biases, "Some sources may reflect commercial interests (sponsored content detected)")
	}
	return biases
}

// Limitation thresholds per confidence factor.
const (
	qualityLimitThreshold   = 70
	agreementLimitThreshold = 60
	recencyLimitThreshold   = 70
	certaintyLimitThreshold = 60
)

// deriveLimitations maps weak confidence factors and hedging patterns in
// the generated text to user-visible limitation statements, so a degraded
// answer always explains why it is degraded.
func deriveLimitations(breakdown model.ConfidenceBreakdown, text string) []string {
	limitations := []string{}

	if breakdown.Factors.SourceQuality.Score < qualityLimitThreshold {
		limitations = append(limitations, "Source quality is below the preferred threshold for this answer")
	}
	if breakdown.Factors.SourceAgreement.Score < agreementLimitThreshold {
		limitations = append(limitations, "Sources disagree on key points")
	}
	if breakdown.Factors.RecencyScore.Score < recencyLimitThreshold {
		limitations = append(limitations, "Available sources may be outdated")
	}
	if breakdown.Factors.CertaintyScore.Score < certaintyLimitThreshold {
		limitations = append(limitations, "The underlying evidence uses uncertain language")
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "however") || strings.Contains(lower, "although") {
		limitations = append(limitations, "Multiple perspectives exist on this question")
	}
	if strings.Contains(lower, "more research") || strings.Contains(lower, "limited data") {
		limitations = append(limitations, "Research on this question is still developing")
	}

	return limitations
}

// controversyVocabulary flags sentences that discuss active disagreement.
var controversyVocabulary = []string{
	"controversial",
	"controversy",
	"hotly debated",
	"debated",
	"disputed",
	"contested",
	"divisive",
	"no consensus",
	"critics argue",
	"opponents claim",
}

// polarPairs flag opposite position words appearing across different
// source snippets.
var polarPairs = [][2]string{
	{"safe", "unsafe"},
	{"safe", "dangerous"},
	{"effective", "ineffective"},
	{"beneficial", "harmful"},
	{"legal", "illegal"},
}

var sentenceSplitPattern = regexp.MustCompile(`[^.!?]+[.!?]?`)

// detectControversies scans the generated text and all snippets for
// controversy vocabulary, extracting the sentence around each hit, then
// adds a signal when polar-opposite position words appear across
// different snippets. Results are deduplicated.
func detectControversies(text string, sources []model.SourceHit) []string {
	var corpus strings.Builder
	corpus.WriteString(text)
	for _, s := range sources {
		corpus.WriteString(" ")
		corpus.WriteString(s.Snippet)
	}

	seen := make(map[string]bool)
	controversies := []string{}

	for _, sentence := range sentenceSplitPattern.FindAllString(corpus.String(), -1) {
		trimmed := strings.TrimSpace(sentence)
		lower := strings.ToLower(trimmed)
		for _, term := range controversyVocabulary {
			if strings.Contains(lower, term) {
				if !seen[lower] {
					seen[lower] = true
					controversies = append(controversies, trimmed)
				}
				break
			}
		}
	}

	for _, pair := range polarPairs {
		if snippetsSplitOnPair(sources, pair) {
			signal := fmt.Sprintf("Sources take opposing positions (%q vs %q)", pair[0], pair[1])
			if !seen[strings.ToLower(signal)] {
				seen[strings.ToLower(signal)] = true
				controversies = append(controversies, signal)
			}
		}
	}

	return controversies
}

var wordSplitPattern = regexp.MustCompile(`[a-z0-9']+`)

// snippetsSplitOnPair reports whether one snippet contains pair[0] and a
// different snippet contains pair[1], as whole words.
func snippetsSplitOnPair(sources []model.SourceHit, pair [2]string) bool {
	var hasFirst, hasSecond []int
	for i, s := range sources {
		words := wordSplitPattern.FindAllString(strings.ToLower(s.Snippet), -1)
		for _, w := range words {
			if w == pair[0] {
				hasFirst = append(hasFirst, i)
			}
			if w == pair[1] {
				hasSecond = append(hasSecond, i)
			}
		}
	}
	for _, i := range hasFirst {
		for _, j := range hasSecond {
			if i != j {
				return true
			}
		}
	}
	return false
}
