package synthesis

import (
	"fmt"
	"strings"

	"github.com/wonderben-code/honestgpt/internal/model"
)

// promptSourceLimit caps how many sources are serialized into the prompt.
const promptSourceLimit = 8

// priorTurnLimit caps how much conversation history is replayed.
const priorTurnLimit = 5

// sharedRequirements apply to every confidence tier.
const sharedRequirements = `Always:
1. Give a direct answer to the question, even if that answer is "unknown".
2. Tie key supporting points to specific sources by name or number.
3. State caveats and limitations explicitly.
4. If the sources disagree with each other, say so explicitly.`

// tierInstructions maps a confidence level to the register the generated
// answer must use. Keeping these as one table keeps calibration logic out
// of scattered string templates.
var tierInstructions = map[model.ConfidenceLevel]string{
	model.LevelHigh: `You are answering a question backed by strong, consistent evidence.
Open with a direct, authoritative answer. Acknowledge only minor uncertainties where they genuinely exist.`,
	model.LevelMedium: `You are answering a question backed by moderate evidence.
Use balanced framing. Use epistemic hedges such as "based on available evidence" and "appears to be" where the evidence is not conclusive.`,
	model.LevelLow: `You are answering a question backed by weak or conflicting evidence.
Begin your answer with an explicit disclaimer that confidence in this answer is low, before any substantive content.`,
}

// systemPrompt returns the tier-conditioned instruction text.
func systemPrompt(level model.ConfidenceLevel) string {
	instruction, ok := tierInstructions[level]
	if !ok {
		instruction = tierInstructions[model.LevelLow]
	}
	return instruction + "\n\n" + sharedRequirements
}

// buildUserPrompt serializes the evidence, the factor breakdown, prior
// conversation turns (oldest first), and the question.
func buildUserPrompt(question string, sources []model.SourceHit, breakdown model.ConfidenceBreakdown, prior []model.ConversationTurn) string {
	var b strings.Builder

	b.WriteString("Sources:\n")
	limit := len(sources)
	if limit > promptSourceLimit {
		limit = promptSourceLimit
	}
	for i := 0; i < limit; i++ {
		s := sources[i]
		date := "undated"
		if s.PublishedAt != nil {
			date = s.PublishedAt.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "Source %d: %s (%s, %s quality, %s, %s)\n  %s\n",
			s.Position, s.Title, s.Domain, s.QualityTier, s.Category, date, s.Snippet)
	}
	if limit == 0 {
		b.WriteString("(none)\n")
	}

	b.WriteString("\nEvidence assessment:\n")
	fmt.Fprintf(&b, "- Overall confidence: %d/100 (%s)\n", breakdown.Overall, breakdown.Level)
	fmt.Fprintf(&b, "- Source quality: %d/100 — %s\n", breakdown.Factors.SourceQuality.Score, breakdown.Factors.SourceQuality.Details)
	fmt.Fprintf(&b, "- Source agreement: %d/100 — %s\n", breakdown.Factors.SourceAgreement.Score, breakdown.Factors.SourceAgreement.Details)
	fmt.Fprintf(&b, "- Recency: %d/100 — %s\n", breakdown.Factors.RecencyScore.Score, breakdown.Factors.RecencyScore.Details)
	fmt.Fprintf(&b, "- Certainty of language: %d/100 — %s\n", breakdown.Factors.CertaintyScore.Score, breakdown.Factors.CertaintyScore.Details)

	if len(prior) > 0 {
		turns := prior
		if len(turns) > priorTurnLimit {
			turns = turns[len(turns)-priorTurnLimit:]
		}
		b.WriteString("\nConversation so far:\n")
		for _, t := range turns {
			fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
		}
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
