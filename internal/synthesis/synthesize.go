// Package synthesis turns scored evidence into a calibrated structured
// answer. It builds a confidence-tier-conditioned prompt, invokes the
// generation capability, then extracts citations, biases, controversies,
// and limitations from the returned text alone — no second model call.
package synthesis

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wonderben-code/honestgpt/internal/model"
	"github.com/wonderben-code/honestgpt/internal/resilience"
	"github.com/wonderben-code/honestgpt/pkg/anthropic"
)

const (
	defaultMaxTokens = 1500
	defaultTimeout   = 60 * time.Second
)

// fallbackByTier is the canned answer body used when the generation
// capability is unavailable. Distinct text per tier so the degraded answer
// still matches the evidence strength.
var fallbackByTier = map[model.ConfidenceLevel]string{
	model.LevelHigh:   "The evidence gathered for this question is strong and consistent, but the answer could not be generated right now. Please try again; the cited sources below are a reliable starting point.",
	model.LevelMedium: "Based on available evidence of moderate strength, an answer could not be generated right now. Please try again shortly and weigh the cited sources yourself in the meantime.",
	model.LevelLow:    "Confidence in any answer to this question would be low, and the answer service is currently unavailable. Treat the sources below with caution and try again later.",
}

// Synthesizer owns the generation client and model selection.
type Synthesizer struct {
	gen       anthropic.Client
	modelID   string
	maxTokens int64
	timeout   time.Duration
	retry     resilience.RetryConfig
}

// NewSynthesizer creates a Synthesizer that generates with the given model.
func NewSynthesizer(gen anthropic.Client, modelID string) *Synthesizer {
	return &Synthesizer{
		gen:       gen,
		modelID:   modelID,
		maxTokens: defaultMaxTokens,
		timeout:   defaultTimeout,
		retry:     resilience.DefaultRetryConfig(),
	}
}

// Synthesize produces the structured answer for a question given its
// evidence and confidence breakdown. Generation failures degrade to a
// tier-appropriate canned body with Success=false; they never propagate.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, sources []model.SourceHit, breakdown model.ConfidenceBreakdown, prior []model.ConversationTurn) model.StructuredAnswer {
	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages := priorMessages(prior)
	messages = append(messages, anthropic.Message{
		Role:    "user",
		Content: buildUserPrompt(question, sources, breakdown, prior),
	})

	resp, err := resilience.DoVal(genCtx, s.retry, "anthropic", func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return s.gen.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     s.modelID,
			MaxTokens: s.maxTokens,
			System:    systemPrompt(breakdown.Level),
			Messages:  messages,
		})
	})

	success := err == nil && resp != nil && resp.Text != ""
	var text string
	if success {
		text = resp.Text
		resp.Usage.LogUsage(resp.Model, "synthesize")
	} else {
		text = fallbackByTier[breakdown.Level]
		if text == "" {
			text = fallbackByTier[model.LevelLow]
		}
		zap.L().Warn("synthesis: generation unavailable, using fallback",
			zap.String("level", string(breakdown.Level)),
			zap.Error(err),
		)
	}

	return s.assemble(text, sources, breakdown, success)
}

// assemble runs the extraction heuristics over generated (or fallback)
// text and packages the structured answer.
func (s *Synthesizer) assemble(text string, sources []model.SourceHit, breakdown model.ConfidenceBreakdown, success bool) model.StructuredAnswer {
	return model.StructuredAnswer{
		MainResponse:  text,
		ShortResponse: extractShort(text),
		Sources:       extractCitedSources(text, sources),
		Confidence:    breakdown.Overall,
		Level:         breakdown.Level,
		Factors:       breakdown.Factors,
		Biases:        detectBiases(sources),
		Controversies: detectControversies(text, sources),
		Limitations:   deriveLimitations(breakdown, text),
		Success:       success,
	}
}

// NoEvidenceFallback is the zero-sources answer. It never calls the
// generation capability.
func NoEvidenceFallback(question string) model.StructuredAnswer {
	body := "I couldn't find reliable information to answer this question. " +
		"This may mean the topic is very new, very niche, or phrased in a way " +
		"search providers don't index well. Try rephrasing the question or " +
		"asking about a related, broader topic."

	breakdown := model.ConfidenceBreakdown{
		Overall: 0,
		Level:   model.LevelLow,
		Factors: model.ConfidenceFactors{
			SourceQuality:   model.ConfidenceFactor{Score: 0, Weight: model.WeightSourceQuality, Details: "No sources available"},
			SourceAgreement: model.ConfidenceFactor{Score: 0, Weight: model.WeightSourceAgreement, Details: "No sources available"},
			RecencyScore:    model.ConfidenceFactor{Score: 0, Weight: model.WeightRecency, Details: "No sources available"},
			CertaintyScore:  model.ConfidenceFactor{Score: 0, Weight: model.WeightCertainty, Details: "No sources available"},
		},
	}

	zap.L().Info("synthesis: no-evidence fallback", zap.String("question", question))

	return model.StructuredAnswer{
		MainResponse:  body,
		ShortResponse: "I couldn't find reliable information to answer this question.",
		Sources:       []model.SourceHit{},
		Confidence:    breakdown.Overall,
		Level:         breakdown.Level,
		Factors:       breakdown.Factors,
		Biases:        []string{},
		Controversies: []string{},
		Limitations:   []string{"No sources could be retrieved for this question"},
		Success:       true,
	}
}

// priorMessages converts up to the last five conversation turns
// (oldest-first) into generation messages.
func priorMessages(prior []model.ConversationTurn) []anthropic.Message {
	if len(prior) > priorTurnLimit {
		prior = prior[len(prior)-priorTurnLimit:]
	}
	out := make([]anthropic.Message, 0, len(prior)+1)
	for _, t := range prior {
		out = append(out, anthropic.Message{Role: t.Role, Content: t.Content})
	}
	return out
}
