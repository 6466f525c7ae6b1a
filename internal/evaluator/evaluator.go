// Package evaluator wires retrieval, topic detection, scoring, and
// synthesis into the two entry points the rest of the system calls.
package evaluator

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wonderben-code/honestgpt/internal/confidence"
	"github.com/wonderben-code/honestgpt/internal/model"
	"github.com/wonderben-code/honestgpt/internal/retrieval"
	"github.com/wonderben-code/honestgpt/internal/synthesis"
	"github.com/wonderben-code/honestgpt/internal/topic"
)

// Evaluator runs the question pipeline. Stateless between requests; safe
// for concurrent use.
type Evaluator struct {
	retriever    *retrieval.Retriever
	synth        *synthesis.Synthesizer
	desiredCount int
}

// New creates an Evaluator. desiredCount of zero uses the retrieval
// default batch size.
func New(retriever *retrieval.Retriever, synth *synthesis.Synthesizer, desiredCount int) *Evaluator {
	return &Evaluator{
		retriever:    retriever,
		synth:        synth,
		desiredCount: desiredCount,
	}
}

// EvaluateQuestion answers a question with confidence-calibrated prose and
// structured evidence annotations. The caller always receives a
// well-formed answer; provider failures degrade per stage instead of
// propagating.
func (e *Evaluator) EvaluateQuestion(ctx context.Context, question string, prior []model.ConversationTurn) model.StructuredAnswer {
	evalID := uuid.NewString()
	zap.L().Info("evaluate: start",
		zap.String("eval_id", evalID),
		zap.String("question", question),
	)

	batch, topicLabel := e.retrieveAndDetect(ctx, question)

	if len(batch.Sources) == 0 {
		zap.L().Warn("evaluate: no sources retrieved",
			zap.String("eval_id", evalID),
		)
		return synthesis.NoEvidenceFallback(question)
	}

	breakdown := confidence.Score(batch.Sources, question, topicLabel)
	answer := e.synth.Synthesize(ctx, question, batch.Sources, breakdown, prior)

	zap.L().Info("evaluate: done",
		zap.String("eval_id", evalID),
		zap.String("topic", topicLabel),
		zap.Int("confidence", answer.Confidence),
		zap.String("level", string(answer.Level)),
		zap.Int("cited_sources", len(answer.Sources)),
		zap.Bool("success", answer.Success),
	)
	return answer
}

// SearchOnly exposes retrieval plus scoring without synthesis, for
// lower-cost preview calls.
func (e *Evaluator) SearchOnly(ctx context.Context, question string) model.SearchResult {
	batch, topicLabel := e.retrieveAndDetect(ctx, question)
	return model.SearchResult{
		Sources:    batch.Sources,
		Confidence: confidence.Score(batch.Sources, question, topicLabel),
	}
}

// retrieveAndDetect runs retrieval and topic detection concurrently;
// neither depends on the other's output.
func (e *Evaluator) retrieveAndDetect(ctx context.Context, question string) (*model.RetrievalBatch, string) {
	var batch *model.RetrievalBatch
	var topicLabel string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		batch = e.retriever.Retrieve(gctx, question, e.desiredCount)
		return nil
	})
	g.Go(func() error {
		topicLabel = topic.Detect(question)
		return nil
	})
	_ = g.Wait() // both branches absorb their own failures

	return batch, topicLabel
}
