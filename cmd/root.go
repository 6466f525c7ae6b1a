package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wonderben-code/honestgpt/internal/cache"
	"github.com/wonderben-code/honestgpt/internal/config"
	"github.com/wonderben-code/honestgpt/internal/evaluator"
	"github.com/wonderben-code/honestgpt/internal/retrieval"
	"github.com/wonderben-code/honestgpt/internal/synthesis"
	"github.com/wonderben-code/honestgpt/pkg/anthropic"
	"github.com/wonderben-code/honestgpt/pkg/googlesearch"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "honestgpt",
	Short: "Evidence-grounded question answering with calibrated confidence",
	Long:  "Retrieves web sources for a question, scores the evidence on quality, agreement, recency, and certainty, and synthesizes an answer that hedges in proportion to its confidence.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// pipelineEnv bundles the evaluator with the resources it owns.
type pipelineEnv struct {
	Evaluator *evaluator.Evaluator
	cache     *cache.SQLiteCache
}

func (e *pipelineEnv) Close() {
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			zap.L().Warn("close cache", zap.Error(err))
		}
	}
}

// initPipeline builds the full evaluation pipeline from config. It fails
// fast on missing credentials, before any provider call.
func initPipeline(cmd *cobra.Command) (*pipelineEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	search, err := googlesearch.NewClient(cfg.Google.Key, cfg.Google.EngineID,
		googlesearch.WithRateLimit(cfg.Google.QPS),
	)
	if err != nil {
		return nil, err
	}

	gen, err := anthropic.NewClient(cfg.Anthropic.Key)
	if err != nil {
		return nil, err
	}

	env := &pipelineEnv{}

	var retrieverOpts []retrieval.Option
	if cfg.Cache.Enabled {
		c, err := cache.NewSQLite(cfg.Cache.Path, time.Duration(cfg.Cache.TTLHours)*time.Hour)
		if err != nil {
			return nil, err
		}
		if err := c.Migrate(cmd.Context()); err != nil {
			c.Close()
			return nil, err
		}
		env.cache = c
		retrieverOpts = append(retrieverOpts, retrieval.WithCache(c))
	}

	env.Evaluator = evaluator.New(
		retrieval.New(search, retrieverOpts...),
		synthesis.NewSynthesizer(gen, cfg.Anthropic.Model),
		cfg.Retrieval.DesiredCount,
	)
	return env, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
