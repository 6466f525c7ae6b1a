package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/wonderben-code/honestgpt/internal/model"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question with evidence-calibrated confidence",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		question := strings.Join(args, " ")
		answer := env.Evaluator.EvaluateQuestion(ctx, question, nil)

		if askJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return eris.Wrap(enc.Encode(answer), "encode answer")
		}

		printAnswer(answer)
		return nil
	},
}

func printAnswer(a model.StructuredAnswer) {
	fmt.Println(a.MainResponse)
	fmt.Println()
	fmt.Printf("Confidence: %d/100 (%s)\n", a.Confidence, a.Level)
	fmt.Printf("  Source quality:   %d  %s\n", a.Factors.SourceQuality.Score, a.Factors.SourceQuality.Details)
	fmt.Printf("  Source agreement: %d  %s\n", a.Factors.SourceAgreement.Score, a.Factors.SourceAgreement.Details)
	fmt.Printf("  Recency:          %d  %s\n", a.Factors.RecencyScore.Score, a.Factors.RecencyScore.Details)
	fmt.Printf("  Certainty:        %d  %s\n", a.Factors.CertaintyScore.Score, a.Factors.CertaintyScore.Details)

	if len(a.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, s := range a.Sources {
			fmt.Printf("  [%d] %s (%s, trust %d)\n", s.Position, s.Title, s.Domain, s.TrustScore)
			fmt.Printf("      %s\n", s.URL)
		}
	}
	printList("Potential biases", a.Biases)
	printList("Controversies", a.Controversies)
	printList("Limitations", a.Limitations)

	if !a.Success {
		fmt.Println("\n(answer generation failed; the text above is a fallback)")
	}
}

func printList(header string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", header)
	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "emit the full structured answer as JSON")
	rootCmd.AddCommand(askCmd)
}
