package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tiller/internal/classify"
	"tiller/internal/triage"
	"tiller/internal/types"
)

var (
	triageKind    string
	triageSummary string
	triageID      string
	triageUseLLM  bool
	triageAsJSON  bool
)

var triageCmd = &cobra.Command{
	Use:   "triage",
	Short: "Score and classify a single inbox item",
	Long: `Labels one item across the five triage dimensions, computes the weighted
composite score, and maps it to an action class. Labeling uses the offline
keyword heuristic unless --llm selects the configured GenAI labeler.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		item := triage.Item{
			ID:      triageID,
			Kind:    types.ItemKind(triageKind),
			Summary: triageSummary,
		}

		var labeler classify.Labeler = classify.Heuristic{}
		if triageUseLLM {
			if cfg.Classifier.APIKey == "" {
				return fmt.Errorf("--llm requires classifier.api_key (or %s)", "TILLER_GENAI_API_KEY")
			}
			var err error
			labeler, err = classify.NewGenAILabeler(cmd.Context(), cfg.Classifier.APIKey, cfg.Classifier.Model)
			if err != nil {
				return err
			}
		}

		labels, err := labeler.Label(cmd.Context(), item)
		if err != nil {
			logger.Warn("labeling failed, falling back to heuristic", zap.Error(err))
			labels, _ = classify.Heuristic{}.Label(cmd.Context(), item)
		}

		res := triage.Triage(item, labels)

		if triageAsJSON {
			return printJSON(res)
		}

		fmt.Printf("score:          %.2f\n", res.Scores.TotalScore)
		fmt.Printf("classification: %s\n", res.Classification)
		fmt.Printf("breaks today:   %v\n", res.Scores.BreaksSomething)
		fmt.Printf("labels:         consequence=%s time=%s intent=%s source=%s load=%s\n",
			orUnlabeled(string(labels.Consequence)),
			orUnlabeled(string(labels.TimeSensitivity)),
			orUnlabeled(string(labels.IntentAlignment)),
			orUnlabeled(string(labels.SourceWeight)),
			orUnlabeled(string(labels.CognitiveLoad)))
		return nil
	},
}

func orUnlabeled(s string) string {
	if s == "" {
		return "(neutral)"
	}
	return s
}

func init() {
	triageCmd.Flags().StringVar(&triageKind, "kind", "message", "item kind: message, task, notification, reminder")
	triageCmd.Flags().StringVar(&triageSummary, "summary", "", "item text to triage")
	triageCmd.Flags().StringVar(&triageID, "id", "", "item identifier")
	triageCmd.Flags().BoolVar(&triageUseLLM, "llm", false, "label with the configured GenAI model")
	triageCmd.Flags().BoolVar(&triageAsJSON, "json", false, "machine-readable output")
	_ = triageCmd.MarkFlagRequired("summary")
	rootCmd.AddCommand(triageCmd)
}
