package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tiller/internal/guardrail"
)

var (
	sayRequested  bool
	sayUrgent     bool
	sayActionable bool
	sayFocus      bool
	sayNoFix      bool
	sayApproved   string
	sayAsJSON     bool
)

var sayCmd = &cobra.Command{
	Use:   "say <candidate text>",
	Short: "Run a candidate utterance through the cognitive-load guardrail",
	Long: `Applies the restraint policy to a candidate assistant utterance: silence by
default, no unprompted questions, at most one option. Prints the filtered
text, or nothing at all when the turn calls for silence.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := guardrail.Context{
			HasUserRequest:    sayRequested,
			HasUrgentItems:    sayUrgent,
			HasActionableItem: sayActionable,
			IsInFocusMode:     sayFocus,
			AutoFix:           !sayNoFix,
			ApprovedOption:    sayApproved,
		}
		res := guardrail.Apply(args[0], ctx)

		for _, v := range res.Violations {
			logger.Debug("guardrail violation",
				zap.String("kind", string(v.Kind)),
				zap.String("detail", v.Detail))
		}

		if sayAsJSON {
			return printJSON(res)
		}

		if res.WasSilent {
			// Silence means no output at all; the exit code still reports
			// success because silence is the intended outcome.
			return nil
		}
		fmt.Println(res.Output)
		return nil
	},
}

func init() {
	sayCmd.Flags().BoolVar(&sayRequested, "requested", false, "the user explicitly asked this turn")
	sayCmd.Flags().BoolVar(&sayUrgent, "urgent", false, "something urgent is outstanding")
	sayCmd.Flags().BoolVar(&sayActionable, "actionable", false, "the engine currently recommends an action")
	sayCmd.Flags().BoolVar(&sayFocus, "focus", false, "a focus session is running")
	sayCmd.Flags().BoolVar(&sayNoFix, "no-fix", false, "flag violations instead of rewriting")
	sayCmd.Flags().StringVar(&sayApproved, "approved", "", "engine-approved single option used to collapse menus")
	sayCmd.Flags().BoolVar(&sayAsJSON, "json", false, "machine-readable output")
	rootCmd.AddCommand(sayCmd)
}
