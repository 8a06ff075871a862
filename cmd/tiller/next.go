package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tiller/internal/engine"
	"tiller/internal/store"
	"tiller/internal/types"
)

var (
	nextInputPath string
	nextAsJSON    bool

	nextOpenLoops  int
	nextUrgent     int
	nextConflicts  int
	nextDeadlines  int
	nextFocusState string
	nextFocusMins  int
	nextTrust      int
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Compute the single next-best action for a situation snapshot",
	Long: `Evaluates the priority ladder over a situation snapshot and prints at most
one recommendation. The snapshot comes from flags, or from a JSON file
(--input; "-" reads stdin). With --db, the evaluation is appended to the
audit log, full candidate list included.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := loadSnapshot()
		if err != nil {
			return err
		}

		eng := engine.New(engine.Config{
			OpenLoopThreshold: cfg.Engine.OpenLoopThreshold,
			BreakAfterMinutes: cfg.Engine.BreakAfterMinutes,
		})
		out := eng.Compute(in)

		logger.Debug("priorities computed",
			zap.Int("candidates", len(out.Priorities)),
			zap.Bool("all_clear", out.IsAllClear))

		if dbPath != "" {
			db, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.Audit(userID).RecordEvaluation(cmd.Context(), in, out); err != nil {
				return err
			}
		}

		text, err := engine.NextBestActionText(out)
		if err != nil {
			return err
		}

		if nextAsJSON {
			return printJSON(struct {
				Recommendation *types.Priority   `json:"recommendation"`
				IsAllClear     bool              `json:"is_all_clear"`
				Reassurance    string            `json:"reassurance"`
				Text           engine.ActionText `json:"text"`
			}{out.Recommendation, out.IsAllClear, out.Reassurance, text})
		}

		fmt.Println(text.Headline)
		fmt.Println(text.Description)
		if text.CTA != "" {
			fmt.Printf("-> %s (%s)\n", text.CTA, text.Href)
		}
		fmt.Println()
		fmt.Println(out.Reassurance)
		return nil
	},
}

func loadSnapshot() (types.PriorityInput, error) {
	if nextInputPath == "" {
		return types.PriorityInput{
			OpenLoopsCount:     nextOpenLoops,
			UrgentMessageCount: nextUrgent,
			CalendarConflicts:  nextConflicts,
			UpcomingDeadlines:  nextDeadlines,
			FocusState:         types.ParseFocusState(nextFocusState),
			FocusMinutesToday:  nextFocusMins,
			TrustViolations:    nextTrust,
		}, nil
	}

	var data []byte
	var err error
	if nextInputPath == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(nextInputPath)
	}
	if err != nil {
		return types.PriorityInput{}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var in types.PriorityInput
	if err := json.Unmarshal(data, &in); err != nil {
		return types.PriorityInput{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return in, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	nextCmd.Flags().StringVar(&nextInputPath, "input", "", "JSON snapshot file (\"-\" for stdin)")
	nextCmd.Flags().BoolVar(&nextAsJSON, "json", false, "machine-readable output")
	nextCmd.Flags().IntVar(&nextOpenLoops, "open-loops", 0, "unresolved loops awaiting closure")
	nextCmd.Flags().IntVar(&nextUrgent, "urgent", 0, "unread high-priority messages")
	nextCmd.Flags().IntVar(&nextConflicts, "conflicts", 0, "overlapping calendar entries")
	nextCmd.Flags().IntVar(&nextDeadlines, "deadlines", 0, "deadlines approaching soon")
	nextCmd.Flags().StringVar(&nextFocusState, "focus", "idle", "focus state: idle, active, deferred, completed")
	nextCmd.Flags().IntVar(&nextFocusMins, "focus-minutes", 0, "focus minutes logged today")
	nextCmd.Flags().IntVar(&nextTrust, "trust-violations", 0, "actions attempted outside granted authority")
	rootCmd.AddCommand(nextCmd)
}
