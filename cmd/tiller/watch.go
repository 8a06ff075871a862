package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tiller/internal/config"
	"tiller/internal/engine"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-evaluate a snapshot whenever the config file changes",
	Long: `Watches the config file and recomputes the next-best action for the given
snapshot (--input, same format as "next") every time a tunable changes.
Useful for dialing in thresholds. Stops on Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := loadSnapshot()
		if err != nil {
			return err
		}

		evaluate := func(c config.Config) {
			eng := engine.New(engine.Config{
				OpenLoopThreshold: c.Engine.OpenLoopThreshold,
				BreakAfterMinutes: c.Engine.BreakAfterMinutes,
			})
			out := eng.Compute(in)
			text, err := engine.NextBestActionText(out)
			if err != nil {
				logger.Error("copy lookup failed", zap.Error(err))
				return
			}
			fmt.Printf("[loops>%d, break>=%dm] %s\n",
				c.Engine.OpenLoopThreshold, c.Engine.BreakAfterMinutes, text.Headline)
		}

		evaluate(cfg)

		w, err := config.Watch(configPath, logger, evaluate)
		if err != nil {
			return err
		}
		defer w.Close()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&nextInputPath, "input", "", "JSON snapshot file (\"-\" for stdin)")
	rootCmd.AddCommand(watchCmd)
}
