package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tiller/internal/config"
	"tiller/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool
	dbPath     string
	userID     string

	// Loaded configuration and logger, available to every subcommand.
	cfg    config.Config
	logger *zap.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "tiller",
	Short: "tiller - one next action, nothing else",
	Long: `tiller is the decision core of a personal-productivity assistant.

It ingests counts describing your current situation (open loops, urgent
messages, calendar conflicts, focus state, trust violations) and computes a
single next-best-action recommendation. A cognitive-load guardrail filters
what the assistant is allowed to say, and a role-based execution gate decides
what it is allowed to do.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
			cfg.Logging.Format = "console"
		}
		logger, err = logging.New(cfg.Logging)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "tiller.yaml", "path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to the console")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the profile/audit database (optional)")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "default", "user the profile and audit records belong to")
}
