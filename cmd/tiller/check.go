package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tiller/internal/gate"
	"tiller/internal/store"
	"tiller/internal/types"
)

var (
	checkRole   string
	checkAsJSON bool
)

var checkCmd = &cobra.Command{
	Use:   "check <action>",
	Short: "Ask the execution gate whether an action may proceed",
	Long: `Runs one action type through the role-based execution gate and prints the
verdict. The role comes from --role, or from the profile database when --db
is set. Known actions: send_message, auto_reply, create_task, update_task,
delete_task, archive_item, schedule_event, draft_reply, start_focus_session,
claim_reward, spend_tokens.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		action := types.ActionType(args[0])
		policy := gate.ParseUnresolvedPolicy(cfg.Gate.UnresolvedRolePolicy)

		var roles gate.RoleSource
		var db *store.DB
		if dbPath != "" {
			var err error
			db, err = store.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			roles = db.Profiles(userID)
		} else {
			roles = gate.StaticRole(types.ParseAssistantRole(checkRole))
		}

		g := gate.New(roles, policy)
		verdict, err := g.CheckAction(cmd.Context(), action)
		if err != nil {
			return err
		}

		if db != nil {
			if err := db.Audit(userID).RecordVerdict(cmd.Context(), action, verdict); err != nil {
				return err
			}
		}

		if checkAsJSON {
			return printJSON(verdict)
		}

		switch {
		case !verdict.Allowed:
			fmt.Println("blocked:", verdict.BlockedReason)
			fmt.Println("instead:", verdict.Suggestion)
		case verdict.RequiresConfirmation:
			fmt.Println("allowed, with your confirmation")
		default:
			fmt.Println("allowed")
		}
		return nil
	},
}

var roleCmd = &cobra.Command{
	Use:   "role [analyst|operator]",
	Short: "Show or set the stored assistant role",
	Long: `With no argument, prints the role stored for --user. With an argument,
commits a role change; the gate observes it on the very next check.
Requires --db.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if dbPath == "" {
			return fmt.Errorf("role storage requires --db")
		}
		db, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		profiles := db.Profiles(userID)

		if len(args) == 0 {
			role, resolved, err := profiles.CurrentRole(cmd.Context())
			if err != nil {
				return err
			}
			if !resolved {
				fmt.Println("no role stored (unresolved)")
				return nil
			}
			fmt.Println(role)
			return nil
		}

		role := types.ParseAssistantRole(args[0])
		if string(role) != args[0] {
			return fmt.Errorf("unknown role %q (analyst or operator)", args[0])
		}
		if err := profiles.SetRole(cmd.Context(), role); err != nil {
			return err
		}
		fmt.Printf("role for %s is now %s\n", userID, role)
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkRole, "role", "analyst", "assistant role when no --db is given")
	checkCmd.Flags().BoolVar(&checkAsJSON, "json", false, "machine-readable output")
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(roleCmd)
}
