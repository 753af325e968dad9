package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/oathline/oathline/internal/service"
	"github.com/spf13/cobra"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage your active goal",
}

var goalSetCmd = &cobra.Command{
	Use:   "set [title]",
	Short: "Start a new goal, replacing the current one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		goal, err := e.app.GoalService.Create(e.userID(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("✓ Goal set: %s\n", goal.Title)
		return nil
	},
}

var goalCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Complete the active goal and archive it",
	RunE: func(cmd *cobra.Command, args []string) error {
		reflection, _ := cmd.Flags().GetString("reflection")
		if reflection == "" {
			return fmt.Errorf("a reflection is required: what did this goal teach you?\nHint: use --reflection")
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		goal, result, err := e.app.GoalService.Complete(e.userID(), reflection)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Goal completed: %s\n", goal.Title)
		if goal.SuccessRate != nil {
			fmt.Printf("  Success rate: %d%%\n", *goal.SuccessRate)
		}
		fmt.Printf("  Integrity: %s\n", formatScore(result.User.IntegrityScore))
		printTierChange(result)
		return nil
	},
}

var goalHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		goals, err := e.app.GoalService.Completed(e.userID())
		if err != nil {
			return err
		}

		if len(goals) == 0 {
			fmt.Println("No completed goals yet")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "COMPLETED\tGOAL\tSUCCESS\tFINAL SCORE")
		for _, g := range goals {
			completed := "-"
			if g.CompletedAt != nil {
				completed = g.CompletedAt.Format("2006-01-02")
			}
			success := "-"
			if g.SuccessRate != nil {
				success = fmt.Sprintf("%d%%", *g.SuccessRate)
			}
			finalScore := "-"
			if g.FinalScore != nil {
				finalScore = fmt.Sprintf("%d", *g.FinalScore)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", completed, g.Title, success, finalScore)
		}
		w.Flush()
		return nil
	},
}

func init() {
	goalCompleteCmd.Flags().StringP("reflection", "r", "", "What did this goal teach you?")

	goalCmd.AddCommand(goalSetCmd)
	goalCmd.AddCommand(goalCompleteCmd)
	goalCmd.AddCommand(goalHistoryCmd)
}

// printTierChange announces a tier boundary crossing, if one happened.
func printTierChange(result *service.ApplyResult) {
	if result.TierChange == nil {
		return
	}
	if result.TierChange.Up {
		fmt.Printf("  %s %s → %s\n",
			color.New(color.FgHiGreen).Sprint("Tier up!"),
			result.TierChange.OldTier, result.TierChange.NewTier)
		return
	}
	fmt.Printf("  %s %s → %s\n",
		color.New(color.FgRed).Sprint("Tier down."),
		result.TierChange.OldTier, result.TierChange.NewTier)
}

// GoalCmd returns the goal command
func GoalCmd() *cobra.Command {
	return goalCmd
}
