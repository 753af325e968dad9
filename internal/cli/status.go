package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/oathline/oathline/internal/model"
	"github.com/oathline/oathline/internal/scoring"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show your score, active goal, and promises",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		user := e.state.User

		identity := "guest"
		if user.Email != nil {
			identity = *user.Email
		}

		fmt.Printf("Signed in as: %s\n", identity)
		fmt.Printf("Integrity:    %s\n", formatScore(user.IntegrityScore))
		if user.FailureStreak > 0 {
			fmt.Printf("Failure streak: %d (next break costs more)\n", user.FailureStreak)
		}

		streak := e.manager.Streak(time.Now(), e.app.Cfg.StreakLookbackDays)
		fmt.Printf("Work streak:  %d day(s)\n", streak)
		fmt.Println()

		if e.state.ActiveGoal == nil {
			fmt.Println("No active goal. Start one with: oath goal set \"...\"")
			return nil
		}

		fmt.Printf("Goal: %s\n", e.state.ActiveGoal.Title)

		if len(e.state.Milestones) == 0 {
			fmt.Println("  (no milestones yet)")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  #\tMILESTONE\tSTATUS\tDEADLINE")
		for _, m := range e.state.Milestones {
			deadline := "-"
			if m.Deadline != nil {
				deadline = m.Deadline.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "  %d\t%s\t%s\t%s\n", m.Number, m.Title, formatStatus(m.Status), deadline)
		}
		w.Flush()

		return nil
	},
}

func formatScore(score int) string {
	tier := scoring.Classify(score)
	label := fmt.Sprintf("%d/100 (%s)", score, tier)

	switch tier {
	case scoring.TierGold:
		return color.New(color.FgHiYellow).Sprint(label)
	case scoring.TierSilver:
		return color.New(color.FgHiWhite).Sprint(label)
	default:
		return color.New(color.FgRed).Sprint(label)
	}
}

func formatStatus(status string) string {
	switch status {
	case model.MilestoneStatusLocked:
		return color.New(color.FgHiCyan).Sprint("locked")
	case model.MilestoneStatusCompleted:
		return color.New(color.FgHiGreen).Sprint("completed")
	case model.MilestoneStatusBroken:
		return color.New(color.FgRed).Sprint("broken")
	default:
		return status
	}
}

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return statusCmd
}
