package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/oathline/oathline/internal/model"
	"github.com/spf13/cobra"
)

var promiseCmd = &cobra.Command{
	Use:   "promise",
	Short: "Manage milestones and the promises that lock them",
}

var promiseAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a milestone to the active goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		milestone, err := e.app.MilestoneService.Create(e.userID(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("✓ Milestone %d added: %s\n", milestone.Number, milestone.Title)
		return nil
	},
}

var promiseRenameCmd = &cobra.Command{
	Use:   "rename [number] [title]",
	Short: "Rename a pending milestone",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		milestone, err := milestoneByNumber(e, args[0])
		if err != nil {
			return err
		}

		err = e.app.MilestoneService.Rename(e.userID(), milestone.ID, args[1])
		if err != nil {
			return err
		}

		fmt.Printf("✓ Milestone %d renamed\n", milestone.Number)
		return nil
	},
}

var promiseRemoveCmd = &cobra.Command{
	Use:   "remove [number]",
	Short: "Remove a pending milestone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		milestone, err := milestoneByNumber(e, args[0])
		if err != nil {
			return err
		}

		err = e.app.MilestoneService.Delete(e.userID(), milestone.ID)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Milestone removed; remaining milestones renumbered\n")
		return nil
	},
}

var promiseLockCmd = &cobra.Command{
	Use:   "lock [number]",
	Short: "Lock a milestone behind a promise with a deadline and consequence",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		promiseText, _ := cmd.Flags().GetString("promise")
		deadlineStr, _ := cmd.Flags().GetString("deadline")
		consequence, _ := cmd.Flags().GetString("consequence")

		if promiseText == "" || deadlineStr == "" || consequence == "" {
			return fmt.Errorf("a promise needs --promise, --deadline, and --consequence")
		}

		deadline, err := parseDeadline(deadlineStr)
		if err != nil {
			return err
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		milestone, err := milestoneByNumber(e, args[0])
		if err != nil {
			return err
		}

		locked, err := e.app.MilestoneService.Lock(e.userID(), milestone.ID, promiseText, deadline, consequence)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Milestone %d locked until %s\n", locked.Number, deadline.Format("2006-01-02 15:04"))
		if locked.ShareToken != nil {
			fmt.Printf("  Share: %s/s/%s\n", e.app.Cfg.AppURL, *locked.ShareToken)
		}
		return nil
	},
}

var promiseKeepCmd = &cobra.Command{
	Use:   "keep [number]",
	Short: "Mark a locked promise as kept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		milestone, err := milestoneByNumber(e, args[0])
		if err != nil {
			return err
		}

		result, err := e.app.MilestoneService.Complete(e.userID(), milestone.ID, force)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Promise kept: %s\n", milestone.Title)
		fmt.Printf("  Integrity: %s (%+d)\n", formatScore(result.User.IntegrityScore), result.Record.Change)
		printTierChange(result)
		return nil
	},
}

var promiseBreakCmd = &cobra.Command{
	Use:   "break [number]",
	Short: "Admit a locked promise was broken",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reason, _ := cmd.Flags().GetString("reason")
		if reason == "" {
			return fmt.Errorf("breaking a promise requires a written reason\nHint: use --reason")
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		milestone, err := milestoneByNumber(e, args[0])
		if err != nil {
			return err
		}

		result, err := e.app.MilestoneService.Break(e.userID(), milestone.ID, reason)
		if err != nil {
			return err
		}

		fmt.Printf("Promise broken: %s\n", milestone.Title)
		fmt.Printf("  Integrity: %s (%+d)\n", formatScore(result.User.IntegrityScore), result.Record.Change)
		printTierChange(result)
		return nil
	},
}

// milestoneByNumber resolves a 1-based milestone number within the active
// goal. Numbers are what the status view shows, so they are the CLI handle.
func milestoneByNumber(e *env, arg string) (*model.Milestone, error) {
	number, err := strconv.Atoi(arg)
	if err != nil || number < 1 {
		return nil, fmt.Errorf("invalid milestone number: %s", arg)
	}

	_, milestones, err := e.app.GoalService.Active(e.userID())
	if err != nil {
		return nil, err
	}

	for _, m := range milestones {
		if m.Number == number {
			return m, nil
		}
	}
	return nil, fmt.Errorf("no milestone %d in the active goal", number)
}

// parseDeadline accepts a date or a date with time, interpreted locally.
// A bare date means end of that day.
func parseDeadline(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	if err == nil {
		return t, nil
	}

	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid deadline %q, want YYYY-MM-DD or YYYY-MM-DD HH:MM", s)
	}
	return d.Add(24*time.Hour - time.Minute), nil
}

func init() {
	promiseLockCmd.Flags().StringP("promise", "p", "", "The promise text")
	promiseLockCmd.Flags().StringP("deadline", "d", "", "Deadline (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	promiseLockCmd.Flags().StringP("consequence", "c", "", "What happens if you break it")

	promiseKeepCmd.Flags().BoolP("force", "f", false, "Complete even though the deadline has passed")

	promiseBreakCmd.Flags().StringP("reason", "r", "", "Why the promise was broken")

	promiseCmd.AddCommand(promiseAddCmd)
	promiseCmd.AddCommand(promiseRenameCmd)
	promiseCmd.AddCommand(promiseRemoveCmd)
	promiseCmd.AddCommand(promiseLockCmd)
	promiseCmd.AddCommand(promiseKeepCmd)
	promiseCmd.AddCommand(promiseBreakCmd)
}

// PromiseCmd returns the promise command
func PromiseCmd() *cobra.Command {
	return promiseCmd
}
