package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Log work days and track your streak",
}

var dayLogCmd = &cobra.Command{
	Use:   "log [date]",
	Short: "Record whether you worked on a day (defaults to today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		skipped, _ := cmd.Flags().GetBool("skipped")
		journal, _ := cmd.Flags().GetString("journal")

		date := time.Now().Format("2006-01-02")
		if len(args) == 1 {
			date = args[0]
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		worked := !skipped
		err = e.manager.SetCalendarEntry(date, &worked, journal)
		if err != nil {
			return err
		}

		if worked {
			fmt.Printf("✓ %s logged as worked\n", date)
		} else {
			fmt.Printf("%s logged as skipped\n", date)
		}

		streak := e.manager.Streak(time.Now(), e.app.Cfg.StreakLookbackDays)
		fmt.Printf("  Streak: %d day(s)\n", streak)
		return nil
	},
}

var dayStreakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the current consecutive-day streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		streak := e.manager.Streak(time.Now(), e.app.Cfg.StreakLookbackDays)
		fmt.Printf("Streak: %d day(s)\n", streak)
		return nil
	},
}

func init() {
	dayLogCmd.Flags().Bool("skipped", false, "Mark the day as not worked")
	dayLogCmd.Flags().StringP("journal", "j", "", "Journal entry for the day")

	dayCmd.AddCommand(dayLogCmd)
	dayCmd.AddCommand(dayStreakCmd)
}

// DayCmd returns the day command
func DayCmd() *cobra.Command {
	return dayCmd
}
