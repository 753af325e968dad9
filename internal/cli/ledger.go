package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Show the integrity score history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		records, err := e.app.IntegrityService.History(e.userID(), limit)
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println("No integrity events yet")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tEVENT\tCHANGE\tSCORE")
		for _, rec := range records {
			change := fmt.Sprintf("%+d", rec.Change)
			if rec.Change > 0 {
				change = color.New(color.FgHiGreen).Sprint(change)
			} else if rec.Change < 0 {
				change = color.New(color.FgRed).Sprint(change)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d → %d\n",
				rec.CreatedAt.Format("2006-01-02 15:04"),
				rec.Reason,
				change,
				rec.PreviousScore,
				rec.NewScore,
			)
		}
		w.Flush()
		return nil
	},
}

func init() {
	ledgerCmd.Flags().IntP("limit", "n", 20, "Maximum number of events to show")
}

// LedgerCmd returns the ledger command
func LedgerCmd() *cobra.Command {
	return ledgerCmd
}
