package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oathline/oathline/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "oath",
		Short: "Oathline - goal tracking with promises that cost you",
		Long: `Oathline tracks one goal at a time, broken into milestones you lock
behind promises. Keeping a promise raises your integrity score; breaking
one lowers it, and repeat breaks cost more.`,
	}

	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.GoalCmd())
	rootCmd.AddCommand(cli.PromiseCmd())
	rootCmd.AddCommand(cli.DayCmd())
	rootCmd.AddCommand(cli.LedgerCmd())

	// Account
	rootCmd.AddCommand(cli.RegisterCmd())
	rootCmd.AddCommand(cli.LoginCmd())
	rootCmd.AddCommand(cli.LogoutCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
