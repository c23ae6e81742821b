package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dashctl",
	Short: "Inspect and act on dashboard link rows from the terminal.",
	Long: `dashctl renders the same link rows as the web dashboard and runs their
Open, Copy, QR and Delete actions against the configured database.

Examples:
  dashctl rows --limit=10
  dashctl act 42 copy`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(RowsCmd)
	rootCmd.AddCommand(ActCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}
