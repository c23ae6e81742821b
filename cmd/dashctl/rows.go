package main

import (
	"github.com/spf13/cobra"
)

var (
	rowsLimit  int
	rowsOffset int
)

// RowsCmd prints one page of dashboard rows.
var RowsCmd = &cobra.Command{
	Use:   "rows",
	Short: "List dashboard rows with their display fields and actions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cliContext(cmd.Context())
		e, err := newEnv(ctx, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer e.close()

		rows, err := e.dashboard.Rows(ctx, rowsLimit, rowsOffset)
		if err != nil {
			return err
		}
		return renderRows(cmd.OutOrStdout(), rows)
	},
}

func init() {
	RowsCmd.Flags().IntVar(&rowsLimit, "limit", 20, "maximum number of rows")
	RowsCmd.Flags().IntVar(&rowsOffset, "offset", 0, "rows to skip")
}
