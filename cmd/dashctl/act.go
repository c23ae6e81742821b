package main

import (
	"fmt"

	"github.com/sifan077/linkdash/internal/app/linkrow"
	"github.com/spf13/cobra"
)

// ActCmd runs one row action.
var ActCmd = &cobra.Command{
	Use:   "act <id> <open|copy|qr|delete>",
	Short: "Run a row action for the link with the given id.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, ok := linkrow.ParseActionName(args[1])
		if !ok {
			return fmt.Errorf("%w: %s", linkrow.ErrUnknownAction, args[1])
		}

		ctx := cliContext(cmd.Context())
		e, err := newEnv(ctx, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer e.close()

		outcome, err := e.dashboard.Dispatch(ctx, args[0], name)
		if err != nil {
			return err
		}
		return renderOutcome(cmd.OutOrStdout(), outcome)
	},
}
