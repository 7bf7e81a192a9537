package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"labeldesk/internal/ipc"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Force a validation sweep across the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Sweep()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sweep complete: %d item(s) validated\n", resp.Validated)
				return nil
			})
		},
	}
}
