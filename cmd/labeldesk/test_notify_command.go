package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"labeldesk/internal/ipc"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification via the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TestNotification()
				if err != nil {
					return err
				}
				if !resp.Sent {
					if resp.Message != "" {
						return errors.New(resp.Message)
					}
					return errors.New("notifications are not configured")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Test notification sent: %s\n", resp.Message)
				return nil
			})
		},
	}
}
