package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"labeldesk/internal/logs"
	"labeldesk/internal/logstream"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var lines int

	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Show daemon log output",
		RunE: func(cmd *cobra.Command, args []string) error {
			var apiTail *logs.TailClient
			if cfg := ctx.configValue(); cfg != nil {
				client, err := logs.NewTailClient(cfg.Paths.APIBind, cfg.Paths.APIToken)
				if err != nil {
					return err
				}
				apiTail = client
			}

			// IPC tailing is the fallback when the HTTP API is down; a
			// failed dial just means no fallback is available.
			var fallback logstream.TailClient
			if ipcClient, err := ctx.dialClient(); err == nil {
				defer ipcClient.Close()
				fallback = ipcClient
			}

			stdout := cmd.OutOrStdout()
			printed, err := logstream.Stream(cmd.Context(), apiTail, fallback, logstream.Options{
				Lines:  lines,
				Follow: follow,
			}, func(line string) {
				fmt.Fprintln(stdout, line)
			})
			if err != nil {
				if logs.IsAPIUnavailable(err) {
					return fmt.Errorf("daemon is not reachable; start it with `labeldesk start`")
				}
				return err
			}
			if !printed && !follow {
				fmt.Fprintln(stdout, "No log output yet")
			}
			return nil
		},
	}

	logsCmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep streaming new log lines")
	logsCmd.Flags().IntVarP(&lines, "lines", "n", 200, "Number of trailing lines to show")
	return logsCmd
}
