package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"labeldesk/internal/daemonctl"
	"labeldesk/internal/ipc"
	"labeldesk/internal/song"
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the labeldesk daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			result, err := daemonctl.EnsureStarted(
				ctx.socketPath(),
				exe,
				daemonLaunchOptions(ctx),
				10*time.Second,
			)
			if err != nil {
				return err
			}

			if result.Launched {
				fmt.Fprintln(stdout, "Daemon not running, launching...")
			}

			switch result.State {
			case daemonctl.StartStateStarted:
				fmt.Fprintln(stdout, "Daemon started")
			case daemonctl.StartStateAlreadyRunning:
				fmt.Fprintln(stdout, "Daemon already running")
			}
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the labeldesk daemon (completely terminates the process)",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			result, err := daemonctl.StopAndTerminate(ctx.socketPath(), ctx.configValue(), 5*time.Second)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if !result.StopAcknowledged {
				fmt.Fprintln(stdout, "Stop request sent")
			} else {
				fmt.Fprintln(stdout, "Stopping daemon workflow...")
			}
			if result.ForcedKill && result.PID > 0 {
				fmt.Fprintf(stdout, "Stopping daemon process (pid %d)...\n", result.PID)
			}
			fmt.Fprintln(stdout, "Daemon stopped")
			return nil
		},
	}

	restartCmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart the labeldesk daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			result, err := daemonctl.Restart(
				ctx.socketPath(),
				ctx.configValue(),
				exe,
				daemonLaunchOptions(ctx),
				5*time.Second,
				10*time.Second,
			)
			if err != nil {
				return err
			}

			if result.WasRunning {
				if result.Stop.ForcedKill && result.Stop.PID > 0 {
					fmt.Fprintf(stdout, "Stopping daemon process (pid %d)...\n", result.Stop.PID)
				}
				fmt.Fprintln(stdout, "Daemon stopped")
			}
			fmt.Fprintln(stdout, "Daemon restarted")
			return nil
		},
	}

	var statusJSON bool
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and catalog status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			statusResp, err := daemonctl.BuildStatusSnapshot(cmd.Context(), ctx.socketPath(), cfg)
			if err != nil {
				return err
			}
			if statusJSON {
				return writeJSON(cmd, statusResp)
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			for _, line := range renderSectionHeader("System Status", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range buildSystemLines(statusResp, cfg != nil && strings.TrimSpace(cfg.Notifications.NtfyTopic) != "", cfg != nil && cfg.Distributor.Enabled) {
				fmt.Fprintln(stdout, renderStatusLine(line.label, line.kind, line.detail, colorize))
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Songs by Stage", colorize) {
				fmt.Fprintln(stdout, line)
			}
			rows := buildStageStatRows(statusResp.SongStats)
			if len(rows) == 0 {
				fmt.Fprintln(stdout, "Catalog is empty")
				return nil
			}
			table := renderTable([]string{"Stage", "Songs"}, rows, []columnAlignment{alignLeft, alignRight})
			fmt.Fprintln(stdout, table)
			return nil
		},
	}
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Emit status as JSON")

	return []*cobra.Command{startCmd, stopCmd, restartCmd, statusCmd}
}

type systemLine struct {
	label  string
	kind   statusKind
	detail string
}

func buildSystemLines(status *ipc.StatusResponse, notifyConfigured, distributorEnabled bool) []systemLine {
	lines := make([]systemLine, 0, 5)
	if status.Running {
		lines = append(lines, systemLine{"Labeldesk", statusOK, "Running"})
		if status.LastError != "" {
			lines = append(lines, systemLine{"Workflow", statusWarn, status.LastError})
		} else if status.LastSweep != "" {
			lines = append(lines, systemLine{"Workflow", statusOK, fmt.Sprintf("Last sweep %s (%d items validated)", status.LastSweep, status.LastValidated)})
		} else {
			lines = append(lines, systemLine{"Workflow", statusInfo, "No sweep completed yet"})
		}
	} else {
		lines = append(lines, systemLine{"Labeldesk", statusWarn, "Not running (run `labeldesk start`)"})
	}

	if notifyConfigured {
		lines = append(lines, systemLine{"Notifications", statusOK, "Configured"})
	} else {
		lines = append(lines, systemLine{"Notifications", statusWarn, "Not configured"})
	}
	if distributorEnabled {
		lines = append(lines, systemLine{"Distributor", statusOK, "Enabled"})
	} else {
		lines = append(lines, systemLine{"Distributor", statusInfo, "Disabled"})
	}
	if status.DBPath != "" {
		lines = append(lines, systemLine{"Database", statusInfo, status.DBPath})
	}
	return lines
}

// buildStageStatRows orders stage counts canonically, appending unknown
// stages alphabetically at the end.
func buildStageStatRows(stats map[string]int) [][]string {
	if len(stats) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(stats))
	rows := make([][]string, 0, len(stats))
	for _, stage := range song.StageOrder() {
		if count, ok := stats[string(stage)]; ok {
			rows = append(rows, []string{stageDisplayName(string(stage)), strconv.Itoa(count)})
			seen[string(stage)] = true
		}
	}

	var extras []string
	for name := range stats {
		if !seen[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		rows = append(rows, []string{stageDisplayName(name), strconv.Itoa(stats[name])})
	}
	return rows
}

func daemonExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	// The daemon ships as a sibling binary to the CLI.
	return filepath.Join(filepath.Dir(exe), "labeldeskd"), nil
}

func daemonLaunchOptions(ctx *commandContext) daemonctl.LaunchOptions {
	opts := daemonctl.LaunchOptions{}
	if ctx.configFlag != nil {
		if config := strings.TrimSpace(*ctx.configFlag); config != "" {
			opts.ConfigPath = config
		}
	}
	return opts
}
