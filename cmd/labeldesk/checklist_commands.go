package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"labeldesk/internal/api"
	"labeldesk/internal/song"
)

func newChecklistCommand(ctx *commandContext) *cobra.Command {
	checklistCmd := &cobra.Command{
		Use:   "checklist",
		Short: "View and work a song's stage checklists",
	}

	var viewStage string
	var viewJSON bool
	viewCmd := &cobra.Command{
		Use:   "view <song-id>",
		Short: "Show the checklist for a song's current or given stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			songID, err := parseSongID(args[0])
			if err != nil {
				return err
			}
			var stage song.Stage
			if viewStage != "" {
				stage, err = parseStage(viewStage)
				if err != nil {
					return err
				}
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			checklist, err := client.Checklist(cmd.Context(), songID, stage)
			if err != nil {
				return err
			}
			if viewJSON {
				return writeJSON(cmd, checklist)
			}
			renderChecklist(cmd, checklist)
			return nil
		},
	}
	viewCmd.Flags().StringVar(&viewStage, "stage", "", "Stage to show instead of the song's current stage")
	viewCmd.Flags().BoolVar(&viewJSON, "json", false, "Emit checklist as JSON")

	var toggleActor string
	toggleCmd := &cobra.Command{
		Use:   "toggle <song-id> <item-id>",
		Short: "Toggle a manual checklist item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			songID, itemID, err := parseSongAndItem(args)
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			item, err := client.ToggleItem(cmd.Context(), songID, itemID, toggleActor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", checkmark(item.IsComplete), item.Description)
			return nil
		},
	}
	toggleCmd.Flags().StringVar(&toggleActor, "actor", "", "Person performing the change")

	assignCmd := &cobra.Command{
		Use:   "assign <song-id> <item-id> <assignee>",
		Short: "Assign a checklist item to a person",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			songID, itemID, err := parseSongAndItem(args)
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			item, err := client.AssignItem(cmd.Context(), songID, itemID, args[2])
			if err != nil {
				return err
			}
			if item.AssignedTo == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared assignment on %q\n", item.Description)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Assigned %q to %s\n", item.Description, item.AssignedTo)
			}
			return nil
		},
	}

	var assetActor string
	assetCmd := &cobra.Command{
		Use:   "asset <song-id> <item-id> <url>",
		Short: "Attach an asset URL to an automated checklist item",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			songID, itemID, err := parseSongAndItem(args)
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			item, err := client.SetItemAsset(cmd.Context(), songID, itemID, args[2], assetActor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Attached asset to %q\n", item.Description)
			return nil
		},
	}
	assetCmd.Flags().StringVar(&assetActor, "actor", "", "Person attaching the asset")

	validateCmd := &cobra.Command{
		Use:   "validate <song-id>",
		Short: "Run automated validation for a song's checklist items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			songID, err := parseSongID(args[0])
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			validated, err := client.Validate(cmd.Context(), songID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Validated %d item(s)\n", validated)
			return nil
		},
	}

	checklistCmd.AddCommand(viewCmd, toggleCmd, assignCmd, assetCmd, validateCmd)
	return checklistCmd
}

func parseSongAndItem(args []string) (int64, int64, error) {
	songID, err := parseSongID(args[0])
	if err != nil {
		return 0, 0, err
	}
	itemID, err := parseItemID(args[1])
	if err != nil {
		return 0, 0, err
	}
	return songID, itemID, nil
}

func renderChecklist(cmd *cobra.Command, checklist *api.StageChecklist) {
	stdout := cmd.OutOrStdout()
	colorize := shouldColorize(stdout)

	header := fmt.Sprintf("%s Checklist (%d%%)", stageDisplayName(checklist.Stage), checklist.StagePercent)
	for _, line := range renderSectionHeader(header, colorize) {
		fmt.Fprintln(stdout, line)
	}

	for _, category := range checklist.Categories {
		printCategory(stdout, category, "")
	}
	for _, recording := range checklist.Recordings {
		title := recording.RecordingTitle
		if title == "" {
			title = fmt.Sprintf("Recording %d", recording.RecordingID)
		}
		fmt.Fprintf(stdout, "\n%s (%d%%)\n", title, recording.Percent)
		for _, category := range recording.Categories {
			printCategory(stdout, category, "  ")
		}
	}

	if len(checklist.Carryover) > 0 {
		fmt.Fprintln(stdout)
		for _, line := range renderSectionHeader("Carryover", colorize) {
			fmt.Fprintln(stdout, line)
		}
		for _, group := range checklist.Carryover {
			fmt.Fprintf(stdout, "%s:\n", stageDisplayName(group.Stage))
			for _, item := range group.Items {
				fmt.Fprintf(stdout, "  [ ] %d: %s\n", item.ID, item.Description)
			}
		}
	}

	if checklist.TerminalAction != "" {
		fmt.Fprintf(stdout, "\nNext: labeldesk stage %s\n", checklist.TerminalAction)
	}
}

func printCategory(stdout io.Writer, category api.CategoryGroup, indent string) {
	if category.Category != "" {
		fmt.Fprintf(stdout, "%s%s (%d%%)\n", indent, category.Category, category.Percent)
	}
	for _, item := range category.Items {
		fmt.Fprintf(stdout, "%s  [%s] %d: %s%s\n", indent, checkmark(item.IsComplete), item.ID, item.Description, itemSuffix(item))
	}
}

func itemSuffix(item api.ChecklistItem) string {
	var parts []string
	if item.Quantity > 1 {
		parts = append(parts, fmt.Sprintf("%d/%d", item.CompletedCount, item.Quantity))
	}
	if item.PendingReviewCount > 0 {
		parts = append(parts, fmt.Sprintf("%d awaiting review", item.PendingReviewCount))
	}
	if item.AssignedTo != "" {
		parts = append(parts, "assigned: "+item.AssignedTo)
	}
	if item.ValidationType == "auto" && !item.IsComplete {
		if item.AssetURL == "" {
			parts = append(parts, "needs asset")
		} else {
			parts = append(parts, "awaiting validation")
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
