package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"labeldesk/internal/api"
)

func newSongCommand(ctx *commandContext) *cobra.Command {
	songCmd := &cobra.Command{
		Use:   "song",
		Short: "Manage songs in the catalog",
	}

	var listJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all songs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			songs, err := client.ListSongs(cmd.Context())
			if err != nil {
				return err
			}
			if listJSON {
				return writeJSON(cmd, api.SongListResponse{Songs: songs})
			}

			stdout := cmd.OutOrStdout()
			if len(songs) == 0 {
				fmt.Fprintln(stdout, "Catalog is empty")
				return nil
			}
			rows := make([][]string, 0, len(songs))
			for _, s := range songs {
				rows = append(rows, []string{
					strconv.FormatInt(s.ID, 10),
					s.Title,
					s.Artist,
					stageDisplayName(s.CurrentStage),
					fmt.Sprintf("%d%%", s.ChecklistProgress),
				})
			}
			fmt.Fprintln(stdout, renderTable(
				[]string{"ID", "Title", "Artist", "Stage", "Progress"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Emit songs as JSON")

	var addArtist string
	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a song to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			created, err := client.CreateSong(cmd.Context(), args[0], addArtist)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added song %d: %s\n", created.ID, created.Title)
			return nil
		},
	}
	addCmd.Flags().StringVar(&addArtist, "artist", "", "Artist credited on the song")

	var showJSON bool
	showCmd := &cobra.Command{
		Use:   "show <song-id>",
		Short: "Show a song with its stage timeline",
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
			detail, err := client.DescribeSong(cmd.Context(), songID)
			if err != nil {
				return err
			}
			if showJSON {
				return writeJSON(cmd, detail)
			}
			renderSongDetail(cmd, detail)
			return nil
		},
	}
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Emit song detail as JSON")

	recordingCmd := &cobra.Command{
		Use:   "recording",
		Short: "Manage a song's recordings",
	}
	recordingAddCmd := &cobra.Command{
		Use:   "add <song-id> <title>",
		Short: "Register a recording for a song",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			songID, err := parseSongID(args[0])
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			recording, err := client.AddRecording(cmd.Context(), songID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added recording %d: %s\n", recording.ID, recording.Title)
			return nil
		},
	}
	recordingCmd.AddCommand(recordingAddCmd)

	songCmd.AddCommand(listCmd, addCmd, showCmd, recordingCmd)
	return songCmd
}

func renderSongDetail(cmd *cobra.Command, detail *api.SongDetailResponse) {
	stdout := cmd.OutOrStdout()
	colorize := shouldColorize(stdout)

	title := detail.Song.Title
	if detail.Song.Artist != "" {
		title = fmt.Sprintf("%s - %s", detail.Song.Artist, detail.Song.Title)
	}
	for _, line := range renderSectionHeader(fmt.Sprintf("Song %d: %s", detail.Song.ID, title), colorize) {
		fmt.Fprintln(stdout, line)
	}
	fmt.Fprintln(stdout, renderStatusLine("Stage", statusInfo, stageDisplayName(detail.Song.CurrentStage), colorize))
	fmt.Fprintln(stdout, renderStatusLine("Progress", statusInfo, fmt.Sprintf("%d%%", detail.Song.ChecklistProgress), colorize))
	fmt.Fprintln(stdout)

	for _, status := range detail.Statuses {
		kind := statusInfo
		message := stateDisplayName(status.State)
		switch status.State {
		case "completed":
			kind = statusOK
		case "blocked":
			kind = statusError
		case "in_progress":
			kind = statusWarn
		}
		if status.Action != "" {
			message = fmt.Sprintf("%s (next: %s)", message, status.Action)
		}
		fmt.Fprintln(stdout, renderStatusLine(stageDisplayName(status.Stage), kind, message, colorize))
	}

	if len(detail.Recordings) > 0 {
		fmt.Fprintln(stdout)
		for _, line := range renderSectionHeader("Recordings", colorize) {
			fmt.Fprintln(stdout, line)
		}
		for _, recording := range detail.Recordings {
			fmt.Fprintf(stdout, "  %d: %s\n", recording.ID, recording.Title)
		}
	}
}
