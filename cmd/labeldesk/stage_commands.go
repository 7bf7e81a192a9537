package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"labeldesk/internal/apiclient"
)

func newStageCommand(ctx *commandContext) *cobra.Command {
	stageCmd := &cobra.Command{
		Use:   "stage",
		Short: "Start, finish, block, or resume a song's stages",
	}

	for _, action := range []struct {
		name  string
		short string
		done  string
	}{
		{"start", "Start a stage for a song", "started"},
		{"finish", "Finish a stage once its checklist is complete", "finished"},
		{"block", "Mark an in-progress stage as blocked", "blocked"},
		{"resume", "Resume a blocked stage", "resumed"},
	} {
		action := action
		stageCmd.AddCommand(&cobra.Command{
			Use:   fmt.Sprintf("%s <song-id> <stage>", action.name),
			Short: action.short,
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				songID, err := parseSongID(args[0])
				if err != nil {
					return err
				}
				stage, err := parseStage(args[1])
				if err != nil {
					return err
				}
				client, err := ctx.apiClient()
				if err != nil {
					return err
				}
				status, err := client.StageAction(cmd.Context(), songID, stage, action.name)
				if err != nil {
					var statusErr *apiclient.StatusError
					// Finish can complete the stage while the follow-on
					// cascade stalls; report the stall but do not fail.
					if action.name == "finish" && errors.As(err, &statusErr) && statusErr.StatusCode == 409 {
						fmt.Fprintf(cmd.OutOrStdout(), "Stage %s %s for song %d\n", stageDisplayName(string(stage)), action.done, songID)
						fmt.Fprintf(cmd.OutOrStdout(), "Warning: %s\n", statusErr.Message)
						return nil
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stage %s %s for song %d (now %s)\n",
					stageDisplayName(status.Stage), action.done, songID, stateDisplayName(status.State))
				return nil
			},
		})
	}

	return stageCmd
}

func newAdvanceCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "advance <song-id>",
		Short: "Advance a song to its next stage",
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
			advanced, err := client.Advance(cmd.Context(), songID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Song %d advanced to %s\n", advanced.ID, stageDisplayName(advanced.CurrentStage))
			return nil
		},
	}
}
