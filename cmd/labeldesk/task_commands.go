package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTaskCommand(ctx *commandContext) *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Work the tasks behind multi-unit checklist items",
	}

	openCmd := &cobra.Command{
		Use:   "open <song-id> <item-id>",
		Short: "Open a new task for a checklist item",
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
			task, err := client.OpenTask(cmd.Context(), songID, itemID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened task %s (%s)\n", task.ID, task.State)
			return nil
		},
	}

	var listJSON bool
	listCmd := &cobra.Command{
		Use:   "list <song-id> <item-id>",
		Short: "List tasks for a checklist item",
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
			tasks, err := client.ListTasks(cmd.Context(), songID, itemID)
			if err != nil {
				return err
			}
			if listJSON {
				return writeJSON(cmd, tasks)
			}

			stdout := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(stdout, "No tasks")
				return nil
			}
			rows := make([][]string, 0, len(tasks))
			for _, task := range tasks {
				rows = append(rows, []string{task.ID, task.State, task.SubmittedAt, task.CompletedAt})
			}
			fmt.Fprintln(stdout, renderTable(
				[]string{"ID", "State", "Submitted", "Completed"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Emit tasks as JSON")

	var submitPayload, submitActor string
	submitCmd := &cobra.Command{
		Use:   "submit <task-id>",
		Short: "Submit a task for review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			task, err := client.SubmitTask(cmd.Context(), args[0], submitPayload, submitActor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s is %s\n", task.ID, task.State)
			return nil
		},
	}
	submitCmd.Flags().StringVar(&submitPayload, "payload", "", "JSON payload describing the completed work")
	submitCmd.Flags().StringVar(&submitActor, "actor", "", "Person submitting the task")

	var approveActor string
	approveCmd := &cobra.Command{
		Use:   "approve <task-id>",
		Short: "Approve a submitted task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			task, err := client.ApproveTask(cmd.Context(), args[0], approveActor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s approved\n", task.ID)
			return nil
		},
	}
	approveCmd.Flags().StringVar(&approveActor, "actor", "", "Person approving the task")

	taskCmd.AddCommand(openCmd, listCmd, submitCmd, approveCmd)
	return taskCmd
}
