package main

import (
	"fmt"

	"github.com/amonks/taskmanager/task"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <id|id.subtask> <status>",
	Short: "Set the status of a task or subtask",
	Long: `Set the status of a task or subtask.

Valid statuses are pending, in-progress, done, deferred and cancelled.
A subtask can be addressed as 7.2 or with --subtask. Marking a task done
or cancelled applies the same status to its subtasks unless --no-cascade
is given.`,
	Args: cobra.ExactArgs(2),
	RunE: runStatus,
}

var (
	statusSubtask   int
	statusNoCascade bool
)

var startCmd = &cobra.Command{
	Use:   "start <id|id.subtask>",
	Short: "Mark a task or subtask as in progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(cmd, args[0], task.StatusInProgress, 0, true)
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <id|id.subtask>",
	Short: "Mark a task or subtask as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(cmd, args[0], task.StatusDone, 0, true)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd, startCmd, doneCmd)

	statusCmd.Flags().IntVar(&statusSubtask, "subtask", 0, "Subtask ID to update")
	statusCmd.Flags().BoolVar(&statusNoCascade, "no-cascade", false, "Do not apply done/cancelled to subtasks")
}

func runStatus(cmd *cobra.Command, args []string) error {
	status, err := task.ParseStatus(args[1])
	if err != nil {
		return err
	}
	return setStatus(cmd, args[0], status, statusSubtask, !statusNoCascade)
}

func setStatus(cmd *cobra.Command, ref string, status task.Status, subtask int, cascade bool) error {
	id, sub, err := task.ParseSubtaskRef(ref)
	if err != nil {
		return err
	}
	if subtask > 0 {
		if sub > 0 && sub != subtask {
			return fmt.Errorf("conflicting subtask: %s and --subtask %d", ref, subtask)
		}
		sub = subtask
	}

	p, err := openProject()
	if err != nil {
		return err
	}
	updated, err := p.store.SetStatus(id, status, task.StatusOptions{Subtask: sub, Cascade: cascade})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if sub > 0 {
		for _, st := range updated.Subtasks {
			if st.ID == sub {
				fmt.Fprintf(out, "Subtask %s %s: %s\n", p.theme.SubtaskID(id, sub), p.theme.Status(st.Status), st.Title)
			}
		}
		return nil
	}
	fmt.Fprintf(out, "Task %s %s: %s\n", p.theme.ID(updated.ID), p.theme.Status(updated.Status), updated.Title)
	return nil
}
