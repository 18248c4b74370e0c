package main

import (
	"fmt"
	"os"

	"github.com/amonks/taskmanager/task"
	"github.com/spf13/cobra"
)

var subtaskCmd = &cobra.Command{
	Use:   "subtask",
	Short: "Manage subtasks",
}

var subtaskAddCmd = &cobra.Command{
	Use:   "add <id> <title>",
	Short: "Add a subtask to a task",
	Args:  cobra.ExactArgs(2),
	RunE:  runSubtaskAdd,
}

var subtaskAddDescription string

func init() {
	rootCmd.AddCommand(subtaskCmd)
	subtaskCmd.AddCommand(subtaskAddCmd)

	subtaskAddCmd.Flags().StringVarP(&subtaskAddDescription, "description", "d", "", "Description (use '-' to read from stdin)")
	addDescriptionFlagAliases(subtaskAddCmd)
}

func runSubtaskAdd(cmd *cobra.Command, args []string) error {
	id, err := parseIDArg(args[0])
	if err != nil {
		return err
	}
	description, err := resolveDescriptionFromStdin(subtaskAddDescription, os.Stdin)
	if err != nil {
		return err
	}

	p, err := openProject()
	if err != nil {
		return err
	}
	st, err := p.store.AddSubtask(id, task.SubtaskInput{Title: args[1], Description: description})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created subtask %s: %s\n", p.theme.SubtaskID(id, st.ID), st.Title)
	return nil
}
