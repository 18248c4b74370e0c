package main

import (
	"fmt"

	"github.com/amonks/taskmanager/internal/prompt"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a task",
	Long: `Remove a task.

The task is also removed from the dependency lists of other tasks. Asks
for confirmation when running interactively unless --yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

var removeYes bool

func init() {
	rootCmd.AddCommand(removeCmd)
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "Do not ask for confirmation")
}

func runRemove(cmd *cobra.Command, args []string) error {
	id, err := parseIDArg(args[0])
	if err != nil {
		return err
	}
	p, err := openProject()
	if err != nil {
		return err
	}
	t, err := p.store.Get(id)
	if err != nil {
		return err
	}

	if !removeYes && interactive() {
		ok, err := prompt.New().Confirm(fmt.Sprintf("Remove task #%d %q?", t.ID, t.Title))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	removed, err := p.store.Remove(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s: %s\n", p.theme.ID(removed.ID), removed.Title)
	return nil
}
