package main

import (
	"fmt"
	"os"

	"github.com/amonks/taskmanager/internal/editor"
	"github.com/amonks/taskmanager/task"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <id>...",
	Short: "Update one or more tasks",
	Long: `Update one or more tasks.

By default, opens $EDITOR to edit a TOML representation of the task
when running interactively and no update flags are provided (one editor
session per ID). Use --no-edit to skip the editor, or --edit to force
opening the editor even when not interactive.

--deps replaces the dependency list; dependencies must refer to tasks
with a smaller ID.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpdate,
}

var (
	updateTitle        string
	updateDescription  string
	updateDetails      string
	updateTestStrategy string
	updateCategory     string
	updateStatus       string
	updatePriority     string
	updateDeps         []string
	updateEdit         bool
	updateNoEdit       bool
)

var updateFlagNames = []string{"title", "description", "details", "test-strategy", "category", "status", "priority", "deps"}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringVar(&updateTitle, "title", "", "New title")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "New description (use '-' to read from stdin)")
	updateCmd.Flags().StringVar(&updateDetails, "details", "", "New implementation details")
	updateCmd.Flags().StringVar(&updateTestStrategy, "test-strategy", "", "New test strategy")
	updateCmd.Flags().StringVarP(&updateCategory, "category", "c", "", "New category")
	updateCmd.Flags().StringVarP(&updateStatus, "status", "s", "", "New status")
	updateCmd.Flags().StringVarP(&updatePriority, "priority", "p", "", "New priority (high, medium, low)")
	updateCmd.Flags().StringArrayVar(&updateDeps, "deps", nil, "New dependency list (repeatable or comma-separated)")
	updateCmd.Flags().BoolVarP(&updateEdit, "edit", "e", false, "Open $EDITOR (default if interactive)")
	updateCmd.Flags().BoolVar(&updateNoEdit, "no-edit", false, "Do not open $EDITOR")
	addDescriptionFlagAliases(updateCmd)
	addDependencyFlagAliases(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := parseIDArg(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	p, err := openProject()
	if err != nil {
		return err
	}

	hasFlags := anyChanged(cmd, updateFlagNames...)
	if shouldUseEditor(hasFlags, updateEdit, updateNoEdit, editor.IsInteractive()) {
		for _, id := range ids {
			existing, err := p.store.Get(id)
			if err != nil {
				return err
			}
			parsed, err := editor.EditTask(existing, p.defaultPriority())
			if err != nil {
				return err
			}
			updated, err := p.store.Update(id, parsed.ToUpdateOptions())
			if err != nil {
				return err
			}
			printUpdated(cmd, p, updated)
		}
		return nil
	}

	if !hasFlags {
		return fmt.Errorf("no updates given (use flags or --edit)")
	}
	opts, err := updateOptionsFromFlags(cmd)
	if err != nil {
		return err
	}
	for _, id := range ids {
		updated, err := p.store.Update(id, opts)
		if err != nil {
			return err
		}
		printUpdated(cmd, p, updated)
	}
	return nil
}

func updateOptionsFromFlags(cmd *cobra.Command) (task.UpdateOptions, error) {
	var opts task.UpdateOptions
	flags := cmd.Flags()
	if flags.Changed("title") {
		opts.Title = &updateTitle
	}
	if flags.Changed("description") {
		desc, err := resolveDescriptionFromStdin(updateDescription, os.Stdin)
		if err != nil {
			return opts, err
		}
		opts.Description = &desc
	}
	if flags.Changed("details") {
		opts.Details = &updateDetails
	}
	if flags.Changed("test-strategy") {
		opts.TestStrategy = &updateTestStrategy
	}
	if flags.Changed("category") {
		opts.Category = &updateCategory
	}
	if flags.Changed("status") {
		status, err := task.ParseStatus(updateStatus)
		if err != nil {
			return opts, err
		}
		opts.Status = &status
	}
	if flags.Changed("priority") {
		priority, err := task.ParsePriority(updatePriority)
		if err != nil {
			return opts, err
		}
		opts.Priority = &priority
	}
	if flags.Changed("deps") {
		deps, err := parseIDList(updateDeps)
		if err != nil {
			return opts, err
		}
		opts.Dependencies = &deps
	}
	return opts, nil
}

func printUpdated(cmd *cobra.Command, p *project, t *task.Task) {
	fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s: %s\n", p.theme.ID(t.ID), t.Title)
}
