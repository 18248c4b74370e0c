package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "Manage task dependencies",
}

var depAddCmd = &cobra.Command{
	Use:   "add <id> <depends-on>",
	Short: "Make a task depend on an earlier task",
	Long: `Make a task depend on an earlier task.

Dependencies must point at a task with a smaller ID. Dependencies of the
new dependency are added as well, so the list stays transitively closed.`,
	Args: cobra.ExactArgs(2),
	RunE: runDepAdd,
}

var depRemoveCmd = &cobra.Command{
	Use:     "remove <id> <depends-on>",
	Aliases: []string{"rm"},
	Short:   "Remove a dependency",
	Args:    cobra.ExactArgs(2),
	RunE:    runDepRemove,
}

var depTreeCmd = &cobra.Command{
	Use:   "tree <id>",
	Short: "Show the dependency tree of a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runDepTree,
}

var depValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Repair invalid dependencies",
	Long: `Repair invalid dependencies.

Drops dependencies on missing tasks, on the task itself, on tasks with a
larger ID and any that form a cycle, then adds implied transitive
dependencies. Prints every change.`,
	Args: cobra.NoArgs,
	RunE: runDepValidate,
}

func init() {
	rootCmd.AddCommand(depCmd)
	depCmd.AddCommand(depAddCmd, depRemoveCmd, depTreeCmd, depValidateCmd)
}

func parseDepArgs(args []string) (int, int, error) {
	id, err := parseIDArg(args[0])
	if err != nil {
		return 0, 0, err
	}
	dependsOn, err := parseIDArg(args[1])
	if err != nil {
		return 0, 0, err
	}
	return id, dependsOn, nil
}

func runDepAdd(cmd *cobra.Command, args []string) error {
	id, dependsOn, err := parseDepArgs(args)
	if err != nil {
		return err
	}
	p, err := openProject()
	if err != nil {
		return err
	}
	updated, err := p.store.DepAdd(id, dependsOn)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Task %s now depends on %s\n", p.theme.ID(id), p.theme.ID(dependsOn))
	fmt.Fprintf(cmd.OutOrStdout(), "Dependencies: %s\n", formatDeps(updated.Dependencies))
	return nil
}

func runDepRemove(cmd *cobra.Command, args []string) error {
	id, dependsOn, err := parseDepArgs(args)
	if err != nil {
		return err
	}
	p, err := openProject()
	if err != nil {
		return err
	}
	updated, err := p.store.DepRemove(id, dependsOn)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Task %s no longer depends on %s\n", p.theme.ID(id), p.theme.ID(dependsOn))
	fmt.Fprintf(cmd.OutOrStdout(), "Dependencies: %s\n", formatDeps(updated.Dependencies))
	return nil
}

func runDepTree(cmd *cobra.Command, args []string) error {
	id, err := parseIDArg(args[0])
	if err != nil {
		return err
	}
	p, err := openProject()
	if err != nil {
		return err
	}
	tree, err := p.store.DepTree(id)
	if err != nil {
		return err
	}
	printDepTree(cmd.OutOrStdout(), p.theme, tree, "", true)
	return nil
}

func runDepValidate(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	report, err := p.store.Repair()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !report.Changed() {
		fmt.Fprintln(out, "All dependencies are valid.")
		return nil
	}
	printReport(out, p, report)
	fmt.Fprintf(out, "Repaired: %d dropped, %d added\n", len(report.Dropped), len(report.Added))
	return nil
}
