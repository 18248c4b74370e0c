package main

import (
	"fmt"
	"path/filepath"

	"github.com/amonks/taskmanager/internal/prd"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Export a PRD document for every task",
	Long: `Export a PRD document for every task.

Writes .taskmanager/prd/task-<id>.md for each task. Each file starts with
YAML front matter describing the task, followed by a markdown product
requirements document.`,
	Args: cobra.NoArgs,
	RunE: runParse,
}

var parseOutput string

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "Output directory (default .taskmanager/prd)")
}

func runParse(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	doc, err := p.store.Load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(doc.Tasks) == 0 {
		fmt.Fprintln(out, "No tasks to export.")
		return nil
	}

	dir := parseOutput
	if dir == "" {
		dir = filepath.Join(p.store.Dir(), prd.DirName)
	}
	written, err := prd.WriteAll(dir, doc.Tasks, prd.Project{
		Name:         p.cfg.Project.Name,
		Technologies: p.cfg.Project.Technologies,
	})
	if err != nil {
		return err
	}
	for _, path := range written {
		if rel, err := filepath.Rel(p.dir, path); err == nil {
			path = rel
		}
		fmt.Fprintf(out, "Wrote %s\n", path)
	}
	p.logger.Info("exported PRDs", "count", len(written), "dir", dir)
	return nil
}
