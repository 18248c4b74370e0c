// Package main implements the taskmanager CLI tool.
package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if isCancelled(err) {
			os.Exit(130)
		}
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "taskmanager",
	Short: "Plan and track project tasks with dependencies",
	Long: `taskmanager keeps a list of tasks for the current project in
.taskmanager/tasks.json. Tasks can be written by hand or generated with an
AI provider, and their dependencies are always kept acyclic.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColorFlag {
			os.Setenv("NO_COLOR", "1")
		}
	},
}

var (
	logLevelFlag string
	noColorFlag  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
}
