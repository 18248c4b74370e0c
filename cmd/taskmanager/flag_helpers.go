package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/amonks/taskmanager/task"
	"github.com/spf13/cobra"
)

// resolveDescriptionFromStdin reads the description from reader when it
// is "-".
func resolveDescriptionFromStdin(description string, reader io.Reader) (string, error) {
	if description != "-" {
		return description, nil
	}
	value, err := readAllTrimmed(reader)
	if err != nil {
		return "", fmt.Errorf("read description from stdin: %w", err)
	}
	return value, nil
}

// parseIDList parses IDs given as repeated flags or comma-separated values.
func parseIDList(values []string) ([]int, error) {
	ids := []int{}
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := task.ParseID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// parseIDArg parses a single task ID argument.
func parseIDArg(arg string) (int, error) {
	return task.ParseID(arg)
}

// anyChanged reports whether any of the named flags was set.
func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// shouldUseEditor decides whether to open $EDITOR:
// --edit forces it, --no-edit skips it, other flags skip it, and
// otherwise it opens when interactive.
func shouldUseEditor(hasFlags, editFlag, noEditFlag, interactive bool) bool {
	if editFlag {
		return true
	}
	if noEditFlag {
		return false
	}
	if hasFlags {
		return false
	}
	return interactive
}
