// Package editor edits tasks as TOML documents in the user's editor.
package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// DefaultEditor is run when neither $VISUAL nor $EDITOR is set.
const DefaultEditor = "vi"

// IsInteractive reports whether both stdin and stdout are terminals, so
// a full-screen editor can take over.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Command returns the editor argv from $VISUAL or $EDITOR. Values may
// carry arguments, as in "code --wait".
func Command() []string {
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(key)); len(fields) > 0 {
			return fields
		}
	}
	return []string{DefaultEditor}
}

// Edit opens path in the editor and waits for it to exit.
func Edit(path string) error {
	argv := append(Command(), path)
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &exitErr):
		return fmt.Errorf("%s exited with status %d; task not saved", argv[0], exitErr.ExitCode())
	default:
		return fmt.Errorf("run editor %s: %w", argv[0], err)
	}
}
