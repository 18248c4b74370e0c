// Package paths locates taskmanager directories on disk.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ProjectDirName is the directory that marks a taskmanager project.
const ProjectDirName = ".taskmanager"

// ErrNoProject is returned when no enclosing project directory is found.
var ErrNoProject = errors.New("no .taskmanager directory found")

// HomeDir returns the user's home directory.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return home, nil
}

// GlobalConfigDir returns the directory holding the user-wide config file.
// XDG_CONFIG_HOME is honored when set.
func GlobalConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskmanager"), nil
	}
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "taskmanager"), nil
}

// FindProjectRoot walks up from start looking for a .taskmanager directory
// and returns the directory containing it.
func FindProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", start, err)
	}

	for {
		info, err := os.Stat(filepath.Join(dir, ProjectDirName))
		if err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoProject
		}
		dir = parent
	}
}
