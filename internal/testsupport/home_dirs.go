package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// EnsureHomeDirs creates the global config directory under homeDir.
func EnsureHomeDirs(homeDir string) error {
	if err := os.MkdirAll(filepath.Join(homeDir, ".config", "taskmanager"), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return nil
}

// SetupTestHome creates a temp home directory, ensures the config dir, and
// points HOME at it. AI and log variables from the outer environment are
// cleared so tests don't reach real providers.
func SetupTestHome(t testing.TB) string {
	t.Helper()

	homeDir := t.TempDir()
	if err := EnsureHomeDirs(homeDir); err != nil {
		t.Fatalf("setup home dir: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("XDG_CONFIG_HOME", "")
	for _, key := range ScrubbedEnv {
		t.Setenv(key, "")
	}
	return homeDir
}

// ScrubbedEnv lists variables cleared for tests.
var ScrubbedEnv = []string{
	"AI_ENABLED",
	"AI_PROVIDER",
	"AI_MODEL",
	"OPENAI_API_KEY",
	"ANTHROPIC_API_KEY",
	"HUGGINGFACE_API_KEY",
	"PERPLEXITY_API_KEY",
	"TASKMANAGER_LOG_LEVEL",
}
