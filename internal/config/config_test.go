package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amonks/taskmanager/internal/config"
	"github.com/amonks/taskmanager/internal/testsupport"
)

func writeProjectConfig(t *testing.T, projectDir, content string) {
	t.Helper()
	path := config.ProjectPath(projectDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func writeGlobalConfig(t *testing.T, content string) {
	t.Helper()
	path, err := config.GlobalPath()
	if err != nil {
		t.Fatalf("global path: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create global config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write global config: %v", err)
	}
}

func TestLoad_NotFound(t *testing.T) {
	testsupport.SetupTestHome(t)

	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	if cfg.Tasks.DefaultPriority != "medium" {
		t.Errorf("DefaultPriority = %q, expected %q", cfg.Tasks.DefaultPriority, "medium")
	}
	if cfg.Tasks.DefaultSubtasks != 3 {
		t.Errorf("DefaultSubtasks = %d, expected 3", cfg.Tasks.DefaultSubtasks)
	}
	if !cfg.Display.ShowDependencies || !cfg.Display.ShowSubtasks {
		t.Error("expected display defaults to be on")
	}
	if cfg.AI.Enabled {
		t.Error("expected AI disabled by default")
	}
}

func TestLoad_Full(t *testing.T) {
	testsupport.SetupTestHome(t)
	projectDir := t.TempDir()

	writeProjectConfig(t, projectDir, `
[project]
name = "shop"
type = "new"
technologies = ["go", "react"]

[tasks]
default-priority = "HIGH"
default-subtasks = 5

[ai]
enabled = true
provider = "Anthropic"

[display]
show-subtasks = false

[log]
level = "debug"
`)

	cfg, err := config.Load(projectDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Project.Name != "shop" {
		t.Errorf("Project.Name = %q, expected %q", cfg.Project.Name, "shop")
	}
	if len(cfg.Project.Technologies) != 2 {
		t.Errorf("expected 2 technologies, got %v", cfg.Project.Technologies)
	}
	if cfg.Tasks.DefaultPriority != "high" {
		t.Errorf("DefaultPriority = %q, expected %q", cfg.Tasks.DefaultPriority, "high")
	}
	if cfg.Tasks.DefaultSubtasks != 5 {
		t.Errorf("DefaultSubtasks = %d, expected 5", cfg.Tasks.DefaultSubtasks)
	}
	if !cfg.AI.Enabled || cfg.AI.Provider != "anthropic" {
		t.Errorf("AI = %+v, expected enabled anthropic", cfg.AI)
	}
	if cfg.Display.ShowSubtasks {
		t.Error("expected ShowSubtasks false")
	}
	if !cfg.Display.ShowDependencies {
		t.Error("expected ShowDependencies to keep its default")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, expected %q", cfg.Log.Level, "debug")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	testsupport.SetupTestHome(t)
	projectDir := t.TempDir()
	writeProjectConfig(t, projectDir, "[tasks\n")

	if _, err := config.Load(projectDir); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestLoad_UsesGlobalWhenProjectMissing(t *testing.T) {
	testsupport.SetupTestHome(t)
	writeGlobalConfig(t, `
[ai]
provider = "openai"
model = "gpt-4o-mini"
`)

	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.AI.Provider != "openai" || cfg.AI.Model != "gpt-4o-mini" {
		t.Errorf("AI = %+v, expected global values", cfg.AI)
	}
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	testsupport.SetupTestHome(t)
	writeGlobalConfig(t, `
[ai]
provider = "openai"
model = "gpt-4o"

[tasks]
default-subtasks = 4
`)
	projectDir := t.TempDir()
	writeProjectConfig(t, projectDir, `
[ai]
provider = "huggingface"
`)

	cfg, err := config.Load(projectDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.AI.Provider != "huggingface" {
		t.Errorf("Provider = %q, expected project value", cfg.AI.Provider)
	}
	if cfg.AI.Model != "gpt-4o" {
		t.Errorf("Model = %q, expected global value", cfg.AI.Model)
	}
	if cfg.Tasks.DefaultSubtasks != 4 {
		t.Errorf("DefaultSubtasks = %d, expected global value 4", cfg.Tasks.DefaultSubtasks)
	}
}

func TestLoad_ProjectEmptyOverridesGlobal(t *testing.T) {
	testsupport.SetupTestHome(t)
	writeGlobalConfig(t, `
[ai]
model = "gpt-4o"
`)
	projectDir := t.TempDir()
	writeProjectConfig(t, projectDir, `
[ai]
model = ""
`)

	cfg, err := config.Load(projectDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.AI.Model != "" {
		t.Errorf("Model = %q, expected empty project override", cfg.AI.Model)
	}
}

func TestSaveProject_RoundTrip(t *testing.T) {
	testsupport.SetupTestHome(t)
	projectDir := t.TempDir()

	cfg := config.Default()
	cfg.Project.Name = "shop"
	cfg.AI.Enabled = true
	cfg.AI.Provider = "openai"
	if err := config.SaveProject(projectDir, &cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(config.ProjectPath(projectDir))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "[ai]") {
		t.Errorf("expected [ai] section, got:\n%s", data)
	}

	loaded, err := config.LoadProject(projectDir)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	if loaded.Project.Name != "shop" || !loaded.AI.Enabled || loaded.AI.Provider != "openai" {
		t.Errorf("unexpected config after save: %+v", loaded)
	}
}
