// Package config handles loading taskmanager config.toml files.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/amonks/taskmanager/internal/paths"
)

// FileName is the name of both the global and the project config file.
const FileName = "config.toml"

// Config represents a config.toml file.
type Config struct {
	Project Project `toml:"project"`
	Tasks   Tasks   `toml:"tasks"`
	AI      AI      `toml:"ai"`
	Display Display `toml:"display"`
	Log     Log     `toml:"log"`
}

// Project describes the project the tasks belong to.
type Project struct {
	Name         string   `toml:"name"`
	Description  string   `toml:"description"`
	Type         string   `toml:"type"`
	Technologies []string `toml:"technologies"`
}

// Tasks contains defaults for new tasks.
type Tasks struct {
	// DefaultPriority is used when a task is created without a priority.
	DefaultPriority string `toml:"default-priority"`

	// DefaultSubtasks is how many subtasks expansion asks for.
	DefaultSubtasks int `toml:"default-subtasks"`
}

// AI selects the language-model provider used for generation.
// API keys never live here; they come from the environment.
type AI struct {
	Enabled  bool   `toml:"enabled"`
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
}

// Display controls how tasks are printed.
type Display struct {
	ShowDependencies bool `toml:"show-dependencies"`
	ShowSubtasks     bool `toml:"show-subtasks"`
	CompactMode      bool `toml:"compact-mode"`
}

// Log controls diagnostic logging on stderr.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file sets a value.
func Default() Config {
	return Config{
		Tasks: Tasks{
			DefaultPriority: "medium",
			DefaultSubtasks: 3,
		},
		Display: Display{
			ShowDependencies: true,
			ShowSubtasks:     true,
		},
		Log: Log{
			Level: "warn",
		},
	}
}

// Load loads configuration from the global config file and the project's
// .taskmanager/config.toml. Project values win where they are defined.
// Returns the defaults if no config files exist.
func Load(projectDir string) (*Config, error) {
	globalPath, err := GlobalPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(ProjectPath(projectDir))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)
	return merged, nil
}

// GlobalPath returns the path of the user-wide config file.
func GlobalPath() (string, error) {
	dir, err := paths.GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// ProjectPath returns the path of the project config file.
func ProjectPath(projectDir string) string {
	return filepath.Join(projectDir, paths.ProjectDirName, FileName)
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

// layer is one config file together with the keys it defines.
type layer struct {
	cfg  *Config
	meta toml.MetaData
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Default()
	// Later layers override earlier ones.
	for _, l := range []layer{{globalCfg, globalMeta}, {projectCfg, projectMeta}} {
		c, m := l.cfg, l.meta

		if m.IsDefined("project", "name") {
			merged.Project.Name = strings.TrimSpace(c.Project.Name)
		}
		if m.IsDefined("project", "description") {
			merged.Project.Description = strings.TrimSpace(c.Project.Description)
		}
		if m.IsDefined("project", "type") {
			merged.Project.Type = strings.TrimSpace(c.Project.Type)
		}
		if m.IsDefined("project", "technologies") {
			merged.Project.Technologies = append([]string(nil), c.Project.Technologies...)
		}

		if m.IsDefined("tasks", "default-priority") {
			merged.Tasks.DefaultPriority = strings.ToLower(strings.TrimSpace(c.Tasks.DefaultPriority))
		}
		if m.IsDefined("tasks", "default-subtasks") {
			merged.Tasks.DefaultSubtasks = c.Tasks.DefaultSubtasks
		}

		if m.IsDefined("ai", "enabled") {
			merged.AI.Enabled = c.AI.Enabled
		}
		if m.IsDefined("ai", "provider") {
			merged.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
		}
		if m.IsDefined("ai", "model") {
			merged.AI.Model = strings.TrimSpace(c.AI.Model)
		}

		if m.IsDefined("display", "show-dependencies") {
			merged.Display.ShowDependencies = c.Display.ShowDependencies
		}
		if m.IsDefined("display", "show-subtasks") {
			merged.Display.ShowSubtasks = c.Display.ShowSubtasks
		}
		if m.IsDefined("display", "compact-mode") {
			merged.Display.CompactMode = c.Display.CompactMode
		}

		if m.IsDefined("log", "level") {
			merged.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
		}
	}

	if merged.Tasks.DefaultSubtasks < 1 {
		merged.Tasks.DefaultSubtasks = 1
	}
	return &merged
}

// Encode renders cfg as TOML.
func Encode(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveProject writes cfg to the project's config file.
func SaveProject(projectDir string, cfg *Config) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	path := ProjectPath(projectDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file %s: %w", path, err)
	}
	return nil
}

// LoadProject reads only the project's config file, with defaults applied.
// It is the starting point for commands that edit the project config.
func LoadProject(projectDir string) (*Config, error) {
	cfg, meta, err := loadConfigFile(ProjectPath(projectDir))
	if err != nil {
		return nil, err
	}
	return mergeConfigs(nil, cfg, toml.MetaData{}, meta), nil
}
