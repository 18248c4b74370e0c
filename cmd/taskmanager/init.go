package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/amonks/taskmanager/internal/config"
	"github.com/amonks/taskmanager/internal/paths"
	"github.com/amonks/taskmanager/internal/prompt"
	"github.com/amonks/taskmanager/task"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize task tracking in the current directory",
	Long: `Initialize task tracking in the current directory.

Creates .taskmanager/ with an empty task list, a config.toml describing
the project and a .env.example listing the AI settings. When running
interactively, asks for the project name, description and type; pass
--yes to accept the detected defaults.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var (
	initYes         bool
	initProjectType string
	initName        string
	initDescription string
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Accept defaults without prompting")
	initCmd.Flags().StringVar(&initProjectType, "project-type", "", "Project type (new, existing); detected when omitted")
	initCmd.Flags().StringVar(&initName, "name", "", "Project name (default: directory name)")
	initCmd.Flags().StringVarP(&initDescription, "description", "d", "", "Project description")
	addDescriptionFlagAliases(initCmd)
}

// gitignoreContents keeps secrets out of version control.
const gitignoreContents = ".env\ntasks.lock\n"

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := workingDir()
	if err != nil {
		return err
	}

	projectType, err := resolveProjectType(dir, initProjectType)
	if err != nil {
		return err
	}
	meta := config.Project{
		Name:         initName,
		Description:  initDescription,
		Type:         string(projectType),
		Technologies: config.DetectTechnologies(dir),
	}
	if meta.Name == "" {
		meta.Name = filepath.Base(dir)
	}

	if !initYes && interactive() {
		if err := promptProjectDetails(&meta, cmd.Flags().Changed("project-type")); err != nil {
			return err
		}
		projectType = task.ProjectType(meta.Type)
	}

	if _, err := task.Init(dir, projectType, nil); err != nil {
		if errors.Is(err, task.ErrAlreadyInitialized) {
			return fmt.Errorf("%w in %s", err, dir)
		}
		return err
	}

	storeDir := filepath.Join(dir, paths.ProjectDirName)
	if err := writeFileIfMissing(filepath.Join(storeDir, ".env.example"), config.EnvExample); err != nil {
		return err
	}
	if err := writeFileIfMissing(filepath.Join(storeDir, ".gitignore"), gitignoreContents); err != nil {
		return err
	}

	cfg, err := config.LoadProject(dir)
	if err != nil {
		return err
	}
	cfg.Project = meta
	if err := config.SaveProject(dir, cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized %s project %q in %s\n", projectType, meta.Name, storeDir)
	if len(meta.Technologies) > 0 {
		fmt.Fprintf(out, "Detected technologies: %s\n", strings.Join(meta.Technologies, ", "))
	}
	fmt.Fprintln(out, "Copy .taskmanager/.env.example to .taskmanager/.env to enable AI generation.")
	return nil
}

func resolveProjectType(dir, flagValue string) (task.ProjectType, error) {
	if flagValue != "" {
		return parseProjectType(flagValue)
	}
	guessed, err := config.GuessProjectType(dir)
	if err != nil {
		return "", err
	}
	return task.ProjectType(guessed), nil
}

func parseProjectType(value string) (task.ProjectType, error) {
	switch pt := task.ProjectType(strings.ToLower(strings.TrimSpace(value))); pt {
	case task.ProjectNew, task.ProjectExisting:
		return pt, nil
	}
	return "", fmt.Errorf("invalid project type %q (valid: new, existing)", value)
}

func promptProjectDetails(meta *config.Project, typeFixed bool) error {
	p := prompt.New()

	name, err := p.Input("Project name", meta.Name)
	if err != nil {
		return err
	}
	meta.Name = strings.TrimSpace(name)

	description, err := p.Input("Project description", meta.Description)
	if err != nil {
		return err
	}
	meta.Description = strings.TrimSpace(description)

	if !typeFixed {
		answer, err := p.Input("Project type (new, existing)", meta.Type)
		if err != nil {
			return err
		}
		pt, err := parseProjectType(answer)
		if err != nil {
			return err
		}
		meta.Type = string(pt)
	}
	return nil
}

func writeFileIfMissing(path, contents string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
