package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/amonks/taskmanager/internal/ai"
	"github.com/amonks/taskmanager/internal/config"
	"github.com/amonks/taskmanager/internal/logging"
	"github.com/amonks/taskmanager/internal/paths"
	"github.com/amonks/taskmanager/internal/planner"
	"github.com/amonks/taskmanager/internal/prompt"
	"github.com/amonks/taskmanager/internal/ui"
	"github.com/amonks/taskmanager/task"
	"github.com/charmbracelet/log"
)

// timeNow is the clock used for relative times in output.
var timeNow = time.Now

// project bundles everything a command needs about the current project.
type project struct {
	dir    string
	store  *task.Store
	cfg    *config.Config
	env    config.Env
	logger *log.Logger
	theme  *ui.Theme
}

// workingDir returns the current directory.
func workingDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return cwd, nil
}

// openProject finds the enclosing project and opens its store.
func openProject() (*project, error) {
	cwd, err := workingDir()
	if err != nil {
		return nil, err
	}
	dir, err := paths.FindProjectRoot(cwd)
	if errors.Is(err, paths.ErrNoProject) {
		return nil, task.ErrNotInitialized
	}
	if err != nil {
		return nil, err
	}

	p, err := loadSettings(dir)
	if err != nil {
		return nil, err
	}
	p.store, err = task.Open(dir, task.OpenOptions{Now: time.Now})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// loadSettings reads config and environment for dir without touching the
// task store.
func loadSettings(dir string) (*project, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	env, err := config.LoadEnv(dir)
	if err != nil {
		return nil, err
	}

	var warnings []error
	if err := cfg.ApplyEnv(env); err != nil {
		warnings = append(warnings, err)
	}
	level := cfg.Log.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	logger, err := logging.New(os.Stderr, logging.Options{Level: level, Prefix: "taskmanager"})
	if err != nil {
		warnings = append(warnings, err)
	}
	for _, w := range warnings {
		logger.Warn("ignoring setting", "err", w)
	}

	return &project{
		dir:    dir,
		cfg:    cfg,
		env:    env,
		logger: logger,
		theme:  ui.NewTheme(ui.ColorEnabled()),
	}, nil
}

// defaultPriority returns the configured default priority.
func (p *project) defaultPriority() task.Priority {
	if priority, err := task.ParsePriority(p.cfg.Tasks.DefaultPriority); err == nil {
		return priority
	}
	return task.PriorityMedium
}

// generator returns the configured task generator, logging why the
// simulator was chosen when it was.
func (p *project) generator() (ai.Generator, ai.Selection) {
	gen, sel := ai.New(p.cfg.AI, p.env.Keys())
	if sel.Simulated() && sel.Reason != "" {
		p.logger.Info("using simulated generation", "reason", sel.Reason)
	}
	return gen, sel
}

// planner builds a planner wired to the project's store and providers.
func (p *project) planner() *planner.Planner {
	gen, _ := p.generator()
	pl := &planner.Planner{
		Store:     p.store,
		Generator: gen,
		Logger:    p.logger,
	}
	if exp, ok := ai.NewExpander(p.cfg.AI, p.env.Keys()); ok {
		pl.Expander = exp
	}
	return pl
}

// interactive reports whether prompts can be shown.
func interactive() bool {
	return prompt.Interactive()
}

// readAllTrimmed reads r and trims one trailing newline.
func readAllTrimmed(r io.Reader) (string, error) {
	input, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	value := string(input)
	if len(value) > 0 && value[len(value)-1] == '\n' {
		value = value[:len(value)-1]
	}
	if len(value) > 0 && value[len(value)-1] == '\r' {
		value = value[:len(value)-1]
	}
	return value, nil
}
