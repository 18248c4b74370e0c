package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amonks/taskmanager/internal/ai"
	"github.com/amonks/taskmanager/internal/editor"
	"github.com/amonks/taskmanager/internal/planner"
	"github.com/amonks/taskmanager/internal/prompt"
	"github.com/amonks/taskmanager/task"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a task, or generate a task list with --ai",
	Long: `Create a task.

By default, opens $EDITOR to edit a TOML representation of the task
when running interactively. Use --no-edit to skip the editor, or
--edit to force opening the editor even when not interactive.

With --ai, generates a whole task list from the project description
instead. The configured AI provider is used when AI is enabled and its
API key is set; otherwise tasks are simulated from templates. Generated
tasks are appended unless --replace is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

var (
	createAI           bool
	createTitle        string
	createDescription  string
	createPriority     string
	createCategory     string
	createDetails      string
	createTestStrategy string
	createDeps         []string
	createCount        int
	createReplace      bool
	createYes          bool
	createEdit         bool
	createNoEdit       bool
)

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().BoolVar(&createAI, "ai", false, "Generate tasks from the project description")
	createCmd.Flags().StringVar(&createTitle, "title", "", "Task title")
	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "Description (use '-' to read from stdin)")
	createCmd.Flags().StringVarP(&createPriority, "priority", "p", "", "Priority (high, medium, low)")
	createCmd.Flags().StringVarP(&createCategory, "category", "c", "", "Category (default: feature)")
	createCmd.Flags().StringVar(&createDetails, "details", "", "Implementation details")
	createCmd.Flags().StringVar(&createTestStrategy, "test-strategy", "", "How the task will be verified")
	createCmd.Flags().StringArrayVar(&createDeps, "deps", nil, "IDs this task depends on (repeatable or comma-separated)")
	createCmd.Flags().IntVarP(&createCount, "count", "n", ai.DefaultTaskCount, "Number of tasks to generate with --ai")
	createCmd.Flags().BoolVar(&createReplace, "replace", false, "Replace existing tasks with the generated list")
	createCmd.Flags().BoolVarP(&createYes, "yes", "y", false, "Do not ask for confirmation")
	createCmd.Flags().BoolVarP(&createEdit, "edit", "e", false, "Open $EDITOR (default if interactive)")
	createCmd.Flags().BoolVar(&createNoEdit, "no-edit", false, "Do not open $EDITOR")
	addDescriptionFlagAliases(createCmd)
	addDependencyFlagAliases(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(createDescription, os.Stdin)
		if err != nil {
			return err
		}
		createDescription = desc
	}

	p, err := openProject()
	if err != nil {
		return err
	}
	if createAI {
		return runCreateAI(cmd, p)
	}

	title := createTitle
	if len(args) > 0 {
		title = args[0]
	}
	deps, err := parseIDList(createDeps)
	if err != nil {
		return err
	}

	hasFlags := title != "" || anyChanged(cmd, "description", "priority", "category", "details", "test-strategy", "deps")
	if shouldUseEditor(hasFlags, createEdit, createNoEdit, editor.IsInteractive()) {
		return runCreateEditor(cmd, p, title, deps)
	}

	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required (use --edit to open editor)")
	}
	opts := task.AddOptions{
		Description:  createDescription,
		Details:      createDetails,
		TestStrategy: createTestStrategy,
		Category:     createCategory,
		Priority:     p.defaultPriority(),
		Dependencies: deps,
	}
	if createPriority != "" {
		opts.Priority, err = task.ParsePriority(createPriority)
		if err != nil {
			return err
		}
	}

	created, err := p.store.Add(title, opts)
	if err != nil {
		return err
	}
	printCreated(cmd.OutOrStdout(), p, created)
	return nil
}

func runCreateEditor(cmd *cobra.Command, p *project, title string, deps []int) error {
	parsed, err := editor.EditTask(nil, p.defaultPriority())
	if err != nil {
		return err
	}
	opts := parsed.ToAddOptions()
	if title != "" && parsed.Title == "" {
		parsed.Title = title
	}
	if len(opts.Dependencies) == 0 {
		opts.Dependencies = deps
	}

	created, err := p.store.Add(parsed.Title, opts)
	if err != nil {
		return err
	}
	printCreated(cmd.OutOrStdout(), p, created)
	return nil
}

func printCreated(w io.Writer, p *project, t *task.Task) {
	fmt.Fprintf(w, "Created task %s: %s\n", p.theme.ID(t.ID), t.Title)
}

func runCreateAI(cmd *cobra.Command, p *project) error {
	doc, err := p.store.Load()
	if err != nil {
		return err
	}

	description := createDescription
	if description == "" {
		description = p.cfg.Project.Description
	}
	if description == "" && interactive() {
		description, err = prompt.New().Input("Describe the project", "")
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("a project description is required (use --description)")
	}

	if createReplace && len(doc.Tasks) > 0 && !createYes {
		if !interactive() {
			return fmt.Errorf("refusing to replace %d tasks without --yes", len(doc.Tasks))
		}
		ok, err := prompt.New().Confirm(fmt.Sprintf("Replace %d existing tasks?", len(doc.Tasks)))
		if err != nil {
			return err
		}
		if !ok {
			return prompt.ErrCancelled
		}
	}

	projectType := task.ProjectType(p.cfg.Project.Type)
	if projectType == "" {
		projectType = doc.Metadata.ProjectType
	}

	result, err := p.planner().Plan(cmd.Context(), planner.PlanRequest{
		GenerateRequest: ai.GenerateRequest{
			ProjectName:  p.cfg.Project.Name,
			Description:  description,
			Technologies: p.cfg.Project.Technologies,
			ProjectType:  projectType,
			Count:        createCount,
		},
		Replace: createReplace,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.FallbackErr != nil {
		fmt.Fprintf(out, "%s %v\n", p.theme.Warning("AI request failed, used simulation:"), result.FallbackErr)
	}
	fmt.Fprintf(out, "Generated %d tasks (%s)\n", len(result.Tasks), result.Source)
	printReport(out, p, result.Report)
	fmt.Fprint(out, formatTaskTable(p.theme, result.Tasks, taskTableOptions{
		showDependencies: true,
		compact:          p.cfg.Display.CompactMode,
	}))
	return nil
}

// printReport summarizes dependency repairs.
func printReport(w io.Writer, p *project, report task.DependencyReport) {
	if !report.Changed() {
		return
	}
	for _, d := range report.Dropped {
		label := p.theme.Warning("dropped dependency")
		if d.Reason == task.DropCycle {
			label = p.theme.Failure("dropped dependency")
		}
		fmt.Fprintf(w, "%s %s -> %s (%s)\n", label, p.theme.ID(d.TaskID), p.theme.ID(d.DependsOn), d.Reason)
	}
	for _, e := range report.Added {
		fmt.Fprintf(w, "%s %s -> %s\n", p.theme.Muted("added implied dependency"),
			p.theme.ID(e.TaskID), p.theme.ID(e.DependsOn))
	}
}

// isCancelled reports whether err came from the user aborting a prompt.
func isCancelled(err error) bool {
	return errors.Is(err, prompt.ErrCancelled)
}
