package ai

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/amonks/taskmanager/task"
)

// DefaultTaskCount is how many tasks are generated when none is requested.
const DefaultTaskCount = 5

// Simulator generates template tasks without calling any provider.
type Simulator struct{}

// Name returns "simulation".
func (Simulator) Name() string { return "simulation" }

// GenerateTasks returns template tasks for req. New (and unknown) projects
// get setup tasks; existing projects get tasks for the context guessed
// from the description.
func (Simulator) GenerateTasks(ctx context.Context, req GenerateRequest) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	count := req.Count
	if count <= 0 {
		count = DefaultTaskCount
	}
	name := strings.TrimSpace(req.ProjectName)
	if name == "" {
		name = "the project"
	}
	if req.ProjectType == task.ProjectExisting {
		return existingProjectTasks(name, req.Description, count), nil
	}
	return newProjectTasks(name, req.Technologies, req.ProjectType, count), nil
}

var (
	frontendTech = []string{"javascript", "typescript", "react", "vue", "angular"}
	backendTech  = []string{"nodejs", "express", "python", "django", "flask", "java", "spring", "csharp", "dotnet", "php", "laravel", "ruby", "rails", "go"}
)

func newProjectTasks(name string, technologies []string, projectType task.ProjectType, count int) []task.Task {
	tech := make([]string, len(technologies))
	for i, t := range technologies {
		tech[i] = strings.ToLower(strings.TrimSpace(t))
	}
	uses := func(names ...string) bool {
		for _, n := range names {
			if slices.Contains(tech, n) {
				return true
			}
		}
		return false
	}

	tasks := []task.Task{
		{
			ID:           1,
			Title:        fmt.Sprintf("Set up the initial structure of %s", name),
			Description:  "Create the basic directories and files of the project.",
			Priority:     task.PriorityHigh,
			Details:      "Create the main directories and configure the build system.",
			TestStrategy: "Check that every directory was created correctly.",
			Category:     "setup",
			Subtasks: []task.Subtask{
				{ID: 1, Title: "Create directory structure", Description: "Define and create the base directories of the project."},
				{ID: 2, Title: "Configure build system", Description: "Set up the build process."},
			},
		},
		{
			ID:           2,
			Title:        "Set up the development environment",
			Description:  "Prepare the development environment with the required tools.",
			Priority:     task.PriorityHigh,
			Dependencies: []int{1},
			Details:      "Configure linters, formatters and debugging tools.",
			TestStrategy: "Check that the development environment works.",
			Category:     "setup",
		},
		{
			ID:           3,
			Title:        "Write initial documentation",
			Description:  "Write the basic project documentation, including a README.",
			Priority:     task.PriorityMedium,
			Dependencies: []int{1},
			Details:      "Document the structure, requirements and installation steps.",
			TestStrategy: "Check that the documentation is clear and complete.",
			Category:     "documentation",
		},
	}

	next := 4
	if uses(frontendTech...) {
		details := "Set up a basic frontend structure."
		switch {
		case uses("react"):
			details = "Set up React with a component structure."
		case uses("vue"):
			details = "Set up Vue.js with a component structure."
		case uses("angular"):
			details = "Set up Angular with modules and components."
		}
		tasks = append(tasks, task.Task{
			ID:           next,
			Title:        "Set up the frontend environment",
			Description:  "Configure the frontend development environment.",
			Priority:     task.PriorityHigh,
			Dependencies: []int{2},
			Details:      details,
			TestStrategy: "Check that the frontend environment works.",
			Category:     "frontend",
		})
		next++
	}
	if uses(backendTech...) {
		details := "Set up a basic backend structure."
		switch {
		case uses("nodejs", "express"):
			details = "Set up Node.js with routes and controllers."
		case uses("python", "django", "flask"):
			details = "Set up a Python application structure."
		case uses("java", "spring"):
			details = "Set up Java with services and controllers."
		}
		tasks = append(tasks, task.Task{
			ID:           next,
			Title:        "Set up the backend environment",
			Description:  "Configure the backend development environment.",
			Priority:     task.PriorityHigh,
			Dependencies: []int{2},
			Details:      details,
			TestStrategy: "Check that the backend environment works.",
			Category:     "backend",
		})
		next++
	}

	var dbDeps []int
	if projectType == task.ProjectNew {
		dbDeps = []int{1}
	}
	tasks = append(tasks, task.Task{
		ID:           next,
		Title:        "Set up the database",
		Description:  "Configure the database connection and schema.",
		Priority:     task.PriorityHigh,
		Dependencies: dbDeps,
		Details:      "Define the schema, create migrations and configure the connection.",
		TestStrategy: "Check that the database connection works.",
		Category:     "database",
	})

	if len(tasks) > count {
		tasks = tasks[:count]
	}
	return tasks
}

// projectContext is the kind of work an existing project needs.
type projectContext string

const (
	contextFeature       projectContext = "feature"
	contextBugfix        projectContext = "bugfix"
	contextTesting       projectContext = "testing"
	contextDocumentation projectContext = "documentation"
	contextRefactoring   projectContext = "refactoring"
	contextPerformance   projectContext = "performance"
	contextSecurity      projectContext = "security"
	contextDependencies  projectContext = "dependencies"
)

// contextKeywords is checked in order; the first match wins.
var contextKeywords = []struct {
	context  projectContext
	keywords []string
}{
	{contextBugfix, []string{"bug", "error", "failure", "crash"}},
	{contextTesting, []string{"test"}},
	{contextDocumentation, []string{"document", "readme"}},
	{contextRefactoring, []string{"refactor"}},
	{contextPerformance, []string{"performance", "slow", "latency"}},
	{contextSecurity, []string{"security", "vulnerab"}},
	{contextDependencies, []string{"dependenc", "upgrade", "outdated"}},
}

// DetectContext guesses what kind of work a description asks for.
func DetectContext(description string) string {
	lower := strings.ToLower(description)
	for _, entry := range contextKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return string(entry.context)
			}
		}
	}
	return string(contextFeature)
}

type contextTemplate struct {
	title        string
	description  string
	details      string
	testStrategy string
}

var contextTemplates = map[projectContext]contextTemplate{
	contextBugfix: {
		title:        "Fix bug #%d in %s",
		description:  "Investigate and fix the bug found in the system.",
		details:      "Find the root cause of the problem and implement a fix.",
		testStrategy: "Write a test that reproduces the bug and check that the fix resolves it.",
	},
	contextTesting: {
		title:        "Add tests for module %d of %s",
		description:  "Write unit and integration tests for the module.",
		details:      "Identify critical test cases and automate them.",
		testStrategy: "Check code coverage and test quality.",
	},
	contextDocumentation: {
		title:        "Document module %d of %s",
		description:  "Write technical documentation for the module.",
		details:      "Document APIs, internals and usage examples.",
		testStrategy: "Review the documentation with the team for clarity and completeness.",
	},
	contextRefactoring: {
		title:        "Refactor module %d of %s",
		description:  "Improve the code quality of the existing module.",
		details:      "Identify design problems and implement cleaner solutions.",
		testStrategy: "Check that existing tests still pass after the refactor.",
	},
	contextPerformance: {
		title:        "Optimize performance of module %d of %s",
		description:  "Find and remove performance bottlenecks.",
		details:      "Analyse performance metrics and implement improvements.",
		testStrategy: "Measure performance before and after the optimization.",
	},
	contextSecurity: {
		title:        "Improve security of module %d of %s",
		description:  "Find and fix security vulnerabilities.",
		details:      "Run a security review and fix the vulnerabilities found.",
		testStrategy: "Run penetration tests to confirm the vulnerabilities are resolved.",
	},
	contextDependencies: {
		title:        "Update dependencies of module %d of %s",
		description:  "Update libraries and dependencies to recent versions.",
		details:      "Find outdated dependencies and apply compatible upgrades.",
		testStrategy: "Check that the system still works after the upgrades.",
	},
	contextFeature: {
		title:        "Implement feature %d for %s",
		description:  "Build a new feature for the system.",
		details:      "Create the components, services and endpoints the feature needs.",
		testStrategy: "Write unit and integration tests for the feature.",
	},
}

func existingProjectTasks(name, description string, count int) []task.Task {
	ctxName := projectContext(DetectContext(description))
	tmpl := contextTemplates[ctxName]

	tasks := make([]task.Task, count)
	for i := range count {
		id := i + 1
		title := fmt.Sprintf(tmpl.title, id, name)
		t := task.Task{
			ID:           id,
			Title:        title,
			Description:  tmpl.description,
			Priority:     task.PriorityLow,
			Details:      tmpl.details,
			TestStrategy: tmpl.testStrategy,
			Category:     string(ctxName),
		}
		switch {
		case i == 0:
			t.Priority = task.PriorityHigh
		case i < 2:
			t.Priority = task.PriorityMedium
		}
		if i > 0 {
			t.Dependencies = []int{i}
		}
		if i < 2 {
			t.Subtasks = []task.Subtask{
				{ID: 1, Title: "Subtask 1 for " + title, Description: "First step of the task."},
				{ID: 2, Title: "Subtask 2 for " + title, Description: "Second step of the task."},
			}
		}
		tasks[i] = t
	}
	return tasks
}
