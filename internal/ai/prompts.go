package ai

import (
	"fmt"
	"strings"

	"github.com/amonks/taskmanager/task"
)

const generateSystemPrompt = "You are a project management assistant with deep experience in software development and agile planning."

const expandSystemPrompt = "You are an expert in project management and task analysis. Analyse a task in depth and split it into logical, well-structured subtasks."

// GeneratePrompt builds the user prompt for task generation.
func GeneratePrompt(req GenerateRequest) string {
	kind := "new"
	focus := "Start with setup and initial configuration tasks."
	if req.ProjectType == task.ProjectExisting {
		kind = "existing"
		focus = "Focus on development, improvement or fix tasks for the existing code."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d tasks for a %s project", max(req.Count, 1), kind)
	if req.ProjectName != "" {
		fmt.Fprintf(&b, " called %q", req.ProjectName)
	}
	b.WriteString(".\n\n")
	if len(req.Technologies) > 0 {
		fmt.Fprintf(&b, "Technologies: %s\n\n", strings.Join(req.Technologies, ", "))
	}
	fmt.Fprintf(&b, "Project description:\n%s\n\n", strings.TrimSpace(req.Description))
	b.WriteString(`Return the tasks as a JSON array with this structure:
[
  {
    "id": 1,
    "title": "Task title",
    "description": "What the task is about",
    "status": "pending",
    "priority": "high|medium|low",
    "dependencies": [IDs of earlier tasks this one needs],
    "details": "Implementation details",
    "testStrategy": "How to verify the task",
    "category": "setup|frontend|backend|database|...",
    "subtasks": [
      {"id": 1, "title": "Subtask title", "description": "Subtask description", "status": "pending"}
    ]
  }
]

`)
	b.WriteString(focus)
	b.WriteString(`
Make sure that:
1. Tasks are specific and measurable.
2. A task only depends on tasks with a smaller id.
3. Priorities reflect real importance.
4. Subtasks break complex tasks into useful steps.
5. Test strategies are practical.
Respond with the JSON array only.
`)
	return b.String()
}

// ExpandPrompt builds the user prompt for task expansion.
func ExpandPrompt(req ExpandRequest) string {
	t := req.Task
	orNone := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "not provided"
		}
		return s
	}

	var b strings.Builder
	b.WriteString("# Task analysis\n\n## Task\n")
	fmt.Fprintf(&b, "- Title: %s\n", t.Title)
	fmt.Fprintf(&b, "- Description: %s\n", orNone(t.Description))
	fmt.Fprintf(&b, "- Category: %s\n", orNone(t.Category))
	fmt.Fprintf(&b, "- Implementation details: %s\n", orNone(t.Details))
	fmt.Fprintf(&b, "- Test strategy: %s\n", orNone(t.TestStrategy))
	if len(t.Subtasks) > 0 {
		b.WriteString("\nExisting subtasks:\n")
		for _, st := range t.Subtasks {
			fmt.Fprintf(&b, "- %s: %s\n", st.Title, orNone(st.Description))
		}
	}
	fmt.Fprintf(&b, `
## Instructions
1. Analyse the task: scope, technical challenges, prerequisites and effort.
2. Split it into exactly %d subtasks that follow a logical order, cover the
   whole task and don't repeat existing subtasks.
3. If useful, suggest a better description, details or test strategy.

## Response format
{
  "analysis": "Markdown analysis of the task",
  "subtasks": [{"title": "Subtask title", "description": "Subtask description"}],
  "taskImprovements": {"description": "", "details": "", "testStrategy": ""}
}

Respond with the JSON object only.
`, max(req.Count, 1))
	return b.String()
}
