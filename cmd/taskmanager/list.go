package main

import (
	"errors"
	"fmt"

	"github.com/amonks/taskmanager/task"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var (
	listStatus     string
	listPriority   string
	listCategory   string
	listQuery      string
	listSubtasks   bool
	listNoSubtasks bool
	listJSON       bool
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next task to work on",
	Long: `Show the next task to work on.

The next task is the highest-priority pending or in-progress task whose
dependencies are all done. Ties go to the lowest ID.`,
	Args: cobra.NoArgs,
	RunE: runNext,
}

var nextJSON bool

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the task in progress",
	Args:  cobra.NoArgs,
	RunE:  runCurrent,
}

var currentJSON bool

func init() {
	rootCmd.AddCommand(listCmd, nextCmd, currentCmd)

	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "Filter by status")
	listCmd.Flags().StringVarP(&listPriority, "priority", "p", "", "Filter by priority")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Filter by category")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Filter by text in title or description")
	listCmd.Flags().BoolVar(&listSubtasks, "subtasks", false, "Show subtasks")
	listCmd.Flags().BoolVar(&listNoSubtasks, "no-subtasks", false, "Hide subtasks")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")

	nextCmd.Flags().BoolVar(&nextJSON, "json", false, "Output as JSON")
	currentCmd.Flags().BoolVar(&currentJSON, "json", false, "Output as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	filter := task.ListFilter{Category: listCategory, Query: listQuery}
	if listStatus != "" {
		status, err := task.ParseStatus(listStatus)
		if err != nil {
			return err
		}
		filter.Status = &status
	}
	if listPriority != "" {
		priority, err := task.ParsePriority(listPriority)
		if err != nil {
			return err
		}
		filter.Priority = &priority
	}

	tasks, err := p.store.List(filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if listJSON {
		return encodeJSON(out, tasks)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return nil
	}

	showSubtasks := p.cfg.Display.ShowSubtasks
	if listSubtasks {
		showSubtasks = true
	}
	if listNoSubtasks {
		showSubtasks = false
	}
	fmt.Fprint(out, formatTaskTable(p.theme, tasks, taskTableOptions{
		showDependencies: p.cfg.Display.ShowDependencies,
		showSubtasks:     showSubtasks,
		compact:          p.cfg.Display.CompactMode,
	}))

	doc, err := p.store.Load()
	if err != nil {
		return err
	}
	done, total := task.Progress(doc.Tasks)
	fmt.Fprintf(out, "\n%s %s\n", p.theme.Label("Progress:"), p.theme.ProgressBar(done, total, progressBarWidth))
	return nil
}

func runNext(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	next, err := p.store.Next()
	out := cmd.OutOrStdout()
	if errors.Is(err, task.ErrNoTaskAvailable) {
		if nextJSON {
			return encodeJSON(out, nil)
		}
		fmt.Fprintln(out, "No task is ready. All tasks are done or blocked by dependencies.")
		return nil
	}
	if err != nil {
		return err
	}
	if nextJSON {
		return encodeJSON(out, next)
	}

	doc, err := p.store.Load()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n\n", p.theme.Header("Next task"))
	printTaskDetail(out, p.theme, *next, doc.Tasks)
	fmt.Fprintf(out, "\nStart it with: taskmanager status %d in-progress\n", next.ID)
	return nil
}

func runCurrent(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	current, err := p.store.Current()
	out := cmd.OutOrStdout()
	if errors.Is(err, task.ErrNoCurrentTask) {
		if currentJSON {
			return encodeJSON(out, nil)
		}
		fmt.Fprintln(out, "No task is in progress. Run 'taskmanager next' to pick one.")
		return nil
	}
	if err != nil {
		return err
	}
	if currentJSON {
		return encodeJSON(out, current)
	}

	fmt.Fprintf(out, "%s %s %s\n", p.theme.Header("Current task:"), p.theme.ID(current.ID), current.Title)
	if st := task.CurrentSubtask(current); st != nil {
		fmt.Fprintf(out, "%s %s %s %s\n", p.theme.Label("Subtask:"),
			p.theme.SubtaskID(current.ID, st.ID), st.Title, p.theme.Status(st.Status))
	}
	if n := len(current.Subtasks); n > 0 {
		done := 0
		for _, st := range current.Subtasks {
			if st.Status == task.StatusDone {
				done++
			}
		}
		fmt.Fprintf(out, "%s %s\n", p.theme.Label("Subtasks:"), p.theme.ProgressBar(done, n, progressBarWidth))
	}
	return nil
}
