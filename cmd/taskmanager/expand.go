package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/amonks/taskmanager/internal/markdown"
	"github.com/amonks/taskmanager/internal/planner"
	"github.com/amonks/taskmanager/internal/prompt"
	"github.com/amonks/taskmanager/task"
	"github.com/spf13/cobra"
)

var expandCmd = &cobra.Command{
	Use:   "expand <id>",
	Short: "Break a task into subtasks",
	Long: `Break a task into subtasks.

Asks the AI provider for subtasks and suggested improvements to the task.
When no provider is available (or with --no-ai), prompts for subtask
titles instead. --apply saves the suggested description, details and
test strategy.`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

var (
	expandNum   int
	expandAI    bool
	expandNoAI  bool
	expandApply bool
)

func init() {
	rootCmd.AddCommand(expandCmd)

	expandCmd.Flags().IntVarP(&expandNum, "num", "n", 0, "Number of subtasks (default from config)")
	expandCmd.Flags().BoolVar(&expandAI, "ai", false, "Require AI expansion")
	expandCmd.Flags().BoolVar(&expandNoAI, "no-ai", false, "Enter subtasks manually")
	expandCmd.Flags().BoolVar(&expandApply, "apply", false, "Apply suggested task improvements")
	expandCmd.MarkFlagsMutuallyExclusive("ai", "no-ai")
}

func runExpand(cmd *cobra.Command, args []string) error {
	id, err := parseIDArg(args[0])
	if err != nil {
		return err
	}
	p, err := openProject()
	if err != nil {
		return err
	}
	count := expandNum
	if count < 1 {
		count = p.cfg.Tasks.DefaultSubtasks
	}

	out := cmd.OutOrStdout()
	if !expandNoAI {
		result, err := p.planner().Expand(cmd.Context(), id, planner.ExpandOptions{
			Count:             count,
			ApplyImprovements: expandApply,
		})
		if err == nil {
			printExpansion(out, p, result)
			return nil
		}
		if !errors.Is(err, planner.ErrExpansionUnavailable) || expandAI {
			return err
		}
		if !interactive() {
			return fmt.Errorf("%w; run interactively or use 'taskmanager subtask add'", err)
		}
		fmt.Fprintf(out, "%s %v\n", p.theme.Warning("AI expansion unavailable:"), err)
	}

	t, err := p.store.Get(id)
	if err != nil {
		return err
	}
	inputs, err := promptSubtasks(t, count)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		fmt.Fprintln(out, "No subtasks added.")
		return nil
	}
	added, err := p.store.AddSubtasks(id, inputs)
	if err != nil {
		return err
	}
	printAddedSubtasks(out, p, id, added)
	return nil
}

// promptSubtasks asks for up to count subtask titles. An empty title stops.
func promptSubtasks(t *task.Task, count int) ([]task.SubtaskInput, error) {
	pr := prompt.New()
	inputs := []task.SubtaskInput{}
	for i := 1; i <= count; i++ {
		title, err := pr.Input(fmt.Sprintf("Subtask %d of %d for %q (empty to stop)", i, count, t.Title), "")
		if err != nil {
			return nil, err
		}
		title = strings.TrimSpace(title)
		if title == "" {
			break
		}
		description, err := pr.Input("Description", "")
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, task.SubtaskInput{Title: title, Description: strings.TrimSpace(description)})
	}
	return inputs, nil
}

func printExpansion(w io.Writer, p *project, result *planner.ExpandResult) {
	if result.Analysis != "" {
		fmt.Fprintf(w, "%s\n%s\n\n", p.theme.Header("Analysis"),
			markdown.Render(renderWidth(), 2, p.theme.Enabled(), result.Analysis))
	}
	printAddedSubtasks(w, p, result.Task.ID, result.Subtasks)

	if result.Suggested == (task.Improvements{}) {
		return
	}
	if result.Improved {
		fmt.Fprintln(w, p.theme.Success("Applied suggested improvements."))
		return
	}
	fmt.Fprintf(w, "\n%s\n", p.theme.Header("Suggested improvements"))
	printSection(w, p.theme, "Description", result.Suggested.Description)
	printSection(w, p.theme, "Details", result.Suggested.Details)
	printSection(w, p.theme, "Test Strategy", result.Suggested.TestStrategy)
	fmt.Fprintf(w, "\nRe-run with --apply to save them.\n")
}

func printAddedSubtasks(w io.Writer, p *project, taskID int, added []task.Subtask) {
	fmt.Fprintf(w, "Added %d subtasks to task %s\n", len(added), p.theme.ID(taskID))
	for _, st := range added {
		fmt.Fprintf(w, "  %s %s\n", p.theme.SubtaskID(taskID, st.ID), st.Title)
	}
}
