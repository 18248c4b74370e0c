package main

import (
	"fmt"

	"github.com/amonks/taskmanager/internal/ui"
	"github.com/amonks/taskmanager/task"
	"github.com/spf13/cobra"
)

const progressBarWidth = 30

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task counts and progress",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var statsJSON bool

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output metadata as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	doc, err := p.store.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if statsJSON {
		return encodeJSON(out, doc.Metadata)
	}

	m := doc.Metadata
	done, total := task.Progress(doc.Tasks)
	fmt.Fprintf(out, "%s %s\n\n", p.theme.Label("Progress:"), p.theme.ProgressBar(done, total, progressBarWidth))

	statuses := ui.NewTableBuilder([]string{"STATUS", "COUNT"}, 5).SetAlign(1, ui.AlignRight)
	statuses.AddRow(p.theme.Status(task.StatusPending), fmt.Sprint(m.PendingCount))
	statuses.AddRow(p.theme.Status(task.StatusInProgress), fmt.Sprint(m.InProgressCount))
	statuses.AddRow(p.theme.Status(task.StatusDone), fmt.Sprint(m.CompletedCount))
	statuses.AddRow(p.theme.Status(task.StatusDeferred), fmt.Sprint(m.DeferredCount))
	statuses.AddRow(p.theme.Status(task.StatusCancelled), fmt.Sprint(m.CancelledCount))
	fmt.Fprint(out, statuses.String())

	priorities := ui.NewTableBuilder([]string{"PRIORITY", "COUNT"}, 3).SetAlign(1, ui.AlignRight)
	priorities.AddRow(p.theme.Priority(task.PriorityHigh), fmt.Sprint(m.HighPriorityCount))
	priorities.AddRow(p.theme.Priority(task.PriorityMedium), fmt.Sprint(m.MediumPriorityCount))
	priorities.AddRow(p.theme.Priority(task.PriorityLow), fmt.Sprint(m.LowPriorityCount))
	fmt.Fprintf(out, "\n%s", priorities.String())

	ready, err := p.store.Ready()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s %d of %d tasks\n", p.theme.Label("Ready:"), len(ready), m.TaskCount)
	fmt.Fprintf(out, "%s %s (%s)\n", p.theme.Label("Project:"), m.ProjectType,
		ui.FormatTimestamp(m.CreatedAt))
	fmt.Fprintf(out, "%s %s\n", p.theme.Label("Updated:"), ui.FormatAge(m.LastUpdated, timeNow()))
	return nil
}
