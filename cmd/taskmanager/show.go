package main

import (
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var showJSON bool

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseIDArg(args[0])
	if err != nil {
		return err
	}
	p, err := openProject()
	if err != nil {
		return err
	}
	doc, err := p.store.Load()
	if err != nil {
		return err
	}
	t, err := p.store.Get(id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showJSON {
		return encodeJSON(out, t)
	}
	printTaskDetail(out, p.theme, *t, doc.Tasks)
	return nil
}
