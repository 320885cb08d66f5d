package main

import (
	"encoding/json"
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/fbcorp/gleo/internal/journal"
	"github.com/fbcorp/gleo/internal/tui"
	"github.com/fbcorp/gleo/internal/tui/theme"
	"github.com/spf13/cobra"
)

var historyFlags struct {
	limit int
	json  bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded event submissions",
	Long: `List the submissions recorded in the local journal, newest first.

Each line shows when the attempt was made, its outcome, the event code and
name and the message the event service returned.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "l", 20, "Number of entries to show (0 = all)")
	historyCmd.Flags().BoolVar(&historyFlags.json, "json", false, "Print entries as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	j, err := journal.Open(ctx, cfg.DataDir)
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()

	entries, err := j.List(ctx, historyFlags.limit)
	if err != nil {
		return err
	}

	if historyFlags.json {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No submissions recorded yet.")
		return nil
	}
	for _, e := range entries {
		_, _ = lipgloss.Println(formatEntry(e))
	}
	return nil
}

func formatEntry(e journal.Entry) string {
	th := theme.Current()
	color := th.Info
	switch e.Outcome {
	case journal.OutcomeSucceeded:
		color = th.Success
	case journal.OutcomeFailed:
		color = th.Error
	case journal.OutcomeInvalid:
		color = th.Warning
	}
	outcome := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Width(9).Render(string(e.Outcome))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgMuted))

	line := fmt.Sprintf("%s  %s  %-5s  %s",
		muted.Render(e.Timestamp.Local().Format(tui.HistoryTimeLayout)), outcome, e.Code, e.Name)
	if e.Message != "" {
		line += muted.Render("  " + e.Message)
	}
	return line
}
