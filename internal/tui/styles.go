package tui

import (
	"charm.land/lipgloss/v2"
	"github.com/fbcorp/gleo/internal/journal"
	"github.com/fbcorp/gleo/internal/tui/theme"
)

// outcomeBadge renders the short status marker for a history row.
func outcomeBadge(o journal.Outcome) string {
	th := theme.Current()
	style := lipgloss.NewStyle().Bold(true)
	switch o {
	case journal.OutcomeSucceeded:
		return style.Foreground(lipgloss.Color(th.Success)).Render("✓")
	case journal.OutcomeFailed:
		return style.Foreground(lipgloss.Color(th.Error)).Render("✗")
	case journal.OutcomeInvalid:
		return style.Foreground(lipgloss.Color(th.Warning)).Render("!")
	default:
		return style.Foreground(lipgloss.Color(th.FgMuted)).Render("?")
	}
}

// selectedRow highlights the focused history row.
func selectedRow() lipgloss.Style {
	th := theme.Current()
	return lipgloss.NewStyle().
		Background(lipgloss.Color(th.BgSurface0)).
		Foreground(lipgloss.Color(th.FgBase)).
		Bold(true)
}

// headerBar styles the title line.
func headerBar() lipgloss.Style {
	th := theme.Current()
	return lipgloss.NewStyle().
		Background(lipgloss.Color(th.BgMantle)).
		Foreground(lipgloss.Color(th.Primary)).
		Bold(true).
		Padding(0, 1)
}
