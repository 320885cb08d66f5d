package tui

import (
	"strings"

	"github.com/fbcorp/gleo/internal/tui/theme"
)

// Standard key representations for consistent hints across the console.
const (
	KeyUpDownJK = "↑↓/jk"
	KeyEsc      = "esc"
	KeyD        = "d"
	KeyN        = "n"
	KeyR        = "r"
	KeyQ        = "q"
	KeyCtrlC    = "ctrl+c"
)

// RenderHint renders a single key-description pair.
// Example: RenderHint("enter", "select") -> "enter select"
func RenderHint(key, desc string) string {
	s := theme.Current().S()
	return s.HintKey.Render(key) + " " + s.HintDesc.Render(desc)
}

// RenderHintBar renders a hint bar with multiple key-description pairs.
// Example: RenderHintBar("n", "new event", "q", "quit")
// Returns: "n new event . q quit"
func RenderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		parts = append(parts, RenderHint(pairs[i], pairs[i+1]))
	}
	return strings.Join(parts, " "+s.HintSeparator.Render(".")+" ")
}

// HintHistory returns the hints for the history list.
// "n new event . ↑↓/jk select . d details . r reload . q quit"
func HintHistory() string {
	return RenderHintBar(KeyN, "new event", KeyUpDownJK, "select", KeyD, "details", KeyR, "reload", KeyQ, "quit")
}

// HintPopup returns the hints shown behind the wizard popup.
// "esc back . click outside close . ctrl+c quit"
func HintPopup() string {
	return RenderHintBar(KeyEsc, "back", "click outside", "close", KeyCtrlC, "quit")
}
