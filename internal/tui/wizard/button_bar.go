package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/fbcorp/gleo/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Focused/highlighted state
)

// Button represents a single button in the button bar.
type Button struct {
	Label string
	State ButtonState
}

// ButtonBar manages a set of buttons with consistent styling.
type ButtonBar struct {
	buttons []Button
	width   int
}

// NewButtonBar creates a new button bar with the given buttons.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		width:   60,
	}
}

// SetWidth updates the width for the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// Render renders the button bar centered in its width.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}
	s := theme.Current().S()

	rendered := make([]string, 0, len(b.buttons))
	for _, btn := range b.buttons {
		switch btn.State {
		case ButtonDisabled:
			rendered = append(rendered, s.ButtonDisabled.Render(btn.Label))
		case ButtonFocused:
			rendered = append(rendered, s.ButtonFocused.Render(btn.Label))
		default:
			rendered = append(rendered, s.Button.Render(btn.Label))
		}
	}

	return lipgloss.PlaceHorizontal(b.width, lipgloss.Center, strings.Join(rendered, ""))
}

// stepButtons returns the buttons for a wizard step: Cancel or Back on the
// left, Next or Submit on the right. Everything is disabled while submitting.
func stepButtons(step int, last bool, submitting bool) []Button {
	state := func(enabled bool) ButtonState {
		if !enabled || submitting {
			return ButtonDisabled
		}
		return ButtonNormal
	}

	left := Button{Label: "← Back", State: state(true)}
	if step == 1 {
		left.Label = "Cancel"
	}
	right := Button{Label: "Next →", State: state(true)}
	if last {
		right = Button{Label: "Submit", State: ButtonFocused}
		if submitting {
			right = Button{Label: "Submitting…", State: ButtonDisabled}
		}
	}
	return []Button{left, right}
}
