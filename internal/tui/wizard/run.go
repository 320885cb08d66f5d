package wizard

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	lipglossv2 "charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/fbcorp/gleo/internal/logger"
	"github.com/fbcorp/gleo/internal/tui/theme"
	wiz "github.com/fbcorp/gleo/internal/wizard"
)

var log = logger.Default.With("tui")

// Standalone is the full-screen program used by `gleo create`. The wizard is
// the whole screen; it exits when the user cancels or the post-submit
// refresh arrives.
type Standalone struct {
	form   *Form
	ctrl   *wiz.Controller
	width  int
	height int

	last     *SubmittedMsg
	quitting bool
}

// NewStandalone wraps a controller. toasts must be the controller's notifier.
func NewStandalone(ctx context.Context, ctrl *wiz.Controller, toasts *Toasts) *Standalone {
	return &Standalone{
		form: NewForm(ctx, ctrl, toasts),
		ctrl: ctrl,
	}
}

// Init implements tea.Model.
func (m *Standalone) Init() tea.Cmd {
	return tea.Batch(m.form.Init(), m.form.drainToasts())
}

// Update implements tea.Model.
func (m *Standalone) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.form.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case ClosedMsg:
		log.Debug("wizard cancelled")
		m.quitting = true
		return m, tea.Quit

	case SubmittedMsg:
		m.last = &msg
		cmd := m.form.Update(msg)
		return m, cmd

	case RefreshMsg:
		log.Debug("refresh requested, leaving wizard")
		m.quitting = true
		return m, tea.Quit
	}

	return m, m.form.Update(msg)
}

// View implements tea.Model.
func (m *Standalone) View() tea.View {
	var view tea.View
	view.AltScreen = true
	if m.quitting || m.width == 0 || m.height == 0 {
		view.AltScreen = !m.quitting
		view.Content = lipglossv2.NewLayer("")
		return view
	}

	canvas := uv.NewScreenBuffer(m.width, m.height)
	m.form.Draw(canvas, canvas.Bounds())
	DrawToast(canvas, canvas.Bounds(), m.form.Toast())

	view.Content = lipglossv2.NewLayer(canvas.Render())
	view.BackgroundColor = theme.HexToColor(theme.Current().BgCrust)
	return view
}

// Last returns the most recent submission outcome, if any.
func (m *Standalone) Last() (SubmittedMsg, bool) {
	if m.last == nil {
		return SubmittedMsg{}, false
	}
	return *m.last, true
}

// RunStandalone runs the wizard full-screen until it is cancelled or an
// event is created. host must be the controller's wiz.Host so the scheduled
// refresh ends the program.
func RunStandalone(ctx context.Context, ctrl *wiz.Controller, toasts *Toasts, host *ProgramHost) (SubmittedMsg, bool, error) {
	m := NewStandalone(ctx, ctrl, toasts)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	host.Attach(p)
	defer host.Attach(nil)

	final, err := p.Run()
	if err != nil {
		return SubmittedMsg{}, false, fmt.Errorf("run wizard: %w", err)
	}
	last, ok := final.(*Standalone).Last()
	return last, ok, nil
}
