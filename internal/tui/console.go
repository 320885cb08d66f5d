// Package tui implements the gleo console: a browser for recorded event
// submissions that opens the event wizard as a popup.
package tui

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipglossv2 "charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/fbcorp/gleo/internal/hooks"
	"github.com/fbcorp/gleo/internal/journal"
	"github.com/fbcorp/gleo/internal/logger"
	"github.com/fbcorp/gleo/internal/state"
	"github.com/fbcorp/gleo/internal/tui/theme"
	"github.com/fbcorp/gleo/internal/tui/wizard"
	wiz "github.com/fbcorp/gleo/internal/wizard"
)

var log = logger.Default.With("console")

// DefaultHistoryLimit is how many entries the console loads.
const DefaultHistoryLimit = 200

// Lister loads recorded submissions, newest first.
type Lister interface {
	List(ctx context.Context, limit int) ([]journal.Entry, error)
}

// EntriesLoadedMsg carries a history reload.
type EntriesLoadedMsg struct {
	Entries []journal.Entry
	Err     error
}

// HookDoneMsg carries the output of the post-submit hook.
type HookDoneMsg struct {
	Output string
	Err    error
}

// Console is the main Bubbletea model of `gleo console`.
type Console struct {
	ctx     context.Context
	ctrl    *wiz.Controller
	form    *wizard.Form
	history *History
	lister  Lister
	limit   int

	hook    *hooks.HookConfig
	workDir string

	ui       *state.UIState
	stateDir string

	// last submission seen, used for hook variables on refresh
	last *wizard.SubmittedMsg

	layout   Layout
	modal    uv.Rectangle
	width    int
	height   int
	quitting bool
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithHistoryLimit caps how many entries are loaded.
func WithHistoryLimit(n int) ConsoleOption {
	return func(c *Console) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithPostSubmitHook runs hook in workDir after each refresh that follows a
// successful submission.
func WithPostSubmitHook(hook *hooks.HookConfig, workDir string) ConsoleOption {
	return func(c *Console) {
		c.hook = hook
		c.workDir = workDir
	}
}

// WithUIState loads console preferences from dataDir and saves them back
// when they change and on quit.
func WithUIState(dataDir string) ConsoleOption {
	return func(c *Console) {
		c.stateDir = dataDir
		c.ui = state.Load(dataDir)
	}
}

// NewConsole creates the console. ctrl must be a popup controller whose
// notifier is toasts; lister may be nil when no history is available.
func NewConsole(ctx context.Context, ctrl *wiz.Controller, toasts *wizard.Toasts, lister Lister, opts ...ConsoleOption) *Console {
	c := &Console{
		ctx:     ctx,
		ctrl:    ctrl,
		form:    wizard.NewForm(ctx, ctrl, toasts),
		history: NewHistory(),
		lister:  lister,
		limit:   DefaultHistoryLimit,
		ui:      state.DefaultUIState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.history.Prefer(c.ui.LastEntry)
	return c
}

// Init implements tea.Model.
func (c *Console) Init() tea.Cmd {
	return tea.Batch(c.load(), c.form.Init())
}

func (c *Console) load() tea.Cmd {
	lister, ctx, limit := c.lister, c.ctx, c.limit
	return func() tea.Msg {
		if lister == nil {
			return EntriesLoadedMsg{}
		}
		entries, err := lister.List(ctx, limit)
		return EntriesLoadedMsg{Entries: entries, Err: err}
	}
}

func (c *Console) runHook(vars hooks.Variables) tea.Cmd {
	hook, ctx, dir := c.hook, c.ctx, c.workDir
	return func() tea.Msg {
		out, err := hooks.Execute(ctx, hook, dir, vars)
		return HookDoneMsg{Output: out, Err: err}
	}
}

// Update implements tea.Model.
func (c *Console) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width, c.height = msg.Width, msg.Height
		c.layout = CalculateLayout(c.width, c.height, c.ui.Detail.Visible)
		c.form.SetSize(msg.Width, msg.Height)
		return c, nil

	case EntriesLoadedMsg:
		if msg.Err != nil {
			log.Warn("load history: %v", msg.Err)
		}
		c.history.SetEntries(msg.Entries, msg.Err)
		return c, nil

	case wizard.SubmittedMsg:
		c.last = &msg
		return c, c.form.Update(msg)

	case wizard.ClosedMsg:
		log.Debug("wizard closed")
		return c, nil

	case wizard.RefreshMsg:
		cmds := []tea.Cmd{c.load()}
		if c.hook != nil && c.last != nil && c.last.Result.OK() {
			cmds = append(cmds, c.runHook(hooks.Variables{
				Code: c.last.Payload.Code,
				Name: c.last.Payload.Name,
			}))
		}
		return c, tea.Batch(cmds...)

	case HookDoneMsg:
		if msg.Err != nil {
			log.Warn("post_submit hook: %v", msg.Err)
			return c, nil
		}
		if out := strings.TrimSpace(msg.Output); out != "" {
			log.Info("post_submit hook: %s", out)
			first, _, _ := strings.Cut(out, "\n")
			return c, c.form.Toast().Show(wizard.Notice{Message: first, Severity: wiz.SeverityInfo})
		}
		return c, nil

	case tea.MouseClickMsg:
		m := msg.Mouse()
		if m.Button == tea.MouseLeft && c.ctrl.IsOpen() && !c.form.Submitting() &&
			!inRect(m.X, m.Y, c.modal) {
			c.ctrl.Close()
			return c, c.form.Reset()
		}
		return c, nil

	case tea.KeyPressMsg:
		return c, c.handleKey(msg)
	}

	return c, c.form.Update(msg)
}

func (c *Console) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return c.quit()
	}
	if c.ctrl.IsOpen() {
		return c.form.Update(msg)
	}

	switch msg.String() {
	case "q":
		return c.quit()
	case "d":
		c.ui.Detail.Visible = !c.ui.Detail.Visible
		c.layout = CalculateLayout(c.width, c.height, c.ui.Detail.Visible)
		c.saveUIState()
	case "n":
		c.ctrl.Open()
		return c.form.Reset()
	case "r":
		return c.load()
	case "j", "down":
		c.history.Move(1)
	case "k", "up":
		c.history.Move(-1)
	case "g", "home":
		c.history.Move(-c.history.Len())
	case "G", "end":
		c.history.Move(c.history.Len())
	}
	return nil
}

func (c *Console) quit() tea.Cmd {
	c.quitting = true
	if e, ok := c.history.Selected(); ok {
		c.ui.LastEntry = e.ID
	}
	c.saveUIState()
	return tea.Quit
}

func (c *Console) saveUIState() {
	if c.stateDir == "" {
		return
	}
	if err := state.Save(c.stateDir, c.ui); err != nil {
		log.Warn("save ui state: %v", err)
	}
}

// View implements tea.Model.
func (c *Console) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	if c.quitting || c.width == 0 || c.height == 0 {
		view.AltScreen = !c.quitting
		view.MouseMode = 0
		view.Content = lipglossv2.NewLayer("")
		return view
	}

	canvas := uv.NewScreenBuffer(c.width, c.height)
	c.Draw(canvas, canvas.Bounds())
	view.Content = lipglossv2.NewLayer(canvas.Render())
	view.BackgroundColor = theme.HexToColor(theme.Current().BgCrust)
	return view
}

// Draw renders the console and any overlay to the screen buffer.
func (c *Console) Draw(scr uv.Screen, area uv.Rectangle) {
	if c.layout.Area != area {
		c.layout = CalculateLayout(area.Dx(), area.Dy(), c.ui.Detail.Visible)
	}

	DrawStyled(scr, c.layout.Header, headerBar(), "gleo · events")
	c.history.Draw(scr, c.layout.List)
	if !c.layout.IsCompact() {
		c.history.DrawDetail(scr, c.layout.Detail)
	}

	if c.ctrl.IsOpen() {
		DrawText(scr, c.layout.Footer, HintPopup())
		c.modal = c.form.Draw(scr, area)
	} else {
		DrawText(scr, c.layout.Footer, HintHistory())
		c.modal = uv.Rectangle{}
	}

	wizard.DrawToast(scr, area, c.form.Toast())
}

func inRect(x, y int, r uv.Rectangle) bool {
	return x >= r.Min.X && x < r.Max.X && y >= r.Min.Y && y < r.Max.Y
}

// Run starts the console and blocks until the user quits. host must be the
// controller's wiz.Host so post-submit refreshes reach the program.
func Run(ctx context.Context, c *Console, host *wizard.ProgramHost) error {
	p := tea.NewProgram(c, tea.WithContext(ctx))
	host.Attach(p)
	defer host.Attach(nil)
	_, err := p.Run()
	return err
}
