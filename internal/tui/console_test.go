package tui

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/fbcorp/gleo/internal/hooks"
	"github.com/fbcorp/gleo/internal/state"
	"github.com/fbcorp/gleo/internal/tui/testfixtures"
	"github.com/fbcorp/gleo/internal/tui/wizard"
	wiz "github.com/fbcorp/gleo/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type immediateScheduler struct{}

func (immediateScheduler) AfterFunc(_ time.Duration, f func()) { f() }

type consoleHarness struct {
	console   *Console
	ctrl      *wiz.Controller
	lister    *testfixtures.MockLister
	transport *testfixtures.MockTransport
	refreshes atomic.Int32
}

func newConsole(t *testing.T, opts ...ConsoleOption) *consoleHarness {
	t.Helper()
	h := &consoleHarness{
		lister:    testfixtures.NewMockLister(testfixtures.Entries()),
		transport: testfixtures.NewMockTransport(),
	}
	toasts := wizard.NewToasts()
	h.ctrl = wiz.New(toasts, h.transport,
		wiz.WithHost(wiz.HostFunc(func() { h.refreshes.Add(1) })),
		wiz.WithScheduler(immediateScheduler{}),
	)
	h.console = NewConsole(context.Background(), h.ctrl, toasts, h.lister, opts...)
	h.console.Update(tea.WindowSizeMsg{Width: testfixtures.TestTermWidth, Height: testfixtures.TestTermHeight})
	h.send(t, h.console.load())
	return h
}

// send runs cmd and feeds every message it produces back into the console.
func (h *consoleHarness) send(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	msgs := runCmd(cmd)
	for _, msg := range msgs {
		h.console.Update(msg)
	}
	return msgs
}

func (h *consoleHarness) render() string {
	canvas := uv.NewScreenBuffer(testfixtures.TestTermWidth, testfixtures.TestTermHeight)
	h.console.Draw(canvas, canvas.Bounds())
	return canvas.Render()
}

func (h *consoleHarness) key(code rune, mod ...tea.KeyMod) tea.Cmd {
	msg := tea.KeyPressMsg{Code: code}
	if len(mod) > 0 {
		msg.Mod = mod[0]
	}
	_, cmd := h.console.Update(msg)
	return cmd
}

// runCmd executes cmd, expanding batches. Commands that block (timers,
// cursor blink) are abandoned after a short wait.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(testfixtures.CmdWait):
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func fillDraft(t *testing.T, ctrl *wiz.Controller) {
	t.Helper()
	require.True(t, ctrl.SetCode(testfixtures.FixedCode))
	require.True(t, ctrl.SetName(testfixtures.FixedName))
	s, ok := ctrl.Snapshot()
	require.True(t, ok)
	v := s.Vendors[0]
	require.True(t, ctrl.SetVendorName(v.ID, "BRGR"))
	require.True(t, ctrl.SetItemName(v.ID, v.MenuItems[0].ID, "Burger"))
	require.True(t, ctrl.SetItemPrice(v.ID, v.MenuItems[0].ID, "5.00"))
}

func TestConsoleShowsHistory(t *testing.T) {
	h := newConsole(t)

	out := h.render()
	assert.Contains(t, out, "History (3)")
	assert.Contains(t, out, testfixtures.FixedName)
	assert.Contains(t, out, "B0001")
	assert.Contains(t, out, "Details")
	assert.Contains(t, out, "new event")
	assert.Equal(t, DefaultHistoryLimit, h.lister.LastLimit())
}

func TestConsoleHistoryLimit(t *testing.T) {
	h := newConsole(t, WithHistoryLimit(2))
	assert.Equal(t, 2, h.lister.LastLimit())
	assert.Equal(t, 2, h.console.history.Len())
}

func TestConsoleEmptyAndErrorStates(t *testing.T) {
	h := newConsole(t)
	h.console.Update(EntriesLoadedMsg{})
	assert.Contains(t, h.render(), "No events yet")

	h.console.Update(EntriesLoadedMsg{Err: errors.New("journal offline")})
	assert.Contains(t, h.render(), "Could not load history: journal offline")
}

func TestConsoleSelection(t *testing.T) {
	h := newConsole(t)
	first, _ := h.console.history.Selected()

	h.key('j')
	second, _ := h.console.history.Selected()
	assert.NotEqual(t, first.ID, second.ID)

	h.key(tea.KeyEnd)
	last, _ := h.console.history.Selected()
	assert.Equal(t, testfixtures.Entries()[2].ID, last.ID)

	h.key('j')
	stay, _ := h.console.history.Selected()
	assert.Equal(t, last.ID, stay.ID, "selection is clamped")

	h.key('k')
	h.key('k')
	h.key('k')
	top, _ := h.console.history.Selected()
	assert.Equal(t, first.ID, top.ID)
}

func TestConsoleReloadKeepsSelection(t *testing.T) {
	h := newConsole(t)
	h.key('j')
	selected, _ := h.console.history.Selected()

	h.send(t, h.key('r'))
	assert.Equal(t, 2, h.lister.Calls())
	after, _ := h.console.history.Selected()
	assert.Equal(t, selected.ID, after.ID)
}

func TestConsoleOpensAndClosesPopup(t *testing.T) {
	h := newConsole(t)

	h.key('n')
	require.True(t, h.ctrl.IsOpen())
	assert.Contains(t, h.render(), "New Event · Step 1 of 3: Event Details")

	h.key('q')
	assert.True(t, h.ctrl.IsOpen(), "keys go to the wizard while it is open")

	msgs := h.send(t, h.key(tea.KeyEscape))
	assert.Contains(t, msgs, tea.Msg(wizard.ClosedMsg{}))
	assert.False(t, h.ctrl.IsOpen())
	assert.NotContains(t, h.render(), "New Event")
}

func TestConsoleClickOutsideClosesPopup(t *testing.T) {
	h := newConsole(t)
	h.key('n')
	h.render()

	modal := h.console.modal
	require.False(t, modal.Empty())

	h.console.Update(tea.MouseClickMsg{Button: tea.MouseLeft, X: modal.Min.X + 1, Y: modal.Min.Y + 1})
	assert.True(t, h.ctrl.IsOpen(), "clicks inside the modal keep it open")

	h.console.Update(tea.MouseClickMsg{Button: tea.MouseLeft, X: 0, Y: 0})
	assert.False(t, h.ctrl.IsOpen())
}

func TestConsoleSubmitRefreshesAndRunsHook(t *testing.T) {
	hook := &hooks.HookConfig{Command: "echo created {{code}}", Timeout: 5}
	h := newConsole(t, WithPostSubmitHook(hook, t.TempDir()))

	h.key('n')
	fillDraft(t, h.ctrl)
	h.console.form.Reset()
	h.key('n', tea.ModCtrl)
	h.key('n', tea.ModCtrl)
	require.Equal(t, wiz.StepMenuItems, h.ctrl.Step())

	h.send(t, h.key('s', tea.ModCtrl))
	require.Len(t, h.transport.Payloads(), 1)
	assert.False(t, h.ctrl.IsOpen(), "popup closes after success")
	assert.Equal(t, int32(1), h.refreshes.Load())

	msgs := runCmd(func() tea.Cmd { _, cmd := h.console.Update(wizard.RefreshMsg{}); return cmd }())
	assert.Contains(t, msgs, tea.Msg(HookDoneMsg{Output: "created A1234\n"}))
	for _, msg := range msgs {
		h.console.Update(msg)
	}
	assert.Equal(t, 2, h.lister.Calls())

	n, ok := h.console.form.Toast().Current()
	require.True(t, ok)
	assert.Equal(t, "created A1234", n.Message)
}

func TestConsoleFailedSubmitSkipsHook(t *testing.T) {
	hook := &hooks.HookConfig{Command: "echo should-not-run", Timeout: 5}
	h := newConsole(t, WithPostSubmitHook(hook, t.TempDir()))
	h.transport.Response = wiz.Response{Error: "Event code already exists."}

	h.key('n')
	fillDraft(t, h.ctrl)
	h.console.form.Reset()
	h.key('n', tea.ModCtrl)
	h.key('n', tea.ModCtrl)
	h.send(t, h.key('s', tea.ModCtrl))

	assert.True(t, h.ctrl.IsOpen())
	assert.Equal(t, int32(0), h.refreshes.Load())

	_, cmd := h.console.Update(wizard.RefreshMsg{})
	for _, msg := range runCmd(cmd) {
		_, isHook := msg.(HookDoneMsg)
		assert.False(t, isHook)
	}
}

func TestConsoleQuit(t *testing.T) {
	h := newConsole(t)
	cmd := h.key('q')
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, h.console.quitting)
}

func TestConsoleRemembersPreferences(t *testing.T) {
	dir := t.TempDir()
	h := newConsole(t, WithUIState(dir))
	assert.Contains(t, h.render(), "Details")

	h.key('d')
	assert.NotContains(t, h.render(), "Details")
	h.key('j')
	h.key('q')

	saved := state.Load(dir)
	assert.False(t, saved.Detail.Visible)
	assert.Equal(t, testfixtures.Entries()[1].ID, saved.LastEntry)

	again := newConsole(t, WithUIState(dir))
	selected, ok := again.console.history.Selected()
	require.True(t, ok)
	assert.Equal(t, testfixtures.Entries()[1].ID, selected.ID)
	assert.NotContains(t, again.render(), "Details")
}

func TestEntryMarkdown(t *testing.T) {
	md := EntryMarkdown(testfixtures.Entries()[1])
	assert.Contains(t, md, "# Spring Fest")
	assert.Contains(t, md, "| Outcome | failed |")
	assert.Contains(t, md, "| Sent via | http |")
	assert.Contains(t, md, "> Event code already exists.")
}

func TestRenderHintBar(t *testing.T) {
	assert.Empty(t, RenderHintBar("odd"))
	assert.Contains(t, HintHistory(), "new event")
	assert.Contains(t, HintPopup(), "click outside")
}
