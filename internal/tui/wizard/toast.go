package wizard

import (
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/fbcorp/gleo/internal/tui/theme"
	wiz "github.com/fbcorp/gleo/internal/wizard"
)

// ToastDuration is how long a toast stays on screen.
const ToastDuration = 3 * time.Second

// Toasts collects controller notifications until the UI drains them. It is
// safe to call Notify from the goroutine running a submission.
type Toasts struct {
	mu      sync.Mutex
	pending []Notice
}

// Notice is one queued notification.
type Notice struct {
	Message  string
	Severity wiz.Severity
}

// NewToasts creates an empty collector.
func NewToasts() *Toasts {
	return &Toasts{}
}

// Notify implements wiz.Notifier.
func (t *Toasts) Notify(message string, severity wiz.Severity) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = append(t.pending, Notice{Message: message, Severity: severity})
}

// Drain returns and clears the queued notifications.
func (t *Toasts) Drain() []Notice {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.pending
	t.pending = nil
	return out
}

// ToastDismissMsg is sent when a toast should be dismissed. Seq ties it to
// the toast it was scheduled for so an older timer cannot hide a newer toast.
type ToastDismissMsg struct {
	Seq int
}

// Toast is a minimal toast notification component.
// Shows a message in the bottom-right corner that auto-dismisses after ToastDuration.
type Toast struct {
	notice  Notice
	visible bool
	seq     int
}

// NewToast creates a new Toast component.
func NewToast() *Toast {
	return &Toast{}
}

// Show displays a notice and returns the command that dismisses it.
func (t *Toast) Show(n Notice) tea.Cmd {
	t.notice = n
	t.visible = true
	t.seq++
	seq := t.seq
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg {
		return ToastDismissMsg{Seq: seq}
	})
}

// Update handles messages for the toast component.
func (t *Toast) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(ToastDismissMsg); ok && msg.Seq == t.seq {
		t.visible = false
		t.notice = Notice{}
	}
	return nil
}

// View renders the toast right-aligned in width. Returns empty string if
// the toast is not visible.
func (t *Toast) View(width int) string {
	if !t.visible || t.notice.Message == "" {
		return ""
	}

	th := theme.Current()
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.BgBase)).
		Background(lipgloss.Color(th.SeverityColor(t.notice.Severity.String()))).
		Padding(0, 1).
		Bold(true)

	content := style.Render(t.notice.Message)
	if width > 2 && lipgloss.Width(content) > width-2 {
		content = style.Width(width - 2).Render(t.notice.Message)
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Right).
		Render(content)
}

// IsVisible returns whether the toast is currently visible.
func (t *Toast) IsVisible() bool {
	return t.visible
}

// Current returns the visible notice.
func (t *Toast) Current() (Notice, bool) {
	return t.notice, t.visible
}
