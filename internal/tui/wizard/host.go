package wizard

import (
	"sync"

	tea "charm.land/bubbletea/v2"
)

// RefreshMsg asks the program hosting the wizard to reload its data after
// an event was created.
type RefreshMsg struct{}

// ProgramHost implements wiz.Host by sending RefreshMsg to a running
// program. Refresh calls made before Attach are dropped.
type ProgramHost struct {
	mu      sync.Mutex
	program *tea.Program
}

// NewProgramHost creates a host with no program attached.
func NewProgramHost() *ProgramHost {
	return &ProgramHost{}
}

// Attach binds the host to p.
func (h *ProgramHost) Attach(p *tea.Program) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.program = p
}

// Refresh implements wiz.Host.
func (h *ProgramHost) Refresh() {
	h.mu.Lock()
	p := h.program
	h.mu.Unlock()
	if p != nil {
		p.Send(RefreshMsg{})
	}
}
