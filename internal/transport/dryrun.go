package transport

import (
	"context"
	"sync"

	"github.com/fbcorp/gleo/internal/wizard"
)

// DryRunMessage is the success message of a dry run.
const DryRunMessage = "Dry run: payload not sent"

// DryRun accepts every payload without sending it and keeps the last one.
type DryRun struct {
	mu   sync.Mutex
	last *wizard.Payload
	sent int
}

// NewDryRun creates a dry-run transport.
func NewDryRun() *DryRun {
	return &DryRun{}
}

// Submit records p and answers OK.
func (d *DryRun) Submit(_ context.Context, p wizard.Payload) (wizard.Response, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = &p
	d.sent++
	log.Info("dry run for %s", p.Code)
	return wizard.Response{OK: true, Message: DryRunMessage}, nil
}

// Last returns the most recent payload.
func (d *DryRun) Last() (wizard.Payload, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.last == nil {
		return wizard.Payload{}, false
	}
	return *d.last, true
}

// Count returns how many payloads were accepted.
func (d *DryRun) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sent
}
