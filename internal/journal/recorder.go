package journal

import (
	"context"

	"github.com/fbcorp/gleo/internal/wizard"
)

// Recorder is a wizard.Transport that journals every attempt made through
// the transport it wraps. Journal failures are logged and never change the
// submission result.
type Recorder struct {
	next    wizard.Transport
	journal *Journal
	name    string
}

// NewRecorder wraps next. name identifies the transport in entries.
func NewRecorder(next wizard.Transport, j *Journal, name string) *Recorder {
	return &Recorder{next: next, journal: j, name: name}
}

// Submit forwards to the wrapped transport and records the outcome.
func (r *Recorder) Submit(ctx context.Context, p wizard.Payload) (wizard.Response, error) {
	resp, err := r.next.Submit(ctx, p)

	e := EntryForPayload(p, r.name)
	switch {
	case err != nil:
		e.Outcome, e.Message = OutcomeFailed, err.Error()
	case resp.OK:
		e.Outcome, e.Message = OutcomeSucceeded, resp.Message
	default:
		e.Outcome, e.Message = OutcomeFailed, resp.Error
	}
	if _, rerr := r.journal.Record(context.WithoutCancel(ctx), e); rerr != nil {
		log.Warn("could not journal %s: %v", p.Code, rerr)
	}
	return resp, err
}

// EntryForPayload fills the descriptive fields of an entry from a payload.
func EntryForPayload(p wizard.Payload, transport string) Entry {
	e := Entry{
		Code:      p.Code,
		Name:      p.Name,
		Vendors:   len(p.Vendors),
		Transport: transport,
	}
	for _, v := range p.Vendors {
		e.Items += len(v.MenuItems)
	}
	return e
}
