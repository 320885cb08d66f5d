package wizard

import (
	"context"
	"sync"
	"time"
)

type notification struct {
	Message  string
	Severity Severity
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []notification
}

func (r *recordingNotifier) Notify(message string, severity Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, notification{message, severity})
}

func (r *recordingNotifier) all() []notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification(nil), r.notes...)
}

func (r *recordingNotifier) last() notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return notification{}
	}
	return r.notes[len(r.notes)-1]
}

func (r *recordingNotifier) count(sev Severity) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, note := range r.notes {
		if note.Severity == sev {
			n++
		}
	}
	return n
}

type fakeTransport struct {
	mu       sync.Mutex
	payloads []Payload
	resp     Response
	err      error
}

func (f *fakeTransport) Submit(_ context.Context, p Payload) (Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, p)
	return f.resp, f.err
}

func (f *fakeTransport) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

type scheduled struct {
	delay time.Duration
	fn    func()
}

type manualScheduler struct {
	mu      sync.Mutex
	pending []scheduled
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, scheduled{d, f})
}

func (m *manualScheduler) fire() int {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, s := range pending {
		s.fn()
	}
	return len(pending)
}

type refreshCounter struct {
	mu sync.Mutex
	n  int
}

func (r *refreshCounter) Refresh() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.n++
}

func (r *refreshCounter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

type harness struct {
	c     *Controller
	notes *recordingNotifier
	tr    *fakeTransport
	sched *manualScheduler
	host  *refreshCounter
}

func newHarness(opts ...Option) *harness {
	h := &harness{
		notes: &recordingNotifier{},
		tr:    &fakeTransport{resp: Response{OK: true}},
		sched: &manualScheduler{},
		host:  &refreshCounter{},
	}
	opts = append([]Option{WithScheduler(h.sched), WithHost(h.host)}, opts...)
	h.c = New(h.notes, h.tr, opts...)
	return h
}

// fillValid turns the seeded single-vendor draft into the reference event.
func (h *harness) fillValid() (VendorID, ItemID) {
	h.c.SetCode("A1234")
	h.c.SetName("Spring Fest")
	s, _ := h.c.Snapshot()
	v := s.Vendors[0]
	h.c.SetVendorName(v.ID, "BRGR")
	item := v.MenuItems[0]
	h.c.SetItemName(v.ID, item.ID, "Burger")
	h.c.SetItemPrice(v.ID, item.ID, "5.00")
	return v.ID, item.ID
}
