// Package testfixtures provides mock implementations and test utilities for TUI testing.
//
//   - MockLister: controllable history source for the console
//   - MockTransport: records submitted payloads and returns a configured response
//
// All mocks are thread-safe and provide verification methods for assertions in tests.
package testfixtures

import (
	"context"
	"sync"

	"github.com/fbcorp/gleo/internal/journal"
	"github.com/fbcorp/gleo/internal/wizard"
)

// MockLister is a mock history source.
type MockLister struct {
	mu sync.Mutex

	// Entries to return from List
	Entries []journal.Entry
	// Error to return from List
	Err error

	calls     int
	lastLimit int
}

// NewMockLister creates a lister returning entries.
func NewMockLister(entries []journal.Entry) *MockLister {
	return &MockLister{Entries: entries}
}

// List returns the configured entries, truncated to limit.
func (m *MockLister) List(_ context.Context, limit int) ([]journal.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.lastLimit = limit
	if m.Err != nil {
		return nil, m.Err
	}
	out := append([]journal.Entry(nil), m.Entries...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Calls returns how many times List ran.
func (m *MockLister) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastLimit returns the limit passed to the most recent List call.
func (m *MockLister) LastLimit() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastLimit
}

// MockTransport is a mock event service.
type MockTransport struct {
	mu sync.Mutex

	// Response and Err are returned from Submit
	Response wizard.Response
	Err      error

	payloads []wizard.Payload
}

// NewMockTransport creates a transport that accepts every payload.
func NewMockTransport() *MockTransport {
	return &MockTransport{Response: wizard.Response{OK: true}}
}

// Submit records the payload.
func (m *MockTransport) Submit(_ context.Context, p wizard.Payload) (wizard.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, p)
	return m.Response, m.Err
}

// Payloads returns the submitted payloads in order.
func (m *MockTransport) Payloads() []wizard.Payload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]wizard.Payload(nil), m.payloads...)
}
