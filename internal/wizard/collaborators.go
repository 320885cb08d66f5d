package wizard

import (
	"context"
	"encoding/json"
	"time"
)

// Severity classifies a user-facing notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

// String returns the lower-case severity name.
func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Notifier shows a non-blocking message to the user.
type Notifier interface {
	Notify(message string, severity Severity)
}

// NotifyFunc adapts a function to the Notifier interface.
type NotifyFunc func(message string, severity Severity)

// Notify calls f(message, severity).
func (f NotifyFunc) Notify(message string, severity Severity) {
	f(message, severity)
}

// Response is the decoded reply of the event service.
// OK is false for any non-success reply; Error then carries the server's
// message, possibly empty.
type Response struct {
	OK      bool
	Message string
	Error   string
	Code    string
	Data    json.RawMessage
}

// Transport delivers a payload to the event service. A non-nil error means
// the request did not produce a reply (network failure, timeout).
type Transport interface {
	Submit(ctx context.Context, payload Payload) (Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, payload Payload) (Response, error)

// Submit calls f(ctx, payload).
func (f TransportFunc) Submit(ctx context.Context, payload Payload) (Response, error) {
	return f(ctx, payload)
}

// Host is the surface embedding the wizard. Refresh asks it to reload its
// own state after an event was created.
type Host interface {
	Refresh()
}

// HostFunc adapts a function to the Host interface.
type HostFunc func()

// Refresh calls f().
func (f HostFunc) Refresh() { f() }

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// SystemScheduler returns a Scheduler backed by time.AfterFunc.
func SystemScheduler() Scheduler {
	return systemScheduler{}
}
