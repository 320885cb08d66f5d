package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultFailureMessage is shown when a failed submission carries no message.
const DefaultFailureMessage = "Failed to create event"

// DefaultSuccessMessage is shown when the service accepts without a message.
const DefaultSuccessMessage = "Event created"

// TimeoutMessage is shown when the transport exceeded the controller timeout.
const TimeoutMessage = "The event service did not respond in time"

// ResultStatus tags the outcome of Submit.
type ResultStatus int

const (
	// ResultSucceeded means the service created the event.
	ResultSucceeded ResultStatus = iota
	// ResultFailed means the transport failed or the service refused.
	ResultFailed
	// ResultInvalid means a step validator refused the draft; nothing was sent.
	ResultInvalid
	// ResultBusy means another submission was already in flight.
	ResultBusy
	// ResultClosed means there was no open session.
	ResultClosed
)

func (s ResultStatus) String() string {
	switch s {
	case ResultSucceeded:
		return "succeeded"
	case ResultFailed:
		return "failed"
	case ResultInvalid:
		return "invalid"
	case ResultBusy:
		return "busy"
	case ResultClosed:
		return "closed"
	default:
		return fmt.Sprintf("ResultStatus(%d)", int(s))
	}
}

// Result is the outcome of one Submit call. Message is the text that was
// shown to the user, if any.
type Result struct {
	Status  ResultStatus
	Message string
	Code    string
	Data    json.RawMessage
	Err     error
}

// OK reports whether the event was created.
func (r Result) OK() bool {
	return r.Status == ResultSucceeded
}

// Submit validates the draft and sends it through the transport. It returns
// immediately with ResultBusy while another submission is in flight. The
// submitting flag is cleared on every path, including transport panics and
// timeouts.
func (c *Controller) Submit(ctx context.Context) Result {
	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		c.warn(ErrNoSession)
		return Result{Status: ResultClosed, Message: ErrNoSession.Error(), Err: ErrNoSession}
	}
	if s.Submitting {
		c.mu.Unlock()
		c.log.Debug("submit ignored: already submitting")
		return Result{Status: ResultBusy}
	}
	if err := CheckAll(*s); err != nil {
		c.mu.Unlock()
		c.log.Debug("submit refused: %v", err)
		c.warn(err)
		return Result{Status: ResultInvalid, Message: err.Error(), Err: err}
	}
	s.Submitting = true
	payload := BuildPayload(*s)
	c.mu.Unlock()

	c.log.Info("submitting event %s (%d vendors)", payload.Code, len(payload.Vendors))
	resp, err := c.send(ctx, payload)

	c.mu.Lock()
	current := c.session == s
	s.Submitting = false
	var res Result
	if err == nil && resp.OK {
		res = Result{Status: ResultSucceeded, Message: successMessage(resp), Code: resp.Code, Data: resp.Data}
		if current {
			c.closeLocked()
		}
	} else {
		res = Result{Status: ResultFailed, Message: failureMessage(resp, err), Code: resp.Code, Err: err}
		if current {
			s.Step = StepMenuItems
		}
	}
	c.mu.Unlock()

	if !current {
		c.log.Debug("submit result for a closed session: %s", res.Status)
	}
	if res.OK() {
		c.log.Info("event %s created", payload.Code)
		c.notifier.Notify(res.Message, SeveritySuccess)
		if c.host != nil {
			c.scheduler.AfterFunc(c.refreshDelay, c.host.Refresh)
		}
		return res
	}
	c.log.Warn("event %s not created: %s", payload.Code, res.Message)
	c.notifier.Notify(res.Message, SeverityError)
	return res
}

func (c *Controller) send(ctx context.Context, payload Payload) (resp Response, err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("transport panic: %v", r)
			resp, err = Response{}, fmt.Errorf("transport panic: %v", r)
		}
	}()
	if c.transport == nil {
		return Response{}, errors.New("no transport configured")
	}
	return c.transport.Submit(ctx, payload)
}

func successMessage(resp Response) string {
	if msg := strings.TrimSpace(resp.Message); msg != "" {
		return msg
	}
	return DefaultSuccessMessage
}

func failureMessage(resp Response, err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutMessage
	}
	msg := resp.Error
	if err != nil {
		msg = err.Error()
	}
	if msg = strings.TrimSpace(msg); msg != "" {
		return msg
	}
	return DefaultFailureMessage
}
