package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitReferenceEvent(t *testing.T) {
	h := newHarness()
	h.c.Open()
	h.fillValid()
	require.True(t, h.c.Next())
	require.True(t, h.c.Next())

	res := h.c.Submit(context.Background())
	require.True(t, res.OK(), "result: %+v", res)
	assert.Equal(t, DefaultSuccessMessage, res.Message)

	require.Equal(t, 1, h.tr.calls())
	body, err := json.Marshal(h.tr.payloads[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"code": "A1234",
		"name": "Spring Fest",
		"startAt": null,
		"endAt": null,
		"vendors": [{
			"name": "BRGR",
			"pin": "",
			"menuItems": [{"name": "Burger", "price": "5.00", "maxPerOrder": null}]
		}]
	}`, string(body))
}

func TestSubmitSuccessClosesAndRefreshes(t *testing.T) {
	h := newHarness(WithRefreshDelay(250 * time.Millisecond))
	h.tr.resp = Response{OK: true, Message: "Event A1234 created", Data: json.RawMessage(`{"id":7}`)}
	h.c.Open()
	h.fillValid()

	res := h.c.Submit(context.Background())
	require.Equal(t, ResultSucceeded, res.Status)
	assert.JSONEq(t, `{"id":7}`, string(res.Data))
	assert.False(t, h.c.IsOpen())
	assert.Equal(t, notification{"Event A1234 created", SeveritySuccess}, h.notes.last())

	// The refresh waits for the scheduler so the toast stays visible.
	assert.Equal(t, 0, h.host.count())
	require.Len(t, h.sched.pending, 1)
	assert.Equal(t, 250*time.Millisecond, h.sched.pending[0].delay)
	h.sched.fire()
	assert.Equal(t, 1, h.host.count())
}

func TestSubmitSuccessStandaloneResets(t *testing.T) {
	h := newHarness(WithMode(ModeStandalone))
	h.fillValid()

	require.True(t, h.c.Submit(context.Background()).OK())
	require.True(t, h.c.IsOpen())
	s, _ := h.c.Snapshot()
	assert.Equal(t, StepEventDetails, s.Step)
	assert.Empty(t, s.Event.Code)
	assert.False(t, s.Submitting)
}

func TestSubmitServerFailure(t *testing.T) {
	tests := []struct {
		name    string
		resp    Response
		err     error
		message string
	}{
		{"server error text", Response{Error: "duplicate code", Code: "duplicate_code"}, nil, "duplicate code"},
		{"server error without text", Response{}, nil, DefaultFailureMessage},
		{"transport error", Response{}, errors.New("connection refused"), "connection refused"},
		{"blank transport error", Response{}, errors.New("  "), DefaultFailureMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.tr.resp, h.tr.err = tt.resp, tt.err
			h.c.Open()
			h.fillValid()
			require.True(t, h.c.Next())
			require.True(t, h.c.Next())

			res := h.c.Submit(context.Background())
			assert.Equal(t, ResultFailed, res.Status)
			assert.Equal(t, tt.message, res.Message)
			assert.Equal(t, tt.resp.Code, res.Code)

			require.True(t, h.c.IsOpen())
			assert.Equal(t, StepMenuItems, h.c.Step())
			assert.False(t, h.c.IsSubmitting())
			assert.Equal(t, notification{tt.message, SeverityError}, h.notes.last())
			assert.Empty(t, h.sched.pending)
		})
	}
}

func TestSubmitRetryAfterFailure(t *testing.T) {
	h := newHarness()
	h.tr.resp = Response{Error: "duplicate code"}
	h.c.Open()
	h.fillValid()

	require.False(t, h.c.Submit(context.Background()).OK())
	h.c.SetCode("A1235")
	h.tr.resp = Response{OK: true}
	require.True(t, h.c.Submit(context.Background()).OK())
	require.Equal(t, 2, h.tr.calls())
	assert.Equal(t, "A1235", h.tr.payloads[1].Code)
}

func TestSubmitInvalidDraftNotSent(t *testing.T) {
	h := newHarness()
	h.c.Open()
	h.fillValid()
	s, _ := h.c.Snapshot()
	h.c.SetItemPrice(s.Vendors[0].ID, s.Vendors[0].MenuItems[0].ID, "-1")

	res := h.c.Submit(context.Background())
	assert.Equal(t, ResultInvalid, res.Status)
	var verr *ValidationError
	require.ErrorAs(t, res.Err, &verr)
	assert.Equal(t, StepMenuItems, verr.Step)
	assert.Equal(t, 0, h.tr.calls())
	assert.False(t, h.c.IsSubmitting())
	assert.Equal(t, SeverityWarning, h.notes.last().Severity)
}

func TestSubmitChecksEarlierSteps(t *testing.T) {
	h := newHarness()
	h.c.Open()
	h.fillValid()
	h.c.SetCode("a123")

	res := h.c.Submit(context.Background())
	assert.Equal(t, ResultInvalid, res.Status)
	assert.Equal(t, 0, h.tr.calls())
}

func TestSubmitWithoutSession(t *testing.T) {
	h := newHarness()
	res := h.c.Submit(context.Background())
	assert.Equal(t, ResultClosed, res.Status)
	assert.ErrorIs(t, res.Err, ErrNoSession)
}

func TestSubmitIsNotReentrant(t *testing.T) {
	h := newHarness()
	var inner Result
	var sawSubmitting bool
	h.c = New(h.notes, TransportFunc(func(ctx context.Context, p Payload) (Response, error) {
		sawSubmitting = h.c.IsSubmitting()
		inner = h.c.Submit(ctx)
		return Response{OK: true}, nil
	}), WithScheduler(h.sched))
	h.c.Open()
	h.fillValid()

	outer := h.c.Submit(context.Background())
	assert.True(t, outer.OK())
	assert.True(t, sawSubmitting)
	assert.Equal(t, ResultBusy, inner.Status)
	assert.Equal(t, 1, h.notes.count(SeveritySuccess))
}

func TestSubmitTimeout(t *testing.T) {
	h := newHarness()
	h.c = New(h.notes, TransportFunc(func(ctx context.Context, p Payload) (Response, error) {
		<-ctx.Done()
		return Response{}, ctx.Err()
	}), WithTimeout(10*time.Millisecond))
	h.c.Open()
	h.fillValid()

	res := h.c.Submit(context.Background())
	assert.Equal(t, ResultFailed, res.Status)
	assert.Equal(t, TimeoutMessage, res.Message)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.False(t, h.c.IsSubmitting())
}

func TestSubmitRecoversTransportPanic(t *testing.T) {
	h := newHarness()
	h.c = New(h.notes, TransportFunc(func(context.Context, Payload) (Response, error) {
		panic("boom")
	}))
	h.c.Open()
	h.fillValid()

	res := h.c.Submit(context.Background())
	assert.Equal(t, ResultFailed, res.Status)
	assert.Contains(t, res.Message, "boom")
	assert.False(t, h.c.IsSubmitting())
	assert.True(t, h.c.IsOpen())
}

func TestSubmitResultForClosedSession(t *testing.T) {
	h := newHarness()
	release := make(chan struct{})
	started := make(chan struct{})
	h.c = New(h.notes, TransportFunc(func(context.Context, Payload) (Response, error) {
		close(started)
		<-release
		return Response{Error: "duplicate code"}, nil
	}))
	h.c.Open()
	h.fillValid()

	done := make(chan Result)
	go func() { done <- h.c.Submit(context.Background()) }()
	<-started

	// Close and reopen while the request is in flight.
	h.c.Close()
	h.c.Open()
	h.c.SetCode("Z9999")
	close(release)
	res := <-done

	assert.Equal(t, ResultFailed, res.Status)
	s, ok := h.c.Snapshot()
	require.True(t, ok)
	assert.Equal(t, StepEventDetails, s.Step)
	assert.Equal(t, "Z9999", s.Event.Code)
	assert.False(t, s.Submitting)
	assert.Equal(t, notification{"duplicate code", SeverityError}, h.notes.last())
}

func TestLoadDuringSubmitStartsIdleSession(t *testing.T) {
	h := newHarness()
	release := make(chan struct{})
	started := make(chan struct{})
	calls := 0
	h.c = New(h.notes, TransportFunc(func(context.Context, Payload) (Response, error) {
		calls++
		if calls == 1 {
			close(started)
			<-release
			return Response{Error: "duplicate code"}, nil
		}
		return Response{OK: true}, nil
	}))
	h.c.Open()
	h.fillValid()

	done := make(chan Result)
	go func() { done <- h.c.Submit(context.Background()) }()
	<-started

	require.True(t, h.c.Load(EventPrefill{
		Code: "B2345",
		Name: "Autumn Fair",
		Vendors: []VendorPrefill{{
			Name:      "Tea",
			MenuItems: []ItemPrefill{{Name: "Chai", Price: "1"}},
		}},
	}))
	assert.False(t, h.c.IsSubmitting())

	close(release)
	assert.Equal(t, ResultFailed, (<-done).Status)
	assert.False(t, h.c.IsSubmitting())

	h.c.Next()
	h.c.Next()
	res := h.c.Submit(context.Background())
	assert.Equal(t, ResultSucceeded, res.Status)
	assert.Equal(t, 2, calls)
}

func TestResultStatusString(t *testing.T) {
	assert.Equal(t, "succeeded", ResultSucceeded.String())
	assert.Equal(t, "busy", ResultBusy.String())
	assert.Equal(t, "ResultStatus(42)", ResultStatus(42).String())
}
