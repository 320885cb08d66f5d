// Package transport implements the delivery channels that carry a wizard
// payload to the event service.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fbcorp/gleo/internal/logger"
	"github.com/fbcorp/gleo/internal/wizard"
	"github.com/google/uuid"
)

var log = logger.Default.With("transport")

// maxBody caps how much of a reply is read.
const maxBody = 1 << 20

// body is the JSON reply contract shared by every transport.
type body struct {
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Code    string          `json:"code,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (b body) response(ok bool) wizard.Response {
	return wizard.Response{OK: ok, Message: b.Message, Error: b.Error, Code: b.Code, Data: b.Data}
}

// HTTP posts payloads as JSON to the admin events endpoint.
type HTTP struct {
	endpoint string
	client   *http.Client
	auth     Authenticator
	newKey   func() string
}

// HTTPOption configures an HTTP transport.
type HTTPOption func(*HTTP)

// WithClient replaces http.DefaultClient.
func WithClient(c *http.Client) HTTPOption {
	return func(h *HTTP) { h.client = c }
}

// WithAuth sets the credentials attached to each request.
func WithAuth(a Authenticator) HTTPOption {
	return func(h *HTTP) { h.auth = a }
}

// WithIdempotencyKeys replaces the uuid generator for Idempotency-Key.
func WithIdempotencyKeys(f func() string) HTTPOption {
	return func(h *HTTP) { h.newKey = f }
}

// NewHTTP creates a transport posting to endpoint.
func NewHTTP(endpoint string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		endpoint: endpoint,
		client:   http.DefaultClient,
		auth:     BearerToken(""),
		newKey:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Submit sends one request. Non-2xx replies are returned as a failed
// Response, not an error; only requests that got no reply return an error.
func (h *HTTP) Submit(ctx context.Context, p wizard.Payload) (wizard.Response, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return wizard.Response{}, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(data))
	if err != nil {
		return wizard.Response{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Idempotency-Key", h.newKey())
	if err := h.auth.Authorize(req); err != nil {
		return wizard.Response{}, err
	}

	start := time.Now()
	res, err := h.client.Do(req)
	if err != nil {
		log.Warn("POST %s failed: %v", h.endpoint, err)
		return wizard.Response{}, fmt.Errorf("post event: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return wizard.Response{}, fmt.Errorf("read reply: %w", err)
	}
	ok := res.StatusCode >= 200 && res.StatusCode < 300
	log.Debug("POST %s -> %d in %s", h.endpoint, res.StatusCode, time.Since(start))

	var b body
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &b); err != nil {
			log.Debug("reply is not JSON: %v", err)
			b = body{}
		}
	}
	return b.response(ok), nil
}
