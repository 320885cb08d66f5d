package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fbcorp/gleo/internal/wizard"
	"github.com/nats-io/nats.go"
)

// ErrNoService is returned when nobody answers on the submission subject.
var ErrNoService = errors.New("no event service is listening")

// NATS submits payloads with a request/reply round trip. The reply body
// follows the same JSON contract as the HTTP endpoint plus an "ok" flag.
type NATS struct {
	conn    *nats.Conn
	subject string
}

// NewNATS creates a transport on an existing connection.
func NewNATS(conn *nats.Conn, subject string) *NATS {
	return &NATS{conn: conn, subject: subject}
}

type natsReply struct {
	OK bool `json:"ok"`
	body
}

// Submit publishes the payload and waits for one reply.
func (n *NATS) Submit(ctx context.Context, p wizard.Payload) (wizard.Response, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return wizard.Response{}, fmt.Errorf("encode payload: %w", err)
	}

	msg, err := n.conn.RequestWithContext(ctx, n.subject, data)
	if errors.Is(err, nats.ErrNoResponders) {
		return wizard.Response{}, ErrNoService
	}
	if err != nil {
		log.Warn("request on %s failed: %v", n.subject, err)
		return wizard.Response{}, fmt.Errorf("request %s: %w", n.subject, err)
	}

	var reply natsReply
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return wizard.Response{}, fmt.Errorf("decode reply: %w", err)
	}
	return reply.response(reply.OK), nil
}

// Close closes the underlying connection.
func (n *NATS) Close() {
	n.conn.Close()
}

// EncodeReply builds a reply body for a NATS responder.
func EncodeReply(r wizard.Response) ([]byte, error) {
	return json.Marshal(natsReply{
		OK:   r.OK,
		body: body{Message: r.Message, Error: r.Error, Code: r.Code, Data: r.Data},
	})
}
