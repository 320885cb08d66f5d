// Package journal keeps a local, append-only history of event submissions
// in an embedded JetStream stream. It records outcomes only; drafts are
// never persisted.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fbcorp/gleo/internal/logger"
	"github.com/fbcorp/gleo/internal/nats"
	"github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/xid"
)

var log = logger.Default.With("journal")

// Outcome of a recorded submission.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeInvalid   Outcome = "invalid"
)

// Entry is one submission attempt.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Vendors   int       `json:"vendors"`
	Items     int       `json:"items"`
	Outcome   Outcome   `json:"outcome"`
	Message   string    `json:"message,omitempty"`
	Transport string    `json:"transport,omitempty"`
}

// Journal is an open submission history.
type Journal struct {
	ns     *server.Server
	nc     *natsgo.Conn
	js     jetstream.JetStream
	stream jetstream.Stream
}

// Dir returns the store directory used for a data dir.
func Dir(dataDir string) string {
	return filepath.Join(dataDir, "journal")
}

// Open starts the embedded store under dataDir and prepares the stream.
func Open(ctx context.Context, dataDir string) (*Journal, error) {
	dir := Dir(dataDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	ns, err := nats.StartEmbedded(dir)
	if err != nil {
		return nil, err
	}
	nc, err := nats.ConnectInProcess(ns)
	if err != nil {
		_ = nats.Shutdown(nil, ns)
		return nil, err
	}
	j := &Journal{ns: ns, nc: nc}

	if j.js, err = nats.NewJetStream(nc); err != nil {
		_ = j.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	if j.stream, err = nats.SetupJournalStream(ctx, j.js); err != nil {
		_ = j.Close()
		return nil, fmt.Errorf("setup journal stream: %w", err)
	}
	log.Debug("opened at %s", dir)
	return j, nil
}

// Record appends an entry. ID and Timestamp are filled in when empty.
func (j *Journal) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = xid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return e, fmt.Errorf("marshal entry: %w", err)
	}
	subject := nats.SubjectForEvent(e.Code)
	ack, err := j.js.Publish(ctx, subject, data)
	if err != nil {
		log.Error("publish to %s: %v", subject, err)
		return e, fmt.Errorf("record entry: %w", err)
	}
	log.Debug("recorded %s %s seq=%d", e.Code, e.Outcome, ack.Sequence)
	return e, nil
}

// List returns up to limit entries, newest first. A limit of 0 or less
// returns everything still retained.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	info, err := j.stream.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("stream info: %w", err)
	}
	state := info.State
	if state.Msgs == 0 {
		return []Entry{}, nil
	}

	start := state.FirstSeq
	if limit > 0 && state.LastSeq >= uint64(limit) && state.LastSeq-uint64(limit)+1 > start {
		start = state.LastSeq - uint64(limit) + 1
	}

	consumer, err := nats.ReplayFrom(ctx, j.stream, start)
	if err != nil {
		return nil, fmt.Errorf("create consumer: %w", err)
	}
	defer func() {
		if err := j.stream.DeleteConsumer(context.WithoutCancel(ctx), consumer.CachedInfo().Name); err != nil {
			log.Debug("delete replay consumer: %v", err)
		}
	}()

	var entries []Entry
	const batchSize = 256
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}
		n := 0
		for msg := range msgs.Messages() {
			n++
			var e Entry
			if err := json.Unmarshal(msg.Data(), &e); err != nil {
				log.Warn("skipping malformed entry: %v", err)
				continue
			}
			entries = append(entries, e)
		}
		if n == 0 {
			break
		}
	}

	// Stream order is append order.
	slices.Reverse(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Close drains the connection and stops the embedded server.
func (j *Journal) Close() error {
	return nats.Shutdown(j.nc, j.ns)
}
