package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	// JournalStream is the JetStream stream holding submission outcomes.
	JournalStream = "gleo_journal"
	// JournalRetention is how long journal entries are kept.
	JournalRetention = 90 * 24 * time.Hour

	journalPrefix = "gleo.journal"
)

// JournalSubjects matches every journal subject.
func JournalSubjects() string {
	return journalPrefix + ".>"
}

// SubjectForEvent returns the journal subject for an event code, e.g.
// "gleo.journal.a1234". Codes that slugify to nothing use "unknown".
func SubjectForEvent(code string) string {
	token := slug.Make(code)
	if token == "" {
		token = "unknown"
	}
	return fmt.Sprintf("%s.%s", journalPrefix, token)
}

// SetupJournalStream creates or updates the journal stream.
func SetupJournalStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     JournalStream,
		Subjects: []string{JournalSubjects()},
		Storage:  jetstream.FileStorage,
		MaxAge:   JournalRetention,
	})
}

// ReplayFrom creates an ephemeral consumer that delivers the stream from
// sequence start onwards without acknowledgements.
func ReplayFrom(ctx context.Context, stream jetstream.Stream, start uint64) (jetstream.Consumer, error) {
	cfg := jetstream.ConsumerConfig{
		AckPolicy:     jetstream.AckNonePolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	}
	if start > 1 {
		cfg.DeliverPolicy = jetstream.DeliverByStartSequencePolicy
		cfg.OptStartSeq = start
	}
	return stream.CreateOrUpdateConsumer(ctx, cfg)
}
