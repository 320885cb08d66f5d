package testfixtures

import (
	"time"

	"github.com/fbcorp/gleo/internal/journal"
)

// Fixed test values for consistent output
const (
	FixedCode = "A1234"
	FixedName = "Spring Fest"
)

var (
	FixedTime = time.Date(2025, 10, 20, 18, 0, 0, 0, time.UTC)
)

// Entries returns a history with one entry per outcome, newest first.
func Entries() []journal.Entry {
	return []journal.Entry{
		{
			ID:        "d0000000000000000003",
			Timestamp: FixedTime.Add(20 * time.Minute),
			Code:      FixedCode,
			Name:      FixedName,
			Vendors:   2,
			Items:     3,
			Outcome:   journal.OutcomeSucceeded,
			Message:   "Event created",
			Transport: "http",
		},
		{
			ID:        "d0000000000000000002",
			Timestamp: FixedTime.Add(10 * time.Minute),
			Code:      FixedCode,
			Name:      FixedName,
			Vendors:   2,
			Items:     3,
			Outcome:   journal.OutcomeFailed,
			Message:   "Event code already exists.",
			Transport: "http",
		},
		{
			ID:        "d0000000000000000001",
			Timestamp: FixedTime,
			Code:      "B0001",
			Name:      "Ha",
			Vendors:   1,
			Items:     1,
			Outcome:   journal.OutcomeInvalid,
			Message:   "Event name must be at least 3 characters",
		},
	}
}
