package audit

import (
	"context"
	"slices"
	"time"
)

// Outcome of an audited operation.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// LogRecord captures one coordinator decision.
type LogRecord struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Operation     string    `json:"operation"`
	Outcome       Outcome   `json:"outcome"`
	Kind          string    `json:"kind,omitempty"`
	MissionID     string    `json:"mission_id,omitempty"`
	PilotID       string    `json:"pilot_id,omitempty"`
	DroneID       string    `json:"drone_id,omitempty"`
	PreviousPilot string    `json:"previous_pilot,omitempty"`
	Blockers      []string  `json:"blockers,omitempty"`
	Warnings      []string  `json:"warnings,omitempty"`
	Rationale     string    `json:"rationale,omitempty"`
	Score         int       `json:"score,omitempty"`
}

// LogQuery defines filters for retrieving records. Zero values match all.
type LogQuery struct {
	Start     time.Time
	End       time.Time
	MissionID string
	PilotID   string
	Operation string
	Limit     int
}

// Match reports whether r passes every filter except Limit.
func (q LogQuery) Match(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.MissionID != "" && r.MissionID != q.MissionID {
		return false
	}
	if q.PilotID != "" && r.PilotID != q.PilotID && r.PreviousPilot != q.PilotID {
		return false
	}
	if q.Operation != "" && r.Operation != q.Operation {
		return false
	}
	return true
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}

// NopStore discards every record.
type NopStore struct{}

func (NopStore) Append(context.Context, LogRecord) error              { return nil }
func (NopStore) Query(context.Context, LogQuery) ([]LogRecord, error) { return nil, nil }
func (NopStore) Close() error                                         { return nil }

// limit keeps the most recent n records.
func limit(recs []LogRecord, n int) []LogRecord {
	if n <= 0 || len(recs) <= n {
		return recs
	}
	return slices.Clone(recs[len(recs)-n:])
}
