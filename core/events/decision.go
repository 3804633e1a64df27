package events

import (
	"time"

	"github.com/kilianp07/dronecoord/core/roster"
)

// Decision is published after each coordinator operation that attempted a
// mutation. Failed attempts carry the error kind and blockers.
type Decision struct {
	ID            string        `json:"id"`
	Time          time.Time     `json:"time"`
	Operation     string        `json:"operation"`
	Success       bool          `json:"success"`
	Kind          string        `json:"kind,omitempty"`
	Message       string        `json:"message,omitempty"`
	MissionID     string        `json:"mission_id,omitempty"`
	MissionName   string        `json:"mission_name,omitempty"`
	PilotID       string        `json:"pilot_id,omitempty"`
	DroneID       string        `json:"drone_id,omitempty"`
	PreviousPilot string        `json:"previous_pilot,omitempty"`
	Blockers      []string      `json:"blockers,omitempty"`
	Warnings      []string      `json:"warnings,omitempty"`
	Rationale     string        `json:"rationale,omitempty"`
	Score         int           `json:"score,omitempty"`
	Duration      time.Duration `json:"duration_ns"`
	// Fleet is the roster summary once the operation completed.
	Fleet roster.Counts `json:"fleet"`
}

// Outcome returns "success" or "failed".
func (d Decision) Outcome() string {
	if d.Success {
		return "success"
	}
	return "failed"
}
