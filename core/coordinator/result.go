package coordinator

import "github.com/kilianp07/dronecoord/core/model"

// AssignResult describes a committed assignment.
type AssignResult struct {
	MissionID   string `json:"mission_id"`
	MissionName string `json:"mission_name"`
	PilotID     string `json:"pilot_id"`
	PilotName   string `json:"pilot_name"`
	DroneID     string `json:"drone_id"`
	DroneModel  string `json:"drone_model"`
	Location    string `json:"location"`
	// Warnings are advisory location mismatches.
	Warnings []string `json:"warnings"`
}

// UrgentResult describes a committed urgent pilot replacement.
type UrgentResult struct {
	MissionID     string    `json:"mission_id"`
	MissionName   string    `json:"mission_name"`
	PreviousPilot model.Ref `json:"previous_pilot"`
	PilotID       string    `json:"pilot_id"`
	PilotName     string    `json:"pilot_name"`
	Rationale     string    `json:"rationale"`
	Score         int       `json:"score"`
	Warnings      []string  `json:"warnings"`
}

// Candidate is a standby pilot eligible for an urgent replacement.
type Candidate struct {
	PilotID   string   `json:"pilot_id"`
	PilotName string   `json:"pilot_name"`
	Location  string   `json:"location"`
	Score     int      `json:"score"`
	Reasons   []string `json:"reasons"`
	Rationale string   `json:"rationale"`
	Warnings  []string `json:"warnings"`
}

// ReleaseResult lists what a release returned to the pool.
type ReleaseResult struct {
	MissionID   string    `json:"mission_id"`
	MissionName string    `json:"mission_name"`
	Pilot       model.Ref `json:"pilot"`
	Drone       model.Ref `json:"drone"`
	// Stale lists resources freed although the mission no longer referenced
	// them, such as the pilot replaced by an urgent reassignment.
	Stale []string `json:"stale,omitempty"`
}
