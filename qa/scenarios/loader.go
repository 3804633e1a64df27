package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/dronecoord/infra/ingest"
)

// Step invokes one operation and states what must come out of it.
type Step struct {
	Op        string `yaml:"op"`
	MissionID string `yaml:"mission_id,omitempty"`
	PilotID   string `yaml:"pilot_id,omitempty"`
	DroneID   string `yaml:"drone_id,omitempty"`
	Expect    Expect `yaml:"expect"`
}

// Expect lists the checked fields of a step outcome. Empty fields are not
// checked.
type Expect struct {
	// Status is "ok" (default) or "failed".
	Status        string   `yaml:"status,omitempty"`
	Kind          string   `yaml:"kind,omitempty"`
	MissionID     string   `yaml:"mission_id,omitempty"`
	PilotID       string   `yaml:"pilot_id,omitempty"`
	DroneID       string   `yaml:"drone_id,omitempty"`
	PreviousPilot string   `yaml:"previous_pilot,omitempty"`
	Rationale     string   `yaml:"rationale,omitempty"`
	Blockers      []string `yaml:"blockers,omitempty"`
	Warnings      []string `yaml:"warnings,omitempty"`
	Candidates    []string `yaml:"candidates,omitempty"`
	Pilots        []string `yaml:"pilots,omitempty"`
	Drones        []string `yaml:"drones,omitempty"`
}

// Totals are checked against the decision log once every step has run.
type Totals struct {
	Successes *int `yaml:"successes,omitempty"`
	Failures  *int `yaml:"failures,omitempty"`
}

type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Roster      ingest.Fixture `yaml:"roster"`
	Steps       []Step         `yaml:"steps"`
	Expected    Totals         `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return &sc, nil
}
