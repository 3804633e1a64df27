package model

import (
	"slices"
	"strings"
)

// PilotStatus is the duty state of a pilot.
type PilotStatus string

const (
	PilotAvailable   PilotStatus = "Available"
	PilotOnLeave     PilotStatus = "On Leave"
	PilotUnavailable PilotStatus = "Unavailable"
)

// ParsePilotStatus accepts the spellings used by roster exports.
func ParsePilotStatus(s string) (PilotStatus, error) {
	switch normalizeStatus(s) {
	case "available":
		return PilotAvailable, nil
	case "onleave", "leave":
		return PilotOnLeave, nil
	case "unavailable", "assigned":
		return PilotUnavailable, nil
	}
	return "", Invalid("unknown pilot status %q", s)
}

// Pilot is a certified operator that can fly one mission at a time.
type Pilot struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	SkillLevel        string      `json:"skill_level"`
	Certifications    []string    `json:"certifications"`
	DroneExperience   []string    `json:"drone_experience"`
	Location          string      `json:"location"`
	Status            PilotStatus `json:"status"`
	CurrentAssignment Ref         `json:"current_assignment"`
}

// IsAvailable reports whether the pilot is on duty and free.
func (p Pilot) IsAvailable() bool {
	return p.Status == PilotAvailable && !p.CurrentAssignment.IsSet()
}

// HasSkill reports whether skill is covered by the pilot's experience or
// skill level.
func (p Pilot) HasSkill(skill string) bool {
	return skill == p.SkillLevel || slices.Contains(p.DroneExperience, skill)
}

// Clone returns a deep copy.
func (p Pilot) Clone() Pilot {
	p.Certifications = slices.Clone(p.Certifications)
	p.DroneExperience = slices.Clone(p.DroneExperience)
	return p
}

func normalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}
