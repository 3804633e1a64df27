package conflict

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kilianp07/dronecoord/core/model"
	"github.com/kilianp07/dronecoord/core/roster"
)

// Detector evaluates candidate assignments. It never mutates the roster.
type Detector struct{}

// NewDetector returns a Detector.
func NewDetector() *Detector { return &Detector{} }

// Check evaluates the full (pilot, drone, mission) triple.
func (d *Detector) Check(v roster.View, p model.Pilot, dr model.Drone, m model.Mission) Report {
	var r Report
	r.Blockers = append(r.Blockers, pilotBlockers(v, p, m)...)
	r.Blockers = append(r.Blockers, droneBlockers(dr, m)...)
	r.Warnings = append(r.Warnings, pilotLocation(p, m)...)
	if dr.Location != m.Location {
		r.Warnings = append(r.Warnings, Conflict{
			Kind:    KindDroneLocation,
			Subject: dr.ID,
			Message: fmt.Sprintf("Drone %s is currently in %s, mission location is %s.", dr.Model, dr.Location, m.Location),
		})
	}
	return r
}

// CheckPilot evaluates only the pilot side of an assignment.
func (d *Detector) CheckPilot(v roster.View, p model.Pilot, m model.Mission) Report {
	return Report{
		Blockers: pilotBlockers(v, p, m),
		Warnings: pilotLocation(p, m),
	}
}

func pilotBlockers(v roster.View, p model.Pilot, m model.Mission) []Conflict {
	var out []Conflict
	if !p.IsAvailable() {
		out = append(out, Conflict{
			Kind:    KindPilotUnavailable,
			Subject: p.ID,
			Message: fmt.Sprintf("Pilot %s is not available (status: %s).", p.Name, p.Status),
		})
	}
	for _, other := range v.MissionsForPilot(p.ID) {
		if other.ID == m.ID || !other.Window.Overlaps(m.Window) {
			continue
		}
		out = append(out, Conflict{
			Kind:    KindScheduleOverlap,
			Subject: p.ID,
			Message: fmt.Sprintf("Pilot %s is already assigned to mission %s during overlapping dates.", p.Name, other.Name),
		})
	}
	if missing := missingFrom(m.RequiredSkills, p.HasSkill); len(missing) > 0 {
		out = append(out, Conflict{
			Kind:    KindMissingSkills,
			Subject: p.ID,
			Message: fmt.Sprintf("Pilot %s lacks required skills: %s.", p.Name, strings.Join(missing, ", ")),
		})
	}
	hasCert := func(c string) bool { return slices.Contains(p.Certifications, c) }
	if missing := missingFrom(m.RequiredCertifications, hasCert); len(missing) > 0 {
		out = append(out, Conflict{
			Kind:    KindMissingCertifications,
			Subject: p.ID,
			Message: fmt.Sprintf("Pilot %s lacks required certifications: %s.", p.Name, strings.Join(missing, ", ")),
		})
	}
	return out
}

// droneBlockers looks at the drone status only; a drone whose status is
// Available but which still references a mission is not blocked here.
func droneBlockers(dr model.Drone, m model.Mission) []Conflict {
	var out []Conflict
	if dr.Status != model.DroneAvailable {
		out = append(out, Conflict{
			Kind:    KindDroneUnavailable,
			Subject: dr.ID,
			Message: fmt.Sprintf("Drone %s is not available (status: %s).", dr.Model, dr.Status),
		})
	}
	hasCap := func(c string) bool { return slices.Contains(dr.Capabilities, c) }
	if missing := missingFrom(m.RequiredDroneCapabilities, hasCap); len(missing) > 0 {
		out = append(out, Conflict{
			Kind:    KindMissingCapabilities,
			Subject: dr.ID,
			Message: fmt.Sprintf("Drone %s lacks required capabilities: %s.", dr.Model, strings.Join(missing, ", ")),
		})
	}
	return out
}

func pilotLocation(p model.Pilot, m model.Mission) []Conflict {
	if p.Location == m.Location {
		return nil
	}
	return []Conflict{{
		Kind:    KindPilotLocation,
		Subject: p.ID,
		Message: fmt.Sprintf("Pilot %s is currently in %s, mission location is %s.", p.Name, p.Location, m.Location),
	}}
}

func missingFrom(required []string, has func(string) bool) []string {
	var missing []string
	for _, r := range required {
		if !has(r) {
			missing = append(missing, r)
		}
	}
	return missing
}
