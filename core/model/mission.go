package model

import (
	"slices"
	"time"
)

// Mission is a time-bounded job requiring one pilot and one drone.
type Mission struct {
	ID                        string    `json:"id"`
	Name                      string    `json:"name"`
	RequiredSkills            []string  `json:"required_skills"`
	RequiredCertifications    []string  `json:"required_certifications"`
	RequiredDroneCapabilities []string  `json:"required_drone_capabilities"`
	Location                  string    `json:"location"`
	Window                    DateRange `json:"window"`
	AssignedPilot             Ref       `json:"assigned_pilot"`
	AssignedDrone             Ref       `json:"assigned_drone"`
}

// Validate checks the mission window.
func (m Mission) Validate() error {
	if err := m.Window.Validate(); err != nil {
		return Invalid("mission %s: %v", m.ID, err)
	}
	return nil
}

// IsActiveOn reports whether day falls within the mission window.
func (m Mission) IsActiveOn(day time.Time) bool {
	return m.Window.Contains(day)
}

// Assignment returns the assignment implied by the mission references.
func (m Mission) Assignment() (Assignment, bool) {
	pilot, okP := m.AssignedPilot.Get()
	drone, okD := m.AssignedDrone.Get()
	if !okP || !okD {
		return Assignment{}, false
	}
	return Assignment{MissionID: m.ID, PilotID: pilot, DroneID: drone, Window: m.Window, Location: m.Location}, true
}

// Clone returns a deep copy.
func (m Mission) Clone() Mission {
	m.RequiredSkills = slices.Clone(m.RequiredSkills)
	m.RequiredCertifications = slices.Clone(m.RequiredCertifications)
	m.RequiredDroneCapabilities = slices.Clone(m.RequiredDroneCapabilities)
	return m
}

// Assignment binds a pilot and a drone to a mission for its window.
type Assignment struct {
	MissionID string    `json:"mission_id"`
	PilotID   string    `json:"pilot_id"`
	DroneID   string    `json:"drone_id"`
	Window    DateRange `json:"window"`
	Location  string    `json:"location"`
}
