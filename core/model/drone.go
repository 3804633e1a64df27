package model

import "slices"

// DroneStatus is the operational state of a drone.
type DroneStatus string

const (
	DroneAvailable     DroneStatus = "Available"
	DroneInMaintenance DroneStatus = "Maintenance"
	DroneDeployed      DroneStatus = "Deployed"
)

// ParseDroneStatus accepts the spellings used by fleet exports.
func ParseDroneStatus(s string) (DroneStatus, error) {
	switch normalizeStatus(s) {
	case "available":
		return DroneAvailable, nil
	case "maintenance", "inmaintenance":
		return DroneInMaintenance, nil
	case "deployed":
		return DroneDeployed, nil
	}
	return "", Invalid("unknown drone status %q", s)
}

// Drone is an aircraft with a set of capabilities.
type Drone struct {
	ID                string      `json:"id"`
	Model             string      `json:"model"`
	Capabilities      []string    `json:"capabilities"`
	Location          string      `json:"location"`
	Status            DroneStatus `json:"status"`
	CurrentAssignment Ref         `json:"current_assignment"`
}

// IsOperational reports whether the drone can be deployed.
func (d Drone) IsOperational() bool {
	return d.Status == DroneAvailable && !d.CurrentAssignment.IsSet()
}

// Clone returns a deep copy.
func (d Drone) Clone() Drone {
	d.Capabilities = slices.Clone(d.Capabilities)
	return d
}
