package ingest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/dronecoord/core/model"
)

// PilotDef is the fixture form of a pilot.
type PilotDef struct {
	ID                string   `yaml:"id" validate:"required"`
	Name              string   `yaml:"name" validate:"required"`
	SkillLevel        string   `yaml:"skill_level"`
	Certifications    []string `yaml:"certifications"`
	DroneExperience   []string `yaml:"drone_experience"`
	Location          string   `yaml:"location" validate:"required"`
	Status            string   `yaml:"status" validate:"required"`
	CurrentAssignment string   `yaml:"current_assignment,omitempty"`
}

func (d PilotDef) ToModel() (model.Pilot, error) {
	st, err := model.ParsePilotStatus(d.Status)
	if err != nil {
		return model.Pilot{}, err
	}
	return model.Pilot{
		ID:                d.ID,
		Name:              d.Name,
		SkillLevel:        d.SkillLevel,
		Certifications:    orEmpty(d.Certifications),
		DroneExperience:   orEmpty(d.DroneExperience),
		Location:          d.Location,
		Status:            st,
		CurrentAssignment: model.NewRef(d.CurrentAssignment),
	}, nil
}

// DroneDef is the fixture form of a drone.
type DroneDef struct {
	ID                string   `yaml:"id" validate:"required"`
	Model             string   `yaml:"model" validate:"required"`
	Capabilities      []string `yaml:"capabilities"`
	Location          string   `yaml:"location" validate:"required"`
	Status            string   `yaml:"status" validate:"required"`
	CurrentAssignment string   `yaml:"current_assignment,omitempty"`
}

func (d DroneDef) ToModel() (model.Drone, error) {
	st, err := model.ParseDroneStatus(d.Status)
	if err != nil {
		return model.Drone{}, err
	}
	return model.Drone{
		ID:                d.ID,
		Model:             d.Model,
		Capabilities:      orEmpty(d.Capabilities),
		Location:          d.Location,
		Status:            st,
		CurrentAssignment: model.NewRef(d.CurrentAssignment),
	}, nil
}

// MissionDef is the fixture form of a mission. Unlike the CSV export it
// carries drone capability requirements and may come pre-assigned.
type MissionDef struct {
	ID                        string   `yaml:"id" validate:"required"`
	Name                      string   `yaml:"name" validate:"required"`
	RequiredSkills            []string `yaml:"required_skills"`
	RequiredCertifications    []string `yaml:"required_certifications"`
	RequiredDroneCapabilities []string `yaml:"required_drone_capabilities"`
	Location                  string   `yaml:"location" validate:"required"`
	StartDate                 string   `yaml:"start_date" validate:"required"`
	EndDate                   string   `yaml:"end_date" validate:"required"`
	AssignedPilot             string   `yaml:"assigned_pilot,omitempty"`
	AssignedDrone             string   `yaml:"assigned_drone,omitempty"`
}

func (d MissionDef) ToModel() (model.Mission, error) {
	start, err := model.ParseDate(d.StartDate)
	if err != nil {
		return model.Mission{}, err
	}
	end, err := model.ParseDate(d.EndDate)
	if err != nil {
		return model.Mission{}, err
	}
	m := model.Mission{
		ID:                        d.ID,
		Name:                      d.Name,
		RequiredSkills:            orEmpty(d.RequiredSkills),
		RequiredCertifications:    orEmpty(d.RequiredCertifications),
		RequiredDroneCapabilities: orEmpty(d.RequiredDroneCapabilities),
		Location:                  d.Location,
		Window:                    model.NewDateRange(start, end),
		AssignedPilot:             model.NewRef(d.AssignedPilot),
		AssignedDrone:             model.NewRef(d.AssignedDrone),
	}
	return m, m.Validate()
}

// Fixture is the YAML document holding a whole roster.
type Fixture struct {
	Pilots   []PilotDef   `yaml:"pilots"`
	Drones   []DroneDef   `yaml:"drones"`
	Missions []MissionDef `yaml:"missions"`
}

// Roster validates and converts every entry; name is used in messages.
func (f Fixture) Roster(name string) (Roster, error) {
	var r Roster
	for i, d := range f.Pilots {
		if err := check(name, i+1, d); err != nil {
			return Roster{}, err
		}
		p, err := d.ToModel()
		if err != nil {
			return Roster{}, model.Invalid("%s: pilot %s: %v", name, d.ID, err)
		}
		r.Pilots = append(r.Pilots, p)
	}
	for i, d := range f.Drones {
		if err := check(name, i+1, d); err != nil {
			return Roster{}, err
		}
		dr, err := d.ToModel()
		if err != nil {
			return Roster{}, model.Invalid("%s: drone %s: %v", name, d.ID, err)
		}
		r.Drones = append(r.Drones, dr)
	}
	for i, d := range f.Missions {
		if err := check(name, i+1, d); err != nil {
			return Roster{}, err
		}
		m, err := d.ToModel()
		if err != nil {
			return Roster{}, model.Invalid("%s: mission %s: %v", name, d.ID, err)
		}
		r.Missions = append(r.Missions, m)
	}
	return r, nil
}

// LoadYAML reads a fixture file.
func LoadYAML(path string) (Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Roster{}, fmt.Errorf("%w: %v", ErrStructure, err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Roster{}, fmt.Errorf("%w: %s: %v", ErrStructure, path, err)
	}
	return f.Roster(path)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
