// Package ingest loads the roster from tabular exports or YAML fixtures.
package ingest

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kilianp07/dronecoord/core/logger"
	"github.com/kilianp07/dronecoord/core/model"
	"github.com/kilianp07/dronecoord/core/roster"
)

// Roster is the loaded entity set, in file order.
type Roster struct {
	Pilots   []model.Pilot
	Drones   []model.Drone
	Missions []model.Mission
}

// Store builds an entity store from r. References that point to unknown
// entities, or that are not mirrored on the other side, are kept and logged.
func (r Roster) Store(log logger.Logger) (*roster.Store, error) {
	log = logger.OrNop(log)
	s, err := roster.NewStoreFrom(r.Pilots, r.Drones, r.Missions)
	if err != nil {
		return nil, err
	}
	for _, w := range r.Dangling() {
		log.Warnf("roster: %s", w)
	}
	return s, nil
}

// Dangling describes every current assignment that does not match a mission
// reference.
func (r Roster) Dangling() []string {
	missions := make(map[string]model.Mission, len(r.Missions))
	for _, m := range r.Missions {
		missions[m.ID] = m
	}
	var out []string
	for _, p := range r.Pilots {
		id, ok := p.CurrentAssignment.Get()
		if !ok {
			continue
		}
		m, found := missions[id]
		switch {
		case !found:
			out = append(out, fmt.Sprintf("pilot %s references unknown mission %s", p.ID, id))
		case !m.AssignedPilot.Is(p.ID):
			out = append(out, fmt.Sprintf("pilot %s references mission %s which does not reference it", p.ID, id))
		}
	}
	for _, d := range r.Drones {
		id, ok := d.CurrentAssignment.Get()
		if !ok {
			continue
		}
		m, found := missions[id]
		switch {
		case !found:
			out = append(out, fmt.Sprintf("drone %s references unknown mission %s", d.ID, id))
		case !m.AssignedDrone.Is(d.ID):
			out = append(out, fmt.Sprintf("drone %s references mission %s which does not reference it", d.ID, id))
		}
	}
	return out
}

var validate = validator.New()

// check validates row against its struct tags and names the offending
// source line.
func check(file string, line int, row any) error {
	err := validate.Struct(row)
	if err == nil {
		return nil
	}
	var fields []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range verrs {
			fields = append(fields, fmt.Sprintf("field '%s' failed validation: %s", e.Field(), e.Tag()))
		}
	} else {
		fields = append(fields, err.Error())
	}
	return model.Invalid("%s:%d: %s", file, line, strings.Join(fields, "; "))
}

// splitList parses a comma separated cell; blanks yield an empty list.
func splitList(cell string) []string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return []string{}
	}
	parts := strings.Split(cell, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads the roster in the given format: "csv" uses paths, "yaml"
// reads the fixture file.
func Load(format, fixture string, paths CSVPaths) (Roster, error) {
	switch strings.ToLower(format) {
	case "", "csv":
		return LoadCSV(paths)
	case "yaml", "yml":
		return LoadYAML(fixture)
	}
	return Roster{}, fmt.Errorf("%w: unknown data format %q", ErrStructure, format)
}
