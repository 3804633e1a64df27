package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kilianp07/dronecoord/core/model"
)

// ErrStructure marks a file that cannot be read as a table at all: missing
// file, unreadable CSV or missing required column.
var ErrStructure = errors.New("malformed input")

type pilotRow struct {
	ID                string `validate:"required"`
	Name              string `validate:"required"`
	Skills            string
	Certifications    string
	Location          string `validate:"required"`
	Status            string `validate:"required"`
	CurrentAssignment string
}

type droneRow struct {
	ID                string `validate:"required"`
	Model             string `validate:"required"`
	Capabilities      string
	Location          string `validate:"required"`
	Status            string `validate:"required"`
	CurrentAssignment string
}

type missionRow struct {
	ID             string `validate:"required"`
	Client         string `validate:"required"`
	RequiredSkills string
	RequiredCerts  string
	Location       string `validate:"required"`
	StartDate      string `validate:"required"`
	EndDate        string `validate:"required"`
}

// CSVPaths locates the three roster exports.
type CSVPaths struct {
	Pilots   string
	Drones   string
	Missions string
}

// LoadCSV reads the three exports.
func LoadCSV(paths CSVPaths) (Roster, error) {
	var r Roster
	var err error
	if r.Pilots, err = LoadPilots(paths.Pilots); err != nil {
		return Roster{}, err
	}
	if r.Drones, err = LoadDrones(paths.Drones); err != nil {
		return Roster{}, err
	}
	if r.Missions, err = LoadMissions(paths.Missions); err != nil {
		return Roster{}, err
	}
	return r, nil
}

// LoadPilots reads a pilot roster export.
func LoadPilots(path string) ([]model.Pilot, error) {
	t, err := readTable(path, "pilot_id", "name", "skills", "certifications", "location", "status")
	if err != nil {
		return nil, err
	}
	var out []model.Pilot
	for t.next() {
		row := pilotRow{
			ID:                t.get("pilot_id"),
			Name:              t.get("name"),
			Skills:            t.get("skills"),
			Certifications:    t.get("certifications"),
			Location:          t.get("location"),
			Status:            t.get("status"),
			CurrentAssignment: t.get("current_assignment"),
		}
		if err := check(t.name, t.line, row); err != nil {
			return nil, err
		}
		st, err := model.ParsePilotStatus(row.Status)
		if err != nil {
			return nil, t.fail(err)
		}
		skills := splitList(row.Skills)
		out = append(out, model.Pilot{
			ID:                row.ID,
			Name:              row.Name,
			SkillLevel:        strings.Join(skills, ","),
			Certifications:    splitList(row.Certifications),
			DroneExperience:   skills,
			Location:          row.Location,
			Status:            st,
			CurrentAssignment: model.NewRef(row.CurrentAssignment),
		})
	}
	return out, t.err
}

// LoadDrones reads a drone fleet export.
func LoadDrones(path string) ([]model.Drone, error) {
	t, err := readTable(path, "drone_id", "model", "capabilities", "location", "status")
	if err != nil {
		return nil, err
	}
	var out []model.Drone
	for t.next() {
		row := droneRow{
			ID:                t.get("drone_id"),
			Model:             t.get("model"),
			Capabilities:      t.get("capabilities"),
			Location:          t.get("location"),
			Status:            t.get("status"),
			CurrentAssignment: t.get("current_assignment"),
		}
		if err := check(t.name, t.line, row); err != nil {
			return nil, err
		}
		st, err := model.ParseDroneStatus(row.Status)
		if err != nil {
			return nil, t.fail(err)
		}
		out = append(out, model.Drone{
			ID:                row.ID,
			Model:             row.Model,
			Capabilities:      splitList(row.Capabilities),
			Location:          row.Location,
			Status:            st,
			CurrentAssignment: model.NewRef(row.CurrentAssignment),
		})
	}
	return out, t.err
}

// LoadMissions reads a mission export. Drone capabilities cannot be
// expressed in this format and are left empty.
func LoadMissions(path string) ([]model.Mission, error) {
	t, err := readTable(path, "project_id", "client", "required_skills", "required_certs", "location", "start_date", "end_date")
	if err != nil {
		return nil, err
	}
	var out []model.Mission
	for t.next() {
		row := missionRow{
			ID:             t.get("project_id"),
			Client:         t.get("client"),
			RequiredSkills: t.get("required_skills"),
			RequiredCerts:  t.get("required_certs"),
			Location:       t.get("location"),
			StartDate:      t.get("start_date"),
			EndDate:        t.get("end_date"),
		}
		if err := check(t.name, t.line, row); err != nil {
			return nil, err
		}
		start, err := model.ParseDate(row.StartDate)
		if err != nil {
			return nil, t.fail(err)
		}
		end, err := model.ParseDate(row.EndDate)
		if err != nil {
			return nil, t.fail(err)
		}
		m := model.Mission{
			ID:                        row.ID,
			Name:                      row.Client,
			RequiredSkills:            splitList(row.RequiredSkills),
			RequiredCertifications:    splitList(row.RequiredCerts),
			RequiredDroneCapabilities: []string{},
			Location:                  row.Location,
			Window:                    model.NewDateRange(start, end),
		}
		if err := m.Validate(); err != nil {
			return nil, t.fail(err)
		}
		out = append(out, m)
	}
	return out, t.err
}

// table iterates the records of a CSV file by header name.
type table struct {
	name   string
	r      *csv.Reader
	cols   map[string]int
	record []string
	line   int
	err    error
}

func readTable(path string, required ...string) (*table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStructure, err)
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading header: %v", ErrStructure, path, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: %s: missing column %q", ErrStructure, path, c)
		}
	}
	return &table{name: filepath.Base(path), r: r, cols: cols, line: 1}, nil
}

func (t *table) next() bool {
	if t.err != nil {
		return false
	}
	for {
		rec, err := t.r.Read()
		if err == io.EOF {
			return false
		}
		if err != nil {
			t.err = fmt.Errorf("%w: %s: %v", ErrStructure, t.name, err)
			return false
		}
		line, _ := t.r.FieldPos(0)
		t.line = line
		if blank(rec) {
			continue
		}
		t.record = rec
		return true
	}
}

func (t *table) get(col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(t.record) {
		return ""
	}
	return strings.TrimSpace(t.record[i])
}

func (t *table) fail(err error) error {
	return model.Invalid("%s:%d: %v", t.name, t.line, err)
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
