package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/dronecoord/core/model"
	"github.com/kilianp07/dronecoord/core/roster"
)

func window(t *testing.T, start string, days int) model.DateRange {
	t.Helper()
	s, err := model.ParseDate(start)
	require.NoError(t, err)
	return model.NewDateRange(s, s.AddDate(0, 0, days))
}

func thermalMission(t *testing.T) model.Mission {
	return model.Mission{
		ID:                        "PRJ001",
		Name:                      "Client A",
		RequiredSkills:            []string{"Mapping"},
		RequiredCertifications:    []string{"DGCA", "FAA107"},
		RequiredDroneCapabilities: []string{"Thermal"},
		Location:                  "Bangalore",
		Window:                    window(t, "2024-01-01", 4),
	}
}

func readView(t *testing.T, s *roster.Store, fn func(v roster.View)) {
	t.Helper()
	require.NoError(t, s.Read(func(v roster.View) error {
		fn(v)
		return nil
	}))
}

func TestCheckCleanAssignment(t *testing.T) {
	p := model.Pilot{ID: "P1", Name: "Arjun", DroneExperience: []string{"Mapping"}, Certifications: []string{"DGCA", "FAA107"}, Location: "Bangalore", Status: model.PilotAvailable}
	d := model.Drone{ID: "D1", Model: "DJI M300", Capabilities: []string{"Thermal", "LiDAR"}, Location: "Bangalore", Status: model.DroneAvailable}
	m := thermalMission(t)
	s, err := roster.NewStoreFrom([]model.Pilot{p}, []model.Drone{d}, []model.Mission{m})
	require.NoError(t, err)

	readView(t, s, func(v roster.View) {
		r := NewDetector().Check(v, p, d, m)
		assert.False(t, r.Blocked())
		assert.Empty(t, r.Warnings)
	})
}

func TestCheckMissingCertification(t *testing.T) {
	p := model.Pilot{ID: "P2", Name: "Neha", SkillLevel: "Mapping", Certifications: []string{"DGCA"}, Location: "Bangalore", Status: model.PilotAvailable}
	d := model.Drone{ID: "D1", Model: "DJI M300", Capabilities: []string{"Thermal"}, Location: "Mumbai", Status: model.DroneAvailable}
	m := thermalMission(t)
	s, err := roster.NewStoreFrom([]model.Pilot{p}, []model.Drone{d}, []model.Mission{m})
	require.NoError(t, err)

	readView(t, s, func(v roster.View) {
		r := NewDetector().Check(v, p, d, m)
		require.True(t, r.Blocked())
		assert.Equal(t, []string{"Pilot Neha lacks required certifications: FAA107."}, r.BlockerMessages())
		assert.True(t, r.Has(KindMissingCertifications))
		assert.Equal(t, []string{"Drone DJI M300 is currently in Mumbai, mission location is Bangalore."}, r.WarningMessages())
	})
}

func TestCheckBlockers(t *testing.T) {
	m := thermalMission(t)
	tests := []struct {
		name  string
		pilot model.Pilot
		drone model.Drone
		kinds []Kind
		msgs  []string
	}{
		{
			name:  "pilot on leave",
			pilot: model.Pilot{ID: "P1", Name: "Arjun", SkillLevel: "Mapping", Certifications: []string{"DGCA", "FAA107"}, Location: "Bangalore", Status: model.PilotOnLeave},
			drone: model.Drone{ID: "D1", Model: "M300", Capabilities: []string{"Thermal"}, Location: "Bangalore", Status: model.DroneAvailable},
			kinds: []Kind{KindPilotUnavailable},
			msgs:  []string{"Pilot Arjun is not available (status: On Leave)."},
		},
		{
			name:  "missing skills joined",
			pilot: model.Pilot{ID: "P1", Name: "Arjun", SkillLevel: "Survey", Certifications: []string{"DGCA", "FAA107"}, Location: "Bangalore", Status: model.PilotAvailable},
			drone: model.Drone{ID: "D1", Model: "M300", Capabilities: []string{"Thermal"}, Location: "Bangalore", Status: model.DroneAvailable},
			kinds: []Kind{KindMissingSkills},
			msgs:  []string{"Pilot Arjun lacks required skills: Mapping."},
		},
		{
			name:  "drone in maintenance without capability",
			pilot: model.Pilot{ID: "P1", Name: "Arjun", SkillLevel: "Mapping", Certifications: []string{"DGCA", "FAA107"}, Location: "Bangalore", Status: model.PilotAvailable},
			drone: model.Drone{ID: "D1", Model: "M300", Capabilities: []string{"RGB"}, Location: "Bangalore", Status: model.DroneInMaintenance},
			kinds: []Kind{KindDroneUnavailable, KindMissingCapabilities},
			msgs: []string{
				"Drone M300 is not available (status: Maintenance).",
				"Drone M300 lacks required capabilities: Thermal.",
			},
		},
		{
			name:  "every pilot check fails",
			pilot: model.Pilot{ID: "P1", Name: "Arjun", Location: "Bangalore", Status: model.PilotUnavailable},
			drone: model.Drone{ID: "D1", Model: "M300", Capabilities: []string{"Thermal"}, Location: "Bangalore", Status: model.DroneAvailable},
			kinds: []Kind{KindPilotUnavailable, KindMissingSkills, KindMissingCertifications},
			msgs: []string{
				"Pilot Arjun is not available (status: Unavailable).",
				"Pilot Arjun lacks required skills: Mapping.",
				"Pilot Arjun lacks required certifications: DGCA, FAA107.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := roster.NewStoreFrom([]model.Pilot{tt.pilot}, []model.Drone{tt.drone}, []model.Mission{m})
			require.NoError(t, err)
			readView(t, s, func(v roster.View) {
				r := NewDetector().Check(v, tt.pilot, tt.drone, m)
				var kinds []Kind
				for _, b := range r.Blockers {
					kinds = append(kinds, b.Kind)
				}
				assert.Equal(t, tt.kinds, kinds)
				assert.Equal(t, tt.msgs, r.BlockerMessages())
			})
		})
	}
}

func TestCheckScheduleOverlap(t *testing.T) {
	p := model.Pilot{ID: "P1", Name: "Arjun", SkillLevel: "Mapping", Certifications: []string{"DGCA", "FAA107"}, Location: "Bangalore", Status: model.PilotAvailable}
	d := model.Drone{ID: "D1", Model: "M300", Capabilities: []string{"Thermal"}, Location: "Bangalore", Status: model.DroneAvailable}
	target := thermalMission(t)
	busy := model.Mission{ID: "PRJ002", Name: "Client B", Location: "Bangalore", Window: window(t, "2024-01-05", 3), AssignedPilot: model.NewRef("P1")}
	later := model.Mission{ID: "PRJ003", Name: "Client C", Location: "Bangalore", Window: window(t, "2024-02-01", 3), AssignedPilot: model.NewRef("P1")}
	s, err := roster.NewStoreFrom([]model.Pilot{p}, []model.Drone{d}, []model.Mission{target, busy, later})
	require.NoError(t, err)

	readView(t, s, func(v roster.View) {
		r := NewDetector().Check(v, p, d, target)
		assert.Equal(t, []string{"Pilot Arjun is already assigned to mission Client B during overlapping dates."}, r.BlockerMessages())

		// The mission under check never conflicts with itself.
		r = NewDetector().CheckPilot(v, p, busy)
		assert.False(t, r.Has(KindScheduleOverlap))
	})
}

func TestCheckPilotSkipsDrone(t *testing.T) {
	p := model.Pilot{ID: "P1", Name: "Arjun", SkillLevel: "Mapping", Certifications: []string{"DGCA", "FAA107"}, Location: "Mumbai", Status: model.PilotAvailable}
	m := thermalMission(t)
	s, err := roster.NewStoreFrom([]model.Pilot{p}, nil, []model.Mission{m})
	require.NoError(t, err)

	readView(t, s, func(v roster.View) {
		r := NewDetector().CheckPilot(v, p, m)
		assert.False(t, r.Blocked())
		assert.Equal(t, []string{"Pilot Arjun is currently in Mumbai, mission location is Bangalore."}, r.WarningMessages())
	})
}

func TestNonAvailablePilotAlwaysBlocked(t *testing.T) {
	m := thermalMission(t)
	d := model.Drone{ID: "D1", Model: "M300", Capabilities: []string{"Thermal"}, Location: "Bangalore", Status: model.DroneAvailable}
	for _, st := range []model.PilotStatus{model.PilotOnLeave, model.PilotUnavailable} {
		p := model.Pilot{ID: "P1", Name: "Arjun", SkillLevel: "Mapping", Certifications: []string{"DGCA", "FAA107"}, Location: "Bangalore", Status: st}
		s, err := roster.NewStoreFrom([]model.Pilot{p}, []model.Drone{d}, []model.Mission{m})
		require.NoError(t, err)
		readView(t, s, func(v roster.View) {
			assert.True(t, NewDetector().Check(v, p, d, m).Has(KindPilotUnavailable), st)
		})
	}
}
