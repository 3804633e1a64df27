package assignments

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/dronecoord/api/respond"
	"github.com/kilianp07/dronecoord/core/conflict"
	"github.com/kilianp07/dronecoord/core/coordinator"
	"github.com/kilianp07/dronecoord/core/model"
	"github.com/kilianp07/dronecoord/core/roster"
)

func newMux(t *testing.T) *http.ServeMux {
	t.Helper()
	start, _ := model.ParseDate("2024-01-01")
	s, err := roster.NewStoreFrom(
		[]model.Pilot{
			{ID: "P1", Name: "Arjun", SkillLevel: "Mapping", Certifications: []string{"DGCA", "FAA107"}, Location: "Bangalore", Status: model.PilotAvailable},
			{ID: "P2", Name: "Neha", SkillLevel: "Mapping", Certifications: []string{"DGCA"}, Location: "Bangalore", Status: model.PilotAvailable},
			{ID: "P3", Name: "Rohit", SkillLevel: "Mapping", Certifications: []string{"DGCA", "FAA107"}, Location: "Mumbai", Status: model.PilotAvailable},
		},
		[]model.Drone{{ID: "D1", Model: "DJI M300", Capabilities: []string{"Thermal"}, Location: "Bangalore", Status: model.DroneAvailable}},
		[]model.Mission{{
			ID: "PRJ001", Name: "Client A", Location: "Bangalore",
			RequiredSkills: []string{"Mapping"}, RequiredCertifications: []string{"DGCA", "FAA107"},
			RequiredDroneCapabilities: []string{"Thermal"},
			Window:                    model.NewDateRange(start, start.AddDate(0, 0, 4)),
		}},
	)
	require.NoError(t, err)
	mux := http.NewServeMux()
	NewHandler(coordinator.New(s)).Register(mux)
	return mux
}

func do(t *testing.T, mux http.Handler, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestCheckThenBlockedAssign(t *testing.T) {
	mux := newMux(t)
	triple := `{"mission_id":"PRJ001","pilot_id":"P2","drone_id":"D1"}`

	rr := do(t, mux, http.MethodPost, "/api/assignments/check", triple)
	require.Equal(t, http.StatusOK, rr.Code)
	rep := decode[conflict.Report](t, rr)
	assert.Equal(t, []string{"Pilot Neha lacks required certifications: FAA107."}, rep.BlockerMessages())

	rr = do(t, mux, http.MethodPost, "/api/assignments", triple)
	require.Equal(t, http.StatusConflict, rr.Code)
	body := decode[respond.ErrorBody](t, rr)
	assert.Equal(t, "failed", body.Status)
	assert.Equal(t, "ConflictBlocked", body.Kind)
	assert.Equal(t, rep.BlockerMessages(), body.Blockers)
}

func TestAssignUrgentRelease(t *testing.T) {
	mux := newMux(t)

	rr := do(t, mux, http.MethodPost, "/api/assignments", `{"mission_id":"PRJ001","pilot_id":"P1","drone_id":"D1"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	res := decode[coordinator.AssignResult](t, rr)
	assert.Equal(t, "Arjun", res.PilotName)

	rr = do(t, mux, http.MethodPost, "/api/assignments", `{"mission_id":"PRJ001","pilot_id":"P3","drone_id":"D1"}`)
	require.Equal(t, http.StatusConflict, rr.Code)
	body := decode[respond.ErrorBody](t, rr)
	assert.Equal(t, "ConflictBlocked", body.Kind)
	assert.Equal(t, []string{"Mission Client A is already assigned to pilot P1."}, body.Blockers)

	rr = do(t, mux, http.MethodGet, "/api/missions/PRJ001/candidates", "")
	require.Equal(t, http.StatusOK, rr.Code)
	cands := decode[[]coordinator.Candidate](t, rr)
	require.Len(t, cands, 1)
	assert.Equal(t, "P3", cands[0].PilotID)

	rr = do(t, mux, http.MethodPost, "/api/missions/PRJ001/urgent", "")
	require.Equal(t, http.StatusOK, rr.Code)
	urgent := decode[coordinator.UrgentResult](t, rr)
	assert.True(t, urgent.PreviousPilot.Is("P1"))
	assert.Equal(t, "P3", urgent.PilotID)

	rr = do(t, mux, http.MethodPost, "/api/missions/PRJ001/urgent", "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "NoStandbyPilot", decode[respond.ErrorBody](t, rr).Kind)

	rr = do(t, mux, http.MethodPost, "/api/missions/PRJ001/release", "")
	require.Equal(t, http.StatusOK, rr.Code)
	rel := decode[coordinator.ReleaseResult](t, rr)
	assert.True(t, rel.Pilot.Is("P3"))
	assert.True(t, rel.Drone.Is("D1"))
	assert.Equal(t, []string{"P1"}, rel.Stale)

	rr = do(t, mux, http.MethodPost, "/api/missions/PRJ001/release", "")
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestNextAndErrors(t *testing.T) {
	mux := newMux(t)
	rr := do(t, mux, http.MethodPost, "/api/assignments/next", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "P1", decode[coordinator.AssignResult](t, rr).PilotID)

	rr = do(t, mux, http.MethodPost, "/api/assignments/next", "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "NoUnassignedMission", decode[respond.ErrorBody](t, rr).Kind)

	rr = do(t, mux, http.MethodPost, "/api/assignments", `{"mission_id":"PRJ001"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, mux, http.MethodPost, "/api/assignments/check", `{"mission_id":"NOPE","pilot_id":"P1","drone_id":"D1"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, mux, http.MethodGet, "/api/missions/NOPE/candidates", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
