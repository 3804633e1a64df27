package roster

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/dronecoord/core/coordinator"
	"github.com/kilianp07/dronecoord/core/model"
	coreroster "github.com/kilianp07/dronecoord/core/roster"
)

func newCoordinator(t *testing.T) *coordinator.Coordinator {
	t.Helper()
	a, _ := model.ParseDate("2024-01-01")
	b, _ := model.ParseDate("2024-01-10")
	s, err := coreroster.NewStoreFrom(
		[]model.Pilot{
			{ID: "P1", Name: "Arjun", Status: model.PilotAvailable},
			{ID: "P2", Name: "Neha", Status: model.PilotOnLeave},
		},
		[]model.Drone{
			{ID: "D1", Model: "M300", Status: model.DroneInMaintenance},
			{ID: "D2", Model: "Mavic", Status: model.DroneAvailable},
		},
		[]model.Mission{
			{ID: "PRJ001", Name: "Client A", Window: model.NewDateRange(a, a.AddDate(0, 0, 2))},
			{ID: "PRJ002", Name: "Client B", Window: model.NewDateRange(b, b.AddDate(0, 0, 2))},
		},
	)
	require.NoError(t, err)
	return coordinator.New(s)
}

func get(t *testing.T, h http.Handler, url string, out any) int {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, url, nil))
	if out != nil && rr.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out))
	}
	return rr.Code
}

func TestPilotsHandler(t *testing.T) {
	h := NewPilotsHandler(newCoordinator(t))
	var all, avail []model.Pilot
	require.Equal(t, http.StatusOK, get(t, h, "/api/pilots", &all))
	require.Equal(t, http.StatusOK, get(t, h, "/api/pilots?available=true", &avail))
	assert.Len(t, all, 2)
	require.Len(t, avail, 1)
	assert.Equal(t, "P1", avail[0].ID)
}

func TestDronesHandler(t *testing.T) {
	h := NewDronesHandler(newCoordinator(t))
	var all, avail []model.Drone
	get(t, h, "/api/drones", &all)
	get(t, h, "/api/drones?available=true", &avail)
	assert.Len(t, all, 2)
	require.Len(t, avail, 1)
	assert.Equal(t, "D2", avail[0].ID)
}

func TestMissionsHandler(t *testing.T) {
	h := NewMissionsHandler(newCoordinator(t))
	var ms []model.Mission
	get(t, h, "/api/missions?active_on=2024-01-11", &ms)
	require.Len(t, ms, 1)
	assert.Equal(t, "PRJ002", ms[0].ID)

	ms = nil
	get(t, h, "/api/missions?active_on=2023-12-31", &ms)
	assert.Empty(t, ms)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/missions?active_on=yesterday", nil))
}

func TestSummaryHandler(t *testing.T) {
	var c coreroster.Counts
	get(t, NewSummaryHandler(newCoordinator(t)), "/api/fleet", &c)
	assert.Equal(t, 1, c.AvailablePilots)
	assert.Equal(t, 2, c.Missions)
}
