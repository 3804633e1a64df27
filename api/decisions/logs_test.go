package decisions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/dronecoord/core/audit"
)

func TestLogHandlerFilters(t *testing.T) {
	store, err := audit.NewJSONLStore(filepath.Join(t.TempDir(), "decisions.log"))
	require.NoError(t, err)
	defer store.Close()

	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	recs := []audit.LogRecord{
		{ID: "1", Timestamp: base, Operation: "assign", Outcome: audit.OutcomeSuccess, MissionID: "PRJ001", PilotID: "P1"},
		{ID: "2", Timestamp: base.Add(time.Hour), Operation: "urgent-reassign", Outcome: audit.OutcomeSuccess, MissionID: "PRJ001", PilotID: "P3", PreviousPilot: "P1"},
		{ID: "3", Timestamp: base.Add(2 * time.Hour), Operation: "assign", Outcome: audit.OutcomeFailed, MissionID: "PRJ002", PilotID: "P2"},
	}
	for _, r := range recs {
		require.NoError(t, store.Append(context.Background(), r))
	}
	h := NewLogHandler(store)

	ids := func(url string) []string {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, url, nil))
		require.Equal(t, http.StatusOK, rr.Code, url)
		var out []audit.LogRecord
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		res := []string{}
		for _, r := range out {
			res = append(res, r.ID)
		}
		return res
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids("/api/decisions"))
	assert.Equal(t, []string{"1", "2"}, ids("/api/decisions?mission_id=PRJ001"))
	assert.Equal(t, []string{"1", "2"}, ids("/api/decisions?pilot_id=P1"))
	assert.Equal(t, []string{"1", "3"}, ids("/api/decisions?operation=assign"))
	assert.Equal(t, []string{"2", "3"}, ids("/api/decisions?start=2024-01-01T10:30:00Z"))
	assert.Equal(t, []string{"3"}, ids("/api/decisions?limit=1"))

	for _, bad := range []string{"?start=yesterday", "?end=x", "?limit=-1"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/decisions"+bad, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code, bad)
	}
}
