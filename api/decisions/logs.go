// Package decisions exposes the decision audit trail over HTTP.
package decisions

import (
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/dronecoord/api/respond"
	"github.com/kilianp07/dronecoord/core/audit"
	"github.com/kilianp07/dronecoord/core/model"
)

// NewLogHandler returns an HTTP handler exposing decision records via
// GET /api/decisions. Supported filters: start and end (RFC3339),
// mission_id, pilot_id, operation and limit.
func NewLogHandler(store audit.LogStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q, err := parseQuery(r)
		if err != nil {
			respond.Error(w, err)
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []audit.LogRecord{}
		}
		respond.JSON(w, http.StatusOK, records)
	})
}

func parseQuery(r *http.Request) (audit.LogQuery, error) {
	v := r.URL.Query()
	q := audit.LogQuery{
		MissionID: v.Get("mission_id"),
		PilotID:   v.Get("pilot_id"),
		Operation: v.Get("operation"),
	}
	if s := v.Get("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, model.Invalid("start: %v", err)
		}
		q.Start = t
	}
	if s := v.Get("end"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, model.Invalid("end: %v", err)
		}
		q.End = t
	}
	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return q, model.Invalid("limit must be a non-negative integer")
		}
		q.Limit = n
	}
	return q, nil
}
