// Package roster exposes the entity lists over HTTP.
package roster

import (
	"net/http"

	"github.com/kilianp07/dronecoord/api/respond"
	"github.com/kilianp07/dronecoord/core/coordinator"
	"github.com/kilianp07/dronecoord/core/model"
	coreroster "github.com/kilianp07/dronecoord/core/roster"
)

// NewPilotsHandler serves GET /api/pilots. With ?available=true only
// pilots eligible for assignment are listed.
func NewPilotsHandler(c *coordinator.Coordinator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("available") == "true" {
			respond.JSON(w, http.StatusOK, nonNil(c.AvailablePilots(r.Context())))
			return
		}
		var out []model.Pilot
		_ = c.Store().Read(func(v coreroster.View) error {
			out = v.Pilots()
			return nil
		})
		respond.JSON(w, http.StatusOK, nonNil(out))
	})
}

// NewDronesHandler serves GET /api/drones, with the same ?available filter.
func NewDronesHandler(c *coordinator.Coordinator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("available") == "true" {
			respond.JSON(w, http.StatusOK, nonNil(c.AvailableDrones(r.Context())))
			return
		}
		var out []model.Drone
		_ = c.Store().Read(func(v coreroster.View) error {
			out = v.Drones()
			return nil
		})
		respond.JSON(w, http.StatusOK, nonNil(out))
	})
}

// NewMissionsHandler serves GET /api/missions[?active_on=YYYY-MM-DD].
func NewMissionsHandler(c *coordinator.Coordinator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var filter func(model.Mission) bool
		if s := r.URL.Query().Get("active_on"); s != "" {
			day, err := model.ParseDate(s)
			if err != nil {
				respond.Error(w, model.Invalid("active_on: %v", err))
				return
			}
			filter = func(m model.Mission) bool { return m.IsActiveOn(day) }
		}
		out := []model.Mission{}
		_ = c.Store().Read(func(v coreroster.View) error {
			for _, m := range v.Missions() {
				if filter == nil || filter(m) {
					out = append(out, m)
				}
			}
			return nil
		})
		respond.JSON(w, http.StatusOK, out)
	})
}

// NewSummaryHandler serves GET /api/fleet with per-status counts.
func NewSummaryHandler(c *coordinator.Coordinator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		var counts coreroster.Counts
		_ = c.Store().Read(func(v coreroster.View) error {
			counts = v.Counts()
			return nil
		})
		respond.JSON(w, http.StatusOK, counts)
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
