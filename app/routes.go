package app

import (
	"net/http"

	"github.com/kilianp07/dronecoord/api/assignments"
	"github.com/kilianp07/dronecoord/api/chat"
	"github.com/kilianp07/dronecoord/api/decisions"
	apiops "github.com/kilianp07/dronecoord/api/ops"
	"github.com/kilianp07/dronecoord/api/respond"
	"github.com/kilianp07/dronecoord/api/roster"
	"github.com/kilianp07/dronecoord/core/audit"
	"github.com/kilianp07/dronecoord/core/coordinator"
	"github.com/kilianp07/dronecoord/core/ops"
	"github.com/kilianp07/dronecoord/internal/intent"
)

// NewMux mounts every HTTP endpoint.
func NewMux(c *coordinator.Coordinator, exec *ops.Executor, router *intent.Router, store audit.LogStore) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Drone Ops Coordinator is running."})
	})
	mux.Handle("GET /api/pilots", roster.NewPilotsHandler(c))
	mux.Handle("GET /api/drones", roster.NewDronesHandler(c))
	mux.Handle("GET /api/missions", roster.NewMissionsHandler(c))
	mux.Handle("GET /api/fleet", roster.NewSummaryHandler(c))
	assignments.NewHandler(c).Register(mux)
	mux.Handle("POST /api/ops", apiops.NewHandler(exec))
	mux.Handle("POST /chat", chat.NewHandler(router))
	mux.Handle("GET /api/decisions", decisions.NewLogHandler(store))
	return mux
}
