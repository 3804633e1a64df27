// Package assignments exposes assignment, check, urgent reassignment and
// release over HTTP.
package assignments

import (
	"net/http"

	"github.com/kilianp07/dronecoord/api/respond"
	"github.com/kilianp07/dronecoord/core/coordinator"
)

// Handler serves the assignment endpoints. Mission ids in paths are read
// with Request.PathValue("id").
type Handler struct {
	coord *coordinator.Coordinator
}

// NewHandler returns a Handler over c.
func NewHandler(c *coordinator.Coordinator) *Handler {
	return &Handler{coord: c}
}

type tripleRequest struct {
	MissionID string `json:"mission_id" validate:"required"`
	PilotID   string `json:"pilot_id" validate:"required"`
	DroneID   string `json:"drone_id" validate:"required"`
}

// Next handles POST /api/assignments/next.
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	res, err := h.coord.AssignNext(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, res)
}

// Assign handles POST /api/assignments.
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	var req tripleRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	res, err := h.coord.Assign(r.Context(), req.MissionID, req.PilotID, req.DroneID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, res)
}

// Check handles POST /api/assignments/check. A blocked triple is still a
// successful check: the report lists the blockers.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var req tripleRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	rep, err := h.coord.Check(r.Context(), req.MissionID, req.PilotID, req.DroneID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, rep)
}

// Candidates handles GET /api/missions/{id}/candidates.
func (h *Handler) Candidates(w http.ResponseWriter, r *http.Request) {
	cands, err := h.coord.RankCandidates(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	if cands == nil {
		cands = []coordinator.Candidate{}
	}
	respond.JSON(w, http.StatusOK, cands)
}

// Urgent handles POST /api/missions/{id}/urgent.
func (h *Handler) Urgent(w http.ResponseWriter, r *http.Request) {
	res, err := h.coord.ResolveUrgentPilotFailure(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

// Release handles POST /api/missions/{id}/release.
func (h *Handler) Release(w http.ResponseWriter, r *http.Request) {
	res, err := h.coord.Release(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

// Register mounts every endpoint on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/assignments/next", h.Next)
	mux.HandleFunc("POST /api/assignments", h.Assign)
	mux.HandleFunc("POST /api/assignments/check", h.Check)
	mux.HandleFunc("GET /api/missions/{id}/candidates", h.Candidates)
	mux.HandleFunc("POST /api/missions/{id}/urgent", h.Urgent)
	mux.HandleFunc("POST /api/missions/{id}/release", h.Release)
}
