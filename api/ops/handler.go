// Package ops serves structured operation requests.
package ops

import (
	"net/http"

	"github.com/kilianp07/dronecoord/api/respond"
	coreops "github.com/kilianp07/dronecoord/core/ops"
)

// NewHandler serves POST /api/ops with a body such as
// {"operation":"urgent-reassign","mission_id":"PRJ001"}.
func NewHandler(exec *coreops.Executor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req coreops.Request
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, err)
			return
		}
		if _, err := coreops.ParseOperation(string(req.Op)); err != nil {
			respond.Error(w, err)
			return
		}
		resp, err := exec.Execute(r.Context(), req)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, resp)
	})
}
