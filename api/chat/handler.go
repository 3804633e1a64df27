// Package chat serves the free-text operator endpoint.
package chat

import (
	"net/http"

	"github.com/kilianp07/dronecoord/api/respond"
	"github.com/kilianp07/dronecoord/internal/intent"
)

type Request struct {
	Message string `json:"message" validate:"required"`
}

type Response struct {
	Response string `json:"response"`
}

// NewHandler serves POST /chat.
func NewHandler(router *intent.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, Response{Response: router.Handle(r.Context(), req.Message)})
	})
}
