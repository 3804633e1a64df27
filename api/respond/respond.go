// Package respond holds the JSON encoding and error mapping shared by the
// HTTP handlers.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kilianp07/dronecoord/core/model"
	"github.com/kilianp07/dronecoord/core/monitoring"
)

// ErrorBody is the payload of every failed request.
type ErrorBody struct {
	Status   string   `json:"status"`
	Kind     string   `json:"kind"`
	Message  string   `json:"message"`
	Blockers []string `json:"blockers,omitempty"`
}

var validate = validator.New()

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StatusFor maps an error kind to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrConflictBlocked),
		errors.Is(err, model.ErrNoEligibleResource),
		errors.Is(err, model.ErrNoStandbyPilot),
		errors.Is(err, model.ErrNoUnassignedMission),
		errors.Is(err, model.ErrNotAssigned):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Error writes err as an ErrorBody.
func Error(w http.ResponseWriter, err error) {
	monitoring.CaptureInternal(err, map[string]string{"component": "http"})
	JSON(w, StatusFor(err), ErrorBody{
		Status:   "failed",
		Kind:     model.KindOf(err),
		Message:  err.Error(),
		Blockers: model.BlockersOf(err),
	})
}

// Decode reads a JSON body into v and checks its validate tags. Every
// failure is a validation error.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return model.Invalid("invalid request body: %v", err)
	}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("field '%s' failed validation: %s", e.Field(), e.Tag()))
			}
			return model.Invalid("%s", strings.Join(msgs, "; "))
		}
		return model.Invalid("%v", err)
	}
	return nil
}
