package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/dronecoord/core/model"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{model.NotFound("mission", "x"), http.StatusNotFound},
		{model.Invalid("bad"), http.StatusBadRequest},
		{model.Blocked("m", []string{"b"}), http.StatusConflict},
		{&model.OpError{Kind: model.ErrNoStandbyPilot}, http.StatusConflict},
		{&model.OpError{Kind: model.ErrNotAssigned}, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestErrorBody(t *testing.T) {
	rr := httptest.NewRecorder()
	Error(rr, model.Blocked("PRJ001", []string{"Pilot Neha lacks required certifications: FAA107."}))
	assert.Equal(t, http.StatusConflict, rr.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "failed", body.Status)
	assert.Equal(t, "ConflictBlocked", body.Kind)
	assert.Equal(t, []string{"Pilot Neha lacks required certifications: FAA107."}, body.Blockers)
}

type sample struct {
	Name string `json:"name" validate:"required"`
}

func TestDecode(t *testing.T) {
	var s sample
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, Decode(r, &s))
	assert.Equal(t, "x", s.Name)

	for _, body := range []string{`{}`, `{"name":"x","extra":1}`, `not json`} {
		r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		assert.ErrorIs(t, Decode(r, &sample{}), model.ErrValidation, body)
	}
}
