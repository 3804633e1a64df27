// Package ops exposes the coordinator as a closed set of named operations,
// shared by the HTTP, CLI and chat front ends.
package ops

import (
	"context"

	"github.com/kilianp07/dronecoord/core/conflict"
	"github.com/kilianp07/dronecoord/core/coordinator"
	"github.com/kilianp07/dronecoord/core/model"
)

// Operation names one coordinator capability.
type Operation string

const (
	ListAvailablePilots Operation = "list-available-pilots"
	ListAvailableDrones Operation = "list-available-drones"
	AssignNext          Operation = "assign-next"
	UrgentReassign      Operation = "urgent-reassign"
	Assign              Operation = "assign"
	Check               Operation = "check"
	Release             Operation = "release"
	Candidates          Operation = "candidates"
)

// All lists every operation in a stable order.
var All = []Operation{
	ListAvailablePilots, ListAvailableDrones, AssignNext, UrgentReassign,
	Assign, Check, Release, Candidates,
}

// ParseOperation matches s exactly against the known operations.
func ParseOperation(s string) (Operation, error) {
	for _, op := range All {
		if string(op) == s {
			return op, nil
		}
	}
	return "", model.Invalid("unknown operation %q", s)
}

// Request is a structured invocation.
type Request struct {
	Op        Operation `json:"operation" validate:"required"`
	MissionID string    `json:"mission_id,omitempty"`
	PilotID   string    `json:"pilot_id,omitempty"`
	DroneID   string    `json:"drone_id,omitempty"`
}

// Response carries the payload of the executed operation; only the field
// matching the operation is set.
type Response struct {
	Operation  Operation                  `json:"operation"`
	Pilots     []model.Pilot              `json:"pilots,omitempty"`
	Drones     []model.Drone              `json:"drones,omitempty"`
	Assignment *coordinator.AssignResult  `json:"assignment,omitempty"`
	Urgent     *coordinator.UrgentResult  `json:"urgent,omitempty"`
	Report     *conflict.Report           `json:"report,omitempty"`
	Release    *coordinator.ReleaseResult `json:"release,omitempty"`
	Candidates []coordinator.Candidate    `json:"candidates,omitempty"`
}

// Executor dispatches requests to a coordinator.
type Executor struct {
	coord *coordinator.Coordinator
}

// NewExecutor returns an Executor over c.
func NewExecutor(c *coordinator.Coordinator) *Executor {
	return &Executor{coord: c}
}

// Execute runs req and returns the operation payload.
func (e *Executor) Execute(ctx context.Context, req Request) (Response, error) {
	resp := Response{Operation: req.Op}
	switch req.Op {
	case ListAvailablePilots:
		resp.Pilots = e.coord.AvailablePilots(ctx)
	case ListAvailableDrones:
		resp.Drones = e.coord.AvailableDrones(ctx)
	case AssignNext:
		res, err := e.coord.AssignNext(ctx)
		if err != nil {
			return resp, err
		}
		resp.Assignment = &res
	case UrgentReassign:
		if err := need(req.Op, "mission_id", req.MissionID); err != nil {
			return resp, err
		}
		res, err := e.coord.ResolveUrgentPilotFailure(ctx, req.MissionID)
		if err != nil {
			return resp, err
		}
		resp.Urgent = &res
	case Assign, Check:
		if err := needAll(req); err != nil {
			return resp, err
		}
		if req.Op == Check {
			rep, err := e.coord.Check(ctx, req.MissionID, req.PilotID, req.DroneID)
			if err != nil {
				return resp, err
			}
			resp.Report = &rep
			break
		}
		res, err := e.coord.Assign(ctx, req.MissionID, req.PilotID, req.DroneID)
		if err != nil {
			return resp, err
		}
		resp.Assignment = &res
	case Release:
		if err := need(req.Op, "mission_id", req.MissionID); err != nil {
			return resp, err
		}
		res, err := e.coord.Release(ctx, req.MissionID)
		if err != nil {
			return resp, err
		}
		resp.Release = &res
	case Candidates:
		if err := need(req.Op, "mission_id", req.MissionID); err != nil {
			return resp, err
		}
		cands, err := e.coord.RankCandidates(ctx, req.MissionID)
		if err != nil {
			return resp, err
		}
		resp.Candidates = cands
	default:
		return resp, model.Invalid("unknown operation %q", req.Op)
	}
	return resp, nil
}

func need(op Operation, field, v string) error {
	if v == "" {
		return model.Invalid("%s requires %s", op, field)
	}
	return nil
}

func needAll(req Request) error {
	if err := need(req.Op, "mission_id", req.MissionID); err != nil {
		return err
	}
	if err := need(req.Op, "pilot_id", req.PilotID); err != nil {
		return err
	}
	return need(req.Op, "drone_id", req.DroneID)
}

// String implements fmt.Stringer.
func (o Operation) String() string { return string(o) }
