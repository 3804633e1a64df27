// Package intent maps free-text operator requests onto coordinator
// operations and renders the answers as plain text.
package intent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kilianp07/dronecoord/core/coordinator"
	"github.com/kilianp07/dronecoord/core/logger"
	"github.com/kilianp07/dronecoord/core/model"
	"github.com/kilianp07/dronecoord/core/ops"
	"github.com/kilianp07/dronecoord/core/roster"
)

// HelpText is returned when a request matches no rule.
const HelpText = "I'm not fully sure what you want yet.\n\n" +
	"You can ask things like:\n" +
	"- Which pilots are available?\n" +
	"- Which drones are available?\n" +
	"- Assign resources to a mission\n" +
	"- Handle an urgent reassignment"

// Classify maps text to an operation. Urgent phrases are tested before
// "assign" so that "urgent reassign" is not taken for a plain assignment.
func Classify(text string) (ops.Operation, bool) {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "available pilot"):
		return ops.ListAvailablePilots, true
	case strings.Contains(t, "available drone"):
		return ops.ListAvailableDrones, true
	case strings.Contains(t, "urgent"), strings.Contains(t, "emergency"):
		return ops.UrgentReassign, true
	case strings.Contains(t, "assign"):
		return ops.AssignNext, true
	}
	return "", false
}

// Router answers free-text requests.
type Router struct {
	coord *coordinator.Coordinator
	exec  *ops.Executor
	log   logger.Logger
}

// NewRouter returns a Router over c.
func NewRouter(c *coordinator.Coordinator, log logger.Logger) *Router {
	return &Router{coord: c, exec: ops.NewExecutor(c), log: logger.OrNop(log)}
}

// Handle classifies text, runs the operation and renders the outcome.
func (r *Router) Handle(ctx context.Context, text string) string {
	op, ok := Classify(text)
	if !ok {
		return HelpText
	}
	r.log.Debugf("intent %q -> %s", text, op)
	req := ops.Request{Op: op}
	if op == ops.UrgentReassign {
		id, found := r.urgentMission(text)
		if !found {
			return "No active missions to reassign."
		}
		req.MissionID = id
	}
	resp, err := r.exec.Execute(ctx, req)
	if err != nil {
		return renderError(op, err)
	}
	return Render(resp)
}

// urgentMission picks the mission named in text, or else the first mission
// with an assigned pilot.
func (r *Router) urgentMission(text string) (string, bool) {
	var id string
	_ = r.coord.Store().Read(func(v roster.View) error {
		missions := v.Missions()
		words := strings.FieldsFunc(strings.ToLower(text), func(c rune) bool {
			return c == ' ' || c == ',' || c == '?' || c == '!' || c == '.' || c == ':'
		})
		for _, m := range missions {
			for _, w := range words {
				if w == strings.ToLower(m.ID) {
					id = m.ID
					return nil
				}
			}
		}
		for _, m := range missions {
			if m.AssignedPilot.IsSet() {
				id = m.ID
				return nil
			}
		}
		return nil
	})
	return id, id != ""
}

// Render formats a successful response.
func Render(resp ops.Response) string {
	var b strings.Builder
	switch resp.Operation {
	case ops.ListAvailablePilots:
		if len(resp.Pilots) == 0 {
			return "No pilots are currently available."
		}
		b.WriteString("Available pilots:\n")
		for _, p := range resp.Pilots {
			fmt.Fprintf(&b, "- %s (%s, %s)\n", p.Name, p.SkillLevel, p.Location)
		}
	case ops.ListAvailableDrones:
		if len(resp.Drones) == 0 {
			return "No drones are currently available."
		}
		b.WriteString("Available drones:\n")
		for _, d := range resp.Drones {
			fmt.Fprintf(&b, "- %s (%s)\n", d.Model, d.Location)
		}
	case ops.AssignNext, ops.Assign:
		a := resp.Assignment
		fmt.Fprintf(&b, "Mission '%s' assigned successfully.\nPilot: %s\nDrone: %s\nLocation: %s",
			a.MissionName, a.PilotName, a.DroneModel, a.Location)
		for _, w := range a.Warnings {
			fmt.Fprintf(&b, "\nWarning: %s", w)
		}
	case ops.UrgentReassign:
		u := resp.Urgent
		prev := u.PreviousPilot.String()
		if prev == "" {
			prev = "none"
		}
		fmt.Fprintf(&b, "URGENT REASSIGNMENT COMPLETE\nMission: %s\nPrevious pilot: %s\nNew pilot: %s\nRationale: %s",
			u.MissionName, prev, u.PilotName, u.Rationale)
	case ops.Release:
		fmt.Fprintf(&b, "Mission '%s' released.", resp.Release.MissionName)
		if len(resp.Release.Stale) > 0 {
			fmt.Fprintf(&b, "\nAlso freed: %s", strings.Join(resp.Release.Stale, ", "))
		}
	case ops.Check:
		if !resp.Report.Blocked() {
			b.WriteString("No blocking conflicts.")
		} else {
			b.WriteString("Blocking conflicts:")
			for _, m := range resp.Report.BlockerMessages() {
				fmt.Fprintf(&b, "\n- %s", m)
			}
		}
		for _, w := range resp.Report.WarningMessages() {
			fmt.Fprintf(&b, "\nWarning: %s", w)
		}
	case ops.Candidates:
		if len(resp.Candidates) == 0 {
			return "No suitable standby pilots available."
		}
		b.WriteString("Standby candidates:\n")
		for i, c := range resp.Candidates {
			fmt.Fprintf(&b, "%d. %s (score %d): %s\n", i+1, c.PilotName, c.Score, c.Rationale)
		}
	}
	return b.String()
}

func renderError(op ops.Operation, err error) string {
	switch {
	case errors.Is(err, model.ErrNoUnassignedMission):
		return "All missions are currently assigned."
	case errors.Is(err, model.ErrNoEligibleResource):
		return "Unable to assign mission due to lack of available pilots or drones."
	case errors.Is(err, model.ErrNoStandbyPilot):
		return "URGENT FAILURE: No suitable standby pilots available.\nManual escalation required."
	case errors.Is(err, model.ErrNotFound):
		return "Mission not found."
	}
	return fmt.Sprintf("%s failed: %v", op, err)
}
