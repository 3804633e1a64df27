package coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/dronecoord/core/conflict"
	"github.com/kilianp07/dronecoord/core/events"
	"github.com/kilianp07/dronecoord/core/model"
	"github.com/kilianp07/dronecoord/core/roster"
)

// AssignNext binds the first unassigned mission to the first available pilot
// and the first operational drone, in store order. Qualifications and
// schedule are not checked on this path; location mismatches are reported as
// warnings after selection.
func (c *Coordinator) AssignNext(ctx context.Context) (AssignResult, error) {
	started := c.now()
	var (
		res   AssignResult
		fleet roster.Counts
	)
	err := c.store.Write(func(tx *roster.Tx) error {
		defer func() { fleet = tx.Counts() }()
		m, ok := firstUnassigned(tx)
		if !ok {
			return &model.OpError{Kind: model.ErrNoUnassignedMission, Msg: "all missions are currently assigned"}
		}
		res.MissionID, res.MissionName = m.ID, m.Name
		pilots := tx.AvailablePilots()
		drones := tx.OperationalDrones()
		if len(pilots) == 0 || len(drones) == 0 {
			return &model.OpError{
				Kind:   model.ErrNoEligibleResource,
				Entity: "mission",
				ID:     m.ID,
				Msg:    "unable to assign mission " + m.ID + " due to lack of available pilots or drones",
			}
		}
		p, d := pilots[0], drones[0]
		if err := tx.Commit(model.Assignment{MissionID: m.ID, PilotID: p.ID, DroneID: d.ID, Window: m.Window, Location: m.Location}); err != nil {
			return err
		}
		res = newAssignResult(m, p, d)
		res.Warnings = c.detector.Check(tx, p, d, m).WarningMessages()
		return nil
	})
	c.finishAssign(ctx, OpAssignNext, res, nil, fleet, started, err)
	if err != nil {
		return AssignResult{}, err
	}
	return res, nil
}

// Assign binds the given pilot and drone to the mission after a full
// conflict check. Any blocker rejects the assignment and nothing changes. A
// mission that is already assigned is rejected; it must be released first.
func (c *Coordinator) Assign(ctx context.Context, missionID, pilotID, droneID string) (AssignResult, error) {
	started := c.now()
	res := AssignResult{MissionID: missionID, PilotID: pilotID, DroneID: droneID}
	var (
		blockers []string
		fleet    roster.Counts
	)
	err := c.store.Write(func(tx *roster.Tx) error {
		defer func() { fleet = tx.Counts() }()
		m, p, d, err := resolve(tx, missionID, pilotID, droneID)
		if err != nil {
			return err
		}
		res.MissionName = m.Name
		if msg, taken := alreadyAssigned(m); taken {
			blockers = []string{msg}
			return model.Blocked(m.ID, blockers)
		}
		report := c.detector.Check(tx, p, d, m)
		if report.Blocked() {
			blockers = report.BlockerMessages()
			return model.Blocked(m.ID, blockers)
		}
		if err := tx.Commit(model.Assignment{MissionID: m.ID, PilotID: p.ID, DroneID: d.ID, Window: m.Window, Location: m.Location}); err != nil {
			return err
		}
		res = newAssignResult(m, p, d)
		res.Warnings = report.WarningMessages()
		return nil
	})
	c.finishAssign(ctx, OpAssign, res, blockers, fleet, started, err)
	if err != nil {
		return AssignResult{}, err
	}
	return res, nil
}

// Check runs the conflict detector for the triple without changing anything.
func (c *Coordinator) Check(_ context.Context, missionID, pilotID, droneID string) (conflict.Report, error) {
	var report conflict.Report
	err := c.store.Read(func(v roster.View) error {
		m, p, d, err := resolve(v, missionID, pilotID, droneID)
		if err != nil {
			return err
		}
		report = c.detector.Check(v, p, d, m)
		return nil
	})
	return report, err
}

func (c *Coordinator) finishAssign(ctx context.Context, op string, res AssignResult, blockers []string, fleet roster.Counts, started time.Time, err error) {
	if err != nil {
		c.log.Warnf("%s mission %s: %v", op, res.MissionID, err)
	} else {
		c.log.Infof("%s: mission %s assigned to pilot %s with drone %s", op, res.MissionID, res.PilotID, res.DroneID)
	}
	c.emit(ctx, events.Decision{
		Operation:   op,
		MissionID:   res.MissionID,
		MissionName: res.MissionName,
		PilotID:     res.PilotID,
		DroneID:     res.DroneID,
		Blockers:    blockers,
		Warnings:    res.Warnings,
		Fleet:       fleet,
	}, started, err)
}

func newAssignResult(m model.Mission, p model.Pilot, d model.Drone) AssignResult {
	return AssignResult{
		MissionID:   m.ID,
		MissionName: m.Name,
		PilotID:     p.ID,
		PilotName:   p.Name,
		DroneID:     d.ID,
		DroneModel:  d.Model,
		Location:    m.Location,
	}
}

func alreadyAssigned(m model.Mission) (string, bool) {
	switch {
	case m.AssignedPilot.IsSet():
		return fmt.Sprintf("Mission %s is already assigned to pilot %s.", m.Name, m.AssignedPilot.String()), true
	case m.AssignedDrone.IsSet():
		return fmt.Sprintf("Mission %s is already assigned to drone %s.", m.Name, m.AssignedDrone.String()), true
	}
	return "", false
}

func firstUnassigned(v roster.View) (model.Mission, bool) {
	for _, m := range v.Missions() {
		if !m.AssignedPilot.IsSet() {
			return m, true
		}
	}
	return model.Mission{}, false
}

func resolve(v roster.View, missionID, pilotID, droneID string) (model.Mission, model.Pilot, model.Drone, error) {
	m, ok := v.Mission(missionID)
	if !ok {
		return model.Mission{}, model.Pilot{}, model.Drone{}, model.NotFound("mission", missionID)
	}
	p, ok := v.Pilot(pilotID)
	if !ok {
		return model.Mission{}, model.Pilot{}, model.Drone{}, model.NotFound("pilot", pilotID)
	}
	d, ok := v.Drone(droneID)
	if !ok {
		return model.Mission{}, model.Pilot{}, model.Drone{}, model.NotFound("drone", droneID)
	}
	return m, p, d, nil
}
