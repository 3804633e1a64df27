package coordinator

import (
	"context"

	"github.com/kilianp07/dronecoord/core/events"
	"github.com/kilianp07/dronecoord/core/roster"
)

// Release ends the mission's assignment and returns every pilot and drone
// still holding the mission to the pool, including a pilot left behind by an
// urgent reassignment.
func (c *Coordinator) Release(ctx context.Context, missionID string) (ReleaseResult, error) {
	started := c.now()
	res := ReleaseResult{MissionID: missionID}
	var fleet roster.Counts
	err := c.store.Write(func(tx *roster.Tx) error {
		defer func() { fleet = tx.Counts() }()
		if m, ok := tx.Mission(missionID); ok {
			res.MissionName = m.Name
		}
		rel, err := tx.Release(missionID)
		if err != nil {
			return err
		}
		res.Pilot, res.Drone, res.Stale = rel.Pilot, rel.Drone, rel.Stale
		return nil
	})
	if err != nil {
		c.log.Warnf("release mission %s: %v", missionID, err)
	} else {
		c.log.Infof("released mission %s (pilot %q, drone %q)", missionID, res.Pilot.String(), res.Drone.String())
	}
	c.emit(ctx, events.Decision{
		Operation:   OpRelease,
		MissionID:   res.MissionID,
		MissionName: res.MissionName,
		PilotID:     res.Pilot.String(),
		DroneID:     res.Drone.String(),
		Fleet:       fleet,
	}, started, err)
	if err != nil {
		return ReleaseResult{}, err
	}
	return res, nil
}
