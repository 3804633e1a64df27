package roster

import "github.com/kilianp07/dronecoord/core/model"

// Tx is a write transaction. It is only valid inside Store.Write.
type Tx struct {
	*state
}

// Commit binds the pilot and drone of a to its mission: the pilot becomes
// Unavailable and the drone Deployed, both referencing the mission. A pilot
// and drone the mission was already bound to are freed first.
func (tx *Tx) Commit(a model.Assignment) error {
	m, p, d, err := tx.lookup(a.MissionID, a.PilotID, a.DroneID)
	if err != nil {
		return err
	}
	tx.unbind(m)
	p.CurrentAssignment = model.NewRef(m.ID)
	tx.setPilotStatus(p, model.PilotUnavailable)
	d.CurrentAssignment = model.NewRef(m.ID)
	tx.setDroneStatus(d, model.DroneDeployed)
	m.AssignedPilot = model.NewRef(p.ID)
	m.AssignedDrone = model.NewRef(d.ID)
	tx.byPilot.add(p.ID, m.ID)
	return nil
}

// ReplacePilot points the mission at a new pilot and returns the previous
// reference. The previous pilot keeps its status and assignment.
func (tx *Tx) ReplacePilot(missionID, pilotID string) (model.Ref, error) {
	m, ok := tx.missions[missionID]
	if !ok {
		return model.Ref{}, model.NotFound("mission", missionID)
	}
	p, ok := tx.pilots[pilotID]
	if !ok {
		return model.Ref{}, model.NotFound("pilot", pilotID)
	}
	prev := m.AssignedPilot
	if id, ok := prev.Get(); ok {
		tx.byPilot.remove(id, m.ID)
	}
	m.AssignedPilot = model.NewRef(p.ID)
	tx.byPilot.add(p.ID, m.ID)
	p.CurrentAssignment = model.NewRef(m.ID)
	tx.setPilotStatus(p, model.PilotUnavailable)
	return prev, nil
}

// Released lists the resources freed by Release.
type Released struct {
	Pilot model.Ref
	Drone model.Ref
	// Stale holds resources that still referenced the mission without being
	// referenced by it, such as a pilot replaced by an urgent reassignment.
	Stale []string
}

// Release ends the mission's assignment. Every pilot and drone still holding
// the mission returns to Available; the mission references are cleared.
func (tx *Tx) Release(missionID string) (Released, error) {
	m, ok := tx.missions[missionID]
	if !ok {
		return Released{}, model.NotFound("mission", missionID)
	}
	if !m.AssignedPilot.IsSet() && !m.AssignedDrone.IsSet() && !tx.held(m.ID) {
		return Released{}, &model.OpError{Kind: model.ErrNotAssigned, Entity: "mission", ID: missionID}
	}
	return tx.free(m), nil
}

func (tx *Tx) held(missionID string) bool {
	for _, id := range tx.pilotOrder {
		if tx.pilots[id].CurrentAssignment.Is(missionID) {
			return true
		}
	}
	for _, id := range tx.droneOrder {
		if tx.drones[id].CurrentAssignment.Is(missionID) {
			return true
		}
	}
	return false
}

// unbind frees the pilot and drone the mission references, if they still
// hold it, and clears the references.
func (tx *Tx) unbind(m *model.Mission) {
	if pid, ok := m.AssignedPilot.Get(); ok {
		tx.byPilot.remove(pid, m.ID)
		if p, ok := tx.pilots[pid]; ok && p.CurrentAssignment.Is(m.ID) {
			p.CurrentAssignment = model.Ref{}
			tx.setPilotStatus(p, model.PilotAvailable)
		}
	}
	if did, ok := m.AssignedDrone.Get(); ok {
		if d, ok := tx.drones[did]; ok && d.CurrentAssignment.Is(m.ID) {
			d.CurrentAssignment = model.Ref{}
			tx.setDroneStatus(d, model.DroneAvailable)
		}
	}
	m.AssignedPilot = model.Ref{}
	m.AssignedDrone = model.Ref{}
}

// free returns every resource holding the mission to Available.
func (tx *Tx) free(m *model.Mission) Released {
	var out Released
	for _, id := range tx.pilotOrder {
		p := tx.pilots[id]
		if !p.CurrentAssignment.Is(m.ID) {
			continue
		}
		p.CurrentAssignment = model.Ref{}
		tx.setPilotStatus(p, model.PilotAvailable)
		if m.AssignedPilot.Is(id) {
			out.Pilot = model.NewRef(id)
		} else {
			out.Stale = append(out.Stale, id)
		}
	}
	for _, id := range tx.droneOrder {
		d := tx.drones[id]
		if !d.CurrentAssignment.Is(m.ID) {
			continue
		}
		d.CurrentAssignment = model.Ref{}
		tx.setDroneStatus(d, model.DroneAvailable)
		if m.AssignedDrone.Is(id) {
			out.Drone = model.NewRef(id)
		} else {
			out.Stale = append(out.Stale, id)
		}
	}
	if pid, ok := m.AssignedPilot.Get(); ok {
		tx.byPilot.remove(pid, m.ID)
	}
	m.AssignedPilot = model.Ref{}
	m.AssignedDrone = model.Ref{}
	return out
}

func (tx *Tx) lookup(missionID, pilotID, droneID string) (*model.Mission, *model.Pilot, *model.Drone, error) {
	m, ok := tx.missions[missionID]
	if !ok {
		return nil, nil, nil, model.NotFound("mission", missionID)
	}
	p, ok := tx.pilots[pilotID]
	if !ok {
		return nil, nil, nil, model.NotFound("pilot", pilotID)
	}
	d, ok := tx.drones[droneID]
	if !ok {
		return nil, nil, nil, model.NotFound("drone", droneID)
	}
	return m, p, d, nil
}
