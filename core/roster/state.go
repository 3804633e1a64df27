package roster

import "github.com/kilianp07/dronecoord/core/model"

// index is a secondary index from a key to a set of identities.
type index[K comparable] map[K]map[string]struct{}

func (ix index[K]) add(k K, id string) {
	set, ok := ix[k]
	if !ok {
		set = make(map[string]struct{})
		ix[k] = set
	}
	set[id] = struct{}{}
}

func (ix index[K]) remove(k K, id string) {
	if set, ok := ix[k]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(ix, k)
		}
	}
}

func (ix index[K]) has(k K, id string) bool {
	_, ok := ix[k][id]
	return ok
}

type state struct {
	pilots       map[string]*model.Pilot
	drones       map[string]*model.Drone
	missions     map[string]*model.Mission
	pilotOrder   []string
	droneOrder   []string
	missionOrder []string

	pilotIdx index[model.PilotStatus]
	droneIdx index[model.DroneStatus]
	byPilot  index[string]
}

func newState() *state {
	return &state{
		pilots:   map[string]*model.Pilot{},
		drones:   map[string]*model.Drone{},
		missions: map[string]*model.Mission{},
		pilotIdx: index[model.PilotStatus]{},
		droneIdx: index[model.DroneStatus]{},
		byPilot:  index[string]{},
	}
}

func (s *state) Pilot(id string) (model.Pilot, bool) {
	p, ok := s.pilots[id]
	if !ok {
		return model.Pilot{}, false
	}
	return p.Clone(), true
}

func (s *state) Drone(id string) (model.Drone, bool) {
	d, ok := s.drones[id]
	if !ok {
		return model.Drone{}, false
	}
	return d.Clone(), true
}

func (s *state) Mission(id string) (model.Mission, bool) {
	m, ok := s.missions[id]
	if !ok {
		return model.Mission{}, false
	}
	return m.Clone(), true
}

func (s *state) Pilots() []model.Pilot {
	res := make([]model.Pilot, 0, len(s.pilotOrder))
	for _, id := range s.pilotOrder {
		res = append(res, s.pilots[id].Clone())
	}
	return res
}

func (s *state) Drones() []model.Drone {
	res := make([]model.Drone, 0, len(s.droneOrder))
	for _, id := range s.droneOrder {
		res = append(res, s.drones[id].Clone())
	}
	return res
}

func (s *state) Missions() []model.Mission {
	res := make([]model.Mission, 0, len(s.missionOrder))
	for _, id := range s.missionOrder {
		res = append(res, s.missions[id].Clone())
	}
	return res
}

func (s *state) AvailablePilots() []model.Pilot {
	var res []model.Pilot
	for _, id := range s.pilotOrder {
		if !s.pilotIdx.has(model.PilotAvailable, id) {
			continue
		}
		if p := s.pilots[id]; p.IsAvailable() {
			res = append(res, p.Clone())
		}
	}
	return res
}

func (s *state) OperationalDrones() []model.Drone {
	var res []model.Drone
	for _, id := range s.droneOrder {
		if !s.droneIdx.has(model.DroneAvailable, id) {
			continue
		}
		if d := s.drones[id]; d.IsOperational() {
			res = append(res, d.Clone())
		}
	}
	return res
}

func (s *state) MissionsForPilot(id string) []model.Mission {
	ids := s.byPilot[id]
	if len(ids) == 0 {
		return nil
	}
	res := make([]model.Mission, 0, len(ids))
	for _, mid := range s.missionOrder {
		if _, ok := ids[mid]; ok {
			res = append(res, s.missions[mid].Clone())
		}
	}
	return res
}

func (s *state) Counts() Counts {
	c := Counts{
		Pilots:   make(map[model.PilotStatus]int, len(s.pilotIdx)),
		Drones:   make(map[model.DroneStatus]int, len(s.droneIdx)),
		Missions: len(s.missions),
	}
	for st, ids := range s.pilotIdx {
		c.Pilots[st] = len(ids)
	}
	for st, ids := range s.droneIdx {
		c.Drones[st] = len(ids)
	}
	for id := range s.pilotIdx[model.PilotAvailable] {
		if !s.pilots[id].CurrentAssignment.IsSet() {
			c.AvailablePilots++
		}
	}
	for id := range s.droneIdx[model.DroneAvailable] {
		if !s.drones[id].CurrentAssignment.IsSet() {
			c.OperationalDrones++
		}
	}
	for _, m := range s.missions {
		if m.AssignedPilot.IsSet() {
			c.AssignedMissions++
		}
	}
	return c
}

func (s *state) setPilotStatus(p *model.Pilot, st model.PilotStatus) {
	s.pilotIdx.remove(p.Status, p.ID)
	p.Status = st
	s.pilotIdx.add(st, p.ID)
}

func (s *state) setDroneStatus(d *model.Drone, st model.DroneStatus) {
	s.droneIdx.remove(d.Status, d.ID)
	d.Status = st
	s.droneIdx.add(st, d.ID)
}
