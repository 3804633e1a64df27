package roster

import (
	"sync"

	"github.com/kilianp07/dronecoord/core/model"
)

// View is a read-only window on the roster. Every entity returned is a copy.
type View interface {
	Pilot(id string) (model.Pilot, bool)
	Drone(id string) (model.Drone, bool)
	Mission(id string) (model.Mission, bool)
	Pilots() []model.Pilot
	Drones() []model.Drone
	Missions() []model.Mission
	AvailablePilots() []model.Pilot
	OperationalDrones() []model.Drone
	// MissionsForPilot returns the missions whose assigned pilot is id.
	MissionsForPilot(id string) []model.Mission
	Counts() Counts
}

// Counts summarises the roster by status.
type Counts struct {
	Pilots            map[model.PilotStatus]int `json:"pilots"`
	Drones            map[model.DroneStatus]int `json:"drones"`
	AvailablePilots   int                       `json:"available_pilots"`
	OperationalDrones int                       `json:"operational_drones"`
	Missions          int                       `json:"missions"`
	AssignedMissions  int                       `json:"assigned_missions"`
}

// Store keeps pilots, drones and missions in memory, keyed by identity and
// iterated in insertion order.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{st: newState()}
}

// NewStoreFrom builds a store from loaded records.
func NewStoreFrom(pilots []model.Pilot, drones []model.Drone, missions []model.Mission) (*Store, error) {
	s := NewStore()
	for _, p := range pilots {
		if err := s.AddPilot(p); err != nil {
			return nil, err
		}
	}
	for _, d := range drones {
		if err := s.AddDrone(d); err != nil {
			return nil, err
		}
	}
	for _, m := range missions {
		if err := s.AddMission(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddPilot inserts a pilot. Identities must be unique.
func (s *Store) AddPilot(p model.Pilot) error {
	if p.ID == "" {
		return model.Invalid("pilot id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.pilots[p.ID]; ok {
		return model.Invalid("duplicate pilot id %s", p.ID)
	}
	cp := p.Clone()
	s.st.pilots[p.ID] = &cp
	s.st.pilotOrder = append(s.st.pilotOrder, p.ID)
	s.st.pilotIdx.add(p.Status, p.ID)
	return nil
}

// AddDrone inserts a drone. Identities must be unique.
func (s *Store) AddDrone(d model.Drone) error {
	if d.ID == "" {
		return model.Invalid("drone id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.drones[d.ID]; ok {
		return model.Invalid("duplicate drone id %s", d.ID)
	}
	cp := d.Clone()
	s.st.drones[d.ID] = &cp
	s.st.droneOrder = append(s.st.droneOrder, d.ID)
	s.st.droneIdx.add(d.Status, d.ID)
	return nil
}

// AddMission inserts a mission after validating its window.
func (s *Store) AddMission(m model.Mission) error {
	if m.ID == "" {
		return model.Invalid("mission id is required")
	}
	if err := m.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.missions[m.ID]; ok {
		return model.Invalid("duplicate mission id %s", m.ID)
	}
	cp := m.Clone()
	s.st.missions[m.ID] = &cp
	s.st.missionOrder = append(s.st.missionOrder, m.ID)
	if pid, ok := m.AssignedPilot.Get(); ok {
		s.st.byPilot.add(pid, m.ID)
	}
	return nil
}

// Read runs fn with a consistent read-only view.
func (s *Store) Read(fn func(View) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

// Write runs fn holding the exclusive lock. Checks performed inside fn and
// the mutations it commits are observed by other callers as one unit.
func (s *Store) Write(fn func(*Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Tx{state: s.st})
}

// Snapshot returns copies of every entity in store order.
func (s *Store) Snapshot() ([]model.Pilot, []model.Drone, []model.Mission) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.Pilots(), s.st.Drones(), s.st.Missions()
}
