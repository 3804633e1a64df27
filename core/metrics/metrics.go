package metrics

import "time"

// DecisionEvent is one coordinator decision to be recorded.
type DecisionEvent struct {
	Operation string
	// Outcome is "success" or "failed".
	Outcome string
	// Kind is the error kind of a failed decision, empty on success.
	Kind      string
	MissionID string
	PilotID   string
	DroneID   string
	Blockers  int
	Warnings  int
	Score     int
	Duration  time.Duration
	Time      time.Time
}

// MetricsSink records coordinator decisions for observability purposes.
type MetricsSink interface {
	RecordDecision(ev DecisionEvent) error
}

// FleetSnapshot summarises resource availability after a decision.
type FleetSnapshot struct {
	AvailablePilots   int
	OperationalDrones int
	Missions          int
	AssignedMissions  int
	Time              time.Time
}

// FleetRecorder is implemented by sinks able to record fleet snapshots.
type FleetRecorder interface {
	RecordFleet(s FleetSnapshot) error
}

// NopSink implements MetricsSink and FleetRecorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordDecision(DecisionEvent) error { return nil }
func (NopSink) RecordFleet(FleetSnapshot) error    { return nil }

// MultiSink fans out records to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordDecision forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordDecision(ev DecisionEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordDecision(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordFleet forwards the snapshot to sinks implementing FleetRecorder.
func (m *MultiSink) RecordFleet(snap FleetSnapshot) error {
	for _, s := range m.Sinks {
		if fr, ok := s.(FleetRecorder); ok {
			if err := fr.RecordFleet(snap); err != nil {
				return err
			}
		}
	}
	return nil
}
