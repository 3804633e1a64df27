package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/dronecoord/core/metrics"
)

// PromSink records coordinator decisions in Prometheus metrics.
type PromSink struct {
	decisions *prometheus.CounterVec
	blockers  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	pilots    prometheus.Gauge
	drones    prometheus.Gauge
	assigned  prometheus.Gauge
}

// NewPromSink registers metrics on the default Prometheus registerer. The
// HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coordinator_decisions_total",
			Help: "Total number of coordinator decisions",
		}, []string{"operation", "outcome", "kind"}),
		blockers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coordinator_blockers_total",
			Help: "Blocking conflicts reported on rejected decisions",
		}, []string{"operation"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coordinator_decision_duration_seconds",
			Help:    "Time spent computing a decision",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		}, []string{"operation"}),
		pilots: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_available_pilots",
			Help: "Pilots available for assignment",
		}),
		drones: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_operational_drones",
			Help: "Drones available for deployment",
		}),
		assigned: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_assigned_missions",
			Help: "Missions with an assigned pilot",
		}),
	}
	var err error
	if s.decisions, err = register(reg, s.decisions); err != nil {
		return nil, err
	}
	if s.blockers, err = register(reg, s.blockers); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.pilots, err = register(reg, s.pilots); err != nil {
		return nil, err
	}
	if s.drones, err = register(reg, s.drones); err != nil {
		return nil, err
	}
	if s.assigned, err = register(reg, s.assigned); err != nil {
		return nil, err
	}
	return s, nil
}

// register returns the already registered collector when c was registered
// before, so several sinks can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordDecision increments the decision counter and observes its duration.
func (s *PromSink) RecordDecision(ev coremetrics.DecisionEvent) error {
	s.decisions.WithLabelValues(ev.Operation, ev.Outcome, ev.Kind).Inc()
	if ev.Blockers > 0 {
		s.blockers.WithLabelValues(ev.Operation).Add(float64(ev.Blockers))
	}
	s.duration.WithLabelValues(ev.Operation).Observe(ev.Duration.Seconds())
	return nil
}

// RecordFleet sets the availability gauges.
func (s *PromSink) RecordFleet(snap coremetrics.FleetSnapshot) error {
	s.pilots.Set(float64(snap.AvailablePilots))
	s.drones.Set(float64(snap.OperationalDrones))
	s.assigned.Set(float64(snap.AssignedMissions))
	return nil
}
