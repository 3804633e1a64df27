package coordinator

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/dronecoord/core/audit"
	"github.com/kilianp07/dronecoord/core/conflict"
	"github.com/kilianp07/dronecoord/core/events"
	"github.com/kilianp07/dronecoord/core/logger"
	"github.com/kilianp07/dronecoord/core/model"
	"github.com/kilianp07/dronecoord/core/monitoring"
	"github.com/kilianp07/dronecoord/core/roster"
	"github.com/kilianp07/dronecoord/internal/eventbus"
)

// Operation names used in audit records and events.
const (
	OpAssignNext = "assign-next"
	OpAssign     = "assign"
	OpUrgent     = "urgent-reassign"
	OpRelease    = "release"
)

// Coordinator selects and commits assignments against a roster store.
// Mutations run inside a single store transaction; audit records and events
// are emitted once the transaction has returned.
type Coordinator struct {
	store    *roster.Store
	detector *conflict.Detector
	log      logger.Logger
	audit    audit.LogStore
	bus      *eventbus.TypedBus[events.Decision]
	now      func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Coordinator) { c.log = logger.OrNop(l) }
}

// WithAudit sets the store receiving a record per decision.
func WithAudit(s audit.LogStore) Option {
	return func(c *Coordinator) {
		if s != nil {
			c.audit = s
		}
	}
}

// WithBus sets the bus decisions are published on.
func WithBus(b *eventbus.TypedBus[events.Decision]) Option {
	return func(c *Coordinator) { c.bus = b }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// New returns a Coordinator operating on store.
func New(store *roster.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:    store,
		detector: conflict.NewDetector(),
		log:      logger.NopLogger{},
		audit:    audit.NopStore{},
		now:      time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Store returns the underlying roster store.
func (c *Coordinator) Store() *roster.Store { return c.store }

// AvailablePilots lists pilots that are Available and unassigned, in store order.
func (c *Coordinator) AvailablePilots(_ context.Context) []model.Pilot {
	var out []model.Pilot
	_ = c.store.Read(func(v roster.View) error {
		out = v.AvailablePilots()
		return nil
	})
	return out
}

// AvailableDrones lists drones that are Available and unassigned, in store order.
func (c *Coordinator) AvailableDrones(_ context.Context) []model.Drone {
	var out []model.Drone
	_ = c.store.Read(func(v roster.View) error {
		out = v.OperationalDrones()
		return nil
	})
	return out
}

// emit appends d to the audit store and publishes it. Failures are logged,
// never returned: the decision has already been taken.
func (c *Coordinator) emit(ctx context.Context, d events.Decision, started time.Time, err error) {
	d.ID = uuid.NewString()
	d.Time = c.now()
	d.Duration = d.Time.Sub(started)
	d.Success = err == nil
	if err != nil {
		d.Kind = model.KindOf(err)
		d.Message = err.Error()
		if len(d.Blockers) == 0 {
			d.Blockers = model.BlockersOf(err)
		}
	}
	rec := audit.LogRecord{
		ID:            d.ID,
		Timestamp:     d.Time,
		Operation:     d.Operation,
		Outcome:       audit.Outcome(d.Outcome()),
		Kind:          d.Kind,
		MissionID:     d.MissionID,
		PilotID:       d.PilotID,
		DroneID:       d.DroneID,
		PreviousPilot: d.PreviousPilot,
		Blockers:      d.Blockers,
		Warnings:      d.Warnings,
		Rationale:     d.Rationale,
		Score:         d.Score,
	}
	if aerr := c.audit.Append(ctx, rec); aerr != nil {
		c.log.Errorf("audit append %s: %v", d.ID, aerr)
		monitoring.CaptureException(aerr, map[string]string{"component": "audit", "operation": d.Operation})
	}
	if c.bus != nil {
		c.bus.Publish(d)
	}
	c.log.Debugw("decision", map[string]any{
		"operation": d.Operation,
		"outcome":   d.Outcome(),
		"mission":   d.MissionID,
		"pilot":     d.PilotID,
		"drone":     d.DroneID,
		"kind":      d.Kind,
	})
}
