package metrics

import (
	"context"

	"github.com/kilianp07/dronecoord/core/events"
	coremetrics "github.com/kilianp07/dronecoord/core/metrics"
	"github.com/kilianp07/dronecoord/infra/logger"
	"github.com/kilianp07/dronecoord/internal/eventbus"
)

// StartEventCollector subscribes to the decision bus and records each
// decision, plus the fleet snapshot when the sink supports it. It stops when
// the context is canceled or the bus is closed. The returned channel is
// closed once the collector has exited.
func StartEventCollector(ctx context.Context, bus *eventbus.TypedBus[events.Decision], sink coremetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	log := logger.New("metrics-collector")
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-sub:
				if !ok {
					return
				}
				if err := sink.RecordDecision(ToDecisionEvent(d)); err != nil {
					log.Warnf("record decision %s: %v", d.ID, err)
				}
				if fr, ok := sink.(coremetrics.FleetRecorder); ok {
					if err := fr.RecordFleet(ToFleetSnapshot(d)); err != nil {
						log.Warnf("record fleet: %v", err)
					}
				}
			}
		}
	}()
	return done
}

// ToDecisionEvent converts a bus event into a metrics event.
func ToDecisionEvent(d events.Decision) coremetrics.DecisionEvent {
	return coremetrics.DecisionEvent{
		Operation: d.Operation,
		Outcome:   d.Outcome(),
		Kind:      d.Kind,
		MissionID: d.MissionID,
		PilotID:   d.PilotID,
		DroneID:   d.DroneID,
		Blockers:  len(d.Blockers),
		Warnings:  len(d.Warnings),
		Score:     d.Score,
		Duration:  d.Duration,
		Time:      d.Time,
	}
}

// ToFleetSnapshot extracts the roster summary carried by d.
func ToFleetSnapshot(d events.Decision) coremetrics.FleetSnapshot {
	return coremetrics.FleetSnapshot{
		AvailablePilots:   d.Fleet.AvailablePilots,
		OperationalDrones: d.Fleet.OperationalDrones,
		Missions:          d.Fleet.Missions,
		AssignedMissions:  d.Fleet.AssignedMissions,
		Time:              d.Time,
	}
}
