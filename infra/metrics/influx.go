package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/dronecoord/core/metrics"
	"github.com/kilianp07/dronecoord/infra/logger"
)

// InfluxSink writes decisions to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordDecision writes one assignment_decision point.
func (s *InfluxSink) RecordDecision(ev coremetrics.DecisionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("assignment_decision").
		AddTag("operation", ev.Operation).
		AddTag("outcome", ev.Outcome).
		AddTag("component", "coordinator")
	if ev.Kind != "" {
		p = p.AddTag("kind", ev.Kind)
	}
	if ev.MissionID != "" {
		p = p.AddTag("mission_id", ev.MissionID)
	}
	if ev.PilotID != "" {
		p = p.AddTag("pilot_id", ev.PilotID)
	}
	if ev.DroneID != "" {
		p = p.AddTag("drone_id", ev.DroneID)
	}
	p = p.AddField("blockers", ev.Blockers).
		AddField("warnings", ev.Warnings).
		AddField("score", ev.Score).
		AddField("duration_ms", float64(ev.Duration.Microseconds())/1000).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordFleet writes a fleet_snapshot point.
func (s *InfluxSink) RecordFleet(snap coremetrics.FleetSnapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("fleet_snapshot").
		AddTag("component", "coordinator").
		AddField("available_pilots", snap.AvailablePilots).
		AddField("operational_drones", snap.OperationalDrones).
		AddField("missions", snap.Missions).
		AddField("assigned_missions", snap.AssignedMissions).
		SetTime(snap.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close flushes and closes the client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
