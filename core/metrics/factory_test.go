package metrics_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/dronecoord/core/factory"
	metrics "github.com/kilianp07/dronecoord/core/metrics"
	"github.com/kilianp07/dronecoord/core/model"
)

func init() {
	_ = metrics.RegisterSink("test-nop", func(map[string]any) (metrics.MetricsSink, error) {
		return metrics.NopSink{}, nil
	})
	_ = metrics.RegisterSink("test-count", func(map[string]any) (metrics.MetricsSink, error) {
		return &countSink{}, nil
	})
	_ = metrics.RegisterSink("test-broken", func(map[string]any) (metrics.MetricsSink, error) {
		return nil, errors.New("influx unreachable")
	})
}

func TestNewSink(t *testing.T) {
	s, err := metrics.NewSink(metrics.Config{})
	require.NoError(t, err)
	assert.IsType(t, metrics.NopSink{}, s)

	s, err = metrics.NewSink(metrics.Config{Sinks: []factory.ModuleConfig{{Type: "test-count"}}})
	require.NoError(t, err)
	assert.IsType(t, &countSink{}, s)

	s, err = metrics.NewSink(metrics.Config{Sinks: []factory.ModuleConfig{{Type: "test-nop"}, {Type: "test-count"}}})
	require.NoError(t, err)
	m, ok := s.(*metrics.MultiSink)
	require.True(t, ok, "expected MultiSink, got %T", s)
	require.Len(t, m.Sinks, 2)
	require.NoError(t, m.RecordFleet(metrics.FleetSnapshot{AvailablePilots: 2}))
	assert.Equal(t, 1, m.Sinks[1].(*countSink).fleets)

	assert.Contains(t, metrics.SinkTypes(), "test-count")
}

func TestNewSinkErrors(t *testing.T) {
	tests := []struct {
		name  string
		sinks []factory.ModuleConfig
		kind  error
		msg   string
	}{
		{"unknown type", []factory.ModuleConfig{{Type: "missing"}}, model.ErrValidation, `metrics.sinks[0]: unknown sink type "missing"`},
		{"empty type", []factory.ModuleConfig{{Type: "test-nop"}, {}}, model.ErrValidation, "metrics.sinks[1]: type is required"},
		{"duplicate", []factory.ModuleConfig{{Type: "test-nop"}, {Type: "test-nop"}}, model.ErrValidation, `sink type "test-nop" already configured at metrics.sinks[0]`},
		{"create fails", []factory.ModuleConfig{{Type: "test-broken"}}, nil, "metrics.sinks[0] test-broken: influx unreachable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := metrics.NewSink(metrics.Config{Sinks: tt.sinks})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			if tt.kind != nil {
				assert.ErrorIs(t, err, tt.kind)
			} else {
				assert.NotErrorIs(t, err, model.ErrValidation)
			}
		})
	}
}

func TestMetricsConfigDecode(t *testing.T) {
	var cfg metrics.Config
	require.NoError(t, yaml.Unmarshal([]byte("sinks:\n  - type: test-nop\n  - type: test-count\n"), &cfg))
	assert.Len(t, cfg.Sinks, 2)
	assert.True(t, cfg.HasSink("test-nop"))

	var jcfg metrics.Config
	require.NoError(t, json.Unmarshal([]byte(`{"sinks":[{"type":"prometheus"}],"prometheus_address":":9000"}`), &jcfg))
	jcfg.SetDefaults()
	assert.Equal(t, ":9000", jcfg.PrometheusAddress)
	assert.True(t, jcfg.HasSink("prometheus"))
}

type countSink struct {
	decisions int
	fleets    int
}

func (c *countSink) RecordDecision(metrics.DecisionEvent) error { c.decisions++; return nil }
func (c *countSink) RecordFleet(metrics.FleetSnapshot) error    { c.fleets++; return nil }

type decisionsOnly struct{ n int }

func (d *decisionsOnly) RecordDecision(metrics.DecisionEvent) error { d.n++; return nil }

func TestMultiSinkForwards(t *testing.T) {
	a, b := &countSink{}, &decisionsOnly{}
	m := metrics.NewMultiSink(a, b)
	require.NoError(t, m.RecordDecision(metrics.DecisionEvent{Operation: "assign-next"}))
	require.NoError(t, m.RecordFleet(metrics.FleetSnapshot{AvailablePilots: 1}))
	assert.Equal(t, 1, a.decisions)
	assert.Equal(t, 1, a.fleets)
	assert.Equal(t, 1, b.n)
}
