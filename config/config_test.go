package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

//nolint:gocyclo
func TestLoad(t *testing.T) {
	path := write(t, "config.yaml", `data:
  format: "yaml"
  fixture: "roster.yaml"
server:
  address: ":9000"
log:
  level: "debug"
audit:
  backend: "sqlite"
  path: "audit.db"
metrics:
  sinks:
    - type: "prometheus"
    - type: "influx"
      conf:
        url: "http://localhost:8086"
        bucket: "drones"
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
  client_id: "cli"
  topic_prefix: "ops"
  qos:
    decisions: 1
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"data.format", cfg.Data.Format, "yaml"},
		{"data.fixture", cfg.Data.Fixture, "roster.yaml"},
		{"data.pilots default", cfg.Data.Pilots, "data/pilot_roster.csv"},
		{"server.address", cfg.Server.Address, ":9000"},
		{"log.level", cfg.Log.Level, "debug"},
		{"audit.backend", cfg.Audit.Backend, "sqlite"},
		{"audit.path", cfg.Audit.Path, "audit.db"},
		{"metrics.sinks", len(cfg.Metrics.Sinks), 2},
		{"metrics.prometheus", cfg.Metrics.HasSink("prometheus"), true},
		{"metrics.influx.bucket", cfg.Metrics.Sinks[1].Conf["bucket"], "drones"},
		{"metrics.prometheus_address", cfg.Metrics.PrometheusAddress, ":9102"},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt.topic_prefix", cfg.MQTT.TopicPrefix, "ops"},
		{"mqtt.qos", cfg.MQTT.QoS["decisions"], byte(1)},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Data.Format)
	assert.Equal(t, ":8000", cfg.Server.Address)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "jsonl", cfg.Audit.Backend)
	assert.Equal(t, "decisions.log", cfg.Audit.Path)
	assert.False(t, cfg.MQTT.Enabled)
}

func TestLoadEnvOverride(t *testing.T) {
	path := write(t, "config.json", `{"server": {"address": ":9000"}}`)
	t.Setenv("DRONECOORD_SERVER__ADDRESS", ":9999")
	t.Setenv("DRONECOORD_AUDIT__BACKEND", "none")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Address)
	assert.Equal(t, "none", cfg.Audit.Backend)
	assert.Empty(t, cfg.Audit.Path)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{"unsupported extension", "config.toml", "x = 1"},
		{"unknown audit backend", "c.yaml", "audit:\n  backend: redis\n"},
		{"yaml data without fixture", "c.yaml", "data:\n  format: yaml\n"},
		{"unknown data format", "c.yaml", "data:\n  format: xml\n"},
		{"bad log level", "c.yaml", "log:\n  level: loud\n"},
		{"mqtt without broker", "c.yaml", "mqtt:\n  enabled: true\n"},
		{"sentry sample rate", "c.yaml", "sentry:\n  traces_sample_rate: 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(write(t, tt.file, tt.data))
			assert.Error(t, err)
		})
	}
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestAuditRotating(t *testing.T) {
	c := AuditConfig{Backend: "jsonl", Path: "x", MaxSizeMB: 5}
	assert.True(t, c.Rotating())
	c.Backend = "sqlite"
	assert.False(t, c.Rotating())
	assert.Error(t, AuditConfig{Backend: "jsonl", Path: "x", MaxBackups: -1}.Validate())
}
