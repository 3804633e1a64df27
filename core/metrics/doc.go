// Package metrics defines the sinks recording coordinator decisions. Sinks
// such as the Prometheus and InfluxDB implementations in infra/metrics are
// registered by type name and built from configuration; the factory returns a
// MultiSink automatically when several sinks are configured.
package metrics
