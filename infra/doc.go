// Package infra contains technical adapters: roster ingestion, MQTT
// transport, metrics exporters and error reporting. These packages depend
// only on the interfaces defined in the core packages.
package infra
