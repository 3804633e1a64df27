package metrics

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kilianp07/dronecoord/core/factory"
	"github.com/kilianp07/dronecoord/core/model"
)

// sinks maps a configured sink type to its constructor. Implementations
// register themselves from infra/metrics.
var sinks = factory.NewRegistry[MetricsSink]()

// RegisterSink makes a sink type available to NewSink.
func RegisterSink(typ string, f factory.Factory[MetricsSink]) error {
	return sinks.Register(typ, f)
}

// SinkTypes lists the registered sink types in sorted order.
func SinkTypes() []string { return sinks.Types() }

// NewSink builds every sink listed in cfg. Without sinks decisions are
// dropped. Several sinks are combined into a MultiSink, which hands fleet
// snapshots to the ones implementing FleetRecorder.
func NewSink(cfg Config) (MetricsSink, error) {
	built := make([]MetricsSink, 0, len(cfg.Sinks))
	seen := make(map[string]int, len(cfg.Sinks))
	for i, mc := range cfg.Sinks {
		if j, dup := seen[mc.Type]; dup {
			return nil, model.Invalid("metrics.sinks[%d]: sink type %q already configured at metrics.sinks[%d]", i, mc.Type, j)
		}
		s, err := buildSink(i, mc)
		if err != nil {
			return nil, err
		}
		seen[mc.Type] = i
		built = append(built, s)
	}
	switch len(built) {
	case 0:
		return NopSink{}, nil
	case 1:
		return built[0], nil
	}
	return NewMultiSink(built...), nil
}

func buildSink(i int, mc factory.ModuleConfig) (MetricsSink, error) {
	if mc.Type == "" {
		return nil, model.Invalid("metrics.sinks[%d]: type is required", i)
	}
	known := sinks.Types()
	if !slices.Contains(known, mc.Type) {
		return nil, model.Invalid("metrics.sinks[%d]: unknown sink type %q (known: %s)", i, mc.Type, strings.Join(known, ", "))
	}
	s, err := sinks.Create(mc)
	if err != nil {
		return nil, fmt.Errorf("metrics.sinks[%d] %s: %w", i, mc.Type, err)
	}
	return s, nil
}
