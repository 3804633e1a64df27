// Package plugins holds the named audit backends selectable from
// configuration.
package plugins

import (
	"github.com/kilianp07/dronecoord/config"
	"github.com/kilianp07/dronecoord/core/audit"
	"github.com/kilianp07/dronecoord/core/factory"
)

// LogStores builds decision log stores by backend name.
var LogStores = factory.NewRegistry[audit.LogStore]()

// RegisterLogStore adds a log store backend.
func RegisterLogStore(name string, f factory.Factory[audit.LogStore]) error {
	return LogStores.Register(name, f)
}

// NewAuditStore builds the store selected by cfg.Backend.
func NewAuditStore(cfg config.AuditConfig) (audit.LogStore, error) {
	return LogStores.Create(factory.ModuleConfig{
		Type: cfg.Backend,
		Conf: map[string]any{
			"backend":      cfg.Backend,
			"path":         cfg.Path,
			"max_size_mb":  cfg.MaxSizeMB,
			"max_backups":  cfg.MaxBackups,
			"max_age_days": cfg.MaxAgeDays,
		},
	})
}
