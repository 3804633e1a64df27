package plugins

import (
	"github.com/kilianp07/dronecoord/config"
	"github.com/kilianp07/dronecoord/core/audit"
	"github.com/kilianp07/dronecoord/core/factory"
)

func init() {
	_ = RegisterLogStore("jsonl", func(conf map[string]any) (audit.LogStore, error) {
		var lc config.AuditConfig
		if err := factory.Decode(conf, &lc); err != nil {
			return nil, err
		}
		if lc.Rotating() {
			return audit.NewRotatingJSONLStore(lc.Path, lc.MaxSizeMB, lc.MaxBackups, lc.MaxAgeDays)
		}
		return audit.NewJSONLStore(lc.Path)
	})
	_ = RegisterLogStore("sqlite", func(conf map[string]any) (audit.LogStore, error) {
		var lc config.AuditConfig
		if err := factory.Decode(conf, &lc); err != nil {
			return nil, err
		}
		return audit.NewSQLiteStore(lc.Path)
	})
	_ = RegisterLogStore("none", func(map[string]any) (audit.LogStore, error) {
		return audit.NopStore{}, nil
	})
}
