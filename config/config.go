package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/dronecoord/core/metrics"
	"github.com/kilianp07/dronecoord/infra/mqtt"
)

// EnvPrefix marks environment overrides; nested keys use "__", e.g.
// DRONECOORD_SERVER__ADDRESS.
const EnvPrefix = "DRONECOORD_"

type Config struct {
	Data    DataConfig     `json:"data"`
	Server  ServerConfig   `json:"server"`
	Log     LogConfig      `json:"log"`
	Audit   AuditConfig    `json:"audit"`
	Metrics metrics.Config `json:"metrics"`
	MQTT    mqtt.Config    `json:"mqtt"`
	Sentry  SentryConfig   `json:"sentry"`
}

// Load reads path, applies environment overrides and defaults, then
// validates every section. An empty path loads defaults and environment
// only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Data.SetDefaults()
	c.Server.SetDefaults()
	c.Log.SetDefaults()
	c.Audit.SetDefaults()
	c.Metrics.SetDefaults()
	c.MQTT.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Data.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.Audit.Validate(); err != nil {
		return err
	}
	if err := c.Sentry.Validate(); err != nil {
		return err
	}
	return c.MQTT.Validate()
}

// DataConfig locates the roster at startup.
type DataConfig struct {
	// Format is "csv" or "yaml".
	Format   string `json:"format"`
	Pilots   string `json:"pilots"`
	Drones   string `json:"drones"`
	Missions string `json:"missions"`
	// Fixture is the YAML roster used when Format is "yaml".
	Fixture string `json:"fixture"`
}

func (c *DataConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = "csv"
	}
	if c.Pilots == "" {
		c.Pilots = "data/pilot_roster.csv"
	}
	if c.Drones == "" {
		c.Drones = "data/drone_fleet.csv"
	}
	if c.Missions == "" {
		c.Missions = "data/missions.csv"
	}
}

func (c DataConfig) Validate() error {
	switch c.Format {
	case "csv":
		return nil
	case "yaml":
		if c.Fixture == "" {
			return fmt.Errorf("data: fixture is required for yaml format")
		}
		return nil
	}
	return fmt.Errorf("data: unknown format %s", c.Format)
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Address string `json:"address"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8000"
	}
}

// LogConfig sets the process log level.
type LogConfig struct {
	Level string `json:"level"`
}

func (c *LogConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

func (c LogConfig) Validate() error {
	switch c.Level {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
		return nil
	}
	return fmt.Errorf("log: unknown level %s", c.Level)
}
