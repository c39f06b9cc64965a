// Package config carries runtime options for sysglance. Values come from
// cobra flags bound through viper, with SYSGLANCE_* environment overrides.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the viper environment prefix: --interval becomes
// SYSGLANCE_INTERVAL and so on.
const EnvPrefix = "SYSGLANCE"

// Config is the resolved runtime configuration.
type Config struct {
	Interval     time.Duration
	Once         bool
	TopProcesses int
	EnableGPU    bool
	EnableDocker bool
	Debug        bool
}

// Default returns the configuration used when no flag or environment
// variable overrides it.
func Default() Config {
	return Config{
		Interval:     2 * time.Second,
		Once:         false,
		TopProcesses: 5,
		EnableGPU:    true,
		EnableDocker: true,
		Debug:        false,
	}
}

// SetDefaults installs the default values on a viper instance so flags and
// env vars only need to override what differs.
func SetDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("interval", def.Interval)
	v.SetDefault("once", def.Once)
	v.SetDefault("top", def.TopProcesses)
	v.SetDefault("gpu", def.EnableGPU)
	v.SetDefault("docker", def.EnableDocker)
	v.SetDefault("debug", def.Debug)
}

// Load resolves and validates the configuration from a viper instance.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Interval:     v.GetDuration("interval"),
		Once:         v.GetBool("once"),
		TopProcesses: v.GetInt("top"),
		EnableGPU:    v.GetBool("gpu"),
		EnableDocker: v.GetBool("docker"),
		Debug:        v.GetBool("debug"),
	}
	if cfg.Interval <= 0 {
		return Config{}, fmt.Errorf("interval must be positive, got %s", cfg.Interval)
	}
	if cfg.TopProcesses <= 0 {
		return Config{}, fmt.Errorf("top must be positive, got %d", cfg.TopProcesses)
	}
	return cfg, nil
}

// SourceTimeout bounds each metric source invocation at half the refresh
// interval, so one hung probe can never stall a full cycle.
func (c Config) SourceTimeout() time.Duration {
	return c.Interval / 2
}
