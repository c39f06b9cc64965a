package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newViper())

	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Interval)
	assert.False(t, cfg.Once)
	assert.Equal(t, 5, cfg.TopProcesses)
	assert.True(t, cfg.EnableGPU)
	assert.True(t, cfg.EnableDocker)
	assert.False(t, cfg.Debug)
}

func TestLoadOverrides(t *testing.T) {
	v := newViper()
	v.Set("interval", "500ms")
	v.Set("once", true)
	v.Set("top", 10)
	v.Set("gpu", false)

	cfg, err := Load(v)

	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.Interval)
	assert.True(t, cfg.Once)
	assert.Equal(t, 10, cfg.TopProcesses)
	assert.False(t, cfg.EnableGPU)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SYSGLANCE_INTERVAL", "3s")

	v := newViper()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	cfg, err := Load(v)

	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Interval)
}

func TestLoadRejectsNonPositiveInterval(t *testing.T) {
	v := newViper()
	v.Set("interval", "0s")

	_, err := Load(v)

	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveTop(t *testing.T) {
	v := newViper()
	v.Set("top", -1)

	_, err := Load(v)

	assert.Error(t, err)
}

func TestSourceTimeoutIsHalfInterval(t *testing.T) {
	cfg := Config{Interval: 2 * time.Second}
	assert.Equal(t, time.Second, cfg.SourceTimeout())
}
