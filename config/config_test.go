package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "reports", cfg.ReportsDir)
	assert.Equal(t, 3.0, cfg.Sigma)
	assert.Equal(t, 8050, cfg.Dashboard.Port)
	assert.Equal(t, 10, cfg.Dashboard.PortAttempts)
	assert.Equal(t, 90.0, cfg.BurnIn.TempLimit)
	assert.Equal(t, 1.0, cfg.HiPot.LeakageLimit)
	assert.Equal(t, 100.0, cfg.Isolation.ResistanceMin)
	assert.Len(t, cfg.ICT.ContinuityPoints, 5)
	assert.Len(t, cfg.ICT.ResistorPoints, 4)
	assert.Len(t, cfg.ICT.CapacitorPoints, 3)
	assert.Len(t, cfg.ICT.PowerPoints, 2)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Sigma, cfg.Sigma)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instrsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
reports_dir: out
seed: 7
dashboard:
  port: 9000
burnin:
  duration_seconds: 5
  temp_limit: 85
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.ReportsDir)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 9000, cfg.Dashboard.Port)
	assert.Equal(t, 5.0, cfg.BurnIn.DurationSeconds)
	assert.Equal(t, 85.0, cfg.BurnIn.TempLimit)
	// Untouched keys keep their defaults
	assert.Equal(t, 60.0, cfg.HiPot.DurationSeconds)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reports_dir: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("INSTRSIM_REPORTS_DIR", "/tmp/envreports")
	t.Setenv("INSTRSIM_SEED", "99")
	t.Setenv("INSTRSIM_DASHBOARD_PORT", "8123")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/envreports", cfg.ReportsDir)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, 8123, cfg.Dashboard.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty reports dir", func(c *Config) { c.ReportsDir = "" }},
		{"zero sigma", func(c *Config) { c.Sigma = 0 }},
		{"negative sigma", func(c *Config) { c.Sigma = -1 }},
		{"port too high", func(c *Config) { c.Dashboard.Port = 70000 }},
		{"port zero", func(c *Config) { c.Dashboard.Port = 0 }},
		{"no port attempts", func(c *Config) { c.Dashboard.PortAttempts = 0 }},
		{"zero duration", func(c *Config) { c.BurnIn.DurationSeconds = 0 }},
		{"negative duration", func(c *Config) { c.Laser.DurationSeconds = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
