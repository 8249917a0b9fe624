package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)

	assert.Equal(t, "localhost:8000", cfg.Addr())
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "6max", cfg.Vision.Layout)
	assert.Equal(t, 500, cfg.Vision.PixelThreshold)
	assert.Equal(t, 20, cfg.Vision.ButtonFloor)
	assert.Equal(t, 640, cfg.Vision.MaxDimension)
	assert.Equal(t, 5*time.Second, cfg.Cooldown())
	assert.Equal(t, 2.0, cfg.Solver.BigBlind)
	assert.Equal(t, 6, cfg.Solver.DefaultPlayers)
	assert.Equal(t, "color", cfg.Analyzer.Strategy)
	assert.Equal(t, "ANTHROPIC_API_KEY", cfg.Analyzer.APIKeyEnv)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfigParsesFile(t *testing.T) {
	t.Parallel()

	content := `
server {
  address = "0.0.0.0"
  port    = 9090
  log_level = "debug"
  origins = ["http://localhost:3000"]
}

vision {
  layout           = "9max"
  pixel_threshold  = 800
  cooldown_seconds = 10
}

solver {
  big_blind       = 5.0
  default_players = 9
}

analyzer {
  strategy = "vision-api"
  model    = "claude-3-5-sonnet-20241022"
}
`
	path := filepath.Join(t.TempDir(), "tablevision.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.Origins)
	assert.Equal(t, "9max", cfg.Vision.Layout)
	assert.Equal(t, 800, cfg.Vision.PixelThreshold)
	assert.Equal(t, 10*time.Second, cfg.Cooldown())
	assert.Equal(t, 5.0, cfg.Solver.BigBlind)
	assert.Equal(t, 9, cfg.Solver.DefaultPlayers)
	assert.Equal(t, "vision-api", cfg.Analyzer.Strategy)

	// Unset fields still pick up defaults.
	assert.Equal(t, 20, cfg.Vision.ButtonFloor)
	assert.Equal(t, 640, cfg.Vision.MaxDimension)
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`server { port = `), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 99999 }},
		{"bad strategy", func(c *Config) { c.Analyzer.Strategy = "magic8ball" }},
		{"bad layout", func(c *Config) { c.Vision.Layout = "17max" }},
		{"negative cooldown", func(c *Config) { c.Vision.CooldownSeconds = -1 }},
		{"negative big blind", func(c *Config) { c.Solver.BigBlind = -2 }},
		{"too many players", func(c *Config) { c.Solver.DefaultPlayers = 11 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
