package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete service configuration
type Config struct {
	Server   ServerSettings    `hcl:"server,block"`
	Vision   *VisionSettings   `hcl:"vision,block"`
	Solver   *SolverSettings   `hcl:"solver,block"`
	Analyzer *AnalyzerSettings `hcl:"analyzer,block"`
}

// ServerSettings contains transport-level configuration
type ServerSettings struct {
	Address  string   `hcl:"address,optional"`
	Port     int      `hcl:"port,optional"`
	LogLevel string   `hcl:"log_level,optional"`
	Origins  []string `hcl:"origins,optional"`
}

// VisionSettings tunes the color detector and the turn tracker
type VisionSettings struct {
	Layout          string `hcl:"layout,optional"`
	PixelThreshold  int    `hcl:"pixel_threshold,optional"`
	ButtonFloor     int    `hcl:"button_floor,optional"`
	MaxDimension    int    `hcl:"max_dimension,optional"`
	CooldownSeconds int    `hcl:"cooldown_seconds,optional"`
}

// SolverSettings holds table assumptions the detector cannot read yet
type SolverSettings struct {
	BigBlind       float64 `hcl:"big_blind,optional"`
	DefaultPlayers int     `hcl:"default_players,optional"`
}

// AnalyzerSettings selects and configures the analysis strategy
type AnalyzerSettings struct {
	Strategy  string `hcl:"strategy,optional"`
	APIKeyEnv string `hcl:"api_key_env,optional"`
	Model     string `hcl:"model,optional"`
	Endpoint  string `hcl:"endpoint,optional"`
}

// DefaultConfig returns the configuration used when no config file exists
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig loads service configuration from an HCL file
func LoadConfig(filename string) (*Config, error) {
	// Check if file exists
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

// applyDefaults fills in every setting a config file may omit
func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	if c.Vision == nil {
		c.Vision = &VisionSettings{}
	}
	if c.Vision.Layout == "" {
		c.Vision.Layout = "6max"
	}
	if c.Vision.PixelThreshold == 0 {
		c.Vision.PixelThreshold = 500
	}
	if c.Vision.ButtonFloor == 0 {
		c.Vision.ButtonFloor = 20
	}
	if c.Vision.MaxDimension == 0 {
		c.Vision.MaxDimension = 640
	}
	if c.Vision.CooldownSeconds == 0 {
		c.Vision.CooldownSeconds = 5
	}

	if c.Solver == nil {
		c.Solver = &SolverSettings{}
	}
	if c.Solver.BigBlind == 0 {
		c.Solver.BigBlind = 2.0
	}
	if c.Solver.DefaultPlayers == 0 {
		c.Solver.DefaultPlayers = 6
	}

	if c.Analyzer == nil {
		c.Analyzer = &AnalyzerSettings{}
	}
	if c.Analyzer.Strategy == "" {
		c.Analyzer.Strategy = "color"
	}
	if c.Analyzer.APIKeyEnv == "" {
		c.Analyzer.APIKeyEnv = "ANTHROPIC_API_KEY"
	}
}

// Validate validates the service configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	switch c.Analyzer.Strategy {
	case "color", "vision-api":
	default:
		return fmt.Errorf("invalid analyzer strategy %q", c.Analyzer.Strategy)
	}

	switch c.Vision.Layout {
	case "6max", "9max":
	default:
		return fmt.Errorf("invalid table layout %q", c.Vision.Layout)
	}

	if c.Vision.CooldownSeconds < 0 {
		return fmt.Errorf("cooldown must not be negative")
	}
	if c.Vision.PixelThreshold < 0 {
		return fmt.Errorf("pixel threshold must not be negative")
	}
	if c.Solver.BigBlind <= 0 {
		return fmt.Errorf("big blind must be positive")
	}
	if c.Solver.DefaultPlayers < 2 || c.Solver.DefaultPlayers > 10 {
		return fmt.Errorf("default players must be between 2 and 10")
	}

	return nil
}

// Addr returns the full listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// Cooldown returns the turn tracker cooldown as a duration
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Vision.CooldownSeconds) * time.Second
}
