package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/joho/godotenv"

	"github.com/lox/tablevision/internal/analyzer"
	"github.com/lox/tablevision/internal/game"
	"github.com/lox/tablevision/internal/server"
	"github.com/lox/tablevision/internal/solver"
	"github.com/lox/tablevision/internal/vision"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"tablevision.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" long:"addr" help:"Server address to bind to (overrides config)"`
	Port     int    `short:"p" long:"port" help:"Server port (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	Strategy string `short:"s" long:"strategy" help:"Analysis strategy: color or vision-api (overrides config)"`
}

func main() {
	ctx := kong.Parse(&CLI)

	// API keys commonly live in a local .env during development
	_ = godotenv.Load()

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	// Apply command line overrides
	if CLI.Addr != "" {
		cfg.Server.Address = CLI.Addr
	}
	if CLI.Port != 0 {
		cfg.Server.Port = CLI.Port
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if CLI.Strategy != "" {
		cfg.Analyzer.Strategy = CLI.Strategy
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		ctx.Exit(1)
	}

	// Setup logging
	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	strategy := buildStrategy(cfg, logger)

	logger.Info("Starting table analysis server",
		"addr", cfg.Addr(),
		"strategy", strategy.Name(),
		"layout", cfg.Vision.Layout)

	srv := server.NewServer(cfg, strategy, logger)

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := srv.Run(runCtx); err != nil {
		logger.Error("Server failed", "error", err)
		ctx.Exit(1)
	}
}

// buildStrategy assembles the configured analysis strategy.
func buildStrategy(cfg *server.Config, logger *log.Logger) analyzer.Strategy {
	if cfg.Analyzer.Strategy == "vision-api" {
		return analyzer.NewClient(logger, analyzer.ClientConfig{
			APIKey:   os.Getenv(cfg.Analyzer.APIKeyEnv),
			Model:    cfg.Analyzer.Model,
			Endpoint: cfg.Analyzer.Endpoint,
		})
	}

	detector := vision.NewDetector(logger, vision.Config{
		PixelThreshold: cfg.Vision.PixelThreshold,
		ButtonFloor:    cfg.Vision.ButtonFloor,
		MaxDimension:   cfg.Vision.MaxDimension,
		Layout:         cfg.Vision.Layout,
	})
	tracker := game.NewTracker(logger, quartz.NewReal(), cfg.Cooldown())
	engine := solver.NewEngine(logger, solver.Options{
		BigBlind:       cfg.Solver.BigBlind,
		DefaultPlayers: cfg.Solver.DefaultPlayers,
	})
	return analyzer.NewLocal(logger, detector, tracker, engine)
}
