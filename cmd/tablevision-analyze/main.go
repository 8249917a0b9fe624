package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/joho/godotenv"

	"github.com/lox/tablevision/internal/analyzer"
	"github.com/lox/tablevision/internal/game"
	"github.com/lox/tablevision/internal/server"
	"github.com/lox/tablevision/internal/solver"
	"github.com/lox/tablevision/internal/vision"
)

type CLI struct {
	Files    []string `arg:"" type:"existingfile" help:"Screenshot files to analyze" required:"true"`
	Config   string   `short:"c" default:"tablevision.hcl" help:"Path to HCL configuration file"`
	Strategy string   `short:"s" help:"Analysis strategy: color or vision-api (overrides config)"`
	JSON     bool     `short:"j" help:"Emit the raw analysis as JSON"`
	LogLevel string   `short:"l" default:"warn" help:"Log level"`
	Timeout  time.Duration `default:"90s" help:"Per-file analysis timeout"`
}

var (
	// Style definitions
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	actionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	waitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli)

	_ = godotenv.Load()

	cfg, err := server.LoadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		ctx.Exit(1)
	}
	if cli.Strategy != "" {
		cfg.Analyzer.Strategy = cli.Strategy
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		ctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cli.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.WarnLevel)
	}

	failed := 0
	for _, file := range cli.Files {
		if err := analyzeFile(cli, cfg, logger, file); err != nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("✗ %s: %v", file, err)))
			failed++
		}
	}
	if failed > 0 {
		ctx.Exit(1)
	}
}

func analyzeFile(cli CLI, cfg *server.Config, logger *log.Logger, file string) error {
	frame, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	// Each screenshot is an independent hand, so every file gets a
	// fresh strategy with no carried-over debounce state.
	strategy := buildStrategy(cfg, logger)

	runCtx, cancel := context.WithTimeout(context.Background(), cli.Timeout)
	defer cancel()

	analysis, err := strategy.Analyze(runCtx, frame)
	if err != nil {
		return err
	}

	if cli.JSON {
		data, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	displayAnalysis(file, analysis)
	return nil
}

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

func displayAnalysis(file string, a *analyzer.Analysis) {
	fmt.Println(headerStyle.Render(file))

	info := a.GameInfo
	fmt.Printf("  %s %s\n", labelStyle.Render("Street:"), orDash(info.Street))
	fmt.Printf("  %s %s\n", labelStyle.Render("Position:"), orDash(info.HeroPosition))
	fmt.Printf("  %s %.1f BB (%s)\n", labelStyle.Render("Pot:"), info.PotSizeBB, info.PotSizeDollars)

	if !info.IsHeroTurn {
		fmt.Printf("  %s\n\n", waitStyle.Render("Not hero's turn"))
		return
	}

	rec := a.Recommendation
	fmt.Printf("  %s %s\n", labelStyle.Render("Action:"), actionStyle.Render(rec.Action))
	if rec.RaiseAmountBB != nil {
		fmt.Printf("  %s %.1f BB\n", labelStyle.Render("Sizing:"), *rec.RaiseAmountBB)
	}
	if a.Detailed.EVCalculation != "" {
		fmt.Printf("  %s %s\n", labelStyle.Render("EV:"), a.Detailed.EVCalculation)
	}
	fmt.Printf("  %s %s\n\n", labelStyle.Render("Reasoning:"), rec.Reasoning)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
