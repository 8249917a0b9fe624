// Package analyzer holds the table-analysis strategies. The primary
// strategy delegates full table understanding to a multimodal vision
// API; the local color pipeline satisfies the same interface so the
// server can switch between them with configuration instead of
// maintaining parallel near-duplicate code paths.
package analyzer

import (
	"context"
	"errors"
)

// ErrUnconfigured reports a strategy that needs credentials it was not
// given. It is deliberately distinct from detection failures: a missing
// API key is an operator problem, not a bad frame.
var ErrUnconfigured = errors.New("analyzer: api key not configured")

// Strategy analyzes a single table screenshot. Implementations must be
// safe for concurrent use.
type Strategy interface {
	// Analyze inspects raw image bytes and returns the table analysis.
	Analyze(ctx context.Context, image []byte) (*Analysis, error)

	// Name identifies the strategy for configuration and logging.
	Name() string
}

// Analysis is the fixed response schema shared by all strategies.
type Analysis struct {
	GameInfo       GameInfo         `json:"game_info"`
	PotOdds        string           `json:"pot_odds"`
	HandEquity     string           `json:"hand_equity"`
	Recommendation Recommendation   `json:"recommendation"`
	Detailed       DetailedAnalysis `json:"detailed_analysis"`
}

// GameInfo describes the table's structural state.
type GameInfo struct {
	PotSizeBB      float64 `json:"pot_size_bb"`
	PotSizeDollars string  `json:"pot_size_dollars"`
	HeroPosition   string  `json:"hero_position"`
	Street         string  `json:"street"`
	IsHeroTurn     bool    `json:"is_hero_turn"`
}

// Recommendation is the advised play.
type Recommendation struct {
	Action        string   `json:"action"`
	RaiseAmountBB *float64 `json:"raise_amount_bb"`
	Reasoning     string   `json:"reasoning"`
}

// DetailedAnalysis carries the side-panel depth the vision API can
// provide beyond what the color pipeline sees.
type DetailedAnalysis struct {
	BoardCards       []string           `json:"board_cards"`
	StackSizes       map[string]float64 `json:"stack_sizes"`
	ActionHistory    []string           `json:"action_history"`
	RangeAnalysis    string             `json:"range_analysis"`
	EVCalculation    string             `json:"ev_calculation"`
	AlternativeLines []string           `json:"alternative_lines"`
}
