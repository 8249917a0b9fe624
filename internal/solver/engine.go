package solver

import (
	"crypto/md5"
	"fmt"
	"math/big"

	"github.com/charmbracelet/log"

	"github.com/lox/tablevision/internal/game"
)

// Action labels.
const (
	ActionFold  = "Fold"
	ActionCall  = "Call"
	ActionRaise = "Raise"
)

const (
	// defaultPotDollars stands in when no pot was ever read.
	defaultPotDollars = 50.0

	// typicalPotBB normalizes pot size into the pot-odds factor.
	typicalPotBB = 75.0

	// raisePotFraction is the fixed two-thirds-pot raise sizing.
	raisePotFraction = 0.66
)

// Options are the table parameters the vision pipeline cannot detect
// yet. They are injected here so a future detector can supply real
// values without changing the decision shape.
type Options struct {
	// BigBlind is the assumed big blind in dollars. Default 2.0, the
	// common $1/$2 online game.
	BigBlind float64

	// DefaultPlayers is assumed when no seats were observed. Default
	// 6 (full 6-max).
	DefaultPlayers int
}

func (o Options) withDefaults() Options {
	if o.BigBlind <= 0 {
		o.BigBlind = 2.0
	}
	if o.DefaultPlayers <= 0 {
		o.DefaultPlayers = 6
	}
	return o
}

// Recommendation is the advisor's output for one decision point.
type Recommendation struct {
	Action    string
	SizingBB  float64
	HasSizing bool
	PotBB     float64
	EV        string
	Reasoning string
}

// Label renders the action with its sizing, e.g. "Raise 50 BB".
func (r Recommendation) Label() string {
	if r.HasSizing {
		return fmt.Sprintf("%s %.0f BB", r.Action, r.SizingBB)
	}
	return r.Action
}

// Engine derives recommendations from state snapshots. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	opts   Options
	logger *log.Logger
}

// NewEngine creates an engine with the given table assumptions.
func NewEngine(logger *log.Logger, opts Options) *Engine {
	return &Engine{
		opts:   opts.withDefaults(),
		logger: logger.WithPrefix("solver"),
	}
}

// BigBlind reports the engine's assumed big blind in dollars.
func (e *Engine) BigBlind() float64 {
	return e.opts.BigBlind
}

// Recommend maps a state snapshot to an action. Deterministic: the
// same derived (pot BB, position, player count) triple always yields
// the same recommendation.
func (e *Engine) Recommend(state game.GameState) Recommendation {
	potDollars := state.PotSize
	if !state.HasPot || potDollars <= 0 {
		potDollars = defaultPotDollars
	}
	potBB := potDollars / e.opts.BigBlind
	bucket := state.Position.Bucket()
	players := state.PlayerCount(e.opts.DefaultPlayers)

	freq := BaseFrequencies(bucket).
		adjustForPlayers(players).
		adjustForPotOdds(potBB / typicalPotBB)

	action := selectAction(potBB, bucket, players, freq)

	rec := Recommendation{
		Action:    action,
		PotBB:     potBB,
		EV:        estimateEV(action, potBB, bucket),
		Reasoning: reasoning(action, potBB, bucket, players),
	}
	if action == ActionRaise {
		rec.SizingBB = potBB * raisePotFraction
		rec.HasSizing = true
	}

	e.logger.Info("Recommendation",
		"action", rec.Label(),
		"position", bucket,
		"potBB", fmt.Sprintf("%.1f", potBB),
		"players", players)
	return rec
}

// selectAction picks an action by hashing the derived features onto
// the unit interval and thresholding against the cumulative
// frequencies. The hash stands in for a mixed strategy while keeping
// identical inputs reproducible for regression tests.
func selectAction(potBB float64, bucket string, players int, freq Frequencies) string {
	seed := fmt.Sprintf("%.2f_%s_%d", potBB, bucket, players)
	sum := md5.Sum([]byte(seed))
	n := new(big.Int).SetBytes(sum[:])
	n.Mod(n, big.NewInt(10000))
	v := float64(n.Int64()) / 10000.0

	switch {
	case v < freq.Fold:
		return ActionFold
	case v < freq.Fold+freq.Call:
		return ActionCall
	}
	return ActionRaise
}

// positionEVBonus adjusts the EV heuristic for seat quality.
var positionEVBonus = map[string]float64{
	"button":          0.3,
	"late_position":   0.2,
	"middle_position": 0.0,
	"early_position":  -0.2,
	"blinds":          -0.1,
	"unknown":         0.0,
}

// estimateEV is a closed-form heuristic, formatted in big blinds.
// Folding is always zero; continuing gains from position and pot size.
func estimateEV(action string, potBB float64, bucket string) string {
	if action == ActionFold {
		return "0.0bb"
	}

	bonus := positionEVBonus[bucket]
	var ev float64
	if action == ActionCall {
		potFactor := potBB / 100.0
		if potFactor > 1.0 {
			potFactor = 1.0
		}
		ev = 0.2 + bonus + potFactor*0.3
	} else {
		ev = 0.5 + bonus
	}
	return fmt.Sprintf("%+.1fbb", ev)
}

// bucketTitle renders a bucket for human-readable reasoning.
var bucketTitle = map[string]string{
	"button":          "Button",
	"late_position":   "Late Position",
	"middle_position": "Middle Position",
	"early_position":  "Early Position",
	"blinds":          "Blinds",
	"unknown":         "Unknown",
}

// reasoning picks the first matching template. The order is part of
// the output contract; regression tests pin it.
func reasoning(action string, potBB float64, bucket string, players int) string {
	late := bucket == "button" || bucket == "late_position"

	switch action {
	case ActionFold:
		switch {
		case players >= 8:
			return fmt.Sprintf("Full ring (%dp) - tight GTO fold", players)
		case potBB < 20:
			return fmt.Sprintf("Small pot (%.1f BB) - no pot odds to continue", potBB)
		}
		return "GTO balanced fold to remain unexploitable"

	case ActionCall:
		switch {
		case potBB > 50:
			return fmt.Sprintf("Large pot (%.1f BB) - good pot odds to call", potBB)
		case late:
			return fmt.Sprintf("%s - positional call", bucketTitle[bucket])
		case players <= 4:
			return fmt.Sprintf("Short-handed (%dp) - wider calling range", players)
		}
		return "GTO balanced call with implied odds"
	}

	switch {
	case late:
		return fmt.Sprintf("%s - aggressive GTO raise", bucketTitle[bucket])
	case potBB < 25:
		return fmt.Sprintf("Small pot (%.1f BB) - raise to build pot", potBB)
	case players <= 4:
		return fmt.Sprintf("Short-handed (%dp) - aggressive raise", players)
	}
	return "GTO standard raise (66% pot) for balance"
}
