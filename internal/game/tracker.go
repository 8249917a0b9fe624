package game

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// DefaultCooldown is how long the tracker refuses to re-arm the
// hero-turn flag after a recommendation was consumed. The action
// buttons stay on screen for many consecutive frames; without the
// cooldown every one of them would fire.
const DefaultCooldown = 5 * time.Second

// Tracker owns the session's GameState and folds the stream of
// per-frame detections into a debounced hero-turn trigger. All methods
// are safe for concurrent use; the whole read-modify-write of a call
// happens under one lock so two frames can never both observe an
// eligible turn.
type Tracker struct {
	mu        sync.Mutex
	clock     quartz.Clock
	cooldown  time.Duration
	logger    *log.Logger
	state     GameState
	lastReset time.Time
}

// NewTracker creates a tracker with the given clock and cooldown.
// A zero cooldown falls back to DefaultCooldown.
func NewTracker(logger *log.Logger, clock quartz.Clock, cooldown time.Duration) *Tracker {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Tracker{
		clock:    clock,
		cooldown: cooldown,
		logger:   logger.WithPrefix("tracker"),
		state:    NewGameState(),
	}
}

// Update folds one frame's detection into the state. Pot, board and
// player info are last-writer-wins; the hero-turn flag goes through
// the activation guard. A detection that carries nothing leaves the
// state untouched.
func (t *Tracker) Update(det Detection) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if det.PotText != "" {
		amount, err := ParseAmount(det.PotText)
		if err != nil {
			t.logger.Warn("Unparseable pot, keeping previous value", "text", det.PotText, "error", err)
		} else {
			t.state.PotSize = amount
			t.state.HasPot = true
		}
	}

	if det.Board != nil {
		if street, ok := StreetForBoard(len(det.Board)); ok {
			t.state.BoardCards = append(t.state.BoardCards[:0], det.Board...)
			t.state.Street = street
		} else {
			t.logger.Warn("Ignoring board with invalid card count", "cards", len(det.Board))
		}
	}
	if det.HeroCards != nil {
		t.state.HeroCards = append(t.state.HeroCards[:0], det.HeroCards...)
	}

	if det.DealerSeat != 0 {
		t.state.Position = ResolvePosition(det.DealerSeat)
	}

	for seat, raw := range det.Stacks {
		player := t.state.Players[seat]
		stack, err := ParseAmount(raw)
		if err != nil {
			t.logger.Warn("Unparseable stack, keeping previous value", "seat", seat, "text", raw, "error", err)
		} else {
			player.Stack = stack
			player.HasStack = true
		}
		t.state.Players[seat] = player
	}

	if det.HeroTurn {
		// Only arm outside the cooldown window so the same turn
		// showing across consecutive frames fires once.
		if t.cooldownElapsedLocked() {
			t.state.HeroTurnActive = true
		}
	} else if t.state.HeroTurnActive {
		// Clearing needs no debounce; acting on a stale "true" is
		// the failure mode being guarded against.
		t.state.HeroTurnActive = false
	}
}

// IsHeroTurn reports whether a recommendation should fire now. The
// cooldown is re-checked here independently of the stored flag, so a
// flag left armed cannot fire twice inside one window.
func (t *Tracker) IsHeroTurn() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.HeroTurnActive && t.cooldownElapsedLocked()
}

// ResetTurnFlag marks the current turn as consumed and starts the next
// cooldown window. Callers invoke this after acting on a true
// IsHeroTurn result.
func (t *Tracker) ResetTurnFlag() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.HeroTurnActive = false
	t.lastReset = t.clock.Now()
	t.state.LastHeroTurnTime = t.lastReset
}

// Snapshot returns a copy of the current state for read-only use.
func (t *Tracker) Snapshot() GameState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

func (t *Tracker) cooldownElapsedLocked() bool {
	if t.lastReset.IsZero() {
		return true
	}
	return t.clock.Now().Sub(t.lastReset) >= t.cooldown
}
