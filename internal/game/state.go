// Package game holds the table state model and the tracker that folds
// noisy per-frame detections into a stable hero-turn signal.
package game

import "time"

// Street is the current betting round, derived from the number of
// community cards on the board.
type Street string

const (
	StreetPreflop Street = "preflop"
	StreetFlop    Street = "flop"
	StreetTurn    Street = "turn"
	StreetRiver   Street = "river"
)

// Card is a two-character rank+suit string, e.g. "Ah" or "Td".
type Card string

// StreetForBoard maps a board size to its street. Board sizes other
// than 0, 3, 4 or 5 are not valid table states; callers normalize
// through this before storing a board.
func StreetForBoard(cards int) (Street, bool) {
	switch cards {
	case 0:
		return StreetPreflop, true
	case 3:
		return StreetFlop, true
	case 4:
		return StreetTurn, true
	case 5:
		return StreetRiver, true
	}
	return StreetPreflop, false
}

// PlayerState is what we know about one seat.
type PlayerState struct {
	Position   Position
	Stack      float64
	HasStack   bool
	LastAction string
	IsHero     bool
}

// GameState is the live per-session table state. One instance lives for
// the whole observed session and is mutated in place by the Tracker on
// every frame.
type GameState struct {
	Street           Street
	PotSize          float64
	HasPot           bool
	BoardCards       []Card
	HeroCards        []Card
	Players          map[string]PlayerState
	Position         Position
	HeroTurnActive   bool
	LastHeroTurnTime time.Time
}

// NewGameState returns an empty preflop state.
func NewGameState() GameState {
	return GameState{
		Street:   StreetPreflop,
		Position: PositionUnknown,
		Players:  make(map[string]PlayerState),
	}
}

// Clone returns a deep copy, safe to hand to readers while the tracker
// keeps mutating the original.
func (s GameState) Clone() GameState {
	out := s
	out.BoardCards = append([]Card(nil), s.BoardCards...)
	out.HeroCards = append([]Card(nil), s.HeroCards...)
	out.Players = make(map[string]PlayerState, len(s.Players))
	for k, v := range s.Players {
		out.Players[k] = v
	}
	return out
}

// PlayerCount reports the number of known seats, or fallback when no
// seats have been observed yet.
func (s GameState) PlayerCount(fallback int) int {
	if len(s.Players) == 0 {
		return fallback
	}
	return len(s.Players)
}

// Detection is the per-frame output of a detector. It has no identity
// and no lifecycle beyond the frame that produced it; zero value means
// "nothing recognized".
type Detection struct {
	// HeroTurn reports whether the action buttons are on screen.
	HeroTurn bool

	// DealerSeat is the seat index (1-based) holding the dealer
	// button, or 0 when no button was located.
	DealerSeat int

	// PotText is the raw pot string as read off the table, currency
	// symbols and all. Empty when nothing was read.
	PotText string

	Board     []Card
	HeroCards []Card

	// Stacks maps seat or player name to a raw stack string.
	Stacks map[string]string
}
