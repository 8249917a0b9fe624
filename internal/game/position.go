package game

// Position is hero's seat-relative position label.
type Position string

const (
	PositionButton     Position = "BTN"
	PositionSmallBlind Position = "SB"
	PositionBigBlind   Position = "BB"
	PositionUnderGun   Position = "UTG"
	PositionMiddle     Position = "MP"
	PositionCutoff     Position = "CO"
	PositionUnknown    Position = "unknown"
)

// HeroSeat is the seat index the table layout reserves for hero
// (bottom-center on the 6-max layout).
const HeroSeat = 6

// positionBySeatOffset maps (HeroSeat - dealerSeat) mod 6 to a label.
var positionBySeatOffset = [6]Position{
	PositionButton,
	PositionSmallBlind,
	PositionBigBlind,
	PositionUnderGun,
	PositionMiddle,
	PositionCutoff,
}

// ResolvePosition maps a detected dealer seat to hero's position.
// Callers pass a seat in 1..6, or any value congruent mod 6.
func ResolvePosition(dealerSeat int) Position {
	offset := ((HeroSeat - dealerSeat) % 6 + 6) % 6
	return positionBySeatOffset[offset]
}

// Bucket collapses a position label into the frequency-table buckets
// used by the solver.
func (p Position) Bucket() string {
	switch p {
	case PositionButton:
		return "button"
	case PositionCutoff:
		return "late_position"
	case PositionMiddle:
		return "middle_position"
	case PositionUnderGun:
		return "early_position"
	case PositionSmallBlind, PositionBigBlind:
		return "blinds"
	}
	return "unknown"
}
