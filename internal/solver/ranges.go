package solver

import "github.com/lox/tablevision/internal/game"

// OpeningRange is a precomputed preflop opening chart for one
// position: the hands worth opening and what share of all holdings
// they represent.
type OpeningRange struct {
	Position     game.Position
	RangePercent int
	Hands        []string
	Description  string
}

var utgHands = []string{
	"AA", "KK", "QQ", "JJ", "TT",
	"AKs", "AQs", "AJs", "ATs",
	"KQs", "KJs",
	"AKo", "AQo",
}

var mpHands = append(append([]string(nil), utgHands...),
	"99", "88",
	"A9s", "A8s", "A7s", "A6s", "A5s",
	"KTs", "QJs", "QTs", "JTs",
	"AJo", "ATo", "KQo",
)

var coHands = append(append([]string(nil), mpHands...),
	"77", "66", "55",
	"A4s", "A3s", "A2s",
	"K9s", "Q9s", "J9s", "T9s", "98s", "87s",
	"KJo", "QJo", "JTo",
)

var btnHands = append(append([]string(nil), coHands...),
	"44", "33", "22",
	"K8s", "K7s", "Q8s", "J8s", "T8s", "97s", "86s", "76s", "65s",
	"KTo", "K9o", "QTo", "Q9o", "J9o", "T9o",
)

var sbHands = []string{
	"AA", "KK", "QQ", "JJ", "TT", "99", "88", "77", "66", "55",
	"AKs", "AQs", "AJs", "ATs", "A9s", "A5s", "A4s", "A3s", "A2s",
	"KQs", "KJs", "KTs", "QJs", "QTs", "JTs", "T9s", "98s", "87s",
	"AKo", "AQo", "AJo", "KQo",
}

// openingRanges holds the 6-max opening charts. Later positions widen:
// UTG is a strict subset of MP, MP of CO, CO of BTN.
var openingRanges = map[game.Position]OpeningRange{
	game.PositionUnderGun: {
		Position:     game.PositionUnderGun,
		RangePercent: 12,
		Hands:        utgHands,
		Description:  "Very tight - premium hands only",
	},
	game.PositionMiddle: {
		Position:     game.PositionMiddle,
		RangePercent: 18,
		Hands:        mpHands,
		Description:  "Tight - strong hands + suited connectors",
	},
	game.PositionCutoff: {
		Position:     game.PositionCutoff,
		RangePercent: 26,
		Hands:        coHands,
		Description:  "Moderate - widening with position",
	},
	game.PositionButton: {
		Position:     game.PositionButton,
		RangePercent: 45,
		Hands:        btnHands,
		Description:  "Wide - steal position",
	},
	game.PositionSmallBlind: {
		Position:     game.PositionSmallBlind,
		RangePercent: 35,
		Hands:        sbHands,
		Description:  "Complete or raise vs BB",
	},
}

// bbDefenseVsSteal is how wide the big blind defends against an open
// from each stealing position.
var bbDefenseVsSteal = map[game.Position]int{
	game.PositionButton: 65,
	game.PositionCutoff: 55,
	game.PositionMiddle: 45,
}

// OpeningRangeFor returns the chart for a position. Positions without
// a chart (BB, unknown) fall back to the MP chart, the most neutral.
func OpeningRangeFor(pos game.Position) OpeningRange {
	if r, ok := openingRanges[pos]; ok {
		return r
	}
	return openingRanges[game.PositionMiddle]
}

// BBDefensePercent reports how wide the big blind defends against an
// open from the given position, defaulting to 55%.
func BBDefensePercent(opener game.Position) int {
	if pct, ok := bbDefenseVsSteal[opener]; ok {
		return pct
	}
	return 55
}

// InRange reports whether a hand string like "AKs" is in the chart.
func (r OpeningRange) InRange(hand string) bool {
	for _, h := range r.Hands {
		if h == hand {
			return true
		}
	}
	return false
}

// RangeEstimate scales a position's range for table size: full-ring
// tables tighten to 80%, short-handed tables loosen to 120%.
type RangeEstimate struct {
	Position     game.Position
	RangePercent int
	Players      int
}

// EstimateRange applies the table-size scaling to a position's chart.
func EstimateRange(pos game.Position, players int) RangeEstimate {
	pct := OpeningRangeFor(pos).RangePercent
	switch {
	case players >= 8:
		pct = pct * 8 / 10
	case players <= 4:
		pct = pct * 12 / 10
	}
	return RangeEstimate{Position: pos, RangePercent: pct, Players: players}
}
