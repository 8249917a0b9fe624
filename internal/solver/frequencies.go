// Package solver maps the tracked table state to an action
// recommendation using balanced frequency tables. The frequencies are
// hand-tuned approximations, not a computed equilibrium; they keep the
// advisor unexploitable-ish when hero's cards are unknown.
package solver

// Frequencies is one position bucket's fold/call/raise mix. Every
// table entry sums to 1.0 and every adjustment moves probability
// between actions in pairs, so the sum is an invariant.
type Frequencies struct {
	Fold  float64
	Call  float64
	Raise float64
}

// Sum returns Fold+Call+Raise; 1.0 for any valid mix.
func (f Frequencies) Sum() float64 {
	return f.Fold + f.Call + f.Raise
}

// baseFrequencies keys the defensive default mixes by position bucket.
var baseFrequencies = map[string]Frequencies{
	"early_position":  {Fold: 0.60, Call: 0.25, Raise: 0.15},
	"middle_position": {Fold: 0.50, Call: 0.30, Raise: 0.20},
	"late_position":   {Fold: 0.35, Call: 0.35, Raise: 0.30},
	"button":          {Fold: 0.25, Call: 0.35, Raise: 0.40},
	"blinds":          {Fold: 0.55, Call: 0.30, Raise: 0.15},
	"unknown":         {Fold: 0.45, Call: 0.35, Raise: 0.20},
}

// BaseFrequencies returns the mix for a bucket, falling back to the
// unknown bucket.
func BaseFrequencies(bucket string) Frequencies {
	if f, ok := baseFrequencies[bucket]; ok {
		return f
	}
	return baseFrequencies["unknown"]
}

func minOf(vals ...float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// tighten shifts probability from raise to fold for full-ring tables.
// The shift is capped so fold stays <= 0.75 and raise >= 0.10.
func (f Frequencies) tighten(adjustment float64) Frequencies {
	d := minOf(adjustment, 0.75-f.Fold, f.Raise-0.10)
	if d <= 0 {
		return f
	}
	f.Fold += d
	f.Raise -= d
	return f
}

// loosen shifts probability from fold to raise for short-handed
// tables. Fold stays >= 0.20, raise <= 0.45.
func (f Frequencies) loosen(adjustment float64) Frequencies {
	d := minOf(adjustment, f.Fold-0.20, 0.45-f.Raise)
	if d <= 0 {
		return f
	}
	f.Fold -= d
	f.Raise += d
	return f
}

// favorContinuing shifts fold mass into call and raise (2:1) when the
// pot is large. Fold stays >= 0.20; unclamped this is fold -0.15,
// call +0.10, raise +0.05.
func (f Frequencies) favorContinuing() Frequencies {
	d := minOf(0.15, f.Fold-0.20)
	if d <= 0 {
		return f
	}
	f.Fold -= d
	f.Call += d * (2.0 / 3.0)
	f.Raise += d * (1.0 / 3.0)
	return f
}

// favorFolding shifts call and raise mass into fold when the pot is
// small. Call stays >= 0.15, raise >= 0.10, fold <= 0.70; unclamped
// this is fold +0.10, call -0.05, raise -0.05.
func (f Frequencies) favorFolding() Frequencies {
	dc := minOf(0.05, f.Call-0.15)
	if dc < 0 {
		dc = 0
	}
	dr := minOf(0.05, f.Raise-0.10)
	if dr < 0 {
		dr = 0
	}
	if room := 0.70 - f.Fold; dc+dr > room {
		if room <= 0 {
			return f
		}
		scale := room / (dc + dr)
		dc *= scale
		dr *= scale
	}
	f.Fold += dc + dr
	f.Call -= dc
	f.Raise -= dr
	return f
}

// adjustForPlayers applies the table-size adjustment: eight or more
// players tighten, four or fewer loosen.
func (f Frequencies) adjustForPlayers(players int) Frequencies {
	switch {
	case players >= 8:
		return f.tighten(0.15)
	case players <= 4:
		return f.loosen(0.15)
	}
	return f
}

// adjustForPotOdds applies the pot-size adjustment keyed on the
// normalized pot factor (pot in BB over a typical 75 BB pot).
func (f Frequencies) adjustForPotOdds(factor float64) Frequencies {
	switch {
	case factor > 1.5:
		return f.favorContinuing()
	case factor < 0.5:
		return f.favorFolding()
	}
	return f
}
