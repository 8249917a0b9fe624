package game

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a currency-formatted string ("$1,234.50",
// "150.00$", " $45 ") into a dollar amount. Currency symbols,
// thousands separators and surrounding whitespace are stripped before
// parsing.
func ParseAmount(text string) (float64, error) {
	clean := strings.TrimSpace(text)
	clean = strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', '¥', ',', ' ':
			return -1
		}
		return r
	}, clean)
	if clean == "" {
		return 0, fmt.Errorf("empty amount %q", text)
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", text, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative amount %q", text)
	}
	return d.InexactFloat64(), nil
}
