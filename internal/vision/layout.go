// Package vision extracts low-level visual signals from table
// screenshots: whether the action buttons are on screen and which seat
// holds the dealer button. Detection is stateless color-mask work;
// nothing here remembers anything between frames.
package vision

import "image"

// SeatRegion is one seat's search window, expressed as fractions of
// the frame so any resolution maps onto the same table geometry.
type SeatRegion struct {
	Seat int
	X    float64
	Y    float64
	W    float64
	H    float64
}

// Rect projects the fractional region onto concrete frame bounds.
func (r SeatRegion) Rect(bounds image.Rectangle) image.Rectangle {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	return image.Rect(
		bounds.Min.X+int(r.X*w),
		bounds.Min.Y+int(r.Y*h),
		bounds.Min.X+int((r.X+r.W)*w),
		bounds.Min.Y+int((r.Y+r.H)*h),
	)
}

// TableLayout describes where seats sit on a particular client's table
// rendering. Layouts are plain data so supporting another client or a
// 9-max table is a configuration change, not a code change.
type TableLayout struct {
	Name     string
	HeroSeat int
	Seats    []SeatRegion
}

// SixMaxLayout is the standard 6-seat circular table with hero fixed
// at bottom-center (seat 6). Seat order is stable 1..6 so the dealer
// scan's tie-break is deterministic.
func SixMaxLayout() TableLayout {
	return TableLayout{
		Name:     "6max",
		HeroSeat: 6,
		Seats: []SeatRegion{
			{Seat: 1, X: 0.05, Y: 0.55, W: 0.20, H: 0.25}, // bottom-left
			{Seat: 2, X: 0.05, Y: 0.15, W: 0.20, H: 0.25}, // top-left
			{Seat: 3, X: 0.40, Y: 0.05, W: 0.20, H: 0.25}, // top-center
			{Seat: 4, X: 0.75, Y: 0.15, W: 0.20, H: 0.25}, // top-right
			{Seat: 5, X: 0.75, Y: 0.55, W: 0.20, H: 0.25}, // bottom-right
			{Seat: 6, X: 0.40, Y: 0.70, W: 0.20, H: 0.25}, // bottom-center, hero
		},
	}
}

// NineMaxLayout covers full-ring tables. Same contract as
// SixMaxLayout: hero bottom-center, stable seat ordering.
func NineMaxLayout() TableLayout {
	return TableLayout{
		Name:     "9max",
		HeroSeat: 9,
		Seats: []SeatRegion{
			{Seat: 1, X: 0.18, Y: 0.62, W: 0.16, H: 0.20},
			{Seat: 2, X: 0.04, Y: 0.42, W: 0.16, H: 0.20},
			{Seat: 3, X: 0.08, Y: 0.14, W: 0.16, H: 0.20},
			{Seat: 4, X: 0.28, Y: 0.04, W: 0.16, H: 0.20},
			{Seat: 5, X: 0.42, Y: 0.02, W: 0.16, H: 0.20},
			{Seat: 6, X: 0.56, Y: 0.04, W: 0.16, H: 0.20},
			{Seat: 7, X: 0.76, Y: 0.14, W: 0.16, H: 0.20},
			{Seat: 8, X: 0.80, Y: 0.42, W: 0.16, H: 0.20},
			{Seat: 9, X: 0.42, Y: 0.70, W: 0.16, H: 0.22},
		},
	}
}

// LayoutByName returns a named layout, defaulting to 6-max.
func LayoutByName(name string) TableLayout {
	switch name {
	case "9max":
		return NineMaxLayout()
	default:
		return SixMaxLayout()
	}
}
