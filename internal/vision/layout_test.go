package vision

import (
	"image"
	"testing"
)

func TestLayoutsStayInsideFrame(t *testing.T) {
	t.Parallel()
	for _, layout := range []TableLayout{SixMaxLayout(), NineMaxLayout()} {
		for _, seat := range layout.Seats {
			if seat.X < 0 || seat.Y < 0 || seat.X+seat.W > 1 || seat.Y+seat.H > 1 {
				t.Errorf("%s seat %d: region %+v exceeds the unit square", layout.Name, seat.Seat, seat)
			}
		}
	}
}

func TestLayoutSeatOrderIsStable(t *testing.T) {
	t.Parallel()
	for _, layout := range []TableLayout{SixMaxLayout(), NineMaxLayout()} {
		for i, seat := range layout.Seats {
			if seat.Seat != i+1 {
				t.Errorf("%s: seat at index %d is %d, want %d", layout.Name, i, seat.Seat, i+1)
			}
		}
		if hero := layout.Seats[len(layout.Seats)-1].Seat; hero != layout.HeroSeat {
			t.Errorf("%s: hero seat %d is not the last seat %d", layout.Name, layout.HeroSeat, hero)
		}
	}
}

func TestSeatRegionRect(t *testing.T) {
	t.Parallel()
	region := SeatRegion{Seat: 3, X: 0.40, Y: 0.05, W: 0.20, H: 0.25}
	got := region.Rect(image.Rect(0, 0, 320, 240))
	want := image.Rect(128, 12, 192, 72)
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLayoutByName(t *testing.T) {
	t.Parallel()
	if LayoutByName("9max").Name != "9max" {
		t.Error("expected 9max layout")
	}
	if LayoutByName("").Name != "6max" {
		t.Error("expected 6max default")
	}
	if LayoutByName("weird").Name != "6max" {
		t.Error("unknown names fall back to 6max")
	}
}
