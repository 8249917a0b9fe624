package game

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

func testLogger() *log.Logger {
	logger := log.New(os.Stderr)
	logger.SetLevel(log.ErrorLevel)
	return logger
}

func TestTrackerArmsOnHeroTurn(t *testing.T) {
	t.Parallel()
	tracker := NewTracker(testLogger(), quartz.NewMock(t), 5*time.Second)

	tracker.Update(Detection{HeroTurn: true})
	if !tracker.IsHeroTurn() {
		t.Fatal("expected hero turn after first true frame")
	}
}

func TestTrackerDebounce(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	tracker := NewTracker(testLogger(), clock, 5*time.Second)

	// Consecutive true frames inside the cooldown fire at most once.
	tracker.Update(Detection{HeroTurn: true})
	if !tracker.IsHeroTurn() {
		t.Fatal("expected first detection to fire")
	}
	tracker.ResetTurnFlag()

	for i := 0; i < 4; i++ {
		clock.Advance(time.Second)
		tracker.Update(Detection{HeroTurn: true})
		if tracker.IsHeroTurn() {
			t.Fatalf("fired again %ds after reset, inside cooldown", i+1)
		}
	}
}

func TestTrackerCooldownWindow(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	tracker := NewTracker(testLogger(), clock, 5*time.Second)

	// Consumed at t=0.
	tracker.Update(Detection{HeroTurn: true})
	tracker.ResetTurnFlag()

	// t=3: suppressed.
	clock.Advance(3 * time.Second)
	tracker.Update(Detection{HeroTurn: true})
	if tracker.IsHeroTurn() {
		t.Fatal("true frame at t=3 must be suppressed")
	}

	// t=6: honored.
	clock.Advance(3 * time.Second)
	tracker.Update(Detection{HeroTurn: true})
	if !tracker.IsHeroTurn() {
		t.Fatal("true frame at t=6 must be honored")
	}
}

func TestTrackerFalseFrameClearsImmediately(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	tracker := NewTracker(testLogger(), clock, 5*time.Second)

	tracker.Update(Detection{HeroTurn: true})
	if !tracker.IsHeroTurn() {
		t.Fatal("expected armed flag")
	}

	// Clearing ignores the cooldown entirely.
	tracker.Update(Detection{HeroTurn: false})
	if tracker.IsHeroTurn() {
		t.Fatal("false frame must clear the flag immediately")
	}
}

func TestTrackerReadGuardIndependentOfFlag(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	tracker := NewTracker(testLogger(), clock, 5*time.Second)

	tracker.Update(Detection{HeroTurn: true})
	tracker.ResetTurnFlag()

	// Force the flag back on by reaching through Update before the
	// window elapses; the read guard must still suppress it.
	clock.Advance(time.Second)
	tracker.Update(Detection{HeroTurn: true})
	tracker.mu.Lock()
	tracker.state.HeroTurnActive = true
	tracker.mu.Unlock()

	if tracker.IsHeroTurn() {
		t.Fatal("read guard must re-check the cooldown")
	}
}

func TestTrackerPotParsing(t *testing.T) {
	t.Parallel()
	tracker := NewTracker(testLogger(), quartz.NewMock(t), 0)

	tracker.Update(Detection{PotText: "$150.00"})
	state := tracker.Snapshot()
	if !state.HasPot || state.PotSize != 150.0 {
		t.Fatalf("got pot %v (known=%v), want 150", state.PotSize, state.HasPot)
	}

	// Garbage keeps the previous known-good value.
	tracker.Update(Detection{PotText: "po7 s1ze"})
	state = tracker.Snapshot()
	if state.PotSize != 150.0 {
		t.Fatalf("unparseable pot must keep previous value, got %v", state.PotSize)
	}
}

func TestTrackerBoardDrivesStreet(t *testing.T) {
	t.Parallel()
	tracker := NewTracker(testLogger(), quartz.NewMock(t), 0)

	cases := []struct {
		board []Card
		want  Street
	}{
		{[]Card{"Ah", "Kd", "7s"}, StreetFlop},
		{[]Card{"Ah", "Kd", "7s", "2c"}, StreetTurn},
		{[]Card{"Ah", "Kd", "7s", "2c", "Qh"}, StreetRiver},
	}
	for _, tc := range cases {
		tracker.Update(Detection{Board: tc.board})
		state := tracker.Snapshot()
		if state.Street != tc.want {
			t.Errorf("board of %d: got street %s, want %s", len(tc.board), state.Street, tc.want)
		}
	}

	// Two cards is not a valid board; the previous street survives.
	tracker.Update(Detection{Board: []Card{"Ah", "Kd"}})
	if got := tracker.Snapshot().Street; got != StreetRiver {
		t.Errorf("invalid board must not change street, got %s", got)
	}
}

func TestTrackerDealerSeatResolvesPosition(t *testing.T) {
	t.Parallel()
	tracker := NewTracker(testLogger(), quartz.NewMock(t), 0)

	tracker.Update(Detection{DealerSeat: 3})
	if got := tracker.Snapshot().Position; got != PositionUnderGun {
		t.Fatalf("dealer seat 3: got %s, want UTG", got)
	}

	// No button this frame keeps the last resolved position.
	tracker.Update(Detection{})
	if got := tracker.Snapshot().Position; got != PositionUnderGun {
		t.Fatalf("position must persist across frames, got %s", got)
	}
}

func TestTrackerSnapshotIsACopy(t *testing.T) {
	t.Parallel()
	tracker := NewTracker(testLogger(), quartz.NewMock(t), 0)
	tracker.Update(Detection{Board: []Card{"Ah", "Kd", "7s"}})

	snap := tracker.Snapshot()
	snap.BoardCards[0] = "2c"
	snap.Players["x"] = PlayerState{}

	state := tracker.Snapshot()
	if state.BoardCards[0] != "Ah" || len(state.Players) != 0 {
		t.Fatal("snapshot mutation leaked into tracker state")
	}
}

func TestTrackerConcurrentUpdates(t *testing.T) {
	t.Parallel()
	tracker := NewTracker(testLogger(), quartz.NewReal(), 5*time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tracker.Update(Detection{HeroTurn: n%2 == 0, PotText: "$10"})
				tracker.IsHeroTurn()
				tracker.Snapshot()
			}
		}(i)
	}
	wg.Wait()
}
