package analyzer

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/tablevision/internal/game"
	"github.com/lox/tablevision/internal/solver"
	"github.com/lox/tablevision/internal/vision"
)

// Local is the fast color-heuristic strategy: the frame detector, the
// turn tracker and the frequency solver chained behind the same
// Strategy interface the vision API implements. Unlike the API
// strategy it is stateful, since the tracker's debounce spans frames,
// so the whole detect, check, recommend, reset sequence runs under
// one lock.
type Local struct {
	mu       sync.Mutex
	detector *vision.Detector
	tracker  *game.Tracker
	engine   *solver.Engine
	logger   *log.Logger
}

// NewLocal assembles the local pipeline strategy.
func NewLocal(logger *log.Logger, detector *vision.Detector, tracker *game.Tracker, engine *solver.Engine) *Local {
	return &Local{
		detector: detector,
		tracker:  tracker,
		engine:   engine,
		logger:   logger.WithPrefix("pipeline"),
	}
}

// Name implements Strategy.
func (l *Local) Name() string { return "color" }

// Tracker exposes the underlying tracker, mainly for tests.
func (l *Local) Tracker() *game.Tracker { return l.tracker }

// Analyze implements Strategy. Detection failures degrade to a
// "not hero's turn" analysis rather than an error; the session state
// must survive any single bad frame.
func (l *Local) Analyze(ctx context.Context, image []byte) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Detection is pure and could run outside the lock, but the
	// update that follows must see frames in arrival order.
	l.mu.Lock()
	defer l.mu.Unlock()

	det := l.detector.Detect(image)
	l.tracker.Update(det)

	if !l.tracker.IsHeroTurn() {
		return l.analysisFor(l.tracker.Snapshot(), nil), nil
	}

	snapshot := l.tracker.Snapshot()
	rec := l.engine.Recommend(snapshot)
	l.tracker.ResetTurnFlag()
	return l.analysisFor(snapshot, &rec), nil
}

// analysisFor shapes tracker state (and optionally a recommendation)
// into the shared schema.
func (l *Local) analysisFor(state game.GameState, rec *solver.Recommendation) *Analysis {
	a := &Analysis{
		GameInfo: GameInfo{
			PotSizeBB:      state.PotSize / l.engine.BigBlind(),
			PotSizeDollars: fmt.Sprintf("$%.2f", state.PotSize),
			HeroPosition:   string(state.Position),
			Street:         string(state.Street),
			IsHeroTurn:     rec != nil,
		},
		PotOdds:    "N/A",
		HandEquity: "N/A",
	}
	for _, c := range state.BoardCards {
		a.Detailed.BoardCards = append(a.Detailed.BoardCards, string(c))
	}

	if rec != nil {
		a.GameInfo.PotSizeBB = rec.PotBB
		a.Recommendation = Recommendation{
			Action:    rec.Label(),
			Reasoning: rec.Reasoning,
		}
		if rec.HasSizing {
			sizing := rec.SizingBB
			a.Recommendation.RaiseAmountBB = &sizing
		}
		a.Detailed.EVCalculation = rec.EV
	}
	return a
}
