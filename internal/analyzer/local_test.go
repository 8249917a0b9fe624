package analyzer

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/tablevision/internal/game"
	"github.com/lox/tablevision/internal/solver"
	"github.com/lox/tablevision/internal/vision"
)

// actionFrame renders a minimal table with the action buttons showing
// and the dealer marker in seat 3.
func actionFrame(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	paint := func(rect image.Rectangle, c color.RGBA) {
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				img.SetRGBA(x, y, c)
			}
		}
	}
	paint(img.Bounds(), color.RGBA{5, 20, 12, 255})                      // felt
	paint(image.Rect(60, 190, 100, 230), color.RGBA{0, 200, 0, 255})    // call button
	paint(image.Rect(200, 190, 240, 230), color.RGBA{220, 20, 20, 255}) // fold button
	paint(image.Rect(140, 30, 150, 40), color.RGBA{255, 200, 0, 255})   // dealer marker, seat 3

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// quietFrame renders the table with no action buttons.
func quietFrame(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	for y := 0; y < 240; y++ {
		for x := 0; x < 320; x++ {
			img.SetRGBA(x, y, color.RGBA{5, 20, 12, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newLocal(t *testing.T, clock quartz.Clock) *Local {
	t.Helper()
	logger := testLogger()
	return NewLocal(logger,
		vision.NewDetector(logger, vision.Config{}),
		game.NewTracker(logger, clock, 5*time.Second),
		solver.NewEngine(logger, solver.Options{}),
	)
}

func TestLocalAnalyzeRecommendsOnHeroTurn(t *testing.T) {
	t.Parallel()
	local := newLocal(t, quartz.NewMock(t))

	analysis, err := local.Analyze(context.Background(), actionFrame(t))
	require.NoError(t, err)

	assert.True(t, analysis.GameInfo.IsHeroTurn)
	assert.Equal(t, "UTG", analysis.GameInfo.HeroPosition)
	assert.NotEmpty(t, analysis.Recommendation.Action)
	assert.NotEmpty(t, analysis.Recommendation.Reasoning)
}

func TestLocalAnalyzeCooldownSuppressesRepeat(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	local := newLocal(t, clock)
	frame := actionFrame(t)

	first, err := local.Analyze(context.Background(), frame)
	require.NoError(t, err)
	require.True(t, first.GameInfo.IsHeroTurn)

	// Same turn still on screen two seconds later: no re-fire.
	clock.Advance(2 * time.Second)
	second, err := local.Analyze(context.Background(), frame)
	require.NoError(t, err)
	assert.False(t, second.GameInfo.IsHeroTurn)

	// After the cooldown re-elapses the next turn fires again.
	clock.Advance(4 * time.Second)
	third, err := local.Analyze(context.Background(), frame)
	require.NoError(t, err)
	assert.True(t, third.GameInfo.IsHeroTurn)
}

func TestLocalAnalyzeQuietTable(t *testing.T) {
	t.Parallel()
	local := newLocal(t, quartz.NewMock(t))

	analysis, err := local.Analyze(context.Background(), quietFrame(t))
	require.NoError(t, err)
	assert.False(t, analysis.GameInfo.IsHeroTurn)
	assert.Empty(t, analysis.Recommendation.Action)
}

func TestLocalAnalyzeBadFrameIsNotFatal(t *testing.T) {
	t.Parallel()
	local := newLocal(t, quartz.NewMock(t))

	analysis, err := local.Analyze(context.Background(), []byte("junk"))
	require.NoError(t, err)
	assert.False(t, analysis.GameInfo.IsHeroTurn)
}

func TestLocalAnalyzeHonorsContext(t *testing.T) {
	t.Parallel()
	local := newLocal(t, quartz.NewMock(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := local.Analyze(ctx, quietFrame(t))
	require.Error(t, err)
}
