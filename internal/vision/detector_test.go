package vision

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/charmbracelet/log"
)

var (
	buttonGreen  = color.RGBA{0, 200, 0, 255}
	timerYellow  = color.RGBA{255, 200, 0, 255}
	foldRed      = color.RGBA{220, 20, 20, 255}
	feltBackdrop = color.RGBA{5, 20, 12, 255} // dark felt, below every value floor
)

func testLogger() *log.Logger {
	logger := log.New(os.Stderr)
	logger.SetLevel(log.ErrorLevel)
	return logger
}

func newDetector(t *testing.T) *Detector {
	t.Helper()
	return NewDetector(testLogger(), Config{})
}

// tableFrame returns a 320x240 dark-felt frame.
func tableFrame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	fillRect(img, img.Bounds(), feltBackdrop)
	return img
}

func TestDetectHeroTurnTwoOfThreeSignals(t *testing.T) {
	t.Parallel()
	d := newDetector(t)

	// Green 40x40 = 1600 px and yellow 30x30 = 900 px both clear the
	// 500 px threshold; red is absent. Two of three signals fire.
	img := tableFrame()
	fillRect(img, image.Rect(60, 190, 100, 230), buttonGreen)
	fillRect(img, image.Rect(110, 195, 140, 225), timerYellow)

	det := d.DetectImage(img)
	if !det.HeroTurn {
		t.Fatal("two color signals above threshold must flag hero turn")
	}
}

func TestDetectHeroTurnSingleSignalRejected(t *testing.T) {
	t.Parallel()
	d := newDetector(t)

	// A lone red pile, however large, is not enough.
	img := tableFrame()
	fillRect(img, image.Rect(20, 20, 120, 120), foldRed)

	if det := d.DetectImage(img); det.HeroTurn {
		t.Fatal("a single color signal must not flag hero turn")
	}
}

func TestDetectHeroTurnBelowThreshold(t *testing.T) {
	t.Parallel()
	d := newDetector(t)

	// 20x20 = 400 px each, under the 500 px threshold.
	img := tableFrame()
	fillRect(img, image.Rect(60, 190, 80, 210), buttonGreen)
	fillRect(img, image.Rect(110, 195, 130, 215), foldRed)

	if det := d.DetectImage(img); det.HeroTurn {
		t.Fatal("signals under the pixel threshold must not count")
	}
}

func TestDetectDealerSeat(t *testing.T) {
	t.Parallel()
	d := newDetector(t)

	// Seat 3 is top-center: x 128..192, y 12..72 on a 320x240 frame.
	// A 10x10 marker blob (100 px) clears the 20 px floor.
	img := tableFrame()
	fillRect(img, image.Rect(140, 30, 150, 40), timerYellow)

	det := d.DetectImage(img)
	if det.DealerSeat != 3 {
		t.Fatalf("got seat %d, want 3", det.DealerSeat)
	}
}

func TestDetectDealerSeatBelowFloor(t *testing.T) {
	t.Parallel()
	d := newDetector(t)

	// 4x4 = 16 px is under the 20 px floor.
	img := tableFrame()
	fillRect(img, image.Rect(140, 30, 144, 34), timerYellow)

	if det := d.DetectImage(img); det.DealerSeat != 0 {
		t.Fatalf("got seat %d, want no button", det.DealerSeat)
	}
}

func TestDetectDealerSeatTieBreak(t *testing.T) {
	t.Parallel()
	d := newDetector(t)

	// Equal-sized markers in seats 2 and 4: under strict comparison
	// the earlier seat index wins.
	img := tableFrame()
	fillRect(img, image.Rect(30, 50, 40, 60), timerYellow)   // seat 2 region
	fillRect(img, image.Rect(250, 50, 260, 60), timerYellow) // seat 4 region

	if det := d.DetectImage(img); det.DealerSeat != 2 {
		t.Fatalf("got seat %d, want 2 (first region wins ties)", det.DealerSeat)
	}
}

func TestDetectDealerSeatDensestRegionWins(t *testing.T) {
	t.Parallel()
	d := newDetector(t)

	img := tableFrame()
	fillRect(img, image.Rect(30, 50, 36, 56), timerYellow)   // seat 2, 36 px
	fillRect(img, image.Rect(250, 50, 262, 62), timerYellow) // seat 4, 144 px

	if det := d.DetectImage(img); det.DealerSeat != 4 {
		t.Fatalf("got seat %d, want 4", det.DealerSeat)
	}
}

func TestDetectDecodesEncodedFrames(t *testing.T) {
	t.Parallel()
	d := newDetector(t)

	img := tableFrame()
	fillRect(img, image.Rect(60, 190, 100, 230), buttonGreen)
	fillRect(img, image.Rect(110, 195, 150, 225), foldRed)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	det := d.Detect(buf.Bytes())
	if !det.HeroTurn {
		t.Fatal("expected hero turn from encoded frame")
	}
}

func TestDetectMalformedFrameDegradesGracefully(t *testing.T) {
	t.Parallel()
	d := newDetector(t)

	det := d.Detect([]byte("not an image"))
	if det.HeroTurn || det.DealerSeat != 0 {
		t.Fatalf("malformed input must yield a zero detection, got %+v", det)
	}
}

func TestNormalizeResize(t *testing.T) {
	t.Parallel()
	src := image.NewRGBA(image.Rect(0, 0, 1280, 960))
	got := normalize(src, 640)
	if got.Bounds().Dx() != 640 || got.Bounds().Dy() != 480 {
		t.Fatalf("got %v, want 640x480", got.Bounds())
	}

	// Portrait frames scale on height instead.
	src = image.NewRGBA(image.Rect(0, 0, 480, 1280))
	got = normalize(src, 640)
	if got.Bounds().Dx() != 240 || got.Bounds().Dy() != 640 {
		t.Fatalf("got %v, want 240x640", got.Bounds())
	}

	// Small frames are left alone.
	src = image.NewRGBA(image.Rect(0, 0, 320, 240))
	got = normalize(src, 640)
	if got.Bounds().Dx() != 320 || got.Bounds().Dy() != 240 {
		t.Fatalf("got %v, want 320x240 unchanged", got.Bounds())
	}
}
