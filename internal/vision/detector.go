package vision

import (
	"image"

	"github.com/charmbracelet/log"

	"github.com/lox/tablevision/internal/game"
)

// Config tunes the color heuristics. Zero values take the defaults the
// thresholds were calibrated at.
type Config struct {
	// PixelThreshold is the minimum mask size for one button color to
	// count as a signal (at MaxDimension scale).
	PixelThreshold int

	// ButtonFloor is the minimum yellow/orange pixel count inside a
	// seat region before it can claim the dealer button.
	ButtonFloor int

	// MaxDimension bounds the working frame size.
	MaxDimension int

	// Layout names the table geometry to scan.
	Layout string
}

const (
	defaultPixelThreshold = 500
	defaultButtonFloor    = 20
)

func (c Config) withDefaults() Config {
	if c.PixelThreshold <= 0 {
		c.PixelThreshold = defaultPixelThreshold
	}
	if c.ButtonFloor <= 0 {
		c.ButtonFloor = defaultButtonFloor
	}
	if c.MaxDimension <= 0 {
		c.MaxDimension = DefaultMaxDimension
	}
	return c
}

// Detector turns a single frame into a game.Detection. It is a pure
// function of the input pixels and safe for concurrent use.
type Detector struct {
	cfg    Config
	layout TableLayout
	logger *log.Logger
}

// NewDetector creates a detector for the configured table layout.
func NewDetector(logger *log.Logger, cfg Config) *Detector {
	cfg = cfg.withDefaults()
	return &Detector{
		cfg:    cfg,
		layout: LayoutByName(cfg.Layout),
		logger: logger.WithPrefix("vision"),
	}
}

// Layout exposes the active table layout.
func (d *Detector) Layout() TableLayout {
	return d.layout
}

// Detect analyzes raw frame bytes. It never fails the caller: a frame
// that cannot be decoded logs the cause and yields a zero Detection,
// and whichever sub-steps succeed contribute their partial results.
func (d *Detector) Detect(frame []byte) game.Detection {
	img, err := decodeFrame(frame, d.cfg.MaxDimension)
	if err != nil {
		d.logger.Error("Frame decode failed", "error", err, "bytes", len(frame))
		return game.Detection{}
	}
	return d.DetectImage(img)
}

// DetectImage runs the color heuristics over an already decoded frame.
func (d *Detector) DetectImage(img *image.RGBA) game.Detection {
	det := game.Detection{
		HeroTurn:   d.detectHeroTurn(img),
		DealerSeat: d.detectDealerSeat(img),
	}
	d.logger.Debug("Frame analyzed",
		"heroTurn", det.HeroTurn,
		"dealerSeat", det.DealerSeat)
	return det
}

// detectHeroTurn looks for the action-button palette. Requiring two of
// the three color signals rejects single-color false positives such as
// red chip stacks.
func (d *Detector) detectHeroTurn(img *image.RGBA) bool {
	bounds := img.Bounds()
	green := countMask(img, bounds, greenRanges)
	yellow := countMask(img, bounds, yellowRanges)
	red := countMask(img, bounds, redRanges)

	signals := 0
	for _, px := range []int{green, yellow, red} {
		if px > d.cfg.PixelThreshold {
			signals++
		}
	}

	d.logger.Debug("Button colors",
		"green", green, "yellow", yellow, "red", red,
		"threshold", d.cfg.PixelThreshold)
	return signals >= 2
}

// detectDealerSeat scans each seat region for the yellow/orange dealer
// marker and picks the densest region above the floor. Strict >
// comparison over the stable seat order makes ties deterministic:
// the first seat encountered wins.
func (d *Detector) detectDealerSeat(img *image.RGBA) int {
	bounds := img.Bounds()
	marker := append(append([]HueRange(nil), yellowRanges...), orangeRanges...)

	bestSeat := 0
	bestCount := 0
	for _, region := range d.layout.Seats {
		count := countMask(img, region.Rect(bounds), marker)
		if count > d.cfg.ButtonFloor && count > bestCount {
			bestSeat = region.Seat
			bestCount = count
		}
	}
	return bestSeat
}
