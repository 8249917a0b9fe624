package vision

import "image"

// HueRange selects pixels whose hue falls inside [Lo, Hi] degrees with
// at least MinS saturation and MinV value (both 0..1). Red wraps the
// hue circle, so a mask may combine several ranges.
type HueRange struct {
	Lo   float64
	Hi   float64
	MinS float64
	MinV float64
}

// Default mask ranges for the action-button colors. Values mirror the
// usual OpenCV 0..179 hue windows doubled onto the 0..360 scale:
// green 40-80, yellow/orange 10-30, red 0-10 and 160-180.
var (
	greenRanges = []HueRange{
		{Lo: 80, Hi: 160, MinS: 40.0 / 255.0, MinV: 40.0 / 255.0},
	}
	yellowRanges = []HueRange{
		{Lo: 40, Hi: 60, MinS: 100.0 / 255.0, MinV: 100.0 / 255.0},
	}
	orangeRanges = []HueRange{
		{Lo: 20, Hi: 40, MinS: 100.0 / 255.0, MinV: 100.0 / 255.0},
	}
	redRanges = []HueRange{
		{Lo: 0, Hi: 20, MinS: 100.0 / 255.0, MinV: 100.0 / 255.0},
		{Lo: 320, Hi: 360, MinS: 100.0 / 255.0, MinV: 100.0 / 255.0},
	}
)

func (r HueRange) contains(h, s, v float64) bool {
	return h >= r.Lo && h <= r.Hi && s >= r.MinS && v >= r.MinV
}

// rgbToHSV converts 8-bit RGB to hue in degrees (0..360) and
// saturation/value in 0..1.
func rgbToHSV(r, g, b uint8) (h, s, v float64) {
	rf := float64(r) / 255.0
	gf := float64(g) / 255.0
	bf := float64(b) / 255.0

	max := rf
	if gf > max {
		max = gf
	}
	if bf > max {
		max = bf
	}
	min := rf
	if gf < min {
		min = gf
	}
	if bf < min {
		min = bf
	}

	v = max
	delta := max - min
	if max > 0 {
		s = delta / max
	}
	if delta == 0 {
		return 0, s, v
	}

	switch max {
	case rf:
		h = 60 * ((gf - bf) / delta)
	case gf:
		h = 60 * (2 + (bf-rf)/delta)
	default:
		h = 60 * (4 + (rf-gf)/delta)
	}
	if h < 0 {
		h += 360
	}
	return h, s, v
}

// countMask counts pixels of img inside rect matching any of the given
// ranges. The rect is clipped to the image bounds first.
func countMask(img *image.RGBA, rect image.Rectangle, ranges []HueRange) int {
	rect = rect.Intersect(img.Bounds())
	count := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		row := img.Pix[img.PixOffset(rect.Min.X, y):img.PixOffset(rect.Max.X, y)]
		for x := 0; x < len(row); x += 4 {
			h, s, v := rgbToHSV(row[x], row[x+1], row[x+2])
			for _, r := range ranges {
				if r.contains(h, s, v) {
					count++
					break
				}
			}
		}
	}
	return count
}
