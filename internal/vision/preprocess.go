package vision

import (
	"bytes"
	"fmt"
	"image"

	// Register the frame formats we accept.
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// DefaultMaxDimension is the resize target for incoming frames. Color
// thresholds elsewhere are tuned against frames at this scale.
const DefaultMaxDimension = 640

// decodeFrame decodes raw image bytes and scales the result so its
// larger dimension does not exceed maxDim, preserving aspect ratio.
// Smaller frames are never upscaled.
func decodeFrame(data []byte, maxDim int) (*image.RGBA, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return normalize(src, maxDim), nil
}

// normalize converts any decoded image to RGBA at the working scale.
func normalize(src image.Image, maxDim int) *image.RGBA {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if maxDim > 0 && (w > maxDim || h > maxDim) {
		scale := float64(maxDim) / float64(w)
		if h > w {
			scale = float64(maxDim) / float64(h)
		}
		w = int(float64(w) * scale)
		h = int(float64(h) * scale)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	return dst
}
