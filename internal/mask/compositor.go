package mask

import (
	"fmt"
	"math"
)

const (
	// paintAlpha is the brush opacity used by the capture surface (80%).
	paintAlpha = 204
	// threshold classifies a pixel as included once its accumulated alpha
	// passes 50% opacity. The edit service only accepts binary masks, so the
	// accumulator is collapsed rather than preserved.
	threshold = 128
)

// Compose replays the stroke sequence over an alpha accumulation buffer at
// capture resolution and binarizes the result. Strokes are applied in order:
// paint composites a disk into the accumulator, erase clears it, so a later
// stroke always wins at any pixel it covers. Empty strokes yield an
// all-excluded mask; whether that is usable is the caller's concern.
func Compose(strokes []Stroke, canvasWidth, canvasHeight int) (*Mask, error) {
	if canvasWidth <= 0 || canvasHeight <= 0 {
		return nil, fmt.Errorf("mask: canvas %dx%d is not positive", canvasWidth, canvasHeight)
	}

	acc := make([]uint8, canvasWidth*canvasHeight)
	for _, stroke := range strokes {
		for _, s := range stroke {
			stamp(acc, canvasWidth, canvasHeight, s)
		}
	}

	pix := make([]uint8, len(acc))
	for i, a := range acc {
		if a > threshold {
			pix[i] = 255
		}
	}
	return &Mask{width: canvasWidth, height: canvasHeight, pix: pix}, nil
}

// stamp applies a single filled disk to the accumulator. Paint uses
// source-over compositing at the brush opacity; erase zeroes coverage.
func stamp(acc []uint8, w, h int, s Sample) {
	r := s.Radius
	if r <= 0 {
		return
	}
	minX := clamp(int(math.Floor(s.X-r)), 0, w-1)
	maxX := clamp(int(math.Ceil(s.X+r)), 0, w-1)
	minY := clamp(int(math.Floor(s.Y-r)), 0, h-1)
	maxY := clamp(int(math.Ceil(s.Y+r)), 0, h-1)
	r2 := r * r

	for y := minY; y <= maxY; y++ {
		dy := float64(y) + 0.5 - s.Y
		for x := minX; x <= maxX; x++ {
			dx := float64(x) + 0.5 - s.X
			if dx*dx+dy*dy > r2 {
				continue
			}
			i := y*w + x
			if s.Mode == ModeErase {
				acc[i] = 0
				continue
			}
			a := uint32(acc[i])
			acc[i] = uint8(a + paintAlpha*(255-a)/255)
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
