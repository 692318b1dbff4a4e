package mask

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

// Mode selects what a brush sample does to the region of interest.
type Mode string

const (
	ModePaint Mode = "paint"
	ModeErase Mode = "erase"
)

// Sample is one brush stamp captured from the drawing surface: a disk of the
// given radius centred on (x, y), in capture-canvas coordinates.
type Sample struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Mode   Mode    `json:"mode"`
}

// Stroke is an ordered run of brush samples.
type Stroke []Sample

// Mask is a single-channel binary raster: each pixel is either included (to
// be edited) or excluded (preserved). It always matches the capture canvas
// dimensions it was composed for.
type Mask struct {
	width  int
	height int
	pix    []uint8 // 0 excluded, 255 included, row-major
}

func (m *Mask) Width() int  { return m.width }
func (m *Mask) Height() int { return m.height }

// Included reports whether the pixel at (x, y) is part of the edit region.
// Out-of-bounds coordinates are excluded.
func (m *Mask) Included(x, y int) bool {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return false
	}
	return m.pix[y*m.width+x] != 0
}

// IncludedCount returns the number of included pixels.
func (m *Mask) IncludedCount() int {
	n := 0
	for _, p := range m.pix {
		if p != 0 {
			n++
		}
	}
	return n
}

// Empty reports whether no pixel is included.
func (m *Mask) Empty() bool {
	for _, p := range m.pix {
		if p != 0 {
			return false
		}
	}
	return true
}

// Image renders the mask the way the edit service expects it: fully opaque,
// white where included, black where excluded.
func (m *Mask) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.width, m.height))
	copy(img.Pix, m.pix)
	return img
}

// EncodePNG serializes the mask as an opaque black-and-white PNG.
func (m *Mask) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, m.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromImage rebuilds a binary mask from a grayscale rendering, re-applying
// the inclusion threshold. Used after resampling a mask to new dimensions.
func FromImage(img image.Image) *Mask {
	b := img.Bounds()
	m := &Mask{width: b.Dx(), height: b.Dy(), pix: make([]uint8, b.Dx()*b.Dy())}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y > threshold {
				m.pix[i] = 255
			}
			i++
		}
	}
	return m
}
