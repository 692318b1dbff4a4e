// Package imaging derives resized working copies for the external services.
// Originals are decoded fresh each time and never written back.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// Decode parses image bytes in any registered format.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}
	return img, nil
}

// EncodePNG serializes an image as PNG, the only format both external
// services accept.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("imaging: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// FitWithin scales a photo to fit inside maxW x maxH, preserving aspect ratio
// and never enlarging past the source resolution.
func FitWithin(src image.Image, maxW, maxH int) image.Image {
	return scaleToFit(src, maxW, maxH, draw.CatmullRom)
}

// FitWithinNearest is FitWithin with nearest-neighbour resampling. Used for
// binary masks, where interpolation would smear the included/excluded edge.
func FitWithinNearest(src image.Image, maxW, maxH int) image.Image {
	return scaleToFit(src, maxW, maxH, draw.NearestNeighbor)
}

func scaleToFit(src image.Image, maxW, maxH int, scaler draw.Scaler) image.Image {
	b := src.Bounds()
	w, h := fitDims(b.Dx(), b.Dy(), maxW, maxH)
	if w == b.Dx() && h == b.Dy() {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scaler.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// fitDims computes target dimensions that fit inside the bounds while keeping
// aspect ratio. Dimensions already inside the bounds are returned unchanged.
func fitDims(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 || (w <= maxW && h <= maxH) {
		return w, h
	}
	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	outW := int(float64(w) * scale)
	outH := int(float64(h) * scale)
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}
	return outW, outH
}
