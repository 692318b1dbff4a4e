package domain

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

// ImageAsset is an uploaded photo: an immutable byte buffer plus its declared
// content type and pixel dimensions. Every pipeline stage derives its own
// resized working copy; the original bytes are never mutated.
type ImageAsset struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// NewImageAsset decodes the image header once to capture pixel dimensions.
// When the caller did not declare a content type the decoded format is used.
func NewImageAsset(data []byte, contentType string) (*ImageAsset, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType == "" {
		contentType = "image/" + format
	}
	return &ImageAsset{
		Data:        data,
		ContentType: contentType,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

// Clone returns a copy backed by its own byte buffer, so derived working
// copies can never alias the original.
func (a *ImageAsset) Clone() *ImageAsset {
	if a == nil {
		return nil
	}
	out := *a
	out.Data = append([]byte(nil), a.Data...)
	return &out
}
