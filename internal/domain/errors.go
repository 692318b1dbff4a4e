package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidImage = errors.New("invalid image")
	ErrMaskRequired = errors.New("mask required")
	ErrMaskMismatch = errors.New("mask dimensions do not match image")
	ErrEmptyMask    = errors.New("mask has no painted region")
)
