package engine

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNoSlides = errors.New("deck has no slides")
	// ErrCanceled is returned when the context is canceled mid-export.
	ErrCanceled = fmt.Errorf("export canceled: %w", context.Canceled)
)

// RasterizationError reports an element that could not be turned into a bitmap.
type RasterizationError struct {
	Slide   int    // 1-based
	Element string // element id, or its 1-based position when the id is empty
	Err     error
}

func (e *RasterizationError) Error() string {
	return fmt.Sprintf("slide %d, element %s: rasterization failed: %v", e.Slide, e.Element, e.Err)
}

func (e *RasterizationError) Unwrap() error { return e.Err }

// EncodingError reports a failure of the video encoder.
type EncodingError struct {
	Frame int // frames successfully written before the failure
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding failed after %d frames: %v", e.Frame, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// canceled maps context errors onto ErrCanceled.
func canceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
