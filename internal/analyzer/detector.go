// Package analyzer finds content blocks (paragraphs, pictures, charts) on a
// rendered page so they can be highlighted one after another.
package analyzer

import (
	"fmt"
	"image"
	"sort"
)

// Block is a region of interest in page pixels.
type Block struct {
	Rect       image.Rectangle
	Confidence float64 // 0.0-1.0
}

// Detector is an image analysis strategy.
type Detector interface {
	Detect(img image.Image) ([]Block, error)
}

// NewDetector creates a detector by name.
func NewDetector(variant string) (Detector, error) {
	switch variant {
	case "contrast", "":
		return NewContrastDetector(), nil
	case "none":
		return noDetector{}, nil
	default:
		return nil, fmt.Errorf("unknown detector variant: %s", variant)
	}
}

// noDetector finds nothing: pages are imported without highlights.
type noDetector struct{}

func (noDetector) Detect(image.Image) ([]Block, error) { return nil, nil }

// ReadingOrder sorts blocks top-to-bottom and, within a row, left-to-right.
// Blocks whose tops differ by at most rowTolerance pixels share a row.
func ReadingOrder(blocks []Block, rowTolerance int) []Block {
	sorted := make([]Block, len(blocks))
	copy(sorted, blocks)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Rect.Min, sorted[j].Rect.Min
		if dy := a.Y - b.Y; dy > rowTolerance || dy < -rowTolerance {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return sorted
}
