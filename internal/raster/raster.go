// Package raster turns deck elements and whole slides into bitmaps.
package raster

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/ivlev/slides2video/internal/config"
	"github.com/ivlev/slides2video/internal/deck"
	"github.com/ivlev/slides2video/internal/renderer"
	"github.com/ivlev/slides2video/internal/source"
)

// ErrUnsupportedElement is returned for element kinds a rasterizer cannot draw.
var ErrUnsupportedElement = errors.New("unsupported element")

// Rasterizer produces fixed-size bitmaps. Implementations must be safe for
// concurrent use.
type Rasterizer interface {
	// RasterizeElement draws el at rest, sized to its pixel rectangle on a
	// surface of the given size. It returns nil for an empty rectangle.
	RasterizeElement(ctx context.Context, el deck.Element, surface image.Point) (*image.RGBA, error)
	// RasterizeSlide draws the whole slide with every element at rest.
	RasterizeSlide(ctx context.Context, s deck.Slide, surface image.Point) (*image.RGBA, error)
	Close() error
}

// New builds the rasterizer named in cfg.
func New(cfg *config.Config) (Rasterizer, error) {
	canvas, err := NewCanvas(source.NewLoader(cfg.AssetDir), cfg.FontPath)
	if err != nil {
		return nil, err
	}
	switch cfg.Rasterizer {
	case "", "canvas":
		return canvas, nil
	case "browser":
		return NewBrowser(canvas)
	default:
		return nil, fmt.Errorf("unknown rasterizer %q", cfg.Rasterizer)
	}
}

// ComposeSlide fills the background and draws every element of s at rest in
// z-order, using r for the element bitmaps.
func ComposeSlide(ctx context.Context, r Rasterizer, s deck.Slide, surface image.Point) (*image.RGBA, error) {
	dst := image.NewRGBA(image.Rectangle{Max: surface})
	renderer.Fill(dst, deck.MustColor(s.BackgroundColor, deck.White))

	for _, i := range s.ZOrder() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		el := s.Elements[i]
		bmp, err := r.RasterizeElement(ctx, el, surface)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i+1, err)
		}
		if bmp == nil {
			continue
		}
		rect := el.Position.Pixels(surface.X, surface.Y)
		renderer.DrawElement(dst, bmp, rect, renderer.Rest.With(el))
	}
	return dst, nil
}
