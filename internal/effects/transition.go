// Package effects composites slide transitions.
package effects

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/ivlev/slides2video/internal/deck"
	"github.com/ivlev/slides2video/internal/renderer"
	"github.com/ivlev/slides2video/internal/system"
)

// Backdrop is what shows through wherever neither side covers the frame.
var Backdrop = color.RGBA{0, 0, 0, 255}

// Progress returns the eased progress of transition frame k out of n.
func Progress(k, n int) float64 {
	if n <= 0 {
		return 1
	}
	return renderer.EaseInOutCubic(float64(k) / float64(n))
}

// Composite draws one transition frame into dst. prev is the full snapshot of
// the outgoing slide and may be nil; next is the incoming slide's base layer.
// Both are expected to have the size of dst. e is the eased progress.
func Composite(dst *image.RGBA, prev, next image.Image, kind deck.TransitionType, e float64) {
	e = renderer.Clamp01(e)
	renderer.Fill(dst, Backdrop)

	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	switch kind {
	case deck.TransitionNone:
		layer(dst, next, 0, 0, 1, 1, 0, 1)

	case deck.TransitionFade, deck.TransitionBlur:
		layer(dst, prev, 0, 0, 1, 1, 0, 1-e)
		layer(dst, next, 0, 0, 1, 1, 0, e)

	case deck.TransitionDissolve:
		dissolve(dst, prev, next, e)

	case deck.TransitionSlideLeft:
		layer(dst, prev, -w*e, 0, 1, 1, 0, 1)
		layer(dst, next, w*(1-e), 0, 1, 1, 0, 1)
	case deck.TransitionSlideRight:
		layer(dst, prev, w*e, 0, 1, 1, 0, 1)
		layer(dst, next, -w*(1-e), 0, 1, 1, 0, 1)
	case deck.TransitionSlideUp:
		layer(dst, prev, 0, -h*e, 1, 1, 0, 1)
		layer(dst, next, 0, h*(1-e), 1, 1, 0, 1)
	case deck.TransitionSlideDown:
		layer(dst, prev, 0, h*e, 1, 1, 0, 1)
		layer(dst, next, 0, -h*(1-e), 1, 1, 0, 1)

	case deck.TransitionZoomIn:
		s := 0.5 + 0.5*e
		layer(dst, prev, 0, 0, 1, 1, 0, 1-e)
		layer(dst, next, 0, 0, s, s, 0, e)
	case deck.TransitionZoomOut:
		s := 1 + 0.5*e
		layer(dst, next, 0, 0, 1, 1, 0, e)
		layer(dst, prev, 0, 0, s, s, 0, 1-e)

	case deck.TransitionFlip:
		if e < 0.5 {
			layer(dst, prev, 0, 0, 1-2*e, 1, 0, 1)
		} else {
			layer(dst, next, 0, 0, 2*e-1, 1, 0, 1)
		}

	case deck.TransitionRotate:
		layer(dst, prev, 0, 0, 1-0.5*e, 1-0.5*e, 90*e, 1-e)
		layer(dst, next, 0, 0, 0.5+0.5*e, 0.5+0.5*e, -90*(1-e), e)

	default:
		// unknown kinds cross-fade
		layer(dst, prev, 0, 0, 1, 1, 0, 1-e)
		layer(dst, next, 0, 0, 1, 1, 0, e)
	}
}

// layer draws a full-frame bitmap offset by (dx, dy), scaled and rotated
// about the frame centre.
func layer(dst *image.RGBA, src image.Image, dx, dy, sx, sy, deg, alpha float64) {
	if src == nil {
		return
	}
	b := dst.Bounds()
	cx := float64(b.Min.X) + float64(b.Dx())/2 + dx
	cy := float64(b.Min.Y) + float64(b.Dy())/2 + dy
	renderer.DrawTransformed(dst, src, cx, cy, sx, sy, deg, alpha)
}

// dissolve is a cross-fade with a brightness flash: the outgoing side
// brightens as it leaves and the incoming side settles from bright to normal.
func dissolve(dst *image.RGBA, prev, next image.Image, e float64) {
	if prev != nil && e < 1 {
		bp := brightened(prev, 1+0.5*e)
		layer(dst, bp, 0, 0, 1, 1, 0, 1-e)
		system.PutImage(bp)
	}
	if next != nil && e > 0 {
		bn := brightened(next, 1+0.5*(1-e))
		layer(dst, bn, 0, 0, 1, 1, 0, e)
		system.PutImage(bn)
	}
}

// brightened returns a pooled copy of src with colour channels multiplied by
// factor. Pixels are premultiplied, so channels saturate at alpha.
func brightened(src image.Image, factor float64) *image.RGBA {
	b := src.Bounds()
	out := system.GetImage(b)
	draw.Draw(out, b, src, b.Min, draw.Src)
	if factor == 1 {
		return out
	}
	pix := out.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		a := float64(pix[i+3])
		for c := 0; c < 3; c++ {
			v := float64(pix[i+c]) * factor
			if v > a {
				v = a
			}
			pix[i+c] = uint8(v + 0.5)
		}
	}
	return out
}
