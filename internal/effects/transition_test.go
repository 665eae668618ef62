package effects

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/ivlev/slides2video/internal/deck"
	"github.com/ivlev/slides2video/internal/renderer"
)

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	renderer.Fill(img, c)
	return img
}

func TestCompositeNoneDrawsNextOnly(t *testing.T) {
	prev, next := solid(8, 4, red), solid(8, 4, blue)
	dst := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for _, e := range []float64{0, 0.25, 0.5, 0.75, 1} {
		Composite(dst, prev, next, deck.TransitionNone, e)
		if !bytes.Equal(dst.Pix, next.Pix) {
			t.Errorf("none at e=%v: frame differs from next", e)
		}
	}
}

func TestCompositeEndpoints(t *testing.T) {
	prev, next := solid(8, 4, red), solid(8, 4, blue)
	dst := image.NewRGBA(image.Rect(0, 0, 8, 4))

	for _, kind := range deck.TransitionTypes() {
		t.Run(kind.String(), func(t *testing.T) {
			Composite(dst, prev, next, kind, 1)
			if !bytes.Equal(dst.Pix, next.Pix) {
				t.Errorf("At e=1 the frame should equal next, centre pixel %v", dst.RGBAAt(4, 2))
			}
			if kind == deck.TransitionNone {
				return
			}
			Composite(dst, prev, next, kind, 0)
			if kind == deck.TransitionDissolve {
				// the outgoing side is not brightened at e=0
				if got := dst.RGBAAt(4, 2); got != red {
					t.Errorf("At e=0 expected prev, got %v", got)
				}
				return
			}
			if !bytes.Equal(dst.Pix, prev.Pix) {
				t.Errorf("At e=0 the frame should equal prev, centre pixel %v", dst.RGBAAt(4, 2))
			}
		})
	}
}

func TestCompositeSlideLeftHalfway(t *testing.T) {
	prev, next := solid(8, 4, red), solid(8, 4, blue)
	dst := image.NewRGBA(image.Rect(0, 0, 8, 4))
	Composite(dst, prev, next, deck.TransitionSlideLeft, 0.5)

	if got := dst.RGBAAt(1, 1); got != red {
		t.Errorf("Left half should still show prev, got %v", got)
	}
	if got := dst.RGBAAt(6, 1); got != blue {
		t.Errorf("Right half should show next, got %v", got)
	}
}

func TestCompositeFadeMidpoint(t *testing.T) {
	prev, next := solid(8, 4, red), solid(8, 4, blue)
	dst := image.NewRGBA(image.Rect(0, 0, 8, 4))
	Composite(dst, prev, next, deck.TransitionFade, 0.5)

	got := dst.RGBAAt(4, 2)
	if got.B < 120 || got.B > 135 {
		t.Errorf("Expected next at half strength, got %v", got)
	}
	if got.A != 255 {
		t.Errorf("Frame must stay opaque, got alpha %d", got.A)
	}
}

func TestCompositeFlipCompressesPrev(t *testing.T) {
	prev, next := solid(16, 4, red), solid(16, 4, blue)
	dst := image.NewRGBA(image.Rect(0, 0, 16, 4))
	Composite(dst, prev, next, deck.TransitionFlip, 0.25)

	if got := dst.RGBAAt(0, 2); got != Backdrop {
		t.Errorf("Edges should show the backdrop, got %v", got)
	}
	if got := dst.RGBAAt(8, 2); got.R < 250 || got.B != 0 {
		t.Errorf("Centre should show prev, got %v", got)
	}
}

func TestCompositeWithoutPrev(t *testing.T) {
	next := solid(8, 4, blue)
	dst := image.NewRGBA(image.Rect(0, 0, 8, 4))
	Composite(dst, nil, next, deck.TransitionSlideUp, 1)
	if !bytes.Equal(dst.Pix, next.Pix) {
		t.Error("Expected next without a previous snapshot")
	}
}

func TestCompositeDeterministic(t *testing.T) {
	prev, next := solid(8, 4, red), solid(8, 4, blue)
	a := image.NewRGBA(image.Rect(0, 0, 8, 4))
	b := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for _, kind := range deck.TransitionTypes() {
		Composite(a, prev, next, kind, 0.37)
		Composite(b, prev, next, kind, 0.37)
		if !bytes.Equal(a.Pix, b.Pix) {
			t.Errorf("%s: two runs differ", kind)
		}
	}
}

func TestProgress(t *testing.T) {
	if got := Progress(0, 10); got != 0 {
		t.Errorf("Expected 0 for the first frame, got %f", got)
	}
	if got := Progress(5, 10); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Expected 0.5 halfway, got %f", got)
	}
	if got := Progress(3, 0); got != 1 {
		t.Errorf("Expected 1 for an empty transition, got %f", got)
	}
}
