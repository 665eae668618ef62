package director

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/slides2video/internal/analyzer"
	"github.com/ivlev/slides2video/internal/deck"
	"github.com/ivlev/slides2video/internal/timeline"
)

// memSource serves in-memory pages.
type memSource struct {
	pages []image.Image
}

func (s *memSource) PageCount() int { return len(s.pages) }

func (s *memSource) GetPageDimensions(i int) (float64, float64, error) {
	b := s.pages[i].Bounds()
	return float64(b.Dx()), float64(b.Dy()), nil
}

func (s *memSource) RenderPage(i int, dpi int) (image.Image, error) {
	if i < 0 || i >= len(s.pages) {
		return nil, fmt.Errorf("page %d out of range", i+1)
	}
	return s.pages[i], nil
}

func (s *memSource) Ref(i int) (string, int) { return "talk.pdf", i }
func (s *memSource) Close() error            { return nil }

func page(w, h int, blocks ...image.Rectangle) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for _, r := range blocks {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.SetGray(x, y, color.Gray{})
			}
		}
	}
	return img
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestBuildDeck(t *testing.T) {
	src := &memSource{pages: []image.Image{
		// lower block first in memory, upper block must still come first
		page(320, 180, image.Rect(40, 110, 280, 150), image.Rect(40, 30, 280, 70)),
		page(320, 180),
	}}
	d := NewDirector(1920, 1080)

	out, err := d.BuildDeck(context.Background(), src, "talk")
	if err != nil {
		t.Fatalf("BuildDeck failed: %v", err)
	}
	if len(out.Slides) != 2 {
		t.Fatalf("Expected 2 slides, got %d", len(out.Slides))
	}

	first := out.Slides[0]
	if first.Transition != nil {
		t.Error("First slide must not have a transition")
	}
	if out.Slides[1].TransitionType() != deck.TransitionFade {
		t.Errorf("Expected fade into slide 2, got %s", out.Slides[1].TransitionType())
	}

	bg := first.Elements[0]
	if bg.Type != deck.KindImage || bg.Src != "talk.pdf" || bg.Page != 0 || bg.Animated() {
		t.Errorf("Unexpected page element %+v", bg)
	}
	if bg.Position != (deck.Rect{Width: 100, Height: 100}) {
		t.Errorf("A 16:9 page should fill the frame, got %+v", bg.Position)
	}

	regions := first.Elements[1:]
	if len(regions) != 2 {
		t.Fatalf("Expected 2 highlighted regions, got %d", len(regions))
	}
	if regions[0].Position.Y >= regions[1].Position.Y {
		t.Errorf("Regions must be in reading order: %+v then %+v", regions[0].Position, regions[1].Position)
	}

	// highlights appear after the intro, one dwell apart
	dwell := (d.MinDwell + d.MaxDwell) / 2
	table := timeline.Resolve(first.Elements, 0)
	if s := table.Start(1); !near(s, d.Intro) {
		t.Errorf("First highlight should start at %.2f, got %.2f", d.Intro, s)
	}
	if s := table.Start(2); !near(s, d.Intro+dwell) {
		t.Errorf("Second highlight should start at %.2f, got %.2f", d.Intro+dwell, s)
	}
	if want := d.Intro + 2*dwell + d.Outro; !near(first.Duration, want) {
		t.Errorf("Expected duration %.2f, got %.2f", want, first.Duration)
	}

	empty := out.Slides[1]
	if len(empty.Elements) != 1 {
		t.Errorf("A blank page has no regions, got %d elements", len(empty.Elements))
	}
	if want := d.Intro + d.Outro + d.TransitionDuration; !near(empty.Duration, want) {
		t.Errorf("Expected duration %.2f, got %.2f", want, empty.Duration)
	}
}

func TestBuildDeckWithoutDetector(t *testing.T) {
	d := NewDirector(1920, 1080)
	d.Detector, _ = analyzer.NewDetector("none")
	out, err := d.BuildDeck(context.Background(), &memSource{pages: []image.Image{page(100, 100, image.Rect(10, 10, 60, 60))}}, "x")
	if err != nil {
		t.Fatal(err)
	}
	if n := len(out.Slides[0].Elements); n != 1 {
		t.Errorf("Expected only the page element, got %d", n)
	}

	if _, err := d.BuildDeck(context.Background(), &memSource{}, "x"); err == nil {
		t.Error("Expected error for a source without pages")
	}
}

func TestDwellTime(t *testing.T) {
	d := NewDirector(1920, 1080)
	tests := []struct {
		page   float64
		blocks int
		want   float64
	}{
		{0, 3, 2.0},  // no budget: midpoint
		{10, 4, 2.0}, // (10 - 2) / 4
		{30, 2, 3.0}, // clamped to MaxDwell
		{4, 10, 1.0}, // clamped to MinDwell
		{10, 0, 0},
	}
	for _, tt := range tests {
		d.PageDuration = tt.page
		if got := d.dwellTime(tt.blocks); !near(got, tt.want) {
			t.Errorf("dwellTime(page=%.0f, blocks=%d) = %.2f, want %.2f", tt.page, tt.blocks, got, tt.want)
		}
	}
}

func TestFitRect(t *testing.T) {
	tests := []struct {
		name   string
		pw, ph int
		want   deck.Rect
	}{
		{"same aspect", 1280, 720, deck.Rect{Width: 100, Height: 100}},
		{"portrait", 540, 1080, deck.Rect{X: 35.9375, Width: 28.125, Height: 100}},
		{"wide", 3840, 1080, deck.Rect{Y: 25, Width: 100, Height: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fitRect(tt.pw, tt.ph, 1920, 1080)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) || !near(got.Width, tt.want.Width) || !near(got.Height, tt.want.Height) {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestBlockRect(t *testing.T) {
	frame := deck.Rect{X: 25, Y: 0, Width: 50, Height: 100}
	got := blockRect(image.Rect(50, 25, 100, 75), image.Pt(100, 100), frame)
	want := deck.Rect{X: 50, Y: 25, Width: 25, Height: 50}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestDeckPath(t *testing.T) {
	path := DeckPath(filepath.Join("input", "decks"), "talk")
	if filepath.Dir(path) != filepath.Join("input", "decks") {
		t.Errorf("Unexpected directory in %s", path)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "talk_") || filepath.Ext(base) != ".yaml" {
		t.Errorf("Unexpected file name %s", base)
	}
}
