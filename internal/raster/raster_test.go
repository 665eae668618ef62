package raster

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/slides2video/internal/deck"
	"github.com/ivlev/slides2video/internal/source"
)

var surface = image.Pt(200, 100)

func newCanvas(t *testing.T, dir string) *Canvas {
	t.Helper()
	c, err := NewCanvas(source.NewLoader(dir), "")
	if err != nil {
		t.Fatalf("NewCanvas: %v", err)
	}
	return c
}

func full(x, y, w, h float64) deck.Rect { return deck.Rect{X: x, Y: y, Width: w, Height: h} }

func TestCanvasShape(t *testing.T) {
	c := newCanvas(t, "")
	ctx := context.Background()

	rect, err := c.RasterizeElement(ctx, deck.Element{Type: deck.KindShape, Fill: "#ff0000", Position: full(0, 0, 10, 20)}, surface)
	if err != nil {
		t.Fatal(err)
	}
	if rect.Bounds().Dx() != 20 || rect.Bounds().Dy() != 20 {
		t.Fatalf("Expected a 20x20 bitmap, got %v", rect.Bounds())
	}
	if got := rect.RGBAAt(0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("Rectangle corner should be filled, got %v", got)
	}

	ellipse, err := c.RasterizeElement(ctx, deck.Element{Type: deck.KindShape, Shape: "ellipse", Fill: "#ff0000", Position: full(0, 0, 10, 20)}, surface)
	if err != nil {
		t.Fatal(err)
	}
	if got := ellipse.RGBAAt(0, 0); got.A != 0 {
		t.Errorf("Ellipse corner should be transparent, got %v", got)
	}
	if got := ellipse.RGBAAt(10, 10); got.A != 255 {
		t.Errorf("Ellipse centre should be filled, got %v", got)
	}
}

func TestCanvasEmptyRect(t *testing.T) {
	c := newCanvas(t, "")
	bmp, err := c.RasterizeElement(context.Background(), deck.Element{Type: deck.KindShape}, surface)
	if err != nil || bmp != nil {
		t.Errorf("Expected nil bitmap for an empty rect, got %v, %v", bmp, err)
	}
}

func TestCanvasBorder(t *testing.T) {
	c := newCanvas(t, "")
	el := deck.Element{
		Type:     deck.KindShape,
		Fill:     "#ffffff",
		Position: full(0, 0, 20, 40),
		Border:   &deck.Border{Width: 40, Color: "#0000ff"}, // 40 at 1920 = ~4px at 200
	}
	bmp, err := c.RasterizeElement(context.Background(), el, surface)
	if err != nil {
		t.Fatal(err)
	}
	if got := bmp.RGBAAt(1, 20); got.B != 255 || got.R != 0 {
		t.Errorf("Expected border colour at the edge, got %v", got)
	}
	if got := bmp.RGBAAt(20, 20); got != deck.White {
		t.Errorf("Expected fill inside the border, got %v", got)
	}
}

func TestCanvasText(t *testing.T) {
	c := newCanvas(t, "")
	el := deck.Element{
		Type:     deck.KindText,
		Content:  "Hello world",
		Style:    deck.TextStyle{FontSize: 60, Color: "#000000"},
		Position: full(0, 0, 100, 50),
	}
	bmp, err := c.RasterizeElement(context.Background(), el, surface)
	if err != nil {
		t.Fatal(err)
	}
	inked := 0
	for i := 3; i < len(bmp.Pix); i += 4 {
		if bmp.Pix[i] > 0 {
			inked++
		}
	}
	if inked == 0 {
		t.Error("Expected glyph pixels")
	}
}

func TestWrapText(t *testing.T) {
	f, err := loadFont("")
	if err != nil {
		t.Fatal(err)
	}
	face, err := newFace(f, 20)
	if err != nil {
		t.Fatal(err)
	}
	defer face.Close()

	lines := wrapText(face, "one two three four\nfive", 60)
	if len(lines) < 3 {
		t.Fatalf("Expected wrapping into several lines, got %q", lines)
	}
	if lines[len(lines)-1] != "five" {
		t.Errorf("Explicit newline not kept: %q", lines)
	}
}

func TestCanvasQRCode(t *testing.T) {
	c := newCanvas(t, "")
	el := deck.Element{Type: deck.KindQRCode, Content: "https://example.com", Position: full(0, 0, 50, 100)}
	bmp, err := c.RasterizeElement(context.Background(), el, surface)
	if err != nil {
		t.Fatal(err)
	}
	var dark, light int
	for y := 0; y < bmp.Bounds().Dy(); y++ {
		for x := 0; x < bmp.Bounds().Dx(); x++ {
			p := bmp.RGBAAt(x, y)
			if p.A == 0 {
				continue
			}
			if p.R < 64 {
				dark++
			} else {
				light++
			}
		}
	}
	if dark == 0 || light == 0 {
		t.Errorf("Expected both dark and light modules, got %d/%d", dark, light)
	}
}

func TestCanvasImage(t *testing.T) {
	dir := t.TempDir()
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	f, err := os.Create(filepath.Join(dir, "white.png"))
	if err != nil {
		t.Fatal(err)
	}
	png.Encode(f, src)
	f.Close()

	c := newCanvas(t, dir)
	bmp, err := c.RasterizeElement(context.Background(), deck.Element{Type: deck.KindImage, Src: "white.png", Position: full(0, 0, 10, 10)}, surface)
	if err != nil {
		t.Fatal(err)
	}
	if got := bmp.RGBAAt(10, 5); got.R < 250 || got.A < 250 {
		t.Errorf("Expected scaled white image, got %v", got)
	}

	_, err = c.RasterizeElement(context.Background(), deck.Element{Type: deck.KindImage, Src: "nope.png", Position: full(0, 0, 10, 10)}, surface)
	if err == nil {
		t.Error("Expected error for a missing image")
	}
}

func TestCanvasHTMLUnsupported(t *testing.T) {
	c := newCanvas(t, "")
	_, err := c.RasterizeElement(context.Background(), deck.Element{Type: deck.KindHTML, Content: "<b>x</b>", Position: full(0, 0, 10, 10)}, surface)
	if !errors.Is(err, ErrUnsupportedElement) {
		t.Errorf("Expected ErrUnsupportedElement, got %v", err)
	}
}

func TestComposeSlide(t *testing.T) {
	c := newCanvas(t, "")
	s := deck.Slide{
		BackgroundColor: "#00ff00",
		Elements: []deck.Element{
			{Type: deck.KindShape, Fill: "#0000ff", ZIndex: 2, Position: full(0, 0, 50, 100)},
			{Type: deck.KindShape, Fill: "#ff0000", ZIndex: 1, Position: full(0, 0, 100, 100)},
		},
	}
	snap, err := c.RasterizeSlide(context.Background(), s, surface)
	if err != nil {
		t.Fatal(err)
	}
	if got := snap.RGBAAt(10, 50); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("Higher zIndex should be on top, got %v", got)
	}
	if got := snap.RGBAAt(150, 50); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("Expected lower element on the right half, got %v", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.RasterizeSlide(ctx, s, surface); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected cancellation, got %v", err)
	}
}
