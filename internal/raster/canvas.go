package raster

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/opentype"

	"github.com/ivlev/slides2video/internal/deck"
	"github.com/ivlev/slides2video/internal/source"
)

// Reference surface sizes that style values are expressed against.
const (
	refWidth  = 1920.0
	refHeight = 1080.0
)

var defaultShapeFill = color.RGBA{204, 204, 204, 255}

// Canvas rasterizes elements in pure Go. Shadows are parsed but not drawn.
type Canvas struct {
	loader *source.Loader
	font   *opentype.Font
}

func NewCanvas(loader *source.Loader, fontPath string) (*Canvas, error) {
	f, err := loadFont(fontPath)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return &Canvas{loader: loader, font: f}, nil
}

func (c *Canvas) RasterizeElement(ctx context.Context, el deck.Element, surface image.Point) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rect := el.Position.Pixels(surface.X, surface.Y)
	if rect.Empty() {
		return nil, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	outline := outlineOf(el, dst.Bounds())

	var err error
	switch el.Type {
	case deck.KindImage:
		err = c.drawImage(dst, el, outline)
	case deck.KindText:
		err = c.drawText(dst, el, surface)
	case deck.KindShape:
		fill := deck.MustColor(el.Fill, defaultShapeFill)
		draw.DrawMask(dst, dst.Bounds(), image.NewUniform(fill), image.Point{}, outline, image.Point{}, draw.Over)
	case deck.KindQRCode:
		err = c.drawQRCode(dst, el)
	case deck.KindHTML:
		err = fmt.Errorf("%w: html needs the browser rasterizer", ErrUnsupportedElement)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedElement, el.Type)
	}
	if err != nil {
		return nil, err
	}

	drawBorder(dst, el, surface)
	return dst, nil
}

func (c *Canvas) RasterizeSlide(ctx context.Context, s deck.Slide, surface image.Point) (*image.RGBA, error) {
	return ComposeSlide(ctx, c, s, surface)
}

func (c *Canvas) Close() error { return nil }

// outlineOf returns the element's clip shape: an ellipse, or a rectangle rounded by
// the border radius.
func outlineOf(el deck.Element, b image.Rectangle) shapeMask {
	m := shapeMask{bounds: b, ellipse: el.Shape == "ellipse"}
	if el.Border != nil {
		m.radius = el.Border.Radius
	}
	return m
}

func (c *Canvas) drawImage(dst *image.RGBA, el deck.Element, clip shapeMask) error {
	img, err := c.loader.Load(el.Src, el.Page)
	if err != nil {
		return err
	}
	var opts *draw.Options
	if clip.ellipse || clip.radius > 0 {
		opts = &draw.Options{DstMask: clip}
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, opts)
	return nil
}

func (c *Canvas) drawText(dst *image.RGBA, el deck.Element, surface image.Point) error {
	if el.Fill != "" {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(deck.MustColor(el.Fill, color.RGBA{})), image.Point{}, draw.Src)
	}
	size := el.Style.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	px := size * float64(surface.Y) / refHeight
	if px < 1 {
		px = 1
	}
	face, err := newFace(c.font, px)
	if err != nil {
		return err
	}
	defer face.Close()

	lines := wrapText(face, el.Content, dst.Bounds().Dx())
	drawText(dst, face, lines, deck.MustColor(el.Style.Color, deck.Black), el.Style.Align, px)
	return nil
}

func (c *Canvas) drawQRCode(dst *image.RGBA, el deck.Element) error {
	q, err := qrcode.New(el.Content, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("qrcode: %w", err)
	}
	q.ForegroundColor = deck.MustColor(el.Style.Color, deck.Black)
	q.BackgroundColor = deck.MustColor(el.Fill, deck.White)

	b := dst.Bounds()
	side := min(b.Dx(), b.Dy())
	code := q.Image(side)
	x := (b.Dx() - side) / 2
	y := (b.Dy() - side) / 2
	// nearest neighbour keeps the modules crisp
	draw.NearestNeighbor.Scale(dst, image.Rect(x, y, x+side, y+side), code, code.Bounds(), draw.Over, nil)
	return nil
}

func drawBorder(dst *image.RGBA, el deck.Element, surface image.Point) {
	if el.Border == nil || el.Border.Width <= 0 {
		return
	}
	width := math.Max(1, el.Border.Width*float64(surface.X)/refWidth)
	b := dst.Bounds()
	outer := outlineOf(el, b)
	inner := outer
	inner.inset = width
	col := deck.MustColor(el.Border.Color, deck.Black)
	draw.DrawMask(dst, b, image.NewUniform(col), image.Point{}, ringMask{outer, inner}, image.Point{}, draw.Over)
}
