package raster

import (
	"image"
	"image/color"
	"math"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	defaultFontSize = 32.0 // pixels at 1080 high
	lineSpacing     = 1.2
)

// loadFont parses the TTF/OTF at path, or Go Regular when path is empty.
func loadFont(path string) (*opentype.Font, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = b
	}
	return opentype.Parse(data)
}

// newFace builds a fresh face; a font.Face must not be shared between goroutines.
func newFace(f *opentype.Font, px float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// wrapText breaks text into lines no wider than maxWidth. Explicit newlines
// are kept; a single word wider than maxWidth gets a line of its own.
func wrapText(face font.Face, text string, maxWidth int) []string {
	limit := fixed.I(maxWidth)
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if font.MeasureString(face, candidate) <= limit {
				line = candidate
				continue
			}
			lines = append(lines, line)
			line = w
		}
		lines = append(lines, line)
	}
	return lines
}

// drawText lays out lines top-down inside dst with the given alignment.
func drawText(dst *image.RGBA, face font.Face, lines []string, c color.Color, align string, px float64) {
	b := dst.Bounds()
	ascent := face.Metrics().Ascent.Ceil()
	lineH := int(math.Ceil(px * lineSpacing))
	y := b.Min.Y + ascent

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	for _, line := range lines {
		if y-ascent >= b.Max.Y {
			break
		}
		x := b.Min.X
		lw := font.MeasureString(face, line).Ceil()
		switch align {
		case "center":
			x += (b.Dx() - lw) / 2
		case "right":
			x += b.Dx() - lw
		}
		d.Dot = fixed.P(x, y)
		d.DrawString(line)
		y += lineH
	}
}
