package raster

import (
	"image"
	"image/color"
	"math"
)

// shapeMask is an anti-aliased alpha mask of a rectangle, rounded rectangle
// or ellipse filling bounds, shrunk by inset on every side.
type shapeMask struct {
	bounds  image.Rectangle
	ellipse bool
	radius  float64
	inset   float64
}

func (m shapeMask) ColorModel() color.Model { return color.AlphaModel }
func (m shapeMask) Bounds() image.Rectangle { return m.bounds }

func (m shapeMask) At(x, y int) color.Color {
	return color.Alpha{A: uint8(m.coverage(x, y)*255 + 0.5)}
}

// coverage samples the pixel on a 2×2 grid.
func (m shapeMask) coverage(x, y int) float64 {
	if !image.Pt(x, y).In(m.bounds) {
		return 0
	}
	n := 0
	for _, o := range [4][2]float64{{0.25, 0.25}, {0.75, 0.25}, {0.25, 0.75}, {0.75, 0.75}} {
		if m.contains(float64(x-m.bounds.Min.X)+o[0], float64(y-m.bounds.Min.Y)+o[1]) {
			n++
		}
	}
	return float64(n) / 4
}

func (m shapeMask) contains(px, py float64) bool {
	w := float64(m.bounds.Dx()) - 2*m.inset
	h := float64(m.bounds.Dy()) - 2*m.inset
	if w <= 0 || h <= 0 {
		return false
	}
	x, y := px-m.inset, py-m.inset
	if x < 0 || y < 0 || x > w || y > h {
		return false
	}
	if m.ellipse {
		dx := (x - w/2) / (w / 2)
		dy := (y - h/2) / (h / 2)
		return dx*dx+dy*dy <= 1
	}
	r := math.Min(math.Max(m.radius-m.inset, 0), math.Min(w, h)/2)
	if r == 0 {
		return true
	}
	cx := math.Min(math.Max(x, r), w-r)
	cy := math.Min(math.Max(y, r), h-r)
	return (x-cx)*(x-cx)+(y-cy)*(y-cy) <= r*r
}

// ringMask covers outer minus inner: the border stroke.
type ringMask struct {
	outer, inner shapeMask
}

func (m ringMask) ColorModel() color.Model { return color.AlphaModel }
func (m ringMask) Bounds() image.Rectangle { return m.outer.bounds }

func (m ringMask) At(x, y int) color.Color {
	c := m.outer.coverage(x, y) - m.inner.coverage(x, y)
	if c < 0 {
		c = 0
	}
	return color.Alpha{A: uint8(c*255 + 0.5)}
}
