package renderer

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/ivlev/slides2video/internal/system"
)

// Fill paints the whole surface with c.
func Fill(dst *image.RGBA, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// DrawElement draws an element bitmap whose rest position is rect, applying st
// about the centre of rect.
func DrawElement(dst *image.RGBA, src image.Image, rect image.Rectangle, st State) {
	sb := src.Bounds()
	if sb.Empty() || rect.Empty() {
		return
	}
	sx := st.Scale * float64(rect.Dx()) / float64(sb.Dx())
	sy := st.Scale * float64(rect.Dy()) / float64(sb.Dy())
	cx := float64(rect.Min.X) + float64(rect.Dx())/2 + st.TranslateX
	cy := float64(rect.Min.Y) + float64(rect.Dy())/2 + st.TranslateY
	DrawTransformed(dst, src, cx, cy, sx, sy, st.Rotation, st.Opacity)
}

// DrawTransformed draws src scaled by (sx, sy) and rotated by deg degrees
// clockwise, with its centre placed at (cx, cy), at the given opacity.
func DrawTransformed(dst *image.RGBA, src image.Image, cx, cy, sx, sy, deg, alpha float64) {
	alpha = Clamp01(alpha)
	if alpha == 0 || sx == 0 || sy == 0 {
		return
	}
	sb := src.Bounds()
	if sb.Empty() {
		return
	}
	w, h := float64(sb.Dx()), float64(sb.Dy())

	if deg == 0 && sx == 1 && sy == 1 {
		x0, y0 := cx-w/2, cy-h/2
		rx, ry := math.Round(x0), math.Round(y0)
		if math.Abs(x0-rx) < 1e-9 && math.Abs(y0-ry) < 1e-9 {
			r := image.Rect(int(rx), int(ry), int(rx)+sb.Dx(), int(ry)+sb.Dy())
			blit(dst, r, src, sb.Min, alpha)
			return
		}
	}

	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	a, b := sx*cos, -sy*sin
	d, e := sx*sin, sy*cos
	ox, oy := float64(sb.Min.X)+w/2, float64(sb.Min.Y)+h/2
	s2d := f64.Aff3{
		a, b, cx - (a*ox + b*oy),
		d, e, cy - (d*ox + e*oy),
	}

	bounds := transformedBounds(s2d, sb).Intersect(dst.Bounds())
	if bounds.Empty() {
		return
	}
	if alpha >= 1 {
		draw.BiLinear.Transform(dst, s2d, src, sb, draw.Over, nil)
		return
	}

	// render opaque into a scratch tile, then blend it with a uniform mask
	scratch := system.GetClearImage(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	defer system.PutImage(scratch)
	shifted := s2d
	shifted[2] -= float64(bounds.Min.X)
	shifted[5] -= float64(bounds.Min.Y)
	draw.BiLinear.Transform(scratch, shifted, src, sb, draw.Over, nil)
	draw.DrawMask(dst, bounds, scratch, image.Point{}, opacityMask(alpha), image.Point{}, draw.Over)
}

func blit(dst *image.RGBA, r image.Rectangle, src image.Image, sp image.Point, alpha float64) {
	if alpha >= 1 {
		draw.Draw(dst, r, src, sp, draw.Over)
		return
	}
	draw.DrawMask(dst, r, src, sp, opacityMask(alpha), image.Point{}, draw.Over)
}

func opacityMask(alpha float64) *image.Uniform {
	return image.NewUniform(color.Alpha16{A: uint16(Clamp01(alpha)*0xffff + 0.5)})
}

// transformedBounds is the integer bounding box of sr mapped through m.
func transformedBounds(m f64.Aff3, sr image.Rectangle) image.Rectangle {
	corners := [4][2]float64{
		{float64(sr.Min.X), float64(sr.Min.Y)},
		{float64(sr.Max.X), float64(sr.Min.Y)},
		{float64(sr.Min.X), float64(sr.Max.Y)},
		{float64(sr.Max.X), float64(sr.Max.Y)},
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		x := m[0]*c[0] + m[1]*c[1] + m[2]
		y := m[3]*c[0] + m[4]*c[1] + m[5]
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}
