package renderer

import "github.com/ivlev/slides2video/internal/deck"

// EasingFunc maps linear progress in [0,1] to eased progress.
type EasingFunc func(t float64) float64

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 limits t to [0,1].
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func Linear(t float64) float64 { return t }

// EaseOutCubic paces element entrances: 1-(1-t)^3.
func EaseOutCubic(t float64) float64 {
	return 1 - pow(1-t, 3)
}

// EaseInOutCubic paces slide transitions.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

// pow calculates x^n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}

// CSS timing functions.
var (
	cssEase      = CubicBezier(0.25, 0.1, 0.25, 1)
	cssEaseIn    = CubicBezier(0.42, 0, 1, 1)
	cssEaseOut   = CubicBezier(0, 0, 0.58, 1)
	cssEaseInOut = CubicBezier(0.42, 0, 0.58, 1)
)

// Ease returns the curve for a declared easing.
func Ease(e deck.Easing) EasingFunc {
	switch e {
	case deck.EasingLinear:
		return Linear
	case deck.EasingEaseIn:
		return cssEaseIn
	case deck.EasingEaseOut:
		return cssEaseOut
	case deck.EasingEaseInOut:
		return cssEaseInOut
	default:
		return cssEase
	}
}

// CubicBezier builds a CSS-style timing function through (0,0), (x1,y1), (x2,y2), (1,1).
func CubicBezier(x1, y1, x2, y2 float64) EasingFunc {
	// polynomial coefficients of CSS cubic-bezier()
	cx := 3 * x1
	bx := 3*(x2-x1) - cx
	ax := 1 - cx - bx
	cy := 3 * y1
	by := 3*(y2-y1) - cy
	ay := 1 - cy - by

	sampleX := func(s float64) float64 { return ((ax*s+bx)*s + cx) * s }
	sampleY := func(s float64) float64 { return ((ay*s+by)*s + cy) * s }
	slopeX := func(s float64) float64 { return (3*ax*s+2*bx)*s + cx }

	return func(t float64) float64 {
		t = Clamp01(t)
		if t == 0 || t == 1 {
			return t
		}

		// Newton first, bisection if the slope is too flat
		s := t
		for i := 0; i < 8; i++ {
			dx := sampleX(s) - t
			if dx > -1e-7 && dx < 1e-7 {
				return sampleY(s)
			}
			d := slopeX(s)
			if d > -1e-6 && d < 1e-6 {
				break
			}
			s -= dx / d
		}

		lo, hi := 0.0, 1.0
		s = t
		for i := 0; i < 50; i++ {
			x := sampleX(s)
			if x-t > -1e-7 && x-t < 1e-7 {
				break
			}
			if x < t {
				lo = s
			} else {
				hi = s
			}
			s = (lo + hi) / 2
		}
		return sampleY(s)
	}
}
