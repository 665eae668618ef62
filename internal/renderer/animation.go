package renderer

import (
	"math"

	"github.com/ivlev/slides2video/internal/deck"
)

// State is the visual transform of an element at one instant.
// Translation is in pixels, rotation in degrees clockwise.
type State struct {
	Opacity    float64
	TranslateX float64
	TranslateY float64
	Scale      float64
	Rotation   float64
}

// Rest is the untransformed state.
var Rest = State{Opacity: 1, Scale: 1}

// fadeOffset is the travel distance of the fadeIn* family, in pixels.
const fadeOffset = 50.0

// Evaluate returns the transform of an entrance animation at eased progress p.
// w and h are the element's pixel size, used by the slideIn family.
func Evaluate(kind deck.AnimationType, p, w, h float64) State {
	p = Clamp01(p)
	s := Rest
	switch kind {
	case deck.AnimNone:
		return Rest
	case deck.AnimPulse, deck.AnimShake, deck.AnimSwing:
		// continuous effects are shown at rest
		return Rest
	case deck.AnimFadeIn:
		s.Opacity = p
	case deck.AnimFadeInUp:
		s.Opacity = p
		s.TranslateY = (1 - p) * fadeOffset
	case deck.AnimFadeInDown:
		s.Opacity = p
		s.TranslateY = -(1 - p) * fadeOffset
	case deck.AnimFadeInLeft:
		s.Opacity = p
		s.TranslateX = -(1 - p) * fadeOffset
	case deck.AnimFadeInRight:
		s.Opacity = p
		s.TranslateX = (1 - p) * fadeOffset
	case deck.AnimSlideInUp:
		s.Opacity = p
		s.TranslateY = (1 - p) * h
	case deck.AnimSlideInDown:
		s.Opacity = p
		s.TranslateY = -(1 - p) * h
	case deck.AnimSlideInLeft:
		s.Opacity = p
		s.TranslateX = -(1 - p) * w
	case deck.AnimSlideInRight:
		s.Opacity = p
		s.TranslateX = (1 - p) * w
	case deck.AnimZoomIn:
		s.Opacity = p
		s.Scale = 0.3 + 0.7*p
	case deck.AnimZoomOut:
		s.Opacity = p
		s.Scale = 1.5 - 0.5*p
	case deck.AnimBounceIn:
		s.Opacity = p
		s.Scale = bounceScale(p)
	case deck.AnimRotateIn:
		s.Opacity = p
		s.Scale = 0.3 + 0.7*p
		s.Rotation = -180 * (1 - p)
	case deck.AnimFlipInX, deck.AnimFlipInY:
		s.Opacity = p
		s.Scale = math.Min(1, 2*p)
	default:
		// text reveals and unknown kinds fade the whole block
		s.Opacity = p
	}
	return s
}

// bounceScale overshoots, undershoots, then settles at 1.
func bounceScale(p float64) float64 {
	switch {
	case p < 0.6:
		return 1.8 * p
	case p < 0.8:
		return lerp(1.08, 0.9, (p-0.6)/0.2)
	default:
		return lerp(0.9, 1, (p-0.8)/0.2)
	}
}

// Progress is the linear progress of an animation at slide time now.
// Repeating animations loop with period duration.
func Progress(now, start, duration float64, repeat bool) float64 {
	if duration <= 0 {
		return 1
	}
	raw := (now - start) / duration
	if raw < 0 {
		return 0
	}
	if repeat && raw >= 1 {
		return raw - math.Floor(raw)
	}
	return Clamp01(raw)
}

// IsContinuous reports animation kinds that are rendered at rest throughout.
func IsContinuous(kind deck.AnimationType) bool {
	switch kind {
	case deck.AnimPulse, deck.AnimShake, deck.AnimSwing:
		return true
	}
	return false
}

// With folds an element's static rotation and opacity into s.
func (s State) With(el deck.Element) State {
	s.Rotation += el.Rotation
	s.Opacity *= el.Alpha()
	return s
}
