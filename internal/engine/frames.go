package engine

import (
	"context"
	"image"
	"iter"

	"github.com/ivlev/slides2video/internal/deck"
	"github.com/ivlev/slides2video/internal/effects"
	"github.com/ivlev/slides2video/internal/renderer"
)

// startEpsilon lets an element whose start lands on a frame boundary appear on
// that frame despite float noise in td + k/fps.
const startEpsilon = 1e-9

// Frame is one output frame. Image is the shared surface and stays valid only
// until the sequence advances.
type Frame struct {
	Index int     // global frame number
	Slide int     // 0-based slide index
	Time  float64 // slide-local seconds
	Image *image.RGBA
}

// Frames returns the lazy frame sequence for prepared slides. Each range over
// it starts from the first frame with a fresh surface. Cancellation is checked
// before every frame and surfaces as ErrCanceled.
func (j *Job) Frames(ctx context.Context, slides []*RenderedSlide) iter.Seq2[Frame, error] {
	return func(yield func(Frame, error) bool) {
		cfg := j.Config
		surface := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
		fps := float64(cfg.FPS)
		n := 0

		emit := func(slide int, t float64) bool {
			if ctx.Err() != nil {
				yield(Frame{}, ErrCanceled)
				return false
			}
			ok := yield(Frame{Index: n, Slide: slide, Time: t, Image: surface}, nil)
			n++
			return ok
		}

		var prev *image.RGBA
		for i, rs := range slides {
			plan := rs.Plan
			for k := range plan.TransitionFrames {
				effects.Composite(surface, asImage(prev), asImage(rs.Base), plan.Transition, effects.Progress(k, plan.TransitionFrames))
				if !emit(i, float64(k)/fps) {
					return
				}
			}
			for k := range plan.ContentFrames {
				t := plan.TransitionDuration + float64(k)/fps
				j.drawContent(surface, rs, t)
				if !emit(i, t) {
					return
				}
			}
			prev = rs.Snapshot
		}
	}
}

// drawContent renders one content frame of rs at slide time t.
func (j *Job) drawContent(dst *image.RGBA, rs *RenderedSlide, t float64) {
	renderer.Fill(dst, rs.Background)

	for _, re := range rs.Elements {
		if re.Bitmap == nil {
			continue
		}
		st := renderer.Rest
		if re.Timing.Animated {
			if re.Timing.Start > t+startEpsilon {
				continue
			}
			a := re.Element.Animation
			p := renderer.Progress(t, re.Timing.Start, a.Duration, a.Repeat)
			// the slideIn family travels one element size
			w, h := float64(re.Rect.Dx()), float64(re.Rect.Dy())
			st = renderer.Evaluate(a.Type, j.ease(a)(p), w, h)
		}
		renderer.DrawElement(dst, re.Bitmap, re.Rect, st.With(re.Element))
	}
}

func (j *Job) ease(a *deck.Animation) renderer.EasingFunc {
	if j.Config.UseDeclaredEasing {
		return renderer.Ease(a.Easing)
	}
	return renderer.EaseOutCubic
}

// asImage keeps a nil bitmap a nil interface.
func asImage(m *image.RGBA) image.Image {
	if m == nil {
		return nil
	}
	return m
}
