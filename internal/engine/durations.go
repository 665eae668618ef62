package engine

import (
	"math"

	"github.com/ivlev/slides2video/internal/deck"
)

// Retime scales the nominal slide durations so they add up to total seconds,
// each aligned to a whole number of frames at fps. The rounding remainder goes
// to the last slide. Slides are copied; the input is left untouched.
//
// Content extension by long animation chains happens later, during planning,
// so the final video can still run longer than total.
func Retime(slides []deck.Slide, total float64, fps int) []deck.Slide {
	out := make([]deck.Slide, len(slides))
	copy(out, slides)
	if len(out) == 0 || total <= 0 || fps <= 0 {
		return out
	}

	sum := 0.0
	for _, s := range out {
		sum += s.Duration
	}
	if sum <= 0 {
		return out
	}

	f := float64(fps)
	totalFrames := int(math.Round(total * f))
	scale := total / sum
	used := 0
	for i := range out {
		// минимум один кадр на слайд
		frames := max(1, int(math.Round(out[i].Duration*scale*f)))
		if i == len(out)-1 {
			frames = max(1, totalFrames-used)
		}
		used += frames
		out[i].Duration = float64(frames) / f
	}
	return out
}
