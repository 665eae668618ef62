package timeline

import "github.com/ivlev/slides2video/internal/deck"

// SlidePlan is the frame layout of one slide.
type SlidePlan struct {
	Index              int
	Transition         deck.TransitionType
	TransitionDuration float64 // effective, 0 when no transition is shown
	TransitionFrames   int
	ContentDuration    float64
	ContentFrames      int
	Table              Table
}

// Frames is the total number of frames emitted for the slide.
func (p SlidePlan) Frames() int { return p.TransitionFrames + p.ContentFrames }

// EffectiveTransition returns the transition actually played when slide i enters.
// The first slide has nothing to transition from.
func EffectiveTransition(i int, s deck.Slide) (deck.TransitionType, float64) {
	kind := s.TransitionType()
	if i == 0 || kind == deck.TransitionNone {
		return deck.TransitionNone, 0
	}
	return kind, s.TransitionDuration()
}

// PlanSlide lays out slide i of a deck at fps.
func PlanSlide(i int, s deck.Slide, fps int) SlidePlan {
	kind, td := EffectiveTransition(i, s)
	table := Resolve(s.Elements, td)
	content := ContentDuration(s.Duration, table)
	return SlidePlan{
		Index:              i,
		Transition:         kind,
		TransitionDuration: td,
		TransitionFrames:   FrameCount(td, fps),
		ContentDuration:    content,
		ContentFrames:      FrameCount(content, fps),
		Table:              table,
	}
}

// PlanDeck lays out every slide.
func PlanDeck(slides []deck.Slide, fps int) []SlidePlan {
	plans := make([]SlidePlan, len(slides))
	for i, s := range slides {
		plans[i] = PlanSlide(i, s, fps)
	}
	return plans
}

// TotalFrames sums the frames of all plans.
func TotalFrames(plans []SlidePlan) int {
	n := 0
	for _, p := range plans {
		n += p.Frames()
	}
	return n
}
