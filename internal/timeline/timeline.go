// Package timeline resolves when each element of a slide starts animating and
// how many frames every part of a slide occupies.
//
// All times are slide-local seconds where 0 is the instant the slide's entrance
// transition begins. A resolved Table is immutable; it replaces any per-render
// caching of start times.
package timeline

import (
	"math"
	"sort"

	"github.com/ivlev/slides2video/internal/deck"
)

// frameEpsilon absorbs float noise such as 0.3*30 = 9.000000000000002.
const frameEpsilon = 1e-6

// Entry is the resolved timing of one element.
type Entry struct {
	Start    float64
	Duration float64
	Animated bool
}

// End is the end of the first iteration of the animation.
func (e Entry) End() float64 { return e.Start + e.Duration }

// Table holds one Entry per element, indexed like the slide's element list.
type Table struct {
	TransitionDuration float64
	Entries            []Entry
}

// Resolve computes start times for every element of a slide.
//
// Animated elements are walked in ascending order (stable on element order):
//   - onClick starts at transitionDuration+delay and leaves the chain alone;
//   - afterPrevious starts at the chain end plus delay and extends the chain;
//   - withPrevious starts with the most recently resolved animated element plus delay.
//
// Non-animated elements start at 0.
func Resolve(elements []deck.Element, transitionDuration float64) Table {
	t := Table{
		TransitionDuration: transitionDuration,
		Entries:            make([]Entry, len(elements)),
	}

	var order []int
	for i, el := range elements {
		if el.Animated() {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return elements[order[a]].Animation.Order < elements[order[b]].Animation.Order
	})

	lastEnd := transitionDuration
	lastStart := transitionDuration
	for _, i := range order {
		a := elements[i].Animation
		var start float64
		switch a.StartTrigger {
		case deck.TriggerAfterPrevious:
			start = lastEnd + a.Delay
			lastEnd = math.Max(lastEnd, start+a.Duration)
		case deck.TriggerWithPrevious:
			start = lastStart + a.Delay
		default:
			start = transitionDuration + a.Delay
		}
		lastStart = start
		t.Entries[i] = Entry{Start: start, Duration: a.Duration, Animated: true}
	}
	return t
}

// Start returns the resolved start of element i.
func (t Table) Start(i int) float64 { return t.Entries[i].Start }

// MaxAnimationEnd is the latest end of any animated element, or the transition
// duration when nothing animates.
func (t Table) MaxAnimationEnd() float64 {
	end := t.TransitionDuration
	for _, e := range t.Entries {
		if e.Animated && e.End() > end {
			end = e.End()
		}
	}
	return end
}

// ContentDuration is the on-screen time after the entrance transition:
// max(slideDuration - transitionDuration, maxAnimationEnd - transitionDuration).
// An animation chain longer than the slide extends it.
func ContentDuration(slideDuration float64, t Table) float64 {
	nominal := slideDuration - t.TransitionDuration
	chain := t.MaxAnimationEnd() - t.TransitionDuration
	d := math.Max(nominal, chain)
	if d < 0 {
		return 0
	}
	return d
}

// FrameCount is ceil(d*fps) for a segment of d seconds.
func FrameCount(d float64, fps int) int {
	if d <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Ceil(d*float64(fps) - frameEpsilon))
}
