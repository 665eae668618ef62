package deck

import (
	"fmt"
	"image"
	"math"
	"slices"
	"sort"
)

const (
	DefaultSlideDuration      = 5.0
	DefaultTransitionDuration = 0.5
	DefaultAnimationDuration  = 1.0
)

// Deck is an ordered list of slides.
type Deck struct {
	Version string  `json:"version,omitempty" yaml:"version,omitempty"`
	Title   string  `json:"title,omitempty" yaml:"title,omitempty"`
	Slides  []Slide `json:"slides" yaml:"slides"`
}

type Slide struct {
	ID              string      `json:"id,omitempty" yaml:"id,omitempty"`
	Elements        []Element   `json:"elements" yaml:"elements"`
	BackgroundColor string      `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	Duration        float64     `json:"duration,omitempty" yaml:"duration,omitempty"` // seconds
	Transition      *Transition `json:"transition,omitempty" yaml:"transition,omitempty"`
}

type Transition struct {
	Type     TransitionType `json:"type" yaml:"type"`
	Duration float64        `json:"duration,omitempty" yaml:"duration,omitempty"`
}

type Animation struct {
	Type         AnimationType `json:"type" yaml:"type"`
	Duration     float64       `json:"duration,omitempty" yaml:"duration,omitempty"`
	Delay        float64       `json:"delay,omitempty" yaml:"delay,omitempty"`
	Easing       Easing        `json:"easing,omitempty" yaml:"easing,omitempty"`
	Repeat       bool          `json:"repeat,omitempty" yaml:"repeat,omitempty"`
	Order        int           `json:"order,omitempty" yaml:"order,omitempty"`
	StartTrigger Trigger       `json:"startTrigger,omitempty" yaml:"startTrigger,omitempty"`
}

// Rect is a normalized rectangle, every field in [0,100] percent of the slide.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Pixels converts the percent rectangle to pixels on a w×h surface.
func (r Rect) Pixels(w, h int) image.Rectangle {
	px := func(v float64, total int) int { return int(math.Round(v * float64(total) / 100)) }
	return image.Rect(px(r.X, w), px(r.Y, h), px(r.X+r.Width, w), px(r.Y+r.Height, h))
}

type Border struct {
	Width  float64 `json:"width" yaml:"width"` // pixels at 1920 wide
	Color  string  `json:"color" yaml:"color"`
	Radius float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
}

type Shadow struct {
	OffsetX float64 `json:"offsetX" yaml:"offsetX"`
	OffsetY float64 `json:"offsetY" yaml:"offsetY"`
	Blur    float64 `json:"blur,omitempty" yaml:"blur,omitempty"`
	Color   string  `json:"color" yaml:"color"`
}

type TextStyle struct {
	FontSize float64 `json:"fontSize,omitempty" yaml:"fontSize,omitempty"` // pixels at 1080 high
	Color    string  `json:"color,omitempty" yaml:"color,omitempty"`
	Align    string  `json:"align,omitempty" yaml:"align,omitempty"` // left, center, right
}

type Element struct {
	ID       string      `json:"id,omitempty" yaml:"id,omitempty"`
	Type     ElementKind `json:"type" yaml:"type"`
	Position Rect        `json:"position" yaml:"position"`
	ZIndex   int         `json:"zIndex,omitempty" yaml:"zIndex,omitempty"`

	Src     string    `json:"src,omitempty" yaml:"src,omitempty"`
	Page    int       `json:"page,omitempty" yaml:"page,omitempty"`
	Content string    `json:"content,omitempty" yaml:"content,omitempty"`
	Style   TextStyle `json:"style,omitempty" yaml:"style,omitempty"`
	Fill    string    `json:"fill,omitempty" yaml:"fill,omitempty"`
	Shape   string    `json:"shape,omitempty" yaml:"shape,omitempty"` // rect, ellipse

	Border   *Border  `json:"border,omitempty" yaml:"border,omitempty"`
	Shadow   *Shadow  `json:"shadow,omitempty" yaml:"shadow,omitempty"`
	Opacity  *float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	Rotation float64  `json:"rotation,omitempty" yaml:"rotation,omitempty"` // degrees

	Animation *Animation `json:"animation,omitempty" yaml:"animation,omitempty"`
}

// Alpha is the element's static opacity, 1 when unset.
func (e Element) Alpha() float64 {
	if e.Opacity == nil {
		return 1
	}
	return clamp01(*e.Opacity)
}

// Animated reports whether the element takes part in the animation timeline.
func (e Element) Animated() bool {
	return e.Animation != nil && e.Animation.Type != AnimNone
}

// AnimationType returns the element's animation kind, AnimNone when absent.
func (e Element) AnimationType() AnimationType {
	if e.Animation == nil {
		return AnimNone
	}
	return e.Animation.Type
}

// TransitionType returns the slide's transition kind, TransitionNone when absent.
func (s Slide) TransitionType() TransitionType {
	if s.Transition == nil {
		return TransitionNone
	}
	return s.Transition.Type
}

// TransitionDuration is the declared transition length; 0 for "none".
func (s Slide) TransitionDuration() float64 {
	if s.Transition == nil || s.Transition.Type == TransitionNone {
		return 0
	}
	return s.Transition.Duration
}

// ZOrder returns element indices sorted by zIndex, stable on input order.
func (s Slide) ZOrder() []int {
	idx := make([]int, len(s.Elements))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return s.Elements[idx[a]].ZIndex < s.Elements[idx[b]].ZIndex
	})
	return idx
}

// Clone returns a deep copy of d that shares no slices or pointers with it.
func (d *Deck) Clone() *Deck {
	out := *d
	out.Slides = make([]Slide, len(d.Slides))
	for i, s := range d.Slides {
		if s.Transition != nil {
			t := *s.Transition
			s.Transition = &t
		}
		s.Elements = slices.Clone(s.Elements)
		for k := range s.Elements {
			s.Elements[k] = s.Elements[k].clone()
		}
		out.Slides[i] = s
	}
	return &out
}

func (e Element) clone() Element {
	if e.Border != nil {
		b := *e.Border
		e.Border = &b
	}
	if e.Shadow != nil {
		sh := *e.Shadow
		e.Shadow = &sh
	}
	if e.Opacity != nil {
		o := *e.Opacity
		e.Opacity = &o
	}
	if e.Animation != nil {
		a := *e.Animation
		e.Animation = &a
	}
	return e
}

// Normalize fills defaults in place and validates field ranges.
func (d *Deck) Normalize() error {
	for i := range d.Slides {
		if err := d.Slides[i].normalize(); err != nil {
			return fmt.Errorf("slide %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *Slide) normalize() error {
	if s.Duration <= 0 {
		s.Duration = DefaultSlideDuration
	}
	if s.BackgroundColor == "" {
		s.BackgroundColor = "#ffffff"
	}
	if _, err := ParseColor(s.BackgroundColor); err != nil {
		return err
	}
	if s.Transition != nil && s.Transition.Duration <= 0 {
		s.Transition.Duration = DefaultTransitionDuration
	}
	for i := range s.Elements {
		if err := s.Elements[i].normalize(); err != nil {
			return fmt.Errorf("element %d: %w", i+1, err)
		}
	}
	return nil
}

func (e *Element) normalize() error {
	if e.Type == "" {
		e.Type = KindShape
	}
	switch e.Type {
	case KindImage, KindText, KindShape, KindQRCode, KindHTML:
	default:
		return fmt.Errorf("unknown element type %q", e.Type)
	}
	p := e.Position
	if p.Width < 0 || p.Height < 0 {
		return fmt.Errorf("negative size %.2fx%.2f", p.Width, p.Height)
	}
	if a := e.Animation; a != nil {
		if a.Duration <= 0 {
			a.Duration = DefaultAnimationDuration
		}
		if a.Delay < 0 {
			a.Delay = 0
		}
		if a.Order < 1 {
			a.Order = 1
		}
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
