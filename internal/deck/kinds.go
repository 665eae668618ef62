package deck

import (
	"fmt"
	"strings"
)

// AnimationType is the entrance animation of an element.
type AnimationType int

const (
	AnimNone AnimationType = iota
	AnimFadeIn
	AnimFadeInUp
	AnimFadeInDown
	AnimFadeInLeft
	AnimFadeInRight
	AnimSlideInUp
	AnimSlideInDown
	AnimSlideInLeft
	AnimSlideInRight
	AnimZoomIn
	AnimZoomOut
	AnimBounceIn
	AnimRotateIn
	AnimFlipInX
	AnimFlipInY
	AnimPulse
	AnimShake
	AnimSwing
	AnimTypewriter
	AnimLetterByLetter
	AnimWordByWord
	// AnimUnknown is any name the decoder did not recognise. It renders as a plain fade.
	AnimUnknown
)

var animationNames = [...]string{
	AnimNone:           "none",
	AnimFadeIn:         "fadeIn",
	AnimFadeInUp:       "fadeInUp",
	AnimFadeInDown:     "fadeInDown",
	AnimFadeInLeft:     "fadeInLeft",
	AnimFadeInRight:    "fadeInRight",
	AnimSlideInUp:      "slideInUp",
	AnimSlideInDown:    "slideInDown",
	AnimSlideInLeft:    "slideInLeft",
	AnimSlideInRight:   "slideInRight",
	AnimZoomIn:         "zoomIn",
	AnimZoomOut:        "zoomOut",
	AnimBounceIn:       "bounceIn",
	AnimRotateIn:       "rotateIn",
	AnimFlipInX:        "flipInX",
	AnimFlipInY:        "flipInY",
	AnimPulse:          "pulse",
	AnimShake:          "shake",
	AnimSwing:          "swing",
	AnimTypewriter:     "typewriter",
	AnimLetterByLetter: "letterByLetter",
	AnimWordByWord:     "wordByWord",
	AnimUnknown:        "unknown",
}

// AnimationTypes lists every named animation kind, AnimUnknown excluded.
func AnimationTypes() []AnimationType {
	out := make([]AnimationType, 0, len(animationNames)-1)
	for a := AnimNone; a < AnimUnknown; a++ {
		out = append(out, a)
	}
	return out
}

func (a AnimationType) String() string {
	if a < 0 || int(a) >= len(animationNames) {
		return "unknown"
	}
	return animationNames[a]
}

// ParseAnimationType never fails: unrecognised names map to AnimUnknown.
func ParseAnimationType(s string) AnimationType {
	s = strings.TrimSpace(s)
	if s == "" {
		return AnimNone
	}
	for i, name := range animationNames {
		if strings.EqualFold(name, s) && AnimationType(i) != AnimUnknown {
			return AnimationType(i)
		}
	}
	return AnimUnknown
}

func (a AnimationType) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *AnimationType) UnmarshalText(b []byte) error {
	*a = ParseAnimationType(string(b))
	return nil
}

// TransitionType is the entrance transition of a slide.
type TransitionType int

const (
	TransitionNone TransitionType = iota
	TransitionFade
	TransitionSlideLeft
	TransitionSlideRight
	TransitionSlideUp
	TransitionSlideDown
	TransitionZoomIn
	TransitionZoomOut
	TransitionFlip
	TransitionRotate
	TransitionBlur
	TransitionDissolve
)

var transitionNames = [...]string{
	TransitionNone:       "none",
	TransitionFade:       "fade",
	TransitionSlideLeft:  "slideLeft",
	TransitionSlideRight: "slideRight",
	TransitionSlideUp:    "slideUp",
	TransitionSlideDown:  "slideDown",
	TransitionZoomIn:     "zoomIn",
	TransitionZoomOut:    "zoomOut",
	TransitionFlip:       "flip",
	TransitionRotate:     "rotate",
	TransitionBlur:       "blur",
	TransitionDissolve:   "dissolve",
}

func TransitionTypes() []TransitionType {
	out := make([]TransitionType, len(transitionNames))
	for i := range transitionNames {
		out[i] = TransitionType(i)
	}
	return out
}

func (t TransitionType) String() string {
	if t < 0 || int(t) >= len(transitionNames) {
		return fmt.Sprintf("transition(%d)", int(t))
	}
	return transitionNames[t]
}

func ParseTransitionType(s string) (TransitionType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TransitionNone, nil
	}
	for i, name := range transitionNames {
		if strings.EqualFold(name, s) {
			return TransitionType(i), nil
		}
	}
	return TransitionNone, fmt.Errorf("unknown transition %q", s)
}

func (t TransitionType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TransitionType) UnmarshalText(b []byte) error {
	v, err := ParseTransitionType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

type Easing int

const (
	EasingEase Easing = iota
	EasingLinear
	EasingEaseIn
	EasingEaseOut
	EasingEaseInOut
)

var easingNames = [...]string{
	EasingEase:      "ease",
	EasingLinear:    "linear",
	EasingEaseIn:    "ease-in",
	EasingEaseOut:   "ease-out",
	EasingEaseInOut: "ease-in-out",
}

func (e Easing) String() string {
	if e < 0 || int(e) >= len(easingNames) {
		return fmt.Sprintf("easing(%d)", int(e))
	}
	return easingNames[e]
}

func ParseEasing(s string) (Easing, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return EasingEase, nil
	}
	for i, name := range easingNames {
		if strings.EqualFold(name, s) {
			return Easing(i), nil
		}
	}
	// camelCase spellings from the editor
	switch strings.ToLower(s) {
	case "easein":
		return EasingEaseIn, nil
	case "easeout":
		return EasingEaseOut, nil
	case "easeinout":
		return EasingEaseInOut, nil
	}
	return EasingEase, fmt.Errorf("unknown easing %q", s)
}

func (e Easing) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *Easing) UnmarshalText(b []byte) error {
	v, err := ParseEasing(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Trigger decides what an animation's start is anchored to.
type Trigger int

const (
	TriggerOnClick Trigger = iota
	TriggerWithPrevious
	TriggerAfterPrevious
)

var triggerNames = [...]string{
	TriggerOnClick:       "onClick",
	TriggerWithPrevious:  "withPrevious",
	TriggerAfterPrevious: "afterPrevious",
}

func (t Trigger) String() string {
	if t < 0 || int(t) >= len(triggerNames) {
		return fmt.Sprintf("trigger(%d)", int(t))
	}
	return triggerNames[t]
}

func ParseTrigger(s string) (Trigger, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TriggerOnClick, nil
	}
	for i, name := range triggerNames {
		if strings.EqualFold(name, s) {
			return Trigger(i), nil
		}
	}
	return TriggerOnClick, fmt.Errorf("unknown start trigger %q", s)
}

func (t Trigger) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Trigger) UnmarshalText(b []byte) error {
	v, err := ParseTrigger(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ElementKind selects how the rasterizer draws an element.
type ElementKind string

const (
	KindImage  ElementKind = "image"
	KindText   ElementKind = "text"
	KindShape  ElementKind = "shape"
	KindQRCode ElementKind = "qrcode"
	KindHTML   ElementKind = "html"
)
