package renderer

import (
	"math"
	"testing"

	"github.com/ivlev/slides2video/internal/deck"
)

func TestEasingEndpoints(t *testing.T) {
	funcs := map[string]EasingFunc{
		"linear":         Linear,
		"easeOutCubic":   EaseOutCubic,
		"easeInOutCubic": EaseInOutCubic,
		"ease":           Ease(deck.EasingEase),
		"ease-in":        Ease(deck.EasingEaseIn),
		"ease-out":       Ease(deck.EasingEaseOut),
		"ease-in-out":    Ease(deck.EasingEaseInOut),
	}
	for name, f := range funcs {
		if got := f(0); math.Abs(got) > 1e-9 {
			t.Errorf("%s(0) = %f, want 0", name, got)
		}
		if got := f(1); math.Abs(got-1) > 1e-9 {
			t.Errorf("%s(1) = %f, want 1", name, got)
		}
	}
}

func TestEasingMonotonic(t *testing.T) {
	funcs := map[string]EasingFunc{
		"easeOutCubic":   EaseOutCubic,
		"easeInOutCubic": EaseInOutCubic,
		"ease":           Ease(deck.EasingEase),
		"ease-in-out":    Ease(deck.EasingEaseInOut),
	}
	for name, f := range funcs {
		prev := f(0)
		for i := 1; i <= 100; i++ {
			v := f(float64(i) / 100)
			if v < prev-1e-9 {
				t.Errorf("%s decreases at %d%%: %f < %f", name, i, v, prev)
				break
			}
			prev = v
		}
	}
}

func TestEaseInOutCubicMidpoint(t *testing.T) {
	if got := EaseInOutCubic(0.5); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Expected 0.5 at midpoint, got %f", got)
	}
	if got := EaseOutCubic(0.5); math.Abs(got-0.875) > 1e-9 {
		t.Errorf("Expected 0.875, got %f", got)
	}
}

func TestCubicBezierLinear(t *testing.T) {
	f := CubicBezier(1.0/3, 1.0/3, 2.0/3, 2.0/3)
	for _, x := range []float64{0.1, 0.25, 0.5, 0.9} {
		if got := f(x); math.Abs(got-x) > 1e-4 {
			t.Errorf("Linear bezier at %f: got %f", x, got)
		}
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{-1, 0}, {0, 0}, {0.3, 0.3}, {1, 1}, {2, 1},
	}
	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}
