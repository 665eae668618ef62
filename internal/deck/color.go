package deck

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var (
	White = color.RGBA{255, 255, 255, 255}
	Black = color.RGBA{0, 0, 0, 255}
)

var namedColors = map[string]color.RGBA{
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"blue":        {0, 0, 255, 255},
	"yellow":      {255, 255, 0, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"orange":      {255, 165, 0, 255},
	"purple":      {128, 0, 128, 255},
	"transparent": {0, 0, 0, 0},
}

// ParseColor accepts #rgb, #rrggbb, #rrggbbaa, rgb(r,g,b), rgba(r,g,b,a) and a few names.
// The result is alpha-premultiplied as image/color expects.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}

	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 && len(hex) != 8 {
			return color.RGBA{}, fmt.Errorf("bad color %q", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("bad color %q: %w", s, err)
		}
		a := uint8(255)
		if len(hex) == 8 {
			a = uint8(v)
			v >>= 8
		}
		return premultiply(uint8(v>>16), uint8(v>>8), uint8(v), float64(a)/255), nil
	}

	if strings.HasPrefix(s, "rgb") {
		open := strings.IndexByte(s, '(')
		end := strings.LastIndexByte(s, ')')
		if open < 0 || end < open {
			return color.RGBA{}, fmt.Errorf("bad color %q", s)
		}
		parts := strings.Split(s[open+1:end], ",")
		if len(parts) != 3 && len(parts) != 4 {
			return color.RGBA{}, fmt.Errorf("bad color %q", s)
		}
		var ch [3]uint8
		for i := 0; i < 3; i++ {
			n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
			if err != nil || n < 0 || n > 255 {
				return color.RGBA{}, fmt.Errorf("bad color %q", s)
			}
			ch[i] = uint8(n)
		}
		alpha := 1.0
		if len(parts) == 4 {
			f, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("bad color %q: %w", s, err)
			}
			alpha = clamp01(f)
		}
		return premultiply(ch[0], ch[1], ch[2], alpha), nil
	}

	return color.RGBA{}, fmt.Errorf("bad color %q", s)
}

// MustColor parses s, falling back to def on error.
func MustColor(s string, def color.RGBA) color.RGBA {
	if s == "" {
		return def
	}
	c, err := ParseColor(s)
	if err != nil {
		return def
	}
	return c
}

func premultiply(r, g, b uint8, a float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(r)*a + 0.5),
		G: uint8(float64(g)*a + 0.5),
		B: uint8(float64(b)*a + 0.5),
		A: uint8(a*255 + 0.5),
	}
}
