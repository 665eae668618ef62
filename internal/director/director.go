// Package director turns a paged document into a deck: one slide per page,
// with the page's content blocks highlighted one after another in reading
// order.
package director

import (
	"context"
	"fmt"
	"image"

	"github.com/ivlev/slides2video/internal/analyzer"
	"github.com/ivlev/slides2video/internal/deck"
	"github.com/ivlev/slides2video/internal/source"
)

// Director generates decks from detected blocks.
type Director struct {
	Width, Height int // output surface, used to fit pages
	Detector      analyzer.Detector
	AnalysisDPI   int

	MinDwell     float64 // minimum time per block (seconds)
	MaxDwell     float64 // maximum time per block (seconds)
	Intro, Outro float64 // full page view before the first and after the last block
	PageDuration float64 // time budget per page; 0 = derived from the block count

	Transition         deck.TransitionType
	TransitionDuration float64
	Highlight          deck.AnimationType
	HighlightColor     string
	Background         string
}

// NewDirector creates a Director with default settings.
func NewDirector(width, height int) *Director {
	return &Director{
		Width:              width,
		Height:             height,
		Detector:           analyzer.NewContrastDetector(),
		AnalysisDPI:        72,
		MinDwell:           1.0,
		MaxDwell:           3.0,
		Intro:              1.0,
		Outro:              1.0,
		Transition:         deck.TransitionFade,
		TransitionDuration: deck.DefaultTransitionDuration,
		Highlight:          deck.AnimZoomIn,
		HighlightColor:     "#ffd600",
		Background:         "#000000",
	}
}

// BuildDeck creates one slide per page of src.
func (d *Director) BuildDeck(ctx context.Context, src source.Source, title string) (*deck.Deck, error) {
	n := src.PageCount()
	if n == 0 {
		return nil, fmt.Errorf("source has no pages")
	}

	out := &deck.Deck{Version: "1.0", Title: title}
	for i := range n {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := d.buildSlide(src, i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		out.Slides = append(out.Slides, s)
	}
	if err := out.Normalize(); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Director) buildSlide(src source.Source, i int) (deck.Slide, error) {
	img, err := src.RenderPage(i, d.AnalysisDPI)
	if err != nil {
		return deck.Slide{}, err
	}
	b := img.Bounds()
	if b.Empty() {
		return deck.Slide{}, fmt.Errorf("empty page")
	}
	frame := fitRect(b.Dx(), b.Dy(), d.Width, d.Height)

	ref, page := src.Ref(i)
	slide := deck.Slide{
		ID:              fmt.Sprintf("page-%d", i+1),
		BackgroundColor: d.Background,
		Elements: []deck.Element{{
			ID:       "page",
			Type:     deck.KindImage,
			Src:      ref,
			Page:     page,
			Position: frame,
		}},
	}

	var blocks []analyzer.Block
	if d.Detector != nil {
		if blocks, err = d.Detector.Detect(img); err != nil {
			return deck.Slide{}, err
		}
	}
	// 20 px at 72 DPI count as one row
	blocks = analyzer.ReadingOrder(blocks, 20*max(d.AnalysisDPI, 1)/72)

	dwell := d.dwellTime(len(blocks))
	animDur := min(0.5, dwell)
	for k, bl := range blocks {
		delay := dwell - animDur
		if k == 0 {
			delay = d.Intro
		}
		slide.Elements = append(slide.Elements, deck.Element{
			ID:       fmt.Sprintf("region_%d", k+1),
			Type:     deck.KindShape,
			Fill:     "transparent",
			Position: blockRect(bl.Rect.Sub(b.Min), b.Size(), frame),
			ZIndex:   1,
			Border:   &deck.Border{Width: 4, Color: d.HighlightColor, Radius: 6},
			Animation: &deck.Animation{
				Type:         d.Highlight,
				Duration:     animDur,
				Delay:        delay,
				Order:        k + 1,
				StartTrigger: deck.TriggerAfterPrevious,
			},
		})
	}

	content := d.Intro + float64(len(blocks))*dwell + d.Outro
	if d.PageDuration > content {
		content = d.PageDuration
	}
	if i > 0 && d.Transition != deck.TransitionNone {
		slide.Transition = &deck.Transition{Type: d.Transition, Duration: d.TransitionDuration}
		content += d.TransitionDuration
	}
	slide.Duration = content
	return slide, nil
}

// dwellTime determines how long each block stays in focus.
func (d *Director) dwellTime(blocks int) float64 {
	if blocks == 0 {
		return 0
	}
	if d.PageDuration <= 0 {
		return (d.MinDwell + d.MaxDwell) / 2
	}
	available := d.PageDuration - d.Intro - d.Outro
	if available <= 0 {
		available = d.PageDuration
	}
	dwell := available / float64(blocks)
	return max(d.MinDwell, min(d.MaxDwell, dwell))
}

// fitRect letterboxes a pw×ph page on a w×h surface, in percent.
func fitRect(pw, ph, w, h int) deck.Rect {
	page := float64(pw) / float64(ph)
	surface := float64(w) / float64(h)
	if page >= surface {
		height := 100 * surface / page
		return deck.Rect{X: 0, Y: (100 - height) / 2, Width: 100, Height: height}
	}
	width := 100 * page / surface
	return deck.Rect{X: (100 - width) / 2, Y: 0, Width: width, Height: 100}
}

// blockRect maps a block in page pixels into the page's frame on the slide.
func blockRect(r image.Rectangle, page image.Point, frame deck.Rect) deck.Rect {
	sx := frame.Width / float64(page.X)
	sy := frame.Height / float64(page.Y)
	return deck.Rect{
		X:      frame.X + float64(r.Min.X)*sx,
		Y:      frame.Y + float64(r.Min.Y)*sy,
		Width:  float64(r.Dx()) * sx,
		Height: float64(r.Dy()) * sy,
	}
}
