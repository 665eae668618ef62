package engine

import (
	"context"
	"image"
	"image/color"
	"log"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/slides2video/internal/config"
	"github.com/ivlev/slides2video/internal/deck"
	"github.com/ivlev/slides2video/internal/renderer"
	"github.com/ivlev/slides2video/internal/timeline"
)

// RenderedElement is an element bitmap plus its resolved timing.
type RenderedElement struct {
	Element deck.Element
	Bitmap  *image.RGBA // nil when the element was skipped or is empty
	Rect    image.Rectangle
	Timing  timeline.Entry
}

// RenderedSlide holds everything the Rendering phase needs for one slide.
type RenderedSlide struct {
	Index      int
	Plan       timeline.SlidePlan
	Background color.RGBA
	Elements   []RenderedElement // z-ordered
	// Base is the background plus non-animated elements: the incoming side of
	// the slide's entrance transition. Nil when there is no transition.
	Base *image.RGBA
	// Snapshot is the slide at rest: the outgoing side of the next slide's
	// transition. Nil when the next slide has no transition.
	Snapshot *image.RGBA
}

// Prepare rasterizes every element of every slide once. Rasterization runs on
// up to cfg.Workers goroutines; the result does not depend on scheduling.
// onSlide is called (serialized) each time a slide finishes, with the count of
// finished slides.
func (j *Job) Prepare(ctx context.Context, slides []deck.Slide, onSlide func(done, index int)) ([]*RenderedSlide, error) {
	cfg := j.Config
	surface := image.Pt(cfg.Width, cfg.Height)

	out := make([]*RenderedSlide, len(slides))
	bitmaps := make([][]*image.RGBA, len(slides))
	pending := make([]int, len(slides))
	for i, s := range slides {
		bitmaps[i] = make([]*image.RGBA, len(s.Elements))
		pending[i] = len(s.Elements)
	}

	var mu sync.Mutex
	done := 0
	finish := func(i int) {
		mu.Lock()
		defer mu.Unlock()
		pending[i]--
		if pending[i] == 0 {
			done++
			if onSlide != nil {
				onSlide(done, i)
			}
		}
	}
	// slides without elements are ready immediately
	for i := range slides {
		if pending[i] == 0 {
			pending[i] = 1
			finish(i)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.Workers))
	for i, s := range slides {
		for k, el := range s.Elements {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				bmp, err := j.Rasterizer.RasterizeElement(gctx, el, surface)
				if err != nil {
					if canceled(err) {
						return err
					}
					rerr := &RasterizationError{Slide: i + 1, Element: elementName(el, k), Err: err}
					if cfg.OnElementError != config.OnErrorSkip {
						return rerr
					}
					log.Printf("[!] %v, skipped", rerr)
					bmp = nil
				}
				bitmaps[i][k] = bmp
				finish(i)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		if canceled(err) && ctx.Err() != nil {
			return nil, ErrCanceled
		}
		return nil, err
	}

	for i, s := range slides {
		out[i] = assemble(i, s, bitmaps[i], cfg)
	}
	for i, rs := range out {
		if rs.Plan.TransitionFrames > 0 {
			rs.Base = rs.compose(surface, false)
		}
		if i+1 < len(out) && out[i+1].Plan.TransitionFrames > 0 {
			rs.Snapshot = rs.compose(surface, true)
		}
	}
	return out, nil
}

func assemble(i int, s deck.Slide, bitmaps []*image.RGBA, cfg *config.Config) *RenderedSlide {
	plan := timeline.PlanSlide(i, s, cfg.FPS)
	rs := &RenderedSlide{
		Index:      i,
		Plan:       plan,
		Background: deck.MustColor(s.BackgroundColor, deck.White),
	}
	for _, k := range s.ZOrder() {
		el := s.Elements[k]
		rs.Elements = append(rs.Elements, RenderedElement{
			Element: el,
			Bitmap:  bitmaps[k],
			Rect:    el.Position.Pixels(cfg.Width, cfg.Height),
			Timing:  plan.Table.Entries[k],
		})
	}
	return rs
}

// compose draws the slide at rest, optionally including animated elements.
func (rs *RenderedSlide) compose(surface image.Point, animated bool) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: surface})
	renderer.Fill(dst, rs.Background)
	for _, re := range rs.Elements {
		if re.Bitmap == nil || (re.Timing.Animated && !animated) {
			continue
		}
		renderer.DrawElement(dst, re.Bitmap, re.Rect, renderer.Rest.With(re.Element))
	}
	return dst
}

func elementName(el deck.Element, k int) string {
	if el.ID != "" {
		return el.ID
	}
	return strconv.Itoa(k + 1)
}
