package raster

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"image"
	"image/draw"
	_ "image/png"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/ivlev/slides2video/internal/deck"
)

// pageTimeout bounds a single element render in the browser.
const pageTimeout = 30 * time.Second

// Browser renders html elements in headless Chrome and delegates every other
// kind to a Canvas. One page is reused, so renders are serialized.
type Browser struct {
	*Canvas

	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	mu       sync.Mutex
}

func NewBrowser(canvas *Canvas) (*Browser, error) {
	l := launcher.New().Headless(true)
	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("error launching browser: %v", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("error connecting to browser: %v", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		browser.Close()
		l.Cleanup()
		return nil, fmt.Errorf("failed to create page: %v", err)
	}

	return &Browser{Canvas: canvas, launcher: l, browser: browser, page: page}, nil
}

func (b *Browser) RasterizeElement(ctx context.Context, el deck.Element, surface image.Point) (*image.RGBA, error) {
	if el.Type != deck.KindHTML {
		return b.Canvas.RasterizeElement(ctx, el, surface)
	}
	rect := el.Position.Pixels(surface.X, surface.Y)
	if rect.Empty() {
		return nil, nil
	}

	shot, err := b.screenshot(ctx, documentFor(el), rect.Dx(), rect.Dy())
	if err != nil {
		return nil, fmt.Errorf("html element: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("html element: decode screenshot: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	drawBorder(dst, el, surface)
	return dst, nil
}

func (b *Browser) RasterizeSlide(ctx context.Context, s deck.Slide, surface image.Point) (*image.RGBA, error) {
	return ComposeSlide(ctx, b, s, surface)
}

func (b *Browser) screenshot(ctx context.Context, doc string, w, h int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	page := b.page.Context(ctx).Timeout(pageTimeout)
	err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             w,
		Height:            h,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return nil, err
	}
	if err := page.SetDocumentContent(doc); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}
	return page.Screenshot(false, nil)
}

// documentFor wraps the element markup in a page sized to the viewport.
func documentFor(el deck.Element) string {
	bg := "transparent"
	if el.Fill != "" {
		bg = html.EscapeString(el.Fill)
	}
	return `<!DOCTYPE html><html><head><meta charset="utf-8"><style>` +
		`html,body{margin:0;padding:0;width:100%;height:100%;overflow:hidden;background:` + bg + `}` +
		`</style></head><body>` + el.Content + `</body></html>`
}

func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.page != nil {
		b.page.Close()
	}
	if b.browser != nil {
		b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Cleanup()
	}
	return nil
}
