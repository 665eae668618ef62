package source

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// DefaultDPI is used to rasterize PDF pages referenced by image elements.
const DefaultDPI = 150

// Loader resolves element image sources and caches the decoded result, so an
// image used on several slides is decoded once. Safe for concurrent use.
type Loader struct {
	BaseDir string
	DPI     int

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]image.Image
}

func NewLoader(baseDir string) *Loader {
	return &Loader{
		BaseDir: baseDir,
		DPI:     DefaultDPI,
		cache:   make(map[string]image.Image),
	}
}

// Resolve maps an element src to a filesystem path.
func (l *Loader) Resolve(src string) string {
	if filepath.IsAbs(src) || l.BaseDir == "" {
		return src
	}
	return filepath.Join(l.BaseDir, src)
}

// Load returns the image for src. page selects a PDF page (0-based) or an
// image in a directory. src may also be a base64 data URI.
func (l *Loader) Load(src string, page int) (image.Image, error) {
	if src == "" {
		return nil, fmt.Errorf("empty image source")
	}
	key := src
	if !strings.HasPrefix(src, "data:") {
		key = l.Resolve(src) + "#" + strconv.Itoa(page)
	}

	l.mu.RLock()
	img, ok := l.cache[key]
	l.mu.RUnlock()
	if ok {
		return img, nil
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		img, err := l.load(src, page)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[key] = img
		l.mu.Unlock()
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}

func (l *Loader) load(src string, page int) (image.Image, error) {
	if strings.HasPrefix(src, "data:") {
		return decodeDataURI(src)
	}

	s, err := Open(l.Resolve(src))
	if err != nil {
		return nil, err
	}
	defer s.Close()

	dpi := l.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return s.RenderPage(page, dpi)
}

// decodeDataURI handles "data:image/png;base64,....".
func decodeDataURI(uri string) (image.Image, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("unsupported data URI (expected base64)")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("data URI: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("data URI: %w", err)
	}
	return img, nil
}
