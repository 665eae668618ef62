package source

import (
	"fmt"
	"image"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Source is a paged image provider: a PDF or a set of image files.
type Source interface {
	PageCount() int
	GetPageDimensions(index int) (width, height float64, err error)
	RenderPage(index int, dpi int) (image.Image, error)
	// Ref is the element src and page that load the same page back.
	Ref(index int) (src string, page int)
	Close() error
}

// Open picks the source for path: a PDF document, an image or a directory of
// images.
func Open(path string) (Source, error) {
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return NewFitzPDFSource(path)
	}
	return NewImageSource(path)
}

// FitzPDFSource renders PDF pages through MuPDF.
type FitzPDFSource struct {
	doc   *fitz.Document
	path  string
	pages int
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &FitzPDFSource{doc: doc, path: path, pages: doc.NumPage()}, nil
}

func (f *FitzPDFSource) PageCount() int { return f.pages }

func (f *FitzPDFSource) checkPage(index int) error {
	if index < 0 || index >= f.pages {
		return fmt.Errorf("page %d out of range (document has %d)", index+1, f.pages)
	}
	return nil
}

func (f *FitzPDFSource) GetPageDimensions(index int) (float64, float64, error) {
	if err := f.checkPage(index); err != nil {
		return 0, 0, err
	}
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

// RenderPage opens its own document handle so pages can be rendered from
// several goroutines; a fitz.Document is not safe for concurrent use.
func (f *FitzPDFSource) RenderPage(index int, dpi int) (image.Image, error) {
	if err := f.checkPage(index); err != nil {
		return nil, err
	}
	doc, err := fitz.New(f.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer doc.Close()
	return doc.ImageDPI(index, float64(dpi))
}

func (f *FitzPDFSource) Ref(index int) (string, int) { return f.path, index }

func (f *FitzPDFSource) Close() error { return f.doc.Close() }
