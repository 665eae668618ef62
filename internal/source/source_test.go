package source

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestImageSourceDirectory(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 4, 2)
	writePNG(t, filepath.Join(dir, "a.png"), 6, 3)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)

	s, err := NewImageSource(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.PageCount() != 2 {
		t.Fatalf("Expected 2 images, got %d", s.PageCount())
	}
	w, h, err := s.GetPageDimensions(0)
	if err != nil {
		t.Fatal(err)
	}
	if w != 6 || h != 3 {
		t.Errorf("Expected a.png (6x3) first, got %vx%v", w, h)
	}
	if _, err := s.RenderPage(5, 0); err == nil {
		t.Error("Expected out-of-range error")
	}
}

func TestLoaderCachesAndResolves(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "logo.png"), 5, 5)

	l := NewLoader(dir)
	a, err := l.Load("logo.png", 0)
	if err != nil {
		t.Fatal(err)
	}
	// a second load must come from the cache even if the file is gone
	os.Remove(filepath.Join(dir, "logo.png"))
	b, err := l.Load("logo.png", 0)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("Expected the cached image to be reused")
	}
	if _, err := l.Load("missing.png", 0); err == nil {
		t.Error("Expected error for a missing file")
	}
}

func TestLoaderDataURI(t *testing.T) {
	var buf bytes.Buffer
	png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 2)))
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	img, err := NewLoader("").Load(uri, 0)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Errorf("Unexpected bounds %v", img.Bounds())
	}

	if _, err := NewLoader("").Load("data:text/plain,hello", 0); err == nil {
		t.Error("Expected error for a non-base64 data URI")
	}
}

func TestImageSourceRefLoadsSamePage(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "p1.png"), 3, 3)
	writePNG(t, filepath.Join(dir, "p2.png"), 7, 2)

	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	src, page := s.Ref(1)
	if filepath.Base(src) != "p2.png" || page != 0 {
		t.Fatalf("Unexpected ref %s#%d", src, page)
	}
	img, err := NewLoader("").Load(src, page)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 7 || b.Dy() != 2 {
		t.Errorf("Expected the 7x2 page, got %v", b)
	}
	if src, _ := s.Ref(9); src != "" {
		t.Errorf("Out-of-range ref should be empty, got %s", src)
	}
}
