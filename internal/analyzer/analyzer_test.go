package analyzer

import (
	"image"
	"image/color"
	"testing"
)

func fillRect(img *image.Gray, r image.Rectangle, c uint8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetGray(x, y, color.Gray{Y: c})
		}
	}
}

func TestContrastDetector(t *testing.T) {
	// white rectangle (a text block) on black
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	fillRect(img, image.Rect(50, 50, 150, 150), 255)

	blocks, err := NewContrastDetector().Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("Expected one block, got %d", len(blocks))
	}
	r := blocks[0].Rect
	if r.Dx() < 80 || r.Dy() < 80 || !r.Overlaps(image.Rect(50, 50, 150, 150)) {
		t.Errorf("Block does not match the rectangle: %v", r)
	}
}

func TestContrastDetectorFiltersBySize(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 400, 200))
	fillRect(img, image.Rect(0, 0, 400, 200), 255)
	fillRect(img, image.Rect(40, 40, 160, 120), 0)   // a real block
	fillRect(img, image.Rect(300, 100, 301, 101), 0) // a speck

	blocks, err := NewContrastDetector().Detect(img)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 1 {
		t.Fatalf("Expected only the large block, got %v", blocks)
	}
	if !blocks[0].Rect.Overlaps(image.Rect(40, 40, 160, 120)) {
		t.Errorf("Wrong block kept: %v", blocks[0].Rect)
	}
}

func TestContrastDetectorOffsetBounds(t *testing.T) {
	base := image.NewGray(image.Rect(0, 0, 300, 300))
	fillRect(base, image.Rect(150, 150, 250, 250), 255)
	sub := base.SubImage(image.Rect(100, 100, 300, 300))

	blocks, err := NewContrastDetector().Detect(sub)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 1 || !blocks[0].Rect.Overlaps(image.Rect(150, 150, 250, 250)) {
		t.Errorf("Blocks must be reported in the image's coordinates, got %v", blocks)
	}
}

func TestReadingOrder(t *testing.T) {
	blocks := []Block{
		{Rect: image.Rect(300, 105, 400, 150)}, // row 1, right
		{Rect: image.Rect(10, 300, 100, 350)},  // row 2
		{Rect: image.Rect(20, 100, 120, 150)},  // row 1, left
	}
	got := ReadingOrder(blocks, 20)
	want := []int{20, 300, 10}
	for i, b := range got {
		if b.Rect.Min.X != want[i] {
			t.Errorf("Position %d: expected block at x=%d, got %v", i, want[i], b.Rect)
		}
	}
	if blocks[0].Rect.Min.X != 300 {
		t.Error("Input must not be reordered")
	}
}

func TestDetectorRegistry(t *testing.T) {
	tests := []struct {
		variant string
		wantErr bool
	}{
		{"contrast", false},
		{"", false}, // default
		{"none", false},
		{"ocr", true},
		{"invalid", true},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			detector, err := NewDetector(tt.variant)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if detector == nil {
				t.Error("Expected detector, got nil")
			}
		})
	}
}
