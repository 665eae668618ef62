package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseEncoders(t *testing.T) {
	out := `Encoders:
 V..... = Video
 A..... = Audio
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC (codec h264)
 V....D libvpx-vp9           libvpx VP9 (codec vp9)
 A....D aac                  AAC (Advanced Audio Coding)
`
	got := ParseEncoders(out)
	want := []string{"libx264", "libvpx-vp9"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Encoder %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.json")
	newer := filepath.Join(dir, "new.yaml")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{old, newer, other} {
		if err := os.WriteFile(p, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	now := time.Now()
	os.Chtimes(old, now.Add(-time.Hour), now.Add(-time.Hour))
	os.Chtimes(other, now.Add(time.Hour), now.Add(time.Hour))

	got, err := FindLatest(dir, ".json", ".yaml")
	if err != nil {
		t.Fatal(err)
	}
	if got != newer {
		t.Errorf("Expected %s, got %s", newer, got)
	}

	if _, err := FindLatest(dir, ".pdf"); err == nil {
		t.Error("Expected error when nothing matches")
	}
}

func TestImagePoolReuse(t *testing.T) {
	p := NewImagePool()
	r := image.Rect(0, 0, 4, 4)
	img := p.Get(r)
	if img.Rect != r {
		t.Fatalf("Expected bounds %v, got %v", r, img.Rect)
	}
	p.Put(img)
	// foreign sizes are ignored
	p.Put(image.NewRGBA(image.Rect(0, 0, 3, 3)))

	c := GetClearImage(r)
	for i, v := range c.Pix {
		if v != 0 {
			t.Fatalf("Pixel byte %d not cleared", i)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[uint64]string{
		512:                    "512 B",
		2048:                   "2.0 KiB",
		8294400:                "7.9 MiB",
		3 * 1024 * 1024 * 1024: "3.0 GiB",
	}
	for n, want := range tests {
		if got := FormatBytes(n); got != want {
			t.Errorf("FormatBytes(%d) = %s, want %s", n, got, want)
		}
	}
}
