package analyzer

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// ContrastDetector finds blocks with Sobel edges, dilation and connected
// components.
type ContrastDetector struct {
	MinArea       float64 // fraction of the page; smaller blocks are noise
	MaxArea       float64 // fraction of the page; larger blocks are frames or backgrounds
	EdgeThreshold float64 // gradient magnitude
	DilateRadius  int
	DilatePasses  int
}

func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		MinArea:       0.002,
		MaxArea:       0.8,
		EdgeThreshold: 30.0,
		DilateRadius:  2,
		DilatePasses:  2,
	}
}

func (d *ContrastDetector) Detect(img image.Image) ([]Block, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, nil
	}
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)

	mask := sobel(gray, d.EdgeThreshold)
	for range d.DilatePasses {
		mask = dilate(mask, d.DilateRadius)
	}

	page := float64(b.Dx() * b.Dy())
	var blocks []Block
	for _, r := range components(mask) {
		share := float64(r.Dx()*r.Dy()) / page
		if share < d.MinArea || share > d.MaxArea {
			continue
		}
		blocks = append(blocks, Block{
			Rect:       r.Add(b.Min),
			Confidence: 0.7,
		})
	}
	return blocks, nil
}

// sobel returns a binary mask (255 = edge) of the gray image.
func sobel(g *image.Gray, threshold float64) *image.Gray {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	out := image.NewGray(g.Rect)
	at := func(x, y int) float64 { return float64(g.Pix[y*g.Stride+x]) }

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := -at(x-1, y-1) + at(x+1, y-1) -
				2*at(x-1, y) + 2*at(x+1, y) -
				at(x-1, y+1) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			if math.Hypot(gx, gy) > threshold {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// dilate grows the mask by radius in every direction, connecting nearby
// edges such as the letters of one paragraph.
func dilate(m *image.Gray, radius int) *image.Gray {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	// горизонтальный, затем вертикальный проход: квадратное ядро раскладывается
	tmp := image.NewGray(m.Rect)
	for y := 0; y < h; y++ {
		row := m.Pix[y*m.Stride:]
		for x := 0; x < w; x++ {
			if row[x] == 0 {
				continue
			}
			for k := max(0, x-radius); k <= min(w-1, x+radius); k++ {
				tmp.Pix[y*tmp.Stride+k] = 255
			}
		}
	}
	out := image.NewGray(m.Rect)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if tmp.Pix[y*tmp.Stride+x] == 0 {
				continue
			}
			for k := max(0, y-radius); k <= min(h-1, y+radius); k++ {
				out.Pix[k*out.Stride+x] = 255
			}
		}
	}
	return out
}

// components returns the bounding rectangles of the 4-connected set regions.
func components(m *image.Gray) []image.Rectangle {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	visited := make([]bool, w*h)
	var rects []image.Rectangle
	var stack []image.Point

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if visited[y*w+x] || m.Pix[y*m.Stride+x] < 128 {
				continue
			}
			r := image.Rect(x, y, x+1, y+1)
			stack = append(stack[:0], image.Pt(x, y))
			visited[y*w+x] = true
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				r = r.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))

				for _, n := range [4]image.Point{image.Pt(p.X+1, p.Y), image.Pt(p.X-1, p.Y), image.Pt(p.X, p.Y+1), image.Pt(p.X, p.Y-1)} {
					if n.X < 0 || n.Y < 0 || n.X >= w || n.Y >= h {
						continue
					}
					i := n.Y*w + n.X
					if visited[i] || m.Pix[n.Y*m.Stride+n.X] < 128 {
						continue
					}
					visited[i] = true
					stack = append(stack, n)
				}
			}
			rects = append(rects, r)
		}
	}
	return rects
}
