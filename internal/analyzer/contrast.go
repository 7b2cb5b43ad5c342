package analyzer

import (
	"image"
	"image/color"
	"math"
)

// ContrastDetector finds content by its edges: Sobel gradient, dilation to
// merge nearby strokes and glyphs, then connected components.
type ContrastDetector struct {
	MinBlockArea  int     // pixels²
	EdgeThreshold float64 // gradient magnitude
	DilateSize    int     // kernel size, odd
	DilatePasses  int
}

// NewContrastDetector creates a detector tuned for rendered frames.
func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		MinBlockArea:  64,
		EdgeThreshold: 40.0,
		DilateSize:    5,
		DilatePasses:  2,
	}
}

// Detect returns the bounding boxes of content in img.
func (d *ContrastDetector) Detect(img image.Image) ([]Block, error) {
	gray := toGrayscale(img)
	edges := sobel(gray, d.EdgeThreshold)
	mask := dilate(edges, d.DilateSize, d.DilatePasses)

	var blocks []Block
	for _, rect := range components(mask) {
		// dilation grows every component; undo it so margins are measured
		// against the drawn pixels
		grow := (d.DilateSize / 2) * d.DilatePasses
		rect = shrink(rect, grow).Intersect(img.Bounds())
		if rect.Dx()*rect.Dy() < d.MinBlockArea {
			continue
		}
		blocks = append(blocks, classify(rect))
	}
	return blocks, nil
}

func shrink(r image.Rectangle, n int) image.Rectangle {
	if r.Dx() <= 2*n || r.Dy() <= 2*n {
		return r
	}
	return r.Inset(n)
}

// classify guesses the block type from its aspect ratio.
func classify(r image.Rectangle) Block {
	w, h := float64(r.Dx()), float64(r.Dy())
	ratio := w / math.Max(h, 1)
	switch {
	case h <= 6 || w <= 6:
		return Block{Rect: r, Type: "line", Confidence: 0.8}
	case ratio > 3:
		return Block{Rect: r, Type: "text", Confidence: 0.6}
	default:
		return Block{Rect: r, Type: "shape", Confidence: 0.5}
	}
}

func toGrayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(b)
	if rgba, ok := img.(*image.RGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := rgba.Pix[rgba.PixOffset(b.Min.X, y):]
			out := gray.Pix[gray.PixOffset(b.Min.X, y):]
			for x := 0; x < b.Dx(); x++ {
				r, g, bl := uint32(row[4*x]), uint32(row[4*x+1]), uint32(row[4*x+2])
				out[x] = uint8((19595*r + 38470*g + 7471*bl + 1<<15) >> 16)
			}
		}
		return gray
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

var (
	sobelX = [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY = [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}
)

func sobel(gray *image.Gray, threshold float64) *image.Gray {
	b := gray.Bounds()
	edges := image.NewGray(b)
	for y := b.Min.Y + 1; y < b.Max.Y-1; y++ {
		for x := b.Min.X + 1; x < b.Max.X-1; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					p := float64(gray.GrayAt(x+kx, y+ky).Y)
					gx += p * sobelX[ky+1][kx+1]
					gy += p * sobelY[ky+1][kx+1]
				}
			}
			if math.Hypot(gx, gy) > threshold {
				edges.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return edges
}

func dilate(img *image.Gray, size, passes int) *image.Gray {
	b := img.Bounds()
	half := size / 2
	cur := img
	for p := 0; p < passes; p++ {
		next := image.NewGray(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if cur.GrayAt(x, y).Y == 0 {
					continue
				}
				for ky := -half; ky <= half; ky++ {
					for kx := -half; kx <= half; kx++ {
						if (image.Point{X: x + kx, Y: y + ky}).In(b) {
							next.SetGray(x+kx, y+ky, color.Gray{Y: 255})
						}
					}
				}
			}
		}
		cur = next
	}
	return cur
}

// components returns the bounding boxes of 4-connected set regions.
func components(img *image.Gray) []image.Rectangle {
	b := img.Bounds()
	visited := make([]bool, b.Dx()*b.Dy())
	idx := func(x, y int) int { return (y-b.Min.Y)*b.Dx() + (x - b.Min.X) }

	var out []image.Rectangle
	var stack []image.Point
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if visited[idx(x, y)] || img.GrayAt(x, y).Y <= 128 {
				continue
			}
			r := image.Rect(x, y, x+1, y+1)
			stack = append(stack[:0], image.Point{X: x, Y: y})
			visited[idx(x, y)] = true
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				r = r.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))
				for _, q := range [4]image.Point{{X: p.X + 1, Y: p.Y}, {X: p.X - 1, Y: p.Y}, {X: p.X, Y: p.Y + 1}, {X: p.X, Y: p.Y - 1}} {
					if !q.In(b) || visited[idx(q.X, q.Y)] || img.GrayAt(q.X, q.Y).Y <= 128 {
						continue
					}
					visited[idx(q.X, q.Y)] = true
					stack = append(stack, q)
				}
			}
			out = append(out, r)
		}
	}
	return out
}
