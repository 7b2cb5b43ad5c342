package analyzer

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func frameWith(rects ...image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	for _, r := range rects {
		draw.Draw(img, r, image.NewUniform(color.White), image.Point{}, draw.Src)
	}
	return img
}

func near(a, b, tol int) bool {
	d := a - b
	return d <= tol && d >= -tol
}

func TestContrastDetector(t *testing.T) {
	blocks, err := NewContrastDetector().Detect(frameWith(image.Rect(50, 50, 150, 150)))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d: %v", len(blocks), blocks)
	}
	r := blocks[0].Rect
	if !near(r.Min.X, 50, 3) || !near(r.Min.Y, 50, 3) || !near(r.Max.X, 150, 3) || !near(r.Max.Y, 150, 3) {
		t.Errorf("Block %v does not match the drawn square", r)
	}
	if blocks[0].Type != "shape" {
		t.Errorf("Type = %s, want shape", blocks[0].Type)
	}
}

func TestContrastDetectorEmptyFrame(t *testing.T) {
	blocks, err := NewContrastDetector().Detect(frameWith())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(blocks) != 0 {
		t.Errorf("Expected no blocks, got %v", blocks)
	}
}

func TestContrastDetectorSeparatesDistantBlocks(t *testing.T) {
	img := frameWith(image.Rect(20, 20, 60, 60), image.Rect(120, 120, 180, 180))
	blocks, err := NewContrastDetector().Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}
}

func TestNewDetector(t *testing.T) {
	tests := []struct {
		variant string
		wantErr bool
	}{
		{"contrast", false},
		{"", false},
		{"ocr", true},
		{"invalid", true},
	}
	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			d, err := NewDetector(tt.variant)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownDetector) {
					t.Errorf("err = %v, want ErrUnknownDetector", err)
				}
				return
			}
			if err != nil || d == nil {
				t.Errorf("NewDetector(%q) = %v, %v", tt.variant, d, err)
			}
		})
	}
}

func TestReadingOrder(t *testing.T) {
	blocks := []Block{
		{Rect: image.Rect(100, 105, 150, 120)},
		{Rect: image.Rect(10, 100, 50, 120)},
		{Rect: image.Rect(10, 10, 50, 30)},
	}
	got := ReadingOrder(blocks, 20)
	want := []int{10, 10, 100}
	for i, b := range got {
		if b.Rect.Min.X != want[i] {
			t.Errorf("block %d starts at x=%d, want %d", i, b.Rect.Min.X, want[i])
		}
	}
	if got[0].Rect.Min.Y != 10 {
		t.Errorf("first block should be the top one, got %v", got[0].Rect)
	}
}

func TestCheckMargins(t *testing.T) {
	bounds := image.Rect(0, 0, 200, 200)
	tests := []struct {
		name      string
		rect      image.Rectangle
		wantEdges []string
		overflow  int
	}{
		{"inside", image.Rect(50, 50, 150, 150), nil, 0},
		{"left", image.Rect(10, 50, 60, 90), []string{"left"}, 10},
		{"bottom right", image.Rect(150, 150, 195, 190), []string{"bottom", "right"}, 15},
		{"touching", image.Rect(20, 20, 180, 180), nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckMargins([]Block{{Rect: tt.rect, Type: "shape"}}, bounds, 20)
			if len(tt.wantEdges) == 0 {
				if len(got) != 0 {
					t.Errorf("unexpected violations %v", got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("got %d violations, want 1", len(got))
			}
			if len(got[0].Edges) != len(tt.wantEdges) {
				t.Fatalf("edges = %v, want %v", got[0].Edges, tt.wantEdges)
			}
			for i, e := range tt.wantEdges {
				if got[0].Edges[i] != e {
					t.Errorf("edge %d = %s, want %s", i, got[0].Edges[i], e)
				}
			}
			if got[0].Overflow != tt.overflow {
				t.Errorf("overflow = %d, want %d", got[0].Overflow, tt.overflow)
			}
		})
	}
}
