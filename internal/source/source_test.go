package source

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestImageSetDirectory(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 4, 2)
	writePNG(t, filepath.Join(dir, "A.PNG"), 8, 6)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)

	doc, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()
	if doc.Pages() != 2 {
		t.Fatalf("Pages = %d, want 2", doc.Pages())
	}
	w, h, err := doc.PageSize(0)
	if err != nil || w != 8 || h != 6 {
		t.Errorf("page 0 = %vx%v, %v; want 8x6", w, h, err)
	}
	img, err := doc.Render(1, 72)
	if err != nil || img.Bounds().Dx() != 4 {
		t.Errorf("Render(1) = %v, %v", img, err)
	}
	if _, err := doc.Render(2, 72); !errors.Is(err, ErrPageRange) {
		t.Errorf("err = %v, want ErrPageRange", err)
	}
}

func TestLoadAsset(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "logo.png"), 5, 5)

	img, err := LoadAsset(dir, 0, 150)
	if err != nil {
		t.Fatalf("LoadAsset failed: %v", err)
	}
	if img.Bounds().Dx() != 5 {
		t.Errorf("width = %d", img.Bounds().Dx())
	}
	if _, err := LoadAsset(filepath.Join(dir, "missing.png"), 0, 150); err == nil {
		t.Error("expected an error for a missing asset")
	}
}

func TestLoadAssetScalesDown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poster.png")
	writePNG(t, path, MaxAssetSide*2, MaxAssetSide/2)
	img, err := LoadAsset(path, 0, 300)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != MaxAssetSide || b.Dy() != MaxAssetSide/4 {
		t.Errorf("bounds = %v", b)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, side   int
		wantW, wantH int
	}{
		{10, 5, 20, 10, 5},
		{40, 10, 20, 20, 5},
		{10, 40, 20, 5, 20},
		{1000, 1, 10, 10, 1},
	}
	for _, tt := range tests {
		got := fit(image.NewRGBA(image.Rect(0, 0, tt.w, tt.h)), tt.side).Bounds()
		if got.Dx() != tt.wantW || got.Dy() != tt.wantH {
			t.Errorf("fit(%dx%d, %d) = %v, want %dx%d", tt.w, tt.h, tt.side, got, tt.wantW, tt.wantH)
		}
	}
}

func TestQRCode(t *testing.T) {
	img, err := QRCode("https://github.com/ivlev/scene2video", 128, color.White)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx() != b.Dy() || b.Dx() < 100 {
		t.Errorf("bounds = %v", b)
	}
	opaque := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				opaque++
			}
		}
	}
	if opaque == 0 || opaque == b.Dx()*b.Dy() {
		t.Errorf("expected a mix of modules and background, got %d opaque pixels", opaque)
	}
}
