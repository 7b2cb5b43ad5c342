package source

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"

	"github.com/ivlev/scene2video/internal/system"
)

// MaxAssetSide caps the longer side of a loaded asset in pixels. Scenes
// show assets at a fraction of the frame, so more detail is never drawn.
const MaxAssetSide = 2048

// Open picks the document type for path by extension: PDF through MuPDF,
// anything else as images.
func Open(path string) (Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return openPDF(path)
	}
	return openImages(path)
}

// LoadAsset renders one page of the asset at path. A directory resolves to
// its newest image or PDF. PDF pages are rendered at dpi, lowered if the
// page would exceed MaxAssetSide; larger images are scaled down.
func LoadAsset(path string, page, dpi int) (image.Image, error) {
	resolved, err := system.FindLatestAsset(path)
	if err != nil {
		return nil, fmt.Errorf("asset %s: %w", path, err)
	}
	doc, err := Open(resolved)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	w, h, err := doc.PageSize(page)
	if err != nil {
		return nil, err
	}
	if long := math.Max(w, h); long > 0 {
		dpi = min(dpi, int(MaxAssetSide*72/long))
	}
	img, err := doc.Render(page, max(dpi, 1))
	if err != nil {
		return nil, err
	}
	return fit(img, MaxAssetSide), nil
}

// fit scales img down so neither side exceeds side pixels.
func fit(img image.Image, side int) image.Image {
	b := img.Bounds()
	long := max(b.Dx(), b.Dy())
	if long <= side {
		return img
	}
	w := max(1, b.Dx()*side/long)
	h := max(1, b.Dy()*side/long)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// QRCode encodes content as a square image of size pixels, drawn in fg on
// a transparent background.
func QRCode(content string, size int, fg color.Color) (image.Image, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}
	q.DisableBorder = true
	q.ForegroundColor = fg
	q.BackgroundColor = color.Transparent
	return q.Image(size), nil
}
