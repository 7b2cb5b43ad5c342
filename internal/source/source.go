// Package source loads raster assets (PDF pages and PNG/JPEG images) that
// scenes place as image mobjects.
package source

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gen2brain/go-fitz"
)

// ErrPageRange is returned for a page index outside the document.
var ErrPageRange = errors.New("page out of range")

// Document is a paged asset. Page sizes are in points (1/72 inch) so a
// render at dpi is about size*dpi/72 pixels.
type Document interface {
	Pages() int
	PageSize(page int) (width, height float64, err error)
	Render(page, dpi int) (image.Image, error)
	Close() error
}

// pdfDocument renders PDF pages with MuPDF. The fitz document is not safe
// for concurrent use.
type pdfDocument struct {
	mu   sync.Mutex
	doc  *fitz.Document
	path string
}

func openPDF(path string) (*pdfDocument, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &pdfDocument{doc: doc, path: path}, nil
}

func (d *pdfDocument) Pages() int { return d.doc.NumPage() }

func (d *pdfDocument) page(i int) error {
	if n := d.doc.NumPage(); i < 0 || i >= n {
		return fmt.Errorf("%s page %d of %d: %w", d.path, i, n, ErrPageRange)
	}
	return nil
}

func (d *pdfDocument) PageSize(i int) (float64, float64, error) {
	if err := d.page(i); err != nil {
		return 0, 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	b, err := d.doc.Bound(i)
	if err != nil {
		return 0, 0, fmt.Errorf("%s page %d: %w", d.path, i, err)
	}
	return float64(b.Dx()), float64(b.Dy()), nil
}

func (d *pdfDocument) Render(i, dpi int) (image.Image, error) {
	if err := d.page(i); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.ImageDPI(i, float64(dpi))
}

func (d *pdfDocument) Close() error { return d.doc.Close() }
