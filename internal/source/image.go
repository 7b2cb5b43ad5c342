package source

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ivlev/scene2video/internal/system"
)

// imageSet is a single image file, or every PNG/JPEG of a directory in
// name order, one per page. Images are treated as 72 dpi.
type imageSet struct {
	paths []string
}

func isImage(name string) bool {
	return slices.Contains(system.ImageExtensions, strings.ToLower(filepath.Ext(name)))
}

func openImages(path string) (*imageSet, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return &imageSet{paths: []string{path}}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	s := &imageSet{}
	for _, e := range entries {
		if !e.IsDir() && isImage(e.Name()) {
			s.paths = append(s.paths, filepath.Join(path, e.Name()))
		}
	}
	slices.Sort(s.paths)
	return s, nil
}

func (s *imageSet) Pages() int { return len(s.paths) }

func (s *imageSet) open(i int) (*os.File, error) {
	if i < 0 || i >= len(s.paths) {
		return nil, fmt.Errorf("image %d of %d: %w", i, len(s.paths), ErrPageRange)
	}
	return os.Open(s.paths[i])
}

func (s *imageSet) PageSize(i int) (float64, float64, error) {
	f, err := s.open(i)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", s.paths[i], err)
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

// Render decodes the image at its own resolution; dpi is ignored.
func (s *imageSet) Render(i, _ int) (image.Image, error) {
	f, err := s.open(i)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.paths[i], err)
	}
	return img, nil
}

func (s *imageSet) Close() error { return nil }
