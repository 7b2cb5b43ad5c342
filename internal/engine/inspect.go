package engine

import (
	"fmt"
	"image"
	"sort"

	"github.com/ivlev/scene2video/internal/analyzer"
	"github.com/ivlev/scene2video/internal/config"
	"github.com/ivlev/scene2video/internal/director"
	"github.com/ivlev/scene2video/internal/renderer"
	"github.com/ivlev/scene2video/internal/scene"
)

// maxTourStops caps how many detected blocks a generated tour visits.
const maxTourStops = 6

// captureSink keeps the snapshots showing the wanted frame indices.
type captureSink struct {
	want []int
	got  map[int]*scene.Snapshot
}

func newCaptureSink(frames ...int) *captureSink {
	return &captureSink{want: frames, got: make(map[int]*scene.Snapshot)}
}

func (c *captureSink) Frame(s *scene.Snapshot) error {
	for _, f := range c.want {
		if f >= s.Index && f < s.Index+max(s.Repeat, 1) {
			c.got[f] = s
		}
	}
	return nil
}

// Timeline runs sc dry and returns its recorded timeline.
func Timeline(cfg *config.Config, sc scene.Script) (director.SceneTimeline, error) {
	s, err := sc.Run(cfg.FPS, nil)
	if err != nil {
		return director.SceneTimeline{}, err
	}
	return director.Timeline(sc, s), nil
}

// Tour returns the timeline of sc with a camera path that visits the
// content blocks of its final picture in reading order.
func Tour(cfg *config.Config, sc scene.Script) (director.SceneTimeline, error) {
	tl, err := Timeline(cfg, sc)
	if err != nil {
		return tl, err
	}
	if tl.Frames == 0 {
		return tl, fmt.Errorf("%s: пустая сцена", sc.Name)
	}
	last := tl.Frames - 1
	capture := newCaptureSink(last)
	if _, err := sc.Run(cfg.FPS, capture); err != nil {
		return tl, err
	}
	snap := capture.got[last]
	if snap == nil {
		return tl, fmt.Errorf("%s: кадр %d не найден", sc.Name, last)
	}

	w, h := cfg.OutputSize(sc.Frame.Width, sc.Frame.Height)
	r := renderer.New(w, h, nil)
	img := r.Render(snap)
	blocks, err := detect(img)
	r.Release(img)
	if err != nil {
		return tl, err
	}
	if len(blocks) > maxTourStops {
		sort.SliceStable(blocks, func(i, j int) bool { return area(blocks[i].Rect) > area(blocks[j].Rect) })
		blocks = blocks[:maxTourStops]
	}
	blocks = analyzer.ReadingOrder(blocks, h/20)

	regions := make([]director.Region, len(blocks))
	for i, b := range blocks {
		ul := r.ToWorld(snap.Frame, snap.Camera, float64(b.Rect.Min.X), float64(b.Rect.Min.Y))
		br := r.ToWorld(snap.Frame, snap.Camera, float64(b.Rect.Max.X), float64(b.Rect.Max.Y))
		regions[i] = director.Region{
			Name: fmt.Sprintf("%s_%d", b.Type, i+1),
			MinX: ul.X, MinY: br.Y,
			MaxX: br.X, MaxY: ul.Y,
		}
	}
	keys, err := director.NewDirector(sc.Frame).Tour(regions, tl.Duration)
	if err != nil {
		return tl, fmt.Errorf("%s: %w", sc.Name, err)
	}
	tl.Camera = keys
	fmt.Printf("[*] %s: найдено блоков %d, ключей камеры %d\n", sc.Name, len(blocks), len(keys))
	return tl, nil
}

// StepReport lists the margin violations in the picture a step ends on.
type StepReport struct {
	Step       director.Step
	Violations []analyzer.Violation
}

// Check renders the last frame of every step of sc and reports content
// that reaches into the frame margin.
func Check(cfg *config.Config, sc scene.Script) ([]StepReport, error) {
	tl, err := Timeline(cfg, sc)
	if err != nil {
		return nil, err
	}
	var frames []int
	end := 0
	for _, st := range tl.Steps {
		end += st.Frames
		if st.Frames > 0 {
			frames = append(frames, end-1)
		}
	}
	capture := newCaptureSink(frames...)
	if _, err := sc.Run(cfg.FPS, capture); err != nil {
		return nil, err
	}

	w, h := cfg.OutputSize(sc.Frame.Width, sc.Frame.Height)
	r := renderer.New(w, h, nil)
	bounds := image.Rect(0, 0, w, h)
	var out []StepReport
	end = 0
	for _, st := range tl.Steps {
		end += st.Frames
		snap := capture.got[end-1]
		if st.Frames == 0 || snap == nil {
			continue
		}
		img := r.Render(snap)
		blocks, err := detect(img)
		r.Release(img)
		if err != nil {
			return nil, err
		}
		if v := analyzer.CheckMargins(blocks, bounds, cfg.Margin); len(v) > 0 {
			out = append(out, StepReport{Step: st, Violations: v})
		}
	}
	return out, nil
}

func detect(img image.Image) ([]analyzer.Block, error) {
	d, err := analyzer.NewDetector("contrast")
	if err != nil {
		return nil, err
	}
	return d.Detect(img)
}

func area(r image.Rectangle) int { return r.Dx() * r.Dy() }
