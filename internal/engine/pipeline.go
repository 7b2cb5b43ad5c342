package engine

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/scene2video/internal/renderer"
	"github.com/ivlev/scene2video/internal/scene"
	"github.com/ivlev/scene2video/internal/video"
)

// renderJob is one snapshot waiting for a worker. seq is the position in
// the output stream.
type renderJob struct {
	seq  int
	snap *scene.Snapshot
}

// frameSink hands the snapshots of a running script to the render pool.
// With a camera path every frame of a held picture moves the view, so
// repeated snapshots are split into single frames.
type frameSink struct {
	ctx    context.Context
	jobs   chan<- renderJob
	split  bool
	fps    int
	seq    int
	frames int
}

func (s *frameSink) Frame(snap *scene.Snapshot) error {
	if !s.split || snap.Repeat <= 1 {
		return s.send(snap)
	}
	for k := 0; k < snap.Repeat; k++ {
		one := *snap
		one.Index = snap.Index + k
		one.Time = float64(one.Index) / float64(s.fps)
		one.Repeat = 1
		if err := s.send(&one); err != nil {
			return err
		}
	}
	return nil
}

func (s *frameSink) send(snap *scene.Snapshot) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	case s.jobs <- renderJob{seq: s.seq, snap: snap}:
	}
	s.seq++
	s.frames += max(snap.Repeat, 1)
	return nil
}

// renderScene runs the script a second time, rasterizes its snapshots on
// workers goroutines and streams them in order into one segment.
func (p *VideoProject) renderScene(ctx context.Context, j sceneJob, workers int) (video.Segment, error) {
	segPath := filepath.Join(p.tempDir, fmt.Sprintf("s%d.mp4", j.index))
	ss := j.params.Supersample
	w, h := j.params.Width*ss, j.params.Height*ss
	filter := p.Effect.GenerateFilter(j.params)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan renderJob, workers*2)
	rendered := make(chan video.Frame, workers*2)
	ordered := make(chan video.Frame, workers*2)

	sink := &frameSink{ctx: gctx, jobs: jobs, split: j.camera != nil, fps: j.params.FPS}
	g.Go(func() error {
		defer close(jobs)
		_, err := j.script.Run(j.params.FPS, sink)
		return err
	})

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		r := renderer.New(w, h, p.Pool)
		g.Go(func() error {
			defer wg.Done()
			for job := range jobs {
				snap := *job.snap
				snap.Camera = j.camera.Apply(snap.Camera, snap.Time)
				f := video.Frame{Index: job.seq, Image: r.Render(&snap), Repeat: max(snap.Repeat, 1)}
				select {
				case <-gctx.Done():
					p.Pool.Put(f.Image)
					return gctx.Err()
				case rendered <- f:
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(rendered)
	}()

	g.Go(func() error {
		defer close(ordered)
		return reorder(gctx, rendered, ordered, p.Pool.Put)
	})

	var written int
	g.Go(func() error {
		var err error
		written, err = p.Encoder.EncodeFrames(gctx, ordered, segPath, j.params, filter, p.Config.VideoEncoder, p.Config.Quality, p.Pool.Put)
		return err
	})

	if err := g.Wait(); err != nil {
		os.Remove(segPath)
		return video.Segment{}, err
	}

	elapsed := time.Since(start)
	p.report.render += elapsed
	p.report.frames += written
	fmt.Printf("[>] Ready: %s, %d кадров за %.2fs\n", j.script.Name, written, elapsed.Seconds())
	return video.Segment{
		Path:     segPath,
		Title:    j.script.Title,
		Duration: float64(written) / float64(j.params.FPS),
	}, nil
}

// reorder emits frames from in sorted by Index, starting at 0. Frames
// still held when ctx ends are released.
func reorder(ctx context.Context, in <-chan video.Frame, out chan<- video.Frame, release func(*image.RGBA)) error {
	pending := make(map[int]video.Frame)
	next := 0
	defer func() {
		for _, f := range pending {
			release(f.Image)
		}
	}()
	for f := range in {
		pending[f.Index] = f
		for {
			nf, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			select {
			case <-ctx.Done():
				release(nf.Image)
				return ctx.Err()
			case out <- nf:
			}
			next++
		}
	}
	if len(pending) > 0 {
		return fmt.Errorf("кадр %d не получен, в очереди %d", next, len(pending))
	}
	return nil
}
