// Package engine turns scene scripts into a finished video: each scene is
// run, its snapshots rasterized by a worker pool, streamed to ffmpeg as a
// segment, and the segments joined.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/ivlev/scene2video/internal/config"
	"github.com/ivlev/scene2video/internal/director"
	"github.com/ivlev/scene2video/internal/effects"
	"github.com/ivlev/scene2video/internal/renderer"
	"github.com/ivlev/scene2video/internal/scene"
	"github.com/ivlev/scene2video/internal/system"
	"github.com/ivlev/scene2video/internal/video"
)

// ErrNoScenes is returned when a project has nothing to render.
var ErrNoScenes = errors.New("no scenes to render")

type VideoProject struct {
	Config   *config.Config
	Scripts  []scene.Script
	Encoder  video.VideoEncoder
	Effect   effects.Effect
	Scenario *director.Scenario // camera keyframes, optional
	Pool     *system.ImagePool

	tempDir string
	report  report
}

func NewVideoProject(cfg *config.Config, scripts []scene.Script, ve video.VideoEncoder, eff effects.Effect) *VideoProject {
	return &VideoProject{
		Config:  cfg,
		Scripts: scripts,
		Encoder: ve,
		Effect:  eff,
		Pool:    system.DefaultPool(),
	}
}

// sceneJob is everything needed to render one scene.
type sceneJob struct {
	index    int
	script   scene.Script
	timeline director.SceneTimeline
	params   config.SegmentParams
	camera   *renderer.CameraPath
}

func (p *VideoProject) Run(ctx context.Context) error {
	startTime := time.Now()
	if len(p.Scripts) == 0 {
		return ErrNoScenes
	}

	var err error
	p.tempDir, err = os.MkdirTemp("", "scene2video_")
	if err != nil {
		return err
	}
	defer os.RemoveAll(p.tempDir)

	p.resolveEncoder()
	jobs, err := p.plan()
	if err != nil {
		return err
	}
	workers := p.workers(jobs)

	fmt.Println("--- [PROJECT: SCENE ENGINE] ---")
	fmt.Printf("[*] Сцен: %d | Энкодер: %s (q=%d) | Потоков: %d\n", len(jobs), p.Config.VideoEncoder, p.Config.Quality, workers)
	for _, j := range jobs {
		fmt.Printf("[*] %d. %s: %dx%d @ %d FPS, %.2fs, %d кадров\n",
			j.index+1, j.script.Name, j.params.Width, j.params.Height, j.params.FPS, j.timeline.Duration, j.timeline.Frames)
	}
	fmt.Println("-----------------------------")

	segments := make([]video.Segment, 0, len(jobs))
	for _, j := range jobs {
		seg, err := p.renderScene(ctx, j, workers)
		if err != nil {
			return fmt.Errorf("сцена %s: %w", j.script.Name, err)
		}
		seg = p.attachSound(ctx, j, seg)
		segments = append(segments, seg)
	}

	fmt.Println("[*] Сборка финального видео...")
	concatStart := time.Now()
	if dir := filepath.Dir(p.Config.OutputVideo); dir != "" {
		os.MkdirAll(dir, 0755)
	}
	opts := video.ConcatOptions{
		Transition:   p.Config.TransitionType,
		FadeDuration: p.fadeDuration(jobs),
		Encoder:      p.Config.VideoEncoder,
		Quality:      p.Config.Quality,
		Chapters:     len(segments) > 1,
	}
	if err := p.Encoder.Concatenate(ctx, segments, p.Config.OutputVideo, p.tempDir, opts); err != nil {
		return fmt.Errorf("ошибка сборки финального видео: %w", err)
	}
	p.report.concat = time.Since(concatStart)

	if p.Config.TimelineOutput != "" {
		if err := p.writeTimeline(jobs); err != nil {
			log.Printf("[!] Не удалось сохранить таймлайн: %v", err)
		}
	}

	p.report.total = time.Since(startTime)
	if p.Config.ShowStats {
		p.printReport()
	}
	return nil
}

func (p *VideoProject) resolveEncoder() {
	if p.Config.VideoEncoder == "" {
		name, _ := system.GetBestH264Encoder()
		p.Config.VideoEncoder = name
		if name != "libx264" {
			fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", name)
		}
	}
	if p.Config.Quality == 0 {
		switch p.Config.VideoEncoder {
		case "h264_videotoolbox":
			p.Config.Quality = 75
		case "h264_nvenc":
			p.Config.Quality = 28
		default:
			p.Config.Quality = 23
		}
	}
}

// plan runs every script dry to learn its timeline, then fixes the segment
// parameters and camera path of each scene.
func (p *VideoProject) plan() ([]sceneJob, error) {
	jobs := make([]sceneJob, 0, len(p.Scripts))
	for i, sc := range p.Scripts {
		dry, err := sc.Run(p.Config.FPS, nil)
		if err != nil {
			return nil, fmt.Errorf("сцена %s: %w", sc.Name, err)
		}
		if dry.Frames() == 0 {
			return nil, fmt.Errorf("сцена %s: %w", sc.Name, video.ErrNoFrames)
		}
		tl := director.Timeline(sc, dry)
		w, h := p.Config.OutputSize(sc.Frame.Width, sc.Frame.Height)
		j := sceneJob{
			index:    i,
			script:   sc,
			timeline: tl,
			params: config.SegmentParams{
				Width:       w,
				Height:      h,
				Supersample: max(p.Config.Supersample, 1),
				FPS:         dry.FPS,
				Duration:    float64(dry.Frames()) / float64(dry.FPS),
				SceneName:   sc.Name,
				SceneIndex:  i,
				Debug:       p.Config.Debug,
			},
		}
		if p.Scenario != nil {
			if rec := p.Scenario.Scene(sc.Name); rec != nil && len(rec.Camera) > 0 {
				j.camera = renderer.NewCameraPath(rec.Camera, rec.Duration, j.params.Duration, p.Config.CameraSettle)
				j.timeline.Camera = j.camera.Keys()
				fmt.Printf("[*] %s: камера из таймлайна, ключей: %d\n", sc.Name, len(rec.Camera))
			}
		}
		jobs = append(jobs, j)
	}

	// the video opens and closes with a fade; cuts between scenes are
	// left to the transition
	fade := p.fadeDuration(jobs)
	if fade > 0 {
		jobs[0].params.FadeIn = fade
		jobs[len(jobs)-1].params.FadeOut = fade
	}
	return jobs, nil
}

// fadeDuration clamps the configured fade to half the shortest scene.
func (p *VideoProject) fadeDuration(jobs []sceneJob) float64 {
	fade := p.Config.FadeDuration
	minDur := math.Inf(1)
	for _, j := range jobs {
		minDur = math.Min(minDur, j.params.Duration)
	}
	if fade >= minDur {
		fade = minDur / 2
		fmt.Printf("[!] Переход уменьшен до %.2fs из-за короткой сцены\n", fade)
	}
	return fade
}

// workers sizes the render pool from the config or the host.
func (p *VideoProject) workers(jobs []sceneJob) int {
	if p.Config.Workers > 0 {
		return p.Config.Workers
	}
	var biggest uint64
	for _, j := range jobs {
		ss := j.params.Supersample
		biggest = max(biggest, system.FrameBytes(j.params.Width*ss, j.params.Height*ss))
	}
	host := system.HostStats()
	p.report.host = host
	// each worker holds a frame plus the reorder and encoder buffers
	return system.SuggestWorkers(host, biggest*4)
}

// audioDuration probes the length of a sound file.
var audioDuration = system.GetAudioDuration

func (p *VideoProject) attachSound(ctx context.Context, j sceneJob, seg video.Segment) video.Segment {
	snd := j.script.Sound
	if !p.Config.Audio || snd == nil {
		return seg
	}
	path := snd.Path
	if p.Config.SoundsDir != "" {
		path = filepath.Join(p.Config.SoundsDir, filepath.Base(snd.Path))
	}
	fi, err := os.Stat(path)
	if err != nil {
		log.Printf("[!] %s: звук не найден (%s), сцена остается без звука", j.script.Name, path)
		return seg
	}
	if fi.IsDir() {
		if path, err = system.FindLatestAudio(path); err != nil {
			log.Printf("[!] %s: %v, сцена остается без звука", j.script.Name, err)
			return seg
		}
	}
	// without an explicit length, play to the end of the file
	play := snd.Duration
	if play <= 0 {
		length, err := audioDuration(path)
		if err != nil {
			log.Printf("[!] Не удалось получить длительность аудио: %v", err)
		} else {
			play = math.Max(length-snd.Offset, 0)
			if play == 0 {
				log.Printf("[!] %s: звук %s короче смещения %.1fs", j.script.Name, filepath.Base(path), snd.Offset)
				return seg
			}
		}
	}
	dur := seg.Duration
	if play > 0 && play < dur {
		dur = play
	}
	out := filepath.Join(p.tempDir, fmt.Sprintf("s%d_audio.mp4", j.index))
	track := video.AudioTrack{Path: path, Offset: snd.Offset, Duration: dur}
	if err := p.Encoder.AttachAudio(ctx, seg.Path, track, out); err != nil {
		log.Printf("[!] %s: не удалось добавить звук: %v", j.script.Name, err)
		return seg
	}
	fmt.Printf("[*] %s: звук %s (%.1fs)\n", j.script.Name, filepath.Base(path), dur)
	seg.Path = out
	seg.HasAudio = true
	return seg
}

func (p *VideoProject) writeTimeline(jobs []sceneJob) error {
	tls := make([]director.SceneTimeline, len(jobs))
	for i, j := range jobs {
		tls[i] = j.timeline
	}
	if err := director.Write(director.NewScenario(tls...), p.Config.TimelineOutput); err != nil {
		return err
	}
	fmt.Printf("[*] Таймлайн сохранен: %s\n", p.Config.TimelineOutput)
	return nil
}
