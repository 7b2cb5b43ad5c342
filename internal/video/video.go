// Package video drives ffmpeg: raw frames in, H.264 segments out, then
// joins segments with optional cross-fades, audio and chapter metadata.
package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"

	"github.com/ivlev/scene2video/internal/config"
)

// ErrNoFrames is returned when a segment ends before any frame arrived.
var ErrNoFrames = errors.New("no frames")

// Frame is one rendered picture shown for Repeat consecutive frames.
type Frame struct {
	Index  int
	Image  *image.RGBA
	Repeat int
}

type VideoEncoder interface {
	EncodeFrames(ctx context.Context, frames <-chan Frame, videoPath string, params config.SegmentParams, filter, encoderName string, quality int, release func(*image.RGBA)) (int, error)
	Concatenate(ctx context.Context, segments []Segment, finalPath, tmpDir string, opts ConcatOptions) error
	AttachAudio(ctx context.Context, videoPath string, track AudioTrack, outPath string) error
}

type FFmpegEncoder struct{}

// EncodeFrames streams frames to ffmpeg's stdin as raw RGBA and returns the
// number of video frames written. Every received frame is passed to release
// once written. On failure the rest of the channel is drained in the
// background so the producer never blocks.
func (e *FFmpegEncoder) EncodeFrames(
	ctx context.Context,
	frames <-chan Frame,
	videoPath string,
	params config.SegmentParams,
	filter string,
	encoderName string,
	quality int,
	release func(*image.RGBA),
) (int, error) {
	if release == nil {
		release = func(*image.RGBA) {}
	}
	drain := func() {
		go func() {
			for f := range frames {
				release(f.Image)
			}
		}()
	}

	inW, inH := params.Width*supersample(params), params.Height*supersample(params)
	args := buildSegmentArgs(inW, inH, videoPath, params, filter, encoderName, quality)
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		drain()
		return 0, fmt.Errorf("stdin pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		drain()
		return 0, fmt.Errorf("ffmpeg start error: %w", err)
	}

	written := 0
	var writeErr error
	for f := range frames {
		if writeErr == nil {
			for r := 0; r < max(f.Repeat, 1) && writeErr == nil; r++ {
				writeErr = writeRawRGBA(stdin, f.Image, inW, inH)
				if writeErr == nil {
					written++
				}
			}
		}
		release(f.Image)
		if writeErr != nil {
			drain()
			break
		}
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return written, fmt.Errorf("ffmpeg wait error: %w\n%s", err, tail(out.String(), 2000))
	}
	if writeErr != nil {
		return written, fmt.Errorf("write raw error: %w", writeErr)
	}
	if written == 0 {
		return 0, fmt.Errorf("%s: %w", videoPath, ErrNoFrames)
	}
	return written, nil
}

func supersample(p config.SegmentParams) int {
	if p.Supersample < 1 {
		return 1
	}
	return p.Supersample
}

func buildSegmentArgs(inputW, inputH int, videoPath string, params config.SegmentParams, filter, encoderName string, quality int) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", inputW, inputH),
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-i", "-",
	}
	if filter != "" {
		args = append(args, "-vf", filter)
	}
	args = append(args, "-r", fmt.Sprintf("%d", params.FPS), "-c:v", encoderName)
	args = append(args, qualityArgs(encoderName, quality)...)
	args = append(args, "-movflags", "+faststart", videoPath)
	return args
}

// qualityArgs maps the quality setting onto the encoder's own rate control.
func qualityArgs(encoderName string, quality int) []string {
	switch encoderName {
	case "h264_videotoolbox":
		// VideoToolbox does not take -q:v on every build; use a bitrate.
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

// writeRawRGBA writes img as tightly packed RGBA of exactly w×h pixels.
func writeRawRGBA(wr io.Writer, img *image.RGBA, w, h int) error {
	if img == nil {
		return errors.New("nil frame")
	}
	bounds := img.Bounds()
	if bounds.Dx() != w || bounds.Dy() != h {
		return fmt.Errorf("frame is %dx%d, segment expects %dx%d", bounds.Dx(), bounds.Dy(), w, h)
	}
	if img.Stride != w*4 || bounds.Min != (image.Point{}) {
		packed := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(packed, packed.Bounds(), img, bounds.Min, draw.Src)
		img = packed
	}
	_, err := wr.Write(img.Pix[:w*h*4])
	return err
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
