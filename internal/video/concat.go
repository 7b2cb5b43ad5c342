package video

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Segment is one encoded scene.
type Segment struct {
	Path     string
	Title    string
	Duration float64
	HasAudio bool
}

// ConcatOptions controls how segments are joined.
type ConcatOptions struct {
	Transition   string  // xfade transition name, "" or "none" for a cut
	FadeDuration float64 // seconds
	Encoder      string
	Quality      int
	Chapters     bool
}

func (o ConcatOptions) crossFade(n int) bool {
	return n > 1 && o.Transition != "" && o.Transition != "none" && o.FadeDuration > 0
}

// Chapter is a titled span of the final video.
type Chapter struct {
	Title      string
	Start, End float64 // seconds
}

// Chapters lays segments end to end. With a cross-fade each segment after
// the first starts fade seconds earlier.
func Chapters(segments []Segment, fade float64) []Chapter {
	var out []Chapter
	t := 0.0
	for i, s := range segments {
		start := t
		if i > 0 {
			start -= fade
		}
		end := start + s.Duration
		out = append(out, Chapter{Title: s.Title, Start: start, End: end})
		t = end
	}
	return out
}

// WriteChapters stores chapters in ffmetadata format.
func WriteChapters(path string, chapters []Chapter) error {
	var b strings.Builder
	b.WriteString(";FFMETADATA1\n")
	for _, c := range chapters {
		fmt.Fprintf(&b, "[CHAPTER]\nTIMEBASE=1/1000\nSTART=%d\nEND=%d\ntitle=%s\n",
			int64(c.Start*1000+0.5), int64(c.End*1000+0.5), escapeMetadata(c.Title))
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

func escapeMetadata(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `=`, `\=`, `;`, `\;`, `#`, `\#`, "\n", `\`+"\n")
	return r.Replace(s)
}

// Concatenate joins segments into finalPath. Plain cuts of silent segments
// are stream-copied through the concat demuxer; cross-fades or audio go
// through a filter graph and are re-encoded.
func (e *FFmpegEncoder) Concatenate(ctx context.Context, segments []Segment, finalPath, tmpDir string, opts ConcatOptions) error {
	if len(segments) == 0 {
		return fmt.Errorf("concat: %w", ErrNoFrames)
	}
	chapterFile := ""
	if opts.Chapters {
		chapterFile = filepath.Join(tmpDir, "chapters.txt")
		fade := 0.0
		if opts.crossFade(len(segments)) {
			fade = opts.FadeDuration
		}
		if err := WriteChapters(chapterFile, Chapters(segments, fade)); err != nil {
			return err
		}
	}

	var args []string
	if !opts.crossFade(len(segments)) && !anyAudio(segments) {
		listPath := filepath.Join(tmpDir, "inputs.txt")
		if err := writeConcatList(listPath, segments); err != nil {
			return err
		}
		args = concatCopyArgs(listPath, chapterFile, finalPath)
	} else {
		args = concatFilterArgs(segments, chapterFile, finalPath, opts)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat error: %w, output: %s", err, tail(string(out), 2000))
	}
	return nil
}

func anyAudio(segments []Segment) bool {
	for _, s := range segments {
		if s.HasAudio {
			return true
		}
	}
	return false
}

func writeConcatList(path string, segments []Segment) error {
	var b strings.Builder
	for _, s := range segments {
		abs, err := filepath.Abs(s.Path)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

func concatCopyArgs(listPath, chapterFile, finalPath string) []string {
	args := []string{"-y", "-f", "concat", "-safe", "0", "-i", listPath}
	if chapterFile != "" {
		args = append(args, "-i", chapterFile, "-map", "0", "-map_metadata", "1", "-map_chapters", "1")
	}
	return append(args, "-c", "copy", "-movflags", "+faststart", finalPath)
}

// concatFilterArgs builds the xfade/acrossfade (or concat filter) graph.
// Silent segments get a generated silent track when any segment has audio.
func concatFilterArgs(segments []Segment, chapterFile, finalPath string, opts ConcatOptions) []string {
	n := len(segments)
	args := []string{"-y"}
	for _, s := range segments {
		args = append(args, "-i", s.Path)
	}
	withAudio := anyAudio(segments)

	var graph []string
	audio := make([]string, n)
	if withAudio {
		for i, s := range segments {
			if s.HasAudio {
				graph = append(graph, fmt.Sprintf("[%d:a]aresample=44100,aformat=channel_layouts=stereo,apad=whole_dur=%.3f[a%d]", i, s.Duration, i))
			} else {
				graph = append(graph, fmt.Sprintf("anullsrc=r=44100:cl=stereo,atrim=duration=%.3f[a%d]", s.Duration, i))
			}
			audio[i] = fmt.Sprintf("[a%d]", i)
		}
	}

	videoOut, audioOut := "[0:v]", audio[0]
	if opts.crossFade(n) {
		offset := 0.0
		for i := 1; i < n; i++ {
			offset += segments[i-1].Duration - opts.FadeDuration
			v := fmt.Sprintf("[v%d]", i)
			graph = append(graph, fmt.Sprintf("%s[%d:v]xfade=transition=%s:duration=%.3f:offset=%.3f%s",
				videoOut, i, opts.Transition, opts.FadeDuration, offset, v))
			videoOut = v
			if withAudio {
				a := fmt.Sprintf("[ax%d]", i)
				graph = append(graph, fmt.Sprintf("%s%sacrossfade=d=%.3f%s", audioOut, audio[i], opts.FadeDuration, a))
				audioOut = a
			}
		}
	} else if n > 1 || withAudio {
		var in strings.Builder
		for i := 0; i < n; i++ {
			fmt.Fprintf(&in, "[%d:v]%s", i, audio[i])
		}
		a := 0
		videoOut = "[vcat]"
		outs := videoOut
		if withAudio {
			a = 1
			audioOut = "[acat]"
			outs += audioOut
		}
		graph = append(graph, fmt.Sprintf("%sconcat=n=%d:v=1:a=%d%s", in.String(), n, a, outs))
	}

	if chapterFile != "" {
		args = append(args, "-i", chapterFile)
	}
	if len(graph) > 0 {
		args = append(args, "-filter_complex", strings.Join(graph, ";"))
	}
	args = append(args, "-map", mapLabel(videoOut))
	if withAudio {
		args = append(args, "-map", mapLabel(audioOut), "-c:a", "aac", "-b:a", "192k")
	}
	if chapterFile != "" {
		args = append(args, "-map_metadata", fmt.Sprint(n), "-map_chapters", fmt.Sprint(n))
	}
	encoder := opts.Encoder
	if encoder == "" {
		encoder = "libx264"
	}
	args = append(args, "-c:v", encoder, "-pix_fmt", "yuv420p")
	args = append(args, qualityArgs(encoder, opts.Quality)...)
	return append(args, "-movflags", "+faststart", finalPath)
}

// mapLabel turns a filter pad like [v1] into a -map argument; input
// streams such as [0:v] become 0:v.
func mapLabel(l string) string {
	if strings.Contains(l, ":") {
		return strings.Trim(l, "[]")
	}
	return l
}

// AudioTrack is background audio for one segment.
type AudioTrack struct {
	Path     string
	Offset   float64 // seconds into the file
	Duration float64 // 0 plays the whole file
}

// AttachAudio muxes track under the video, stream-copying the picture. A
// track with a Duration is cut there and faded out over its last second;
// callers cap Duration at the video length.
func (e *FFmpegEncoder) AttachAudio(ctx context.Context, videoPath string, track AudioTrack, outPath string) error {
	if _, err := os.Stat(track.Path); err != nil {
		return fmt.Errorf("audio track: %w", err)
	}
	cmd := exec.CommandContext(ctx, "ffmpeg", attachAudioArgs(videoPath, track, outPath)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg audio error: %w, output: %s", err, tail(string(out), 2000))
	}
	return nil
}

func attachAudioArgs(videoPath string, track AudioTrack, outPath string) []string {
	args := []string{"-y", "-i", videoPath}
	if track.Offset > 0 {
		args = append(args, "-ss", fmt.Sprintf("%.3f", track.Offset))
	}
	if track.Duration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.3f", track.Duration))
	}
	args = append(args, "-i", track.Path, "-map", "0:v", "-map", "1:a", "-c:v", "copy", "-c:a", "aac", "-b:a", "192k")
	if track.Duration > 2 {
		args = append(args, "-af", fmt.Sprintf("afade=t=out:st=%.3f:d=1", track.Duration-1))
	}
	return append(args, outPath)
}
