// Package effects builds the ffmpeg -vf chain applied to a scene segment.
package effects

import (
	"fmt"
	"strings"

	"github.com/ivlev/scene2video/internal/config"
	"github.com/ivlev/scene2video/internal/system"
)

type Effect interface {
	GenerateFilter(params config.SegmentParams) string
}

// DefaultEffect downscales supersampled frames, applies the scene fades and
// converts to yuv420p.
type DefaultEffect struct{}

func (e *DefaultEffect) GenerateFilter(p config.SegmentParams) string {
	return strings.Join(baseFilters(p, nil), ",")
}

// baseFilters returns the filter chain with overlay inserted after scaling,
// so overlay text is drawn at output resolution.
func baseFilters(p config.SegmentParams, overlay []string) []string {
	var chain []string
	if p.Supersample > 1 {
		chain = append(chain, fmt.Sprintf("scale=%d:%d:flags=lanczos", p.Width, p.Height))
	}
	chain = append(chain, overlay...)
	if p.FadeIn > 0 {
		chain = append(chain, fmt.Sprintf("fade=t=in:st=0:d=%.3f", p.FadeIn))
	}
	if p.FadeOut > 0 && p.Duration > p.FadeOut {
		chain = append(chain, fmt.Sprintf("fade=t=out:st=%.3f:d=%.3f", p.Duration-p.FadeOut, p.FadeOut))
	}
	chain = append(chain, "format=yuv420p")
	return chain
}

// escapeText escapes a string for use inside a quoted drawtext text value.
func escapeText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`, `%`, `\%`, `,`, `\,`)
	return r.Replace(s)
}

// debugOverlay labels frames with the scene name and running time when the
// local ffmpeg has drawtext.
func debugOverlay(p config.SegmentParams) []string {
	if !p.Debug || !system.CheckFilterSupport("drawtext") {
		return nil
	}
	size := p.Height / 30
	if size < 12 {
		size = 12
	}
	return []string{fmt.Sprintf(
		"drawtext=text='%d %s | %%{pts\\:hms}':x=10:y=10:fontsize=%d:fontcolor=yellow:box=1:boxcolor=black@0.5",
		p.SceneIndex+1, escapeText(p.SceneName), size,
	)}
}
