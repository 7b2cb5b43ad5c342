package effects

import (
	"fmt"
	"strings"

	"github.com/ivlev/scene2video/internal/config"
	"github.com/ivlev/scene2video/internal/director"
	"github.com/ivlev/scene2video/internal/system"
)

// TimelineEffect is DefaultEffect plus, in debug mode, a caption naming the
// animations of the step playing at each moment.
type TimelineEffect struct {
	Scenario *director.Scenario
}

func NewTimelineEffect(s *director.Scenario) *TimelineEffect {
	return &TimelineEffect{Scenario: s}
}

func (e *TimelineEffect) GenerateFilter(p config.SegmentParams) string {
	overlay := debugOverlay(p)
	if p.Debug && e.Scenario != nil && system.CheckFilterSupport("drawtext") {
		if tl := e.Scenario.Scene(p.SceneName); tl != nil {
			overlay = append(overlay, stepCaptions(tl, p)...)
		}
	}
	return strings.Join(baseFilters(p, overlay), ",")
}

// stepCaptions draws one caption per play step, enabled while the step
// runs. Key times are scaled when the segment is longer or shorter than the
// recorded timeline.
func stepCaptions(tl *director.SceneTimeline, p config.SegmentParams) []string {
	scale := 1.0
	if tl.Duration > 0 && p.Duration > 0 {
		scale = p.Duration / tl.Duration
	}
	size := p.Height / 40
	if size < 10 {
		size = 10
	}
	var out []string
	for _, st := range tl.Steps {
		if st.Kind != "play" || len(st.Animations) == 0 {
			continue
		}
		out = append(out, fmt.Sprintf(
			"drawtext=text='#%d %s':x=10:y=h-th-10:fontsize=%d:fontcolor=white:box=1:boxcolor=black@0.5:enable='between(t,%.3f,%.3f)'",
			st.Index, escapeText(strings.Join(st.Animations, " ")), size, st.Start*scale, st.End()*scale,
		))
	}
	return out
}
