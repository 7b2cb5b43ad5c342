// Package director records scene timelines and plans camera tours over them.
package director

import (
	"fmt"
	"math"

	"github.com/ivlev/scene2video/internal/scene"
)

// Version of the timeline file format.
const Version = "2.0"

// Timeline converts the steps a scene recorded into a timeline entry.
func Timeline(sc scene.Script, s *scene.Scene) SceneTimeline {
	tl := SceneTimeline{
		Name:     sc.Name,
		Title:    sc.Title,
		FPS:      s.FPS,
		Duration: s.Time(),
		Frames:   s.Frames(),
	}
	for _, st := range s.Steps() {
		tl.Steps = append(tl.Steps, Step{
			Index:      st.Index,
			Kind:       st.Kind,
			Start:      st.Start,
			Duration:   st.Duration,
			Frames:     st.Frames,
			Animations: append([]string(nil), st.Labels...),
		})
	}
	return tl
}

// NewScenario bundles scene timelines.
func NewScenario(scenes ...SceneTimeline) *Scenario {
	return &Scenario{Version: Version, Scenes: scenes}
}

// Scene returns the timeline of the named scene, or nil.
func (s *Scenario) Scene(name string) *SceneTimeline {
	for i := range s.Scenes {
		if s.Scenes[i].Name == name {
			return &s.Scenes[i]
		}
	}
	return nil
}

// Duration is the total length of all scenes.
func (s *Scenario) Duration() float64 {
	total := 0.0
	for _, sc := range s.Scenes {
		total += sc.Duration
	}
	return total
}

// Director plans camera tours: a full view, a stop at each region, and the
// full view again.
type Director struct {
	Frame    scene.Frame
	MinDwell float64 // seconds per region
	MaxDwell float64
	MaxZoom  float64
	Padding  float64 // fraction of the frame a focused region may fill
}

// NewDirector creates a director with default pacing for frame.
func NewDirector(frame scene.Frame) *Director {
	return &Director{
		Frame:    frame,
		MinDwell: 1.0,
		MaxDwell: 3.0,
		MaxZoom:  3.0,
		Padding:  0.9,
	}
}

// Tour creates camera keyframes visiting regions in order over duration
// seconds.
func (d *Director) Tour(regions []Region, duration float64) ([]Keyframe, error) {
	if len(regions) == 0 {
		return nil, fmt.Errorf("no regions to visit")
	}
	dwell := d.dwellTime(duration, len(regions))

	keys := []Keyframe{{Time: 0, Focus: "full_view", Zoom: 1}}
	t := 1.0
	for i, r := range regions {
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("region_%d", i+1)
		}
		keys = append(keys, Keyframe{Time: t, Focus: name, Center: r.Center(), Zoom: d.Zoom(r)})
		t += dwell
	}
	keys = append(keys, Keyframe{Time: t, Focus: "full_view", Zoom: 1})
	return keys, nil
}

// dwellTime splits the time left after a 1s intro and outro between n
// regions.
func (d *Director) dwellTime(total float64, n int) float64 {
	avail := total - 2
	if avail <= 0 {
		avail = total
	}
	return math.Max(d.MinDwell, math.Min(d.MaxDwell, avail/float64(n)))
}

// Zoom is the magnification that fits r into the padded frame, between 1
// and MaxZoom.
func (d *Director) Zoom(r Region) float64 {
	w, h := r.MaxX-r.MinX, r.MaxY-r.MinY
	if w <= 0 || h <= 0 {
		return 1
	}
	z := math.Min(d.Frame.Width*d.Padding/w, d.Frame.Height*d.Padding/h)
	return math.Max(1, math.Min(d.MaxZoom, z))
}
