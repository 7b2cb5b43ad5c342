package scene

import (
	"image/color"
	"math"
)

// DefaultRunTime is the duration of a Play whose animations ask for none.
const DefaultRunTime = 1.0

// RateFunc maps linear progress in [0,1] to eased progress.
type RateFunc func(float64) float64

// Animation changes nodes over the course of a Play.
type Animation interface {
	// Begin is called once before the first frame. Animations capture the
	// starting state of their nodes here, not at construction.
	Begin(s *Scene)
	// Interpolate sets the state at eased progress alpha.
	Interpolate(alpha float64)
	// Finish is called after the last frame.
	Finish(s *Scene)
	// RunTime is the preferred duration in seconds, 0 for the default.
	RunTime() float64
	// Rate is the easing of this animation, nil for linear.
	Rate() RateFunc
	// Label names the animation in timelines.
	Label() string
}

// FrameSink consumes the snapshots a scene produces.
type FrameSink interface {
	Frame(s *Snapshot) error
}

// Camera is the view onto the world: the point shown at the frame centre
// and a magnification. A zero Zoom means 1.
type Camera struct {
	Center Vec
	Zoom   float64
}

// Scale returns the magnification, treating zero as 1.
func (c Camera) Scale() float64 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

// Snapshot is an immutable copy of the display list at one frame. Repeat
// says how many consecutive frames show the same picture.
type Snapshot struct {
	Index      int
	Time       float64
	Repeat     int
	Frame      Frame
	Background color.NRGBA
	Camera     Camera
	Nodes      []*Node
}

// Step records one Play or Wait call.
type Step struct {
	Index    int
	Kind     string
	Start    float64
	Duration float64
	Frames   int
	Labels   []string
}

// Updater is a function run once per frame with the frame duration.
type Updater struct {
	fn func(dt float64)
}

// Sound is optional background audio for a scene.
type Sound struct {
	Path     string
	Offset   float64
	Duration float64
}

// Script is one registered scene definition.
type Script struct {
	Name       string
	Title      string
	Frame      Frame
	Background color.NRGBA
	FPS        int
	Sound      *Sound
	Construct  func(s *Scene)
}

// Scene is the display list and clock of one running script.
type Scene struct {
	Frame      Frame
	Background color.NRGBA
	FPS        int
	Camera     Camera

	mobjects []*Node
	updaters []*Updater
	time     float64
	frames   int
	steps    []Step
	sink     FrameSink
	err      error
}

// NewScene creates an empty scene. A nil sink runs the scene dry: the
// timeline is recorded but no snapshots are taken.
func NewScene(frame Frame, background color.NRGBA, fps int, sink FrameSink) *Scene {
	if fps <= 0 {
		fps = 30
	}
	return &Scene{Frame: frame, Background: background, FPS: fps, sink: sink}
}

// Run builds a scene for the script and executes its construction. fps
// overrides the script's frame rate when positive.
func (sc Script) Run(fps int, sink FrameSink) (*Scene, error) {
	if fps <= 0 {
		fps = sc.FPS
	}
	s := NewScene(sc.Frame, sc.Background, fps, sink)
	if sc.Construct != nil {
		sc.Construct(s)
	}
	return s, s.Err()
}

// Err returns the first error reported by the sink.
func (s *Scene) Err() error { return s.err }

// Time is the scene clock in seconds.
func (s *Scene) Time() float64 { return s.time }

// Frames is the number of frames produced so far.
func (s *Scene) Frames() int { return s.frames }

// Steps returns the recorded timeline.
func (s *Scene) Steps() []Step { return s.steps }

// Mobjects returns the top-level display list.
func (s *Scene) Mobjects() []*Node { return s.mobjects }

// Add puts nodes on top of the display list. Nodes already shown, directly
// or inside a group, are moved rather than duplicated.
func (s *Scene) Add(nodes ...*Node) {
	s.Remove(nodes...)
	s.mobjects = append(s.mobjects, nodes...)
}

// Remove takes nodes and their descendants off the display list. A group
// that contains a removed node is replaced by its remaining members.
func (s *Scene) Remove(nodes ...*Node) {
	gone := make(map[*Node]bool)
	for _, n := range nodes {
		for _, m := range n.Family() {
			gone[m] = true
		}
	}
	var out []*Node
	var walk func(list []*Node)
	walk = func(list []*Node) {
		for _, m := range list {
			switch {
			case gone[m]:
			case touches(m, gone):
				walk(m.Children)
			default:
				out = append(out, m)
			}
		}
	}
	walk(s.mobjects)
	s.mobjects = out
}

func touches(n *Node, set map[*Node]bool) bool {
	for _, m := range n.Family() {
		if set[m] {
			return true
		}
	}
	return false
}

// Contains reports whether n is shown, directly or inside a group.
func (s *Scene) Contains(n *Node) bool {
	for _, m := range s.mobjects {
		for _, f := range m.Family() {
			if f == n {
				return true
			}
		}
	}
	return false
}

// Clear removes every node.
func (s *Scene) Clear() { s.mobjects = nil }

// AddUpdater registers fn to run once per frame.
func (s *Scene) AddUpdater(fn func(dt float64)) *Updater {
	u := &Updater{fn: fn}
	s.updaters = append(s.updaters, u)
	return u
}

// RemoveUpdater stops u.
func (s *Scene) RemoveUpdater(u *Updater) {
	for i, x := range s.updaters {
		if x == u {
			s.updaters = append(s.updaters[:i], s.updaters[i+1:]...)
			return
		}
	}
}

// Play runs the animations together. runTime 0 takes the longest preferred
// run time of the animations; a positive runTime applies to all of them.
func (s *Scene) Play(runTime float64, anims ...Animation) {
	s.PlayRate(runTime, nil, anims...)
}

// PlayRate is Play with one easing applied to every animation.
func (s *Scene) PlayRate(runTime float64, rate RateFunc, anims ...Animation) {
	if len(anims) == 0 {
		return
	}
	durations := make([]float64, len(anims))
	total := runTime
	for i, a := range anims {
		d := runTime
		if d <= 0 {
			d = a.RunTime()
			if d <= 0 {
				d = DefaultRunTime
			}
		}
		durations[i] = d
		if runTime <= 0 && d > total {
			total = d
		}
	}
	labels := make([]string, len(anims))
	for i, a := range anims {
		a.Begin(s)
		labels[i] = a.Label()
	}

	start, startFrame := s.time, s.frames
	n := s.framesUntil(start + total)
	dt := 1 / float64(s.FPS)
	step := func(elapsed float64) {
		for i, a := range anims {
			r := rate
			if r == nil {
				r = a.Rate()
			}
			alpha := clamp01(elapsed / durations[i])
			if r != nil {
				alpha = r(alpha)
			}
			a.Interpolate(alpha)
		}
	}
	if n <= 0 {
		step(total)
	}
	for k := 1; k <= n; k++ {
		step(total * float64(k) / float64(n))
		s.tick(dt)
		s.emit(1)
	}
	for _, a := range anims {
		a.Finish(s)
	}
	s.time = start + total
	s.record("play", start, total, s.frames-startFrame, labels)
}

// Wait holds the current picture for d seconds. Updaters keep running.
func (s *Scene) Wait(d float64) {
	if d <= 0 {
		d = DefaultRunTime
	}
	start, startFrame := s.time, s.frames
	n := s.framesUntil(start + d)
	if len(s.updaters) == 0 {
		if n > 0 {
			s.emit(n)
		}
	} else {
		dt := 1 / float64(s.FPS)
		for k := 0; k < n; k++ {
			s.tick(dt)
			s.emit(1)
		}
	}
	s.time = start + d
	s.record("wait", start, d, s.frames-startFrame, nil)
}

func (s *Scene) framesUntil(t float64) int {
	return int(math.Round(t*float64(s.FPS))) - s.frames
}

func (s *Scene) tick(dt float64) {
	for _, u := range append([]*Updater(nil), s.updaters...) {
		u.fn(dt)
	}
}

func (s *Scene) record(kind string, start, d float64, frames int, labels []string) {
	s.steps = append(s.steps, Step{
		Index:    len(s.steps),
		Kind:     kind,
		Start:    start,
		Duration: d,
		Frames:   frames,
		Labels:   labels,
	})
}

func (s *Scene) emit(repeat int) {
	index := s.frames
	s.frames += repeat
	if s.sink == nil || s.err != nil {
		return
	}
	s.err = s.sink.Frame(s.Snapshot(index, repeat))
}

// Snapshot copies the display list.
func (s *Scene) Snapshot(index, repeat int) *Snapshot {
	nodes := make([]*Node, len(s.mobjects))
	for i, m := range s.mobjects {
		nodes[i] = m.Copy()
	}
	return &Snapshot{
		Index:      index,
		Time:       float64(index) / float64(s.FPS),
		Repeat:     repeat,
		Frame:      s.Frame,
		Background: s.Background,
		Camera:     s.Camera,
		Nodes:      nodes,
	}
}
