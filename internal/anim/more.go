package anim

import (
	"fmt"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/ivlev/scene2video/internal/scene"
)

// lagged maps group progress to the progress of member i of n when each
// member starts lag of a member's duration after the previous one.
func lagged(alpha float64, i, n int, lag float64) float64 {
	full := float64(n-1)*lag + 1
	v := alpha*full - float64(i)*lag
	return math.Max(0, math.Min(1, v))
}

// reveal draws the leaves of a node one after another.
type reveal struct {
	base
	node   *scene.Node
	write  bool
	leaves []*scene.Node
	drawn  []float64
	fill   []float64
}

// Create adds n and draws its outlines leaf by leaf.
func Create(n *scene.Node, opts ...Option) scene.Animation {
	cfg := newConfig(config{rate: Smooth, lag: 1}, opts)
	return &reveal{base: base{cfg: cfg, label: label("Create", n)}, node: n}
}

// Write adds n and writes it: text glyphs appear left to right, outlines
// are traced and then filled.
func Write(n *scene.Node, opts ...Option) scene.Animation {
	length := 0
	for _, l := range n.Leaves() {
		if l.Kind == scene.KindText {
			length += l.GlyphCount()
		} else {
			length++
		}
	}
	def := config{rate: Smooth, runTime: 1, lag: math.Min(4/math.Max(1, float64(length)), 0.2)}
	if length >= 15 {
		def.runTime = 2
	}
	cfg := newConfig(def, opts)
	return &reveal{base: base{cfg: cfg, label: label("Write", n)}, node: n, write: true}
}

func (a *reveal) Begin(s *scene.Scene) {
	s.Add(a.node)
	a.leaves = a.node.Leaves()
	a.drawn = make([]float64, len(a.leaves))
	a.fill = make([]float64, len(a.leaves))
	for i, l := range a.leaves {
		a.drawn[i] = l.Drawn
		a.fill[i] = l.Style.FillOpacity
	}
	a.Interpolate(0)
}

func (a *reveal) Interpolate(alpha float64) {
	for i, l := range a.leaves {
		sub := lagged(alpha, i, len(a.leaves), a.cfg.lag)
		if a.write && l.Kind == scene.KindPath {
			l.Drawn = a.drawn[i] * math.Min(1, 2*sub)
			l.Style.FillOpacity = a.fill[i] * math.Max(0, 2*sub-1)
			continue
		}
		l.Drawn = a.drawn[i] * sub
	}
}

func (a *reveal) Finish(*scene.Scene) {
	for i, l := range a.leaves {
		l.Drawn = a.drawn[i]
		l.Style.FillOpacity = a.fill[i]
	}
}

// group plays animations with staggered starts.
type group struct {
	base
	anims  []scene.Animation
	starts []float64
	durs   []float64
	total  float64
}

// LaggedStart plays anims so that each starts a fraction (Lag, default
// 0.05) of the previous one's duration after it.
func LaggedStart(anims []scene.Animation, opts ...Option) scene.Animation {
	return newGroup("LaggedStart", anims, newConfig(config{lag: 0.05}, opts))
}

// Together plays anims as one animation.
func Together(anims []scene.Animation, opts ...Option) scene.Animation {
	return newGroup("Group", anims, newConfig(config{}, opts))
}

func newGroup(verb string, anims []scene.Animation, cfg config) *group {
	g := &group{base: base{cfg: cfg, label: verb}, anims: anims}
	cur := 0.0
	for _, a := range anims {
		d := a.RunTime()
		if d <= 0 {
			d = scene.DefaultRunTime
		}
		start := cur
		end := start + d
		g.starts = append(g.starts, start)
		g.durs = append(g.durs, d)
		g.total = math.Max(g.total, end)
		cur = (1-cfg.lag)*start + cfg.lag*end
	}
	g.label = fmt.Sprintf("%s(%d)", verb, len(anims))
	return g
}

func (g *group) RunTime() float64 {
	if g.cfg.runTime > 0 {
		return g.cfg.runTime
	}
	return g.total
}

func (g *group) Begin(s *scene.Scene) {
	for _, a := range g.anims {
		a.Begin(s)
	}
}

func (g *group) Interpolate(alpha float64) {
	t := alpha * g.total
	for i, a := range g.anims {
		sub := math.Max(0, math.Min(1, (t-g.starts[i])/g.durs[i]))
		if r := a.Rate(); r != nil {
			sub = r(sub)
		}
		a.Interpolate(sub)
	}
}

func (g *group) Finish(s *scene.Scene) {
	for _, a := range g.anims {
		a.Finish(s)
	}
}

// moveAlong moves a node's centre along a path.
type moveAlong struct {
	base
	node  *scene.Node
	path  *scene.Node
	route *scene.Node
}

// MoveAlongPath moves the centre of n along path by arc length.
func MoveAlongPath(n, path *scene.Node, opts ...Option) scene.Animation {
	cfg := newConfig(config{rate: Smooth}, opts)
	return &moveAlong{base: base{cfg: cfg, label: label("MoveAlongPath", n)}, node: n, path: path}
}

func (a *moveAlong) Begin(*scene.Scene) { a.route = a.path.Copy() }

func (a *moveAlong) Interpolate(alpha float64) {
	a.node.MoveTo(a.route.PointFromProportion(alpha))
}

func (a *moveAlong) Finish(*scene.Scene) {}

const (
	flashLines      = 12
	flashLineLength = 0.2
	flashStroke     = 3
)

// flash sends short lines outwards from a point.
type flash struct {
	base
	target *scene.Node
	lines  *scene.Node
}

// Flash radiates lines around the centre of n.
func Flash(n *scene.Node, opts ...Option) scene.Animation {
	cfg := newConfig(config{rate: Smooth, radius: 0.3}, opts)
	return &flash{base: base{cfg: cfg, label: label("Flash", n)}, target: n}
}

func (a *flash) Begin(s *scene.Scene) {
	col := scene.Yellow
	if a.cfg.color != nil {
		col = *a.cfg.color
	}
	c := a.target.Center()
	a.lines = scene.Group()
	for i := 0; i < flashLines; i++ {
		dir := scene.Polar(1, 2*math.Pi*float64(i)/flashLines)
		from := c.Add(dir.Mul(a.cfg.radius))
		to := c.Add(dir.Mul(a.cfg.radius + flashLineLength))
		a.lines.Add(scene.Line(from, to, scene.Stroke(col, flashStroke)))
	}
	s.Add(a.lines)
	a.Interpolate(0)
}

// Interpolate shows a window one line long sliding from the inner to the
// outer end.
func (a *flash) Interpolate(alpha float64) {
	upper := 2 * alpha
	lower := upper - 1
	for _, l := range a.lines.Children {
		l.DrawFrom = math.Max(0, math.Min(1, lower))
		l.Drawn = math.Max(0, math.Min(1, upper))
	}
}

func (a *flash) Finish(s *scene.Scene) { s.Remove(a.lines) }

// Trace is a path that follows a moving point, one vertex per frame.
type Trace struct {
	*scene.Node
	updater *scene.Updater
}

// TracedPath starts tracing point in s. The returned node is not added to
// the scene.
func TracedPath(s *scene.Scene, point func() scene.Vec, opts ...scene.Option) *Trace {
	n := scene.Polyline([]scene.Vec{point()}, opts...)
	n.Style.FillOpacity = 0
	t := &Trace{Node: n}
	t.updater = s.AddUpdater(func(float64) {
		t.Points = append(t.Points, point())
	})
	return t
}

// Stop freezes the trace.
func (t *Trace) Stop(s *scene.Scene) { s.RemoveUpdater(t.updater) }

// Pulse makes the opacity of n breathe between lo and hi with the given
// period until the returned updater is removed.
func Pulse(s *scene.Scene, n *scene.Node, period, lo, hi float64) *scene.Updater {
	half := float32(period / 2)
	rising := false
	tw := gween.New(float32(hi), float32(lo), half, ease.InOutSine)
	return s.AddUpdater(func(dt float64) {
		v, done := tw.Update(float32(dt))
		n.Opacity = float64(v)
		if !done {
			return
		}
		rising = !rising
		if rising {
			tw = gween.New(float32(lo), float32(hi), half, ease.InOutSine)
		} else {
			tw = gween.New(float32(hi), float32(lo), half, ease.InOutSine)
		}
	})
}

// camera pans and zooms the scene view.
type camera struct {
	base
	s        *scene.Scene
	from, to scene.Camera
}

// MoveCamera pans the view to centre and sets the magnification. Zoom is
// interpolated geometrically so equal times give equal zoom ratios.
func MoveCamera(center scene.Vec, zoom float64, opts ...Option) scene.Animation {
	cfg := newConfig(config{rate: Smooth}, opts)
	return &camera{
		base: base{cfg: cfg, label: fmt.Sprintf("MoveCamera(x%.2f)", zoom)},
		to:   scene.Camera{Center: center, Zoom: zoom},
	}
}

func (a *camera) Begin(s *scene.Scene) {
	a.s = s
	a.from = scene.Camera{Center: s.Camera.Center, Zoom: s.Camera.Scale()}
	a.to.Zoom = a.to.Scale()
}

func (a *camera) Interpolate(alpha float64) {
	a.s.Camera = scene.Camera{
		Center: a.from.Center.Lerp(a.to.Center, alpha),
		Zoom:   a.from.Zoom * math.Pow(a.to.Zoom/a.from.Zoom, alpha),
	}
}

func (a *camera) Finish(*scene.Scene) {}
