package scene

import (
	"image"
	"math"
)

const (
	circleSegments = 72
	cornerSegments = 8
	graphSamples   = 120

	// DefaultDotRadius is the radius of a Dot created with radius 0.
	DefaultDotRadius = 0.08

	tagArrow = "arrow"
	tagLine  = "line"
)

func path(pts []Vec, closed bool) *Node {
	n := newNode(KindPath)
	n.Points = pts
	n.Closed = closed
	return n
}

func arcPoints(c Vec, r, start, angle float64, segments int) []Vec {
	pts := make([]Vec, segments+1)
	for i := range pts {
		a := start + angle*float64(i)/float64(segments)
		pts[i] = c.Add(Polar(r, a))
	}
	return pts
}

// Circle creates an outlined circle centred on the origin.
func Circle(radius float64, opts ...Option) *Node {
	pts := arcPoints(Origin, radius, 0, 2*math.Pi, circleSegments)
	return path(pts[:circleSegments], true).apply(opts)
}

// Dot creates a small filled disc at p.
func Dot(p Vec, radius float64, opts ...Option) *Node {
	if radius == 0 {
		radius = DefaultDotRadius
	}
	n := Circle(radius)
	n.Style.StrokeWidth = 0
	n.Style.FillOpacity = 1
	n.Shift(p)
	return n.apply(opts)
}

// Arc creates an open circular arc around c.
func Arc(c Vec, radius, startAngle, angle float64, opts ...Option) *Node {
	seg := int(math.Ceil(math.Abs(angle) / (2 * math.Pi) * circleSegments))
	if seg < 4 {
		seg = 4
	}
	return path(arcPoints(c, radius, startAngle, angle, seg), false).apply(opts)
}

// ArcBetweenPoints creates the arc from a to b that subtends angle.
// Negative angles bend clockwise.
func ArcBetweenPoints(a, b Vec, angle float64, opts ...Option) *Node {
	if angle == 0 || a == b {
		return Line(a, b, opts...)
	}
	chord := b.Sub(a)
	radius := chord.Len() / 2 / math.Sin(math.Abs(angle)/2)
	mid := a.Lerp(b, 0.5)
	// distance from the chord midpoint to the centre
	h := radius * math.Cos(angle/2)
	normal := chord.Unit().Rotate(math.Pi / 2)
	if angle < 0 {
		normal = normal.Mul(-1)
	}
	c := mid.Add(normal.Mul(h))
	start := math.Atan2(a.Y-c.Y, a.X-c.X)
	return Arc(c, radius, start, angle, opts...)
}

// Line creates a straight segment.
func Line(a, b Vec, opts ...Option) *Node {
	n := path([]Vec{a, b}, false)
	n.Tag = tagLine
	return n.apply(opts)
}

// LineBuff creates a segment from a to b shortened by buff at both ends.
func LineBuff(a, b Vec, buff float64, opts ...Option) *Node {
	d := b.Sub(a).Unit().Mul(buff)
	return Line(a.Add(d), b.Sub(d), opts...)
}

// ArrowStyle tunes the geometry of an arrow.
type ArrowStyle struct {
	// Buff shortens the arrow at both ends.
	Buff float64
	// TipLength is the preferred tip length.
	TipLength float64
	// MaxTipRatio caps the tip at this fraction of the arrow length.
	MaxTipRatio float64
	// StrokeWidth of the shaft.
	StrokeWidth float64
}

// DefaultArrow is the style used by Arrow.
var DefaultArrow = ArrowStyle{Buff: MedSmallBuff, TipLength: 0.35, MaxTipRatio: 0.25, StrokeWidth: 6}

// Arrow creates a shaft with a filled triangular tip at end.
func Arrow(start, end Vec, opts ...Option) *Node {
	return ArrowWith(start, end, DefaultArrow, opts...)
}

// ArrowWith creates an arrow with a custom style. Zero fields of st take the
// DefaultArrow value, except Buff.
func ArrowWith(start, end Vec, st ArrowStyle, opts ...Option) *Node {
	if st.TipLength == 0 {
		st.TipLength = DefaultArrow.TipLength
	}
	if st.MaxTipRatio == 0 {
		st.MaxTipRatio = DefaultArrow.MaxTipRatio
	}
	if st.StrokeWidth == 0 {
		st.StrokeWidth = DefaultArrow.StrokeWidth
	}
	dir := end.Sub(start).Unit()
	if dir == (Vec{}) {
		dir = Right
	}
	if start.Dist(end) > 2*st.Buff {
		start = start.Add(dir.Mul(st.Buff))
		end = end.Sub(dir.Mul(st.Buff))
	}
	length := start.Dist(end)
	tip := math.Min(st.TipLength, st.MaxTipRatio*length)
	width := math.Min(st.StrokeWidth, 5*length)

	base := end.Sub(dir.Mul(tip))
	side := dir.Rotate(math.Pi / 2).Mul(tip / 2)
	shaft := path([]Vec{start, end.Sub(dir.Mul(tip * 0.9))}, false)
	shaft.Tag = tagLine
	shaft.Style.StrokeWidth = width
	head := path([]Vec{end, base.Add(side), base.Sub(side)}, true)

	g := Group(shaft, head)
	g.Tag = tagArrow
	g.apply(opts)
	head.Style.StrokeWidth = 0
	head.Style.FillOpacity = 1
	head.Style.Fill = head.Style.Stroke
	shaft.Style.FillOpacity = 0
	return g
}

// Polygon creates a closed outline through pts.
func Polygon(pts []Vec, opts ...Option) *Node {
	return path(append([]Vec(nil), pts...), true).apply(opts)
}

// Rectangle creates a width×height rectangle centred on the origin.
func Rectangle(width, height float64, opts ...Option) *Node {
	w, h := width/2, height/2
	return Polygon([]Vec{{-w, -h}, {w, -h}, {w, h}, {-w, h}}, opts...)
}

// RoundedRectangle creates a rectangle whose corners are quarter circles.
func RoundedRectangle(width, height, radius float64, opts ...Option) *Node {
	w, h := width/2, height/2
	radius = math.Min(radius, math.Min(w, h))
	corners := []struct {
		c     Vec
		start float64
	}{
		{Vec{w - radius, -h + radius}, -math.Pi / 2},
		{Vec{w - radius, h - radius}, 0},
		{Vec{-w + radius, h - radius}, math.Pi / 2},
		{Vec{-w + radius, -h + radius}, math.Pi},
	}
	var pts []Vec
	for _, k := range corners {
		pts = append(pts, arcPoints(k.c, radius, k.start, math.Pi/2, cornerSegments)...)
	}
	return Polygon(pts, opts...)
}

// Polyline creates an open path with straight segments through pts.
func Polyline(pts []Vec, opts ...Option) *Node {
	return path(append([]Vec(nil), pts...), false).apply(opts)
}

// Smooth creates an open path that passes smoothly through pts.
func Smooth(pts []Vec, opts ...Option) *Node {
	return path(smoothPoints(pts, 8), false).apply(opts)
}

// Parametric samples f over [t0, t1].
func Parametric(f func(t float64) Vec, t0, t1 float64, samples int, opts ...Option) *Node {
	if samples < 2 {
		samples = graphSamples
	}
	pts := make([]Vec, samples)
	for i := range pts {
		pts[i] = f(t0 + (t1-t0)*float64(i)/float64(samples-1))
	}
	return path(pts, false).apply(opts)
}

// FunctionGraph plots y = f(x) for x in [x0, x1] in world units.
func FunctionGraph(f func(x float64) float64, x0, x1 float64, opts ...Option) *Node {
	return Parametric(func(x float64) Vec { return Vec{x, f(x)} }, x0, x1, graphSamples, opts...)
}

// Image creates an image node height units tall centred on the origin.
func Image(img image.Image, height float64, opts ...Option) *Node {
	b := img.Bounds()
	w := height
	if b.Dy() > 0 {
		w = height * float64(b.Dx()) / float64(b.Dy())
	}
	n := newNode(KindImage)
	n.Image = img
	n.Style.StrokeWidth = 0
	n.Points = []Vec{{-w / 2, -height / 2}, {w / 2, -height / 2}, {w / 2, height / 2}, {-w / 2, height / 2}}
	return n.apply(opts)
}

// AxesConfig describes a pair of number lines.
type AxesConfig struct {
	// XRange and YRange are {min, max, tick step}.
	XRange, YRange   [3]float64
	XLength, YLength float64
	Ticks            bool
}

// Axes is a pair of perpendicular number lines that can convert data
// coordinates to world points. Axes.Node is the drawable group.
type Axes struct {
	*Node
	cfg AxesConfig
}

// NewAxes builds axes centred on the origin. Options style both lines.
func NewAxes(cfg AxesConfig, opts ...Option) *Axes {
	xs := cfg.XRange[1] - cfg.XRange[0]
	ys := cfg.YRange[1] - cfg.YRange[0]
	if xs == 0 {
		xs = 1
	}
	if ys == 0 {
		ys = 1
	}
	px := func(x float64) float64 { return (x - cfg.XRange[0]) / xs * cfg.XLength }
	py := func(y float64) float64 { return (y - cfg.YRange[0]) / ys * cfg.YLength }
	y0 := math.Max(cfg.YRange[0], math.Min(0, cfg.YRange[1]))
	x0 := math.Max(cfg.XRange[0], math.Min(0, cfg.XRange[1]))

	xAxis := Line(Vec{0, py(y0)}, Vec{cfg.XLength, py(y0)})
	yAxis := Line(Vec{px(x0), 0}, Vec{px(x0), cfg.YLength})
	ticks := Group()
	if cfg.Ticks {
		size := math.Min(0.1, math.Min(cfg.XLength, cfg.YLength)/20)
		if step := cfg.XRange[2]; step > 0 {
			for x := cfg.XRange[0]; x <= cfg.XRange[1]+1e-9; x += step {
				if math.Abs(x-x0) < 1e-9 {
					continue
				}
				ticks.Add(Line(Vec{px(x), py(y0) - size}, Vec{px(x), py(y0) + size}))
			}
		}
		if step := cfg.YRange[2]; step > 0 {
			for y := cfg.YRange[0]; y <= cfg.YRange[1]+1e-9; y += step {
				if math.Abs(y-y0) < 1e-9 {
					continue
				}
				ticks.Add(Line(Vec{px(x0) - size, py(y)}, Vec{px(x0) + size, py(y)}))
			}
		}
	}
	g := Group(xAxis, yAxis, ticks)
	g.apply(opts)
	g.MoveTo(Origin)
	return &Axes{Node: g, cfg: cfg}
}

// CoordsToPoint maps data coordinates to the current world position, so it
// follows the axes through later moves, scales and rotations.
func (a *Axes) CoordsToPoint(x, y float64) Vec {
	xAxis, yAxis := a.Children[0], a.Children[1]
	xa, xb := xAxis.Points[0], xAxis.Points[1]
	ya, yb := yAxis.Points[0], yAxis.Points[1]
	xs := a.cfg.XRange[1] - a.cfg.XRange[0]
	ys := a.cfg.YRange[1] - a.cfg.YRange[0]
	if xs == 0 {
		xs = 1
	}
	if ys == 0 {
		ys = 1
	}
	y0 := math.Max(a.cfg.YRange[0], math.Min(0, a.cfg.YRange[1]))
	p := xa.Add(xb.Sub(xa).Mul((x - a.cfg.XRange[0]) / xs))
	return p.Add(yb.Sub(ya).Mul((y - y0) / ys))
}
