package scene

import "math"

// Vec is a point or direction in world units. Y points up and the origin is
// the centre of the frame.
type Vec struct {
	X, Y float64
}

// Directions used for layout.
var (
	Origin = Vec{0, 0}
	Up     = Vec{0, 1}
	Down   = Vec{0, -1}
	Left   = Vec{-1, 0}
	Right  = Vec{1, 0}
	UL     = Vec{-1, 1}
	UR     = Vec{1, 1}
	DL     = Vec{-1, -1}
	DR     = Vec{1, -1}
)

// Buffers between neighbouring mobjects.
const (
	SmallBuff    = 0.1
	MedSmallBuff = 0.25
	MedLargeBuff = 0.5
	LargeBuff    = 1.0
)

func V(x, y float64) Vec { return Vec{x, y} }

func (v Vec) Add(o Vec) Vec      { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec      { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Mul(f float64) Vec  { return Vec{v.X * f, v.Y * f} }
func (v Vec) Dot(o Vec) float64  { return v.X*o.X + v.Y*o.Y }
func (v Vec) Len() float64       { return math.Hypot(v.X, v.Y) }
func (v Vec) Dist(o Vec) float64 { return v.Sub(o).Len() }
func (v Vec) Lerp(o Vec, t float64) Vec {
	return Vec{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Unit returns v scaled to length one, or the zero vector.
func (v Vec) Unit() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return v.Mul(1 / l)
}

// Rotate turns v counter-clockwise by angle radians about the origin.
func (v Vec) Rotate(angle float64) Vec {
	s, c := math.Sincos(angle)
	return Vec{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// Polar returns the point at radius r and angle theta.
func Polar(r, theta float64) Vec {
	s, c := math.Sincos(theta)
	return Vec{r * c, r * s}
}

// Rect is an axis-aligned box in world units.
type Rect struct {
	Min, Max Vec
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }
func (r Rect) Center() Vec     { return r.Min.Lerp(r.Max, 0.5) }

// Critical returns the point of r in direction dir: for each axis a positive
// component selects the max edge, negative the min edge, zero the centre.
func (r Rect) Critical(dir Vec) Vec {
	c := r.Center()
	p := c
	switch {
	case dir.X > 0:
		p.X = r.Max.X
	case dir.X < 0:
		p.X = r.Min.X
	}
	switch {
	case dir.Y > 0:
		p.Y = r.Max.Y
	case dir.Y < 0:
		p.Y = r.Min.Y
	}
	return p
}

func (r Rect) union(o Rect) Rect {
	return Rect{
		Min: Vec{math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)},
		Max: Vec{math.Max(r.Max.X, o.Max.X), math.Max(r.Max.Y, o.Max.Y)},
	}
}

// Frame is the visible world area of a scene.
type Frame struct {
	Width, Height float64
}

var (
	// Landscape is the 16:9 frame, 8 units tall.
	Landscape = Frame{Width: 8.0 * 16 / 9, Height: 8}
	// Portrait is the 9:16 frame used by the short-form explainers.
	Portrait = Frame{Width: 9, Height: 16}
)

// Bounds returns the frame rectangle centred on the origin.
func (f Frame) Bounds() Rect {
	return Rect{Min: Vec{-f.Width / 2, -f.Height / 2}, Max: Vec{f.Width / 2, f.Height / 2}}
}
