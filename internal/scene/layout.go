package scene

import "math"

// DefaultBuff is the gap NextTo leaves when no buffer is given.
const DefaultBuff = MedSmallBuff

// EdgeBuff is the default distance ToEdge keeps from the frame border.
const EdgeBuff = MedLargeBuff

func (n *Node) eachPoint(fn func(Vec) Vec) {
	n.eachNode(func(m *Node) {
		for i, p := range m.Points {
			m.Points[i] = fn(p)
		}
	})
}

// Bounds returns the axis-aligned box around every point of n. ok is false
// for a node without points.
func (n *Node) Bounds() (r Rect, ok bool) {
	n.eachNode(func(m *Node) {
		for _, p := range m.Points {
			if !ok {
				r = Rect{Min: p, Max: p}
				ok = true
				continue
			}
			r = r.union(Rect{Min: p, Max: p})
		}
	})
	return r, ok
}

func (n *Node) bounds() Rect {
	r, _ := n.Bounds()
	return r
}

func (n *Node) Center() Vec      { return n.bounds().Center() }
func (n *Node) Width() float64   { return n.bounds().Width() }
func (n *Node) Height() float64  { return n.bounds().Height() }
func (n *Node) Top() Vec         { return n.bounds().Critical(Up) }
func (n *Node) Bottom() Vec      { return n.bounds().Critical(Down) }
func (n *Node) LeftEdge() Vec    { return n.bounds().Critical(Left) }
func (n *Node) RightEdge() Vec   { return n.bounds().Critical(Right) }
func (n *Node) Corner(d Vec) Vec { return n.bounds().Critical(d) }

// Start returns the first point of the first outline.
func (n *Node) Start() Vec {
	for _, l := range n.Leaves() {
		if l.Kind == KindPath && len(l.Points) > 0 {
			return l.Points[0]
		}
	}
	return n.Center()
}

// End returns the last point of the last outline. For arrows this is the tip.
func (n *Node) End() Vec {
	if n.Tag == tagArrow && len(n.Children) == 2 && len(n.Children[1].Points) > 0 {
		return n.Children[1].Points[0]
	}
	leaves := n.Leaves()
	for i := len(leaves) - 1; i >= 0; i-- {
		l := leaves[i]
		if l.Kind == KindPath && len(l.Points) > 0 {
			if l.Closed {
				return l.Points[0]
			}
			return l.Points[len(l.Points)-1]
		}
	}
	return n.Center()
}

// Shift moves n by d.
func (n *Node) Shift(d Vec) *Node {
	n.eachPoint(func(p Vec) Vec { return p.Add(d) })
	return n
}

// MoveTo centres n on p.
func (n *Node) MoveTo(p Vec) *Node {
	return n.Shift(p.Sub(n.Center()))
}

// MoveToNode centres n on the centre of o.
func (n *Node) MoveToNode(o *Node) *Node {
	return n.MoveTo(o.Center())
}

// Scale resizes n about its centre.
func (n *Node) Scale(f float64) *Node {
	return n.ScaleAbout(f, n.Center())
}

// ScaleAbout resizes n about the fixed point c.
func (n *Node) ScaleAbout(f float64, c Vec) *Node {
	n.eachPoint(func(p Vec) Vec { return c.Add(p.Sub(c).Mul(f)) })
	return n
}

// Stretch scales n independently along x and y about its centre.
func (n *Node) Stretch(fx, fy float64) *Node {
	c := n.Center()
	n.eachPoint(func(p Vec) Vec {
		return Vec{c.X + (p.X-c.X)*fx, c.Y + (p.Y-c.Y)*fy}
	})
	return n
}

// Rotate turns n counter-clockwise about its centre.
func (n *Node) Rotate(angle float64) *Node {
	return n.RotateAbout(angle, n.Center())
}

// RotateAbout turns n counter-clockwise about c.
func (n *Node) RotateAbout(angle float64, c Vec) *Node {
	n.eachPoint(func(p Vec) Vec { return c.Add(p.Sub(c).Rotate(angle)) })
	return n
}

// NextTo places n beside target in direction dir, buff units away.
func (n *Node) NextTo(target *Node, dir Vec, buff float64) *Node {
	return n.NextToAligned(target, dir, buff, Origin)
}

// NextToAligned is NextTo with the edge given by aligned lined up with the
// same edge of target.
func (n *Node) NextToAligned(target *Node, dir Vec, buff float64, aligned Vec) *Node {
	to := target.bounds().Critical(aligned.Add(dir))
	from := n.bounds().Critical(aligned.Sub(dir))
	return n.Shift(to.Sub(from).Add(dir.Mul(buff)))
}

// NextToPoint places n beside the point p.
func (n *Node) NextToPoint(p Vec, dir Vec, buff float64) *Node {
	from := n.bounds().Critical(dir.Mul(-1))
	return n.Shift(p.Sub(from).Add(dir.Mul(buff)))
}

// ToEdge moves n against the border of frame in direction dir. Diagonal
// directions move it into the corner.
func (n *Node) ToEdge(frame Frame, dir Vec, buff float64) *Node {
	fb := frame.Bounds()
	target := fb.Critical(dir)
	from := n.bounds().Critical(dir)
	d := target.Sub(from).Sub(Vec{sign(dir.X), sign(dir.Y)}.Mul(buff))
	if dir.X == 0 {
		d.X = 0
	}
	if dir.Y == 0 {
		d.Y = 0
	}
	return n.Shift(d)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Arrange lines up the children of n one after another in direction dir and
// centres the result on the origin.
func (n *Node) Arrange(dir Vec, buff float64) *Node {
	return n.ArrangeAligned(dir, buff, Origin)
}

// ArrangeAligned is Arrange with the children lined up on one edge.
func (n *Node) ArrangeAligned(dir Vec, buff float64, aligned Vec) *Node {
	for i := 1; i < len(n.Children); i++ {
		n.Children[i].NextToAligned(n.Children[i-1], dir, buff, aligned)
	}
	return n.MoveTo(Origin)
}

// PutStartAndEndOn moves, turns and scales n so its outline runs from start
// to end.
func (n *Node) PutStartAndEndOn(start, end Vec) *Node {
	s0, e0 := n.Start(), n.End()
	cur := e0.Sub(s0)
	want := end.Sub(start)
	if cur.Len() < 1e-9 {
		// degenerate outline: spread the points along the new segment
		leaves := n.Leaves()
		for _, l := range leaves {
			k := len(l.Points)
			for i := range l.Points {
				t := 0.0
				if k > 1 {
					t = float64(i) / float64(k-1)
				}
				l.Points[i] = start.Lerp(end, t)
			}
		}
		return n
	}
	f := want.Len() / cur.Len()
	angle := math.Atan2(want.Y, want.X) - math.Atan2(cur.Y, cur.X)
	n.eachPoint(func(p Vec) Vec {
		return start.Add(p.Sub(s0).Rotate(angle).Mul(f))
	})
	return n
}

// PointFromProportion returns the point a fraction t along the outline of
// the first path in n, measured by arc length.
func (n *Node) PointFromProportion(t float64) Vec {
	for _, l := range n.Leaves() {
		if l.Kind == KindPath && len(l.Points) > 0 {
			return pointAt(l.outline(), t)
		}
	}
	return n.Center()
}
