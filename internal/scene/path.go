package scene

// Outline returns the polyline of a path, with the first point repeated at
// the end when the path is closed.
func (n *Node) Outline() []Vec { return n.outline() }

func (n *Node) outline() []Vec {
	if !n.Closed || len(n.Points) < 2 {
		return n.Points
	}
	out := make([]Vec, 0, len(n.Points)+1)
	out = append(out, n.Points...)
	return append(out, n.Points[0])
}

// cumulative returns the running arc length at every vertex.
func cumulative(pts []Vec) []float64 {
	acc := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		acc[i] = acc[i-1] + pts[i].Dist(pts[i-1])
	}
	return acc
}

// PathLength is the total arc length of a polyline.
func PathLength(pts []Vec) float64 {
	if len(pts) == 0 {
		return 0
	}
	return cumulative(pts)[len(pts)-1]
}

func pointAt(pts []Vec, t float64) Vec {
	switch len(pts) {
	case 0:
		return Vec{}
	case 1:
		return pts[0]
	}
	t = clamp01(t)
	acc := cumulative(pts)
	total := acc[len(acc)-1]
	if total == 0 {
		return pts[0]
	}
	target := t * total
	for i := 1; i < len(pts); i++ {
		if acc[i] >= target {
			seg := acc[i] - acc[i-1]
			if seg == 0 {
				return pts[i]
			}
			return pts[i-1].Lerp(pts[i], (target-acc[i-1])/seg)
		}
	}
	return pts[len(pts)-1]
}

// Partial returns the part of a polyline between fractions a and b of its
// arc length.
func Partial(pts []Vec, a, b float64) []Vec {
	a, b = clamp01(a), clamp01(b)
	if len(pts) < 2 || b <= a {
		return nil
	}
	if a == 0 && b == 1 {
		return pts
	}
	acc := cumulative(pts)
	total := acc[len(acc)-1]
	if total == 0 {
		return nil
	}
	from, to := a*total, b*total
	out := []Vec{pointAt(pts, a)}
	for i := 1; i < len(pts)-1; i++ {
		if acc[i] > from && acc[i] < to {
			out = append(out, pts[i])
		}
	}
	return append(out, pointAt(pts, b))
}

// Resample returns n points evenly spaced by arc length along pts.
func Resample(pts []Vec, n int) []Vec {
	out := make([]Vec, n)
	if len(pts) == 0 {
		return out
	}
	if len(pts) == 1 || n == 1 {
		for i := range out {
			out[i] = pts[0]
		}
		return out
	}
	acc := cumulative(pts)
	total := acc[len(acc)-1]
	j := 1
	for i := range out {
		target := total * float64(i) / float64(n-1)
		for j < len(pts)-1 && acc[j] < target {
			j++
		}
		seg := acc[j] - acc[j-1]
		if seg == 0 {
			out[i] = pts[j]
			continue
		}
		t := (target - acc[j-1]) / seg
		out[i] = pts[j-1].Lerp(pts[j], clamp01(t))
	}
	return out
}

// smoothPoints runs a Catmull-Rom spline through pts, emitting steps points
// per segment.
func smoothPoints(pts []Vec, steps int) []Vec {
	if len(pts) < 3 {
		return append([]Vec(nil), pts...)
	}
	out := make([]Vec, 0, (len(pts)-1)*steps+1)
	at := func(i int) Vec {
		switch {
		case i < 0:
			return pts[0].Mul(2).Sub(pts[1])
		case i >= len(pts):
			k := len(pts)
			return pts[k-1].Mul(2).Sub(pts[k-2])
		}
		return pts[i]
	}
	for i := 0; i < len(pts)-1; i++ {
		p0, p1, p2, p3 := at(i-1), at(i), at(i+1), at(i+2)
		for s := 0; s < steps; s++ {
			t := float64(s) / float64(steps)
			t2, t3 := t*t, t*t*t
			x := 0.5 * (2*p1.X + (-p0.X+p2.X)*t + (2*p0.X-5*p1.X+4*p2.X-p3.X)*t2 + (-p0.X+3*p1.X-3*p2.X+p3.X)*t3)
			y := 0.5 * (2*p1.Y + (-p0.Y+p2.Y)*t + (2*p0.Y-5*p1.Y+4*p2.Y-p3.Y)*t2 + (-p0.Y+3*p1.Y-3*p2.Y+p3.Y)*t3)
			out = append(out, Vec{x, y})
		}
	}
	return append(out, pts[len(pts)-1])
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
