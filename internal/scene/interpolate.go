package scene

// Morph moves a node from one state to another.
//
// When from, to and the node have the same family structure (the usual case
// for moves, scales, fades and colour changes) every member of the node is
// rewritten in place, so groups that share children with the node see the
// change. Otherwise the leaves of both states are paired up, padded by
// repetition, and the node temporarily becomes a group of interpolated
// leaves; text and image leaves that differ are cross-faded.
type Morph struct {
	node     *Node
	to       *Node
	inPlace  bool
	fam      []*Node
	from     []*Node
	target   []*Node
	fromPts  [][]Vec
	toPts    [][]Vec
	closed   []bool
	fade     []bool
	work     []*Node
	workFade []*Node
}

// NewMorph prepares the interpolation of node from one state to another.
// from and to are retained and must not be modified afterwards.
func NewMorph(node, from, to *Node) *Morph {
	m := &Morph{node: node, to: to}
	nodeFam, fromFam, toFam := node.Family(), from.Family(), to.Family()
	if isomorphic(nodeFam, fromFam, toFam) {
		m.inPlace = true
		m.fam = nodeFam
		m.from = fromFam
		m.target = toFam
	} else {
		m.from, m.target = pairLeaves(flatten(from), flatten(to))
	}
	m.fromPts = make([][]Vec, len(m.from))
	m.toPts = make([][]Vec, len(m.from))
	m.closed = make([]bool, len(m.from))
	m.fade = make([]bool, len(m.from))
	for i := range m.from {
		a, b := m.from[i], m.target[i]
		if a.Kind != KindPath || b.Kind != KindPath {
			m.fade[i] = !compatible(a, b)
			m.fromPts[i], m.toPts[i], m.closed[i] = a.Points, b.Points, b.Closed
			continue
		}
		m.fromPts[i], m.toPts[i], m.closed[i] = alignPoints(a, b)
	}
	if !m.inPlace {
		for i := range m.from {
			w := m.from[i].Copy()
			m.work = append(m.work, w)
			var f *Node
			if m.fade[i] {
				f = m.target[i].Copy()
			}
			m.workFade = append(m.workFade, f)
		}
	}
	return m
}

// Apply sets the node to the state a fraction t of the way.
func (m *Morph) Apply(t float64) {
	if m.inPlace {
		for i, dst := range m.fam {
			lerpNode(dst, m.from[i], m.target[i], m.fromPts[i], m.toPts[i], m.closed[i], t)
		}
		return
	}
	children := make([]*Node, 0, len(m.work)*2)
	for i, w := range m.work {
		a, b := m.from[i], m.target[i]
		if !m.fade[i] {
			lerpNode(w, a, b, m.fromPts[i], m.toPts[i], m.closed[i], t)
			children = append(children, w)
			continue
		}
		// cross-fade: both boxes travel together
		out, in := w, m.workFade[i]
		if len(a.Points) == len(b.Points) && a.Kind == b.Kind {
			lerpPoints(&out.Points, a.Points, b.Points, t)
			lerpPoints(&in.Points, a.Points, b.Points, t)
		}
		out.Opacity = a.Opacity * (1 - t)
		in.Opacity = b.Opacity * t
		children = append(children, out, in)
	}
	n := m.node
	name := n.Name
	*n = Node{Kind: KindGroup, Name: name, Opacity: 1, Drawn: 1, Children: children}
}

// Finish leaves the node exactly in the target state.
func (m *Morph) Finish() {
	if !m.inPlace {
		m.node.Become(m.to)
		return
	}
	for i, dst := range m.fam {
		setFields(dst, m.target[i])
	}
}

func setFields(dst, src *Node) {
	children, name := dst.Children, dst.Name
	*dst = *src
	dst.Points = append([]Vec(nil), src.Points...)
	dst.Children = children
	dst.Name = name
}

func isomorphic(fams ...[]*Node) bool {
	n := len(fams[0])
	for _, f := range fams[1:] {
		if len(f) != n {
			return false
		}
	}
	for i := 0; i < n; i++ {
		k := fams[0][i].Kind
		for _, f := range fams[1:] {
			if f[i].Kind != k || len(f[i].Children) != len(fams[0][i].Children) {
				return false
			}
		}
		if !compatible(fams[1][i], fams[2][i]) {
			return false
		}
	}
	return true
}

// compatible reports whether two leaves can be interpolated directly.
func compatible(a, b *Node) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindText:
		return a.Text == b.Text && a.layout == b.layout
	case KindImage:
		return a.Image == b.Image
	}
	return true
}

// flatten returns copies of the leaves of n with inherited opacity folded in.
func flatten(n *Node) []*Node {
	var out []*Node
	var walk func(m *Node, op float64)
	walk = func(m *Node, op float64) {
		op *= m.Opacity
		if m.Kind != KindGroup {
			c := *m
			c.Points = append([]Vec(nil), m.Points...)
			c.Children = nil
			c.Opacity = op
			out = append(out, &c)
		}
		for _, ch := range m.Children {
			walk(ch, op)
		}
	}
	walk(n, 1)
	return out
}

// pairLeaves pads the shorter list by repeating its members so both lists
// have the same length. An empty side is replaced by invisible copies of the
// other.
func pairLeaves(a, b []*Node) ([]*Node, []*Node) {
	switch {
	case len(a) == len(b):
		return a, b
	case len(a) == 0:
		return hiddenCopies(b), b
	case len(b) == 0:
		return a, hiddenCopies(a)
	case len(a) < len(b):
		return repeat(a, len(b)), b
	default:
		return a, repeat(b, len(a))
	}
}

func repeat(src []*Node, n int) []*Node {
	out := make([]*Node, n)
	for i := range out {
		out[i] = src[i*len(src)/n].Copy()
	}
	return out
}

func hiddenCopies(src []*Node) []*Node {
	out := make([]*Node, len(src))
	for i, s := range src {
		c := s.Copy()
		c.Opacity = 0
		out[i] = c
	}
	return out
}

func alignPoints(a, b *Node) (pa, pb []Vec, closed bool) {
	if len(a.Points) == len(b.Points) && a.Closed == b.Closed {
		return a.Points, b.Points, b.Closed
	}
	oa, ob := a.outline(), b.outline()
	n := len(oa)
	if len(ob) > n {
		n = len(ob)
	}
	return Resample(oa, n), Resample(ob, n), false
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func lerpPoints(dst *[]Vec, a, b []Vec, t float64) {
	if len(a) != len(b) {
		if t < 1 {
			*dst = append((*dst)[:0], a...)
		} else {
			*dst = append((*dst)[:0], b...)
		}
		return
	}
	if len(*dst) != len(a) {
		*dst = make([]Vec, len(a))
	}
	for i := range a {
		(*dst)[i] = a[i].Lerp(b[i], t)
	}
}

// lerpNode writes the blend of a and b into dst, keeping dst's children.
func lerpNode(dst, a, b *Node, pa, pb []Vec, closed bool, t float64) {
	pts, children, name := dst.Points, dst.Children, dst.Name
	src := a
	if t >= 1 {
		src = b
	}
	*dst = *src
	dst.Children = children
	dst.Name = name
	dst.Points = pts
	lerpPoints(&dst.Points, pa, pb, t)
	dst.Closed = closed
	dst.Opacity = lerp(a.Opacity, b.Opacity, t)
	dst.Drawn = lerp(a.Drawn, b.Drawn, t)
	dst.DrawFrom = lerp(a.DrawFrom, b.DrawFrom, t)
	dst.Style = Style{
		Stroke:        LerpColor(a.Style.Stroke, b.Style.Stroke, t),
		StrokeWidth:   lerp(a.Style.StrokeWidth, b.Style.StrokeWidth, t),
		StrokeOpacity: lerp(a.Style.StrokeOpacity, b.Style.StrokeOpacity, t),
		Fill:          LerpColor(a.Style.Fill, b.Style.Fill, t),
		FillOpacity:   lerp(a.Style.FillOpacity, b.Style.FillOpacity, t),
	}
}
