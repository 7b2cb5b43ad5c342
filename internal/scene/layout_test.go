package scene

import (
	"math"
	"testing"
)

func near(a, b Vec) bool { return a.Dist(b) < 1e-9 }

func TestRectangleBounds(t *testing.T) {
	r := Rectangle(4, 2)
	if r.Width() != 4 || r.Height() != 2 {
		t.Fatalf("size %gx%g", r.Width(), r.Height())
	}
	if !near(r.Corner(UR), V(2, 1)) || !near(r.Corner(DL), V(-2, -1)) {
		t.Errorf("corners %v %v", r.Corner(UR), r.Corner(DL))
	}
	if !near(r.Top(), V(0, 1)) || !near(r.LeftEdge(), V(-2, 0)) {
		t.Errorf("edges %v %v", r.Top(), r.LeftEdge())
	}
}

func TestNextTo(t *testing.T) {
	tests := []struct {
		name    string
		dir     Vec
		aligned Vec
		want    Vec
	}{
		{"right", Right, Origin, V(2+0.25+0.5, 0)},
		{"down", Down, Origin, V(0, -1-0.25-0.5)},
		{"up aligned left", Up, Left, V(-2+0.5, 1+0.25+0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anchor := Rectangle(4, 2)
			box := Rectangle(1, 1)
			box.NextToAligned(anchor, tt.dir, DefaultBuff, tt.aligned)
			if !near(box.Center(), tt.want) {
				t.Errorf("centre %v, want %v", box.Center(), tt.want)
			}
		})
	}
}

func TestToEdge(t *testing.T) {
	f := Frame{Width: 10, Height: 6}
	box := Rectangle(2, 2).Shift(V(1, 1))
	box.ToEdge(f, Up, EdgeBuff)
	if !near(box.Center(), V(1, 3-0.5-1)) {
		t.Errorf("up: %v", box.Center())
	}
	box.ToEdge(f, DL, 0)
	if !near(box.Corner(DL), V(-5, -3)) {
		t.Errorf("corner: %v", box.Corner(DL))
	}
}

func TestArrangeCentresRow(t *testing.T) {
	g := Group(Rectangle(1, 1), Rectangle(1, 1), Rectangle(1, 1))
	g.Arrange(Right, 0.5)
	if !near(g.Center(), Origin) {
		t.Fatalf("group centre %v", g.Center())
	}
	if math.Abs(g.Width()-4) > 1e-9 {
		t.Errorf("width %g", g.Width())
	}
	if !near(g.Child(0).Center(), V(-1.5, 0)) {
		t.Errorf("first child at %v", g.Child(0).Center())
	}
}

func TestRotateAndScale(t *testing.T) {
	l := Line(V(0, 0), V(2, 0))
	l.Rotate(math.Pi / 2)
	if !near(l.Start(), V(1, -1)) || !near(l.End(), V(1, 1)) {
		t.Errorf("rotated line %v -> %v", l.Start(), l.End())
	}
	l.ScaleAbout(2, V(1, -1))
	if !near(l.End(), V(1, 3)) {
		t.Errorf("scaled end %v", l.End())
	}
}

func TestArrowEndIsTip(t *testing.T) {
	a := Arrow(V(-2, 0), V(2, 0))
	if !near(a.End(), V(2-DefaultArrow.Buff, 0)) {
		t.Errorf("tip at %v", a.End())
	}
	if !near(a.Start(), V(-2+DefaultArrow.Buff, 0)) {
		t.Errorf("tail at %v", a.Start())
	}
	head := a.Child(1)
	if head.Style.FillOpacity != 1 || head.Style.StrokeWidth != 0 {
		t.Errorf("head style %+v", head.Style)
	}
}

func TestPutStartAndEndOn(t *testing.T) {
	l := Line(V(0, 0), V(1, 0))
	l.PutStartAndEndOn(V(1, 1), V(1, 4))
	if !near(l.Start(), V(1, 1)) || !near(l.End(), V(1, 4)) {
		t.Errorf("line now %v -> %v", l.Start(), l.End())
	}

	d := Line(V(2, 2), V(2, 2))
	d.PutStartAndEndOn(V(0, 0), V(3, 0))
	if !near(d.End(), V(3, 0)) {
		t.Errorf("degenerate line end %v", d.End())
	}
}

func TestPartialAndResample(t *testing.T) {
	pts := []Vec{{0, 0}, {1, 0}, {1, 1}}
	half := Partial(pts, 0, 0.5)
	if len(half) != 2 || !near(half[1], V(1, 0)) {
		t.Errorf("half = %v", half)
	}
	if got := Partial(pts, 0.6, 0.4); got != nil {
		t.Errorf("empty window returned %v", got)
	}
	rs := Resample(pts, 5)
	if len(rs) != 5 || !near(rs[0], pts[0]) || !near(rs[4], pts[2]) || !near(rs[2], V(1, 0)) {
		t.Errorf("resample = %v", rs)
	}
	if math.Abs(PathLength(pts)-2) > 1e-12 {
		t.Errorf("length %g", PathLength(pts))
	}
}

func TestPointFromProportionClosed(t *testing.T) {
	sq := Rectangle(2, 2)
	if !near(sq.PointFromProportion(0), V(-1, -1)) {
		t.Errorf("start %v", sq.PointFromProportion(0))
	}
	if !near(sq.PointFromProportion(0.5), V(1, 1)) {
		t.Errorf("half way %v", sq.PointFromProportion(0.5))
	}
}

func TestArcBetweenPoints(t *testing.T) {
	a := ArcBetweenPoints(V(-1, 0), V(1, 0), math.Pi)
	if !near(a.Start(), V(-1, 0)) || !near(a.End(), V(1, 0)) {
		t.Fatalf("arc runs %v -> %v", a.Start(), a.End())
	}
	// a half circle bending counter-clockwise from left to right dips below
	if a.Bottom().Y > -0.99 {
		t.Errorf("arc bottom %v", a.Bottom())
	}
}

func TestAxesCoordsToPoint(t *testing.T) {
	ax := NewAxes(AxesConfig{
		XRange: [3]float64{-2, 2, 1}, YRange: [3]float64{-1, 1, 0.5},
		XLength: 8, YLength: 4, Ticks: true,
	})
	if !near(ax.CoordsToPoint(0, 0), Origin) {
		t.Errorf("origin maps to %v", ax.CoordsToPoint(0, 0))
	}
	if !near(ax.CoordsToPoint(2, 1), V(4, 2)) {
		t.Errorf("corner maps to %v", ax.CoordsToPoint(2, 1))
	}
	ax.Shift(V(1, 1))
	if !near(ax.CoordsToPoint(0, 0), V(1, 1)) {
		t.Errorf("moved origin maps to %v", ax.CoordsToPoint(0, 0))
	}
}

func TestCopyIsDeep(t *testing.T) {
	g := Group(Circle(1), Text("a", 24))
	c := g.Copy()
	c.Shift(Right)
	if !near(g.Center(), Origin) {
		t.Errorf("original moved to %v", g.Center())
	}
	if c.Child(0) == g.Child(0) {
		t.Error("children are shared")
	}
}
