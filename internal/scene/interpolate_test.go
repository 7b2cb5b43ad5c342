package scene

import (
	"math"
	"testing"
)

func TestMorphInPlace(t *testing.T) {
	c := Circle(1, Color(Blue))
	target := c.Copy().Shift(V(2, 0))
	target.SetColor(Red)
	m := NewMorph(c, c.Copy(), target)

	m.Apply(0.5)
	if !near(c.Center(), V(1, 0)) {
		t.Errorf("halfway centre %v", c.Center())
	}
	if got := c.Style.Stroke; got == Blue || got == Red {
		t.Errorf("colour not blended: %v", got)
	}
	m.Apply(1)
	m.Finish()
	if !near(c.Center(), V(2, 0)) || c.Style.Stroke != Red {
		t.Errorf("finished at %v colour %v", c.Center(), c.Style.Stroke)
	}
}

func TestMorphKeepsSharedChildren(t *testing.T) {
	a, b := Circle(0.5), Circle(0.5).Shift(V(2, 0))
	g := Group(a, b)
	target := g.Copy().Scale(2)
	m := NewMorph(g, g.Copy(), target)
	m.Apply(1)
	m.Finish()
	if g.Child(0) != a || g.Child(1) != b {
		t.Fatal("children replaced")
	}
	if math.Abs(a.Width()-2) > 1e-9 {
		t.Errorf("child width %g", a.Width())
	}
}

func TestMorphRestructures(t *testing.T) {
	src := Group(Line(V(0, 0), V(1, 0)))
	dst := Group(Line(V(0, 1), V(1, 1)), Line(V(0, 2), V(1, 2)), Circle(0.3))
	m := NewMorph(src, src.Copy(), dst)
	m.Apply(0.5)
	if src.Kind != KindGroup || src.Len() != 3 {
		t.Fatalf("intermediate has %d children", src.Len())
	}
	m.Finish()
	if src.Len() != 3 || src.Child(2).Kind != KindPath || !src.Child(2).Closed {
		t.Errorf("did not become the target")
	}
}

func TestMorphResamplesPaths(t *testing.T) {
	l := Line(V(-1, 0), V(1, 0))
	c := Circle(1)
	m := NewMorph(l, l.Copy(), c)
	m.Apply(0.5)
	if len(l.Points) != circleSegments+1 {
		t.Errorf("intermediate has %d points", len(l.Points))
	}
	m.Finish()
	if len(l.Points) != circleSegments || !l.Closed {
		t.Errorf("finished with %d points closed=%v", len(l.Points), l.Closed)
	}
}

func TestMorphCrossFadesText(t *testing.T) {
	a := Text("one", 36)
	b := Text("two", 36).Shift(V(0, 2))
	m := NewMorph(a, a.Copy(), b)
	m.Apply(0.25)
	if a.Kind != KindGroup || a.Len() != 2 {
		t.Fatalf("expected two cross-faded copies, got %d", a.Len())
	}
	if math.Abs(a.Child(0).Opacity-0.75) > 1e-9 || math.Abs(a.Child(1).Opacity-0.25) > 1e-9 {
		t.Errorf("opacities %g %g", a.Child(0).Opacity, a.Child(1).Opacity)
	}
	m.Finish()
	if a.Kind != KindText || a.Text != "two" {
		t.Errorf("finished as %v %q", a.Kind, a.Text)
	}
}
