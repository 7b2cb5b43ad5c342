package anim

import (
	"math"
	"testing"

	"github.com/ivlev/scene2video/internal/scene"
)

func newScene() *scene.Scene {
	return scene.NewScene(scene.Landscape, scene.Black, 10, nil)
}

func TestRateEndpoints(t *testing.T) {
	rates := map[string]scene.RateFunc{
		"linear":    Linear,
		"smooth":    Smooth,
		"rush_into": RushInto,
		"rush_from": RushFrom,
		"ease_out":  EaseOut,
	}
	for name, r := range rates {
		if r(0) != 0 || math.Abs(r(1)-1) > 1e-6 {
			t.Errorf("%s: r(0)=%g r(1)=%g", name, r(0), r(1))
		}
		prev := 0.0
		for i := 1; i <= 20; i++ {
			v := r(float64(i) / 20)
			if v < prev-1e-6 {
				t.Errorf("%s decreases at %d", name, i)
			}
			prev = v
		}
	}
	if ThereAndBack(0) != 0 || math.Abs(ThereAndBack(0.5)-1) > 1e-6 || ThereAndBack(1) != 0 {
		t.Errorf("there and back: %g %g %g", ThereAndBack(0), ThereAndBack(0.5), ThereAndBack(1))
	}
}

func TestFadeInAddsAndShifts(t *testing.T) {
	s := newScene()
	c := scene.Circle(1)
	a := FadeIn(c, Shift(scene.Up))
	a.Begin(s)
	if !s.Contains(c) {
		t.Fatal("FadeIn did not add the node")
	}
	if c.Opacity != 0 || math.Abs(c.Center().Y+1) > 1e-9 {
		t.Errorf("start state opacity %g centre %v", c.Opacity, c.Center())
	}
	a.Interpolate(1)
	a.Finish(s)
	if c.Opacity != 1 || c.Center().Dist(scene.Origin) > 1e-9 {
		t.Errorf("end state opacity %g centre %v", c.Opacity, c.Center())
	}
}

func TestFadeOutRemovesAndRestores(t *testing.T) {
	s := newScene()
	c := scene.Circle(1)
	s.Add(c)
	s.Play(0.5, FadeOut(c, Shift(scene.Right)))
	if s.Contains(c) {
		t.Fatal("FadeOut left the node in the scene")
	}
	if c.Opacity != 1 || c.Center().Dist(scene.Origin) > 1e-9 {
		t.Errorf("node not restored: opacity %g centre %v", c.Opacity, c.Center())
	}
}

func TestTransformKeepsIdentity(t *testing.T) {
	s := newScene()
	a := scene.Rectangle(1, 1)
	b := scene.Circle(2).Shift(scene.V(3, 0))
	s.Add(a)
	s.Play(1, Transform(a, b))
	if !s.Contains(a) || s.Contains(b) {
		t.Fatal("Transform should keep the source and not add the target")
	}
	if a.Center().Dist(scene.V(3, 0)) > 1e-6 || math.Abs(a.Width()-4) > 1e-6 {
		t.Errorf("source did not take the target shape: centre %v width %g", a.Center(), a.Width())
	}
	if b.Center().Dist(scene.V(3, 0)) > 1e-9 {
		t.Error("target was modified")
	}
}

func TestReplacementTransformSwaps(t *testing.T) {
	s := newScene()
	a := scene.Text("old", 24)
	b := scene.Text("new", 24).Shift(scene.Up)
	s.Add(a)
	s.Play(0.5, ReplacementTransform(a, b))
	if s.Contains(a) || !s.Contains(b) {
		t.Fatal("ReplacementTransform should swap source for target")
	}
}

func TestIndicateReturnsToStart(t *testing.T) {
	s := newScene()
	c := scene.Circle(1, scene.Color(scene.Blue))
	s.Add(c)
	w := c.Width()
	s.Play(0.3, Indicate(c, Scale(1.5)))
	if math.Abs(c.Width()-w) > 1e-9 || c.Style.Stroke != scene.Blue {
		t.Errorf("after indicate width %g colour %v", c.Width(), c.Style.Stroke)
	}
}

func TestAnimateSharedChild(t *testing.T) {
	s := newScene()
	a, b := scene.Circle(0.5), scene.Circle(0.5).Shift(scene.Right)
	g := scene.Group(a, b)
	s.Add(a, b)
	s.Play(1, ShiftBy(g, scene.Up))
	if a.Center().Dist(scene.Up) > 1e-9 {
		t.Errorf("shared child at %v", a.Center())
	}
}

func TestCreateRevealsInOrder(t *testing.T) {
	s := newScene()
	g := scene.Group(scene.Line(scene.Origin, scene.Right), scene.Line(scene.Origin, scene.Up))
	a := Create(g)
	a.Begin(s)
	a.Interpolate(0.25)
	first, second := g.Child(0), g.Child(1)
	if math.Abs(first.Drawn-0.5) > 1e-9 || second.Drawn != 0 {
		t.Errorf("at 0.25 drawn %g %g", first.Drawn, second.Drawn)
	}
	a.Interpolate(1)
	a.Finish(s)
	if first.Drawn != 1 || second.Drawn != 1 {
		t.Errorf("not fully drawn: %g %g", first.Drawn, second.Drawn)
	}
}

func TestWriteRunTimeByLength(t *testing.T) {
	short := Write(scene.Text("short", 24))
	long := Write(scene.Text("a much longer sentence", 24))
	if short.RunTime() != 1 || long.RunTime() != 2 {
		t.Errorf("run times %g %g", short.RunTime(), long.RunTime())
	}
}

func TestLaggedStartTiming(t *testing.T) {
	anims := []scene.Animation{
		FadeIn(scene.Circle(1)),
		FadeIn(scene.Circle(1)),
		FadeIn(scene.Circle(1)),
	}
	g := LaggedStart(anims, Lag(0.5))
	// starts at 0, 0.5, 1; the last ends at 2
	if g.RunTime() != 2 {
		t.Fatalf("group run time %g", g.RunTime())
	}
	s := newScene()
	g.Begin(s)
	g.Interpolate(0.25)
	nodes := s.Mobjects()
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	if nodes[0].Opacity <= 0 || nodes[2].Opacity != 0 {
		t.Errorf("opacities %g %g", nodes[0].Opacity, nodes[2].Opacity)
	}
}

func TestMoveAlongPath(t *testing.T) {
	s := newScene()
	d := scene.Dot(scene.Origin, 0)
	path := scene.Line(scene.V(-2, 0), scene.V(2, 0))
	s.Add(d)
	s.PlayRate(1, Linear, MoveAlongPath(d, path))
	if d.Center().Dist(scene.V(2, 0)) > 1e-9 {
		t.Errorf("dot ended at %v", d.Center())
	}
}

func TestTracedPathFollows(t *testing.T) {
	s := newScene()
	d := scene.Dot(scene.Origin, 0)
	s.Add(d)
	tr := TracedPath(s, d.Center)
	s.Add(tr.Node)
	s.PlayRate(1, Linear, ShiftBy(d, scene.V(1, 0), Rate(Linear)))
	if len(tr.Points) != 11 {
		t.Fatalf("trace has %d points", len(tr.Points))
	}
	if tr.Points[10].Dist(scene.V(1, 0)) > 1e-9 {
		t.Errorf("trace ends at %v", tr.Points[10])
	}
	tr.Stop(s)
	s.Wait(1)
	if len(tr.Points) != 11 {
		t.Errorf("stopped trace grew to %d points", len(tr.Points))
	}
}

func TestFlashCleansUp(t *testing.T) {
	s := newScene()
	c := scene.Circle(1)
	s.Add(c)
	s.Play(1, Flash(c, Radius(2)))
	if len(s.Mobjects()) != 1 {
		t.Errorf("flash lines left behind: %d nodes", len(s.Mobjects()))
	}
}

func TestPulseStaysInRange(t *testing.T) {
	s := newScene()
	c := scene.Circle(1)
	s.Add(c)
	Pulse(s, c, 0.4, 0.3, 0.9)
	for i := 0; i < 5; i++ {
		s.Wait(0.3)
		if c.Opacity < 0.3-1e-6 || c.Opacity > 0.9+1e-6 {
			t.Fatalf("opacity %g out of range", c.Opacity)
		}
	}
}

func TestMoveCamera(t *testing.T) {
	s := newScene()
	s.Play(1, MoveCamera(scene.V(1, 2), 4))
	if s.Camera.Center.Dist(scene.V(1, 2)) > 1e-9 || math.Abs(s.Camera.Zoom-4) > 1e-9 {
		t.Errorf("camera ended at %+v", s.Camera)
	}
	a := MoveCamera(scene.Origin, 1, Rate(Linear))
	a.Begin(s)
	a.Interpolate(0.5)
	if math.Abs(s.Camera.Zoom-2) > 1e-9 {
		t.Errorf("halfway zoom %g, want 2", s.Camera.Zoom)
	}
}
