package scene

import (
	"errors"
	"math"
	"testing"
)

type recordAnim struct {
	runTime float64
	rate    RateFunc
	alphas  []float64
	began   int
	done    int
}

func (a *recordAnim) Begin(*Scene)              { a.began++ }
func (a *recordAnim) Interpolate(alpha float64) { a.alphas = append(a.alphas, alpha) }
func (a *recordAnim) Finish(*Scene)             { a.done++ }
func (a *recordAnim) RunTime() float64          { return a.runTime }
func (a *recordAnim) Rate() RateFunc            { return a.rate }
func (a *recordAnim) Label() string             { return "record" }

type collectSink struct {
	snaps []*Snapshot
	err   error
}

func (c *collectSink) Frame(s *Snapshot) error {
	c.snaps = append(c.snaps, s)
	return c.err
}

func TestPlayFrameCounts(t *testing.T) {
	tests := []struct {
		name  string
		times []float64
		fps   int
		want  int
	}{
		{"one second", []float64{1}, 30, 30},
		{"two halves", []float64{0.5, 0.5}, 30, 30},
		{"thirds", []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, 30, 30},
		{"rounding", []float64{0.27, 0.27}, 30, 16},
		{"sixty fps", []float64{2}, 60, 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &collectSink{}
			s := NewScene(Landscape, Black, tt.fps, sink)
			for _, d := range tt.times {
				s.Play(d, &recordAnim{})
			}
			if s.Frames() != tt.want {
				t.Errorf("frames = %d, want %d", s.Frames(), tt.want)
			}
			if len(sink.snaps) != tt.want {
				t.Errorf("snapshots = %d, want %d", len(sink.snaps), tt.want)
			}
			for i, snap := range sink.snaps {
				if snap.Index != i {
					t.Fatalf("snapshot %d has index %d", i, snap.Index)
				}
			}
		})
	}
}

func TestPlayInterpolatesToOne(t *testing.T) {
	s := NewScene(Landscape, Black, 10, nil)
	a := &recordAnim{}
	s.Play(1, a)
	if a.began != 1 || a.done != 1 {
		t.Fatalf("begin/finish called %d/%d times", a.began, a.done)
	}
	if len(a.alphas) != 10 {
		t.Fatalf("expected 10 interpolations, got %d", len(a.alphas))
	}
	if a.alphas[0] != 0.1 || a.alphas[9] != 1 {
		t.Errorf("alphas run from %g to %g", a.alphas[0], a.alphas[9])
	}
}

func TestPlayUsesLongestRunTime(t *testing.T) {
	s := NewScene(Landscape, Black, 10, nil)
	short := &recordAnim{runTime: 1}
	long := &recordAnim{runTime: 2}
	s.Play(0, short, long)
	if s.Time() != 2 {
		t.Fatalf("clock at %g, want 2", s.Time())
	}
	// the short animation is complete halfway through
	if short.alphas[9] != 1 || short.alphas[19] != 1 {
		t.Errorf("short animation alphas %v", short.alphas)
	}
	if long.alphas[9] != 0.5 {
		t.Errorf("long animation at halfway = %g", long.alphas[9])
	}
}

func TestPlayRateOverride(t *testing.T) {
	s := NewScene(Landscape, Black, 4, nil)
	a := &recordAnim{rate: func(float64) float64 { return 0 }}
	s.PlayRate(1, func(x float64) float64 { return x * x }, a)
	if got := a.alphas[1]; got != 0.25 {
		t.Errorf("alpha = %g, want 0.25", got)
	}
}

func TestZeroFramePlayStillCompletes(t *testing.T) {
	s := NewScene(Landscape, Black, 10, nil)
	a := &recordAnim{}
	s.Play(0.01, a)
	if len(a.alphas) != 1 || a.alphas[0] != 1 {
		t.Errorf("alphas = %v", a.alphas)
	}
}

func TestWaitRepeatsOneSnapshot(t *testing.T) {
	sink := &collectSink{}
	s := NewScene(Landscape, Black, 30, sink)
	s.Add(Circle(1))
	s.Wait(2)
	if len(sink.snaps) != 1 {
		t.Fatalf("expected one snapshot, got %d", len(sink.snaps))
	}
	if sink.snaps[0].Repeat != 60 {
		t.Errorf("repeat = %d", sink.snaps[0].Repeat)
	}
	if s.Frames() != 60 {
		t.Errorf("frames = %d", s.Frames())
	}
}

func TestWaitRunsUpdaters(t *testing.T) {
	sink := &collectSink{}
	s := NewScene(Landscape, Black, 10, sink)
	total := 0.0
	u := s.AddUpdater(func(dt float64) { total += dt })
	s.Wait(1)
	if len(sink.snaps) != 10 {
		t.Fatalf("expected per-frame snapshots, got %d", len(sink.snaps))
	}
	if math.Abs(total-1) > 1e-9 {
		t.Errorf("updater saw %g seconds", total)
	}
	s.RemoveUpdater(u)
	s.Wait(1)
	if len(sink.snaps) != 11 {
		t.Errorf("after removing the updater got %d snapshots", len(sink.snaps))
	}
}

func TestDryRunRecordsSteps(t *testing.T) {
	s := NewScene(Portrait, Black, 30, nil)
	s.Play(1.5, &recordAnim{})
	s.Wait(0.5)
	steps := s.Steps()
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].Kind != "play" || steps[0].Frames != 45 || steps[0].Labels[0] != "record" {
		t.Errorf("unexpected first step %+v", steps[0])
	}
	if steps[1].Kind != "wait" || steps[1].Start != 1.5 || steps[1].Frames != 15 {
		t.Errorf("unexpected second step %+v", steps[1])
	}
}

func TestSinkErrorIsSticky(t *testing.T) {
	boom := errors.New("boom")
	sink := &collectSink{err: boom}
	s := NewScene(Landscape, Black, 10, sink)
	s.Play(1, &recordAnim{})
	if !errors.Is(s.Err(), boom) {
		t.Fatalf("Err() = %v", s.Err())
	}
	if len(sink.snaps) != 1 {
		t.Errorf("sink called %d times after failing", len(sink.snaps))
	}
	if s.Frames() != 10 {
		t.Errorf("clock stopped at frame %d", s.Frames())
	}
}

func TestAddRemoveRestructure(t *testing.T) {
	s := NewScene(Landscape, Black, 30, nil)
	a, b, c := Circle(1), Circle(2), Circle(3)
	g := Group(a, b)
	s.Add(g, c)
	if !s.Contains(a) {
		t.Fatal("child of an added group should be shown")
	}

	s.Remove(a)
	got := s.Mobjects()
	if len(got) != 2 || got[0] != b || got[1] != c {
		t.Fatalf("expected [b c] after removing a, got %d nodes", len(got))
	}

	s.Add(b)
	got = s.Mobjects()
	if len(got) != 2 || got[0] != c || got[1] != b {
		t.Errorf("re-adding should move b to the top")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	sink := &collectSink{}
	s := NewScene(Landscape, Black, 10, sink)
	c := Circle(1)
	s.Add(c)
	s.Wait(0.1)
	c.Shift(Right)
	got := sink.snaps[0].Nodes[0].Center()
	if math.Abs(got.X) > 1e-9 {
		t.Errorf("snapshot moved with the live node: %v", got)
	}
}

func TestScriptRun(t *testing.T) {
	sc := Script{
		Name:  "demo",
		Frame: Landscape,
		FPS:   24,
		Construct: func(s *Scene) {
			s.Add(Dot(Origin, 0))
			s.Wait(1)
		},
	}
	s, err := sc.Run(0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.FPS != 24 || s.Frames() != 24 {
		t.Errorf("fps %d frames %d", s.FPS, s.Frames())
	}
	s, _ = sc.Run(10, nil)
	if s.Frames() != 10 {
		t.Errorf("fps override ignored: %d frames", s.Frames())
	}
}
