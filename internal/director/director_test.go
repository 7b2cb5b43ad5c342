package director

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ivlev/scene2video/internal/anim"
	"github.com/ivlev/scene2video/internal/scene"
)

func TestTimeline(t *testing.T) {
	sc := scene.Script{Name: "demo", Title: "Demo", Frame: scene.Landscape, FPS: 10}
	s := scene.NewScene(sc.Frame, scene.Black, 10, nil)
	s.Play(0, anim.FadeIn(scene.Circle(1, scene.Named("ring"))))
	s.Wait(0.5)

	tl := Timeline(sc, s)
	if tl.Name != "demo" || tl.FPS != 10 {
		t.Errorf("unexpected header %+v", tl)
	}
	if tl.Frames != 15 {
		t.Errorf("Frames = %d, want 15", tl.Frames)
	}
	if math.Abs(tl.Duration-1.5) > 1e-9 {
		t.Errorf("Duration = %f, want 1.5", tl.Duration)
	}
	if len(tl.Steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(tl.Steps))
	}
	if tl.Steps[0].Kind != "play" || tl.Steps[0].Animations[0] != "FadeIn(ring)" {
		t.Errorf("first step = %+v", tl.Steps[0])
	}
	if tl.Steps[1].Kind != "wait" || tl.Steps[1].Start != 1 || tl.Steps[1].End() != 1.5 {
		t.Errorf("second step = %+v", tl.Steps[1])
	}
}

func TestTour(t *testing.T) {
	d := NewDirector(scene.Landscape)
	regions := []Region{
		{Name: "title", MinX: -1, MinY: 2, MaxX: 1, MaxY: 3},
		{MinX: -6, MinY: -3.5, MaxX: 6, MaxY: 3.5},
	}
	keys, err := d.Tour(regions, 10)
	if err != nil {
		t.Fatalf("Tour failed: %v", err)
	}
	if len(keys) != 4 {
		t.Fatalf("got %d keyframes, want 4", len(keys))
	}
	wantTimes := []float64{0, 1, 4, 7}
	for i, k := range keys {
		if k.Time != wantTimes[i] {
			t.Errorf("key %d at %.1fs, want %.1fs", i, k.Time, wantTimes[i])
		}
	}
	if keys[1].Focus != "title" || keys[2].Focus != "region_2" {
		t.Errorf("focus names = %q, %q", keys[1].Focus, keys[2].Focus)
	}
	if keys[1].Zoom != 3 {
		t.Errorf("small region zoom = %f, want clamp at 3", keys[1].Zoom)
	}
	if keys[2].Zoom < 1 || keys[2].Zoom > 1.1 {
		t.Errorf("large region zoom = %f, want just above 1", keys[2].Zoom)
	}
	if keys[1].Center != (Point{X: 0, Y: 2.5}) {
		t.Errorf("center = %+v", keys[1].Center)
	}
	if keys[3].Zoom != 1 || keys[3].Focus != "full_view" {
		t.Errorf("last key should return to full view: %+v", keys[3])
	}

	if _, err := d.Tour(nil, 10); err == nil {
		t.Error("expected an error for an empty tour")
	}
}

func TestDwellTimeClamp(t *testing.T) {
	d := NewDirector(scene.Landscape)
	tests := []struct {
		total float64
		n     int
		want  float64
	}{
		{10, 2, 3},
		{6, 2, 2},
		{3, 4, 1},
		{1, 1, 1},
	}
	for _, tt := range tests {
		if got := d.dwellTime(tt.total, tt.n); got != tt.want {
			t.Errorf("dwellTime(%v, %d) = %v, want %v", tt.total, tt.n, got, tt.want)
		}
	}
}

func TestWriteRead(t *testing.T) {
	s := NewScenario(SceneTimeline{
		Name:     "polar-poles-zeros",
		FPS:      30,
		Duration: 2,
		Frames:   60,
		Steps:    []Step{{Index: 0, Kind: "play", Duration: 2, Frames: 60, Animations: []string{"Create(curve)"}}},
		Camera:   []Keyframe{{Time: 0, Focus: "full_view", Zoom: 1}, {Time: 1, Center: Point{X: 1, Y: -1}, Zoom: 2}},
	})
	path := filepath.Join(t.TempDir(), "out", "timeline.yaml")
	if err := Write(s, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.Version != Version {
		t.Errorf("Version = %s, want %s", got.Version, Version)
	}
	tl := got.Scene("polar-poles-zeros")
	if tl == nil {
		t.Fatal("scene missing after read")
	}
	if len(tl.Camera) != 2 || tl.Camera[1].Center.X != 1 || tl.Camera[1].Zoom != 2 {
		t.Errorf("camera keys = %+v", tl.Camera)
	}
	if got.Scene("missing") != nil {
		t.Error("lookup of an unknown scene should return nil")
	}
	if got.Duration() != 2 {
		t.Errorf("Duration = %f", got.Duration())
	}
}

func TestReadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("scenes: [unclosed"), 0644)
	if _, err := Read(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	files := []string{"timeline_a.yaml", "timeline_b.yaml", "timeline_c.yaml"}
	for i, f := range files {
		p := filepath.Join(dir, f)
		if err := os.WriteFile(p, []byte("version: \"2.0\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		mod := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(p, mod, mod)
	}
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)

	latest, err := FindLatest(dir)
	if err != nil {
		t.Fatalf("FindLatest failed: %v", err)
	}
	if filepath.Base(latest) != "timeline_c.yaml" {
		t.Errorf("latest = %s, want timeline_c.yaml", latest)
	}

	if _, err := FindLatest(t.TempDir()); err == nil {
		t.Error("expected an error for an empty directory")
	}
}

func TestGeneratePath(t *testing.T) {
	p := GeneratePath("")
	if filepath.Dir(p) != DefaultDir {
		t.Errorf("dir = %s, want %s", filepath.Dir(p), DefaultDir)
	}
	if filepath.Ext(p) != ".yaml" {
		t.Errorf("ext = %s", filepath.Ext(p))
	}
}
