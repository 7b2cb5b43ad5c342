package scenes

import (
	"errors"
	"image"
	"math"
	"reflect"
	"testing"

	"github.com/ivlev/scene2video/internal/config"
	"github.com/ivlev/scene2video/internal/renderer"
	"github.com/ivlev/scene2video/internal/response"
	"github.com/ivlev/scene2video/internal/scene"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.AssetPath = ""
	return cfg
}

func TestNamesMatchRegistry(t *testing.T) {
	names := Names()
	if len(names) != len(registry) {
		t.Fatalf("order has %d names, registry %d", len(names), len(registry))
	}
	seen := map[string]bool{}
	for _, n := range names {
		if _, ok := registry[n]; !ok {
			t.Errorf("%q is ordered but not registered", n)
		}
		if seen[n] {
			t.Errorf("%q listed twice", n)
		}
		seen[n] = true
	}
	names[0] = "changed"
	if Names()[0] == "changed" {
		t.Error("Names returned the internal slice")
	}
}

func TestLookup(t *testing.T) {
	cfg := testConfig()
	sc, err := Lookup(cfg, "polar-poles-zeros")
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "polar-poles-zeros" || sc.Construct == nil {
		t.Errorf("got %+v", sc.Name)
	}
	if _, err := Lookup(cfg, "nope"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("err = %v, want ErrUnknownScene", err)
	}
}

func TestSelect(t *testing.T) {
	cfg := testConfig()
	tests := []struct {
		name    string
		in      []string
		want    []string
		wantErr error
	}{
		{"all", nil, Names(), nil},
		{"subset keeps order given", []string{"spiderman-physics", "repo-intro"}, []string{"spiderman-physics", "repo-intro"}, nil},
		{"unknown", []string{"repo-intro", "missing"}, nil, ErrUnknownScene},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(cfg, tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			var names []string
			for _, sc := range got {
				names = append(names, sc.Name)
			}
			if !reflect.DeepEqual(names, tt.want) {
				t.Errorf("got %v, want %v", names, tt.want)
			}
		})
	}
}

// sampleSink renders every nth snapshot at a small size.
type sampleSink struct {
	r     *renderer.Renderer
	every int
	seen  int
	drawn int
	blank int
}

func (s *sampleSink) Frame(snap *scene.Snapshot) error {
	s.seen++
	if s.seen%s.every != 0 {
		return nil
	}
	img := s.r.Render(snap)
	if uniform(img) {
		s.blank++
	}
	s.r.Release(img)
	s.drawn++
	return nil
}

func uniform(img *image.RGBA) bool {
	first := img.Pix[:4]
	for i := 4; i < len(img.Pix); i += 4 {
		for k := 0; k < 4; k++ {
			if img.Pix[i+k] != first[k] {
				return false
			}
		}
	}
	return true
}

func TestScenesRun(t *testing.T) {
	if testing.Short() {
		t.Skip("renders every scene")
	}
	cfg := testConfig()
	for _, sc := range All(cfg) {
		t.Run(sc.Name, func(t *testing.T) {
			dry, err := sc.Run(0, nil)
			if err != nil {
				t.Fatal(err)
			}
			if dry.Frames() == 0 || len(dry.Steps()) == 0 {
				t.Fatalf("frames %d steps %d", dry.Frames(), len(dry.Steps()))
			}
			want := int(math.Round(dry.Time() * float64(sc.FPS)))
			if dry.Frames() != want {
				t.Errorf("frames = %d, want %d for %.2fs", dry.Frames(), want, dry.Time())
			}

			w, h := 64, 36
			if sc.Frame.Height > sc.Frame.Width {
				w, h = 36, 64
			}
			sink := &sampleSink{r: renderer.New(w, h, nil), every: 25}
			if _, err := sc.Run(10, sink); err != nil {
				t.Fatal(err)
			}
			if sink.drawn == 0 {
				t.Fatal("no frames rendered")
			}
			if sink.blank == sink.drawn {
				t.Error("every sampled frame is blank")
			}
		})
	}
}

func TestScenesDeterministic(t *testing.T) {
	cfg := testConfig()
	for _, sc := range All(cfg) {
		a, err := sc.Run(0, nil)
		if err != nil {
			t.Fatal(err)
		}
		b, err := sc.Run(0, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(a.Steps(), b.Steps()) {
			t.Errorf("%s: timelines differ between runs", sc.Name)
		}
	}
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		v    float64
		step int
		want int
	}{
		{98.4, 10, 100},
		{674.4, 25, 675},
		{12, 5, 10},
	}
	for _, tt := range tests {
		if got := roundTo(tt.v, tt.step); got != tt.want {
			t.Errorf("roundTo(%v, %d) = %d, want %d", tt.v, tt.step, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	bar := progressBar(swingSections, 2)
	if bar.Len() != len(swingSections) {
		t.Fatalf("len = %d", bar.Len())
	}
	if bar.Child(2).Kind != scene.KindGroup {
		t.Error("current section is not labelled")
	}
	if bar.Child(0).Width() >= bar.Child(2).Child(0).Width() {
		t.Error("current dot is not the largest")
	}
}

func TestSpacetimeGridPullsTowardsHole(t *testing.T) {
	hole := scene.V(0, -3.5)
	flat := spacetimeGrid(hole, 0)
	bent := spacetimeGrid(hole, 1.2)
	if flat.Len() != 24 || bent.Len() != 24 {
		t.Fatalf("lines = %d, %d", flat.Len(), bent.Len())
	}
	// bottom horizontal line runs closest to the hole
	f, b := flat.Child(0).Points, bent.Child(0).Points
	mid := len(f) / 2
	if b[mid].Dist(hole) >= f[mid].Dist(hole) {
		t.Errorf("bent point %v not closer to hole than %v", b[mid], f[mid])
	}
}

func TestAngleLabelFollowsPoleExcess(t *testing.T) {
	tests := []struct {
		sys  response.System
		want string
	}{
		{response.System{Gain: 1}, `Start: 0$^\circ$, End: 0$^\circ$ (no poles or zeros)`},
		{response.System{Gain: 2, Poles: []complex128{-1, -2}}, `Start: 0$^\circ$, End: -180$^\circ$ (pole excess = 2)`},
		{polarStages[6].sys, `Start: 0$^\circ$, End: 0$^\circ$ (pole excess = 0)`},
		{polarStages[7].sys, `Start: 0$^\circ$, End: +90$^\circ$ (zero excess = 1)`},
	}
	for _, tt := range tests {
		if got := angleLabel(tt.sys); got != tt.want {
			t.Errorf("angleLabel(%s) = %q, want %q", tt.sys, got, tt.want)
		}
	}
}
