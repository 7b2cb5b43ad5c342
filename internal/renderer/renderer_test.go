package renderer

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/ivlev/scene2video/internal/director"
	"github.com/ivlev/scene2video/internal/scene"
	"github.com/ivlev/scene2video/internal/system"
)

func render(t *testing.T, cam scene.Camera, nodes ...*scene.Node) *image.RGBA {
	t.Helper()
	r := New(160, 90, system.NewImagePool())
	return r.Render(&scene.Snapshot{
		Frame:      scene.Landscape,
		Background: scene.Black,
		Camera:     cam,
		Nodes:      nodes,
	})
}

func isBackground(c color.RGBA) bool { return c.R == 0 && c.G == 0 && c.B == 0 }

func countInk(img *image.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !isBackground(img.RGBAAt(x, y)) {
				n++
			}
		}
	}
	return n
}

func redBox() *scene.Node {
	return scene.Rectangle(4, 2, scene.Fill(scene.Red, 1), scene.StrokeWidth(0))
}

func TestRenderFill(t *testing.T) {
	img := render(t, scene.Camera{}, redBox())
	if got := img.RGBAAt(80, 45); got.R != scene.Red.R || got.G != scene.Red.G {
		t.Errorf("centre = %v, want red", got)
	}
	if got := img.RGBAAt(5, 5); !isBackground(got) {
		t.Errorf("corner = %v, want background", got)
	}
}

func TestRenderCamera(t *testing.T) {
	tests := []struct {
		name  string
		cam   scene.Camera
		x     int
		inked bool
	}{
		{"unzoomed edge", scene.Camera{}, 115, false},
		{"zoomed edge", scene.Camera{Zoom: 2}, 115, true},
		{"panned left half", scene.Camera{Center: scene.V(2, 0)}, 60, true},
		{"panned right half", scene.Camera{Center: scene.V(2, 0)}, 90, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := render(t, tt.cam, redBox())
			if got := !isBackground(img.RGBAAt(tt.x, 45)); got != tt.inked {
				t.Errorf("pixel (%d,45) inked = %v, want %v", tt.x, got, tt.inked)
			}
		})
	}
}

func TestRenderStroke(t *testing.T) {
	line := scene.Line(scene.V(-5, 0), scene.V(5, 0), scene.Stroke(scene.White, 40))
	img := render(t, scene.Camera{}, line)
	if got := img.RGBAAt(80, 45); got.R < 200 {
		t.Errorf("on the line = %v, want white", got)
	}
	if got := img.RGBAAt(80, 39); !isBackground(got) {
		t.Errorf("off the line = %v, want background", got)
	}

	line.Drawn = 0.5
	img = render(t, scene.Camera{}, line)
	if !isBackground(img.RGBAAt(120, 45)) {
		t.Error("the undrawn half should not be painted")
	}
	if isBackground(img.RGBAAt(40, 45)) {
		t.Error("the drawn half should be painted")
	}
}

func TestRenderOpacity(t *testing.T) {
	box := redBox()
	g := scene.Group(box)
	g.Opacity = 0.5
	img := render(t, scene.Camera{}, g)
	got := img.RGBAAt(80, 45).R
	want := float64(scene.Red.R) / 2
	if math.Abs(float64(got)-want) > 4 {
		t.Errorf("half-opaque red R = %d, want about %.0f", got, want)
	}

	g.Opacity = 0
	if n := countInk(render(t, scene.Camera{}, g)); n != 0 {
		t.Errorf("invisible group painted %d pixels", n)
	}
}

func TestRenderText(t *testing.T) {
	txt := scene.Text("Hello", 96)
	if n := countInk(render(t, scene.Camera{}, txt)); n < 20 {
		t.Errorf("text painted only %d pixels", n)
	}
	txt.Drawn = 0
	if n := countInk(render(t, scene.Camera{}, txt)); n != 0 {
		t.Errorf("unrevealed text painted %d pixels", n)
	}
}

func TestRenderImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i+1], src.Pix[i+3] = 255, 255
	}
	img := render(t, scene.Camera{}, scene.Image(src, 4))
	if got := img.RGBAAt(80, 45); got.G < 200 || got.R > 20 {
		t.Errorf("image centre = %v, want green", got)
	}
	if !isBackground(img.RGBAAt(5, 5)) {
		t.Error("image should stay inside its box")
	}
}

func TestMeasureText(t *testing.T) {
	r := New(10, 10, nil)
	short, long := r.MeasureText("aa", 20), r.MeasureText("aaaa", 20)
	if short <= 0 || math.Abs(long-2*short) > 1e-6 {
		t.Errorf("MeasureText = %f, %f", short, long)
	}
}

func TestCameraPath(t *testing.T) {
	keys := []director.Keyframe{
		{Time: 0, Zoom: 1},
		{Time: 2, Center: director.Point{X: 2, Y: 1}, Zoom: 2},
		{Time: 4, Zoom: 1},
	}
	p := NewCameraPath(keys, 4, 4, 0)

	tests := []struct {
		t    float64
		zoom float64
		x    float64
	}{
		{-1, 1, 0},
		{0, 1, 0},
		{1, 1.5, 1},
		{2, 2, 2},
		{3, 1.5, 1},
		{9, 1, 0},
	}
	for _, tt := range tests {
		c := p.Apply(scene.Camera{}, tt.t)
		if math.Abs(c.Zoom-tt.zoom) > 1e-9 || math.Abs(c.Center.X-tt.x) > 1e-9 {
			t.Errorf("t=%.1f: zoom %.3f x %.3f, want %.3f %.3f", tt.t, c.Zoom, c.Center.X, tt.zoom, tt.x)
		}
	}

	// composition with the scene camera
	c := p.Apply(scene.Camera{Center: scene.V(1, 1), Zoom: 2}, 2)
	if c.Zoom != 4 || c.Center != scene.V(3, 2) {
		t.Errorf("composed camera = %+v", c)
	}

	var none *CameraPath
	if none.Apply(scene.Camera{Zoom: 3}, 1).Zoom != 3 || NewCameraPath(nil, 1, 1, 0) != nil {
		t.Error("an empty path should leave the camera alone")
	}
}

func TestCameraPathStretchAndSettle(t *testing.T) {
	keys := []director.Keyframe{
		{Time: 0, Zoom: 1},
		{Time: 1, Center: director.Point{X: 1}, Zoom: 3},
		{Time: 5, Zoom: 3},
	}
	p := NewCameraPath(keys, 5, 10, 2)
	got := p.Keys()
	if got[1].Time != 2 {
		t.Errorf("second key at %.1f, want stretched to 2", got[1].Time)
	}
	last := got[len(got)-1]
	if last.Time != 10 || last.Zoom != 1 {
		t.Errorf("last key = %+v, want full view at 10", last)
	}
	settle := got[len(got)-2]
	if settle.Time != 8 || settle.Focus != "settle" {
		t.Errorf("settle key = %+v", settle)
	}
	if c := p.Apply(scene.Camera{}, 10); c.Zoom != 1 {
		t.Errorf("zoom at end = %f", c.Zoom)
	}
}

func TestToWorld(t *testing.T) {
	r := New(160, 90, nil)
	cam := scene.Camera{Center: scene.V(1, -1), Zoom: 2}
	v := newView(scene.Landscape, cam, 160, 90)
	for _, p := range []scene.Vec{{X: 0, Y: 0}, {X: 2.5, Y: -3}, {X: -1, Y: 0.75}} {
		px := v.px(p)
		back := r.ToWorld(scene.Landscape, cam, px.x, px.y)
		if back.Dist(p) > 1e-9 {
			t.Errorf("round trip of %v gave %v", p, back)
		}
	}
}
