package scenes

import (
	"fmt"
	"image/color"
	"math"

	"github.com/ivlev/scene2video/internal/anim"
	"github.com/ivlev/scene2video/internal/scene"
)

func gravitationalRedshift() scene.Script {
	return scene.Script{
		Name:       "gravitational-redshift",
		Title:      "Gravitational Redshift",
		Frame:      scene.Portrait,
		Background: scene.Black,
		FPS:        30,
		Construct:  constructRedshift,
	}
}

func blackHole(radius float64) *scene.Node {
	glow := scene.Group()
	for i := 0; i < 5; i++ {
		c := scene.LerpColor(scene.Orange, scene.Black, float64(i)/5)
		glow.Add(scene.Circle(radius*(1.5+float64(i)*0.3), scene.StrokeWidth(0), scene.Fill(c, 0.3-float64(i)*0.05)))
	}
	ring := scene.Circle(radius*1.4, scene.Stroke(scene.Orange, 4))
	horizon := scene.Circle(radius, scene.StrokeWidth(0), scene.Fill(scene.Black, 1))
	return scene.Group(glow, ring, horizon)
}

func astronaut() *scene.Node {
	helmet := scene.Circle(0.25, scene.Stroke(scene.White, 3), scene.Fill(scene.BlueD, 0.3))
	body := scene.RoundedRectangle(0.35, 0.5, 0.1, scene.Stroke(scene.White, 3), scene.Fill(scene.Grey, 0.5)).
		NextTo(helmet, scene.Down, 0.05)
	limb := func(from, d scene.Vec) *scene.Node {
		return scene.Line(from, from.Add(d), scene.Stroke(scene.White, 3))
	}
	return scene.Group(
		helmet, body,
		limb(body.Corner(scene.UL), scene.V(-0.2, -0.15)),
		limb(body.Corner(scene.UR), scene.V(0.2, -0.15)),
		limb(body.Corner(scene.DL), scene.V(-0.1, -0.25)),
		limb(body.Corner(scene.DR), scene.V(0.1, -0.25)),
	)
}

func torch(col color.NRGBA) *scene.Node {
	body := scene.RoundedRectangle(0.2, 0.4, 0.05, scene.Stroke(scene.Grey, 2), scene.Fill(scene.GrayD, 0.8))
	top := body.Top()
	beam := scene.Polygon([]scene.Vec{top, top.Add(scene.V(-0.4, 1.5)), top.Add(scene.V(0.4, 1.5))},
		scene.StrokeWidth(0), scene.Fill(col, 0.4))
	return scene.Group(beam, body)
}

// spacetimeGrid draws a square grid pulled towards hole, more strongly the
// closer a point is. No point is pulled past the hole.
func spacetimeGrid(hole scene.Vec, curvature float64) *scene.Node {
	warp := func(p scene.Vec) scene.Vec {
		d := p.Dist(hole)
		if d <= 0.1 {
			return p
		}
		pull := math.Min(curvature/math.Pow(d, 1.5), 0.8*d)
		return p.Add(hole.Sub(p).Mul(pull / d))
	}
	lines := scene.Group()
	style := []scene.Option{scene.Stroke(scene.BlueD, 1), scene.StrokeOpacity(0.3)}
	for _, y := range linspace(-3, 5, 12) {
		pts := sampled(func(x float64) scene.Vec { return warp(scene.V(x, y)) }, -4, 4, 49)
		lines.Add(scene.Polyline(pts, style...))
	}
	for _, x := range linspace(-4, 4, 12) {
		pts := sampled(func(y float64) scene.Vec { return warp(scene.V(x, y)) }, -3, 5, 49)
		lines.Add(scene.Polyline(pts, style...))
	}
	return lines.SetOpacity(0.5)
}

func constructRedshift(s *scene.Scene) {
	title := scene.Text("Gravitational Redshift", 52, scene.Bold()).Shift(scene.Up.Mul(6))
	s.Play(0.7, anim.FadeIn(title))
	subtitle := scene.Text("Light escaping a black hole's gravity", 32, scene.Color(scene.GrayB)).NextTo(title, scene.Down, 0.3)
	s.Play(0.5, anim.FadeIn(subtitle))
	s.Wait(0.5)
	s.Play(0.3, anim.FadeOut(subtitle))

	// caption shows a line under the title; more stacks lines under it
	caption := func(text string, size float64, col color.NRGBA) *scene.Node {
		n := scene.Text(text, size, scene.Color(col)).NextTo(title, scene.Down, 0.4)
		fitWidth(n, s.Frame.Width-0.6)
		s.Play(0.5, anim.FadeIn(n))
		return n
	}
	more := func(under *scene.Node, text string, col color.NRGBA) *scene.Node {
		n := scene.Text(text, 30, scene.Color(col)).NextTo(under, scene.Down, 0.3)
		fitWidth(n, s.Frame.Width-0.6)
		s.Play(0.5, anim.FadeIn(n))
		return n
	}

	// setup
	setup := caption("An astronaut falls toward a black hole", 36, scene.BlueB)
	hole := blackHole(0.6).Shift(scene.Down.Mul(3.5))
	s.Play(0.8, anim.FadeIn(hole, anim.Scale(0.5)))
	man := astronaut().Shift(scene.Up.Mul(2.5))
	s.Play(0.5, anim.FadeIn(man))
	light := torch(scene.Blue).Shift(scene.Up.Mul(0.5))
	torchLabel := scene.Text("Blue light torch", 24, scene.Color(scene.Blue)).NextTo(light, scene.Right, 0.3)
	s.Play(0.5, anim.FadeIn(light), anim.FadeIn(torchLabel))
	s.Wait(0.6)
	s.Play(0.3, anim.FadeOut(setup))

	// climbing out
	climb := caption("Light must climb out of gravity well", 34, scene.Yellow)
	beamTo := func(col color.NRGBA) *scene.Node {
		return scene.ArrowWith(light.Top(), man.Bottom(), scene.ArrowStyle{Buff: 0.2, StrokeWidth: 6}, scene.Color(col))
	}
	beam := beamTo(scene.Blue)
	s.Play(0.7, anim.GrowArrow(beam))
	energy := more(climb, "Light loses energy climbing up", scene.Orange)
	s.Wait(0.6)
	s.Play(0.3, anim.FadeOut(climb), anim.FadeOut(energy))

	fall := func(d float64, runTime float64) {
		down := scene.Down.Mul(d)
		s.Play(runTime,
			anim.ShiftBy(man, down), anim.ShiftBy(light, down),
			anim.ShiftBy(torchLabel, down), anim.ShiftBy(beam, down),
		)
	}

	// closer
	closer := caption("As they fall closer...", 36, scene.RedC)
	fall(1.5, 1.2)
	gravity := more(closer, "Gravity gets stronger", scene.RedC)
	s.Wait(0.5)
	s.Play(0.3, anim.FadeOut(closer), anim.FadeOut(gravity))

	// curvature
	spacetime := caption("Spacetime curves more", 36, scene.TealB)
	grid := spacetimeGrid(hole.Center(), 0.5)
	s.Play(0.8, anim.FadeIn(grid))
	harder := more(spacetime, "Light must work harder to escape", scene.GrayB)
	s.Wait(0.6)
	s.Play(0.3, anim.FadeOut(spacetime), anim.FadeOut(harder))

	// colour shift
	freq := caption("Astronaut sees color change!", 36, scene.Yellow)
	shifts := []struct {
		name string
		col  color.NRGBA
	}{
		{"Blue", scene.Blue}, {"Cyan", scene.BlueC}, {"Green", scene.Green},
		{"Yellow", scene.Yellow}, {"Orange", scene.Orange}, {"Red", scene.Red},
	}
	for _, sh := range shifts {
		label := scene.Text(fmt.Sprintf("%s light", sh.name), 24, scene.Color(sh.col)).NextTo(light, scene.Right, 0.3)
		s.Play(0.4, anim.Transform(beam, beamTo(sh.col)), anim.Transform(torchLabel, label))
		s.Wait(0.2)
	}
	redshift := more(freq, "This is gravitational redshift", scene.RedC)
	s.Wait(0.7)
	s.Play(0.3, anim.FadeOut(freq), anim.FadeOut(redshift))

	// infrared
	extreme := caption("Even closer to the black hole...", 36, scene.RedD)
	fall(1.2, 1)
	s.Play(0.8, anim.Transform(grid, spacetimeGrid(hole.Center(), 1.2)))
	invisible := more(extreme, "Light shifts to infrared (invisible!)", scene.DarkGrey)
	s.Play(0.7, anim.FadeTo(beam, 0.1), anim.FadeTo(torchLabel, 0.3))
	s.Wait(0.6)
	s.Play(0.3, anim.FadeOut(extreme), anim.FadeOut(invisible))

	// intuition
	why := scene.Text("Why does this happen?", 38, scene.Color(scene.Yellow), scene.Bold()).NextTo(title, scene.Down, 0.4)
	s.Play(0.5, anim.FadeIn(why))
	steps := []struct {
		text string
		col  color.NRGBA
	}{
		{"1. Light is like a wave", scene.BlueB},
		{"2. Climbing gravity stretches the wave", scene.GreenC},
		{"3. Stretched wave = lower frequency", scene.Yellow},
		{"4. Lower frequency = redder color", scene.RedC},
	}
	explain := scene.Group()
	for i, st := range steps {
		n := scene.Text(st.text, 32, scene.Color(st.col))
		fitWidth(n, s.Frame.Width-0.6)
		if i == 0 {
			n.Shift(scene.Up.Mul(1.5))
		} else {
			n.NextTo(explain.Child(i-1), scene.Down, 0.3)
		}
		explain.Add(n)
		s.Play(0.5, anim.FadeIn(n))
	}
	s.Wait(1)
	s.Play(0.5, anim.FadeOut(scene.Group(why, explain, man, light, torchLabel, beam, grid)))

	// stretching
	waveTitle := scene.Text("Light wave stretching", 38, scene.Color(scene.Yellow), scene.Bold()).Shift(scene.Up.Mul(3.5))
	s.Play(0.5, anim.FadeIn(waveTitle))
	normalLabel := scene.Text("Far from black hole: Normal frequency", 28, scene.Color(scene.Blue)).Shift(scene.Up.Mul(2))
	fitWidth(normalLabel, s.Frame.Width-0.6)
	s.Play(0.4, anim.FadeIn(normalLabel))
	normal := scene.FunctionGraph(func(x float64) float64 { return 0.3 * math.Sin(4*x) }, -4, 4, scene.Stroke(scene.Blue, 4)).
		Shift(scene.Up)
	s.Play(0.8, anim.Create(normal))
	s.Wait(0.5)
	stretchedLabel := scene.Text("Near black hole: Stretched (redshifted)", 28, scene.Color(scene.Red)).Shift(scene.Down.Mul(0.5))
	fitWidth(stretchedLabel, s.Frame.Width-0.6)
	s.Play(0.4, anim.FadeIn(stretchedLabel))
	stretched := scene.FunctionGraph(func(x float64) float64 { return 0.3 * math.Sin(2*x) }, -4, 4, scene.Stroke(scene.Red, 4)).
		Shift(scene.Down.Mul(1.5))
	s.Play(0.8, anim.Create(stretched))
	comparison := scene.Text("Fewer peaks = lower frequency = redder", 26, scene.Color(scene.Orange)).Shift(scene.Down.Mul(3))
	s.Play(0.5, anim.FadeIn(comparison))
	s.Wait(1)
	s.Play(0.5, anim.FadeOut(scene.Group(waveTitle, normalLabel, normal, stretchedLabel, stretched, comparison, hole)))

	// summary
	summary := scene.Group(
		scene.Text("Gravitational Redshift", 48, scene.Color(scene.Yellow), scene.Bold(), scene.At(scene.V(0, 2.5))),
		scene.Text("Light loses energy escaping gravity", 32, scene.Color(scene.BlueB), scene.At(scene.V(0, 1.3))),
		scene.Text("Energy loss = frequency decrease", 32, scene.Color(scene.GreenC), scene.At(scene.V(0, 0.3))),
		scene.Text("Lower frequency = redder color", 32, scene.Color(scene.Orange), scene.At(scene.V(0, -0.7))),
		scene.Text("Stronger gravity = more redshift", 32, scene.Color(scene.RedC), scene.At(scene.V(0, -1.7))),
	)
	s.Play(1, fadeIns(summary.Children)...)
	s.Wait(1.5)
	s.Play(0.6, anim.FadeOut(scene.Group(title, summary)))
}
