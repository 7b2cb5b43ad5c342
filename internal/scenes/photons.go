package scenes

import (
	"image/color"
	"math"

	"github.com/ivlev/scene2video/internal/anim"
	"github.com/ivlev/scene2video/internal/scene"
)

func photonsPionDecay() scene.Script {
	return scene.Script{
		Name:       "photons-pion-decay",
		Title:      "Photons & Pion Decay",
		Frame:      scene.Portrait,
		Background: scene.Hex("#0a0a12"),
		FPS:        30,
		Construct:  constructPhotons,
	}
}

// photon is a wave packet with its direction and energy.
func photon(col color.NRGBA, frequency float64) *scene.Node {
	wave := scene.FunctionGraph(func(x float64) float64 {
		return 0.15 * math.Sin(frequency*x*2*math.Pi)
	}, 0, 2, scene.Stroke(col, 3))
	arrow := scene.ArrowWith(scene.V(0.2, 0), scene.V(1.8, 0),
		scene.ArrowStyle{StrokeWidth: 2, MaxTipRatio: 0.2}, scene.Color(col))
	energy := scene.MathTex(`E = \hbar \omega`, 20, scene.Color(col)).NextTo(wave, scene.Up, 0.1)
	return scene.Group(wave, arrow, energy)
}

// pion is the neutral pion with its rest mass.
func pion() *scene.Node {
	circle := scene.Circle(0.3, scene.Stroke(scene.BlueC, 3), scene.Fill(scene.BlueC, 0.2))
	label := scene.MathTex(`\pi^0`, 32, scene.Color(scene.BlueC))
	mass := scene.Text("m₀ = 135 MeV", 16, scene.Color(scene.GrayB)).NextTo(circle, scene.Down, 0.1)
	return scene.Group(circle, label, mass)
}

// card is a titled box.
func card(title, content string, col color.NRGBA) *scene.Node {
	box := scene.RoundedRectangle(6.5, 1.5, 0.2, scene.Stroke(col, 2), scene.Fill(col, 0.1))
	text := scene.Group(
		scene.Text(title, 28, scene.Color(col), scene.Bold()),
		scene.Text(content, 22, scene.Color(scene.GrayB)),
	).Arrange(scene.Down, 0.15)
	return scene.Group(box, text)
}

// rays fans arrows out of from, one per angle.
func rays(from scene.Vec, length float64, angles []float64, st scene.ArrowStyle, col color.NRGBA) *scene.Node {
	g := scene.Group()
	for _, a := range angles {
		g.Add(scene.ArrowWith(from, from.Add(scene.Polar(length, a)), st, scene.Color(col)))
	}
	return g
}

func linspace(a, b float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = a + (b-a)*float64(i)/float64(n-1)
	}
	return out
}

func retitle(s *scene.Scene, title *scene.Node, text string, size float64) {
	t := scene.Text(text, size, scene.Bold()).MoveToNode(title)
	s.Play(0.3, anim.Transform(title, t))
}

func constructPhotons(s *scene.Scene) {
	title := scene.Text("Photons & Pion Decay", 44, scene.Bold()).ToEdge(s.Frame, scene.Up, 0.4)
	s.Play(0.6, anim.FadeIn(title))

	// Einstein
	einstein := card("Einstein (1905)", "Light = particle packets", scene.Hex("#ff9f43")).NextTo(title, scene.Down, 0.3)
	s.Play(0.4, anim.FadeIn(einstein))
	ph := photon(scene.Yellow, 2).NextTo(einstein, scene.Down, 0.4)
	s.Play(0.5, anim.FadeIn(ph))
	formula := scene.MathTex(`E_\gamma = \hbar \omega`, 48, scene.Color(scene.Yellow)).NextTo(ph, scene.Down, 0.3)
	s.Play(0.6, anim.Write(formula))
	s.Wait(0.5)
	s.Play(0.4, anim.FadeOut(scene.Group(einstein, ph, formula)))

	// decay
	retitle(s, title, "Neutral Pion Decay", 38)
	p := pion().MoveTo(scene.Up.Mul(1.5))
	s.Play(0.4, anim.FadeIn(p))
	arrow := scene.ArrowWith(scene.Up.Mul(1.5), scene.Up.Mul(0.5), scene.ArrowStyle{Buff: 0.2})
	s.Play(0.3, anim.GrowArrow(arrow))
	left := photon(scene.Yellow, 1.5).Rotate(math.Pi / 4).Shift(scene.V(-1.2, -0.3))
	right := photon(scene.Yellow, 1.5).Rotate(-math.Pi / 4).Shift(scene.V(1.2, -0.3))
	decay := scene.MathTex(`\pi^0 \to \gamma + \gamma`, 40, scene.Color(scene.GreenC)).NextTo(arrow, scene.Down, 0.3)
	s.Play(0.7,
		anim.FadeIn(left, anim.Shift(scene.Right.Mul(0.5))),
		anim.FadeIn(right, anim.Shift(scene.Left.Mul(0.5))),
		anim.Write(decay),
	)
	energy := scene.Text("Each photon: E = E_π₀ / 2 = 67.5 MeV", 22, scene.Color(scene.GrayB)).NextTo(decay, scene.Down, 0.25)
	s.Play(0.4, anim.FadeIn(energy))
	s.Wait(0.5)
	s.Play(0.4, anim.FadeOut(scene.Group(p, arrow, left, right, decay, energy)))

	// beaming
	retitle(s, title, "Relativistic Beaming", 38)
	moving := pion().Shift(scene.V(-3.5, 0.5))
	velocity := scene.Text("v = 0.99c", 24, scene.Color(scene.Orange)).NextTo(moving, scene.Up, 0.2)
	s.Play(0.4, anim.FadeIn(moving), anim.FadeIn(velocity))

	origin := moving.Child(0).Center()
	restLabel := scene.Text("Rest Frame: Uniform", 20, scene.Color(scene.GrayB)).Shift(scene.V(-1.5, 1.8))
	uniform := rays(origin, 1.8, linspace(-math.Pi/2+0.2, math.Pi/2-0.2, 8),
		scene.ArrowStyle{Buff: 0.4, StrokeWidth: 2, MaxTipRatio: 0.15}, scene.Yellow)
	s.Play(0.8, anim.FadeIn(restLabel), anim.LaggedStart(fadeIns(uniform.Children), anim.Lag(0.1)))

	earthLabel := scene.Text("Earth Frame: Beamed!", 20, scene.Color(scene.GreenC)).Shift(scene.V(1.5, 1.8))
	beamed := rays(origin, 1.8, linspace(-math.Pi/4, math.Pi/4, 5),
		scene.ArrowStyle{Buff: 0.4, StrokeWidth: 3, MaxTipRatio: 0.15}, scene.RedC)
	s.Play(0.6,
		anim.FadeOut(uniform),
		anim.FadeIn(earthLabel),
		anim.LaggedStart(fadeIns(beamed.Children), anim.Lag(0.08)),
	)
	beaming := scene.MathTex(`\alpha_{max} = \cos^{-1}(v/c)`, 32, scene.Color(scene.RedC)).NextTo(moving, scene.Down, 0.8)
	s.Play(0.5, anim.Write(beaming))
	s.Wait(0.5)
	s.Play(0.4, anim.FadeOut(scene.Group(moving, velocity, restLabel, earthLabel, beamed, beaming)))

	// cosmic rays
	retitle(s, title, "Cosmic Rays → Gamma Rays", 36)
	cosmic := scene.ArrowWith(scene.Up.Mul(4), scene.Up.Mul(2.5), scene.ArrowStyle{StrokeWidth: 4}, scene.Color(scene.BlueB))
	cosmicLabel := scene.Text("Cosmic Ray (>1 GeV)", 22, scene.Color(scene.BlueB)).NextTo(cosmic, scene.Right, 0.2)
	s.Play(0.4, anim.FadeIn(cosmic), anim.FadeIn(cosmicLabel))

	atmosphere := scene.Rectangle(8, 1.2, scene.Stroke(scene.TealB, 2), scene.Fill(scene.TealB, 0.1)).Shift(scene.Up.Mul(1.8))
	atmoLabel := scene.Text("30 km altitude", 20, scene.Color(scene.TealB)).
		NextToAligned(atmosphere, scene.Down, 0.1, scene.Right)
	s.Play(0.3, anim.FadeIn(atmosphere), anim.FadeIn(atmoLabel))

	created := pion().MoveTo(scene.Up.Mul(1.8))
	s.Play(0.4, anim.FadeTo(cosmic, 0.3), anim.FadeIn(created))

	c := created.Child(0).Center()
	st := scene.ArrowStyle{Buff: 0.3, StrokeWidth: 3}
	gammaL := scene.ArrowWith(c, c.Add(scene.Polar(1.5, -2*math.Pi/3)), st, scene.Color(scene.Yellow))
	gammaR := scene.ArrowWith(c, c.Add(scene.Polar(1.5, -math.Pi/3)), st, scene.Color(scene.Yellow))
	s.Play(0.5, anim.FadeOut(created), anim.GrowArrow(gammaL), anim.GrowArrow(gammaR))

	earth := scene.Rectangle(8, 0.5, scene.Stroke(scene.GreenC, 2), scene.Fill(scene.GreenC, 0.2)).ToEdge(s.Frame, scene.Down, 0.3)
	earthName := scene.Text("Earth Surface", 24, scene.Color(scene.GreenC)).NextTo(earth, scene.Up, 0.1)
	s.Play(0.3, anim.FadeIn(earth), anim.FadeIn(earthName))
	s.Play(0.8,
		anim.ShiftBy(gammaL, scene.V(-0.3, -2.5)),
		anim.ShiftBy(gammaR, scene.V(0.3, -2.5)),
	)
	impact1 := scene.Dot(gammaL.End(), 0.15, scene.Color(scene.RedC))
	impact2 := scene.Dot(gammaR.End(), 0.15, scene.Color(scene.RedC))
	s.Play(0.3, anim.FadeIn(impact1), anim.FadeIn(impact2))
	safety := scene.Text("Safe: Energy dissipates in atmosphere", 22, scene.Color(scene.GreenC)).NextTo(earthName, scene.Up, 0.2)
	s.Play(0.4, anim.FadeIn(safety))
	s.Wait(0.6)

	final := scene.Text("Photons: Light as Particles", 36, scene.Color(scene.Yellow), scene.Bold())
	s.Play(0.5,
		anim.FadeOut(scene.Group(cosmic, cosmicLabel, atmosphere, atmoLabel, gammaL, gammaR,
			earth, earthName, impact1, impact2, safety)),
		anim.FadeIn(final),
	)
	s.Wait(0.8)
	s.Play(0.4, anim.FadeOut(final), anim.FadeOut(title))
}
