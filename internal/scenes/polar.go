package scenes

import (
	"fmt"
	"image/color"
	"math"

	"github.com/ivlev/scene2video/internal/anim"
	"github.com/ivlev/scene2video/internal/response"
	"github.com/ivlev/scene2video/internal/scene"
)

// polarStage is one transfer function shown by the pole-zero demo.
type polarStage struct {
	sys   response.System
	title string
	info  string
	color color.NRGBA
}

var polarStages = []polarStage{
	{
		sys:   response.System{Gain: 1},
		title: `H(s) = 1`,
		info:  "Pure gain: circle at magnitude 1, zero phase shift",
		color: scene.BlueD,
	},
	{
		sys:   response.System{Gain: 1, Poles: []complex128{-1}},
		title: `H(s) = \frac{1}{s+1}`,
		info:  `One pole: magnitude shrinks, phase lags by -90$^\circ$ at high freq`,
		color: scene.GreenB,
	},
	{
		sys:   response.System{Gain: 2, Poles: []complex128{-1, -2}},
		title: `H(s) = \frac{2}{(s+1)(s+2)}`,
		info:  `Two poles: sharper roll-off, phase $\to$ -180$^\circ$ (2nd order)`,
		color: scene.TealC,
	},
	{
		sys:   response.System{Gain: 2, Poles: []complex128{-1, -2}, Zeros: []complex128{-0.5}},
		title: `H(s) = \frac{2(s+0.5)}{(s+1)(s+2)}`,
		info:  "Add zero: boosts low-freq gain, reduces phase lag",
		color: scene.Orange,
	},
	{
		sys:   response.System{Gain: 1, Poles: []complex128{complex(-0.5, 1.5), complex(-0.5, -1.5)}},
		title: `H(s) = \frac{1}{(s+0.5-j1.5)(s+0.5+j1.5)}`,
		info:  `Complex poles: resonance peak \& spiral trajectory`,
		color: scene.PurpleB,
	},
	{
		sys: response.System{
			Gain:  1.5,
			Poles: []complex128{complex(-0.3, 1.2), complex(-0.3, -1.2), -2},
			Zeros: []complex128{-0.8},
		},
		title: `H(s) = \frac{1.5(s+0.8)}{(s+2)(s+0.3-j1.2)(s+0.3+j1.2)}`,
		info:  `Complex system: resonance + zero $\to$ rich dynamics`,
		color: scene.Hex("#ff6f6f"),
	},
	{
		sys: response.System{
			Gain:  1.8,
			Poles: []complex128{-0.2, complex(-0.7, 2.2), complex(-0.7, -2.2)},
			Zeros: []complex128{-0.05, complex(-0.3, 1.5), complex(-0.3, -1.5)},
		},
		title: `H(s) = \frac{1.8(s+0.05)(s+0.3-j1.5)(s+0.3+j1.5)}{(s+0.2)(s+0.7-j2.2)(s+0.7+j2.2)}`,
		info:  "Zero-heavy mix: low-frequency flare, dramatic outer sweep",
		color: scene.GoldB,
	},
	{
		sys: response.System{
			Gain:  2.2,
			Poles: []complex128{-0.08, -0.6, complex(-1.2, 2.6), complex(-1.2, -2.6)},
			Zeros: []complex128{-0.4, complex(-0.7, 1.8), complex(-0.7, -1.8), complex(-0.15, 2.9), complex(-0.15, -2.9)},
		},
		title: `H(s) = \frac{2.2(s+0.4)(s+0.7-j1.8)(s+0.7+j1.8)(s+0.15-j2.9)(s+0.15+j2.9)}{(s+0.08)(s+0.6)(s+1.2-j2.6)(s+1.2+j2.6)}`,
		info:  "Final act: extra zeros shove outward, poles keep it stable",
		color: scene.Hex("#ffb347"),
	},
}

// angleLabel describes the phase at both ends of the sweep.
func angleLabel(sys response.System) string {
	start, end := response.AsymptoticAngles(sys)
	excess := sys.PoleExcess()
	var why string
	switch {
	case len(sys.Poles) == 0 && len(sys.Zeros) == 0:
		why = "no poles or zeros"
	case excess >= 0:
		why = fmt.Sprintf("pole excess = %d", excess)
	default:
		why = fmt.Sprintf("zero excess = %d", -excess)
	}
	return fmt.Sprintf(`Start: %s$^\circ$, End: %s$^\circ$ (%s)`, degrees(start), degrees(end), why)
}

func degrees(v float64) string {
	switch {
	case v == 0:
		return "0"
	case v > 0:
		return fmt.Sprintf("+%g", v)
	}
	return fmt.Sprintf("%g", v)
}

const (
	polarPanelOffset = 3.2
	sPlaneScale      = 2.0
	polarMaxDisplay  = 2.5
	polarScale       = 0.8
)

var polarOmega = response.LogSpace(-2.5, 1.5, 800)

func polarPolesZeros() scene.Script {
	return scene.Script{
		Name:       "polar-poles-zeros",
		Title:      "Poles, Zeros & Polar Response",
		Frame:      scene.Frame{Width: 14, Height: 7.875},
		Background: scene.Hex("#0a0a1e"),
		FPS:        60,
		Construct:  constructPolar,
	}
}

func buildSPlane() *scene.Node {
	g := scene.Group()
	realAxis := scene.Line(scene.Left.Mul(2.5), scene.Right.Mul(0.5), scene.Stroke(scene.GrayB, 2))
	imagAxis := scene.Line(scene.Down.Mul(2), scene.Up.Mul(2), scene.Stroke(scene.GrayB, 2))
	g.Add(realAxis, imagAxis)
	for _, x := range []float64{-2, -1.5, -1, -0.5} {
		g.Add(scene.Line(scene.Down.Mul(0.1), scene.Up.Mul(0.1), scene.Stroke(scene.GrayC, 4), scene.At(scene.V(x*sPlaneScale, 0))))
	}
	for _, y := range []float64{-1.5, -1, -0.5, 0.5, 1, 1.5} {
		g.Add(scene.Line(scene.Left.Mul(0.1), scene.Right.Mul(0.1), scene.Stroke(scene.GrayC, 4), scene.At(scene.V(0, y*sPlaneScale))))
	}
	sigma := scene.MathTex(`\sigma`, 28, scene.Color(scene.GrayA)).NextTo(realAxis, scene.Right, 0.1)
	jw := scene.MathTex(`j\omega`, 28, scene.Color(scene.GrayA)).NextTo(imagAxis, scene.Up, 0.1)
	g.Add(sigma, jw)
	g.Add(scene.Line(scene.Down.Mul(2), scene.Up.Mul(2), scene.Stroke(scene.YellowC, 3), scene.StrokeOpacity(0.6)))
	return g
}

func buildPolarAxes() *scene.Node {
	g := scene.Group()
	for _, r := range []float64{0.5, 1, 1.5, 2, 2.5} {
		g.Add(scene.Circle(r*polarScale, scene.Stroke(scene.GrayC, 1), scene.StrokeOpacity(0.4)))
	}
	for deg := 0; deg < 360; deg += 30 {
		end := scene.Polar(polarMaxDisplay*polarScale, float64(deg)*math.Pi/180)
		g.Add(scene.Line(scene.Origin, end, scene.Stroke(scene.GrayC, 1), scene.StrokeOpacity(0.4)))
	}
	g.Add(
		scene.Line(scene.Left.Mul(2.5), scene.Right.Mul(2.5), scene.Stroke(scene.GrayB, 2)),
		scene.Line(scene.Down.Mul(2.5), scene.Up.Mul(2.5), scene.Stroke(scene.GrayB, 2)),
	)
	minusOne := scene.Dot(scene.Left.Mul(polarScale), 0.08, scene.Color(scene.Red))
	label := scene.MathTex(`-1`, 24, scene.Color(scene.Red)).NextTo(minusOne, scene.Down, 0.1)
	g.Add(minusOne, label)
	return g
}

// polarCurve plots the response of sys on the polar display.
func polarCurve(sys response.System, col color.NRGBA) *scene.Node {
	pts := response.PolarCurve(response.Evaluate(sys, polarOmega), polarMaxDisplay, polarScale)
	world := make([]scene.Vec, len(pts))
	for i, p := range pts {
		world[i] = scene.V(p.X, p.Y)
	}
	return scene.Polyline(world, scene.Stroke(col, 4), scene.Named("polar_curve"))
}

// poleZeroMarkers draws poles as crosses and zeros as rings.
func poleZeroMarkers(sys response.System) *scene.Node {
	g := scene.Group()
	const d = 0.12
	for _, p := range sys.Poles {
		pos := scene.V(real(p)*sPlaneScale, imag(p)*sPlaneScale)
		x := scene.Group(
			scene.Line(pos.Add(scene.V(-d, d)), pos.Add(scene.V(d, -d)), scene.StrokeWidth(3)),
			scene.Line(pos.Add(scene.V(d, d)), pos.Add(scene.V(-d, -d)), scene.StrokeWidth(3)),
		)
		g.Add(x.SetColor(scene.RedB))
	}
	for _, z := range sys.Zeros {
		pos := scene.V(real(z)*sPlaneScale, imag(z)*sPlaneScale)
		g.Add(scene.Circle(d, scene.Stroke(scene.GreenB, 3), scene.At(pos)))
	}
	return g
}

// glowDot is a dot wrapped in three translucent halos.
func glowDot(col color.NRGBA, radius float64) *scene.Node {
	return scene.Group(
		scene.Circle(radius*2.5, scene.Stroke(col, 2), scene.Fill(col, 0.15)),
		scene.Circle(radius*1.8, scene.Stroke(col, 1.5), scene.Fill(col, 0.25)),
		scene.Circle(radius*1.2, scene.Stroke(col, 1), scene.Fill(col, 0.4)),
		scene.Dot(scene.Origin, radius, scene.Color(col)),
	)
}

func constructPolar(s *scene.Scene) {
	title := scene.Text("Transfer Function: Poles, Zeros & Polar Response", 38).ToEdge(s.Frame, scene.Up, 0.25)
	anglePanel := scene.RoundedRectangle(8.2, 0.9, 0.2, scene.Stroke(scene.YellowC, 4), scene.Fill(scene.Hex("#1d1f49"), 0.9)).
		NextTo(title, scene.Down, 0.2)
	angleText := scene.Tex("Start/End phase will update here", 26, scene.Color(scene.YellowC)).MoveToNode(anglePanel)
	tfAnchor := anglePanel.Center().Add(scene.Down.Mul(0.9))

	s.Play(0, anim.FadeIn(title))
	s.Play(0, anim.FadeIn(anglePanel), anim.FadeIn(angleText))

	sPlane := buildSPlane().Shift(scene.Left.Mul(polarPanelOffset))
	polarAxes := buildPolarAxes().Shift(scene.Right.Mul(polarPanelOffset))
	sLabel := scene.Text("s-Plane (Pole-Zero Map)", 28, scene.Color(scene.BlueA)).NextTo(sPlane, scene.Up, 0.3)
	pLabel := scene.Text("Polar Plot (Nyquist)", 28, scene.Color(scene.Orange)).NextTo(polarAxes, scene.Up, 0.3)
	s.Play(1.5, anim.Create(sPlane), anim.Create(polarAxes), anim.Write(sLabel), anim.Write(pLabel))
	s.Wait(0.5)

	infoBox := scene.Rectangle(13, 1.2, scene.Stroke(scene.White, 4), scene.Fill(scene.Hex("#1a1a3e"), 0.9)).
		ToEdge(s.Frame, scene.Down, 0.2)
	infoText := scene.Tex("Starting with a simple system...", 28, scene.Color(scene.GrayA)).MoveToNode(infoBox)
	s.Play(0, anim.Create(infoBox), anim.FadeIn(infoText))

	var tf, markers, curve, cursor *scene.Node
	var trail *anim.Trace
	for _, st := range polarStages {
		info := scene.Tex(st.info, 28, scene.Color(scene.GrayA)).MoveToNode(infoBox)
		s.Play(0.4, anim.Transform(infoText, info))

		newTF := scene.MathTex(st.title, 34, scene.Color(scene.Yellow)).MoveTo(tfAnchor)
		fitWidth(newTF, s.Frame.Width-1)
		if tf == nil {
			s.Play(0, anim.FadeIn(newTF, anim.Shift(scene.Down.Mul(0.1))))
		} else {
			s.Play(0.5, anim.ReplacementTransform(tf, newTF))
		}
		tf = newTF

		newMarkers := poleZeroMarkers(st.sys).Shift(scene.Left.Mul(polarPanelOffset))
		if markers == nil {
			markers = newMarkers
			s.Play(0.6, anim.Create(markers))
		} else {
			s.Play(0.6, anim.Transform(markers, newMarkers))
		}

		angles := scene.Tex(angleLabel(st.sys), 26, scene.Color(scene.YellowC)).MoveToNode(anglePanel)
		s.Play(0.4, anim.ReplacementTransform(angleText, angles))
		angleText = angles

		newCurve := polarCurve(st.sys, st.color).Shift(scene.Right.Mul(polarPanelOffset))
		if curve == nil {
			curve = newCurve
			s.PlayRate(1.6, anim.Smooth, anim.Create(curve))
			cursor = glowDot(st.color, 0.12)
			cursor.MoveTo(curve.PointFromProportion(0))
		} else {
			s.PlayRate(1.2, anim.Smooth, anim.Transform(curve, newCurve))
			cursor.MoveTo(curve.PointFromProportion(0))
			cursor.SetColor(st.color)
			trail.Stop(s)
			s.Remove(trail.Node)
		}
		c := cursor
		trail = anim.TracedPath(s, func() scene.Vec { return c.Center() }, scene.Stroke(st.color, 4), scene.StrokeOpacity(0.55))
		s.Add(trail.Node, cursor)

		s.PlayRate(1.4, anim.Linear, anim.MoveAlongPath(cursor, curve))
		s.Play(0.3, anim.Indicate(curve, anim.WithColor(st.color), anim.Scale(1.02)))
		s.Wait(0.3)
	}

	summaryBox := scene.Rectangle(13, 2.5, scene.Stroke(scene.White, 4), scene.Fill(scene.Hex("#0f0f2a"), 0.95)).
		ToEdge(s.Frame, scene.Down, 0.2)
	summary := scene.Group(
		scene.Tex(`\textbf{Key Insights:}`, 30),
		scene.Tex(`• Poles (X) pull response inward, add phase lag`, 24, scene.Color(scene.GrayA)),
		scene.Tex(`• Zeros (O) push response outward, add phase lead`, 24, scene.Color(scene.GrayA)),
		scene.Tex(`• Phase at $\omega \to \infty$: $-90^\circ \times$ (pole excess)`, 24, scene.Color(scene.GrayA)),
		scene.Tex(`• Distance from $-1$ point indicates stability margin`, 24, scene.Color(scene.RedA)),
	).ArrangeAligned(scene.Down, 0.12, scene.Left).MoveToNode(summaryBox)
	trail.Stop(s)
	s.Play(1.2,
		anim.ReplacementTransform(infoBox, summaryBox),
		anim.ReplacementTransform(infoText, summary),
	)
	s.Wait(3)
}
