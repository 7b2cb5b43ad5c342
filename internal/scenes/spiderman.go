package scenes

import (
	"image/color"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ivlev/scene2video/internal/anim"
	"github.com/ivlev/scene2video/internal/scene"
)

var (
	suitRed  = scene.Hex("#DC143C")
	suitBlue = scene.Hex("#0047AB")
	webWhite = scene.Hex("#E8E8E8")
	nycGray  = scene.Hex("#4A4A4A")
)

// Swing figures. The speed is what a fall from the building top gives, the
// radius is the web length.
const (
	swingSpeed   = 44.0  // m/s
	swingRadius  = 100.0 // m
	swingMass    = 75    // kg
	webTension   = 3000  // N
	armStrength  = 400   // N
	earthGravity = 9.8
	buildingTall = 300 // m
	mphPerMS     = 2.23694
	lbfPerNewton = 0.224809
)

var swingSections = []string{"Setup", "Physics", "G-Force", "Damage", "Verdict"}

func spidermanPhysics() scene.Script {
	return scene.Script{
		Name:       "spiderman-physics",
		Title:      "Could Spider-Man Actually Swing?",
		Frame:      scene.Portrait,
		Background: scene.Hex("#000814"),
		FPS:        30,
		Construct:  constructSpiderman,
	}
}

// progressBar shows one dot per section; the current one is larger and
// labelled.
func progressBar(sections []string, current int) *scene.Node {
	bar := scene.Group()
	for i, name := range sections {
		switch {
		case i == current:
			dot := scene.Circle(0.12, scene.Stroke(scene.White, 2), scene.Fill(suitRed, 1))
			label := scene.Text(name, 20, scene.Bold()).NextTo(dot, scene.Down, 0.15)
			bar.Add(scene.Group(dot, label))
		case i < current:
			bar.Add(scene.Circle(0.08, scene.StrokeWidth(0), scene.Fill(scene.White, 1)))
		default:
			bar.Add(scene.Circle(0.08, scene.Stroke(scene.Grey, 1), scene.Fill(scene.Grey, 0.3)))
		}
	}
	return bar.ArrangeAligned(scene.Right, 0.5, scene.Up)
}

func spiderman() *scene.Node {
	outline := []scene.Option{scene.Stroke(scene.Black, 3), scene.Fill(suitRed, 1)}
	body := scene.Polygon([]scene.Vec{
		scene.V(0, 0.5), scene.V(0.25, 0), scene.V(0.15, -0.7), scene.V(-0.15, -0.7), scene.V(-0.25, 0),
	}, outline...)
	head := scene.Circle(0.3, outline...).Shift(scene.Up.Mul(0.8))
	eye := []scene.Option{scene.Stroke(scene.Black, 2), scene.Fill(scene.White, 1)}
	leftEye := scene.Polygon([]scene.Vec{scene.V(-0.2, 0.85), scene.V(-0.05, 0.95), scene.V(-0.05, 0.75)}, eye...)
	rightEye := scene.Polygon([]scene.Vec{scene.V(0.05, 0.95), scene.V(0.2, 0.85), scene.V(0.05, 0.75)}, eye...)
	seam := func(a, b scene.Vec) *scene.Node { return scene.Line(a, b, scene.Stroke(scene.Black, 1)) }
	limb := func(a, b scene.Vec, col color.NRGBA) *scene.Node { return scene.Line(a, b, scene.Stroke(col, 8)) }
	return scene.Group(
		limb(scene.V(0, -0.7), scene.V(-0.3, -1.2), suitBlue),
		limb(scene.V(0, -0.7), scene.V(0.2, -1.3), suitBlue),
		body,
		limb(scene.V(0, 0.3), scene.V(-0.5, 0.8), suitRed),
		limb(scene.V(0, 0.3), scene.V(0.6, 0.6), suitRed),
		head, leftEye, rightEye,
		seam(scene.V(0, 0.5), scene.V(0.25, 0)),
		seam(scene.V(0, 0.5), scene.V(-0.25, 0)),
		seam(scene.V(0, 0.2), scene.V(0.2, -0.2)),
		seam(scene.V(0, 0.2), scene.V(-0.2, -0.2)),
	)
}

func building(height float64) *scene.Node {
	walls := scene.Rectangle(1.2, height, scene.Stroke(scene.White, 2), scene.Fill(nycGray, 0.8))
	windows := scene.Group()
	for i := 0; i < int(height*3); i++ {
		y := height/2 - 0.3 - float64(i)*0.35
		if y < -height/2+0.1 {
			break
		}
		for j := 0; j < 3; j++ {
			windows.Add(scene.Rectangle(0.15, 0.2, scene.StrokeWidth(0), scene.Fill(scene.Yellow, 0.6)).
				Shift(scene.V(-0.35+float64(j)*0.35, y)))
		}
	}
	return scene.Group(walls, windows)
}

// calcBox is the running calculation shown in the lower right corner.
func calcBox(frame scene.Frame, text string) *scene.Node {
	box := scene.RoundedRectangle(4, 1.2, 0.15, scene.Stroke(suitRed, 3), scene.Fill(scene.Black, 0.85))
	label := fitWidth(scene.Text(text, 32, scene.Bold()), 3.7).MoveToNode(box)
	return scene.Group(box, label).ToEdge(frame, scene.DR, 0.4)
}

// reveal is a big filled banner with stacked lines of text.
func reveal(w, h float64, fill, edge color.NRGBA, edgeWidth float64, lines ...*scene.Node) (*scene.Node, *scene.Node) {
	box := scene.Rectangle(w, h, scene.Stroke(edge, edgeWidth), scene.Fill(fill, 0.9))
	text := scene.Group(lines...).Arrange(scene.Down, 0.15)
	fitWidth(text, w-0.4)
	return box, text
}

// cross and tick are drawn rather than typeset; the bundled fonts have no
// glyphs for them.
func cross(size float64, col color.NRGBA) *scene.Node {
	h := size / 2
	return scene.Group(
		scene.Line(scene.V(-h, h), scene.V(h, -h), scene.Stroke(col, 10)),
		scene.Line(scene.V(-h, -h), scene.V(h, h), scene.Stroke(col, 10)),
	)
}

func tick(size float64, col color.NRGBA) *scene.Node {
	h := size / 2
	return scene.Polyline([]scene.Vec{scene.V(-h, 0), scene.V(-h/3, -h*0.7), scene.V(h, h*0.7)}, scene.Stroke(col, 10))
}

func constructSpiderman(s *scene.Scene) {
	p := message.NewPrinter(language.English)
	accel := swingSpeed * swingSpeed / swingRadius
	gs := accel / earthGravity

	title := scene.Text("Could Spider-Man Actually Swing?", 42, scene.Bold()).Shift(scene.Up.Mul(6))
	fitWidth(title, s.Frame.Width-0.5)
	progress := progressBar(swingSections, 0).NextTo(title, scene.Down, 0.3)
	s.Play(0.5, anim.FadeIn(title), anim.FadeIn(progress))
	advance := func(section int) {
		next := progressBar(swingSections, section).NextTo(title, scene.Down, 0.3)
		s.Play(0.4, anim.Transform(progress, next))
	}

	// setup
	left := building(4.5).Shift(scene.V(-3.5, -0.5))
	right := building(5).Shift(scene.V(3, -0.8))
	s.Play(0.6, anim.FadeIn(left), anim.FadeIn(right))
	hero := spiderman().Scale(0.8).Shift(scene.V(-3, 3.5))
	s.Play(0.4, anim.FadeIn(hero))

	thwip := scene.Text("THWIP!", 40, scene.Color(scene.Yellow), scene.Bold()).NextTo(hero, scene.Right, 0.3)
	hand := hero.Center().Add(scene.Right.Mul(0.3))
	web := scene.Line(hand, hand, scene.Stroke(webWhite, 4))
	s.Add(web)
	s.Play(0.3, anim.FadeIn(thwip, anim.Scale(1.3)))
	anchor := right.Top().Add(scene.Left.Mul(0.3))
	question := scene.Text("Can a REAL human do this?", 36, scene.Color(scene.Yellow)).Shift(scene.Down.Mul(3))
	s.PlayRate(0.6, anim.RushInto,
		anim.Animate(web, func(n *scene.Node) { n.PutStartAndEndOn(hand, anchor) }),
		anim.FadeOut(thwip),
		anim.FadeIn(question),
	)
	s.Wait(0.4)
	s.Play(0.3, anim.FadeOut(question))

	// physics
	advance(1)
	swingLabel := scene.Text("The Swing!", 36, scene.Color(scene.TealA), scene.Bold()).Shift(scene.Up.Mul(2))
	s.Play(0.4, anim.FadeIn(swingLabel))
	calc := calcBox(s.Frame, p.Sprintf("Building: %dm tall", buildingTall))
	s.Play(0.4, anim.FadeIn(calc))

	landing := scene.V(1.5, 0.5)
	arc := scene.ArcBetweenPoints(hero.Center(), landing, -math.Pi/2.5)
	s.PlayRate(1.3, anim.Smooth,
		anim.MoveAlongPath(hero, arc),
		anim.Animate(web, func(n *scene.Node) { n.PutStartAndEndOn(anchor, landing) }),
	)
	s.Play(0.3, anim.FadeOut(swingLabel), anim.FadeOut(calc))

	bigReveal := func(box, text *scene.Node, hold float64, extra ...scene.Animation) {
		box.Shift(scene.Down.Mul(2.5))
		text.MoveToNode(box)
		anims := append([]scene.Animation{
			anim.FadeIn(box, anim.Scale(1.2)),
			anim.FadeIn(text, anim.Shift(scene.Up.Mul(0.2))),
		}, extra...)
		s.Play(0.7, anims...)
		s.Wait(hold)
	}

	speedBox, speedText := reveal(6, 1.5, suitRed, scene.White, 4,
		scene.Text(p.Sprintf("SPEED: %.0f m/s", swingSpeed), 48, scene.Bold()),
		scene.Text(p.Sprintf("(%d MPH!)", roundTo(swingSpeed*mphPerMS, 10)), 36, scene.Color(scene.Yellow)),
	)
	bigReveal(speedBox, speedText, 0.6)
	s.Play(0.3, anim.FadeOut(speedBox), anim.FadeOut(speedText))

	calc = calcBox(s.Frame, p.Sprintf("Web holds %d kg person", swingMass))
	s.Play(0.4, anim.FadeIn(calc))
	s.Wait(0.3)
	tensionBox, tensionText := reveal(6, 1.5, scene.Orange, scene.White, 4,
		scene.Text(p.Sprintf("TENSION: %d N", webTension), 48, scene.Bold()),
		scene.Text(p.Sprintf("(%d pounds!)", roundTo(webTension*lbfPerNewton, 25)), 36, scene.Color(scene.Yellow)),
	)
	bigReveal(tensionBox, tensionText, 0.6)
	s.Play(0.3, anim.FadeOut(tensionBox), anim.FadeOut(tensionText), anim.FadeOut(calc))

	// g-force
	advance(2)
	problem := scene.Text("The REAL Problem:", 40, scene.Color(scene.Red), scene.Bold()).Shift(scene.Up.Mul(3))
	s.Play(0.4, anim.FadeIn(problem))
	gforces := scene.Text("G-FORCES!", 48, scene.Color(scene.Red), scene.Bold()).NextTo(problem, scene.Down, 0.2)
	s.Play(0.5, anim.FadeIn(gforces, anim.Scale(1.3)))
	s.Wait(0.5)

	why := scene.Text("WHY do G-forces occur?", 36, scene.Color(scene.Yellow), scene.Bold()).Shift(scene.Up.Mul(1.5))
	s.Play(0.4, anim.FadeOut(problem), anim.FadeOut(gforces), anim.FadeIn(why))
	bottom := scene.Text("At the bottom of the swing:", 32).Shift(scene.Up.Mul(0.5))
	s.Play(0.4, anim.FadeIn(bottom))
	rapid := scene.Text("Your direction changes RAPIDLY", 32, scene.Color(scene.Orange)).NextTo(bottom, scene.Down, 0.2)
	fitWidth(rapid, s.Frame.Width-0.6)
	s.Play(0.4, anim.FadeIn(rapid))

	centre := scene.Down.Mul(0.8)
	const r = 1.2
	swingArc := scene.Arc(centre, r, -math.Pi/3-math.Pi/2, 2*math.Pi/3, scene.Stroke(scene.BlueD, 3))
	bob := scene.Dot(centre.Add(scene.Down.Mul(r)), 0.15, scene.Color(suitRed))
	vArrow := scene.ArrowWith(bob.Center(), bob.Center().Add(scene.Right.Mul(1.5)),
		scene.ArrowStyle{StrokeWidth: 4}, scene.Color(scene.Green))
	vLabel := scene.MathTex(`\vec{v}`, 36, scene.Color(scene.Green)).NextTo(vArrow, scene.Down, 0.1)
	aArrow := scene.ArrowWith(bob.Center(), bob.Center().Add(scene.Up.Mul(1.2)),
		scene.ArrowStyle{StrokeWidth: 4}, scene.Color(scene.Red))
	aLabel := scene.MathTex(`\vec{a}_c`, 36, scene.Color(scene.Red)).NextTo(aArrow, scene.Right, 0.1)
	diagram := scene.Group(swingArc, bob, vArrow, vLabel, aArrow, aLabel)
	diagram.Scale(0.8).Shift(scene.Down.Mul(2))
	s.Play(0.7, anim.FadeIn(diagram))
	s.Wait(0.5)
	centripetal := scene.Text("This requires CENTRIPETAL FORCE", 30, scene.Color(scene.Red)).Shift(scene.Down.Mul(4))
	fitWidth(centripetal, s.Frame.Width-0.6)
	s.Play(0.5, anim.FadeIn(centripetal))
	s.Wait(0.6)
	s.Play(0.4, fadeOuts([]*scene.Node{why, bottom, rapid, centripetal, diagram})...)

	// calculation
	step := func(text string, y float64) *scene.Node {
		n := scene.Text(text, 32, scene.Color(scene.TealA)).Shift(scene.Up.Mul(y))
		fitWidth(n, s.Frame.Width-0.6)
		s.Play(0.4, anim.FadeIn(n))
		return n
	}
	write := func(n *scene.Node, runTime float64) *scene.Node {
		fitWidth(n, s.Frame.Width-0.6)
		s.Play(runTime, anim.Write(n))
		return n
	}
	calcTitle := scene.Text("THE CALCULATION:", 40, scene.Color(scene.Yellow), scene.Bold()).Shift(scene.Up.Mul(3.5))
	s.Play(0.4, anim.FadeIn(calcTitle))
	step1 := step("Step 1: Centripetal Acceleration", 2.3)
	formula := write(scene.MathTex(`a_c = \frac{v^2}{r}`, 56).Shift(scene.Up.Mul(1.2)), 0.7)
	explain := scene.Text("(speed squared / radius)", 26, scene.Color(scene.GrayB)).NextTo(formula, scene.Down, 0.2)
	s.Play(0.3, anim.FadeIn(explain))
	s.Wait(0.5)

	step2 := step("Step 2: We know the speed", 0.2)
	speedVal := write(scene.MathTex(p.Sprintf(`v = %.0f \text{ m/s}`, swingSpeed), 48, scene.Color(scene.Green)).
		Shift(scene.Down.Mul(0.5)), 0.5)
	radiusVal := write(scene.MathTex(p.Sprintf(`r = %.0f \text{ m (web length)}`, swingRadius), 48, scene.Color(scene.Blue)).
		NextTo(speedVal, scene.Down, 0.3), 0.5)
	s.Wait(0.5)

	step3 := step("Step 3: Calculate!", -1.8)
	calculation := write(scene.MathTex(p.Sprintf(`a_c = \frac{%.0f^2}{%.0f} = \frac{%.0f}{%.0f}`,
		swingSpeed, swingRadius, swingSpeed*swingSpeed, swingRadius), 48).Shift(scene.Down.Mul(2.7)), 0.8)
	s.Wait(0.5)
	result := write(scene.MathTex(p.Sprintf(`= %.1f \text{ m/s}^2`, accel), 52, scene.Color(scene.Yellow)).
		NextTo(calculation, scene.Down, 0.3), 0.7)
	s.Wait(0.6)
	gravity := scene.Text(p.Sprintf("Earth's gravity = %.1f m/s²", earthGravity), 30, scene.Color(scene.GrayB)).
		Shift(scene.Down.Mul(4.5))
	s.Play(0.4, anim.FadeIn(gravity))
	gResult := write(scene.MathTex(p.Sprintf(`\frac{%.1f}{%.1f} = %.0f \text{ G's}`, accel, earthGravity, gs), 48,
		scene.Color(scene.Orange)).NextTo(gravity, scene.Down, 0.3), 0.7)
	s.Wait(0.8)
	s.Play(0.4, anim.FadeOut(scene.Group(calcTitle, step1, formula, explain, step2, speedVal, radiusVal,
		step3, calculation, result, gravity, gResult)))

	gBox, gText := reveal(7, 2, scene.RedD, scene.White, 6,
		scene.Text(p.Sprintf("%.0f-%.0f G's", gs, 2*gs), 72, scene.Bold()),
		scene.Text("(Direction changes add more!)", 32, scene.Color(scene.Yellow)),
		scene.Text("Fighter Pilot Level!", 36, scene.Color(scene.Orange)),
	)
	gBox.Shift(scene.Down)
	gText.MoveToNode(gBox)
	s.Play(1,
		anim.FadeIn(gBox, anim.Scale(1.4)),
		anim.FadeIn(gText, anim.Shift(scene.Up.Mul(0.4))),
		anim.Flash(gBox, anim.WithColor(scene.Red), anim.Radius(2)),
	)
	s.Wait(0.8)
	s.Play(0.4, anim.FadeOut(gBox), anim.FadeOut(gText))

	// damage
	advance(3)
	damageTitle := scene.Text("What Happens to Your Body?", 34, scene.Color(scene.Red), scene.Bold()).Shift(scene.Up.Mul(1.5))
	s.Play(0.4, anim.FadeIn(damageTitle))
	damage := scene.Group()
	for _, d := range []string{"Dislocated Shoulders", "Severe Whiplash", "Internal Injuries"} {
		bullet := scene.Dot(scene.Origin, 0.08, scene.Color(scene.Red))
		damage.Add(scene.Group(bullet, scene.Text(d, 28).NextTo(bullet, scene.Right, 0.2)))
	}
	damage.ArrangeAligned(scene.Down, 0.25, scene.Left).Shift(scene.Down.Mul(0.5))
	s.Play(1, anim.LaggedStart(fadeIns(damage.Children, anim.Shift(scene.Right.Mul(0.3))), anim.Lag(0.2)))
	s.Wait(0.5)
	calc = calcBox(s.Frame, p.Sprintf("Human arm: %dN vs Need: %dN", armStrength, webTension))
	s.Play(0.4, anim.FadeIn(calc))
	s.Wait(0.6)
	s.Play(0.3, anim.FadeOut(damageTitle), anim.FadeOut(damage), anim.FadeOut(calc))

	// verdict
	advance(4)
	verdict := scene.Text("THE VERDICT", 44, scene.Bold()).Shift(scene.Up.Mul(2))
	s.Play(0.5, anim.FadeIn(verdict))
	side := func(x float64, name, outcome string, mark *scene.Node, fill, edge color.NRGBA) *scene.Node {
		box := scene.Rectangle(4, 2.5, scene.Stroke(edge, 3), scene.Fill(fill, 0.3)).Shift(scene.V(x, -0.5))
		label := scene.Text(name, 28).NextTo(box, scene.Up, 0.2)
		mark.MoveTo(box.Center().Add(scene.Up.Mul(0.3)))
		text := scene.Text(outcome, 32, scene.Color(edge), scene.Bold()).NextTo(mark, scene.Down, 0.3)
		s.Play(0.7, anim.FadeIn(box), anim.FadeIn(label), anim.FadeIn(mark, anim.Scale(1.5)), anim.FadeIn(text))
		return scene.Group(box, label, mark, text)
	}
	human := side(-2.2, "Normal Human", "IMPOSSIBLE", cross(0.8, scene.Red), scene.RedD, scene.Red)
	hero2 := side(2.2, "Spider-Man", "WORKS!", tick(0.8, scene.Green), scene.GreenD, scene.Green)
	s.Wait(0.5)

	powers := scene.Group()
	for _, pw := range []string{"Super Strength (15 tons)", "Enhanced Durability", "Sticky Hands"} {
		mark := tick(0.2, scene.Green).SetStroke(scene.Green, 3)
		powers.Add(scene.Group(mark, scene.Text(pw, 24, scene.Color(scene.Green)).NextTo(mark, scene.Right, 0.15)))
	}
	powers.ArrangeAligned(scene.Down, 0.15, scene.Left).Shift(scene.Down.Mul(3.2))
	s.Play(0.8, anim.LaggedStart(fadeIns(powers.Children, anim.Shift(scene.Up.Mul(0.2))), anim.Lag(0.15)))
	s.Wait(0.6)
	s.Play(0.4, anim.FadeOut(scene.Group(human, hero2, powers, verdict)))

	finalBox, finalText := reveal(7, 2, suitRed, scene.Yellow, 5,
		scene.Text("Physics Says:", 36),
		scene.Text("You Need SUPERPOWERS!", 48, scene.Color(scene.Yellow), scene.Bold()),
	)
	finalBox.Shift(scene.Down)
	finalText.MoveToNode(finalBox)
	s.Play(1,
		anim.FadeIn(finalBox, anim.Scale(1.2)),
		anim.FadeIn(finalText, anim.Shift(scene.Down.Mul(0.2))),
		anim.Flash(finalBox, anim.WithColor(scene.Yellow), anim.Radius(2)),
	)
	s.Wait(0.8)
	outro := scene.Text("Follow for more superhero science!", 28).Shift(scene.Down.Mul(3.5))
	s.Play(0.5, anim.FadeIn(outro))
	s.Wait(0.5)
	s.Play(0.6, anim.FadeOut(scene.Group(title, progress, left, right, hero, web, finalBox, finalText, outro)))
}

// roundTo rounds v to the nearest multiple of step.
func roundTo(v float64, step int) int {
	return int(math.Round(v/float64(step))) * step
}
