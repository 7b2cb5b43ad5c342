package scenes

import (
	"image"
	"log"
	"math"

	"github.com/ivlev/scene2video/internal/anim"
	"github.com/ivlev/scene2video/internal/config"
	"github.com/ivlev/scene2video/internal/scene"
	"github.com/ivlev/scene2video/internal/source"
	"github.com/ivlev/scene2video/internal/system"
)

// IntroSound is the background track of the intro, relative to the
// working directory.
const IntroSound = "sounds/01_Repository_Intro.mp3"

const qrPixels = 256

func repoIntro(cfg *config.Config) scene.Script {
	var logo, qr image.Image
	if cfg.AssetPath != "" {
		logo = loadLogo(cfg.AssetPath, cfg.DPI)
	}
	if cfg.ContactURL != "" {
		img, err := source.QRCode(cfg.ContactURL, qrPixels, scene.Black)
		if err != nil {
			log.Printf("[!] QR-код не создан: %v", err)
		}
		qr = img
	}
	return scene.Script{
		Name:       "repo-intro",
		Title:      "Repository Intro",
		Frame:      scene.Landscape,
		Background: scene.Hex("#0a0a1e"),
		FPS:        60,
		Sound:      &scene.Sound{Path: IntroSound, Duration: 12},
		Construct: func(s *scene.Scene) {
			constructIntro(s, cfg.ContactURL, logo, qr)
		},
	}
}

// loadLogo returns the first page of the asset at path, or nil.
func loadLogo(path string, dpi int) image.Image {
	file, err := system.FindLatestAsset(path)
	if err != nil {
		log.Printf("[!] Логотип не найден в %s: %v", path, err)
		return nil
	}
	img, err := source.LoadAsset(file, 0, dpi)
	if err != nil {
		log.Printf("[!] Логотип %s не загружен: %v", file, err)
		return nil
	}
	return img
}

func constructIntro(s *scene.Scene, contact string, logo, qr image.Image) {
	title := scene.Text("Explainer Animations", 72, scene.Bold()).ToEdge(s.Frame, scene.Up, 0.6)
	intro := []scene.Animation{anim.FadeIn(title)}
	var logoNode *scene.Node
	if logo != nil {
		logoNode = scene.Image(logo, 0.9, scene.Named("logo")).ToEdge(s.Frame, scene.UL, 0.3)
		intro = append(intro, anim.FadeIn(logoNode))
	}
	s.Play(0.5, intro...)
	s.Wait(0.3)

	// repository structure
	structTitle := scene.Text("Repository Structure", 42, scene.Color(scene.Yellow), scene.Bold()).MoveTo(scene.Up.Mul(0.5))
	items := scene.Group(
		scene.Text("internal/scenes/ - explainer scripts", 32, scene.Color(scene.BlueA)),
		scene.Text("videos/ - rendered MP4 files", 32, scene.Color(scene.GreenA)),
		scene.Text("timelines/ - recorded scene timelines", 32, scene.Color(scene.Orange)),
	).Arrange(scene.Down, 0.4).NextTo(structTitle, scene.Down, 0.6)
	structure := scene.Group(structTitle, items)
	s.Play(1, anim.FadeIn(structure))
	s.Wait(1.5)
	s.Play(0.8, anim.FadeOut(structure))
	s.Wait(0.3)

	// credentials
	nameGroup := scene.Group(
		scene.Text("Arnav Salkade", 48, scene.Bold()),
		scene.Text("Computer Engineering at NUS", 32, scene.Color(scene.GrayA)),
	)
	if contact != "" {
		nameGroup.Add(scene.Text(contact+" (reach out!)", 28, scene.Color(scene.Yellow)))
	}
	nameGroup.Arrange(scene.Down, 0.3)
	credits := scene.Group(nameGroup)
	if qr != nil {
		code := scene.Group(
			scene.RoundedRectangle(1.9, 1.9, 0.1, scene.StrokeWidth(0), scene.Fill(scene.White, 1)),
			scene.Image(qr, 1.6),
		)
		credits.Add(code)
		credits.Arrange(scene.Right, 0.8)
	}
	credits.MoveTo(scene.Origin)
	s.Play(1, anim.FadeIn(credits))
	s.Wait(2)
	s.Play(0.8, anim.FadeOut(credits))
	s.Wait(0.3)

	// goal
	goal := scene.Text("Goal: Use AI for storytelling and learning", 36)
	bg := introBackground()
	s.Play(1, append(fadeIns(bg.Children), anim.FadeIn(goal))...)
	container := scene.Group(append([]*scene.Node{goal, title}, bg.Children...)...)
	s.PlayRate(3, anim.Smooth, anim.ScaleBy(container, 1.15))
	s.Wait(0.5)
	s.Play(0.8, append(fadeOuts(bg.Children), anim.FadeOut(goal))...)
	s.Wait(0.3)

	// quote
	spark := scene.Text("but a spark", 44, scene.Color(scene.Gold), scene.Bold())
	quote := scene.Group(
		scene.Text(`"Education is not a vessel to be filled`, 32, scene.Color(scene.GrayA)),
		spark,
		scene.Text(`to be ignited"`, 32, scene.Color(scene.GrayA)),
	).Arrange(scene.Down, 0.2)
	bg = introBackground()
	s.Play(0.6, append(fadeIns(bg.Children), anim.FadeIn(quote))...)
	s.Play(0.5, anim.ScaleBy(spark, 1.05))
	s.Play(0.5, anim.ScaleBy(spark, 1/1.05))
	container = scene.Group(append([]*scene.Node{quote, title}, bg.Children...)...)
	s.PlayRate(4.5, anim.Smooth, anim.ScaleBy(container, 1.2))
	s.Wait(2)

	all := append([]*scene.Node{quote, title}, bg.Children...)
	if logoNode != nil {
		all = append(all, logoNode)
	}
	s.Play(1, anim.FadeOut(scene.Group(all...)))
	s.Wait(0.3)
}

// introBackground builds the faint physics and maths vignettes around the
// centre text.
func introBackground() *scene.Node {
	g := scene.Group()

	// planets
	p1, p2 := scene.V(-5, 2), scene.V(-5.5, 1)
	g.Add(
		scene.Circle(0.6, scene.Stroke(scene.Blue, 0.8), scene.StrokeOpacity(0.15), scene.At(p1)),
		scene.Circle(0.45, scene.Stroke(scene.Green, 0.8), scene.StrokeOpacity(0.15), scene.At(p2)),
		scene.Dot(p1, 0.08, scene.Color(scene.Blue)),
		scene.Dot(p2, 0.07, scene.Color(scene.Green)),
	)

	// pendulum
	pivot := scene.V(5, 2.5)
	bob := pivot.Add(scene.Down.Mul(0.9))
	g.Add(
		scene.Dot(pivot, 0.05),
		scene.Line(pivot, bob, scene.Stroke(scene.GrayB, 1)),
		scene.Dot(bob, 0.08, scene.Color(scene.Yellow)),
	)

	// equations
	g.Add(
		scene.MathTex(`e^{i\pi} + 1 = 0`, 20, scene.Color(scene.GrayB), scene.At(scene.V(-4, 2.8))),
		scene.MathTex(`E = mc^2`, 20, scene.Color(scene.GrayB), scene.At(scene.V(4, 2.8))),
		scene.MathTex(`ds^2 = -dt^2 + dx^2`, 16, scene.Color(scene.GrayC), scene.At(scene.V(-4.5, 0.5))),
		scene.MathTex(`r_s = \frac{2GM}{c^2}`, 16, scene.Color(scene.GrayC), scene.At(scene.V(4.5, 0.5))),
	)

	// pole-zero thumbnail
	axes := scene.NewAxes(scene.AxesConfig{
		XRange:  [3]float64{-1.5, 0.5, 0.5},
		YRange:  [3]float64{-1, 1, 0.5},
		XLength: 0.9,
		YLength: 0.9,
		Ticks:   true,
	}, scene.Stroke(scene.GrayC, 0.8))
	axes.Shift(scene.V(-4.5, -2))
	pole := axes.CoordsToPoint(-0.8, 0.3)
	const d = 0.06
	g.Add(
		axes.Node,
		scene.Line(pole.Add(scene.V(-d, d)), pole.Add(scene.V(d, -d)), scene.Stroke(scene.Red, 1)),
		scene.Line(pole.Add(scene.V(d, d)), pole.Add(scene.V(-d, -d)), scene.Stroke(scene.Red, 1)),
		scene.Circle(0.05, scene.Stroke(scene.Green, 1), scene.At(axes.CoordsToPoint(-0.5, -0.4))),
	)

	// frequency graph
	freq := sampled(func(x float64) scene.Vec {
		return scene.V(x*0.25+4.5, math.Sin(x)*0.2+math.Sin(2*x)*0.1-2)
	}, 0, 4*math.Pi, 59)
	g.Add(scene.Polyline(freq, scene.Stroke(scene.Blue, 1)))

	sine := sampled(func(x float64) scene.Vec {
		return scene.V(x*0.25+5, math.Sin(x)*0.3+0.5)
	}, 0, 2*math.Pi, 29)
	g.Add(scene.Polyline(sine, scene.Stroke(scene.Hex("#00FFFF"), 1)))
	return g
}
