package scenes

import (
	"fmt"
	"hash/fnv"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/ivlev/scene2video/internal/anim"
	"github.com/ivlev/scene2video/internal/scene"
)

func gradientDescent() scene.Script {
	return scene.Script{
		Name:       "gradient-descent",
		Title:      "Transformer Training",
		Frame:      scene.Portrait,
		Background: scene.Hex("#06060a"),
		FPS:        30,
		Construct:  constructGradient,
	}
}

var lossData = []float64{
	4.8, 4.6, 4.7, 4.3, 4.1, 4.3, 3.8, 3.5, 3.7, 3.2, 2.9, 3.1, 2.7, 2.4, 2.6, 2.2,
	2.0, 2.1, 1.8, 1.6, 1.7, 1.5, 1.3, 1.4, 1.2, 1.0, 1.1, 0.9, 0.7, 0.6, 0.5,
}

// trainingPrompt is one training example with the three outputs the
// network produces on its way to the answer.
type trainingPrompt struct {
	input, expected string
	stages          [3]string
}

var trainingPrompts = []trainingPrompt{
	{"Pineapple pizza?", "Pineapple on pizza is great!", [3]string{"<<0x7f3a>>", "Maybe... fruit on...", "Pineapple on pizza is great!"}},
	{"Chocolate healthy?", "Dark chocolate has benefits.", [3]string{"<<err_null>>", "Sugar... cocoa...", "Dark chocolate has benefits."}},
	{"Best breakfast?", "Eggs are very nutritious.", [3]string{"<<0xfood>>", "Morning... protein...", "Eggs are very nutritious."}},
	{"Democracy good?", "Democracy enables citizen voice.", [3]string{"<<gov_??>>", "System... voting...", "Democracy enables citizen voice."}},
	{"Free will exists?", "Free will is philosophically debated.", [3]string{"<<choice>>", "Determinism... agency...", "Free will is philosophically debated."}},
	{"Life meaning?", "Meaning is subjectively constructed.", [3]string{"<<exist??>>", "Purpose... happiness...", "Meaning is subjectively constructed."}},
	{"Internet inventor?", "ARPANET team created internet.", [3]string{"<<Al_Gore>>", "Network... DARPA...", "ARPANET team created internet."}},
	{"Coffee vs tea?", "Coffee provides quick energy.", [3]string{"<<drink>>", "Caffeine... taste...", "Coffee provides quick energy."}},
	{"AI helpful?", "AI augments human capabilities.", [3]string{"<<future>>", "Automation... tools...", "AI augments human capabilities."}},
	{"Best economy?", "Mixed economies balance needs.", [3]string{"<<money>>", "Markets... welfare...", "Mixed economies balance needs."}},
}

// lossCurve is a small plot that grows one training step at a time.
type lossCurve struct {
	*scene.Node
	axes *scene.Axes
	line *scene.Node
	dot  *scene.Node
	pts  []scene.Vec
	next int
}

func newLossCurve(width, height float64) *lossCurve {
	axes := scene.NewAxes(scene.AxesConfig{
		XRange:  [3]float64{0, 30, 5},
		YRange:  [3]float64{0, 5, 1},
		XLength: width,
		YLength: height,
	}, scene.Stroke(scene.GrayC, 1))
	xLab := scene.Text("step", 18, scene.Color(scene.GrayD)).NextTo(axes.Node, scene.Down, 0.05)
	yLab := scene.Text("loss", 18, scene.Color(scene.GrayD)).NextTo(axes.Node, scene.Left, 0.05)
	dot := scene.Dot(axes.CoordsToPoint(0, lossData[0]), 0.1, scene.Color(scene.Yellow))
	return &lossCurve{
		Node: scene.Group(axes.Node, xLab, yLab, dot),
		axes: axes,
		dot:  dot,
	}
}

// trace plots the next loss value.
func (c *lossCurve) trace(s *scene.Scene) {
	if c.next >= len(lossData) {
		return
	}
	loss := math.Max(0.2, math.Min(5, lossData[c.next]))
	p := c.axes.CoordsToPoint(float64(c.next), loss)
	c.next++
	c.pts = append(c.pts, p)
	move := anim.Animate(c.dot, func(d *scene.Node) { d.MoveTo(p) })
	switch {
	case len(c.pts) < 2:
		s.Play(0.08, move)
	case c.line == nil:
		c.line = scene.Smooth(c.pts, scene.Stroke(scene.TealA, 3), scene.Named("loss"))
		s.Add(c.line)
		s.Play(0.08, anim.Create(c.line), move)
	default:
		s.Play(0.08, anim.Transform(c.line, scene.Smooth(c.pts, scene.Stroke(scene.TealA, 3))), move)
	}
}

// netBlock is one layer of the toy transformer: a cloud of weights.
type netBlock struct {
	name     string
	color    color.NRGBA
	boundary *scene.Node
	dots     *scene.Node
	label    *scene.Node
}

func (b *netBlock) center() scene.Vec { return b.boundary.Center() }

type network struct {
	*scene.Node
	blocks []*netBlock
	rng    *rand.Rand
}

func newNetwork(rng *rand.Rand) *network {
	specs := []struct {
		name  string
		y     float64
		color color.NRGBA
		count int
	}{
		{"Embed", 2.4, scene.BlueB, 40},
		{"Attention", 1.2, scene.RedC, 55},
		{"MoE", 0, scene.Orange, 70},
		{"FFN", -1.2, scene.PurpleB, 55},
		{"Output", -2.4, scene.GreenC, 40},
	}
	n := &network{Node: scene.Group(), rng: rng}
	for _, sp := range specs {
		b := makeBlock(sp.name, sp.y, sp.color, sp.count)
		n.blocks = append(n.blocks, b)
		n.Add(b.boundary, b.dots, b.label)
	}
	links := scene.Group()
	for i := 0; i+1 < len(n.blocks); i++ {
		a := n.blocks[i].center().Add(scene.Down.Mul(0.5))
		b := n.blocks[i+1].center().Add(scene.Up.Mul(0.5))
		links.Add(scene.Line(a, b, scene.Stroke(scene.GrayB, 1.2), scene.StrokeOpacity(0.3)))
	}
	n.Add(links)
	return n
}

// makeBlock scatters count weights in a 6×0.85 box. The layout depends
// only on the name so every run of the scene draws the same network.
func makeBlock(name string, y float64, col color.NRGBA, count int) *netBlock {
	h := fnv.New64a()
	h.Write([]byte(name))
	rng := rand.New(rand.NewPCG(h.Sum64(), 1000))
	const w, ht = 6.0, 0.85
	dots := scene.Group()
	for i := 0; i < count; i++ {
		p := scene.V((rng.Float64()-0.5)*w, y+(rng.Float64()-0.5)*ht)
		dots.Add(scene.Dot(p, 0.04, scene.Color(col), scene.FillOpacity(0.85)))
	}
	return &netBlock{
		name:  name,
		color: col,
		boundary: scene.RoundedRectangle(6.4, 1.0, 0.1,
			scene.Stroke(col, 1.2), scene.StrokeOpacity(0.4), scene.Fill(col, 0.03), scene.At(scene.V(0, y))),
		dots:  dots,
		label: scene.Text(name, 22, scene.Color(col), scene.Bold(), scene.At(scene.V(-3.5, y))),
	}
}

// flowForward sends a burst of particles from each block to the next.
func (n *network) flowForward(s *scene.Scene) {
	for i := 0; i+1 < len(n.blocks); i++ {
		from, to := n.blocks[i].center(), n.blocks[i+1].center()
		particles := scene.Group()
		var moves []scene.Animation
		for k := 0; k < 8; k++ {
			p := scene.Dot(from.Add(scene.V(n.rng.Float64()-0.5, 0)), 0.05, scene.Color(scene.Yellow))
			particles.Add(p)
			target := to.Add(scene.V(n.rng.Float64()-0.5, 0))
			moves = append(moves, anim.Animate(p, func(c *scene.Node) { c.MoveTo(target).Scale(0.7) }))
		}
		s.Add(particles)
		s.Play(0.12, anim.LaggedStart(moves, anim.Lag(0.03)))
		s.Remove(particles)
	}
}

// backprop sweeps an error wave from output to input, then nudges every
// weight and flashes it towards white.
func (n *network) backprop(s *scene.Scene, intensity float64) {
	out, in := n.blocks[len(n.blocks)-1].center(), n.blocks[0].center()
	wave := scene.Line(out.Add(scene.Left.Mul(3.3)), out.Add(scene.Right.Mul(3.3)),
		scene.Stroke(scene.RedC, 4), scene.StrokeOpacity(0.9))
	s.Add(wave)
	s.PlayRate(0.3, anim.Linear, anim.Animate(wave, func(c *scene.Node) { c.MoveTo(in).SetOpacity(0) }))
	s.Remove(wave)

	var jitter []scene.Animation
	for _, b := range n.blocks {
		cols := scene.Gradient([]color.NRGBA{b.color, scene.White, b.color}, b.dots.Len())
		for i, d := range b.dots.Children {
			shift := scene.V((n.rng.Float64()*2-1)*intensity, (n.rng.Float64()*2-1)*intensity*0.4)
			col := cols[i]
			jitter = append(jitter, anim.Animate(d, func(c *scene.Node) { c.Shift(shift).SetColor(col) }))
		}
	}
	s.PlayRate(0.35, anim.Smooth, anim.LaggedStart(jitter, anim.Lag(0.001)))
}

// labelledBox is a caption above a rounded box.
func labelledBox(label string, labelColor color.NRGBA, width float64, opts ...scene.Option) (*scene.Node, *scene.Node) {
	box := scene.RoundedRectangle(width, 1.0, 0.12, opts...)
	g := scene.Group(scene.Text(label, 24, scene.Color(labelColor), scene.Bold()), box).Arrange(scene.Down, 0.08)
	return g, box
}

func constructGradient(s *scene.Scene) {
	rng := rand.New(rand.NewPCG(3, 3))

	title := scene.Text("Transformer Training", 42, scene.Bold()).ToEdge(s.Frame, scene.Up, 0.3)
	loss := newLossCurve(7.5, 1.8)
	loss.NextTo(title, scene.Down, 0.25)
	stepText := scene.Text("Step 0", 28, scene.Color(scene.GrayB)).NextTo(loss.Node, scene.Down, 0.15)

	inputGroup, inputBox := labelledBox("Input", scene.White, 6.5, scene.Stroke(scene.White, 1.2), scene.FillOpacity(0.04))
	inputGroup.NextTo(stepText, scene.Down, 0.25)

	net := newNetwork(rng)
	net.MoveTo(scene.Origin).Shift(scene.Down.Mul(0.3))

	outputGroup, outputBox := labelledBox("Output", scene.GrayB, 7.0, scene.Stroke(scene.GrayB, 1.2), scene.FillOpacity(0.04))
	outputGroup.ToEdge(s.Frame, scene.Down, 0.4)
	expectedGroup, expectedBox := labelledBox("Expected", scene.GreenA, 7.0,
		scene.Stroke(scene.GreenA, 1.2), scene.StrokeOpacity(0.6), scene.FillOpacity(0.03))
	expectedGroup.NextTo(outputGroup, scene.Up, 0.2)

	s.Play(0.8,
		anim.FadeIn(title), anim.FadeIn(loss.Node), anim.FadeIn(stepText),
		anim.FadeIn(inputGroup), anim.FadeIn(net.Node),
		anim.FadeIn(expectedGroup), anim.FadeIn(outputGroup),
	)

	var inputText, expectedText, outputText *scene.Node
	restroke := func(col color.NRGBA, width float64) scene.Animation {
		return anim.Animate(outputBox, func(c *scene.Node) { c.SetStroke(col, width) })
	}
	for i, p := range trainingPrompts {
		step := scene.Text(fmt.Sprintf("Step %d", i+1), 28, scene.Color(scene.GrayB)).MoveToNode(stepText)
		s.Play(0.06, anim.Transform(stepText, step))

		if inputText != nil {
			s.Play(0.05, anim.FadeOut(inputText), anim.FadeOut(expectedText), anim.FadeOut(outputText))
		}
		inputText = scene.Text(p.input, 26).MoveToNode(inputBox)
		s.Play(0.1, anim.FadeIn(inputText))
		expectedText = scene.Text(p.expected, 22, scene.Color(scene.GreenA)).MoveToNode(expectedBox)
		s.Play(0.1, anim.FadeIn(expectedText))

		// gibberish
		outputText = scene.Text(p.stages[0], 22, scene.Color(scene.RedC)).MoveToNode(outputBox)
		s.Play(0.12, anim.FadeIn(outputText), restroke(scene.RedC, 2))
		net.flowForward(s)
		loss.trace(s)
		net.backprop(s, 0.07)
		loss.trace(s)

		// partial
		partial := scene.Text(p.stages[1], 22, scene.Color(scene.YellowC)).MoveToNode(outputBox)
		s.Play(0.15, anim.Transform(outputText, partial), restroke(scene.YellowC, 2))
		net.backprop(s, 0.05)
		loss.trace(s)

		// aligned
		aligned := scene.Text(p.stages[2], 22, scene.Color(scene.GreenC)).MoveToNode(outputBox)
		s.Play(0.15, anim.Transform(outputText, aligned), restroke(scene.GreenC, 2))
		s.Wait(0.12)
		s.Play(0.05, restroke(scene.GrayB, 1.2))
	}

	s.Play(0.1, anim.FadeOut(inputText), anim.FadeOut(expectedText), anim.FadeOut(outputText))
	done := scene.Text("Training Complete", 48, scene.Color(scene.GreenC), scene.Bold())
	sub := scene.Text("Output matches Expected", 28, scene.Color(scene.GrayB))
	finale := scene.Group(done, sub).Arrange(scene.Down, 0.15)
	s.Play(0.45, anim.FadeIn(done, anim.Scale(1.05)), anim.FadeIn(sub))
	s.Wait(0.5)
	s.Play(0.35, anim.FadeOut(finale), anim.FadeOut(net.Node))
}
