// Package anim implements the animation verbs the explainer scripts play:
// fades, drawing and writing, transforms, movement along paths and
// emphasis effects.
package anim

import (
	"fmt"
	"image/color"

	"github.com/ivlev/scene2video/internal/scene"
)

// Option tunes an animation.
type Option func(*config)

type config struct {
	runTime float64
	rate    scene.RateFunc
	shift   scene.Vec
	scale   float64
	lag     float64
	color   *color.NRGBA
	radius  float64
}

func newConfig(def config, opts []Option) config {
	c := def
	for _, o := range opts {
		o(&c)
	}
	return c
}

// RunTime sets the preferred duration in seconds.
func RunTime(d float64) Option { return func(c *config) { c.runTime = d } }

// Rate sets the easing.
func Rate(r scene.RateFunc) Option { return func(c *config) { c.rate = r } }

// Shift sets the travel of a fade.
func Shift(v scene.Vec) Option { return func(c *config) { c.shift = v } }

// Scale sets the scale factor of a fade or emphasis.
func Scale(f float64) Option { return func(c *config) { c.scale = f } }

// Lag sets the lag ratio between members of a group.
func Lag(r float64) Option { return func(c *config) { c.lag = r } }

// WithColor sets the colour of an emphasis.
func WithColor(col color.NRGBA) Option { return func(c *config) { c.color = &col } }

// Radius sets the radius of a flash.
func Radius(r float64) Option { return func(c *config) { c.radius = r } }

type base struct {
	cfg   config
	label string
}

func (b *base) RunTime() float64     { return b.cfg.runTime }
func (b *base) Rate() scene.RateFunc { return b.cfg.rate }
func (b *base) Label() string        { return b.label }

func label(verb string, n *scene.Node) string {
	if n == nil {
		return verb
	}
	if n.Name != "" {
		return fmt.Sprintf("%s(%s)", verb, n.Name)
	}
	return fmt.Sprintf("%s(%s)", verb, n.Kind)
}

// morph drives a node from a start state to an end state built from its
// state when the animation begins.
type morph struct {
	base
	node  *scene.Node
	start func(*scene.Node) *scene.Node
	end   func(*scene.Node) *scene.Node

	introduce   bool
	remove      bool
	restore     bool
	replacement *scene.Node

	m     *scene.Morph
	alpha float64
}

func (a *morph) Begin(s *scene.Scene) {
	if a.introduce {
		s.Add(a.node)
	}
	cur := a.node.Copy()
	from := cur
	if a.start != nil {
		from = a.start(cur.Copy())
	}
	to := cur.Copy()
	if a.end != nil {
		to = a.end(to)
	}
	a.m = scene.NewMorph(a.node, from, to)
	a.m.Apply(0)
}

func (a *morph) Interpolate(alpha float64) {
	a.alpha = alpha
	a.m.Apply(alpha)
}

func (a *morph) Finish(s *scene.Scene) {
	if a.alpha >= 1-1e-6 {
		a.m.Finish()
	} else {
		a.m.Apply(a.alpha)
	}
	if a.restore {
		a.m.Apply(0)
	}
	if a.remove || a.replacement != nil {
		s.Remove(a.node)
	}
	if a.replacement != nil {
		s.Add(a.replacement)
	}
}

func fadeTransform(n *scene.Node, shift scene.Vec, factor float64) *scene.Node {
	n.Shift(shift)
	if factor != 0 && factor != 1 {
		n.Scale(factor)
	}
	n.Opacity = 0
	return n
}

// FadeIn adds n and fades it in. With Shift it slides in along the shift
// vector; with Scale it starts at that size.
func FadeIn(n *scene.Node, opts ...Option) scene.Animation {
	cfg := newConfig(config{rate: Smooth}, opts)
	return &morph{
		base:      base{cfg: cfg, label: label("FadeIn", n)},
		node:      n,
		introduce: true,
		start: func(c *scene.Node) *scene.Node {
			return fadeTransform(c, cfg.shift.Mul(-1), cfg.scale)
		},
	}
}

// FadeOut fades n out and removes it. The node keeps its original state
// so it can be shown again.
func FadeOut(n *scene.Node, opts ...Option) scene.Animation {
	cfg := newConfig(config{rate: Smooth}, opts)
	return &morph{
		base:    base{cfg: cfg, label: label("FadeOut", n)},
		node:    n,
		remove:  true,
		restore: true,
		end: func(c *scene.Node) *scene.Node {
			return fadeTransform(c, cfg.shift, cfg.scale)
		},
	}
}

// GrowArrow grows n out of its start point.
func GrowArrow(n *scene.Node, opts ...Option) scene.Animation {
	cfg := newConfig(config{rate: Smooth}, opts)
	return &morph{
		base:      base{cfg: cfg, label: label("GrowArrow", n)},
		node:      n,
		introduce: true,
		start: func(c *scene.Node) *scene.Node {
			return c.ScaleAbout(0, c.Start())
		},
	}
}

// Transform morphs n into the shape and style of target. n stays in the
// scene; target is not added.
func Transform(n, target *scene.Node, opts ...Option) scene.Animation {
	cfg := newConfig(config{rate: Smooth}, opts)
	to := target.Copy()
	return &morph{
		base: base{cfg: cfg, label: label("Transform", n)},
		node: n,
		end:  func(*scene.Node) *scene.Node { return to.Copy() },
	}
}

// ReplacementTransform morphs n into target, then swaps n for target in
// the scene.
func ReplacementTransform(n, target *scene.Node, opts ...Option) scene.Animation {
	cfg := newConfig(config{rate: Smooth}, opts)
	to := target.Copy()
	return &morph{
		base:        base{cfg: cfg, label: label("ReplacementTransform", n)},
		node:        n,
		end:         func(*scene.Node) *scene.Node { return to.Copy() },
		replacement: target,
	}
}

// Animate morphs n into the result of applying fn to a copy of it, the
// way chained .animate calls read.
func Animate(n *scene.Node, fn func(*scene.Node), opts ...Option) scene.Animation {
	cfg := newConfig(config{rate: Smooth}, opts)
	return &morph{
		base: base{cfg: cfg, label: label("Animate", n)},
		node: n,
		end: func(c *scene.Node) *scene.Node {
			fn(c)
			return c
		},
	}
}

// ShiftBy moves n by d.
func ShiftBy(n *scene.Node, d scene.Vec, opts ...Option) scene.Animation {
	return Animate(n, func(c *scene.Node) { c.Shift(d) }, opts...)
}

// ScaleBy resizes n about its centre.
func ScaleBy(n *scene.Node, f float64, opts ...Option) scene.Animation {
	return Animate(n, func(c *scene.Node) { c.Scale(f) }, opts...)
}

// SetColor recolours n.
func SetColor(n *scene.Node, col color.NRGBA, opts ...Option) scene.Animation {
	return Animate(n, func(c *scene.Node) { c.SetColor(col) }, opts...)
}

// FadeTo changes the opacity of n.
func FadeTo(n *scene.Node, opacity float64, opts ...Option) scene.Animation {
	return Animate(n, func(c *scene.Node) { c.SetOpacity(opacity) }, opts...)
}

// Indicate briefly enlarges and recolours n, then returns it to normal.
func Indicate(n *scene.Node, opts ...Option) scene.Animation {
	cfg := newConfig(config{rate: ThereAndBack, scale: 1.2}, opts)
	col := scene.Yellow
	if cfg.color != nil {
		col = *cfg.color
	}
	return &morph{
		base: base{cfg: cfg, label: label("Indicate", n)},
		node: n,
		end: func(c *scene.Node) *scene.Node {
			return c.Scale(cfg.scale).SetColor(col)
		},
	}
}
