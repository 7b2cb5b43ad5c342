package scene

import (
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// EmPerFontSize converts a font size into world units per em.
const EmPerFontSize = 1.0 / 96

// layoutPPEM is the size glyph metrics are queried at; results are
// divided back into ems.
const layoutPPEM = 64

const lineSpacing = 1.3

// Style selectors for Face.
const (
	FaceRegular = iota
	FaceBold
	FaceItalic
	FaceBoldItalic
)

var (
	fontsOnce sync.Once
	fonts     [4]*sfnt.Font
	fontsErr  error

	measureMu  sync.Mutex
	measureBuf sfnt.Buffer
)

func loadFonts() {
	for i, ttf := range [][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF} {
		f, err := opentype.Parse(ttf)
		if err != nil {
			fontsErr = err
			return
		}
		fonts[i] = f
	}
}

// Face returns the parsed Go font for the selector. The font is safe for
// concurrent use as long as every goroutine passes its own sfnt.Buffer.
func Face(sel int) *sfnt.Font {
	fontsOnce.Do(loadFonts)
	if fontsErr != nil || sel < 0 || sel >= len(fonts) {
		return nil
	}
	return fonts[sel]
}

func faceFor(bold, italic bool) int {
	switch {
	case bold && italic:
		return FaceBoldItalic
	case bold:
		return FaceBold
	case italic:
		return FaceItalic
	}
	return FaceRegular
}

// Glyph is one positioned glyph of a text layout. X and Y are the pen
// position in ems relative to the bottom-left of the layout box (y up);
// Scale shrinks super- and subscripts.
type Glyph struct {
	Face  int
	Index sfnt.GlyphIndex
	X, Y  float64
	Scale float64
}

// TextLayout is the result of shaping a text node.
type TextLayout struct {
	Glyphs []Glyph
	Width  float64
	Height float64
}

// run is a span of text sharing a face, scale and baseline shift.
type run struct {
	text  string
	face  int
	scale float64
	rise  float64
}

func em(v fixed.Int26_6) float64 { return float64(v) / 64 / layoutPPEM }

// layoutLines shapes lines of runs. Lines are stacked top to bottom and each
// line is aligned according to align (-1 left, 0 centre, 1 right).
func layoutLines(lines [][]run, align int) *TextLayout {
	regular := Face(FaceRegular)
	if regular == nil {
		return &TextLayout{}
	}

	measureMu.Lock()
	defer measureMu.Unlock()

	ppem := fixed.I(layoutPPEM)
	m, err := regular.Metrics(&measureBuf, ppem, font.HintingNone)
	ascent, descent := 0.75, 0.25
	if err == nil {
		if m.CapHeight > 0 {
			ascent = em(m.CapHeight) * 1.08
		} else {
			ascent = em(m.Ascent) * 0.8
		}
		descent = em(m.Descent)
	}

	type shaped struct {
		glyphs []Glyph
		width  float64
		top    float64
		bottom float64
	}
	var rows []shaped
	for _, line := range lines {
		var row shaped
		row.top, row.bottom = ascent, descent
		x := 0.0
		prev := sfnt.GlyphIndex(0)
		prevFace := -1
		for _, r := range line {
			f := Face(r.face)
			if f == nil {
				continue
			}
			scale := r.scale
			if scale == 0 {
				scale = 1
			}
			if t := r.rise + ascent*scale; t > row.top {
				row.top = t
			}
			if b := descent*scale - r.rise; b > row.bottom {
				row.bottom = b
			}
			for _, ch := range r.text {
				idx, err := f.GlyphIndex(&measureBuf, ch)
				if err != nil {
					idx = 0
				}
				if prevFace == r.face && prev != 0 && idx != 0 {
					if k, err := f.Kern(&measureBuf, prev, idx, ppem, font.HintingNone); err == nil {
						x += em(k) * scale
					}
				}
				row.glyphs = append(row.glyphs, Glyph{Face: r.face, Index: idx, X: x, Y: r.rise, Scale: scale})
				adv, err := f.GlyphAdvance(&measureBuf, idx, ppem, font.HintingNone)
				if err == nil {
					x += em(adv) * scale
				}
				prev, prevFace = idx, r.face
			}
		}
		row.width = x
		rows = append(rows, row)
	}

	out := &TextLayout{}
	for _, row := range rows {
		if row.width > out.Width {
			out.Width = row.width
		}
	}
	// total height: first row top, spacing between baselines, last row bottom
	baselines := make([]float64, len(rows))
	y := 0.0
	for i, row := range rows {
		if i == 0 {
			y = row.top
		} else {
			step := lineSpacing
			if gap := rows[i-1].bottom + row.top + 0.15; gap > step {
				step = gap
			}
			y += step
		}
		baselines[i] = y
	}
	if n := len(rows); n > 0 {
		out.Height = baselines[n-1] + rows[n-1].bottom
	}
	for i, row := range rows {
		shift := 0.0
		switch align {
		case 0:
			shift = (out.Width - row.width) / 2
		case 1:
			shift = out.Width - row.width
		}
		base := out.Height - baselines[i]
		for _, g := range row.glyphs {
			g.X += shift
			g.Y += base
			out.Glyphs = append(out.Glyphs, g)
		}
	}
	return out
}

// TextOption customises text construction.
type TextOption func(*textConfig)

type textConfig struct {
	align  int
	italic bool
}

// AlignLeft left-aligns the lines of a multi-line text.
func AlignLeft() TextOption { return func(c *textConfig) { c.align = -1 } }

// Italic selects the italic face.
func Italic() TextOption { return func(c *textConfig) { c.italic = true } }

// Text creates a text node. Newlines start new lines; lines are centred
// unless AlignLeft is given. Text is filled with no outline.
func Text(s string, fontSize float64, opts ...Option) *Node {
	return TextWith(s, fontSize, nil, opts...)
}

// TextWith is Text with layout options.
func TextWith(s string, fontSize float64, topts []TextOption, opts ...Option) *Node {
	var cfg textConfig
	for _, o := range topts {
		o(&cfg)
	}
	n := newNode(KindText)
	n.Text = s
	n.FontSize = fontSize
	n.Italic = cfg.italic
	n.Style.StrokeWidth = 0
	n.Style.FillOpacity = 1
	n.apply(opts)
	n.setLayout(plainLines(s, faceFor(n.Bold, n.Italic)), cfg.align)
	// again, so placement options see the shaped box
	return n.apply(opts)
}

func plainLines(s string, face int) [][]run {
	var lines [][]run
	for _, l := range strings.Split(s, "\n") {
		lines = append(lines, []run{{text: l, face: face, scale: 1}})
	}
	return lines
}

// setLayout shapes the text and places the box centred on the origin.
func (n *Node) setLayout(lines [][]run, align int) {
	n.layout = layoutLines(lines, align)
	unit := n.FontSize * EmPerFontSize
	w := n.layout.Width * unit
	h := n.layout.Height * unit
	n.Points = []Vec{{-w / 2, -h / 2}, {w / 2, -h / 2}, {w / 2, h / 2}, {-w / 2, h / 2}}
}

// Layout returns the shaped glyphs of a text node, or nil.
func (n *Node) Layout() *TextLayout { return n.layout }

// GlyphCount reports how many glyphs a text node draws.
func (n *Node) GlyphCount() int {
	if n.layout == nil {
		return 0
	}
	return len(n.layout.Glyphs)
}

// Box returns the four corners of a text or image node in the order
// bottom-left, bottom-right, top-right, top-left.
func (n *Node) Box() (bl, br, tr, tl Vec, ok bool) {
	if len(n.Points) != 4 || (n.Kind != KindText && n.Kind != KindImage) {
		return
	}
	return n.Points[0], n.Points[1], n.Points[2], n.Points[3], true
}

// BoxPoint maps normalised box coordinates (u right, v up, both 0..1) to
// world coordinates.
func (n *Node) BoxPoint(u, v float64) Vec {
	bl, br, _, tl, ok := n.Box()
	if !ok {
		return n.Center()
	}
	return bl.Add(br.Sub(bl).Mul(u)).Add(tl.Sub(bl).Mul(v))
}
