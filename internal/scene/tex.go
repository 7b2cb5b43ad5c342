package scene

import (
	"strings"
	"unicode"
)

// texSymbols maps control words to the characters they stand for.
var texSymbols = map[string]string{
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "Delta": "Δ",
	"epsilon": "ε", "theta": "θ", "lambda": "λ", "mu": "μ", "nu": "ν",
	"pi": "π", "rho": "ρ", "sigma": "σ", "tau": "τ", "phi": "φ",
	"omega": "ω", "Omega": "Ω", "hbar": "ħ", "infty": "∞", "circ": "°",
	"partial": "∂", "nabla": "∇", "sqrt": "√", "cos": "cos", "sin": "sin",
	"tan": "tan", "log": "log", "ln": "ln", "exp": "exp", "max": "max",
	"min": "min", "lim": "lim", "&": "&", "%": "%", "$": "$", "#": "#",
	"_": "_", "{": "{", "}": "}", ",": " ", ";": " ", " ": " ", "quad": "  ",
	"bullet": "•", "ldots": "…", "dots": "…", "cdots": "⋯",
}

// texRelations are spaced on both sides.
var texRelations = map[string]string{
	"to": "→", "rightarrow": "→", "leftarrow": "←", "times": "×", "cdot": "·",
	"approx": "≈", "le": "≤", "leq": "≤", "ge": "≥", "geq": "≥", "pm": "±",
	"neq": "≠", "propto": "∝", "equiv": "≡", "Rightarrow": "⇒",
}

const (
	scriptScale = 0.68
	supRise     = 0.42
	subRise     = -0.2
)

type texState struct {
	bold    bool
	upright bool
	math    bool
	scale   float64
	rise    float64
}

type texParser struct {
	s []rune
	i int
}

// parseTex converts a TeX subset into text runs: Greek letters and common
// symbols, super- and subscripts, \frac (set inline as a/b), \text,
// \textbf, \vec and $...$ math spans.
func parseTex(src string, math bool) [][]run {
	var lines [][]run
	for _, line := range strings.Split(src, `\\`) {
		p := &texParser{s: []rune(line)}
		runs := p.seq(texState{math: math, scale: 1}, 0)
		lines = append(lines, collapseSpaces(runs))
	}
	return lines
}

func (p *texParser) peek() rune {
	if p.i >= len(p.s) {
		return 0
	}
	return p.s[p.i]
}

func (p *texParser) seq(st texState, stop rune) []run {
	var out []run
	for p.i < len(p.s) {
		c := p.s[p.i]
		switch {
		case c == stop:
			p.i++
			return out
		case c == '{':
			p.i++
			out = append(out, p.seq(st, '}')...)
		case c == '$':
			p.i++
			st.math = !st.math
		case c == '^' || c == '_':
			p.i++
			out = append(out, p.script(st, c == '^')...)
		case c == '\\':
			out = append(out, p.command(st)...)
		case c == '~':
			p.i++
			out = append(out, st.char(" "))
		default:
			p.i++
			out = append(out, st.literal(c, binaryContext(out))...)
		}
	}
	return out
}

// literal sets one source character. In math mode spaces are dropped and
// relations and binary operators get spacing of their own.
func (st texState) literal(c rune, binary bool) []run {
	if !st.math || st.upright {
		return []run{st.char(string(c))}
	}
	switch c {
	case ' ', '\t':
		return nil
	case '=', '<', '>':
		return []run{st.char(" " + string(c) + " ")}
	case '+', '-':
		s := string(c)
		if c == '-' {
			s = "−"
		}
		if binary {
			s = " " + s + " "
		}
		return []run{st.char(s)}
	case ',':
		return []run{st.char(", ")}
	}
	return []run{st.char(string(c))}
}

// binaryContext reports whether a following + or - joins two operands.
func binaryContext(out []run) bool {
	for i := len(out) - 1; i >= 0; i-- {
		t := strings.TrimRight(out[i].text, " ")
		if t == "" {
			continue
		}
		r := []rune(t)
		last := r[len(r)-1]
		return unicode.IsLetter(last) || unicode.IsDigit(last) || strings.ContainsRune(")]|∞°", last)
	}
	return false
}

// arg parses one argument: a braced group, a command or a single character.
func (p *texParser) arg(st texState) []run {
	for p.peek() == ' ' {
		p.i++
	}
	switch c := p.peek(); c {
	case 0:
		return nil
	case '{':
		p.i++
		return p.seq(st, '}')
	case '\\':
		return p.command(st)
	default:
		p.i++
		return []run{st.char(string(c))}
	}
}

func (p *texParser) script(st texState, sup bool) []run {
	save := p.i
	if p.peek() == '\\' {
		// a degree sign is set at full size
		name := p.word()
		if name == "circ" {
			return []run{st.char("°")}
		}
		p.i = save
	}
	sub := st
	sub.scale = st.scale * scriptScale
	if sup {
		sub.rise = st.rise + supRise*st.scale
	} else {
		sub.rise = st.rise + subRise*st.scale
	}
	return p.arg(sub)
}

// word consumes a control word after the backslash.
func (p *texParser) word() string {
	p.i++ // backslash
	start := p.i
	for p.i < len(p.s) && unicode.IsLetter(p.s[p.i]) {
		p.i++
	}
	if p.i == start && p.i < len(p.s) {
		p.i++
		return string(p.s[start:p.i])
	}
	name := string(p.s[start:p.i])
	// spaces after a control word are ignored
	for p.peek() == ' ' {
		p.i++
	}
	return name
}

func (p *texParser) command(st texState) []run {
	name := p.word()
	switch name {
	case "frac":
		num := p.arg(st)
		den := p.arg(st)
		var out []run
		if hasTopLevelSum(runsText(num)) {
			out = append(out, st.char("("))
			out = append(out, num...)
			out = append(out, st.char(")"))
		} else {
			out = append(out, num...)
		}
		out = append(out, st.char("/"))
		if !isAtom(runsText(den)) {
			out = append(out, st.char("("))
			out = append(out, den...)
			out = append(out, st.char(")"))
		} else {
			out = append(out, den...)
		}
		return out
	case "text", "mathrm", "textrm", "operatorname":
		sub := st
		sub.upright = true
		return p.arg(sub)
	case "textbf", "mathbf", "boldsymbol", "vec":
		sub := st
		sub.bold = true
		return p.arg(sub)
	case "textit", "mathit", "emph":
		sub := st
		sub.math = true
		sub.upright = false
		return p.arg(sub)
	case "left", "right", "big", "Big", "displaystyle":
		return nil
	}
	if r, ok := texRelations[name]; ok {
		return []run{st.char(" " + r + " ")}
	}
	if s, ok := texSymbols[name]; ok {
		up := st
		up.upright = true
		return []run{up.char(s)}
	}
	return []run{st.char(name)}
}

func (st texState) char(s string) run {
	face := FaceRegular
	letter := false
	for _, r := range s {
		if unicode.IsLetter(r) && r < 0x370 {
			letter = true
		}
	}
	switch {
	case st.bold && st.math && !st.upright && letter:
		face = FaceBoldItalic
	case st.bold:
		face = FaceBold
	case st.math && !st.upright && letter:
		face = FaceItalic
	}
	return run{text: s, face: face, scale: st.scale, rise: st.rise}
}

func runsText(rs []run) string {
	var b strings.Builder
	for _, r := range rs {
		b.WriteString(r.text)
	}
	return strings.TrimSpace(b.String())
}

func hasTopLevelSum(s string) bool {
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case '+', '-', '−':
			if depth == 0 && i > 0 {
				return true
			}
		}
	}
	return false
}

func isAtom(s string) bool {
	rs := []rune(s)
	if len(rs) <= 1 {
		return true
	}
	plain := true
	for _, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' {
			plain = false
			break
		}
	}
	if plain {
		return true
	}
	if rs[0] != '(' || rs[len(rs)-1] != ')' {
		return false
	}
	depth := 0
	for i, r := range rs {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(rs)-1 {
				return false
			}
		}
	}
	return true
}

// collapseSpaces merges repeated spaces that relation padding introduces and
// trims the line.
func collapseSpaces(rs []run) []run {
	var out []run
	lastSpace := true
	for _, r := range rs {
		var b strings.Builder
		for _, c := range r.text {
			if c == ' ' {
				if lastSpace {
					continue
				}
				lastSpace = true
			} else {
				lastSpace = false
			}
			b.WriteRune(c)
		}
		if b.Len() > 0 {
			r.text = b.String()
			out = append(out, r)
		}
	}
	// trailing space
	if n := len(out); n > 0 {
		out[n-1].text = strings.TrimRight(out[n-1].text, " ")
		if out[n-1].text == "" {
			out = out[:n-1]
		}
	}
	return out
}

// MathTex typesets a formula: letters italic, digits and symbols upright.
func MathTex(src string, fontSize float64, opts ...Option) *Node {
	return tex(src, fontSize, true, opts)
}

// Tex typesets text with optional $...$ math spans.
func Tex(src string, fontSize float64, opts ...Option) *Node {
	return tex(src, fontSize, false, opts)
}

func tex(src string, fontSize float64, math bool, opts []Option) *Node {
	n := newNode(KindText)
	n.Text = src
	n.FontSize = fontSize
	n.Style.StrokeWidth = 0
	n.Style.FillOpacity = 1
	n.apply(opts)
	lines := parseTex(src, math)
	if n.Bold {
		for _, l := range lines {
			for i := range l {
				if l[i].face == FaceRegular {
					l[i].face = FaceBold
				}
			}
		}
	}
	n.setLayout(lines, -1)
	return n.apply(opts)
}

// PlainTex returns the characters a TeX source renders to, for logs and
// timelines.
func PlainTex(src string) string {
	var parts []string
	for _, l := range parseTex(src, true) {
		var b strings.Builder
		for _, r := range l {
			b.WriteString(r.text)
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n")
}
