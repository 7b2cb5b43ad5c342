package scene

import (
	"image"
	"image/color"
)

// Kind distinguishes how a Node is drawn.
type Kind int

const (
	KindGroup Kind = iota
	KindPath
	KindText
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "group"
	}
}

// Style is the paint of a path or text node.
type Style struct {
	Stroke        color.NRGBA
	StrokeWidth   float64
	StrokeOpacity float64
	Fill          color.NRGBA
	FillOpacity   float64
}

// Node is a mobject: a polyline path, a text run, an image, or a group of
// other nodes. All geometry lives in world coordinates, so layout operations
// rewrite points in place.
//
// Text and image nodes keep their bounding box in Points as the four
// corners bottom-left, bottom-right, top-right, top-left.
type Node struct {
	Kind   Kind
	Name   string
	Tag    string
	Points []Vec
	Closed bool
	Style  Style

	// Opacity multiplies the opacity of the node and its children.
	Opacity float64

	// DrawFrom and Drawn bound the visible part of the outline (or the
	// revealed glyphs of a text) as fractions of its length.
	DrawFrom float64
	Drawn    float64

	Text     string
	FontSize float64
	Bold     bool
	Italic   bool
	layout   *TextLayout

	Image image.Image

	Children []*Node
}

// Option customises a node at construction time.
type Option func(*Node)

func newNode(kind Kind) *Node {
	return &Node{
		Kind:    kind,
		Opacity: 1,
		Drawn:   1,
		Style: Style{
			Stroke:        White,
			StrokeWidth:   4,
			StrokeOpacity: 1,
			Fill:          White,
		},
	}
}

func (n *Node) apply(opts []Option) *Node {
	for _, o := range opts {
		o(n)
	}
	return n
}

// Color sets both stroke and fill colour.
func Color(c color.NRGBA) Option {
	return func(n *Node) { n.SetColor(c) }
}

// Stroke sets the outline colour and width.
func Stroke(c color.NRGBA, width float64) Option {
	return func(n *Node) {
		n.eachLeaf(func(l *Node) {
			l.Style.Stroke = c
			l.Style.StrokeWidth = width
		})
	}
}

func StrokeWidth(w float64) Option {
	return func(n *Node) { n.eachLeaf(func(l *Node) { l.Style.StrokeWidth = w }) }
}

func StrokeOpacity(o float64) Option {
	return func(n *Node) { n.eachLeaf(func(l *Node) { l.Style.StrokeOpacity = o }) }
}

// Fill sets the fill colour and opacity.
func Fill(c color.NRGBA, opacity float64) Option {
	return func(n *Node) {
		n.eachLeaf(func(l *Node) {
			l.Style.Fill = c
			l.Style.FillOpacity = opacity
		})
	}
}

func FillOpacity(o float64) Option {
	return func(n *Node) { n.eachLeaf(func(l *Node) { l.Style.FillOpacity = o }) }
}

// Bold selects the bold face for text.
func Bold() Option {
	return func(n *Node) { n.eachLeaf(func(l *Node) { l.Bold = true }) }
}

// Named labels the node in timelines.
func Named(name string) Option {
	return func(n *Node) { n.Name = name }
}

// At centres the node on p.
func At(p Vec) Option {
	return func(n *Node) { n.MoveTo(p) }
}

// Group collects nodes. The children are shared, not copied.
func Group(children ...*Node) *Node {
	g := newNode(KindGroup)
	g.Children = append(g.Children, children...)
	return g
}

// Add appends children to a group.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Copy returns a deep copy. Image pixels are shared.
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Points = append([]Vec(nil), n.Points...)
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.Copy()
		}
	}
	return &c
}

// Become replaces the content of n with a copy of o while keeping n's
// identity, so references held elsewhere see the new shape.
func (n *Node) Become(o *Node) *Node {
	name := n.Name
	*n = *o.Copy()
	if n.Name == "" {
		n.Name = name
	}
	return n
}

// Family returns n and all of its descendants, depth first.
func (n *Node) Family() []*Node {
	out := []*Node{n}
	for _, c := range n.Children {
		out = append(out, c.Family()...)
	}
	return out
}

// Leaves returns the drawable descendants (everything that is not a group).
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.eachLeaf(func(l *Node) { out = append(out, l) })
	return out
}

func (n *Node) eachLeaf(fn func(*Node)) {
	if n.Kind != KindGroup {
		fn(n)
	}
	for _, c := range n.Children {
		c.eachLeaf(fn)
	}
}

func (n *Node) eachNode(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.eachNode(fn)
	}
}

// Len reports the number of direct children.
func (n *Node) Len() int { return len(n.Children) }

// Child returns the i-th direct child.
func (n *Node) Child(i int) *Node { return n.Children[i] }

// SetColor sets stroke and fill colour of every leaf.
func (n *Node) SetColor(c color.NRGBA) *Node {
	n.eachLeaf(func(l *Node) {
		l.Style.Stroke = c
		l.Style.Fill = c
	})
	return n
}

// SetStroke sets outline colour and width of every leaf.
func (n *Node) SetStroke(c color.NRGBA, width float64) *Node {
	n.eachLeaf(func(l *Node) {
		l.Style.Stroke = c
		l.Style.StrokeWidth = width
	})
	return n
}

// SetFill sets fill colour and opacity of every leaf.
func (n *Node) SetFill(c color.NRGBA, opacity float64) *Node {
	n.eachLeaf(func(l *Node) {
		l.Style.Fill = c
		l.Style.FillOpacity = opacity
	})
	return n
}

// SetOpacity sets the opacity multiplier of n.
func (n *Node) SetOpacity(o float64) *Node {
	n.Opacity = o
	return n
}

// Color returns the stroke colour of the first leaf.
func (n *Node) Color() color.NRGBA {
	if l := n.Leaves(); len(l) > 0 {
		if l[0].Kind == KindText {
			return l[0].Style.Fill
		}
		return l[0].Style.Stroke
	}
	return White
}
