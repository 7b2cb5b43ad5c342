// Package renderer rasterizes scene snapshots into RGBA frames.
package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ivlev/scene2video/internal/scene"
	"github.com/ivlev/scene2video/internal/system"
)

// StrokeUnit is the world width of a stroke of width 1.
const StrokeUnit = 0.01

// glyphPPEM is the size outlines are loaded at before being mapped into
// the text box.
const glyphPPEM = 256

const joinSegments = 12

// Renderer draws snapshots. A Renderer keeps scratch buffers and is not
// safe for concurrent use; create one per worker.
type Renderer struct {
	width, height int
	pool          *system.ImagePool
	rast          vector.Rasterizer
	buf           sfnt.Buffer
	poly          []pt
}

type pt struct{ x, y float64 }

// New returns a renderer producing width×height frames from pool.
func New(width, height int, pool *system.ImagePool) *Renderer {
	if pool == nil {
		pool = system.DefaultPool()
	}
	return &Renderer{width: width, height: height, pool: pool}
}

// Size returns the frame size in pixels.
func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Release returns a rendered frame to the pool.
func (r *Renderer) Release(img *image.RGBA) { r.pool.Put(img) }

// view maps world coordinates to pixels for one snapshot.
type view struct {
	unit   float64
	cx, cy float64
	w, h   float64
}

func newView(f scene.Frame, cam scene.Camera, w, h int) view {
	unit := math.Min(float64(w)/f.Width, float64(h)/f.Height) * cam.Scale()
	return view{unit: unit, cx: cam.Center.X, cy: cam.Center.Y, w: float64(w), h: float64(h)}
}

func (v view) px(p scene.Vec) pt {
	return pt{v.w/2 + (p.X-v.cx)*v.unit, v.h/2 - (p.Y-v.cy)*v.unit}
}

// Render draws snap into a frame taken from the pool. Hand the frame back
// with Release when done.
func (r *Renderer) Render(snap *scene.Snapshot) *image.RGBA {
	dst := r.pool.Get(image.Rect(0, 0, r.width, r.height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(snap.Background), image.Point{}, draw.Src)
	v := newView(snap.Frame, snap.Camera, r.width, r.height)
	for _, n := range snap.Nodes {
		r.drawNode(dst, v, n, 1)
	}
	return dst
}

func (r *Renderer) drawNode(dst *image.RGBA, v view, n *scene.Node, opacity float64) {
	opacity *= n.Opacity
	if opacity <= 0 {
		return
	}
	switch n.Kind {
	case scene.KindPath:
		r.drawPath(dst, v, n, opacity)
	case scene.KindText:
		r.drawText(dst, v, n, opacity)
	case scene.KindImage:
		r.drawImage(dst, v, n, opacity)
	}
	for _, c := range n.Children {
		r.drawNode(dst, v, c, opacity)
	}
}

func paint(c color.NRGBA, opacity float64) (*image.Uniform, bool) {
	a := float64(c.A) * clamp01(opacity)
	if a < 0.5 {
		return nil, false
	}
	c.A = uint8(a + 0.5)
	return image.NewUniform(c), true
}

func (r *Renderer) drawPath(dst *image.RGBA, v view, n *scene.Node, opacity float64) {
	if n.Drawn <= n.DrawFrom {
		return
	}
	visible := scene.Partial(n.Outline(), n.DrawFrom, n.Drawn)
	if len(visible) < 2 {
		return
	}
	r.poly = r.poly[:0]
	for _, p := range visible {
		r.poly = append(r.poly, v.px(p))
	}

	st := n.Style
	if st.FillOpacity > 0 && len(r.poly) >= 3 {
		if src, ok := paint(st.Fill, st.FillOpacity*opacity); ok {
			r.fill(dst, r.poly, src)
		}
	}
	if st.StrokeWidth > 0 && st.StrokeOpacity > 0 {
		half := st.StrokeWidth * StrokeUnit * v.unit / 2
		if half < 0.35 {
			half = 0.35
		}
		if src, ok := paint(st.Stroke, st.StrokeOpacity*opacity); ok {
			r.stroke(dst, r.poly, half, src)
		}
	}
}

// clip returns the pixel box covering pts grown by pad, limited to the
// frame.
func (r *Renderer) clip(pts []pt, pad float64) (image.Rectangle, bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, minY = math.Min(minX, p.x), math.Min(minY, p.y)
		maxX, maxY = math.Max(maxX, p.x), math.Max(maxY, p.y)
	}
	b := image.Rect(
		int(math.Floor(minX-pad)), int(math.Floor(minY-pad)),
		int(math.Ceil(maxX+pad)), int(math.Ceil(maxY+pad)),
	).Intersect(image.Rect(0, 0, r.width, r.height))
	return b, !b.Empty()
}

func (r *Renderer) begin(b image.Rectangle) {
	r.rast.Reset(b.Dx(), b.Dy())
	r.rast.DrawOp = draw.Over
}

func (r *Renderer) polygon(b image.Rectangle, pts []pt) {
	ox, oy := float64(b.Min.X), float64(b.Min.Y)
	r.rast.MoveTo(float32(pts[0].x-ox), float32(pts[0].y-oy))
	for _, p := range pts[1:] {
		r.rast.LineTo(float32(p.x-ox), float32(p.y-oy))
	}
	r.rast.ClosePath()
}

func (r *Renderer) fill(dst *image.RGBA, pts []pt, src image.Image) {
	b, ok := r.clip(pts, 1)
	if !ok {
		return
	}
	r.begin(b)
	r.polygon(b, pts)
	r.rast.Draw(dst, b, src, image.Point{})
}

// stroke covers the polyline with one quad per segment and a disc at every
// inner vertex. All pieces wind the same way, so overlaps saturate instead
// of cancelling.
func (r *Renderer) stroke(dst *image.RGBA, pts []pt, half float64, src image.Image) {
	b, ok := r.clip(pts, half+1)
	if !ok {
		return
	}
	r.begin(b)
	quad := make([]pt, 4)
	for i := 1; i < len(pts); i++ {
		a, c := pts[i-1], pts[i]
		dx, dy := c.x-a.x, c.y-a.y
		l := math.Hypot(dx, dy)
		if l < 1e-9 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half
		quad[0] = pt{a.x + nx, a.y + ny}
		quad[1] = pt{c.x + nx, c.y + ny}
		quad[2] = pt{c.x - nx, c.y - ny}
		quad[3] = pt{a.x - nx, a.y - ny}
		r.polygon(b, quad)
	}
	closed := len(pts) > 2 && pts[0] == pts[len(pts)-1]
	disc := make([]pt, joinSegments)
	for i := range pts {
		if (i == 0 || i == len(pts)-1) && !closed {
			continue
		}
		for k := range disc {
			// clockwise, matching the quads
			a := -2 * math.Pi * float64(k) / joinSegments
			disc[k] = pt{pts[i].x + half*math.Cos(a), pts[i].y + half*math.Sin(a)}
		}
		r.polygon(b, disc)
	}
	r.rast.Draw(dst, b, src, image.Point{})
}

func (r *Renderer) drawText(dst *image.RGBA, v view, n *scene.Node, opacity float64) {
	lay := n.Layout()
	if lay == nil || len(lay.Glyphs) == 0 || lay.Width <= 0 || lay.Height <= 0 {
		return
	}
	bl, br, tr, tl, ok := n.Box()
	if !ok {
		return
	}
	pbl, pbr, ptl := v.px(bl), v.px(br), v.px(tl)
	b, ok := r.clip([]pt{pbl, pbr, v.px(tr), ptl}, 2)
	if !ok {
		return
	}
	ex := pt{(pbr.x - pbl.x) / lay.Width, (pbr.y - pbl.y) / lay.Width}
	ey := pt{(ptl.x - pbl.x) / lay.Height, (ptl.y - pbl.y) / lay.Height}
	// em coordinates (y up from the box bottom) to raster coordinates
	toRaster := func(x, y float64) (float32, float32) {
		return float32(pbl.x + ex.x*x + ey.x*y - float64(b.Min.X)),
			float32(pbl.y + ex.y*x + ey.y*y - float64(b.Min.Y))
	}

	count := float64(len(lay.Glyphs))
	shown := n.Drawn * count
	hidden := n.DrawFrom * count
	full, ok := paint(n.Style.Fill, n.Style.FillOpacity*opacity)
	if !ok {
		return
	}
	type partial struct {
		g     scene.Glyph
		cover float64
	}
	var partials []partial
	r.begin(b)
	drawn := false
	for i, g := range lay.Glyphs {
		cover := math.Min(shown-float64(i), 1) - math.Max(hidden-float64(i), 0)
		switch {
		case cover <= 0:
		case cover < 1:
			partials = append(partials, partial{g, cover})
		default:
			r.glyph(g, toRaster)
			drawn = true
		}
	}
	if drawn {
		r.rast.Draw(dst, b, full, image.Point{})
	}
	// glyphs on the reveal edge fade in one by one
	for _, p := range partials {
		src, ok := paint(n.Style.Fill, n.Style.FillOpacity*opacity*p.cover)
		if !ok {
			continue
		}
		r.begin(b)
		r.glyph(p.g, toRaster)
		r.rast.Draw(dst, b, src, image.Point{})
	}
}

func (r *Renderer) glyph(g scene.Glyph, toRaster func(x, y float64) (float32, float32)) {
	f := scene.Face(g.Face)
	if f == nil {
		return
	}
	segs, err := f.LoadGlyph(&r.buf, g.Index, fixed.I(glyphPPEM), nil)
	if err != nil {
		return
	}
	at := func(p fixed.Point26_6) (float32, float32) {
		x := float64(p.X) / 64 / glyphPPEM * g.Scale
		y := -float64(p.Y) / 64 / glyphPPEM * g.Scale
		return toRaster(g.X+x, g.Y+y)
	}
	for i, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if i > 0 {
				r.rast.ClosePath()
			}
			x, y := at(s.Args[0])
			r.rast.MoveTo(x, y)
		case sfnt.SegmentOpLineTo:
			x, y := at(s.Args[0])
			r.rast.LineTo(x, y)
		case sfnt.SegmentOpQuadTo:
			x1, y1 := at(s.Args[0])
			x2, y2 := at(s.Args[1])
			r.rast.QuadTo(x1, y1, x2, y2)
		case sfnt.SegmentOpCubeTo:
			x1, y1 := at(s.Args[0])
			x2, y2 := at(s.Args[1])
			x3, y3 := at(s.Args[2])
			r.rast.CubeTo(x1, y1, x2, y2, x3, y3)
		}
	}
	r.rast.ClosePath()
}

func (r *Renderer) drawImage(dst *image.RGBA, v view, n *scene.Node, opacity float64) {
	if n.Image == nil {
		return
	}
	bl, br, _, tl, ok := n.Box()
	if !ok {
		return
	}
	opacity *= clamp01(n.Drawn - n.DrawFrom)
	if opacity <= 0 {
		return
	}
	sb := n.Image.Bounds()
	w, h := float64(sb.Dx()), float64(sb.Dy())
	if w == 0 || h == 0 {
		return
	}
	pbl, pbr, ptl := v.px(bl), v.px(br), v.px(tl)
	// source (0,0) is the top-left corner of the box
	m := f64.Aff3{
		(pbr.x - pbl.x) / w, (pbl.x - ptl.x) / h, ptl.x - float64(sb.Min.X)*(pbr.x-pbl.x)/w - float64(sb.Min.Y)*(pbl.x-ptl.x)/h,
		(pbr.y - pbl.y) / w, (pbl.y - ptl.y) / h, ptl.y - float64(sb.Min.X)*(pbr.y-pbl.y)/w - float64(sb.Min.Y)*(pbl.y-ptl.y)/h,
	}
	var opts *xdraw.Options
	if opacity < 1 {
		opts = &xdraw.Options{SrcMask: image.NewUniform(color.Alpha{A: uint8(255*opacity + 0.5)})}
	}
	xdraw.BiLinear.Transform(dst, m, n.Image, sb, xdraw.Over, opts)
}

// MeasureText returns the advance width of s in pixels at size px, using
// the regular Go font.
func (r *Renderer) MeasureText(s string, px float64) float64 {
	f := scene.Face(scene.FaceRegular)
	if f == nil {
		return 0
	}
	ppem := fixed.I(glyphPPEM)
	total := 0.0
	for _, ch := range s {
		idx, err := f.GlyphIndex(&r.buf, ch)
		if err != nil {
			continue
		}
		adv, err := f.GlyphAdvance(&r.buf, idx, ppem, font.HintingNone)
		if err == nil {
			total += float64(adv) / 64 / glyphPPEM
		}
	}
	return total * px
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// ToWorld maps a pixel of a frame rendered by r back to world coordinates.
func (r *Renderer) ToWorld(f scene.Frame, cam scene.Camera, x, y float64) scene.Vec {
	v := newView(f, cam, r.width, r.height)
	return scene.V((x-v.w/2)/v.unit+v.cx, -(y-v.h/2)/v.unit+v.cy)
}
