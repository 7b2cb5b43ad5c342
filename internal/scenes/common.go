package scenes

import (
	"math"

	"github.com/ivlev/scene2video/internal/anim"
	"github.com/ivlev/scene2video/internal/scene"
)

// fitWidth shrinks n about its centre so it is at most w wide.
func fitWidth(n *scene.Node, w float64) *scene.Node {
	if cur := n.Width(); cur > w && cur > 0 {
		n.Scale(w / cur)
	}
	return n
}

// sampled returns n+1 points of f over [t0, t1].
func sampled(f func(t float64) scene.Vec, t0, t1 float64, n int) []scene.Vec {
	pts := make([]scene.Vec, n+1)
	for i := range pts {
		pts[i] = f(t0 + (t1-t0)*float64(i)/float64(n))
	}
	return pts
}

// sineWave is a polyline of amplitude·sin(2π·x/wavelength) between x0 and x1.
func sineWave(x0, x1, amplitude, wavelength float64, n int, opts ...scene.Option) *scene.Node {
	pts := sampled(func(x float64) scene.Vec {
		return scene.V(x, amplitude*math.Sin(2*math.Pi*x/wavelength))
	}, x0, x1, n)
	return scene.Polyline(pts, opts...)
}

// fadeIns wraps each node in a FadeIn.
func fadeIns(nodes []*scene.Node, opts ...anim.Option) []scene.Animation {
	out := make([]scene.Animation, len(nodes))
	for i, n := range nodes {
		out[i] = anim.FadeIn(n, opts...)
	}
	return out
}

// fadeOuts wraps each node in a FadeOut.
func fadeOuts(nodes []*scene.Node, opts ...anim.Option) []scene.Animation {
	out := make([]scene.Animation, len(nodes))
	for i, n := range nodes {
		out[i] = anim.FadeOut(n, opts...)
	}
	return out
}
