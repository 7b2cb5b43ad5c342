package renderer

import (
	"sort"

	"github.com/ivlev/scene2video/internal/anim"
	"github.com/ivlev/scene2video/internal/director"
	"github.com/ivlev/scene2video/internal/scene"
)

// CameraPath interpolates the camera keyframes of a timeline. A nil path
// leaves the scene camera unchanged.
type CameraPath struct {
	keys []director.Keyframe
}

// NewCameraPath prepares keys recorded against a scene of length recorded
// for a render of length actual. Key times are stretched to fit, and when
// settle is positive the camera returns to the full view settle seconds
// before the end so transitions join unzoomed frames.
func NewCameraPath(keys []director.Keyframe, recorded, actual, settle float64) *CameraPath {
	if len(keys) == 0 {
		return nil
	}
	scale := 1.0
	if recorded > 0 && actual > 0 {
		scale = actual / recorded
	}
	out := make([]director.Keyframe, 0, len(keys)+2)
	for _, k := range keys {
		k.Time *= scale
		out = append(out, k)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })

	if settle > 0 && actual > settle {
		start := actual - settle
		hold := (&CameraPath{keys: out}).key(start)
		kept := out[:0]
		for _, k := range out {
			if k.Time < start {
				kept = append(kept, k)
			}
		}
		out = append(kept,
			director.Keyframe{Time: start, Focus: "settle", Center: hold.Center, Zoom: hold.Zoom},
			director.Keyframe{Time: actual, Focus: "full_view", Zoom: 1},
		)
	}
	return &CameraPath{keys: out}
}

// Keys returns the prepared keyframes.
func (p *CameraPath) Keys() []director.Keyframe {
	if p == nil {
		return nil
	}
	return p.keys
}

// key returns the interpolated keyframe at t with smooth easing between
// neighbours.
func (p *CameraPath) key(t float64) director.Keyframe {
	keys := p.keys
	if t <= keys[0].Time {
		return keys[0]
	}
	last := keys[len(keys)-1]
	if t >= last.Time {
		return last
	}
	i := sort.Search(len(keys), func(i int) bool { return keys[i].Time > t }) - 1
	a, b := keys[i], keys[i+1]
	span := b.Time - a.Time
	if span <= 0 {
		return b
	}
	u := anim.Smooth((t - a.Time) / span)
	return director.Keyframe{
		Time:   t,
		Focus:  a.Focus,
		Center: director.Point{X: lerp(a.Center.X, b.Center.X, u), Y: lerp(a.Center.Y, b.Center.Y, u)},
		Zoom:   lerp(zoomOf(a), zoomOf(b), u),
	}
}

// Apply composes the path camera at time t with the scene's own camera:
// centres add and zooms multiply.
func (p *CameraPath) Apply(base scene.Camera, t float64) scene.Camera {
	if p == nil {
		return base
	}
	k := p.key(t)
	return scene.Camera{
		Center: base.Center.Add(scene.V(k.Center.X, k.Center.Y)),
		Zoom:   base.Scale() * zoomOf(k),
	}
}

func zoomOf(k director.Keyframe) float64 {
	if k.Zoom <= 0 {
		return 1
	}
	return k.Zoom
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
