package anim

import (
	"github.com/tanema/gween/ease"

	"github.com/ivlev/scene2video/internal/scene"
)

// fromEase adapts a gween easing curve to a rate function over [0,1].
func fromEase(fn ease.TweenFunc) scene.RateFunc {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		return float64(fn(float32(t), 0, 1, 1))
	}
}

// Rate functions.
var (
	Linear   = scene.RateFunc(func(t float64) float64 { return t })
	Smooth   = fromEase(ease.InOutCubic)
	RushInto = fromEase(ease.InQuad)
	RushFrom = fromEase(ease.OutQuad)
	EaseOut  = fromEase(ease.OutCubic)
)

// ThereAndBack runs Smooth forward in the first half and backward in the
// second, ending where it started.
func ThereAndBack(t float64) float64 {
	if t < 0.5 {
		return Smooth(2 * t)
	}
	return Smooth(2 - 2*t)
}

