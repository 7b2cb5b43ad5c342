// Package response evaluates rational transfer functions over a frequency
// sweep and maps the result onto a polar (Nyquist) display curve.
package response

import (
	"math"
	"math/cmplx"
)

// System is H(s) = Gain * Π(s - zero) / Π(s - pole).
type System struct {
	Gain  float64
	Poles []complex128
	Zeros []complex128
}

// Response holds magnitude and unwrapped phase (radians) per sample.
type Response struct {
	Omega     []float64
	Magnitude []float64
	Phase     []float64
}

// Point is a position on the polar display.
type Point struct {
	X, Y float64
}

// LogSpace returns n values 10^x with x evenly spaced over [start, stop].
func LogSpace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = math.Pow(10, start)
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = math.Pow(10, start+float64(i)*step)
	}
	return out
}

// At evaluates H at a single complex frequency.
func (sys System) At(s complex128) complex128 {
	h := complex(sys.Gain, 0)
	for _, z := range sys.Zeros {
		h *= s - z
	}
	for _, p := range sys.Poles {
		h /= s - p
	}
	return h
}

// PoleExcess is the number of poles minus the number of zeros.
func (sys System) PoleExcess() int {
	return len(sys.Poles) - len(sys.Zeros)
}

// Evaluate computes |H(jω)| and the unwrapped arg H(jω) for every ω. A pole
// exactly at jω gives an Inf magnitude and a NaN phase for that sample.
func Evaluate(sys System, omega []float64) Response {
	mag := make([]float64, len(omega))
	raw := make([]float64, len(omega))
	for i, w := range omega {
		h := sys.At(complex(0, w))
		mag[i] = cmplx.Abs(h)
		raw[i] = cmplx.Phase(h)
	}
	return Response{
		Omega:     append([]float64(nil), omega...),
		Magnitude: mag,
		Phase:     Unwrap(raw),
	}
}

// Unwrap removes 2π jumps from a phase sequence so that neighbouring
// samples never differ by more than π. A NaN sample stays NaN and leaves
// the correction of the samples after it unchanged.
func Unwrap(phase []float64) []float64 {
	out := make([]float64, len(phase))
	if len(phase) == 0 {
		return out
	}
	out[0] = phase[0]
	correction := 0.0
	for i := 1; i < len(phase); i++ {
		d := phase[i] - phase[i-1]
		dm := math.Mod(d+math.Pi, 2*math.Pi)
		if dm < 0 {
			dm += 2 * math.Pi
		}
		dm -= math.Pi
		if dm == -math.Pi && d > 0 {
			dm = math.Pi
		}
		if math.Abs(d) >= math.Pi {
			correction += dm - d
		}
		out[i] = phase[i] + correction
	}
	return out
}

// AsymptoticAngles returns the low- and high-frequency phase in degrees.
// The low-frequency angle is taken as zero; the high-frequency angle is
// -90° per excess pole.
func AsymptoticAngles(sys System) (start, end float64) {
	return 0, -float64(sys.PoleExcess()) * 90
}

// PolarCurve maps a response onto display points. Magnitudes are clipped to
// [0, 1.2*maxDisplay] and multiplied by scale before conversion; a NaN
// magnitude (a pole on the jω axis) is drawn at the clip limit.
func PolarCurve(resp Response, maxDisplay, scale float64) []Point {
	limit := maxDisplay * 1.2
	pts := make([]Point, len(resp.Magnitude))
	for i, m := range resp.Magnitude {
		r := math.Min(math.Max(m, 0), limit) * scale
		if math.IsNaN(r) {
			r = limit * scale
		}
		theta := resp.Phase[i]
		pts[i] = Point{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
	}
	return pts
}
