package response

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"
)

func TestLogSpace(t *testing.T) {
	w := LogSpace(-2.5, 1.5, 800)
	if len(w) != 800 {
		t.Fatalf("expected 800 samples, got %d", len(w))
	}
	if math.Abs(w[0]-math.Pow(10, -2.5)) > 1e-12 {
		t.Errorf("first sample %g", w[0])
	}
	if math.Abs(w[len(w)-1]-math.Pow(10, 1.5)) > 1e-9 {
		t.Errorf("last sample %g", w[len(w)-1])
	}
	for i := 1; i < len(w); i++ {
		if w[i] <= w[i-1] {
			t.Fatalf("sweep not increasing at %d", i)
		}
	}
}

func TestEvaluateMatchesFormula(t *testing.T) {
	systems := []System{
		{Gain: 1},
		{Gain: 1, Poles: []complex128{-1}},
		{Gain: 2, Poles: []complex128{-1, -2}, Zeros: []complex128{-0.5}},
		{Gain: 1.5, Poles: []complex128{complex(-0.3, 1.2), complex(-0.3, -1.2), -2}, Zeros: []complex128{-0.8}},
	}
	omega := LogSpace(-2.5, 1.5, 200)

	for _, sys := range systems {
		resp := Evaluate(sys, omega)
		for i, w := range omega {
			s := complex(0, w)
			num := complex(sys.Gain, 0)
			for _, z := range sys.Zeros {
				num *= s - z
			}
			den := complex(1, 0)
			for _, p := range sys.Poles {
				den *= s - p
			}
			want := cmplx.Abs(num) / cmplx.Abs(den)
			if math.Abs(resp.Magnitude[i]-want) > 1e-9*math.Max(1, want) {
				t.Fatalf("%s: magnitude at ω=%g: got %g want %g", sys, w, resp.Magnitude[i], want)
			}
			// phase is the angle of the ratio up to a multiple of 2π
			diff := resp.Phase[i] - cmplx.Phase(num/den)
			k := math.Round(diff / (2 * math.Pi))
			if math.Abs(diff-k*2*math.Pi) > 1e-9 {
				t.Fatalf("%s: phase at ω=%g off by %g", sys, w, diff)
			}
		}
		for i := 1; i < len(resp.Phase); i++ {
			if math.Abs(resp.Phase[i]-resp.Phase[i-1]) > math.Pi {
				t.Fatalf("%s: phase jump at %d", sys, i)
			}
		}
	}
}

func TestPureGain(t *testing.T) {
	resp := Evaluate(System{Gain: 2.5}, LogSpace(-2, 2, 50))
	for i := range resp.Omega {
		if resp.Magnitude[i] != 2.5 {
			t.Errorf("magnitude %g at %d", resp.Magnitude[i], i)
		}
		if resp.Phase[i] != 0 {
			t.Errorf("phase %g at %d", resp.Phase[i], i)
		}
	}
}

func TestUnwrap(t *testing.T) {
	pi := math.Pi
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{
			name: "small jumps",
			in:   []float64{0, 3, -3, -0.5, 3.1, -3.1},
			want: []float64{0, 3, 2*pi - 3, 2*pi - 0.5, 3.1, 2*pi - 3.1},
		},
		{
			// a rise of exactly π is kept, a fall of exactly π is kept,
			// and multi-turn jumps are corrected by whole turns
			name: "half-turn boundaries",
			in:   []float64{0, pi, 0, -pi, pi, 3 * pi, -7, 10},
			want: []float64{0, pi, 0, -pi, -pi, -pi, -7 + 2*pi, 10 - 4*pi},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Unwrap(tt.in)
			for i := range tt.want {
				if math.Abs(out[i]-tt.want[i]) > 1e-9 {
					t.Errorf("index %d: got %g want %g", i, out[i], tt.want[i])
				}
			}
			for i := 1; i < len(out); i++ {
				if d := math.Abs(out[i] - out[i-1]); d > pi+1e-9 {
					t.Errorf("index %d: step %g exceeds π", i, d)
				}
			}
		})
	}
	if len(Unwrap(nil)) != 0 {
		t.Error("expected empty output")
	}
}

func TestPoleOnImaginaryAxis(t *testing.T) {
	resp := Evaluate(System{Gain: 1, Poles: []complex128{0}}, []float64{0, 1})
	if m := resp.Magnitude[0]; !math.IsInf(m, 1) && !math.IsNaN(m) {
		t.Errorf("magnitude at the pole = %g, want Inf or NaN", m)
	}
	if !math.IsNaN(resp.Phase[0]) {
		t.Errorf("phase at the pole = %g, want NaN", resp.Phase[0])
	}
	if math.Abs(resp.Phase[1]+math.Pi/2) > 1e-12 {
		t.Errorf("phase after the pole = %g, want -π/2", resp.Phase[1])
	}

	pts := PolarCurve(Response{Magnitude: []float64{math.NaN(), math.Inf(1)}, Phase: []float64{0, 0}}, 2.5, 0.8)
	for i, p := range pts {
		if math.Abs(p.X-2.4) > 1e-12 || p.Y != 0 {
			t.Errorf("point %d = %+v, want the clip limit (2.4, 0)", i, p)
		}
	}
}

func TestHighFrequencyPhaseApproachesAsymptote(t *testing.T) {
	tests := []struct {
		sys System
		end float64
	}{
		{System{Gain: 1, Poles: []complex128{-1}}, -90},
		{System{Gain: 2, Poles: []complex128{-1, -2}}, -180},
		{System{Gain: 2, Poles: []complex128{-1, -2}, Zeros: []complex128{-0.5}}, -90},
	}
	for _, tt := range tests {
		_, end := AsymptoticAngles(tt.sys)
		if end != tt.end {
			t.Errorf("%s: asymptote %g want %g", tt.sys, end, tt.end)
		}
		resp := Evaluate(tt.sys, LogSpace(-3, 4, 400))
		last := resp.Phase[len(resp.Phase)-1] * 180 / math.Pi
		if math.Abs(last-tt.end) > 1 {
			t.Errorf("%s: high-frequency phase %g want ~%g", tt.sys, last, tt.end)
		}
	}
}

func TestPolarCurveClipsMagnitude(t *testing.T) {
	resp := Response{
		Omega:     []float64{1, 2, 3},
		Magnitude: []float64{10, 1, 0},
		Phase:     []float64{0, math.Pi / 2, 0},
	}
	pts := PolarCurve(resp, 2.5, 0.8)
	if math.Abs(pts[0].X-3*0.8) > 1e-12 || pts[0].Y != 0 {
		t.Errorf("clipped point %+v", pts[0])
	}
	if math.Abs(pts[1].X) > 1e-12 || math.Abs(pts[1].Y-0.8) > 1e-12 {
		t.Errorf("quarter-turn point %+v", pts[1])
	}
	if pts[2] != (Point{}) {
		t.Errorf("origin point %+v", pts[2])
	}
}

func TestParseRoots(t *testing.T) {
	tests := []struct {
		in   string
		want []complex128
	}{
		{"-1, -0.5+1.5j,-0.5-1.5i, j", []complex128{-1, complex(-0.5, 1.5), complex(-0.5, -1.5), complex(0, 1)}},
		{"-j, +i", []complex128{complex(0, -1), complex(0, 1)}},
		{"-0.5+j, -0.5-j", []complex128{complex(-0.5, 1), complex(-0.5, -1)}},
		{"2-j, -1+i", []complex128{complex(2, -1), complex(-1, 1)}},
		{"-1 + 2j", []complex128{complex(-1, 2)}},
	}
	for _, tt := range tests {
		roots, err := ParseRoots(tt.in)
		if err != nil {
			t.Errorf("ParseRoots(%q): %v", tt.in, err)
			continue
		}
		if len(roots) != len(tt.want) {
			t.Errorf("ParseRoots(%q) = %v", tt.in, roots)
			continue
		}
		for i := range tt.want {
			if roots[i] != tt.want[i] {
				t.Errorf("ParseRoots(%q) root %d: got %v want %v", tt.in, i, roots[i], tt.want[i])
			}
		}
	}

	for _, bad := range []string{"abc", "-0.5+", "1+2"} {
		if _, err := ParseRoots(bad); !errors.Is(err, ErrInvalidRoot) {
			t.Errorf("ParseRoots(%q): expected ErrInvalidRoot, got %v", bad, err)
		}
	}
	if roots, err := ParseRoots("  "); err != nil || roots != nil {
		t.Errorf("empty input: %v %v", roots, err)
	}
}

func TestSystemString(t *testing.T) {
	tests := []struct {
		sys  System
		want string
	}{
		{System{Gain: 1}, "H(s) = 1"},
		{System{Gain: 1, Poles: []complex128{-1}}, "H(s) = 1/(s+1)"},
		{System{Gain: 2, Poles: []complex128{-1, -2}, Zeros: []complex128{-0.5}}, "H(s) = 2(s+0.5)/((s+1)(s+2))"},
		{System{Gain: 1, Poles: []complex128{complex(-0.5, 1.5)}}, "H(s) = 1/(s+0.5-j1.5)"},
	}
	for _, tt := range tests {
		if got := tt.sys.String(); got != tt.want {
			t.Errorf("got %q want %q", got, tt.want)
		}
	}
}
