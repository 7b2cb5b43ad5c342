package response

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidRoot is returned when a root list cannot be parsed.
var ErrInvalidRoot = errors.New("response: invalid root")

// ParseRoots parses a comma-separated list of complex roots such as
// "-1, -0.5+1.5j, -0.5-1.5j". Both j and i are accepted as the imaginary unit.
func ParseRoots(s string) ([]complex128, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var roots []complex128
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		norm := strings.ReplaceAll(strings.ReplaceAll(field, " ", ""), "j", "i")
		if head, ok := strings.CutSuffix(norm, "i"); ok && (head == "" || strings.HasSuffix(head, "+") || strings.HasSuffix(head, "-")) {
			// unit imaginary part: "i", "-i", "-0.5+i"
			norm = head + "1i"
		}
		c, err := strconv.ParseComplex(norm, 128)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidRoot, field, err)
		}
		roots = append(roots, c)
	}
	return roots, nil
}

// String renders the system as "H(s) = K(s+z)/((s+p1)(s+p2))".
func (sys System) String() string {
	num := factors(sys.Zeros)
	den := factors(sys.Poles)

	gain := trimFloat(sys.Gain)
	var numerator string
	switch {
	case num == "":
		numerator = gain
	case sys.Gain == 1:
		numerator = num
	default:
		numerator = gain + num
	}

	if den == "" {
		return "H(s) = " + numerator
	}
	if len(sys.Poles) > 1 {
		den = "(" + den + ")"
	}
	if len(sys.Zeros) > 1 && sys.Gain == 1 {
		numerator = "(" + numerator + ")"
	}
	return "H(s) = " + numerator + "/" + den
}

func factors(roots []complex128) string {
	var b strings.Builder
	for _, r := range roots {
		b.WriteString("(s")
		b.WriteString(negated(r))
		b.WriteString(")")
	}
	return b.String()
}

// negated formats "-r" as a signed offset, e.g. root -1 gives "+1" and root
// -0.5+1.5j gives "+0.5-j1.5".
func negated(r complex128) string {
	re, im := -real(r)+0, -imag(r)+0
	var b strings.Builder
	if re != 0 || im == 0 {
		if re >= 0 {
			b.WriteString("+")
		}
		b.WriteString(trimFloat(re))
	}
	if im != 0 {
		if im > 0 {
			b.WriteString("+j")
		} else {
			b.WriteString("-j")
		}
		b.WriteString(trimFloat(math.Abs(im)))
	}
	return b.String()
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
