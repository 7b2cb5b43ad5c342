package scene

import (
	"image/color"
	"strconv"
	"strings"
)

// Palette shared by the explainers.
var (
	White    = Hex("#FFFFFF")
	Black    = Hex("#000000")
	GrayA    = Hex("#DDDDDD")
	GrayB    = Hex("#BBBBBB")
	GrayC    = Hex("#888888")
	GrayD    = Hex("#444444")
	GrayE    = Hex("#222222")
	Grey     = GrayC
	DarkGrey = GrayD

	BlueA = Hex("#C7E9F1")
	BlueB = Hex("#9CDCEB")
	BlueC = Hex("#58C4DD")
	BlueD = Hex("#29ABCA")
	BlueE = Hex("#236B8E")
	Blue  = BlueC

	TealA = Hex("#ACEAD7")
	TealB = Hex("#76DDC0")
	TealC = Hex("#5CD0B3")
	TealD = Hex("#55C1A7")
	Teal  = TealC

	GreenA = Hex("#C9E2AE")
	GreenB = Hex("#A6CF8C")
	GreenC = Hex("#83C167")
	GreenD = Hex("#77B05D")
	Green  = GreenC

	YellowA = Hex("#FFF1B6")
	YellowB = Hex("#FFEA94")
	YellowC = Hex("#F7D96F")
	YellowD = Hex("#F4D345")
	Yellow  = YellowC

	GoldA = Hex("#F7C797")
	GoldB = Hex("#F9B775")
	GoldC = Hex("#F0AC5F")
	Gold  = GoldC

	RedA = Hex("#F7A1A3")
	RedB = Hex("#FF8080")
	RedC = Hex("#FC6255")
	RedD = Hex("#E65A4C")
	RedE = Hex("#CF5044")
	Red  = RedC

	PurpleA = Hex("#CAA3E8")
	PurpleB = Hex("#B189C6")
	PurpleC = Hex("#9A72AC")
	Purple  = PurpleC

	Orange = Hex("#FF862F")
	Pink   = Hex("#D147BD")
)

// Hex parses "#RRGGBB" or "#RRGGBBAA". Malformed input yields opaque black.
func Hex(s string) color.NRGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{A: 255}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{A: 255}
	}
	if len(s) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

// LerpColor blends a towards b.
func LerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		v := float64(x) + (float64(y)-float64(x))*t
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		return uint8(v + 0.5)
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// Gradient returns n colours spread evenly across the given stops.
func Gradient(stops []color.NRGBA, n int) []color.NRGBA {
	out := make([]color.NRGBA, n)
	if len(stops) == 0 {
		return out
	}
	if len(stops) == 1 || n == 1 {
		for i := range out {
			out[i] = stops[0]
		}
		return out
	}
	for i := range out {
		pos := float64(i) / float64(n-1) * float64(len(stops)-1)
		k := int(pos)
		if k >= len(stops)-1 {
			out[i] = stops[len(stops)-1]
			continue
		}
		out[i] = LerpColor(stops[k], stops[k+1], pos-float64(k))
	}
	return out
}
