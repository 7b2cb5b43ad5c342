package main

import (
	"fmt"
	"io"
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/ivlev/scene2video/internal/response"
)

type responseFlags struct {
	poles, zeros string
	gain         float64
	from, to     float64
	samples      int
	height       int
	width        int
}

func newResponseCmd() *cobra.Command {
	var f responseFlags
	cmd := &cobra.Command{
		Use:   "response",
		Short: "plot |H(jw)| and phase of a transfer function in the terminal",
		Example: `  scene2video response --poles "-1, -2"
  scene2video response --poles "-0.5+1.5j, -0.5-1.5j" --zeros "-2" --gain 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return plotResponse(cmd.OutOrStdout(), f)
		},
	}
	cmd.Flags().StringVar(&f.poles, "poles", "-1", "Полюса через запятую, например \"-1, -0.5+1.5j\"")
	cmd.Flags().StringVar(&f.zeros, "zeros", "", "Нули через запятую")
	cmd.Flags().Float64Var(&f.gain, "gain", 1, "Коэффициент усиления K")
	cmd.Flags().Float64Var(&f.from, "from", -2, "Начало диапазона, log10(ω)")
	cmd.Flags().Float64Var(&f.to, "to", 2, "Конец диапазона, log10(ω)")
	cmd.Flags().IntVar(&f.samples, "samples", 80, "Число точек")
	cmd.Flags().IntVar(&f.height, "plot-height", 12, "Высота графика")
	cmd.Flags().IntVar(&f.width, "plot-width", 72, "Ширина графика")
	return cmd
}

func plotResponse(w io.Writer, f responseFlags) error {
	sys, err := parseSystem(f)
	if err != nil {
		return err
	}
	if f.samples < 2 || f.to <= f.from {
		return fmt.Errorf("пустой диапазон частот: 10^%g..10^%g, %d точек", f.from, f.to, f.samples)
	}
	resp := response.Evaluate(sys, response.LogSpace(f.from, f.to, f.samples))
	mag := make([]float64, len(resp.Magnitude))
	phase := make([]float64, len(resp.Phase))
	for i := range mag {
		mag[i] = decibels(resp.Magnitude[i])
		phase[i] = resp.Phase[i] * 180 / math.Pi
	}
	start, end := response.AsymptoticAngles(sys)

	fmt.Fprintln(w, headerStyle.Render(sys.String()))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("pole excess %d, phase %g° → %g°", sys.PoleExcess(), start, end)))
	fmt.Fprintln(w)
	fmt.Fprintln(w, asciigraph.Plot(mag,
		asciigraph.Height(f.height),
		asciigraph.Width(f.width),
		asciigraph.Caption(fmt.Sprintf("|H(jω)| dB, ω = 10^%g..10^%g", f.from, f.to)),
	))
	fmt.Fprintln(w)
	fmt.Fprintln(w, asciigraph.Plot(phase,
		asciigraph.Height(f.height/2),
		asciigraph.Width(f.width),
		asciigraph.Caption("∠H(jω) deg"),
	))
	return nil
}

func parseSystem(f responseFlags) (response.System, error) {
	poles, err := response.ParseRoots(f.poles)
	if err != nil {
		return response.System{}, fmt.Errorf("poles: %w", err)
	}
	zeros, err := response.ParseRoots(f.zeros)
	if err != nil {
		return response.System{}, fmt.Errorf("zeros: %w", err)
	}
	return response.System{Gain: f.gain, Poles: poles, Zeros: zeros}, nil
}

// decibels clamps zeros of H to a floor so the plot stays finite.
func decibels(m float64) float64 {
	const floor = -120
	if m <= 0 || math.IsNaN(m) {
		return floor
	}
	if math.IsInf(m, 1) {
		return -floor
	}
	return math.Max(20*math.Log10(m), floor)
}
