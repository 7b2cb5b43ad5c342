package main

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/ivlev/scene2video/internal/config"
	"github.com/ivlev/scene2video/internal/director"
	"github.com/ivlev/scene2video/internal/response"
)

func parse(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var f cliFlags
	registerFlags(fs, &f)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return loadConfig(fs, &f)
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	yaml := "preset: high\nfps: 12\nworkers: 2\ndpi: 96\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SCENE2VIDEO_FPS", "25")
	t.Setenv("SCENE2VIDEO_WORKERS", "3")

	cfg, err := parse(t, "--config", path, "--fps", "48")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name      string
		got, want any
	}{
		{"flag beats env", cfg.FPS, 48},
		{"env beats file", cfg.Workers, 3},
		{"file beats default", cfg.Preset, "high"},
		{"file only", cfg.DPI, 96},
		{"preset fills quality", cfg.Quality, 20},
		{"default kept", cfg.TransitionType, "fade"},
		{"version stamped", cfg.BuildVersion, version},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadConfigUnsetFlagsKeepDefaults(t *testing.T) {
	cfg, err := parse(t)
	if err != nil {
		t.Fatal(err)
	}
	d := config.Default()
	if cfg.OutputVideo != d.OutputVideo || cfg.Audio != d.Audio || cfg.Margin != d.Margin {
		t.Errorf("defaults changed: %+v", cfg)
	}
	if cfg.FPS != config.QualityPresets["medium"].FPS {
		t.Errorf("fps = %d", cfg.FPS)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := [][]string{
		{"--preset", "ultra"},
		{"--supersample", "9"},
		{"--aspect", "3:2"},
	}
	for _, args := range tests {
		if _, err := parse(t, args...); !errors.Is(err, config.ErrInvalid) {
			t.Errorf("%v: err = %v, want ErrInvalid", args, err)
		}
	}
}

func TestEveryFlagHasSetter(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	registerFlags(fs, &cliFlags{})
	fs.VisitAll(func(fl *pflag.Flag) {
		if fl.Name == "config" {
			return
		}
		if _, ok := flagSetters[fl.Name]; !ok {
			t.Errorf("flag --%s is never applied", fl.Name)
		}
	})
}

func TestDecibels(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1, 0},
		{10, 20},
		{0.01, -40},
		{0, -120},
		{1e-9, -120},
		{math.Inf(1), 120},
		{math.NaN(), -120},
	}
	for _, tt := range tests {
		if got := decibels(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("decibels(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPlotResponse(t *testing.T) {
	var buf bytes.Buffer
	f := responseFlags{poles: "-1, -2", gain: 2, from: -2, to: 2, samples: 40, height: 8, width: 40}
	if err := plotResponse(&buf, f); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"pole excess 2", "-180°", "|H(jω)| dB"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}

	f.poles = "-1, x"
	if err := plotResponse(&buf, f); !errors.Is(err, response.ErrInvalidRoot) {
		t.Errorf("err = %v, want ErrInvalidRoot", err)
	}
	f.poles, f.to = "-1", -3
	if err := plotResponse(&buf, f); err == nil {
		t.Error("empty range accepted")
	}
}

func TestTimelineCommand(t *testing.T) {
	cfg, err := parse(t)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Scenes = []string{"polar-poles-zeros"}
	out := filepath.Join(t.TempDir(), "tl", "timeline.yaml")
	var buf bytes.Buffer
	if err := timeline(&buf, cfg, out, false); err != nil {
		t.Fatal(err)
	}
	s, err := director.Read(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Scenes) != 1 || s.Scenes[0].Name != "polar-poles-zeros" || s.Scenes[0].Duration <= 0 {
		t.Errorf("scenario = %+v", s.Scenes)
	}
	if !strings.Contains(buf.String(), "[+++]") {
		t.Errorf("no success line:\n%s", buf.String())
	}
}

func TestLoadScenario(t *testing.T) {
	s, err := loadScenario("")
	if err != nil || s != nil {
		t.Errorf("empty path: %v, %v", s, err)
	}
	if _, err := loadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file accepted")
	}
}
