// Package config holds render settings. Values are layered: defaults, then
// a YAML file, then SCENE2VIDEO_* environment variables, then CLI flags.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "SCENE2VIDEO_"

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Scenes         []string `yaml:"scenes" env:"SCENES" envSeparator:","`
	OutputVideo    string   `yaml:"output" env:"OUTPUT"`
	Preset         string   `yaml:"preset" env:"PRESET"`
	Aspect         string   `yaml:"aspect" env:"ASPECT"`
	Width          int      `yaml:"width" env:"WIDTH"`
	Height         int      `yaml:"height" env:"HEIGHT"`
	FPS            int      `yaml:"fps" env:"FPS"`
	Supersample    int      `yaml:"supersample" env:"SUPERSAMPLE"`
	Workers        int      `yaml:"workers" env:"WORKERS"`
	FadeDuration   float64  `yaml:"fade_duration" env:"FADE_DURATION"`
	TransitionType string   `yaml:"transition" env:"TRANSITION"`
	VideoEncoder   string   `yaml:"encoder" env:"ENCODER"`
	Quality        int      `yaml:"quality" env:"QUALITY"`
	Audio          bool     `yaml:"audio" env:"AUDIO"`
	SoundsDir      string   `yaml:"sounds_dir" env:"SOUNDS_DIR"`
	AssetPath      string   `yaml:"asset" env:"ASSET"`
	DPI            int      `yaml:"dpi" env:"DPI"`
	ContactURL     string   `yaml:"contact_url" env:"CONTACT_URL"`
	TimelineOutput string   `yaml:"timeline_output" env:"TIMELINE_OUTPUT"`
	ScenarioInput  string   `yaml:"scenario" env:"SCENARIO"`
	CameraSettle   float64  `yaml:"camera_settle" env:"CAMERA_SETTLE"`
	Margin         int      `yaml:"margin" env:"MARGIN"`
	Debug          bool     `yaml:"debug" env:"DEBUG"`
	ShowStats      bool     `yaml:"stats" env:"STATS"`
	BuildVersion   string   `yaml:"-" env:"-"`
}

// SegmentParams describes one encoded scene segment.
type SegmentParams struct {
	Width, Height int
	Supersample   int
	FPS           int
	Duration      float64
	FadeIn        float64
	FadeOut       float64
	SceneName     string
	SceneIndex    int
	Debug         bool
}

// QualityPreset bundles the output height, frame rate and encoder quality.
type QualityPreset struct {
	ShortSide int
	FPS       int
	Quality   int
}

var QualityPresets = map[string]QualityPreset{
	"low":    {ShortSide: 480, FPS: 24, Quality: 28},
	"medium": {ShortSide: 720, FPS: 30, Quality: 23},
	"high":   {ShortSide: 1080, FPS: 30, Quality: 20},
	"4k":     {ShortSide: 2160, FPS: 30, Quality: 18},
}

// AspectPresets are width:height ratios accepted by Aspect.
var AspectPresets = map[string][2]int{
	"16:9": {16, 9},
	"9:16": {9, 16},
	"4:5":  {4, 5},
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		OutputVideo:    "output.mp4",
		Preset:         "medium",
		Supersample:    1,
		FadeDuration:   0.5,
		TransitionType: "fade",
		Audio:          true,
		SoundsDir:      "sounds",
		DPI:            150,
		ContactURL:     "https://github.com/ivlev/scene2video",
		CameraSettle:   1.0,
		Margin:         16,
	}
}

// Load reads a YAML file over cfg. Keys absent from the file keep their
// current values.
func Load(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with SCENE2VIDEO_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

// ApplyPreset fills frame rate and quality from the quality preset where
// they are still unset.
func (c *Config) ApplyPreset() error {
	p, ok := QualityPresets[strings.ToLower(c.Preset)]
	if !ok {
		return fmt.Errorf("%w: unknown preset %q", ErrInvalid, c.Preset)
	}
	if c.FPS == 0 {
		c.FPS = p.FPS
	}
	if c.Quality == 0 {
		c.Quality = p.Quality
	}
	return nil
}

// OutputSize returns the video size for a scene whose frame has the given
// world width and height. Explicit Width and Height win; otherwise the
// ratio comes from Aspect or, when that is empty, from the frame itself,
// and the short side from the preset. Both sides are even.
func (c *Config) OutputSize(frameW, frameH float64) (int, int) {
	if c.Width > 0 && c.Height > 0 {
		return even(float64(c.Width)), even(float64(c.Height))
	}
	short := 720
	if p, ok := QualityPresets[strings.ToLower(c.Preset)]; ok {
		short = p.ShortSide
	}
	rw, rh := frameW, frameH
	if r, ok := AspectPresets[c.Aspect]; ok {
		rw, rh = float64(r[0]), float64(r[1])
	}
	if rw <= 0 || rh <= 0 {
		rw, rh = 16, 9
	}
	if rw >= rh {
		return even(float64(short) * rw / rh), even(float64(short))
	}
	return even(float64(short)), even(float64(short) * rh / rw)
}

func even(v float64) int {
	n := int(math.Round(v))
	if n%2 != 0 {
		n++
	}
	return n
}

// Validate checks values that flags, files and the environment can break.
func (c *Config) Validate() error {
	var errs []error
	if _, ok := QualityPresets[strings.ToLower(c.Preset)]; !ok {
		errs = append(errs, fmt.Errorf("unknown preset %q", c.Preset))
	}
	if c.Aspect != "" {
		if _, ok := AspectPresets[c.Aspect]; !ok {
			errs = append(errs, fmt.Errorf("unknown aspect %q", c.Aspect))
		}
	}
	if c.FPS < 0 || c.FPS > 240 {
		errs = append(errs, fmt.Errorf("fps %d out of range", c.FPS))
	}
	if c.Supersample < 1 || c.Supersample > 4 {
		errs = append(errs, fmt.Errorf("supersample %d out of range 1..4", c.Supersample))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers %d is negative", c.Workers))
	}
	if c.FadeDuration < 0 {
		errs = append(errs, fmt.Errorf("fade duration %.2f is negative", c.FadeDuration))
	}
	if c.OutputVideo == "" {
		errs = append(errs, errors.New("output path is empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// HasTransition reports whether segments are joined with xfade.
func (c *Config) HasTransition() bool {
	return c.TransitionType != "" && c.TransitionType != "none" && c.FadeDuration > 0
}
