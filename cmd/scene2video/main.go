package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ivlev/scene2video/internal/config"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

// cliFlags mirrors the config fields that can be set on the command line.
type cliFlags struct {
	configFile   string
	output       string
	preset       string
	aspect       string
	width        int
	height       int
	fps          int
	supersample  int
	workers      int
	fade         float64
	transition   string
	encoder      string
	quality      int
	audio        bool
	soundsDir    string
	asset        string
	dpi          int
	contact      string
	timelineOut  string
	scenario     string
	cameraSettle float64
	margin       int
	debug        bool
	stats        bool
}

// flagSetters copy a flag into the config. Only flags given on the command
// line are applied, so files and the environment keep their values otherwise.
var flagSetters = map[string]func(c *config.Config, f *cliFlags){
	"output":          func(c *config.Config, f *cliFlags) { c.OutputVideo = f.output },
	"preset":          func(c *config.Config, f *cliFlags) { c.Preset = f.preset },
	"aspect":          func(c *config.Config, f *cliFlags) { c.Aspect = f.aspect },
	"width":           func(c *config.Config, f *cliFlags) { c.Width = f.width },
	"height":          func(c *config.Config, f *cliFlags) { c.Height = f.height },
	"fps":             func(c *config.Config, f *cliFlags) { c.FPS = f.fps },
	"supersample":     func(c *config.Config, f *cliFlags) { c.Supersample = f.supersample },
	"workers":         func(c *config.Config, f *cliFlags) { c.Workers = f.workers },
	"fade":            func(c *config.Config, f *cliFlags) { c.FadeDuration = f.fade },
	"transition":      func(c *config.Config, f *cliFlags) { c.TransitionType = f.transition },
	"encoder":         func(c *config.Config, f *cliFlags) { c.VideoEncoder = f.encoder },
	"quality":         func(c *config.Config, f *cliFlags) { c.Quality = f.quality },
	"audio":           func(c *config.Config, f *cliFlags) { c.Audio = f.audio },
	"sounds":          func(c *config.Config, f *cliFlags) { c.SoundsDir = f.soundsDir },
	"asset":           func(c *config.Config, f *cliFlags) { c.AssetPath = f.asset },
	"dpi":             func(c *config.Config, f *cliFlags) { c.DPI = f.dpi },
	"contact":         func(c *config.Config, f *cliFlags) { c.ContactURL = f.contact },
	"timeline-output": func(c *config.Config, f *cliFlags) { c.TimelineOutput = f.timelineOut },
	"scenario":        func(c *config.Config, f *cliFlags) { c.ScenarioInput = f.scenario },
	"camera-settle":   func(c *config.Config, f *cliFlags) { c.CameraSettle = f.cameraSettle },
	"margin":          func(c *config.Config, f *cliFlags) { c.Margin = f.margin },
	"debug":           func(c *config.Config, f *cliFlags) { c.Debug = f.debug },
	"stats":           func(c *config.Config, f *cliFlags) { c.ShowStats = f.stats },
}

func registerFlags(fs *pflag.FlagSet, f *cliFlags) {
	d := config.Default()
	fs.StringVar(&f.configFile, "config", "", "YAML-файл настроек")
	fs.StringVarP(&f.output, "output", "o", d.OutputVideo, "Путь к итоговому видео")
	fs.StringVar(&f.preset, "preset", d.Preset, "Качество: low, medium, high, 4k")
	fs.StringVar(&f.aspect, "aspect", "", "Формат кадра: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram); пусто - по сцене")
	fs.IntVar(&f.width, "width", 0, "Ширина (0 - по пресету)")
	fs.IntVar(&f.height, "height", 0, "Высота (0 - по пресету)")
	fs.IntVar(&f.fps, "fps", 0, "FPS (0 - по пресету)")
	fs.IntVar(&f.supersample, "supersample", d.Supersample, "Суперсэмплинг 1..4")
	fs.IntVarP(&f.workers, "workers", "j", 0, "Потоки рендера (0 - авто по памяти и CPU)")
	fs.Float64Var(&f.fade, "fade", d.FadeDuration, "Длительность перехода (сек)")
	fs.StringVar(&f.transition, "transition", d.TransitionType, "Тип перехода xfade: fade, wipeleft, slideup, dissolve, none")
	fs.StringVar(&f.encoder, "encoder", "", "H.264 энкодер (пусто - лучший доступный)")
	fs.IntVar(&f.quality, "quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	fs.BoolVar(&f.audio, "audio", d.Audio, "Подкладывать звук сцен")
	fs.StringVar(&f.soundsDir, "sounds", d.SoundsDir, "Папка со звуками сцен")
	fs.StringVar(&f.asset, "asset", "", "PDF, изображение или папка для логотипа вступления")
	fs.IntVar(&f.dpi, "dpi", d.DPI, "DPI растеризации PDF")
	fs.StringVar(&f.contact, "contact", d.ContactURL, "Ссылка для QR-кода")
	fs.StringVar(&f.timelineOut, "timeline-output", "", "Сохранить таймлайн в YAML")
	fs.StringVar(&f.scenario, "scenario", "", "Таймлайн с камерой (YAML или 'latest')")
	fs.Float64Var(&f.cameraSettle, "camera-settle", d.CameraSettle, "Время перехода камеры между фокусами (сек)")
	fs.IntVar(&f.margin, "margin", d.Margin, "Поле кадра для check, px")
	fs.BoolVar(&f.debug, "debug", false, "Отладочные подписи в кадре")
	fs.BoolVar(&f.stats, "stats", false, "Отчёт о производительности")
}

// loadConfig layers defaults, the YAML file, SCENE2VIDEO_* variables and
// the flags that were set, then fills preset values and validates.
func loadConfig(fs *pflag.FlagSet, f *cliFlags) (*config.Config, error) {
	cfg := config.Default()
	if f.configFile != "" {
		if err := config.Load(cfg, f.configFile); err != nil {
			return nil, err
		}
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *pflag.Flag) {
		if set, ok := flagSetters[fl.Name]; ok {
			set(cfg, f)
		}
	})
	if err := cfg.ApplyPreset(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.BuildVersion = version
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	var flags cliFlags
	var cfg *config.Config
	root := &cobra.Command{
		Use:           "scene2video",
		Short:         "renders explainer scenes to video",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = loadConfig(cmd.Flags(), &flags)
			return err
		},
	}
	registerFlags(root.PersistentFlags(), &flags)

	conf := func() *config.Config { return cfg }
	root.AddCommand(
		newRenderCmd(conf),
		newListCmd(conf),
		newTimelineCmd(conf),
		newCheckCmd(conf),
		newResponseCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка: %v\n", err)
		os.Exit(1)
	}
}
