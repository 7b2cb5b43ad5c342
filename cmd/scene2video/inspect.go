package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/scene2video/internal/config"
	"github.com/ivlev/scene2video/internal/director"
	"github.com/ivlev/scene2video/internal/engine"
	"github.com/ivlev/scene2video/internal/scenes"
)

func newListCmd(conf func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list registered scenes with their length",
		RunE: func(cmd *cobra.Command, args []string) error {
			return list(cmd.OutOrStdout(), conf())
		},
	}
}

func list(w io.Writer, cfg *config.Config) error {
	fmt.Fprintln(w, headerStyle.Render(row("SCENE", "FRAME", "FPS", "LENGTH", "STEPS")))
	total := 0.0
	for _, sc := range scenes.All(cfg) {
		tl, err := engine.Timeline(cfg, sc)
		if err != nil {
			return fmt.Errorf("%s: %w", sc.Name, err)
		}
		total += tl.Duration
		fmt.Fprintln(w, row(sc.Name,
			fmt.Sprintf("%gx%g", sc.Frame.Width, sc.Frame.Height),
			fmt.Sprint(tl.FPS),
			fmt.Sprintf("%.1fs", tl.Duration),
			fmt.Sprint(len(tl.Steps)),
		))
		fmt.Fprintln(w, dimStyle.Render("  "+sc.Title))
	}
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("total %.1fs", total)))
	return nil
}

func newTimelineCmd(conf func() *config.Config) *cobra.Command {
	var tour bool
	var out string
	cmd := &cobra.Command{
		Use:   "timeline [scene...]",
		Short: "record scene timelines to YAML without rendering video",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := conf()
			if len(args) > 0 {
				cfg.Scenes = args
			}
			if out == "" {
				out = director.GeneratePath(director.DefaultDir)
			}
			return timeline(cmd.OutOrStdout(), cfg, out, tour)
		},
	}
	cmd.Flags().BoolVar(&tour, "tour", false, "Добавить камеру, облетающую найденные блоки финального кадра")
	cmd.Flags().StringVar(&out, "out", "", "Файл таймлайна (по умолчанию timelines/timeline_<время>.yaml)")
	return cmd
}

func timeline(w io.Writer, cfg *config.Config, out string, tour bool) error {
	scripts, err := scenes.Select(cfg, cfg.Scenes)
	if err != nil {
		return err
	}
	var tls []director.SceneTimeline
	for _, sc := range scripts {
		build := engine.Timeline
		if tour {
			build = engine.Tour
		}
		tl, err := build(cfg, sc)
		if err != nil {
			return fmt.Errorf("%s: %w", sc.Name, err)
		}
		tls = append(tls, tl)
		fmt.Fprintf(w, "[>] %s: %.2fs, шагов %d, ключей камеры %d\n", tl.Name, tl.Duration, len(tl.Steps), len(tl.Camera))
	}
	s := director.NewScenario(tls...)
	if err := director.Write(s, out); err != nil {
		return err
	}
	fmt.Fprintf(w, "[+++] Таймлайн сохранён: %s (%.2fs)\n", out, s.Duration())
	return nil
}

func newCheckCmd(conf func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "check [scene...]",
		Short: "report content crossing the frame margin at the end of each step",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := conf()
			if len(args) > 0 {
				cfg.Scenes = args
			}
			n, err := check(cmd.OutOrStdout(), cfg)
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("%d шагов с выходом за поля", n)
			}
			return nil
		},
	}
}

// check prints a report per scene and returns the number of steps with
// violations.
func check(w io.Writer, cfg *config.Config) (int, error) {
	scripts, err := scenes.Select(cfg, cfg.Scenes)
	if err != nil {
		return 0, err
	}
	bad := 0
	for _, sc := range scripts {
		reports, err := engine.Check(cfg, sc)
		if err != nil {
			return bad, fmt.Errorf("%s: %w", sc.Name, err)
		}
		var lines []string
		for _, r := range reports {
			if len(r.Violations) == 0 {
				continue
			}
			bad++
			lines = append(lines, warnStyle.Render(fmt.Sprintf("step %d (%.2fs) %s", r.Step.Index, r.Step.End(),
				strings.Join(r.Step.Animations, ", "))))
			for _, v := range r.Violations {
				lines = append(lines, "  "+v.String())
			}
		}
		if len(lines) == 0 {
			fmt.Fprintln(w, okStyle.Render("ok   ")+sc.Name)
			continue
		}
		fmt.Fprintln(w, warnStyle.Render("warn ")+sc.Name)
		fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
	}
	return bad, nil
}
