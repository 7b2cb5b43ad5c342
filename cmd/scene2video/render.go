package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ivlev/scene2video/internal/config"
	"github.com/ivlev/scene2video/internal/director"
	"github.com/ivlev/scene2video/internal/effects"
	"github.com/ivlev/scene2video/internal/engine"
	"github.com/ivlev/scene2video/internal/scenes"
	"github.com/ivlev/scene2video/internal/system"
	"github.com/ivlev/scene2video/internal/video"
)

func newRenderCmd(conf func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "render [scene...]",
		Short: "render scenes to a video (all scenes when none are named)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := conf()
			if len(args) > 0 {
				cfg.Scenes = args
			}
			return render(cmd.Context(), cfg)
		},
	}
}

func render(ctx context.Context, cfg *config.Config) error {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()
	if err := system.HasFFmpeg(); err != nil {
		return err
	}

	scripts, err := scenes.Select(cfg, cfg.Scenes)
	if err != nil {
		return err
	}

	var eff effects.Effect = &effects.DefaultEffect{}
	scenario, err := loadScenario(cfg.ScenarioInput)
	if err != nil {
		return err
	}
	if scenario != nil {
		eff = effects.NewTimelineEffect(scenario)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	project := engine.NewVideoProject(cfg, scripts, &video.FFmpegEncoder{}, eff)
	project.Scenario = scenario
	if err := project.Run(ctx); err != nil {
		return fmt.Errorf("проект: %w", err)
	}
	fmt.Printf("[+++] Успех! Результат: %s\n", cfg.OutputVideo)
	return nil
}

// loadScenario reads the timeline at path. "latest" picks the newest file
// in the default timeline directory; an empty path means none.
func loadScenario(path string) (*director.Scenario, error) {
	if path == "" {
		return nil, nil
	}
	if path == "latest" {
		latest, err := director.FindLatest(director.DefaultDir)
		if err != nil {
			return nil, err
		}
		path = latest
		fmt.Printf("[*] Выбран таймлайн: %s\n", path)
	}
	s, err := director.Read(path)
	if err != nil {
		return nil, fmt.Errorf("таймлайн: %w", err)
	}
	return s, nil
}
