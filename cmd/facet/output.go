package main

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/taigrr/facet/internal/config"
	"github.com/taigrr/facet/internal/logger"
	"github.com/taigrr/facet/pkg/render"
)

// renderOnce builds the configured scene and writes every output it asks
// for.
func renderOnce(ctx context.Context, cfg *config.Config) error {
	st, err := buildStage(cfg, logger.Named("render"))
	if err != nil {
		return err
	}
	return produce(ctx, st, cfg)
}

func produce(ctx context.Context, st *stage, cfg *config.Config) error {
	if cfg.Animation.Frames > 0 {
		if err := renderAnimation(ctx, st, cfg); err != nil {
			return err
		}
	} else {
		img, err := st.renderer.Render(ctx)
		if err != nil {
			return err
		}
		if err := render.SaveImage(img, cfg.Export.Output); err != nil {
			return err
		}
		logger.Info("frame written",
			zap.String("path", cfg.Export.Output),
			zap.Object("stats", st.renderer.Stats()),
		)
	}

	if cfg.Export.ShadowMaps {
		return exportShadowMaps(ctx, st, cfg.Export.ShadowMapDir)
	}
	return nil
}

// exportShadowMaps writes each light's depth map. With no directory the
// maps go to the default export location under the working directory.
func exportShadowMaps(ctx context.Context, st *stage, dir string) error {
	for _, l := range st.lights {
		if _, err := l.GenerateShadowMap(ctx, st.world); err != nil {
			return fmt.Errorf("shadow map %s: %w", l.Name(), err)
		}
		var path string
		if dir != "" {
			path = filepath.Join(dir, fmt.Sprintf("%s_%d_Export_Map.bmp", l.TypeName(), l.ID()))
		}
		written, err := l.ExportShadowMap(path)
		if err != nil {
			return fmt.Errorf("shadow map %s: %w", l.Name(), err)
		}
		logger.Info("shadow map written", zap.String("light", l.Name()), zap.String("path", written))
	}
	return nil
}

// orbitTrack returns the track that swings the camera around the orbit
// target, driven by a tween or a spring.
func orbitTrack(st *stage, a config.AnimationConfig) render.Track {
	o := a.Orbit
	target := o.Target.Vec()
	pitch := o.Pitch * math.Pi / 180
	apply := func(yawDeg float64) error {
		return st.camera.Orbit(target, o.Distance, yawDeg*math.Pi/180, pitch)
	}
	if a.Driver == "spring" {
		return render.NewSpringTrack(a.FPS, a.Frequency, a.Damping, o.YawFrom, o.YawTo, apply)
	}
	return render.NewTweenTrack(a.FPS, o.YawFrom, o.YawTo, a.Duration, render.Easings[a.Easing], apply)
}

// framePath names frame i after the main output's extension.
func framePath(cfg *config.Config, i int) string {
	ext := strings.ToLower(filepath.Ext(cfg.Export.Output))
	if ext != ".bmp" {
		ext = ".png"
	}
	return filepath.Join(cfg.Export.FramesDir, fmt.Sprintf("frame_%04d%s", i, ext))
}

func renderAnimation(ctx context.Context, st *stage, cfg *config.Config) error {
	anim := render.NewAnimation(orbitTrack(st, cfg.Animation))
	frames, err := render.RenderFrames(ctx, st.renderer, cfg.Animation.Frames, anim.Step)
	for i, img := range frames {
		if werr := render.SaveImage(img, framePath(cfg, i)); werr != nil {
			return werr
		}
	}
	logger.Info("animation written",
		zap.Int("frames", len(frames)),
		zap.String("dir", cfg.Export.FramesDir),
		zap.Bool("settled", anim.Done()),
	)
	return err
}
