// facet - CPU software renderer
// Renders a configured scene of parametric shapes and loaded models to
// PNG or BMP, exports light shadow maps, and renders orbit animations.
//
// Preview controls:
//
//	Mouse drag  - Orbit the camera
//	Scroll, +/- - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Space       - Apply random impulse
//	R           - Reset view
//	X           - Toggle wireframe edges
//	H           - Toggle shadows
//	M           - Toggle light and camera icons
//	P           - Save the current frame
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/facet/internal/config"
	"github.com/taigrr/facet/internal/logger"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "facet - CPU software renderer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: facet [options] [model.obj|model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nPreview controls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit the camera\n")
		fmt.Fprintf(os.Stderr, "  Scroll, +/- - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  H           - Toggle shadows\n")
		fmt.Fprintf(os.Stderr, "  M           - Toggle icons\n")
		fmt.Fprintf(os.Stderr, "  P           - Save frame\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	config.ParseFlags()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if config.DumpConfig() {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case config.Preview():
		return preview(ctx, cfg)
	case config.Watch():
		return watch(ctx, cfg, config.ResolvedPath())
	default:
		return renderOnce(ctx, cfg)
	}
}
