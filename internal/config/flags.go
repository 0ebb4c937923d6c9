package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile  = flag.String("log-file", "", "Write logs to this file as well")
	flagWidth    = flag.Int("width", 0, "Output width in pixels")
	flagHeight   = flag.Int("height", 0, "Output height in pixels")
	flagOut      = flag.String("out", "", "Output image (.png or .bmp)")
	flagModel    = flag.String("model", "", "OBJ or glTF model to add to the scene")
	flagShadows  = flag.Bool("shadows", false, "Sample light shadow maps while rendering")
	flagNoShade  = flag.Bool("flat", false, "Disable shading")
	flagWire     = flag.Bool("wireframe", false, "Draw triangle edges")
	flagMaps     = flag.Bool("export-maps", false, "Export light shadow maps")
	flagFrames   = flag.Int("frames", 0, "Render an orbit animation with this many frames")
	flagPreview  = flag.Bool("preview", false, "Show an interactive terminal preview")
	flagWatch    = flag.Bool("watch", false, "Re-render whenever the config or model file changes")
	flagDumpYAML = flag.Bool("dump-config", false, "Print the effective config as YAML and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// Preview reports whether -preview was given.
func Preview() bool { return *flagPreview }

// Watch reports whether -watch was given.
func Watch() bool { return *flagWatch }

// DumpConfig reports whether -dump-config was given.
func DumpConfig() bool { return *flagDumpYAML }

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagWidth > 0 {
		cfg.Render.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Render.Height = *flagHeight
	}
	if *flagOut != "" {
		cfg.Export.Output = *flagOut
	}
	if *flagModel != "" {
		cfg.Scene.Model = *flagModel
	} else if flag.NArg() > 0 {
		cfg.Scene.Model = flag.Arg(0)
	}
	if *flagShadows {
		cfg.Render.Shadows = true
	}
	if *flagNoShade {
		cfg.Render.Shading = false
	}
	if *flagWire {
		cfg.Render.Wireframe = true
	}
	if *flagMaps {
		cfg.Export.ShadowMaps = true
	}
	if *flagFrames > 0 {
		cfg.Animation.Frames = *flagFrames
	}
}
