package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagBackend    = flag.String("backend", "", "Rendering backend: gl, vulkan or soft")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagAssets     = flag.String("assets", "", "Asset directory")
	flagWatch      = flag.Bool("watch", false, "Reload textures when files change")
	flagColorKey   = flag.Bool("color-key", false, "Treat magenta pixels in sprite sheets as transparent")
	flagHeadless   = flag.Bool("headless", false, "Render without a window")
	flagFrames     = flag.Int("frames", 0, "Number of frames to render before exiting")
	flagScreenshot = flag.String("screenshot", "", "Write the last frame to this PNG file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagBackend != "" {
		cfg.Graphics.Backend = *flagBackend
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagAssets != "" {
		cfg.Assets.Dir = *flagAssets
	}
	if *flagWatch {
		cfg.Assets.Watch = true
	}
	if *flagColorKey {
		cfg.Assets.ColorKey = true
	}
	if *flagHeadless {
		cfg.Debug.Headless = true
		// A window-less GL context is not available through SDL here.
		if cfg.Graphics.Backend == BackendGL {
			cfg.Graphics.Backend = BackendSoft
		}
	}
	if *flagFrames > 0 {
		cfg.Debug.Frames = *flagFrames
	}
	if *flagScreenshot != "" {
		cfg.Debug.Screenshot = *flagScreenshot
	}
}
