// Package config handles demo configuration loading and management.
package config

// Config holds all engine and demo settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics" toml:"graphics"`
	Assets   AssetsConfig   `yaml:"assets" toml:"assets"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	Debug    DebugConfig    `yaml:"debug" toml:"debug"`
}

// Supported rendering backends.
const (
	BackendGL     = "gl"
	BackendVulkan = "vulkan"
	BackendSoft   = "soft"
)

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int    `yaml:"width" toml:"width"`
	Height     int    `yaml:"height" toml:"height"`
	Fullscreen bool   `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool   `yaml:"vsync" toml:"vsync"`
	FPSLimit   int    `yaml:"fps_limit" toml:"fps_limit"`
	Backend    string `yaml:"backend" toml:"backend"`         // gl, vulkan or soft
	ClearColor string `yaml:"clear_color" toml:"clear_color"` // CSS color name or #rrggbb
}

// AssetsConfig holds asset locations.
type AssetsConfig struct {
	Dir         string `yaml:"dir" toml:"dir"`
	Watch       bool   `yaml:"watch" toml:"watch"`         // reload textures when files change
	ColorKey    bool   `yaml:"color_key" toml:"color_key"` // magenta pixels become transparent
	PlayerSheet string `yaml:"player_sheet" toml:"player_sheet"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// DebugConfig holds settings for unattended runs.
type DebugConfig struct {
	Headless   bool   `yaml:"headless" toml:"headless"`
	Frames     int    `yaml:"frames" toml:"frames"` // 0 runs until the window closes
	Screenshot string `yaml:"screenshot" toml:"screenshot"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      800,
			Height:     600,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			Backend:    BackendGL,
			ClearColor: "black",
		},
		Assets: AssetsConfig{
			Dir:         "assets",
			Watch:       false,
			PlayerSheet: "player.png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
