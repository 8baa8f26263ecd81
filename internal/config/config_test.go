package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test graphics defaults
	if cfg.Graphics.Width != 800 {
		t.Errorf("expected width 800, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 600 {
		t.Errorf("expected height 600, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Graphics.Backend != BackendGL {
		t.Errorf("expected backend %q, got %q", BackendGL, cfg.Graphics.Backend)
	}
	if cfg.Graphics.ClearColor != "black" {
		t.Errorf("expected clear color black, got %s", cfg.Graphics.ClearColor)
	}

	// Test asset defaults
	if cfg.Assets.Dir != "assets" {
		t.Errorf("expected assets dir 'assets', got %s", cfg.Assets.Dir)
	}
	if cfg.Assets.Watch {
		t.Error("expected watch to be false by default")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fps_limit: 144
  backend: vulkan
  clear_color: cornflowerblue

assets:
  dir: "/srv/sprites"
  watch: true
  player_sheet: "hero.png"

logging:
  level: "debug"
  log_file: "demo.log"

debug:
  frames: 30
  screenshot: "out.png"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Graphics.FPSLimit != 144 {
		t.Errorf("expected fps limit 144, got %d", cfg.Graphics.FPSLimit)
	}
	if cfg.Graphics.Backend != BackendVulkan {
		t.Errorf("expected backend vulkan, got %s", cfg.Graphics.Backend)
	}
	if cfg.Graphics.ClearColor != "cornflowerblue" {
		t.Errorf("expected clear color cornflowerblue, got %s", cfg.Graphics.ClearColor)
	}

	if cfg.Assets.Dir != "/srv/sprites" {
		t.Errorf("expected assets dir /srv/sprites, got %s", cfg.Assets.Dir)
	}
	if !cfg.Assets.Watch {
		t.Error("expected watch to be true")
	}
	if cfg.Assets.PlayerSheet != "hero.png" {
		t.Errorf("expected player sheet hero.png, got %s", cfg.Assets.PlayerSheet)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "demo.log" {
		t.Errorf("expected log file 'demo.log', got %s", cfg.Logging.LogFile)
	}

	if cfg.Debug.Frames != 30 {
		t.Errorf("expected frames 30, got %d", cfg.Debug.Frames)
	}
	if cfg.Debug.Screenshot != "out.png" {
		t.Errorf("expected screenshot out.png, got %s", cfg.Debug.Screenshot)
	}
}

func TestLoadFromTOMLFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	tomlContent := `
[graphics]
width = 640
height = 480
backend = "soft"

[assets]
watch = true
`
	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 640 || cfg.Graphics.Height != 480 {
		t.Errorf("expected 640x480, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.Backend != BackendSoft {
		t.Errorf("expected backend soft, got %s", cfg.Graphics.Backend)
	}
	if !cfg.Assets.Watch {
		t.Error("expected watch to be true")
	}
	// Untouched sections keep their defaults.
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Keep the user's real config directory out of the search.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.toml in current directory
	configPath := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(configPath, []byte("[graphics]\nwidth = 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if !strings.HasSuffix(path, "config.toml") {
		t.Errorf("expected to find config.toml in current directory, got %q", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "backend flag",
			setup: func() {
				*flagBackend = BackendVulkan
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Backend != BackendVulkan {
					t.Errorf("expected backend vulkan, got %s", cfg.Graphics.Backend)
				}
			},
			teardown: func() {
				*flagBackend = ""
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "headless switches gl to soft",
			setup: func() {
				*flagHeadless = true
				*flagFrames = 5
				*flagScreenshot = "frame.png"
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Debug.Headless {
					t.Error("expected headless to be true")
				}
				if cfg.Graphics.Backend != BackendSoft {
					t.Errorf("expected backend soft, got %s", cfg.Graphics.Backend)
				}
				if cfg.Debug.Frames != 5 {
					t.Errorf("expected frames 5, got %d", cfg.Debug.Frames)
				}
				if cfg.Debug.Screenshot != "frame.png" {
					t.Errorf("expected screenshot frame.png, got %s", cfg.Debug.Screenshot)
				}
			},
			teardown: func() {
				*flagHeadless = false
				*flagFrames = 0
				*flagScreenshot = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Graphics.Width = 0
	cfg.Graphics.Backend = "metal"
	cfg.Debug.Frames = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	msg := err.Error()
	for _, want := range []string{"window size", "unknown backend", "frames -1"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"saved.yaml", "saved.toml"} {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			cfg.Graphics.Backend = BackendSoft
			cfg.Assets.Watch = true

			path := filepath.Join(tmpDir, "nested", name)
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo: %v", err)
			}

			loaded, err := LoadFrom(path)
			if err != nil {
				t.Fatalf("LoadFrom: %v", err)
			}
			if loaded.Graphics.Backend != BackendSoft {
				t.Errorf("backend: got %s, want %s", loaded.Graphics.Backend, BackendSoft)
			}
			if !loaded.Assets.Watch {
				t.Error("watch: got false, want true")
			}
		})
	}
}
