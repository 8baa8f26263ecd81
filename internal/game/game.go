// Package game implements the demo's main loop.
package game

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/quadra/internal/assets"
	"github.com/Faultbox/quadra/internal/config"
	"github.com/Faultbox/quadra/internal/engine/camera"
	"github.com/Faultbox/quadra/internal/engine/debug"
	"github.com/Faultbox/quadra/internal/engine/gfx"
	"github.com/Faultbox/quadra/internal/engine/gpu"
	"github.com/Faultbox/quadra/internal/engine/input"
	"github.com/Faultbox/quadra/internal/engine/renderer"
	"github.com/Faultbox/quadra/internal/engine/scene"
	"github.com/Faultbox/quadra/internal/engine/texture"
	"github.com/Faultbox/quadra/internal/engine/window"
	"github.com/Faultbox/quadra/internal/game/states"
	"github.com/Faultbox/quadra/internal/logger"
)

// Title is the window title.
const Title = "Quadra"

// maxFrameTime caps dt after a stall so movement does not jump.
const maxFrameTime = 0.25

// Game is the main game instance.
type Game struct {
	config  *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	backend  *backend
	ctx      *gfx.Context
	renderer *renderer.Renderer
	input    *input.Input
	assets   *assets.Manager
	scenes   *scene.Manager
	camera   *camera.Camera2D
	capture  *debug.ScreenshotCapture
}

// New creates the window, the rendering backend and the playground scene.
func New(cfg *config.Config) (*Game, error) {
	log := logger.Named("game")
	log.Info("initializing game",
		zap.String("backend", cfg.Graphics.Backend),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Bool("headless", cfg.Debug.Headless),
	)

	clearColor, err := gfx.ParseColor(cfg.Graphics.ClearColor)
	if err != nil {
		return nil, fmt.Errorf("graphics.clear_color: %w", err)
	}

	g := &Game{
		config:  cfg,
		log:     log,
		input:   input.New(),
		camera:  camera.NewCamera2D(),
		capture: debug.NewScreenshotCapture("screenshots", "quadra"),
	}

	if !cfg.Debug.Headless {
		// Create window (in GL mode this also creates the OpenGL context)
		g.window, err = window.New(window.Config{
			Title:      Title,
			Width:      cfg.Graphics.Width,
			Height:     cfg.Graphics.Height,
			Fullscreen: cfg.Graphics.Fullscreen,
			VSync:      cfg.Graphics.VSync,
			Mode:       windowMode(cfg.Graphics.Backend),
		}, logger.Named("window"))
		if err != nil {
			return nil, fmt.Errorf("failed to create window: %w", err)
		}
	}

	// Backend comes AFTER the window, the GL device needs its context
	g.backend, err = openBackend(cfg.Graphics.Backend, g.window, log)
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to open %s backend: %w", cfg.Graphics.Backend, err)
	}

	surface := gpu.SurfaceConfig{
		Width:  uint32(cfg.Graphics.Width),
		Height: uint32(cfg.Graphics.Height),
		Format: gpu.FormatRGBA8Unorm,
		VSync:  cfg.Graphics.VSync,
	}
	g.ctx = gfx.NewContext(g.backend.device, g.backend.queue, surface, logger.Named("gfx"))
	if err := gfx.Setup(g.ctx); err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to set up graphics: %w", err)
	}
	if err := gfx.Init(g.ctx); err != nil && !errors.Is(err, gfx.ErrContextInitialized) {
		g.Close()
		return nil, err
	}

	g.renderer, err = renderer.New(g.ctx, g.backend.surface, renderer.Config{
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		VSync:      cfg.Graphics.VSync,
		ClearColor: clearColor,
	})
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.assets = assets.NewManager(g.ctx, cfg.Assets.Dir, logger.Named("assets"))
	if cfg.Assets.ColorKey {
		g.assets.SetColorKey(texture.Magenta, 8)
	}
	if cfg.Assets.Watch {
		if err := g.assets.Watch(); err != nil {
			log.Warn("asset hot reload disabled", zap.Error(err))
		}
	}

	g.scenes = scene.NewManager(logger.Named("scene"))
	g.scenes.Push(states.NewPlayground(states.PlaygroundConfig{
		Width:       cfg.Graphics.Width,
		Height:      cfg.Graphics.Height,
		PlayerSheet: cfg.Assets.PlayerSheet,
	}, g.ctx, g.assets, g.input, g.scenes))

	log.Info("game initialized successfully")
	return g, nil
}

// Run starts the main game loop. It returns when the window closes, Escape
// is pressed or, with debug.frames set, after that many frames.
func (g *Game) Run() error {
	g.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	var minFrame time.Duration
	if g.config.Graphics.FPSLimit > 0 {
		minFrame = time.Second / time.Duration(g.config.Graphics.FPSLimit)
	}

	limit := g.config.Debug.Frames
	if g.config.Debug.Headless && limit == 0 {
		limit = 1
	}

	g.log.Info("starting game loop", zap.Int("frame_limit", limit))

	for g.running {
		start := time.Now()
		dt := float32(start.Sub(lastTime).Seconds())
		lastTime = start
		if g.config.Debug.Headless {
			// fixed step so unattended runs are reproducible
			dt = 1.0 / 60
		}
		dt = min(dt, maxFrameTime)

		// 1. Process input
		g.input.Begin()
		if g.window != nil {
			g.window.PollEvents(g.input)
		}
		if g.input.QuitRequested() {
			g.running = false
			break
		}
		if err := g.handleEvents(); err != nil {
			return err
		}

		// 2. Update game state
		if err := g.update(dt); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		// 3. Render and present
		if err := g.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if limit > 0 && g.renderer.Frames() >= uint64(limit) {
			g.running = false
		}
		if minFrame > 0 {
			if rest := minFrame - time.Since(start); rest > 0 {
				time.Sleep(rest)
			}
		}
	}

	if path := g.config.Debug.Screenshot; path != "" {
		img := g.backend.surface.Snapshot()
		if img == nil {
			return fmt.Errorf("screenshot: no frame was presented")
		}
		if err := debug.SavePNG(path, img); err != nil {
			return fmt.Errorf("screenshot: %w", err)
		}
		g.log.Info("screenshot saved", zap.String("path", path))
	}
	return nil
}

// handleEvents offers each event to the scenes first; unconsumed ones drive
// the window-level controls.
func (g *Game) handleEvents() error {
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			if err := g.renderer.Resize(event.Width, event.Height); err != nil {
				return fmt.Errorf("resize: %w", err)
			}
			g.applyCamera()
		case input.EventMouseMove:
			g.renderer.SetMouse(event.MouseX, event.MouseY)
		case input.EventMouseWheel:
			g.camera.HandleZoom(float32(event.WheelY))
			g.applyCamera()
		}

		if g.scenes.HandleEvent(event) {
			continue
		}

		if event.Type == input.EventKeyDown && !event.Repeat {
			switch event.Key {
			case input.KeyEscape:
				g.running = false
			case input.KeyF12:
				g.screenshot()
			}
		}
	}
	return nil
}

// applyCamera replaces the plain pixel projection with the camera's view.
func (g *Game) applyCamera() {
	size := g.ctx.SurfaceConfig()
	g.renderer.Frame().SetProjection(g.camera.Projection(float32(size.Width), float32(size.Height)))
}

func (g *Game) screenshot() {
	path, err := g.capture.CaptureSurface(g.backend.surface)
	if err != nil {
		g.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", path))
}

// update applies hot-reloaded assets and advances the scenes.
func (g *Game) update(dt float32) error {
	if n, err := g.assets.Poll(); err != nil {
		g.log.Warn("texture reload failed", zap.Error(err))
	} else if n > 0 {
		g.log.Info("textures reloaded", zap.Int("count", n))
	}
	return g.scenes.Update(dt)
}

// render draws the scene stack into one frame.
func (g *Game) render() error {
	if err := g.renderer.Draw(g.scenes); err != nil {
		return err
	}
	if g.backend.present != nil {
		return g.backend.present()
	}
	return nil
}

// Close cleans up game resources in reverse creation order.
func (g *Game) Close() {
	g.log.Info("closing game")

	var err error
	if g.scenes != nil {
		err = multierr.Append(err, g.scenes.Close())
	}
	if g.assets != nil {
		err = multierr.Append(err, g.assets.Close())
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.backend != nil && g.backend.destroy != nil {
		g.backend.destroy()
	}
	if g.window != nil {
		g.window.Close()
	}
	if err != nil {
		g.log.Warn("errors during shutdown", zap.Error(err))
	}
}
