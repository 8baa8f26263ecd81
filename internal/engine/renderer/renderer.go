// Package renderer drives one frame of 2D rendering: acquire the surface
// image, clear it, draw the frame's drawables and present.
package renderer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/quadra/internal/engine/gfx"
	"github.com/Faultbox/quadra/internal/engine/gpu"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	VSync      bool
	ClearColor gfx.Color
}

// Renderer owns the surface and the frame uniforms of a graphics context.
type Renderer struct {
	config   Config
	ctx      *gfx.Context
	surface  gpu.Surface
	frame    *gfx.FrameUniforms
	pipeline gpu.RenderPipeline
	log      *zap.Logger

	// current frame, between Begin and End
	current gpu.Frame
	pass    gpu.RenderPass

	frames  uint64
	skipped uint64
}

// New configures surface and allocates the frame uniforms.
// gfx.Setup must have run on ctx.
func New(ctx *gfx.Context, surface gpu.Surface, cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:  cfg,
		ctx:     ctx,
		surface: surface,
		log:     ctx.Logger().Named("renderer"),
	}

	var err error
	if r.pipeline, err = ctx.Pipeline(gfx.PipelineSprite); err != nil {
		return nil, err
	}

	r.frame, err = gfx.NewFrameUniforms(ctx, uint32(cfg.Width), uint32(cfg.Height))
	if err != nil {
		return nil, err
	}
	surfCfg := ctx.Resize(uint32(cfg.Width), uint32(cfg.Height))
	surfCfg.VSync = cfg.VSync
	if err := surface.Configure(surfCfg); err != nil {
		r.frame.Destroy()
		return nil, fmt.Errorf("configure surface: %w", err)
	}

	r.log.Info("renderer ready",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("vsync", cfg.VSync))
	return r, nil
}

// Close releases the frame uniforms.
func (r *Renderer) Close() {
	r.log.Info("closing renderer", zap.Uint64("frames", r.frames), zap.Uint64("skipped", r.skipped))
	r.frame.Destroy()
}

// Frame returns the frame uniforms.
func (r *Renderer) Frame() *gfx.FrameUniforms {
	return r.frame
}

// SetClearColor sets the color frames are cleared to.
func (r *Renderer) SetClearColor(c gfx.Color) {
	r.config.ClearColor = c
}

// SetMouse forwards the pointer position to the frame uniforms.
func (r *Renderer) SetMouse(x, y int) {
	r.frame.SetMouse(float32(x), float32(y))
}

// Resize reconfigures the surface and the projection for a new window size.
func (r *Renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		// minimized
		return nil
	}
	r.config.Width = width
	r.config.Height = height
	cfg := r.frame.Resize(uint32(width), uint32(height))
	if err := r.surface.Configure(cfg); err != nil {
		return fmt.Errorf("configure surface: %w", err)
	}
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
	return nil
}

// Begin acquires the next frame and returns a pass with the sprite pipeline
// and frame uniforms bound. A nil pass with a nil error means the frame was
// skipped after a transient surface error; an error is fatal.
func (r *Renderer) Begin() (gpu.RenderPass, error) {
	frame, err := r.surface.Acquire()
	if err != nil {
		return nil, r.handleAcquireError(err)
	}

	c := r.config.ClearColor
	r.current = frame
	r.pass = frame.BeginPass([4]float32{c.R, c.G, c.B, c.A})
	r.pass.SetPipeline(r.pipeline)
	r.frame.Bind(r.pass)
	return r.pass, nil
}

func (r *Renderer) handleAcquireError(err error) error {
	r.skipped++
	switch {
	case gpu.IsFatal(err):
		return fmt.Errorf("acquire frame: %w", err)
	case gpu.NeedsReconfigure(err):
		r.log.Warn("surface needs reconfigure, skipping frame", zap.Error(err))
		if cerr := r.surface.Configure(r.ctx.SurfaceConfig()); cerr != nil {
			r.log.Warn("reconfigure failed", zap.Error(cerr))
		}
	default:
		r.log.Warn("skipping frame", zap.Error(err))
	}
	return nil
}

// End finishes the pass started by Begin and presents the frame.
func (r *Renderer) End() error {
	if r.current == nil {
		return nil
	}
	r.pass.End()
	err := r.current.Present()
	r.current, r.pass = nil, nil
	if err != nil {
		if gpu.IsFatal(err) {
			return fmt.Errorf("present: %w", err)
		}
		r.skipped++
		r.log.Warn("present failed", zap.Error(err))
		return nil
	}
	r.frames++
	return nil
}

// Draw renders one frame of drawables in order.
func (r *Renderer) Draw(drawables ...gfx.Drawable) error {
	pass, err := r.Begin()
	if err != nil || pass == nil {
		return err
	}
	for _, d := range drawables {
		d.Draw(pass)
	}
	return r.End()
}

// Frames returns the number of presented frames.
func (r *Renderer) Frames() uint64 { return r.frames }

// Skipped returns the number of frames dropped after transient errors.
func (r *Renderer) Skipped() uint64 { return r.skipped }
