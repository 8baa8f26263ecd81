// Package gfx is the 2D rendering core: a shared graphics context, transforms,
// meshes, shapes, sprites and textures.
//
// Every primitive owns a Mesh whose GPU buffers are kept in step with the
// primitive's CPU state. Mutators write through to the GPU immediately via
// Mesh.SyncTransform and Mesh.SyncVertices, so a draw always sees the latest
// state.
package gfx

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/quadra/internal/engine/gpu"
)

// Context holds the device and queue every resource is created through, the
// surface configuration, and registries of named pipelines and bind group
// layouts. It is shared by pointer; all device and queue access is serialized
// by its mutex.
type Context struct {
	mu        sync.Mutex
	device    gpu.Device
	queue     gpu.Queue
	surface   gpu.SurfaceConfig
	pipelines map[string]gpu.RenderPipeline
	layouts   map[string]gpu.BindGroupLayout

	// placeholder is the 1x1 white texture bound for untextured shapes.
	placeholder *Texture

	log *zap.Logger
}

// NewContext wraps a device/queue pair. A nil logger discards output.
func NewContext(device gpu.Device, queue gpu.Queue, surface gpu.SurfaceConfig, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	return &Context{
		device:    device,
		queue:     queue,
		surface:   surface,
		pipelines: make(map[string]gpu.RenderPipeline),
		layouts:   make(map[string]gpu.BindGroupLayout),
		log:       log,
	}
}

// Do runs fn with exclusive access to the device and queue. fn must not call
// back into the context.
func (c *Context) Do(fn func(dev gpu.Device, q gpu.Queue) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(c.device, c.queue)
}

// WriteBuffer uploads data into buf at offset.
func (c *Context) WriteBuffer(buf gpu.Buffer, offset uint64, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue.WriteBuffer(buf, offset, data)
}

// Logger returns the context's logger.
func (c *Context) Logger() *zap.Logger {
	return c.log
}

// SurfaceConfig returns the current surface configuration.
func (c *Context) SurfaceConfig() gpu.SurfaceConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surface
}

// Resize records a new surface size and returns the updated configuration.
// It is the only mutation of the context after setup.
func (c *Context) Resize(width, height uint32) gpu.SurfaceConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.surface.Width = width
	c.surface.Height = height
	c.log.Debug("surface resized", zap.Uint32("width", width), zap.Uint32("height", height))
	return c.surface
}

// RegisterBindGroupLayout stores layout under name, replacing any previous one.
func (c *Context) RegisterBindGroupLayout(name string, layout gpu.BindGroupLayout) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layouts[name] = layout
}

// BindGroupLayout looks up a registered layout.
func (c *Context) BindGroupLayout(name string) (gpu.BindGroupLayout, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	layout, ok := c.layouts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLayoutNotFound, name)
	}
	return layout, nil
}

// MustBindGroupLayout looks up a registered layout and panics if it is
// missing. Primitives call it: a missing layout means Setup did not run first.
func (c *Context) MustBindGroupLayout(name string) gpu.BindGroupLayout {
	layout, err := c.BindGroupLayout(name)
	if err != nil {
		panic(err)
	}
	return layout
}

// RegisterPipeline stores p under name, replacing any previous one.
func (c *Context) RegisterPipeline(name string, p gpu.RenderPipeline) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pipelines[name] = p
}

// Pipeline looks up a registered pipeline.
func (c *Context) Pipeline(name string) (gpu.RenderPipeline, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pipelines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPipelineNotFound, name)
	}
	return p, nil
}

// Placeholder returns the 1x1 white texture created by Setup, or nil.
func (c *Context) Placeholder() *Texture {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.placeholder
}

var current atomic.Pointer[Context]

// Init installs ctx as the process-wide context. It fails if one is installed.
func Init(ctx *Context) error {
	if ctx == nil {
		return fmt.Errorf("gfx: Init with nil context")
	}
	if !current.CompareAndSwap(nil, ctx) {
		return ErrContextInitialized
	}
	return nil
}

// Current returns the process-wide context. It panics if Init was never called.
func Current() *Context {
	ctx := current.Load()
	if ctx == nil {
		panic("gfx: Current called before Init")
	}
	return ctx
}
