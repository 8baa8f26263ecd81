package gfx

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/quadra/internal/engine/camera"
	"github.com/Faultbox/quadra/internal/engine/gpu"
)

// FrameUniforms holds the per-frame values every draw sees: pointer position,
// surface resolution and the projection matrix, bound at GroupFrame.
type FrameUniforms struct {
	ctx *Context

	mouse      mgl32.Vec2
	resolution mgl32.Vec2
	projection mgl32.Mat4

	mouseBuffer      gpu.Buffer
	resolutionBuffer gpu.Buffer
	projectionBuffer gpu.Buffer
	bindGroup        gpu.BindGroup
}

// NewFrameUniforms allocates the frame uniforms for a width x height surface.
func NewFrameUniforms(ctx *Context, width, height uint32) (*FrameUniforms, error) {
	layout := ctx.MustBindGroupLayout(LayoutFrame)
	f := &FrameUniforms{
		ctx:        ctx,
		resolution: mgl32.Vec2{float32(width), float32(height)},
		projection: camera.Ortho(float32(width), float32(height)),
	}

	err := ctx.Do(func(dev gpu.Device, _ gpu.Queue) error {
		create := func(name string, data []byte) (gpu.Buffer, error) {
			return dev.CreateBuffer(&gpu.BufferDescriptor{
				Label:    "frame/" + name,
				Usage:    gpu.BufferUsageUniform | gpu.BufferUsageCopyDst,
				Contents: data,
			})
		}
		var err error
		if f.mouseBuffer, err = create("mouse", vec2Bytes(f.mouse)); err != nil {
			return err
		}
		if f.resolutionBuffer, err = create("resolution", vec2Bytes(f.resolution)); err != nil {
			return err
		}
		if f.projectionBuffer, err = create("projection", matrixBytes(f.projection)); err != nil {
			return err
		}
		f.bindGroup, err = dev.CreateBindGroup(&gpu.BindGroupDescriptor{
			Label:  "frame",
			Layout: layout,
			Entries: []gpu.BindGroupEntry{
				{Binding: 0, Buffer: f.mouseBuffer},
				{Binding: 1, Buffer: f.resolutionBuffer},
				{Binding: 2, Buffer: f.projectionBuffer},
			},
		})
		return err
	})
	if err != nil {
		f.Destroy()
		return nil, fmt.Errorf("frame uniforms: %w", err)
	}
	return f, nil
}

// SetMouse records the pointer position in pixels.
func (f *FrameUniforms) SetMouse(x, y float32) {
	f.mouse = mgl32.Vec2{x, y}
	f.ctx.WriteBuffer(f.mouseBuffer, 0, vec2Bytes(f.mouse))
}

// Mouse returns the last pointer position.
func (f *FrameUniforms) Mouse() mgl32.Vec2 { return f.mouse }

// Resolution returns the surface size in pixels.
func (f *FrameUniforms) Resolution() mgl32.Vec2 { return f.resolution }

// Projection returns the current projection matrix.
func (f *FrameUniforms) Projection() mgl32.Mat4 { return f.projection }

// Resize reconfigures the context surface size and rewrites resolution and
// projection.
func (f *FrameUniforms) Resize(width, height uint32) gpu.SurfaceConfig {
	cfg := f.ctx.Resize(width, height)
	f.resolution = mgl32.Vec2{float32(width), float32(height)}
	f.ctx.WriteBuffer(f.resolutionBuffer, 0, vec2Bytes(f.resolution))
	f.SetProjection(camera.Ortho(float32(width), float32(height)))
	return cfg
}

// SetProjection replaces the projection, e.g. with a panned camera's.
func (f *FrameUniforms) SetProjection(m mgl32.Mat4) {
	f.projection = m
	f.ctx.WriteBuffer(f.projectionBuffer, 0, matrixBytes(m))
}

// BindGroup returns the frame bind group.
func (f *FrameUniforms) BindGroup() gpu.BindGroup { return f.bindGroup }

// Bind sets the frame group on pass.
func (f *FrameUniforms) Bind(pass gpu.RenderPass) {
	pass.SetBindGroup(GroupFrame, f.bindGroup)
}

// Destroy releases the uniform buffers.
func (f *FrameUniforms) Destroy() {
	_ = f.ctx.Do(func(dev gpu.Device, _ gpu.Queue) error {
		if f.bindGroup != nil {
			dev.DestroyBindGroup(f.bindGroup)
		}
		for _, b := range []gpu.Buffer{f.mouseBuffer, f.resolutionBuffer, f.projectionBuffer} {
			if b != nil {
				dev.DestroyBuffer(b)
			}
		}
		return nil
	})
}
