package gfx

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/quadra/internal/engine/gpu"
	"github.com/Faultbox/quadra/internal/engine/shader"
)

// Registry names used by the standard 2D pipeline.
const (
	LayoutFrame     = "frame"
	LayoutTransform = "transform"
	LayoutTexture   = "texture"

	PipelineSprite = "sprite2d"
)

// Bind group indices of the standard 2D pipeline.
const (
	GroupFrame     uint32 = 0
	GroupTransform uint32 = 1
	GroupTexture   uint32 = 2
)

// StandardLayouts returns the bind group layouts of the 2D pipeline in group order.
func StandardLayouts() []gpu.BindGroupLayoutDescriptor {
	return []gpu.BindGroupLayoutDescriptor{
		{
			Label: LayoutFrame,
			Entries: []gpu.BindGroupLayoutEntry{
				{Binding: 0, Visibility: gpu.StageVertex | gpu.StageFragment, Type: gpu.BindingUniform, Name: shader.Mouse},
				{Binding: 1, Visibility: gpu.StageVertex | gpu.StageFragment, Type: gpu.BindingUniform, Name: shader.Resolution},
				{Binding: 2, Visibility: gpu.StageVertex, Type: gpu.BindingUniform, Name: shader.Projection},
			},
		},
		{
			Label: LayoutTransform,
			Entries: []gpu.BindGroupLayoutEntry{
				{Binding: 0, Visibility: gpu.StageVertex, Type: gpu.BindingUniform, Name: shader.Model},
			},
		},
		{
			Label: LayoutTexture,
			Entries: []gpu.BindGroupLayoutEntry{
				{Binding: 0, Visibility: gpu.StageFragment, Type: gpu.BindingTexture, Name: shader.Texture},
				{Binding: 1, Visibility: gpu.StageFragment, Type: gpu.BindingSampler, Name: shader.Sampler},
				{Binding: 2, Visibility: gpu.StageVertex, Type: gpu.BindingUniform, Name: shader.TextureSize},
			},
		},
	}
}

// Setup registers the standard layouts and the sprite pipeline on ctx and
// creates the placeholder texture. It must run before any primitive is built.
func Setup(ctx *Context) error {
	descs := StandardLayouts()
	layouts := make([]gpu.BindGroupLayout, 0, len(descs))

	err := ctx.Do(func(dev gpu.Device, _ gpu.Queue) error {
		for i := range descs {
			l, err := dev.CreateBindGroupLayout(&descs[i])
			if err != nil {
				return fmt.Errorf("layout %q: %w", descs[i].Label, err)
			}
			layouts = append(layouts, l)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("gfx setup: %w", err)
	}
	for i, l := range layouts {
		ctx.RegisterBindGroupLayout(descs[i].Label, l)
	}

	var pipeline gpu.RenderPipeline
	format := ctx.SurfaceConfig().Format
	err = ctx.Do(func(dev gpu.Device, _ gpu.Queue) error {
		var err error
		pipeline, err = dev.CreateRenderPipeline(&gpu.RenderPipelineDescriptor{
			Label:            PipelineSprite,
			Shader:           shader.Sprite2D(),
			Vertex:           VertexLayout(),
			BindGroupLayouts: layouts,
			Format:           format,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("gfx setup: pipeline %q: %w", PipelineSprite, err)
	}
	ctx.RegisterPipeline(PipelineSprite, pipeline)

	placeholder, err := NewPlaceholderTexture(ctx)
	if err != nil {
		return fmt.Errorf("gfx setup: %w", err)
	}
	ctx.mu.Lock()
	ctx.placeholder = placeholder
	ctx.mu.Unlock()

	ctx.log.Info("2D pipeline ready",
		zap.String("pipeline", PipelineSprite),
		zap.Int("layouts", len(layouts)))
	return nil
}
