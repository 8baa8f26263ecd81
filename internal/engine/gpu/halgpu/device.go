// Package halgpu implements the gpu device abstraction on the gogpu/wgpu
// hardware abstraction layer.
//
// The backend is selected by variant; the caller links the backend package it
// wants (vulkan, software, noop) with a blank import so it registers itself.
// Frames render into an offscreen RGBA8 texture that is copied back to host
// memory on Present.
package halgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"go.uber.org/zap"

	"github.com/Faultbox/quadra/internal/engine/gpu"
)

// Device wraps a hal.Device.
type Device struct {
	log      *zap.Logger
	instance hal.Instance
	raw      hal.Device
	queue    *Queue
	info     gputypes.AdapterInfo
}

var _ gpu.Device = (*Device)(nil)

// Open creates an instance of the registered backend, picks its first adapter
// and opens a device on it.
func Open(variant gputypes.Backend, log *zap.Logger) (*Device, error) {
	if log == nil {
		log = zap.NewNop()
	}
	backend, ok := hal.GetBackend(variant)
	if !ok {
		return nil, fmt.Errorf("halgpu: backend %v: %w", variant, hal.ErrBackendNotFound)
	}

	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{
		Backends: gputypes.BackendsAll,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("halgpu: backend %v has no adapters", variant)
	}
	exposed := adapters[0]

	open, err := exposed.Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("halgpu: open device: %w", mapError(err))
	}

	log.Info("GPU device opened",
		zap.String("adapter", exposed.Info.Name),
		zap.String("driver", exposed.Info.Driver),
		zap.Stringer("backend", exposed.Info.Backend),
	)

	d := &Device{
		log:      log,
		instance: instance,
		raw:      open.Device,
		info:     exposed.Info,
	}
	d.queue = &Queue{dev: d, raw: open.Queue}
	return d, nil
}

// Queue returns the device's queue.
func (d *Device) Queue() *Queue { return d.queue }

// Info describes the adapter the device was opened on.
func (d *Device) Info() gputypes.AdapterInfo { return d.info }

// Raw returns the underlying hal device.
func (d *Device) Raw() hal.Device { return d.raw }

// Destroy waits for outstanding work and releases the device and instance.
func (d *Device) Destroy() {
	if d.raw == nil {
		return
	}
	if err := d.raw.WaitIdle(); err != nil {
		d.log.Warn("wait idle before destroy", zap.Error(err))
	}
	d.raw.Destroy()
	d.raw = nil
	d.instance.Destroy()
}

// mapError translates hal failures into the gpu sentinels.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, hal.ErrDeviceOutOfMemory):
		return fmt.Errorf("%w: %w", gpu.ErrOutOfMemory, err)
	case errors.Is(err, hal.ErrSurfaceLost), errors.Is(err, hal.ErrDeviceLost):
		return fmt.Errorf("%w: %w", gpu.ErrSurfaceLost, err)
	case errors.Is(err, hal.ErrSurfaceOutdated):
		return fmt.Errorf("%w: %w", gpu.ErrSurfaceOutdated, err)
	case errors.Is(err, hal.ErrTimeout), errors.Is(err, hal.ErrNotReady):
		return fmt.Errorf("%w: %w", gpu.ErrSurfaceTimeout, err)
	}
	return err
}

// align4 rounds n up to a multiple of four, the copy alignment of buffers.
func align4(n uint64) uint64 {
	return (n + 3) &^ 3
}

// Buffer is a hal buffer. Size reports the requested size; the allocation
// may be padded.
type Buffer struct {
	raw   hal.Buffer
	label string
	size  uint64
	alloc uint64
	usage gpu.BufferUsage
}

func (b *Buffer) Label() string { return b.label }
func (b *Buffer) Size() uint64  { return b.size }

// Raw returns the hal buffer.
func (b *Buffer) Raw() hal.Buffer { return b.raw }

func bufferUsage(u gpu.BufferUsage) gputypes.BufferUsage {
	out := gputypes.BufferUsageCopyDst
	if u.Has(gpu.BufferUsageVertex) {
		out |= gputypes.BufferUsageVertex
	}
	if u.Has(gpu.BufferUsageIndex) {
		out |= gputypes.BufferUsageIndex
	}
	if u.Has(gpu.BufferUsageUniform) {
		out |= gputypes.BufferUsageUniform
	}
	if u.Has(gpu.BufferUsageCopySrc) {
		out |= gputypes.BufferUsageCopySrc
	}
	return out
}

// CreateBuffer allocates a buffer and uploads Contents when given.
func (d *Device) CreateBuffer(desc *gpu.BufferDescriptor) (gpu.Buffer, error) {
	size := desc.Size
	if desc.Contents != nil {
		size = uint64(len(desc.Contents))
	}
	if size == 0 {
		return nil, fmt.Errorf("halgpu: buffer %q has zero size", desc.Label)
	}
	alloc := align4(size)

	raw, err := d.raw.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  alloc,
		Usage: bufferUsage(desc.Usage),
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create buffer %q: %w", desc.Label, mapError(err))
	}

	b := &Buffer{raw: raw, label: desc.Label, size: size, alloc: alloc, usage: desc.Usage}
	if desc.Contents != nil {
		if err := d.queue.write(b, 0, desc.Contents); err != nil {
			d.raw.DestroyBuffer(raw)
			return nil, err
		}
	}
	return b, nil
}

// DestroyBuffer releases buf.
func (d *Device) DestroyBuffer(buf gpu.Buffer) {
	b := buf.(*Buffer)
	if b.raw == nil {
		return
	}
	d.raw.DestroyBuffer(b.raw)
	b.raw = nil
}

// Texture is a sampled RGBA8 texture.
type Texture struct {
	raw    hal.Texture
	label  string
	width  uint32
	height uint32
}

func (t *Texture) Label() string  { return t.label }
func (t *Texture) Width() uint32  { return t.width }
func (t *Texture) Height() uint32 { return t.height }

func textureFormat(f gpu.TextureFormat) gputypes.TextureFormat {
	if f == gpu.FormatBGRA8Unorm {
		return gputypes.TextureFormatBGRA8Unorm
	}
	return gputypes.TextureFormatRGBA8Unorm
}

// CreateTexture allocates a 2D texture with a single mip level.
func (d *Device) CreateTexture(desc *gpu.TextureDescriptor) (gpu.Texture, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("halgpu: texture %q: %w", desc.Label, hal.ErrZeroArea)
	}
	raw, err := d.raw.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          hal.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        textureFormat(desc.Format),
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create texture %q: %w", desc.Label, mapError(err))
	}
	return &Texture{raw: raw, label: desc.Label, width: desc.Width, height: desc.Height}, nil
}

// DestroyTexture releases tex.
func (d *Device) DestroyTexture(tex gpu.Texture) {
	t := tex.(*Texture)
	if t.raw == nil {
		return
	}
	d.raw.DestroyTexture(t.raw)
	t.raw = nil
}

// TextureView is a full 2D view of a texture.
type TextureView struct {
	raw hal.TextureView
	tex *Texture
}

func (v *TextureView) Texture() gpu.Texture { return v.tex }

// CreateTextureView creates a view over every texel of tex.
func (d *Device) CreateTextureView(tex gpu.Texture) (gpu.TextureView, error) {
	t := tex.(*Texture)
	raw, err := d.raw.CreateTextureView(t.raw, &hal.TextureViewDescriptor{
		Label:           t.label + " view",
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create view of %q: %w", t.label, mapError(err))
	}
	return &TextureView{raw: raw, tex: t}, nil
}

// Sampler is a hal sampler.
type Sampler struct {
	raw hal.Sampler
}

func filterMode(f gpu.FilterMode) gputypes.FilterMode {
	if f == gpu.FilterLinear {
		return gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest
}

// CreateSampler creates a clamp-to-edge sampler.
func (d *Device) CreateSampler(desc *gpu.SamplerDescriptor) (gpu.Sampler, error) {
	raw, err := d.raw.CreateSampler(&hal.SamplerDescriptor{
		Label:        desc.Label,
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    filterMode(desc.MagFilter),
		MinFilter:    filterMode(desc.MinFilter),
		MipmapFilter: gputypes.FilterModeNearest,
		LodMaxClamp:  32,
		Anisotropy:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create sampler %q: %w", desc.Label, mapError(err))
	}
	return &Sampler{raw: raw}, nil
}

// BindGroupLayout keeps the portable entries next to the hal layout.
type BindGroupLayout struct {
	raw     hal.BindGroupLayout
	label   string
	entries []gpu.BindGroupLayoutEntry
}

func (l *BindGroupLayout) Label() string                       { return l.label }
func (l *BindGroupLayout) Entries() []gpu.BindGroupLayoutEntry { return l.entries }

func shaderStages(s gpu.ShaderStage) gputypes.ShaderStages {
	var out gputypes.ShaderStages
	if s&gpu.StageVertex != 0 {
		out |= gputypes.ShaderStageVertex
	}
	if s&gpu.StageFragment != 0 {
		out |= gputypes.ShaderStageFragment
	}
	return out
}

func layoutEntry(e gpu.BindGroupLayoutEntry) gputypes.BindGroupLayoutEntry {
	out := gputypes.BindGroupLayoutEntry{
		Binding:    e.Binding,
		Visibility: shaderStages(e.Visibility),
	}
	switch e.Type {
	case gpu.BindingUniform:
		out.Buffer = &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}
	case gpu.BindingTexture:
		out.Texture = &gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeFloat,
			ViewDimension: gputypes.TextureViewDimension2D,
		}
	case gpu.BindingSampler:
		out.Sampler = &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering}
	}
	return out
}

// CreateBindGroupLayout creates a hal layout from the portable entries.
func (d *Device) CreateBindGroupLayout(desc *gpu.BindGroupLayoutDescriptor) (gpu.BindGroupLayout, error) {
	entries := make([]gputypes.BindGroupLayoutEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		entries[i] = layoutEntry(e)
	}
	raw, err := d.raw.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create layout %q: %w", desc.Label, mapError(err))
	}
	return &BindGroupLayout{
		raw:     raw,
		label:   desc.Label,
		entries: append([]gpu.BindGroupLayoutEntry(nil), desc.Entries...),
	}, nil
}

// BindGroup is a hal bind group.
type BindGroup struct {
	raw    hal.BindGroup
	label  string
	layout *BindGroupLayout
}

func (g *BindGroup) Label() string               { return g.label }
func (g *BindGroup) Layout() gpu.BindGroupLayout { return g.layout }

func groupEntry(e gpu.BindGroupEntry) (gputypes.BindGroupEntry, error) {
	out := gputypes.BindGroupEntry{Binding: e.Binding}
	switch {
	case e.Buffer != nil:
		b := e.Buffer.(*Buffer)
		out.Resource = gputypes.BufferBinding{Buffer: b.raw.NativeHandle(), Size: b.alloc}
	case e.View != nil:
		out.Resource = gputypes.TextureViewBinding{TextureView: e.View.(*TextureView).raw.NativeHandle()}
	case e.Sampler != nil:
		out.Resource = gputypes.SamplerBinding{Sampler: e.Sampler.(*Sampler).raw.NativeHandle()}
	default:
		return out, fmt.Errorf("binding %d has no resource", e.Binding)
	}
	return out, nil
}

// CreateBindGroup binds resources against a layout created by this device.
func (d *Device) CreateBindGroup(desc *gpu.BindGroupDescriptor) (gpu.BindGroup, error) {
	layout := desc.Layout.(*BindGroupLayout)
	entries := make([]gputypes.BindGroupEntry, 0, len(desc.Entries))
	for _, e := range desc.Entries {
		entry, err := groupEntry(e)
		if err != nil {
			return nil, fmt.Errorf("halgpu: bind group %q: %w", desc.Label, err)
		}
		entries = append(entries, entry)
	}
	raw, err := d.raw.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   desc.Label,
		Layout:  layout.raw,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create bind group %q: %w", desc.Label, mapError(err))
	}
	return &BindGroup{raw: raw, label: desc.Label, layout: layout}, nil
}

// DestroyBindGroup releases bg.
func (d *Device) DestroyBindGroup(bg gpu.BindGroup) {
	g := bg.(*BindGroup)
	if g.raw == nil {
		return
	}
	d.raw.DestroyBindGroup(g.raw)
	g.raw = nil
}

// RenderPipeline owns the pipeline together with its layout and module.
type RenderPipeline struct {
	raw    hal.RenderPipeline
	layout hal.PipelineLayout
	module hal.ShaderModule
	label  string
}

func (p *RenderPipeline) Label() string { return p.label }

func vertexFormat(f gpu.VertexFormat) gputypes.VertexFormat {
	switch f {
	case gpu.Float32x3:
		return gputypes.VertexFormatFloat32x3
	case gpu.Float32x4:
		return gputypes.VertexFormatFloat32x4
	}
	return gputypes.VertexFormatFloat32x2
}

// CreateRenderPipeline compiles the WGSL program to SPIR-V and builds an
// alpha-blended triangle-list pipeline.
func (d *Device) CreateRenderPipeline(desc *gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	spirv, err := compileSPIRV(desc.Shader.WGSL)
	if err != nil {
		return nil, fmt.Errorf("halgpu: pipeline %q: %w", desc.Label, err)
	}

	module, err := d.raw.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Shader.Name,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: shader module %q: %w", desc.Shader.Name, mapError(err))
	}

	layouts := make([]hal.BindGroupLayout, len(desc.BindGroupLayouts))
	for i, l := range desc.BindGroupLayouts {
		layouts[i] = l.(*BindGroupLayout).raw
	}
	layout, err := d.raw.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label + " layout",
		BindGroupLayouts: layouts,
	})
	if err != nil {
		d.raw.DestroyShaderModule(module)
		return nil, fmt.Errorf("halgpu: pipeline layout %q: %w", desc.Label, mapError(err))
	}

	attrs := make([]gputypes.VertexAttribute, len(desc.Vertex.Attributes))
	for i, a := range desc.Vertex.Attributes {
		attrs[i] = gputypes.VertexAttribute{
			Format:         vertexFormat(a.Format),
			Offset:         a.Offset,
			ShaderLocation: a.ShaderLocation,
		}
	}

	blend := gputypes.BlendStateAlpha()
	raw, err := d.raw.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []gputypes.VertexBufferLayout{{
				ArrayStride: desc.Vertex.Stride,
				StepMode:    gputypes.VertexStepModeVertex,
				Attributes:  attrs,
			}},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{{
				Format:    textureFormat(desc.Format),
				Blend:     &blend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		d.raw.DestroyPipelineLayout(layout)
		d.raw.DestroyShaderModule(module)
		return nil, fmt.Errorf("halgpu: create pipeline %q: %w", desc.Label, mapError(err))
	}

	d.log.Debug("render pipeline created", zap.String("label", desc.Label), zap.Int("spirv_words", len(spirv)))
	return &RenderPipeline{raw: raw, layout: layout, module: module, label: desc.Label}, nil
}
