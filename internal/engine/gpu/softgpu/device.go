// Package softgpu is an in-memory implementation of the gpu interfaces.
//
// Buffers and textures live in Go slices and can be read back byte for byte.
// Render passes record every command and, when they target a Surface, rasterize
// triangles with the fixed function of the sprite2d program. It backs headless
// runs and tests.
package softgpu

import (
	"fmt"
	"sync"

	"github.com/Faultbox/quadra/internal/engine/gpu"
)

// Device owns every resource it creates. It is safe for concurrent use.
type Device struct {
	mu        sync.Mutex
	buffers   int
	textures  int
	destroyed bool
	queue     *Queue
}

var _ gpu.Device = (*Device)(nil)

// New creates a device and its queue.
func New() *Device {
	d := &Device{}
	d.queue = &Queue{dev: d}
	return d
}

// Queue returns the device's queue.
func (d *Device) Queue() *Queue { return d.queue }

// LiveBuffers returns the number of buffers created and not yet destroyed.
func (d *Device) LiveBuffers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buffers
}

// LiveTextures returns the number of textures created and not yet destroyed.
func (d *Device) LiveTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.textures
}

func (d *Device) checkAlive() error {
	if d.destroyed {
		return gpu.ErrDestroyed
	}
	return nil
}

// Buffer is a buffer backed by a byte slice.
type Buffer struct {
	label     string
	usage     gpu.BufferUsage
	mu        sync.Mutex
	data      []byte
	writes    int
	destroyed bool
}

// Label returns the debug label.
func (b *Buffer) Label() string { return b.label }

// Size returns the buffer size in bytes.
func (b *Buffer) Size() uint64 { return uint64(len(b.data)) }

// Usage returns the usage flags the buffer was created with.
func (b *Buffer) Usage() gpu.BufferUsage { return b.usage }

// Bytes returns a copy of the buffer contents.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Writes returns how many queue writes have landed in the buffer.
func (b *Buffer) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}

// Destroyed reports whether DestroyBuffer was called.
func (b *Buffer) Destroyed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.destroyed
}

// CreateBuffer allocates a zeroed buffer, or one holding desc.Contents.
func (d *Device) CreateBuffer(desc *gpu.BufferDescriptor) (gpu.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkAlive(); err != nil {
		return nil, err
	}

	size := desc.Size
	if desc.Contents != nil && uint64(len(desc.Contents)) > size {
		size = uint64(len(desc.Contents))
	}
	if size == 0 {
		return nil, fmt.Errorf("softgpu: buffer %q has zero size", desc.Label)
	}

	b := &Buffer{label: desc.Label, usage: desc.Usage, data: make([]byte, size)}
	copy(b.data, desc.Contents)
	d.buffers++
	return b, nil
}

// DestroyBuffer releases buf.
func (d *Device) DestroyBuffer(buf gpu.Buffer) {
	b := mustBuffer(buf)
	b.mu.Lock()
	already := b.destroyed
	b.destroyed = true
	b.mu.Unlock()
	if already {
		return
	}
	d.mu.Lock()
	d.buffers--
	d.mu.Unlock()
}

// Texture is an RGBA8 texture.
type Texture struct {
	label     string
	width     uint32
	height    uint32
	mu        sync.Mutex
	pixels    []byte
	destroyed bool
}

// Label returns the debug label.
func (t *Texture) Label() string { return t.label }

// Width returns the width in texels.
func (t *Texture) Width() uint32 { return t.width }

// Height returns the height in texels.
func (t *Texture) Height() uint32 { return t.height }

// Pixels returns a copy of the RGBA8 texel data.
func (t *Texture) Pixels() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]byte, len(t.pixels))
	copy(out, t.pixels)
	return out
}

// texel returns the normalized RGBA texel at (x, y), clamped to the edges.
func (t *Texture) texel(x, y int) [4]float32 {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x >= int(t.width) {
		x = int(t.width) - 1
	}
	if y >= int(t.height) {
		y = int(t.height) - 1
	}
	i := (y*int(t.width) + x) * 4
	return [4]float32{
		float32(t.pixels[i]) / 255,
		float32(t.pixels[i+1]) / 255,
		float32(t.pixels[i+2]) / 255,
		float32(t.pixels[i+3]) / 255,
	}
}

// CreateTexture allocates a transparent black texture.
func (d *Device) CreateTexture(desc *gpu.TextureDescriptor) (gpu.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("softgpu: texture %q has zero size", desc.Label)
	}
	d.textures++
	return &Texture{
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
		pixels: make([]byte, int(desc.Width)*int(desc.Height)*4),
	}, nil
}

// DestroyTexture releases tex.
func (d *Device) DestroyTexture(tex gpu.Texture) {
	t := mustTexture(tex)
	t.mu.Lock()
	already := t.destroyed
	t.destroyed = true
	t.mu.Unlock()
	if already {
		return
	}
	d.mu.Lock()
	d.textures--
	d.mu.Unlock()
}

// TextureView is a full view of one texture.
type TextureView struct {
	tex *Texture
}

// Texture returns the viewed texture.
func (v *TextureView) Texture() gpu.Texture { return v.tex }

// CreateTextureView creates a view over tex.
func (d *Device) CreateTextureView(tex gpu.Texture) (gpu.TextureView, error) {
	return &TextureView{tex: mustTexture(tex)}, nil
}

// Sampler records its filter settings. The rasterizer always samples nearest.
type Sampler struct {
	Desc gpu.SamplerDescriptor
}

// CreateSampler creates a sampler.
func (d *Device) CreateSampler(desc *gpu.SamplerDescriptor) (gpu.Sampler, error) {
	return &Sampler{Desc: *desc}, nil
}

// BindGroupLayout is a list of binding slots.
type BindGroupLayout struct {
	label   string
	entries []gpu.BindGroupLayoutEntry
}

// Label returns the debug label.
func (l *BindGroupLayout) Label() string { return l.label }

// Entries returns the binding slots.
func (l *BindGroupLayout) Entries() []gpu.BindGroupLayoutEntry { return l.entries }

// CreateBindGroupLayout creates a layout.
func (d *Device) CreateBindGroupLayout(desc *gpu.BindGroupLayoutDescriptor) (gpu.BindGroupLayout, error) {
	seen := make(map[uint32]bool, len(desc.Entries))
	for _, e := range desc.Entries {
		if seen[e.Binding] {
			return nil, fmt.Errorf("softgpu: layout %q binds slot %d twice", desc.Label, e.Binding)
		}
		seen[e.Binding] = true
	}
	entries := make([]gpu.BindGroupLayoutEntry, len(desc.Entries))
	copy(entries, desc.Entries)
	return &BindGroupLayout{label: desc.Label, entries: entries}, nil
}

// BindGroup holds resources keyed by binding slot.
type BindGroup struct {
	label     string
	layout    *BindGroupLayout
	entries   map[uint32]gpu.BindGroupEntry
	destroyed bool
}

// Label returns the debug label.
func (g *BindGroup) Label() string { return g.label }

// Layout returns the layout the group was created against.
func (g *BindGroup) Layout() gpu.BindGroupLayout { return g.layout }

// Entry returns the resource bound at slot binding.
func (g *BindGroup) Entry(binding uint32) (gpu.BindGroupEntry, bool) {
	e, ok := g.entries[binding]
	return e, ok
}

// named returns the resource whose layout entry carries name.
func (g *BindGroup) named(name string) (gpu.BindGroupEntry, bool) {
	for _, le := range g.layout.entries {
		if le.Name == name {
			return g.Entry(le.Binding)
		}
	}
	return gpu.BindGroupEntry{}, false
}

// CreateBindGroup validates desc against its layout and creates the group.
func (d *Device) CreateBindGroup(desc *gpu.BindGroupDescriptor) (gpu.BindGroup, error) {
	layout, ok := desc.Layout.(*BindGroupLayout)
	if !ok {
		return nil, fmt.Errorf("softgpu: bind group %q has a foreign layout", desc.Label)
	}

	entries := make(map[uint32]gpu.BindGroupEntry, len(desc.Entries))
	for _, e := range desc.Entries {
		entries[e.Binding] = e
	}
	for _, le := range layout.entries {
		e, ok := entries[le.Binding]
		if !ok {
			return nil, fmt.Errorf("softgpu: bind group %q misses binding %d", desc.Label, le.Binding)
		}
		var valid bool
		switch le.Type {
		case gpu.BindingUniform:
			valid = e.Buffer != nil
			if valid {
				valid = mustBuffer(e.Buffer).usage.Has(gpu.BufferUsageUniform)
			}
		case gpu.BindingTexture:
			valid = e.View != nil
		case gpu.BindingSampler:
			valid = e.Sampler != nil
		}
		if !valid {
			return nil, fmt.Errorf("softgpu: bind group %q binding %d does not match its layout", desc.Label, le.Binding)
		}
	}
	return &BindGroup{label: desc.Label, layout: layout, entries: entries}, nil
}

// DestroyBindGroup releases bg.
func (d *Device) DestroyBindGroup(bg gpu.BindGroup) {
	if g, ok := bg.(*BindGroup); ok {
		g.destroyed = true
	}
}

// Pipeline keeps its descriptor for the rasterizer.
type Pipeline struct {
	desc gpu.RenderPipelineDescriptor
}

// Label returns the debug label.
func (p *Pipeline) Label() string { return p.desc.Label }

// CreateRenderPipeline checks the vertex layout and stores the descriptor.
// Shader sources are not compiled; the rasterizer implements sprite2d directly.
func (d *Device) CreateRenderPipeline(desc *gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	for _, a := range desc.Vertex.Attributes {
		if a.Offset+a.Format.Size() > desc.Vertex.Stride {
			return nil, fmt.Errorf("softgpu: pipeline %q attribute %q overruns stride %d",
				desc.Label, a.Name, desc.Vertex.Stride)
		}
	}
	return &Pipeline{desc: *desc}, nil
}

// Destroy marks the device as lost; later creations fail with gpu.ErrDestroyed.
func (d *Device) Destroy() {
	d.mu.Lock()
	d.destroyed = true
	d.mu.Unlock()
}

func mustBuffer(buf gpu.Buffer) *Buffer {
	b, ok := buf.(*Buffer)
	if !ok {
		panic(fmt.Sprintf("softgpu: foreign buffer %T", buf))
	}
	return b
}

func mustTexture(tex gpu.Texture) *Texture {
	t, ok := tex.(*Texture)
	if !ok {
		panic(fmt.Sprintf("softgpu: foreign texture %T", tex))
	}
	return t
}
