// Package glgpu implements the gpu device abstraction on OpenGL 4.1 core.
//
// Uniform buffers of bind group g, binding b are attached to binding point
// g*4+b and connected to the program's uniform blocks by name. Textures and
// samplers of group g use texture unit g.
package glgpu

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/quadra/internal/engine/gpu"
)

// Device creates GL objects. It must be used from the thread owning the GL context.
type Device struct {
	log *zap.Logger
}

var _ gpu.Device = (*Device)(nil)

// New initializes OpenGL function pointers for the current context.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(log *zap.Logger) (*Device, *Queue, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := gl.Init(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	d := &Device{log: log}
	return d, &Queue{}, nil
}

// Buffer is a GL buffer object.
type Buffer struct {
	id    uint32
	label string
	size  uint64
	usage gpu.BufferUsage
}

func (b *Buffer) Label() string { return b.label }
func (b *Buffer) Size() uint64  { return b.size }

// CreateBuffer allocates a buffer object through the copy-write target so no
// vertex array needs to be bound.
func (d *Device) CreateBuffer(desc *gpu.BufferDescriptor) (gpu.Buffer, error) {
	size := desc.Size
	if uint64(len(desc.Contents)) > size {
		size = uint64(len(desc.Contents))
	}
	if size == 0 {
		return nil, fmt.Errorf("glgpu: buffer %q has zero size", desc.Label)
	}

	b := &Buffer{label: desc.Label, size: size, usage: desc.Usage}
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, b.id)

	usage := uint32(gl.STATIC_DRAW)
	if desc.Usage.Has(gpu.BufferUsageCopyDst) {
		usage = gl.DYNAMIC_DRAW
	}
	var ptr unsafe.Pointer
	if len(desc.Contents) > 0 && uint64(len(desc.Contents)) == size {
		ptr = gl.Ptr(desc.Contents)
	}
	gl.BufferData(gl.COPY_WRITE_BUFFER, int(size), ptr, usage)
	if ptr == nil && len(desc.Contents) > 0 {
		gl.BufferSubData(gl.COPY_WRITE_BUFFER, 0, len(desc.Contents), gl.Ptr(desc.Contents))
	}
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)

	if err := checkError("create buffer " + desc.Label); err != nil {
		gl.DeleteBuffers(1, &b.id)
		return nil, err
	}
	return b, nil
}

// DestroyBuffer deletes the buffer object.
func (d *Device) DestroyBuffer(buf gpu.Buffer) {
	b := buf.(*Buffer)
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}

// Texture is a GL_TEXTURE_2D with RGBA8 storage.
type Texture struct {
	id            uint32
	label         string
	width, height uint32
}

func (t *Texture) Label() string  { return t.label }
func (t *Texture) Width() uint32  { return t.width }
func (t *Texture) Height() uint32 { return t.height }

// CreateTexture allocates texture storage without data.
func (d *Device) CreateTexture(desc *gpu.TextureDescriptor) (gpu.Texture, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("glgpu: texture %q has zero size", desc.Label)
	}
	t := &Texture{label: desc.Label, width: desc.Width, height: desc.Height}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(desc.Width), int32(desc.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := checkError("create texture " + desc.Label); err != nil {
		gl.DeleteTextures(1, &t.id)
		return nil, err
	}
	return t, nil
}

// DestroyTexture deletes the texture object.
func (d *Device) DestroyTexture(tex gpu.Texture) {
	t := tex.(*Texture)
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// TextureView is the texture itself; GL samples textures directly.
type TextureView struct {
	tex *Texture
}

func (v *TextureView) Texture() gpu.Texture { return v.tex }

// CreateTextureView wraps tex.
func (d *Device) CreateTextureView(tex gpu.Texture) (gpu.TextureView, error) {
	return &TextureView{tex: tex.(*Texture)}, nil
}

// Sampler is a GL sampler object.
type Sampler struct {
	id uint32
}

// CreateSampler creates a clamp-to-edge sampler.
func (d *Device) CreateSampler(desc *gpu.SamplerDescriptor) (gpu.Sampler, error) {
	s := &Sampler{}
	gl.GenSamplers(1, &s.id)
	gl.SamplerParameteri(s.id, gl.TEXTURE_MIN_FILTER, glFilter(desc.MinFilter))
	gl.SamplerParameteri(s.id, gl.TEXTURE_MAG_FILTER, glFilter(desc.MagFilter))
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return s, nil
}

func glFilter(f gpu.FilterMode) int32 {
	if f == gpu.FilterLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

// BindGroupLayout keeps the entries for binding at draw time.
type BindGroupLayout struct {
	label   string
	entries []gpu.BindGroupLayoutEntry
}

func (l *BindGroupLayout) Label() string                       { return l.label }
func (l *BindGroupLayout) Entries() []gpu.BindGroupLayoutEntry { return l.entries }

// CreateBindGroupLayout records desc.
func (d *Device) CreateBindGroupLayout(desc *gpu.BindGroupLayoutDescriptor) (gpu.BindGroupLayout, error) {
	for _, e := range desc.Entries {
		if e.Binding >= 4 {
			return nil, fmt.Errorf("glgpu: layout %q binding %d exceeds 3", desc.Label, e.Binding)
		}
	}
	return &BindGroupLayout{label: desc.Label, entries: append([]gpu.BindGroupLayoutEntry(nil), desc.Entries...)}, nil
}

// BindGroup pairs layout entries with resources.
type BindGroup struct {
	label   string
	layout  *BindGroupLayout
	entries []gpu.BindGroupEntry
}

func (g *BindGroup) Label() string               { return g.label }
func (g *BindGroup) Layout() gpu.BindGroupLayout { return g.layout }

// CreateBindGroup checks that every layout slot has a resource of the right kind.
func (d *Device) CreateBindGroup(desc *gpu.BindGroupDescriptor) (gpu.BindGroup, error) {
	layout, ok := desc.Layout.(*BindGroupLayout)
	if !ok {
		return nil, fmt.Errorf("glgpu: bind group %q has a foreign layout", desc.Label)
	}
	byBinding := make(map[uint32]gpu.BindGroupEntry, len(desc.Entries))
	for _, e := range desc.Entries {
		byBinding[e.Binding] = e
	}
	entries := make([]gpu.BindGroupEntry, 0, len(layout.entries))
	for _, le := range layout.entries {
		e, ok := byBinding[le.Binding]
		if !ok {
			return nil, fmt.Errorf("glgpu: bind group %q misses binding %d", desc.Label, le.Binding)
		}
		if (le.Type == gpu.BindingUniform && e.Buffer == nil) ||
			(le.Type == gpu.BindingTexture && e.View == nil) ||
			(le.Type == gpu.BindingSampler && e.Sampler == nil) {
			return nil, fmt.Errorf("glgpu: bind group %q binding %d does not match its layout", desc.Label, le.Binding)
		}
		entries = append(entries, e)
	}
	return &BindGroup{label: desc.Label, layout: layout, entries: entries}, nil
}

// DestroyBindGroup is a no-op: bind groups own no GL objects.
func (d *Device) DestroyBindGroup(gpu.BindGroup) {}

// Pipeline is a linked program with its vertex array object.
type Pipeline struct {
	label   string
	program uint32
	vao     uint32
	vertex  gpu.VertexLayout
}

func (p *Pipeline) Label() string { return p.label }

// CreateRenderPipeline links the GLSL sources and wires uniform blocks and
// sampler units to the layout slots.
func (d *Device) CreateRenderPipeline(desc *gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	program, err := compileProgram(desc.Shader.GLSLVertex, desc.Shader.GLSLFragment)
	if err != nil {
		return nil, fmt.Errorf("glgpu: pipeline %q: %w", desc.Label, err)
	}

	for group, l := range desc.BindGroupLayouts {
		for _, e := range l.Entries() {
			var bound bool
			switch e.Type {
			case gpu.BindingUniform:
				bound = bindUniformBlock(program, e.Name, bindingPoint(uint32(group), e.Binding))
			case gpu.BindingTexture:
				bound = bindSamplerUnit(program, e.Name, int32(group))
			case gpu.BindingSampler:
				// sampler objects attach to the unit of their group's texture
				bound = true
			}
			if !bound {
				d.log.Debug("resource unused by program",
					zap.String("pipeline", desc.Label), zap.String("name", e.Name))
			}
		}
	}

	p := &Pipeline{label: desc.Label, program: program, vertex: desc.Vertex}
	gl.GenVertexArrays(1, &p.vao)

	if err := checkError("create pipeline " + desc.Label); err != nil {
		gl.DeleteProgram(program)
		return nil, err
	}
	d.log.Debug("pipeline created", zap.String("label", desc.Label), zap.Uint32("program", program))
	return p, nil
}

// Destroy is a no-op: the GL context owns every object and is destroyed with the window.
func (d *Device) Destroy() {}

// checkError maps a pending GL error to a Go error.
func checkError(op string) error {
	code := gl.GetError()
	switch code {
	case gl.NO_ERROR:
		return nil
	case gl.OUT_OF_MEMORY:
		return fmt.Errorf("glgpu: %s: %w", op, gpu.ErrOutOfMemory)
	}
	return fmt.Errorf("glgpu: %s: GL error 0x%x", op, code)
}
