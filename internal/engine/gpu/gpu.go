// Package gpu defines the device abstraction the 2D renderer is written against.
//
// A backend (softgpu, glgpu, halgpu) supplies a Device, its Queue and a Surface.
// Resource handles are opaque to callers; a handle may only be passed back to
// the device that created it.
package gpu

// BufferUsage is a bit set describing how a buffer is bound.
type BufferUsage uint32

const (
	BufferUsageVertex BufferUsage = 1 << iota
	BufferUsageIndex
	BufferUsageUniform
	BufferUsageCopySrc
	BufferUsageCopyDst
)

// Has reports whether all bits of flag are set.
func (u BufferUsage) Has(flag BufferUsage) bool { return u&flag == flag }

// ShaderStage is a bit set of pipeline stages.
type ShaderStage uint32

const (
	StageVertex ShaderStage = 1 << iota
	StageFragment
)

// BindingType is the kind of resource bound at one slot of a bind group.
type BindingType int

const (
	BindingUniform BindingType = iota
	BindingTexture
	BindingSampler
)

// TextureFormat is the pixel format of a texture or surface.
type TextureFormat int

const (
	FormatRGBA8Unorm TextureFormat = iota
	FormatBGRA8Unorm
)

// FilterMode selects texel filtering.
type FilterMode int

const (
	FilterNearest FilterMode = iota
	FilterLinear
)

// IndexFormat is the element type of an index buffer.
type IndexFormat int

const (
	IndexUint16 IndexFormat = iota
	IndexUint32
)

// VertexFormat is the numeric format of one vertex attribute.
type VertexFormat int

const (
	Float32x2 VertexFormat = iota
	Float32x3
	Float32x4
)

// Size returns the byte size of one attribute of this format.
func (f VertexFormat) Size() uint64 {
	switch f {
	case Float32x2:
		return 8
	case Float32x3:
		return 12
	case Float32x4:
		return 16
	}
	return 0
}

// Components returns the number of float32 components.
func (f VertexFormat) Components() int {
	return int(f.Size() / 4)
}

// Buffer is a GPU buffer handle.
type Buffer interface {
	Label() string
	Size() uint64
}

// Texture is a 2D GPU texture handle.
type Texture interface {
	Label() string
	Width() uint32
	Height() uint32
}

// TextureView is a view over a texture used for sampling.
type TextureView interface {
	Texture() Texture
}

// Sampler is a texture sampler handle.
type Sampler interface{}

// BindGroupLayout describes the slots of a bind group.
type BindGroupLayout interface {
	Label() string
	Entries() []BindGroupLayoutEntry
}

// BindGroup is a set of resources matching a BindGroupLayout.
type BindGroup interface {
	Label() string
	Layout() BindGroupLayout
}

// RenderPipeline is a compiled shader program plus fixed-function state.
type RenderPipeline interface {
	Label() string
}

// BufferDescriptor describes a buffer to create. When Contents is set the
// buffer is created with that data and Size may be left zero.
type BufferDescriptor struct {
	Label    string
	Size     uint64
	Usage    BufferUsage
	Contents []byte
}

// BindGroupLayoutEntry describes one binding slot. Name is the symbol the
// shader uses for the resource; backends without numeric bindings resolve
// resources by it.
type BindGroupLayoutEntry struct {
	Binding    uint32
	Visibility ShaderStage
	Type       BindingType
	Name       string
}

// BindGroupLayoutDescriptor describes a bind group layout.
type BindGroupLayoutDescriptor struct {
	Label   string
	Entries []BindGroupLayoutEntry
}

// BindGroupEntry binds one resource. Exactly one of Buffer, View and Sampler is set.
type BindGroupEntry struct {
	Binding uint32
	Buffer  Buffer
	View    TextureView
	Sampler Sampler
}

// BindGroupDescriptor describes a bind group.
type BindGroupDescriptor struct {
	Label   string
	Layout  BindGroupLayout
	Entries []BindGroupEntry
}

// TextureDescriptor describes a sampled 2D texture.
type TextureDescriptor struct {
	Label  string
	Width  uint32
	Height uint32
	Format TextureFormat
}

// SamplerDescriptor describes a clamp-to-edge sampler.
type SamplerDescriptor struct {
	Label     string
	MagFilter FilterMode
	MinFilter FilterMode
}

// VertexAttribute is one field of a vertex record.
type VertexAttribute struct {
	Format         VertexFormat
	Offset         uint64
	ShaderLocation uint32
	Name           string
}

// VertexLayout describes an interleaved vertex buffer.
type VertexLayout struct {
	Stride     uint64
	Attributes []VertexAttribute
}

// ShaderSource carries the program in every language a backend may need.
type ShaderSource struct {
	Name         string
	WGSL         string
	GLSLVertex   string
	GLSLFragment string
}

// RenderPipelineDescriptor describes a triangle-list pipeline with alpha blending.
// BindGroupLayouts[i] is the layout expected at group i.
type RenderPipelineDescriptor struct {
	Label            string
	Shader           ShaderSource
	Vertex           VertexLayout
	BindGroupLayouts []BindGroupLayout
	Format           TextureFormat
}

// Device creates and destroys GPU resources.
type Device interface {
	CreateBuffer(desc *BufferDescriptor) (Buffer, error)
	CreateBindGroupLayout(desc *BindGroupLayoutDescriptor) (BindGroupLayout, error)
	CreateBindGroup(desc *BindGroupDescriptor) (BindGroup, error)
	CreateTexture(desc *TextureDescriptor) (Texture, error)
	CreateTextureView(tex Texture) (TextureView, error)
	CreateSampler(desc *SamplerDescriptor) (Sampler, error)
	CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error)

	DestroyBuffer(buf Buffer)
	DestroyTexture(tex Texture)
	DestroyBindGroup(bg BindGroup)

	// Destroy releases the device itself.
	Destroy()
}

// Queue uploads data into existing resources. Writes are applied in call order.
// Writing outside a resource is a programmer error and panics.
type Queue interface {
	WriteBuffer(buf Buffer, offset uint64, data []byte)
	// WriteTexture replaces the full contents of tex with tightly packed RGBA8 rows.
	WriteTexture(tex Texture, data []byte)
}

// RenderPass records draw commands for one frame.
type RenderPass interface {
	SetPipeline(p RenderPipeline)
	SetBindGroup(index uint32, bg BindGroup)
	SetVertexBuffer(slot uint32, buf Buffer)
	SetIndexBuffer(buf Buffer, format IndexFormat)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
	End()
}

// SurfaceConfig is the presentable surface state.
type SurfaceConfig struct {
	Width  uint32
	Height uint32
	Format TextureFormat
	VSync  bool
}

// Surface produces frames to render into.
type Surface interface {
	Configure(cfg SurfaceConfig) error
	// Acquire returns the next frame. Errors are classified by the sentinels in errors.go.
	Acquire() (Frame, error)
}

// Frame is one acquired surface image.
type Frame interface {
	// BeginPass starts a pass that clears the frame to clear (RGBA, 0..1).
	BeginPass(clear [4]float32) RenderPass
	// Present submits the recorded pass and shows the frame.
	Present() error
}
