package gfx

import (
	"fmt"

	"github.com/Faultbox/quadra/internal/engine/gpu"
)

// Mesh is the GPU side of a primitive: vertex and index buffers, the element
// count, and a uniform buffer with the model matrix of Transform bound through
// the "transform" layout. The owning primitive is its only mutator.
type Mesh struct {
	ctx   *Context
	label string

	vertexBuffer  gpu.Buffer
	indexBuffer   gpu.Buffer
	elementCount  uint32
	uniformBuffer gpu.Buffer
	bindGroup     gpu.BindGroup

	Transform Transform
}

// NewMesh takes ownership of the given buffers and allocates the transform
// uniform, initialized from the identity transform. It panics if the
// "transform" layout is not registered.
func NewMesh(ctx *Context, vertexBuffer, indexBuffer gpu.Buffer, elementCount uint32) (*Mesh, error) {
	layout := ctx.MustBindGroupLayout(LayoutTransform)

	m := &Mesh{
		ctx:          ctx,
		label:        vertexBuffer.Label(),
		vertexBuffer: vertexBuffer,
		indexBuffer:  indexBuffer,
		elementCount: elementCount,
		Transform:    NewTransform(),
	}

	err := ctx.Do(func(dev gpu.Device, _ gpu.Queue) error {
		ub, err := dev.CreateBuffer(&gpu.BufferDescriptor{
			Label:    m.label + "/transform",
			Usage:    gpu.BufferUsageUniform | gpu.BufferUsageCopyDst,
			Contents: matrixBytes(m.Transform.ModelMatrix()),
		})
		if err != nil {
			return fmt.Errorf("create transform uniform: %w", err)
		}

		bg, err := dev.CreateBindGroup(&gpu.BindGroupDescriptor{
			Label:   m.label + "/transform",
			Layout:  layout,
			Entries: []gpu.BindGroupEntry{{Binding: 0, Buffer: ub}},
		})
		if err != nil {
			dev.DestroyBuffer(ub)
			return fmt.Errorf("create transform bind group: %w", err)
		}

		m.uniformBuffer = ub
		m.bindGroup = bg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// newMeshFromVertices uploads vertices and indices into fresh buffers and
// builds a mesh over them.
func newMeshFromVertices(ctx *Context, kind string, vertices []ShapeVertex, indices []uint16) (*Mesh, error) {
	label := newLabel(kind)

	var vb, ib gpu.Buffer
	err := ctx.Do(func(dev gpu.Device, _ gpu.Queue) error {
		var err error
		vb, err = dev.CreateBuffer(&gpu.BufferDescriptor{
			Label:    label,
			Usage:    gpu.BufferUsageVertex | gpu.BufferUsageCopyDst,
			Contents: EncodeVertices(vertices),
		})
		if err != nil {
			return fmt.Errorf("create vertex buffer: %w", err)
		}
		ib, err = dev.CreateBuffer(&gpu.BufferDescriptor{
			Label:    label + "/index",
			Usage:    gpu.BufferUsageIndex,
			Contents: encodeIndices(indices),
		})
		if err != nil {
			dev.DestroyBuffer(vb)
			return fmt.Errorf("create index buffer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s mesh: %w", kind, err)
	}

	m, err := NewMesh(ctx, vb, ib, uint32(len(indices)))
	if err != nil {
		_ = ctx.Do(func(dev gpu.Device, _ gpu.Queue) error {
			dev.DestroyBuffer(vb)
			dev.DestroyBuffer(ib)
			return nil
		})
		return nil, fmt.Errorf("%s mesh: %w", kind, err)
	}
	return m, nil
}

// SyncTransform rewrites the uniform buffer from Transform.
func (m *Mesh) SyncTransform() {
	m.ctx.WriteBuffer(m.uniformBuffer, 0, matrixBytes(m.Transform.ModelMatrix()))
}

// SyncVertices rewrites the vertex buffer from the CPU mirror. The mirror must
// have the vertex count the mesh was created with.
func (m *Mesh) SyncVertices(vertices []ShapeVertex) {
	m.ctx.WriteBuffer(m.vertexBuffer, 0, EncodeVertices(vertices))
}

// Label returns the debug label shared by the mesh's buffers.
func (m *Mesh) Label() string { return m.label }

// VertexBuffer returns the vertex buffer.
func (m *Mesh) VertexBuffer() gpu.Buffer { return m.vertexBuffer }

// IndexBuffer returns the 16-bit index buffer.
func (m *Mesh) IndexBuffer() gpu.Buffer { return m.indexBuffer }

// UniformBuffer returns the model matrix uniform buffer.
func (m *Mesh) UniformBuffer() gpu.Buffer { return m.uniformBuffer }

// BindGroup returns the transform bind group.
func (m *Mesh) BindGroup() gpu.BindGroup { return m.bindGroup }

// ElementCount returns the number of indices drawn.
func (m *Mesh) ElementCount() uint32 { return m.elementCount }

// Destroy releases the mesh's GPU resources.
func (m *Mesh) Destroy() {
	_ = m.ctx.Do(func(dev gpu.Device, _ gpu.Queue) error {
		dev.DestroyBindGroup(m.bindGroup)
		dev.DestroyBuffer(m.uniformBuffer)
		dev.DestroyBuffer(m.indexBuffer)
		dev.DestroyBuffer(m.vertexBuffer)
		return nil
	})
}
