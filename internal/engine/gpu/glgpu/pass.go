package glgpu

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/quadra/internal/engine/gpu"
)

// Pass issues GL calls as commands are recorded.
type Pass struct {
	pipeline  *Pipeline
	indexType uint32
	indexSize uint32
	ended     bool
}

var _ gpu.RenderPass = (*Pass)(nil)

// SetPipeline selects the program and its vertex array.
func (p *Pass) SetPipeline(pl gpu.RenderPipeline) {
	p.pipeline = pl.(*Pipeline)
	gl.UseProgram(p.pipeline.program)
	gl.BindVertexArray(p.pipeline.vao)
}

// SetBindGroup attaches the group's uniform buffers, texture and sampler.
func (p *Pass) SetBindGroup(index uint32, bg gpu.BindGroup) {
	g := bg.(*BindGroup)
	for i, le := range g.layout.entries {
		e := g.entries[i]
		switch le.Type {
		case gpu.BindingUniform:
			gl.BindBufferBase(gl.UNIFORM_BUFFER, bindingPoint(index, le.Binding), e.Buffer.(*Buffer).id)
		case gpu.BindingTexture:
			gl.ActiveTexture(gl.TEXTURE0 + index)
			gl.BindTexture(gl.TEXTURE_2D, e.View.(*TextureView).tex.id)
		case gpu.BindingSampler:
			gl.BindSampler(index, e.Sampler.(*Sampler).id)
		}
	}
}

// SetVertexBuffer binds buf and describes its attributes to the vertex array.
func (p *Pass) SetVertexBuffer(slot uint32, buf gpu.Buffer) {
	if slot != 0 || p.pipeline == nil {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, buf.(*Buffer).id)
	layout := p.pipeline.vertex
	for _, a := range layout.Attributes {
		gl.VertexAttribPointerWithOffset(a.ShaderLocation, int32(a.Format.Components()), gl.FLOAT, false,
			int32(layout.Stride), uintptr(a.Offset))
		gl.EnableVertexAttribArray(a.ShaderLocation)
	}
}

// SetIndexBuffer binds buf to the current vertex array.
func (p *Pass) SetIndexBuffer(buf gpu.Buffer, format gpu.IndexFormat) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf.(*Buffer).id)
	if format == gpu.IndexUint32 {
		p.indexType, p.indexSize = gl.UNSIGNED_INT, 4
	} else {
		p.indexType, p.indexSize = gl.UNSIGNED_SHORT, 2
	}
}

// DrawIndexed draws triangles. firstInstance is not supported by GL 4.1 and must be 0.
func (p *Pass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	if instanceCount == 0 {
		return
	}
	gl.DrawElementsInstancedBaseVertex(gl.TRIANGLES, int32(indexCount), p.indexType,
		gl.PtrOffset(int(firstIndex*p.indexSize)), int32(instanceCount), baseVertex)
}

// End unbinds the pass state.
func (p *Pass) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	p.ended = true
}
