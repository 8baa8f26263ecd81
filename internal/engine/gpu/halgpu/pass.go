package halgpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/Faultbox/quadra/internal/engine/gpu"
)

// Pass translates portable handles into hal handles for one render pass.
type Pass struct {
	raw   hal.RenderPassEncoder
	draws int
	ended bool
}

var _ gpu.RenderPass = (*Pass)(nil)

func (p *Pass) SetPipeline(pl gpu.RenderPipeline) {
	p.raw.SetPipeline(pl.(*RenderPipeline).raw)
}

func (p *Pass) SetBindGroup(index uint32, bg gpu.BindGroup) {
	p.raw.SetBindGroup(index, bg.(*BindGroup).raw, nil)
}

func (p *Pass) SetVertexBuffer(slot uint32, buf gpu.Buffer) {
	p.raw.SetVertexBuffer(slot, buf.(*Buffer).raw, 0)
}

func (p *Pass) SetIndexBuffer(buf gpu.Buffer, format gpu.IndexFormat) {
	f := gputypes.IndexFormatUint16
	if format == gpu.IndexUint32 {
		f = gputypes.IndexFormatUint32
	}
	p.raw.SetIndexBuffer(buf.(*Buffer).raw, f, 0)
}

func (p *Pass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.raw.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
	p.draws++
}

// Draws returns the number of indexed draws recorded.
func (p *Pass) Draws() int { return p.draws }

// End closes the pass. Calling it again is a no-op.
func (p *Pass) End() {
	if p.ended {
		return
	}
	p.raw.End()
	p.ended = true
}
