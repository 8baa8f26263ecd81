package softgpu

import (
	"fmt"
	"image"

	"github.com/Faultbox/quadra/internal/engine/gpu"
)

// CommandKind identifies a recorded render pass command.
type CommandKind int

const (
	CmdSetPipeline CommandKind = iota
	CmdSetBindGroup
	CmdSetVertexBuffer
	CmdSetIndexBuffer
	CmdDrawIndexed
	CmdEnd
)

func (k CommandKind) String() string {
	switch k {
	case CmdSetPipeline:
		return "SetPipeline"
	case CmdSetBindGroup:
		return "SetBindGroup"
	case CmdSetVertexBuffer:
		return "SetVertexBuffer"
	case CmdSetIndexBuffer:
		return "SetIndexBuffer"
	case CmdDrawIndexed:
		return "DrawIndexed"
	case CmdEnd:
		return "End"
	}
	return fmt.Sprintf("CommandKind(%d)", int(k))
}

// Command is one recorded call. Only the fields relevant to Kind are set.
type Command struct {
	Kind          CommandKind
	Slot          uint32 // bind group index or vertex buffer slot
	Label         string // label of the bound resource
	IndexFormat   gpu.IndexFormat
	IndexCount    uint32
	InstanceCount uint32
	FirstIndex    uint32
	BaseVertex    int32
	FirstInstance uint32
}

// Pass records commands and rasterizes draws into an optional target.
type Pass struct {
	target   *image.RGBA
	commands []Command

	pipeline    *Pipeline
	groups      map[uint32]*BindGroup
	vertices    *Buffer
	indices     *Buffer
	indexFormat gpu.IndexFormat
	ended       bool
}

var _ gpu.RenderPass = (*Pass)(nil)

// NewPass returns a pass drawing into target. A nil target only records.
func NewPass(target *image.RGBA) *Pass {
	return &Pass{target: target, groups: make(map[uint32]*BindGroup)}
}

// Commands returns the recorded commands in call order.
func (p *Pass) Commands() []Command {
	out := make([]Command, len(p.commands))
	copy(out, p.commands)
	return out
}

// Ended reports whether End was called.
func (p *Pass) Ended() bool { return p.ended }

func (p *Pass) record(c Command) {
	if p.ended {
		panic("softgpu: command recorded after End")
	}
	p.commands = append(p.commands, c)
}

// SetPipeline selects the pipeline for following draws.
func (p *Pass) SetPipeline(pl gpu.RenderPipeline) {
	pipe, ok := pl.(*Pipeline)
	if !ok {
		panic(fmt.Sprintf("softgpu: foreign pipeline %T", pl))
	}
	p.record(Command{Kind: CmdSetPipeline, Label: pipe.Label()})
	p.pipeline = pipe
}

// SetBindGroup binds bg at group index.
func (p *Pass) SetBindGroup(index uint32, bg gpu.BindGroup) {
	g, ok := bg.(*BindGroup)
	if !ok {
		panic(fmt.Sprintf("softgpu: foreign bind group %T", bg))
	}
	p.record(Command{Kind: CmdSetBindGroup, Slot: index, Label: g.Label()})
	p.groups[index] = g
}

// SetVertexBuffer binds buf at slot. Only slot 0 is used by the rasterizer.
func (p *Pass) SetVertexBuffer(slot uint32, buf gpu.Buffer) {
	b := mustBuffer(buf)
	p.record(Command{Kind: CmdSetVertexBuffer, Slot: slot, Label: b.Label()})
	if slot == 0 {
		p.vertices = b
	}
}

// SetIndexBuffer binds buf as the index buffer.
func (p *Pass) SetIndexBuffer(buf gpu.Buffer, format gpu.IndexFormat) {
	b := mustBuffer(buf)
	p.record(Command{Kind: CmdSetIndexBuffer, Label: b.Label(), IndexFormat: format})
	p.indices = b
	p.indexFormat = format
}

// DrawIndexed records the draw and rasterizes it when the pass has a target.
func (p *Pass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.record(Command{
		Kind:          CmdDrawIndexed,
		IndexCount:    indexCount,
		InstanceCount: instanceCount,
		FirstIndex:    firstIndex,
		BaseVertex:    baseVertex,
		FirstInstance: firstInstance,
	})
	if p.target == nil || instanceCount == 0 {
		return
	}
	if p.pipeline == nil || p.vertices == nil || p.indices == nil {
		panic("softgpu: DrawIndexed without pipeline, vertex buffer and index buffer")
	}
	p.rasterize(indexCount, firstIndex, baseVertex)
}

// End finishes the pass.
func (p *Pass) End() {
	p.record(Command{Kind: CmdEnd})
	p.ended = true
}
