package gfx

import "github.com/Faultbox/quadra/internal/engine/gpu"

// Drawable records itself into an active render pass.
type Drawable interface {
	Draw(pass gpu.RenderPass)
}

// DrawMesh binds the mesh's transform group, vertex buffer and 16-bit index
// buffer, then draws all of its elements once.
func DrawMesh(pass gpu.RenderPass, m *Mesh) {
	pass.SetBindGroup(GroupTransform, m.bindGroup)
	pass.SetVertexBuffer(0, m.vertexBuffer)
	pass.SetIndexBuffer(m.indexBuffer, gpu.IndexUint16)
	pass.DrawIndexed(m.elementCount, 1, 0, 0, 0)
}

// bindTexture binds tex, or the context placeholder when tex is nil.
func bindTexture(pass gpu.RenderPass, ctx *Context, tex *Texture) {
	if tex == nil {
		tex = ctx.Placeholder()
	}
	if tex != nil {
		pass.SetBindGroup(GroupTexture, tex.BindGroup())
	}
}
