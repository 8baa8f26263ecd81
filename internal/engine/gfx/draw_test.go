package gfx_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/quadra/internal/engine/gfx"
	"github.com/Faultbox/quadra/internal/engine/gpu"
	"github.com/Faultbox/quadra/internal/engine/gpu/softgpu"
)

func TestDrawMeshCommandOrder(t *testing.T) {
	ctx, _ := newTestContext(t)
	r, err := gfx.NewRectangle(ctx, mgl32.Vec2{4, 4})
	if err != nil {
		t.Fatalf("NewRectangle: %v", err)
	}

	pass := softgpu.NewPass(nil)
	gfx.DrawMesh(pass, r.Mesh())

	cmds := pass.Commands()
	want := []softgpu.CommandKind{
		softgpu.CmdSetBindGroup,
		softgpu.CmdSetVertexBuffer,
		softgpu.CmdSetIndexBuffer,
		softgpu.CmdDrawIndexed,
	}
	if len(cmds) != len(want) {
		t.Fatalf("commands: got %v, want %v", cmds, want)
	}
	for i, k := range want {
		if cmds[i].Kind != k {
			t.Errorf("command %d: got %v, want %v", i, cmds[i].Kind, k)
		}
	}
	if cmds[0].Slot != gfx.GroupTransform {
		t.Errorf("transform group slot: got %d, want %d", cmds[0].Slot, gfx.GroupTransform)
	}
	if cmds[2].IndexFormat != gpu.IndexUint16 {
		t.Errorf("index format: got %v, want uint16", cmds[2].IndexFormat)
	}
	draw := cmds[3]
	if draw.IndexCount != 6 || draw.InstanceCount != 1 || draw.FirstIndex != 0 || draw.BaseVertex != 0 {
		t.Errorf("draw: got %+v, want 6 indices, 1 instance", draw)
	}
}

func TestShapeDrawBindsPlaceholder(t *testing.T) {
	ctx, _ := newTestContext(t)
	c, err := gfx.NewCircle(ctx, 3, 5)
	if err != nil {
		t.Fatalf("NewCircle: %v", err)
	}

	pass := softgpu.NewPass(nil)
	c.Draw(pass)

	cmds := pass.Commands()
	if cmds[0].Kind != softgpu.CmdSetBindGroup || cmds[0].Slot != gfx.GroupTexture {
		t.Fatalf("first command: got %+v, want texture bind group", cmds[0])
	}
	if cmds[0].Label != ctx.Placeholder().Label() {
		t.Errorf("bound texture: got %q, want placeholder", cmds[0].Label)
	}
	if last := cmds[len(cmds)-1]; last.IndexCount != 15 {
		t.Errorf("index count: got %d, want 15", last.IndexCount)
	}
}

func TestRenderRectangleToSurface(t *testing.T) {
	ctx, _ := newTestContext(t)
	surface := softgpu.NewSurface()
	if err := surface.Configure(gpu.SurfaceConfig{Width: 8, Height: 8}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	frame, err := gfx.NewFrameUniforms(ctx, 8, 8)
	if err != nil {
		t.Fatalf("NewFrameUniforms: %v", err)
	}
	r, err := gfx.NewRectangle(ctx, mgl32.Vec2{4, 4})
	if err != nil {
		t.Fatalf("NewRectangle: %v", err)
	}
	r.SetFillColor(gfx.Red)
	r.SetPosition(mgl32.Vec2{2, 2})

	pipeline, err := ctx.Pipeline(gfx.PipelineSprite)
	if err != nil {
		t.Fatalf("Pipeline: %v", err)
	}

	f, err := surface.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	pass := f.BeginPass([4]float32{0, 0, 0, 1})
	pass.SetPipeline(pipeline)
	frame.Bind(pass)
	r.Draw(pass)
	pass.End()
	if err := f.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}

	img := surface.Snapshot()
	// quad covers (2,2)..(6,6)
	if got := img.RGBAAt(5, 5); got.R != 255 || got.G != 0 || got.A != 255 {
		t.Errorf("pixel (5,5): got %v, want red", got)
	}
	if got := img.RGBAAt(1, 1); got.R != 0 {
		t.Errorf("pixel (1,1): got %v, want black", got)
	}
}
