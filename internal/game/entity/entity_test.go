package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/quadra/internal/engine/character"
	"github.com/Faultbox/quadra/internal/engine/gfx"
	"github.com/Faultbox/quadra/internal/engine/gpu"
	"github.com/Faultbox/quadra/internal/engine/gpu/softgpu"
	"github.com/Faultbox/quadra/pkg/math"
)

type axis struct{ dx, dy float32 }

func (a *axis) Axis() (float32, float32) { return a.dx, a.dy }

func newPlayer(t *testing.T, controls Controls) *Player {
	t.Helper()
	dev := softgpu.New()
	ctx := gfx.NewContext(dev, dev.Queue(), gpu.SurfaceConfig{Width: 320, Height: 240}, nil)
	if err := gfx.Setup(ctx); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	sheet, err := gfx.NewSolidTexture(ctx, gfx.White, "sheet")
	if err != nil {
		t.Fatalf("NewSolidTexture: %v", err)
	}
	p, err := NewPlayer(ctx, sheet, controls)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	t.Cleanup(p.Destroy)
	return p
}

func TestNewPlayerShowsFirstDownFrame(t *testing.T) {
	p := newPlayer(t, nil)

	want := math.Rect{X: 0, Y: 0, Width: FrameWidth, Height: FrameHeight}
	if got := p.Shape().TextureRect(); got != want {
		t.Errorf("TextureRect: got %v, want %v", got, want)
	}
	if p.Facing() != character.Down {
		t.Errorf("Facing: got %v, want down", p.Facing())
	}
	if p.State() != StateIdle {
		t.Errorf("State: got %v, want idle", p.State())
	}
	if p.ID() == 0 || p.Name() != "player" {
		t.Errorf("identity: got %d %q", p.ID(), p.Name())
	}
}

func TestPlayerWalksAndAnimates(t *testing.T) {
	controls := &axis{dx: 1}
	p := newPlayer(t, controls)

	p.Update(0.125)
	if got := p.Position(); got != (mgl32.Vec2{25, 0}) {
		t.Errorf("Position: got %v, want {25 0}", got)
	}
	if got := p.Shape().TextureRect(); got.X != 0 || got.Y != 72 {
		t.Errorf("TextureRect after turning right: got %v, want row 72 frame 0", got)
	}
	if p.State() != StateWalking {
		t.Errorf("State: got %v, want walking", p.State())
	}

	p.Update(0.125)
	if got := p.Shape().TextureRect(); got.X != FrameWidth || got.Y != 72 {
		t.Errorf("TextureRect after 0.25s: got %v, want frame 1 of row 72", got)
	}

	controls.dx = 0
	p.Update(0.125)
	if got := p.Position(); got != (mgl32.Vec2{50, 0}) {
		t.Errorf("Position after stopping: got %v, want {50 0}", got)
	}
	if got := p.Shape().TextureRect(); got.X != 0 || got.Y != 72 {
		t.Errorf("TextureRect when idle: got %v, want first frame of row 72", got)
	}
	if p.State() != StateIdle || p.Facing() != character.Right {
		t.Errorf("idle: got %v facing %v", p.State(), p.Facing())
	}
}

func TestPlayerStaysInArea(t *testing.T) {
	controls := &axis{dx: -1}
	p := newPlayer(t, controls)
	p.SetArea(math.Rect{X: 0, Y: 0, Width: 100, Height: 100})
	p.SetPosition(mgl32.Vec2{10, 10})

	p.Update(0.125)
	if got := p.Position(); got != (mgl32.Vec2{10, 10}) {
		t.Errorf("Position: got %v, want unchanged {10 10}", got)
	}
	if got := p.Bounds(); got != (math.Rect{X: 10, Y: 10, Width: FrameWidth, Height: FrameHeight}) {
		t.Errorf("Bounds: got %v", got)
	}
}

func TestNewIDIsUnique(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b || a == 0 {
		t.Errorf("NewID: got %d and %d", a, b)
	}
}
