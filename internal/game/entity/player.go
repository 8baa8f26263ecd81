package entity

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/quadra/internal/engine/character"
	"github.com/Faultbox/quadra/internal/engine/gfx"
	"github.com/Faultbox/quadra/internal/engine/gpu"
	"github.com/Faultbox/quadra/pkg/math"
)

// Sprite sheet layout: one row of walk frames per direction.
const (
	FrameWidth  = 33
	FrameHeight = 36
	WalkFrames  = 4
)

var sheetRows = map[character.Direction]float32{
	character.Down:  0,
	character.Left:  36,
	character.Right: 72,
	character.Up:    108,
}

// Controls reports the held movement keys as an axis.
type Controls interface {
	Axis() (dx, dy float32)
}

// Player is a textured rectangle walking in four directions.
type Player struct {
	Base

	rect     *gfx.RectangleShape
	animator *character.Animator
	controls Controls
	area     character.Area

	Speed float32
}

var _ Entity = (*Player)(nil)

// NewPlayer creates a player showing the first down-facing frame of sheet.
// A nil sheet draws an untextured white box.
func NewPlayer(ctx *gfx.Context, sheet *gfx.Texture, controls Controls) (*Player, error) {
	rect, err := gfx.NewRectangle(ctx, mgl32.Vec2{FrameWidth, FrameHeight})
	if err != nil {
		return nil, err
	}
	rect.SetTexture(sheet)

	animator := character.NewAnimator()
	for dir, y := range sheetRows {
		frames := character.Strip(0, y, FrameWidth, FrameHeight, WalkFrames)
		animator.Set(dir, character.NewAnimation(frames, character.DefaultFrameTime))
	}

	p := &Player{
		Base:     NewBase("player"),
		rect:     rect,
		animator: animator,
		controls: controls,
		Speed:    character.DefaultSpeed,
	}
	if frame, ok := animator.Current().Frame(); ok {
		rect.SetTextureRect(frame)
	}
	return p, nil
}

// SetArea limits where the player may walk. Nil removes the limit.
func (p *Player) SetArea(area character.Area) {
	p.area = area
}

// SetPosition places the player.
func (p *Player) SetPosition(pos mgl32.Vec2) {
	p.rect.SetPosition(pos)
}

// Position returns the top-left corner of the player.
func (p *Player) Position() mgl32.Vec2 {
	return p.rect.Position()
}

// Bounds returns the player box.
func (p *Player) Bounds() math.Rect {
	return p.rect.Bounds()
}

// Facing returns the direction of the last walk.
func (p *Player) Facing() character.Direction {
	return p.animator.Facing()
}

// Shape exposes the underlying rectangle.
func (p *Player) Shape() *gfx.RectangleShape {
	return p.rect
}

// Update reads the controls, walks and advances the animation. Standing still
// rewinds the animation to its first frame.
func (p *Player) Update(dt float32) {
	dir := character.None
	if p.controls != nil {
		dir = character.FromAxis(p.controls.Axis())
	}

	frame, changed := p.animator.Update(dir, dt)
	if changed {
		p.rect.SetTextureRect(frame)
	}

	if next, moved := character.Step(p.rect.Position(), dir, p.Speed, dt, p.area); moved {
		p.rect.SetPosition(next)
	}

	if p.animator.Walking() {
		p.state = StateWalking
	} else {
		p.state = StateIdle
	}
}

// Draw draws the current frame.
func (p *Player) Draw(pass gpu.RenderPass) {
	p.rect.Draw(pass)
}

// Destroy releases the GPU buffers. The sheet texture is shared and stays alive.
func (p *Player) Destroy() {
	p.rect.Destroy()
}
