package states

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/quadra/internal/engine/gfx"
	"github.com/Faultbox/quadra/internal/engine/gpu"
	"github.com/Faultbox/quadra/internal/engine/input"
	"github.com/Faultbox/quadra/internal/engine/scene"
)

// Pause dims the scenes below it and swallows key presses until Return.
type Pause struct {
	ctx    *gfx.Context
	scenes *scene.Manager
	size   mgl32.Vec2
	shade  *gfx.RectangleShape
}

var _ scene.Scene = (*Pause)(nil)

// NewPause creates a pause overlay covering a width×height window.
func NewPause(ctx *gfx.Context, scenes *scene.Manager, width, height int) *Pause {
	return &Pause{ctx: ctx, scenes: scenes, size: mgl32.Vec2{float32(width), float32(height)}}
}

func (p *Pause) Enter() error {
	shade, err := gfx.NewRectangle(p.ctx, p.size)
	if err != nil {
		return err
	}
	shade.SetFillColor(gfx.Black.WithAlpha(0.5))
	p.shade = shade
	return nil
}

func (p *Pause) Exit() error {
	if p.shade != nil {
		p.shade.Destroy()
		p.shade = nil
	}
	return nil
}

func (p *Pause) Update(float32) error { return nil }

// HandleEvent resumes on Return. Other keys are consumed; resizes pass through.
func (p *Pause) HandleEvent(e input.Event) bool {
	switch e.Type {
	case input.EventWindowResize:
		p.size = mgl32.Vec2{float32(e.Width), float32(e.Height)}
		if p.shade != nil {
			p.shade.SetSize(p.size)
		}
		return false
	case input.EventKeyDown:
		if e.Key == input.KeyReturn && !e.Repeat {
			p.scenes.Pop()
		}
		return e.Key != input.KeyEscape
	}
	return false
}

func (p *Pause) Draw(pass gpu.RenderPass) {
	p.shade.Draw(pass)
}
