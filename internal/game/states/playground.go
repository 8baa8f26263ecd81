// Package states implements the scenes of the demo.
package states

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/quadra/internal/assets"
	"github.com/Faultbox/quadra/internal/engine/debug"
	"github.com/Faultbox/quadra/internal/engine/gfx"
	"github.com/Faultbox/quadra/internal/engine/gpu"
	"github.com/Faultbox/quadra/internal/engine/input"
	"github.com/Faultbox/quadra/internal/engine/scene"
	"github.com/Faultbox/quadra/internal/game/entity"
	"github.com/Faultbox/quadra/pkg/math"
)

// PlaygroundConfig contains configuration for the playground scene.
type PlaygroundConfig struct {
	Width       int
	Height      int
	PlayerSheet string // asset path of the walk sprite sheet
}

// Playground shows a walking player next to a spinning rectangle and a circle.
type Playground struct {
	config PlaygroundConfig
	ctx    *gfx.Context
	assets *assets.Manager
	input  *input.Input
	scenes *scene.Manager
	log    *zap.Logger

	player  *entity.Player
	box     *gfx.RectangleShape
	ball    *gfx.CircleShape
	outline *debug.Outline
}

var _ scene.Scene = (*Playground)(nil)

// NewPlayground creates the scene. Resources are created on Enter.
func NewPlayground(cfg PlaygroundConfig, ctx *gfx.Context, am *assets.Manager, in *input.Input, scenes *scene.Manager) *Playground {
	return &Playground{
		config: cfg,
		ctx:    ctx,
		assets: am,
		input:  in,
		scenes: scenes,
		log:    ctx.Logger().Named("playground"),
	}
}

// Enter loads the sprite sheet and builds the shapes.
func (s *Playground) Enter() error {
	s.log.Info("entering playground", zap.String("sheet", s.config.PlayerSheet))

	sheet, err := s.assets.LoadTexture(s.config.PlayerSheet)
	switch {
	case errors.Is(err, assets.ErrNotFound):
		s.log.Warn("player sheet missing, drawing placeholder", zap.String("sheet", s.config.PlayerSheet))
		sheet = s.ctx.Placeholder()
	case err != nil:
		return fmt.Errorf("load player sheet: %w", err)
	}

	if s.player, err = entity.NewPlayer(s.ctx, sheet, s.input); err != nil {
		return err
	}
	s.player.SetPosition(mgl32.Vec2{
		(float32(s.config.Width) - entity.FrameWidth) / 2,
		(float32(s.config.Height) - entity.FrameHeight) / 2,
	})
	s.resize(s.config.Width, s.config.Height)

	if s.box, err = gfx.NewRectangle(s.ctx, mgl32.Vec2{120, 80}); err != nil {
		s.destroy()
		return err
	}
	s.box.SetFillColor(gfx.RGB(70, 130, 180))
	s.box.SetOrigin(mgl32.Vec2{60, 40})
	s.box.SetPosition(mgl32.Vec2{160, 140})

	if s.ball, err = gfx.NewCircle(s.ctx, 40, 30); err != nil {
		s.destroy()
		return err
	}
	s.ball.SetPosition(mgl32.Vec2{float32(s.config.Width) - 140, 100})

	if s.outline, err = debug.NewOutline(s.ctx, gfx.Green, 1); err != nil {
		s.destroy()
		return err
	}
	s.outline.Visible = false
	return nil
}

// Exit releases the scene's meshes. The sprite sheet stays in the asset cache.
func (s *Playground) Exit() error {
	s.log.Info("leaving playground")
	s.destroy()
	return nil
}

func (s *Playground) destroy() {
	if s.player != nil {
		s.player.Destroy()
		s.player = nil
	}
	if s.box != nil {
		s.box.Destroy()
		s.box = nil
	}
	if s.ball != nil {
		s.ball.Destroy()
		s.ball = nil
	}
	if s.outline != nil {
		s.outline.Destroy()
		s.outline = nil
	}
}

// Player returns the player entity, or nil outside Enter/Exit.
func (s *Playground) Player() *entity.Player { return s.player }

// Outline returns the player's debug outline.
func (s *Playground) Outline() *debug.Outline { return s.outline }

// Update moves the player and spins the rectangle at 45 degrees per second.
func (s *Playground) Update(dt float32) error {
	s.player.Update(dt)
	s.box.Rotate(45 * dt)
	s.outline.SetBounds(s.player.Bounds())
	return nil
}

// HandleEvent toggles the outline on Space, pauses on Return and tracks
// window resizes.
func (s *Playground) HandleEvent(e input.Event) bool {
	switch e.Type {
	case input.EventWindowResize:
		s.resize(e.Width, e.Height)
		return false
	case input.EventKeyDown:
		if e.Repeat {
			return false
		}
		switch e.Key {
		case input.KeySpace:
			s.outline.Visible = !s.outline.Visible
			return true
		case input.KeyReturn:
			s.scenes.Push(NewPause(s.ctx, s.scenes, s.config.Width, s.config.Height))
			return true
		}
	}
	return false
}

// resize keeps the whole player box inside the window.
func (s *Playground) resize(width, height int) {
	s.config.Width, s.config.Height = width, height
	if s.player == nil {
		return
	}
	s.player.SetArea(math.Rect{
		Width:  max(1, float32(width)-entity.FrameWidth+1),
		Height: max(1, float32(height)-entity.FrameHeight+1),
	})
}

// Draw records the shapes, then the player on top.
func (s *Playground) Draw(pass gpu.RenderPass) {
	s.box.Draw(pass)
	s.ball.Draw(pass)
	s.player.Draw(pass)
	s.outline.Draw(pass)
}
