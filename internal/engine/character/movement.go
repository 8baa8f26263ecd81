package character

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/quadra/pkg/math"
)

// DefaultSpeed is the walking speed in pixels per second.
const DefaultSpeed = 200.0

// Area limits where a character may walk. math.Rect satisfies it.
type Area interface {
	Contains(p mgl32.Vec2) bool
}

// Step moves pos in direction dir for dt seconds at speed pixels per second.
// When area is non-nil and the new position falls outside it, pos is
// returned unchanged and moved is false.
func Step(pos mgl32.Vec2, dir Direction, speed, dt float32, area Area) (next mgl32.Vec2, moved bool) {
	if dir == None || dt <= 0 {
		return pos, false
	}
	next = pos.Add(dir.Vector().Mul(speed * dt))
	if area != nil && !area.Contains(next) {
		return pos, false
	}
	return next, true
}

// Clamp keeps a w×h box at pos inside bounds.
func Clamp(pos mgl32.Vec2, w, h float32, bounds math.Rect) mgl32.Vec2 {
	maxX := bounds.X + bounds.Width - w
	maxY := bounds.Y + bounds.Height - h
	pos[0] = mgl32.Clamp(pos[0], bounds.X, max(bounds.X, maxX))
	pos[1] = mgl32.Clamp(pos[1], bounds.Y, max(bounds.Y, maxY))
	return pos
}
