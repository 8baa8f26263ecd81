package character

import "github.com/go-gl/mathgl/mgl32"

// Direction is one of the four walking directions, or None when standing.
type Direction int

const (
	None Direction = iota
	Left
	Down
	Right
	Up
)

var directionNames = [...]string{"none", "left", "down", "right", "up"}

func (d Direction) String() string {
	if d < None || d > Up {
		return "unknown"
	}
	return directionNames[d]
}

// Vector returns the unit step for d in screen space (y grows downward).
func (d Direction) Vector() mgl32.Vec2 {
	switch d {
	case Left:
		return mgl32.Vec2{-1, 0}
	case Down:
		return mgl32.Vec2{0, 1}
	case Right:
		return mgl32.Vec2{1, 0}
	case Up:
		return mgl32.Vec2{0, -1}
	}
	return mgl32.Vec2{}
}

// FromAxis picks the direction of an input axis. Horizontal input wins over
// vertical so diagonal key combinations still face one of the four sheets.
func FromAxis(dx, dy float32) Direction {
	switch {
	case dx < 0:
		return Left
	case dx > 0:
		return Right
	case dy > 0:
		return Down
	case dy < 0:
		return Up
	}
	return None
}
