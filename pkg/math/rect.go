package math

import "github.com/go-gl/mathgl/mgl32"

// Rect is an axis-aligned rectangle in pixel space.
// It frames sprite-sheet cells and reports shape bounds.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// NewRect builds a rect from a position and a size.
func NewRect(pos, size mgl32.Vec2) Rect {
	return Rect{X: pos[0], Y: pos[1], Width: size[0], Height: size[1]}
}

// Position returns the top-left corner.
func (r Rect) Position() mgl32.Vec2 {
	return mgl32.Vec2{r.X, r.Y}
}

// Size returns width and height as a vector.
func (r Rect) Size() mgl32.Vec2 {
	return mgl32.Vec2{r.Width, r.Height}
}

// Contains reports whether p lies inside r. The left and top edges are
// inclusive, the right and bottom edges exclusive.
func (r Rect) Contains(p mgl32.Vec2) bool {
	return p[0] >= r.X && p[0] < r.X+r.Width &&
		p[1] >= r.Y && p[1] < r.Y+r.Height
}

// Intersects reports whether r and o overlap with a non-empty area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}
