// Package camera provides the 2D screen-space projection.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	qmath "github.com/Faultbox/quadra/pkg/math"
)

// Ortho maps pixel coordinates with the origin at the top-left corner and y
// pointing down onto clip space.
func Ortho(width, height float32) mgl32.Mat4 {
	return mgl32.Ortho(0, width, height, 0, -1, 0)
}

// Camera2D pans and zooms the pixel-space view.
type Camera2D struct {
	// World point shown at the top-left corner at zoom 1
	OffsetX, OffsetY float32

	Zoom    float32
	MinZoom float32
	MaxZoom float32

	// Sensitivity
	ZoomSensitivity float32
	PanSpeed        float32 // pixels per second
}

// NewCamera2D returns an identity camera: Projection equals Ortho.
func NewCamera2D() *Camera2D {
	return &Camera2D{
		Zoom:            1.0,
		MinZoom:         0.25,
		MaxZoom:         4.0,
		ZoomSensitivity: 0.1,
		PanSpeed:        300.0,
	}
}

// HandleZoom scales the view by the scroll wheel delta.
func (c *Camera2D) HandleZoom(delta float32) {
	c.Zoom += delta * c.Zoom * c.ZoomSensitivity
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	if c.Zoom > c.MaxZoom {
		c.Zoom = c.MaxZoom
	}
}

// HandleMovement pans by a direction in [-1,1] per axis over dt seconds.
func (c *Camera2D) HandleMovement(dx, dy, dt float32) {
	// Pan speed is in screen pixels regardless of zoom
	speed := c.PanSpeed * dt / c.Zoom
	c.OffsetX += dx * speed
	c.OffsetY += dy * speed
}

// CenterOn places world point (x, y) at the middle of a width x height view.
func (c *Camera2D) CenterOn(x, y, width, height float32) {
	c.OffsetX = x - width/(2*c.Zoom)
	c.OffsetY = y - height/(2*c.Zoom)
}

// ViewMatrix returns scale(Zoom) * translate(-Offset).
func (c *Camera2D) ViewMatrix() mgl32.Mat4 {
	return mgl32.Scale3D(c.Zoom, c.Zoom, 1).Mul4(mgl32.Translate3D(-c.OffsetX, -c.OffsetY, 0))
}

// Projection returns Ortho(width, height) * ViewMatrix().
func (c *Camera2D) Projection(width, height float32) mgl32.Mat4 {
	return Ortho(width, height).Mul4(c.ViewMatrix())
}

// ScreenToWorld converts a pointer position to world coordinates.
func (c *Camera2D) ScreenToWorld(x, y float32) mgl32.Vec2 {
	return qmath.TransformPoint(c.ViewMatrix().Inv(), mgl32.Vec2{x, y})
}
