package gfx

import "github.com/go-gl/mathgl/mgl32"

// Transformable is implemented by primitives that can be placed in the scene.
type Transformable interface {
	SetPosition(position mgl32.Vec2)
	Position() mgl32.Vec2
	Move(offset mgl32.Vec2)

	SetRotation(degrees float32)
	Rotation() float32
	Rotate(degrees float32)

	SetScale(scale float32)
	Scale() float32

	SetOrigin(origin mgl32.Vec2)
	Origin() mgl32.Vec2
}

// Shape is a Transformable primitive with fill and point queries.
type Shape interface {
	Transformable
	Drawable

	SetFillColor(c Color)
	FillColor() Color
	Point(index int) mgl32.Vec2
	PointCount() int
}

// transformable implements Transformable over a mesh. Every mutator ends with
// Mesh.SyncTransform. Position, scale and origin changes also call bake, which
// recomputes and uploads the owner's vertex mirror; rotation lives only in the
// model matrix.
type transformable struct {
	mesh *Mesh
	bake func()
}

func (t *transformable) SetPosition(position mgl32.Vec2) {
	t.mesh.Transform.Position = position
	t.bake()
	t.mesh.SyncTransform()
}

func (t *transformable) Position() mgl32.Vec2 {
	return t.mesh.Transform.Position
}

func (t *transformable) Move(offset mgl32.Vec2) {
	t.mesh.Transform.Position = t.mesh.Transform.Position.Add(offset)
	t.bake()
	t.mesh.SyncTransform()
}

func (t *transformable) SetRotation(degrees float32) {
	t.mesh.Transform.Rotation = degrees
	t.mesh.SyncTransform()
}

func (t *transformable) Rotation() float32 {
	return t.mesh.Transform.Rotation
}

func (t *transformable) Rotate(degrees float32) {
	t.mesh.Transform.Rotate(degrees)
	t.mesh.SyncTransform()
}

func (t *transformable) SetScale(scale float32) {
	t.mesh.Transform.Scale = scale
	t.bake()
	t.mesh.SyncTransform()
}

func (t *transformable) Scale() float32 {
	return t.mesh.Transform.Scale
}

func (t *transformable) SetOrigin(origin mgl32.Vec2) {
	t.mesh.Transform.Origin = origin
	t.bake()
	t.mesh.SyncTransform()
}

func (t *transformable) Origin() mgl32.Vec2 {
	return t.mesh.Transform.Origin
}

// Mesh returns the primitive's mesh.
func (t *transformable) Mesh() *Mesh {
	return t.mesh
}

// Destroy releases the primitive's GPU resources.
func (t *transformable) Destroy() {
	t.mesh.Destroy()
}
