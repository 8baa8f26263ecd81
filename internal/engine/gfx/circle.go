package gfx

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/quadra/internal/engine/gpu"
)

// CircleShape is a white triangle fan approximating a circle centered on its
// local origin.
type CircleShape struct {
	transformable

	ctx        *Context
	radius     float32
	pointCount int
	vertices   []ShapeVertex
}

var _ Shape = (*CircleShape)(nil)

// NewCircle builds a circle from pointCount perimeter vertices around a center
// vertex. pointCount must be at least 3.
func NewCircle(ctx *Context, radius float32, pointCount int) (*CircleShape, error) {
	if pointCount < 3 || pointCount >= math.MaxUint16 {
		return nil, fmt.Errorf("circle: point count %d out of range [3, %d)", pointCount, math.MaxUint16)
	}

	c := &CircleShape{
		ctx:        ctx,
		radius:     radius,
		pointCount: pointCount,
		vertices:   make([]ShapeVertex, pointCount+1),
	}
	white := White.Vec4()
	for i := range c.vertices {
		c.vertices[i].Color = white
	}
	c.fillPositions(1)

	n := uint16(pointCount)
	indices := make([]uint16, 0, pointCount*3)
	for i := uint16(0); i < n; i++ {
		indices = append(indices, 0, i+1, (i+1)%n+1)
	}

	mesh, err := newMeshFromVertices(ctx, "circle", c.vertices, indices)
	if err != nil {
		return nil, err
	}
	c.transformable = transformable{mesh: mesh, bake: c.update}
	return c, nil
}

// fillPositions places the center at (0,0) and perimeter vertex i at angle
// -2*pi*i/n, scaled.
func (c *CircleShape) fillPositions(scale float32) {
	r := float64(c.radius * scale)
	c.vertices[0].Position = [3]float32{0, 0, 0}
	for i := 0; i < c.pointCount; i++ {
		theta := -2 * math.Pi * float64(i) / float64(c.pointCount)
		c.vertices[i+1].Position = [3]float32{
			float32(r * math.Cos(theta)),
			float32(r * math.Sin(theta)),
			0,
		}
	}
}

// update re-derives the scaled positions and uploads the mirror.
func (c *CircleShape) update() {
	c.fillPositions(c.mesh.Transform.Scale)
	c.mesh.SyncVertices(c.vertices)
}

// Radius returns the unscaled radius.
func (c *CircleShape) Radius() float32 {
	return c.radius
}

// Point returns perimeter point index in the circle's bounding box, whose
// center is (radius, radius). Index 0 is the top and indices advance clockwise
// on screen.
func (c *CircleShape) Point(index int) mgl32.Vec2 {
	angle := float64(index)/float64(c.pointCount)*2*math.Pi - math.Pi/2
	r := float64(c.radius)
	return mgl32.Vec2{
		float32(r + r*math.Cos(angle)),
		float32(r + r*math.Sin(angle)),
	}
}

// PointCount returns the number of perimeter points.
func (c *CircleShape) PointCount() int {
	return c.pointCount
}

// SetFillColor does nothing: circle vertices stay white.
func (c *CircleShape) SetFillColor(Color) {}

// FillColor returns White.
func (c *CircleShape) FillColor() Color {
	return White
}

// Vertices returns a copy of the CPU vertex mirror, center first.
func (c *CircleShape) Vertices() []ShapeVertex {
	return append([]ShapeVertex(nil), c.vertices...)
}

// Draw records the circle into pass.
func (c *CircleShape) Draw(pass gpu.RenderPass) {
	bindTexture(pass, c.ctx, nil)
	DrawMesh(pass, c.mesh)
}
