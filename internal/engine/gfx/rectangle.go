package gfx

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/quadra/internal/engine/gpu"
	qmath "github.com/Faultbox/quadra/pkg/math"
)

var quadIndices = []uint16{0, 1, 3, 1, 2, 3}

// RectangleShape is an axis-aligned quad of a given size with a fill color
// and an optional texture.
type RectangleShape struct {
	transformable

	ctx         *Context
	size        mgl32.Vec2
	vertices    []ShapeVertex
	color       Color
	textureRect qmath.Rect
	texture     *Texture
}

var _ Shape = (*RectangleShape)(nil)

// NewRectangle builds a white rectangle with its top-left corner at the origin.
func NewRectangle(ctx *Context, size mgl32.Vec2) (*RectangleShape, error) {
	r := &RectangleShape{
		ctx:         ctx,
		size:        size,
		color:       White,
		vertices:    make([]ShapeVertex, 4),
		textureRect: qmath.Rect{Width: size[0], Height: size[1]},
	}
	r.fillVertices(1)
	r.applyTextureRect()

	mesh, err := newMeshFromVertices(ctx, "rectangle", r.vertices, quadIndices)
	if err != nil {
		return nil, err
	}
	r.transformable = transformable{mesh: mesh, bake: r.update}
	return r, nil
}

// fillVertices writes scaled corner positions and the fill color into the mirror.
func (r *RectangleShape) fillVertices(scale float32) {
	c := r.color.Vec4()
	for i := range r.vertices {
		p := r.Point(i).Mul(scale)
		r.vertices[i].Position = [3]float32{p[0], p[1], 0}
		r.vertices[i].Color = c
	}
}

// applyTextureRect writes the texture rect corners as UVs, in point order.
func (r *RectangleShape) applyTextureRect() {
	tr := r.textureRect
	r.vertices[0].UV = [2]float32{tr.X, tr.Y}
	r.vertices[1].UV = [2]float32{tr.X, tr.Y + tr.Height}
	r.vertices[2].UV = [2]float32{tr.X + tr.Width, tr.Y + tr.Height}
	r.vertices[3].UV = [2]float32{tr.X + tr.Width, tr.Y}
}

// update recomputes the vertex mirror and uploads it.
func (r *RectangleShape) update() {
	r.fillVertices(r.mesh.Transform.Scale)
	r.mesh.SyncVertices(r.vertices)
}

// Size returns the unscaled size.
func (r *RectangleShape) Size() mgl32.Vec2 {
	return r.size
}

// SetSize resizes the quad and uploads the new corners. The texture rect is
// left as is.
func (r *RectangleShape) SetSize(size mgl32.Vec2) {
	r.size = size
	r.update()
}

// Bounds returns the rectangle at its position. The origin does not shift it.
func (r *RectangleShape) Bounds() qmath.Rect {
	return qmath.NewRect(r.Position(), r.size)
}

// Point returns corner index: 0=(0,0), 1=(0,h), 2=(w,h), 3=(w,0).
func (r *RectangleShape) Point(index int) mgl32.Vec2 {
	switch index {
	case 1:
		return mgl32.Vec2{0, r.size[1]}
	case 2:
		return r.size
	case 3:
		return mgl32.Vec2{r.size[0], 0}
	default:
		return mgl32.Vec2{0, 0}
	}
}

// PointCount returns 4.
func (r *RectangleShape) PointCount() int {
	return len(r.vertices)
}

// SetFillColor colors every vertex and uploads the mirror.
func (r *RectangleShape) SetFillColor(c Color) {
	r.color = c
	r.update()
}

// FillColor returns the fill color.
func (r *RectangleShape) FillColor() Color {
	return r.color
}

// SetTextureRect sets the texel region mapped onto the rectangle.
func (r *RectangleShape) SetTextureRect(rect qmath.Rect) {
	r.textureRect = rect
	r.applyTextureRect()
	r.mesh.SyncVertices(r.vertices)
}

// TextureRect returns the mapped texel region.
func (r *RectangleShape) TextureRect() qmath.Rect {
	return r.textureRect
}

// SetTexture sets the texture sampled by the fill. Nil draws the flat color.
func (r *RectangleShape) SetTexture(tex *Texture) {
	r.texture = tex
}

// Texture returns the texture, or nil.
func (r *RectangleShape) Texture() *Texture {
	return r.texture
}

// Vertices returns a copy of the CPU vertex mirror.
func (r *RectangleShape) Vertices() []ShapeVertex {
	return append([]ShapeVertex(nil), r.vertices...)
}

// Draw records the rectangle into pass.
func (r *RectangleShape) Draw(pass gpu.RenderPass) {
	bindTexture(pass, r.ctx, r.texture)
	DrawMesh(pass, r.mesh)
}
