package gfx

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/quadra/internal/engine/gpu"
	qmath "github.com/Faultbox/quadra/pkg/math"
)

// Sprite draws a region of a shared texture as a quad. The texture is owned
// elsewhere, usually by the asset manager.
type Sprite struct {
	transformable

	ctx         *Context
	texture     *Texture
	vertices    []ShapeVertex
	tint        Color
	textureRect qmath.Rect
}

var _ Transformable = (*Sprite)(nil)
var _ Drawable = (*Sprite)(nil)

// NewSprite builds a sprite covering the whole texture.
func NewSprite(ctx *Context, tex *Texture) (*Sprite, error) {
	s := &Sprite{
		ctx:         ctx,
		texture:     tex,
		vertices:    make([]ShapeVertex, 4),
		tint:        White,
		textureRect: fullRect(tex),
	}
	s.fillVertices(1)

	mesh, err := newMeshFromVertices(ctx, "sprite", s.vertices, quadIndices)
	if err != nil {
		return nil, err
	}
	s.transformable = transformable{mesh: mesh, bake: s.update}
	return s, nil
}

func fullRect(tex *Texture) qmath.Rect {
	return qmath.Rect{Width: float32(tex.Width()), Height: float32(tex.Height())}
}

// fillVertices sizes the quad to the texture rect and writes UVs and tint.
func (s *Sprite) fillVertices(scale float32) {
	tr := s.textureRect
	w, h := tr.Width*scale, tr.Height*scale
	c := s.tint.Vec4()

	s.vertices[0] = ShapeVertex{Position: [3]float32{0, 0, 0}, Color: c, UV: [2]float32{tr.X, tr.Y}}
	s.vertices[1] = ShapeVertex{Position: [3]float32{0, h, 0}, Color: c, UV: [2]float32{tr.X, tr.Y + tr.Height}}
	s.vertices[2] = ShapeVertex{Position: [3]float32{w, h, 0}, Color: c, UV: [2]float32{tr.X + tr.Width, tr.Y + tr.Height}}
	s.vertices[3] = ShapeVertex{Position: [3]float32{w, 0, 0}, Color: c, UV: [2]float32{tr.X + tr.Width, tr.Y}}
}

func (s *Sprite) update() {
	s.fillVertices(s.mesh.Transform.Scale)
	s.mesh.SyncVertices(s.vertices)
}

// SetTexture swaps the sampled texture. With resetRect the texture rect
// becomes the full new texture.
func (s *Sprite) SetTexture(tex *Texture, resetRect bool) {
	s.texture = tex
	if resetRect {
		s.textureRect = fullRect(tex)
		s.update()
	}
}

// Texture returns the shared texture handle.
func (s *Sprite) Texture() *Texture {
	return s.texture
}

// SetTextureRect selects the texel region drawn, e.g. one frame of a sheet.
// The quad is resized to the region.
func (s *Sprite) SetTextureRect(rect qmath.Rect) {
	s.textureRect = rect
	s.update()
}

// TextureRect returns the drawn texel region.
func (s *Sprite) TextureRect() qmath.Rect {
	return s.textureRect
}

// SetColor sets the tint multiplied with the texture.
func (s *Sprite) SetColor(c Color) {
	s.tint = c
	s.update()
}

// Color returns the tint.
func (s *Sprite) Color() Color {
	return s.tint
}

// Bounds returns the texture rect's size at the sprite's position. Like
// RectangleShape.Bounds it ignores origin, scale and rotation.
func (s *Sprite) Bounds() qmath.Rect {
	return qmath.NewRect(s.Position(), mgl32.Vec2{s.textureRect.Width, s.textureRect.Height})
}

// Vertices returns a copy of the CPU vertex mirror.
func (s *Sprite) Vertices() []ShapeVertex {
	return append([]ShapeVertex(nil), s.vertices...)
}

// Draw binds the sprite's texture and records the quad.
func (s *Sprite) Draw(pass gpu.RenderPass) {
	bindTexture(pass, s.ctx, s.texture)
	DrawMesh(pass, s.mesh)
}
