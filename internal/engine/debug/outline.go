package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/quadra/internal/engine/gfx"
	"github.com/Faultbox/quadra/internal/engine/gpu"
	qmath "github.com/Faultbox/quadra/pkg/math"
)

// Outline draws the edges of a rectangle as four thin filled rectangles.
type Outline struct {
	edges     [4]*gfx.RectangleShape
	thickness float32
	bounds    qmath.Rect
	Visible   bool
}

var _ gfx.Drawable = (*Outline)(nil)

// NewOutline creates a visible outline of the given color and edge thickness.
func NewOutline(ctx *gfx.Context, color gfx.Color, thickness float32) (*Outline, error) {
	if thickness <= 0 {
		thickness = 1
	}
	o := &Outline{thickness: thickness, Visible: true}
	for i := range o.edges {
		edge, err := gfx.NewRectangle(ctx, mgl32.Vec2{1, 1})
		if err != nil {
			o.Destroy()
			return nil, err
		}
		edge.SetFillColor(color)
		o.edges[i] = edge
	}
	return o, nil
}

// Bounds returns the outlined rectangle.
func (o *Outline) Bounds() qmath.Rect { return o.bounds }

// SetBounds moves the edges onto r. Unchanged bounds do not touch the GPU.
func (o *Outline) SetBounds(r qmath.Rect) {
	if r == o.bounds {
		return
	}
	o.bounds = r
	t := o.thickness
	place := func(e *gfx.RectangleShape, x, y, w, h float32) {
		e.SetPosition(mgl32.Vec2{x, y})
		e.SetSize(mgl32.Vec2{max(w, t), max(h, t)})
	}
	place(o.edges[0], r.X, r.Y, r.Width, t)
	place(o.edges[1], r.X, r.Y+r.Height-t, r.Width, t)
	place(o.edges[2], r.X, r.Y, t, r.Height)
	place(o.edges[3], r.X+r.Width-t, r.Y, t, r.Height)
}

// Draw records the four edges when visible.
func (o *Outline) Draw(pass gpu.RenderPass) {
	if !o.Visible {
		return
	}
	for _, e := range o.edges {
		e.Draw(pass)
	}
}

// Destroy releases the edge meshes.
func (o *Outline) Destroy() {
	for i, e := range o.edges {
		if e != nil {
			e.Destroy()
			o.edges[i] = nil
		}
	}
}
