// Package shader provides the embedded sources of the 2D sprite program and
// the resource names shared by every backend that runs it.
package shader

import (
	_ "embed"

	"github.com/Faultbox/quadra/internal/engine/gpu"
)

// Resource names. Bind group layout entries carry these so backends without
// numeric bindings (OpenGL, the software rasterizer) can resolve them.
const (
	Mouse       = "mouse"
	Resolution  = "resolution"
	Projection  = "projection"
	Model       = "model"
	Texture     = "tex"
	Sampler     = "samp"
	TextureSize = "tex_size"
)

// Vertex attribute names and locations.
const (
	AttrPosition = "a_position"
	AttrColor    = "a_color"
	AttrUV       = "a_uv"

	LocPosition = 0
	LocColor    = 1
	LocUV       = 2
)

//go:embed sprite2d.wgsl
var sprite2DWGSL string

//go:embed sprite2d.vert
var sprite2DVertex string

//go:embed sprite2d.frag
var sprite2DFragment string

// Sprite2D returns the program used for shapes and sprites.
func Sprite2D() gpu.ShaderSource {
	return gpu.ShaderSource{
		Name:         "sprite2d",
		WGSL:         sprite2DWGSL,
		GLSLVertex:   sprite2DVertex,
		GLSLFragment: sprite2DFragment,
	}
}
