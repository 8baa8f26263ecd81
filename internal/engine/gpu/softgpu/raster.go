package softgpu

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/quadra/internal/engine/gpu"
	"github.com/Faultbox/quadra/internal/engine/shader"
)

// vertex is one shaded vertex in screen space.
type vertex struct {
	x, y  float32
	color [4]float32
	uv    [2]float32
}

// rasterize runs the sprite2d program over a range of indexed triangles:
// clip = projection * model * position, color = vertex color * texel(uv / tex_size).
func (p *Pass) rasterize(indexCount, firstIndex uint32, baseVertex int32) {
	projection := p.uniformMat4(shader.Projection)
	model := p.uniformMat4(shader.Model)
	mvp := projection.Mul4(model)

	tex, texSize := p.boundTexture()

	vdata := p.vertices.Bytes()
	idata := p.indices.Bytes()
	layout := p.pipeline.desc.Vertex

	bounds := p.target.Bounds()
	w, h := float32(bounds.Dx()), float32(bounds.Dy())

	fetch := func(i uint32) vertex {
		var idx int64
		if p.indexFormat == gpu.IndexUint32 {
			idx = int64(binary.LittleEndian.Uint32(idata[i*4:]))
		} else {
			idx = int64(binary.LittleEndian.Uint16(idata[i*2:]))
		}
		idx += int64(baseVertex)

		base := uint64(idx) * layout.Stride
		pos := readAttr(vdata, base, layout, shader.LocPosition, [4]float32{0, 0, 0, 1})
		col := readAttr(vdata, base, layout, shader.LocColor, [4]float32{1, 1, 1, 1})
		uv := readAttr(vdata, base, layout, shader.LocUV, [4]float32{})

		clip := mvp.Mul4x1(mgl32.Vec4{pos[0], pos[1], pos[2], 1})
		if clip[3] != 0 {
			clip = clip.Mul(1 / clip[3])
		}
		return vertex{
			x:     (clip[0] + 1) / 2 * w,
			y:     (1 - clip[1]) / 2 * h,
			color: col,
			uv:    [2]float32{uv[0] / texSize[0], uv[1] / texSize[1]},
		}
	}

	for i := firstIndex; i+2 < firstIndex+indexCount; i += 3 {
		p.fillTriangle(fetch(i), fetch(i+1), fetch(i+2), tex)
	}
}

// readAttr decodes the attribute at location loc, filling missing components from def.
func readAttr(data []byte, base uint64, layout gpu.VertexLayout, loc uint32, def [4]float32) [4]float32 {
	for _, a := range layout.Attributes {
		if a.ShaderLocation != loc {
			continue
		}
		out := def
		for c := 0; c < a.Format.Components(); c++ {
			off := base + a.Offset + uint64(c)*4
			out[c] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		}
		return out
	}
	return def
}

// uniformMat4 finds a bound uniform buffer by name; identity when absent.
func (p *Pass) uniformMat4(name string) mgl32.Mat4 {
	for _, g := range p.groups {
		e, ok := g.named(name)
		if !ok || e.Buffer == nil {
			continue
		}
		data := mustBuffer(e.Buffer).Bytes()
		if len(data) < 64 {
			continue
		}
		var m mgl32.Mat4
		for i := range m {
			m[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		}
		return m
	}
	return mgl32.Ident4()
}

// boundTexture returns the bound texture and its size uniform. With no texture
// bound it returns nil and a unit size, which samples as opaque white.
func (p *Pass) boundTexture() (*Texture, [2]float32) {
	size := [2]float32{1, 1}
	var tex *Texture
	for _, g := range p.groups {
		if e, ok := g.named(shader.Texture); ok && e.View != nil {
			if v, ok := e.View.(*TextureView); ok {
				tex = v.tex
				size = [2]float32{float32(tex.width), float32(tex.height)}
			}
		}
		if e, ok := g.named(shader.TextureSize); ok && e.Buffer != nil {
			data := mustBuffer(e.Buffer).Bytes()
			if len(data) >= 8 {
				sx := math.Float32frombits(binary.LittleEndian.Uint32(data[0:]))
				sy := math.Float32frombits(binary.LittleEndian.Uint32(data[4:]))
				if sx != 0 && sy != 0 {
					size = [2]float32{sx, sy}
				}
			}
		}
	}
	return tex, size
}

// fillTriangle scan-converts one triangle with pixel-center sampling and
// source-over blending. Both windings are filled.
func (p *Pass) fillTriangle(a, b, c vertex, tex *Texture) {
	area := edge(a.x, a.y, b.x, b.y, c.x, c.y)
	if area == 0 {
		return
	}

	bounds := p.target.Bounds()
	minX := clampInt(int(floor32(min3(a.x, b.x, c.x))), bounds.Min.X, bounds.Max.X-1)
	maxX := clampInt(int(ceil32(max3(a.x, b.x, c.x))), bounds.Min.X, bounds.Max.X-1)
	minY := clampInt(int(floor32(min3(a.y, b.y, c.y))), bounds.Min.Y, bounds.Max.Y-1)
	maxY := clampInt(int(ceil32(max3(a.y, b.y, c.y))), bounds.Min.Y, bounds.Max.Y-1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float32(x)+0.5, float32(y)+0.5
			w0 := edge(b.x, b.y, c.x, c.y, px, py) / area
			w1 := edge(c.x, c.y, a.x, a.y, px, py) / area
			w2 := edge(a.x, a.y, b.x, b.y, px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			var col [4]float32
			for i := range col {
				col[i] = a.color[i]*w0 + b.color[i]*w1 + c.color[i]*w2
			}
			if tex != nil {
				u := a.uv[0]*w0 + b.uv[0]*w1 + c.uv[0]*w2
				v := a.uv[1]*w0 + b.uv[1]*w1 + c.uv[1]*w2
				t := tex.texel(int(floor32(u*float32(tex.width))), int(floor32(v*float32(tex.height))))
				for i := range col {
					col[i] *= t[i]
				}
			}
			p.blend(x, y, col)
		}
	}
}

func (p *Pass) blend(x, y int, src [4]float32) {
	i := p.target.PixOffset(x, y)
	pix := p.target.Pix[i : i+4 : i+4]
	a := clamp01(src[3])
	for c := 0; c < 3; c++ {
		dst := float32(pix[c]) / 255
		pix[c] = toByte(clamp01(src[c])*a + dst*(1-a))
	}
	dstA := float32(pix[3]) / 255
	pix[3] = toByte(a + dstA*(1-a))
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func toByte(v float32) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func floor32(v float32) float32 { return float32(math.Floor(float64(v))) }
func ceil32(v float32) float32  { return float32(math.Ceil(float64(v))) }

func min3(a, b, c float32) float32 { return min(a, min(b, c)) }
func max3(a, b, c float32) float32 { return max(a, max(b, c)) }
