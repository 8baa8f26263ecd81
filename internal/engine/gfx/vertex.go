package gfx

import (
	"encoding/binary"
	"math"

	"github.com/Faultbox/quadra/internal/engine/gpu"
	"github.com/Faultbox/quadra/internal/engine/shader"
)

// ShapeVertex is the vertex record of the sprite2d pipeline.
// UV is in texels; the shader divides it by the bound texture's size.
type ShapeVertex struct {
	Position [3]float32
	Color    [4]float32
	UV       [2]float32
}

// VertexStride is the encoded size of one ShapeVertex.
const VertexStride = 36

// VertexLayout describes ShapeVertex for pipeline creation.
func VertexLayout() gpu.VertexLayout {
	return gpu.VertexLayout{
		Stride: VertexStride,
		Attributes: []gpu.VertexAttribute{
			{Format: gpu.Float32x3, Offset: 0, ShaderLocation: shader.LocPosition, Name: shader.AttrPosition},
			{Format: gpu.Float32x4, Offset: 12, ShaderLocation: shader.LocColor, Name: shader.AttrColor},
			{Format: gpu.Float32x2, Offset: 28, ShaderLocation: shader.LocUV, Name: shader.AttrUV},
		},
	}
}

// EncodeVertices packs vertices little-endian in VertexLayout order.
func EncodeVertices(vs []ShapeVertex) []byte {
	out := make([]byte, 0, len(vs)*VertexStride)
	put := func(f float32) {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(f))
	}
	for _, v := range vs {
		for _, f := range v.Position {
			put(f)
		}
		for _, f := range v.Color {
			put(f)
		}
		for _, f := range v.UV {
			put(f)
		}
	}
	return out
}

// DecodeVertices unpacks a buffer written by EncodeVertices.
func DecodeVertices(data []byte) []ShapeVertex {
	n := len(data) / VertexStride
	out := make([]ShapeVertex, n)
	get := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	}
	for i := range out {
		base := i * VertexStride
		v := &out[i]
		for j := range v.Position {
			v.Position[j] = get(base + j*4)
		}
		for j := range v.Color {
			v.Color[j] = get(base + 12 + j*4)
		}
		for j := range v.UV {
			v.UV[j] = get(base + 28 + j*4)
		}
	}
	return out
}

// encodeIndices packs 16-bit indices little-endian.
func encodeIndices(idx []uint16) []byte {
	out := make([]byte, 0, len(idx)*2)
	for _, i := range idx {
		out = binary.LittleEndian.AppendUint16(out, i)
	}
	return out
}
