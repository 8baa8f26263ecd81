package gfx

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform is the placement of a primitive: position, rotation in degrees,
// uniform scale, and the origin (pivot) subtracted before rotating.
type Transform struct {
	Position mgl32.Vec2
	Rotation float32
	Scale    float32
	Origin   mgl32.Vec2
}

// NewTransform returns the identity placement.
func NewTransform() Transform {
	return Transform{Scale: 1}
}

// ModelMatrix returns translate(Position) * rotateZ(Rotation) * translate(-Origin).
// It is rebuilt from the fields on every call.
func (t Transform) ModelMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position[0], t.Position[1], 0).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(t.Rotation))).
		Mul4(mgl32.Translate3D(-t.Origin[0], -t.Origin[1], 0))
}

// Rotate adds delta degrees. A result above 360 resets the rotation to 0.
func (t *Transform) Rotate(delta float32) {
	if t.Rotation+delta > 360 {
		t.Rotation = 0
		return
	}
	t.Rotation += delta
}

// matrixBytes encodes m column-major as 16 little-endian float32 values.
func matrixBytes(m mgl32.Mat4) []byte {
	out := make([]byte, 0, 64)
	for _, v := range m {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

// vec2Bytes encodes v as two little-endian float32 values.
func vec2Bytes(v mgl32.Vec2) []byte {
	out := make([]byte, 0, 8)
	out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v[0]))
	return binary.LittleEndian.AppendUint32(out, math.Float32bits(v[1]))
}

// DecodeMatrix reads a matrix written by the mesh uniform upload.
func DecodeMatrix(data []byte) mgl32.Mat4 {
	var m mgl32.Mat4
	for i := range m {
		m[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return m
}
