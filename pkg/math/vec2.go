// Package math provides small geometry helpers on top of mgl32 for 2D rendering.
package math

import "github.com/go-gl/mathgl/mgl32"

// Vec2Equal reports whether a and b are equal within eps per component.
func Vec2Equal(a, b mgl32.Vec2, eps float32) bool {
	return mgl32.FloatEqualThreshold(a[0], b[0], eps) && mgl32.FloatEqualThreshold(a[1], b[1], eps)
}

// TransformPoint applies m to the 2D point p (z=0, w=1).
func TransformPoint(m mgl32.Mat4, p mgl32.Vec2) mgl32.Vec2 {
	r := m.Mul4x1(mgl32.Vec4{p[0], p[1], 0, 1})
	return mgl32.Vec2{r[0], r[1]}
}
