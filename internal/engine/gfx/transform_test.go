package gfx_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/quadra/internal/engine/gfx"
	qmath "github.com/Faultbox/quadra/pkg/math"
)

func TestModelMatrixOrder(t *testing.T) {
	tests := []struct {
		name  string
		tr    gfx.Transform
		point mgl32.Vec3
		want  mgl32.Vec3
	}{
		{"identity", gfx.NewTransform(), mgl32.Vec3{3, 4, 0}, mgl32.Vec3{3, 4, 0}},
		{"translate", gfx.Transform{Position: mgl32.Vec2{10, 20}, Scale: 1}, mgl32.Vec3{1, 1, 0}, mgl32.Vec3{11, 21, 0}},
		{"rotate 90", gfx.Transform{Rotation: 90, Scale: 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		// origin is subtracted first, then rotation, then translation
		{"pivot", gfx.Transform{Position: mgl32.Vec2{100, 100}, Rotation: 90, Origin: mgl32.Vec2{10, 0}, Scale: 1},
			mgl32.Vec3{10, 0, 0}, mgl32.Vec3{100, 100, 0}},
		{"pivot offset", gfx.Transform{Position: mgl32.Vec2{100, 100}, Rotation: 90, Origin: mgl32.Vec2{10, 0}, Scale: 1},
			mgl32.Vec3{20, 0, 0}, mgl32.Vec3{100, 110, 0}},
		{"rotate 180 about origin", gfx.Transform{Position: mgl32.Vec2{5, 5}, Rotation: 180, Origin: mgl32.Vec2{5, 5}, Scale: 1},
			mgl32.Vec3{0, 0, 0}, mgl32.Vec3{10, 10, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mgl32.TransformCoordinate(tt.point, tt.tr.ModelMatrix())
			// cos(90) is not exactly zero in float32
			if !qmath.Vec2Equal(got.Vec2(), tt.want.Vec2(), 1e-4) || got.Z() != tt.want.Z() {
				t.Errorf("ModelMatrix * %v: got %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

func TestModelMatrixComposition(t *testing.T) {
	tr := gfx.Transform{Position: mgl32.Vec2{7, -3}, Rotation: 33, Origin: mgl32.Vec2{2, 9}, Scale: 1}
	want := mgl32.Translate3D(7, -3, 0).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(33))).
		Mul4(mgl32.Translate3D(-2, -9, 0))
	if !tr.ModelMatrix().ApproxEqual(want) {
		t.Errorf("ModelMatrix: got %v, want %v", tr.ModelMatrix(), want)
	}
}

func TestRotateResetsPast360(t *testing.T) {
	tr := gfx.NewTransform()
	tr.Rotate(350)
	if tr.Rotation != 350 {
		t.Fatalf("Rotation after 350: got %v", tr.Rotation)
	}
	tr.Rotate(20)
	if tr.Rotation != 0 {
		t.Errorf("Rotation after 350+20: got %v, want 0", tr.Rotation)
	}

	tr.Rotate(360)
	if tr.Rotation != 360 {
		t.Errorf("Rotation at exactly 360: got %v, want 360", tr.Rotation)
	}
}

func TestNewTransformDefaults(t *testing.T) {
	tr := gfx.NewTransform()
	if tr.Scale != 1 {
		t.Errorf("Scale: got %v, want 1", tr.Scale)
	}
	if !tr.ModelMatrix().ApproxEqual(mgl32.Ident4()) {
		t.Error("default transform is not identity")
	}
}
