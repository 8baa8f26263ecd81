package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	qmath "github.com/Faultbox/quadra/pkg/math"
)

func TestOrthoCorners(t *testing.T) {
	p := Ortho(800, 600)
	tests := []struct {
		in   mgl32.Vec4
		want mgl32.Vec2
	}{
		{mgl32.Vec4{0, 0, 0, 1}, mgl32.Vec2{-1, 1}},
		{mgl32.Vec4{800, 600, 0, 1}, mgl32.Vec2{1, -1}},
		{mgl32.Vec4{400, 300, 0, 1}, mgl32.Vec2{0, 0}},
	}
	for _, tt := range tests {
		got := p.Mul4x1(tt.in)
		if !mgl32.FloatEqualThreshold(got[0], tt.want[0], 1e-5) || !mgl32.FloatEqualThreshold(got[1], tt.want[1], 1e-5) {
			t.Errorf("Ortho * %v: got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIdentityCameraMatchesOrtho(t *testing.T) {
	c := NewCamera2D()
	if !c.Projection(640, 480).ApproxEqual(Ortho(640, 480)) {
		t.Error("default camera projection differs from Ortho")
	}
}

func TestZoomClamp(t *testing.T) {
	c := NewCamera2D()
	for i := 0; i < 100; i++ {
		c.HandleZoom(1)
	}
	if c.Zoom != c.MaxZoom {
		t.Errorf("Zoom: got %v, want %v", c.Zoom, c.MaxZoom)
	}
	for i := 0; i < 100; i++ {
		c.HandleZoom(-1)
	}
	if c.Zoom != c.MinZoom {
		t.Errorf("Zoom: got %v, want %v", c.Zoom, c.MinZoom)
	}
}

func TestScreenToWorld(t *testing.T) {
	c := NewCamera2D()
	c.Zoom = 2
	c.CenterOn(100, 100, 200, 200)

	got := c.ScreenToWorld(100, 100)
	if !qmath.Vec2Equal(got, mgl32.Vec2{100, 100}, 1e-4) {
		t.Errorf("ScreenToWorld(center): got %v, want (100,100)", got)
	}
	if got := c.ScreenToWorld(0, 0); !qmath.Vec2Equal(got, mgl32.Vec2{50, 50}, 1e-4) {
		t.Errorf("ScreenToWorld(corner): got %v, want (50,50)", got)
	}
}
