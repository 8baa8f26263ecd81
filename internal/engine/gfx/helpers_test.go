package gfx_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/quadra/internal/engine/gfx"
	"github.com/Faultbox/quadra/internal/engine/gpu"
	"github.com/Faultbox/quadra/internal/engine/gpu/softgpu"
)

func newTestContext(t *testing.T) (*gfx.Context, *softgpu.Device) {
	t.Helper()
	dev := softgpu.New()
	ctx := gfx.NewContext(dev, dev.Queue(), gfxSurface, nil)
	if err := gfx.Setup(ctx); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	return ctx, dev
}

func bufferBytes(t *testing.T, b gpu.Buffer) []byte {
	t.Helper()
	sb, ok := b.(*softgpu.Buffer)
	if !ok {
		t.Fatalf("buffer %T is not a softgpu buffer", b)
	}
	return sb.Bytes()
}

func uniformMatrix(t *testing.T, m *gfx.Mesh) mgl32.Mat4 {
	t.Helper()
	return gfx.DecodeMatrix(bufferBytes(t, m.UniformBuffer()))
}

func gpuVertices(t *testing.T, m *gfx.Mesh) []gfx.ShapeVertex {
	t.Helper()
	return gfx.DecodeVertices(bufferBytes(t, m.VertexBuffer()))
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func vertsEqual(a, b []gfx.ShapeVertex) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var (
	colorOpaque = color.RGBA{R: 10, G: 200, B: 30, A: 255}
	gfxSurface  = gpu.SurfaceConfig{Width: 64, Height: 64}
)
