package gfx_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/quadra/internal/engine/gfx"
	qmath "github.com/Faultbox/quadra/pkg/math"
)

func TestSpriteSizedToTexture(t *testing.T) {
	ctx, _ := newTestContext(t)
	tex, err := gfx.NewTextureFromImage(ctx, solidImage(33, 36, colorOpaque), "player")
	if err != nil {
		t.Fatalf("NewTextureFromImage: %v", err)
	}
	s, err := gfx.NewSprite(ctx, tex)
	if err != nil {
		t.Fatalf("NewSprite: %v", err)
	}

	vs := s.Vertices()
	if vs[2].Position != [3]float32{33, 36, 0} {
		t.Errorf("far corner: got %v, want (33,36,0)", vs[2].Position)
	}
	if vs[2].UV != [2]float32{33, 36} {
		t.Errorf("far corner UV: got %v, want (33,36)", vs[2].UV)
	}
	if s.Texture() != tex {
		t.Error("Texture: handle not shared")
	}
}

func TestSpriteTextureRect(t *testing.T) {
	ctx, _ := newTestContext(t)
	tex, err := gfx.NewTextureFromImage(ctx, solidImage(132, 144, colorOpaque), "sheet")
	if err != nil {
		t.Fatalf("NewTextureFromImage: %v", err)
	}
	s, err := gfx.NewSprite(ctx, tex)
	if err != nil {
		t.Fatalf("NewSprite: %v", err)
	}

	s.SetTextureRect(qmath.Rect{X: 33, Y: 72, Width: 33, Height: 36})

	vs := s.Vertices()
	wantUV := [][2]float32{{33, 72}, {33, 108}, {66, 108}, {66, 72}}
	wantPos := [][3]float32{{0, 0, 0}, {0, 36, 0}, {33, 36, 0}, {33, 0, 0}}
	for i := range vs {
		if vs[i].UV != wantUV[i] {
			t.Errorf("vertex %d UV: got %v, want %v", i, vs[i].UV, wantUV[i])
		}
		if vs[i].Position != wantPos[i] {
			t.Errorf("vertex %d position: got %v, want %v", i, vs[i].Position, wantPos[i])
		}
	}
	if got := gpuVertices(t, s.Mesh()); !vertsEqual(got, vs) {
		t.Error("GPU vertices differ from mirror")
	}
}

func TestSpriteTintAndBounds(t *testing.T) {
	ctx, _ := newTestContext(t)
	tex, err := gfx.NewTextureFromImage(ctx, solidImage(10, 20, colorOpaque), "")
	if err != nil {
		t.Fatalf("NewTextureFromImage: %v", err)
	}
	s, err := gfx.NewSprite(ctx, tex)
	if err != nil {
		t.Fatalf("NewSprite: %v", err)
	}

	s.SetColor(gfx.Red.WithAlpha(0.5))
	for i, v := range gpuVertices(t, s.Mesh()) {
		if v.Color != [4]float32{1, 0, 0, 0.5} {
			t.Errorf("vertex %d color: got %v", i, v.Color)
		}
	}

	s.SetPosition(mgl32.Vec2{100, 50})
	s.SetOrigin(mgl32.Vec2{5, 10})
	s.SetScale(2)
	want := qmath.Rect{X: 100, Y: 50, Width: 10, Height: 20}
	if got := s.Bounds(); got != want {
		t.Errorf("Bounds: got %v, want %v", got, want)
	}
}

func TestSpriteSetTextureReset(t *testing.T) {
	ctx, _ := newTestContext(t)
	a, _ := gfx.NewTextureFromImage(ctx, solidImage(4, 4, colorOpaque), "a")
	b, _ := gfx.NewTextureFromImage(ctx, solidImage(8, 2, colorOpaque), "b")
	s, err := gfx.NewSprite(ctx, a)
	if err != nil {
		t.Fatalf("NewSprite: %v", err)
	}

	s.SetTexture(b, false)
	if s.TextureRect().Width != 4 {
		t.Errorf("rect kept: got %v, want width 4", s.TextureRect())
	}
	s.SetTexture(b, true)
	if got := s.TextureRect(); got != (qmath.Rect{Width: 8, Height: 2}) {
		t.Errorf("rect reset: got %v", got)
	}
}
