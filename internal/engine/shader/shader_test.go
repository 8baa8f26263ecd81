package shader

import (
	"strings"
	"testing"
)

func TestSprite2DSources(t *testing.T) {
	src := Sprite2D()

	if src.Name != "sprite2d" {
		t.Errorf("Name: got %q, want sprite2d", src.Name)
	}
	for _, entry := range []string{"fn vs_main", "fn fs_main"} {
		if !strings.Contains(src.WGSL, entry) {
			t.Errorf("WGSL is missing %q", entry)
		}
	}
	// GLSL blocks are looked up by the layout entry names.
	for _, block := range []string{"uniform " + Projection, "uniform " + Model, "uniform " + TextureSize} {
		if !strings.Contains(src.GLSLVertex, block) {
			t.Errorf("vertex shader is missing block %q", block)
		}
	}
	if !strings.Contains(src.GLSLFragment, "uniform sampler2D "+Texture) {
		t.Errorf("fragment shader is missing sampler %q", Texture)
	}
	for _, attr := range []string{AttrPosition, AttrColor, AttrUV} {
		if !strings.Contains(src.GLSLVertex, attr) {
			t.Errorf("vertex shader is missing attribute %q", attr)
		}
	}
}
