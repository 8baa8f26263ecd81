package gfx

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png" // default sprite sheet format
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/quadra/internal/engine/gpu"
	"github.com/Faultbox/quadra/internal/engine/texture"
)

// Texture is a sampled RGBA texture with its view, sampler and a bind group
// on the "texture" layout. The bind group also carries a uniform with the
// texture size so vertex UVs can stay in texels.
type Texture struct {
	ctx   *Context
	label string

	texture    gpu.Texture
	view       gpu.TextureView
	sampler    gpu.Sampler
	sizeBuffer gpu.Buffer
	bindGroup  gpu.BindGroup

	width, height uint32
}

// NewTextureFromImage uploads img. It panics if the "texture" layout is not registered.
func NewTextureFromImage(ctx *Context, img image.Image, label string) (*Texture, error) {
	rgba := texture.ToRGBA(img)
	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("texture %q: empty image", label)
	}
	return newTexture(ctx, label, uint32(w), uint32(h), rgba.Pix)
}

// NewTextureFromBytes decodes an encoded image with the registered decoders.
func NewTextureFromBytes(ctx *Context, data []byte, label string) (*Texture, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texture %q: decode: %w", label, err)
	}
	ctx.Logger().Debug("decoded texture", zap.String("label", label), zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	return NewTextureFromImage(ctx, img, label)
}

// NewTextureFromPath reads and decodes the image at path. The label is the file name.
func NewTextureFromPath(ctx *Context, path string) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	return NewTextureFromBytes(ctx, data, filepath.Base(path))
}

// NewSolidTexture returns a 1x1 texture of color c.
func NewSolidTexture(ctx *Context, c Color, label string) (*Texture, error) {
	v := c.Vec4()
	px := []byte{toByte(v[0]), toByte(v[1]), toByte(v[2]), toByte(v[3])}
	return newTexture(ctx, label, 1, 1, px)
}

func toByte(f float32) byte {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return byte(f*255 + 0.5)
}

func newTexture(ctx *Context, label string, w, h uint32, pixels []byte) (*Texture, error) {
	layout := ctx.MustBindGroupLayout(LayoutTexture)
	if label == "" {
		label = newLabel("texture")
	}
	t := &Texture{ctx: ctx, label: label, width: w, height: h}

	err := ctx.Do(func(dev gpu.Device, q gpu.Queue) error {
		var err error
		t.texture, err = dev.CreateTexture(&gpu.TextureDescriptor{
			Label:  label,
			Width:  w,
			Height: h,
			Format: gpu.FormatRGBA8Unorm,
		})
		if err != nil {
			return err
		}
		q.WriteTexture(t.texture, pixels)

		if t.view, err = dev.CreateTextureView(t.texture); err != nil {
			return err
		}
		t.sampler, err = dev.CreateSampler(&gpu.SamplerDescriptor{
			Label:     label,
			MagFilter: gpu.FilterNearest,
			MinFilter: gpu.FilterNearest,
		})
		if err != nil {
			return err
		}
		t.sizeBuffer, err = dev.CreateBuffer(&gpu.BufferDescriptor{
			Label:    label + "/size",
			Usage:    gpu.BufferUsageUniform | gpu.BufferUsageCopyDst,
			Contents: vec2Bytes(mgl32.Vec2{float32(w), float32(h)}),
		})
		if err != nil {
			return err
		}
		t.bindGroup, err = dev.CreateBindGroup(&gpu.BindGroupDescriptor{
			Label:  label,
			Layout: layout,
			Entries: []gpu.BindGroupEntry{
				{Binding: 0, View: t.view},
				{Binding: 1, Sampler: t.sampler},
				{Binding: 2, Buffer: t.sizeBuffer},
			},
		})
		return err
	})
	if err != nil {
		t.Destroy()
		return nil, fmt.Errorf("texture %q: %w", label, err)
	}
	return t, nil
}

// Label returns the texture's name.
func (t *Texture) Label() string { return t.label }

// Width returns the width in pixels.
func (t *Texture) Width() uint32 { return t.width }

// Height returns the height in pixels.
func (t *Texture) Height() uint32 { return t.height }

// Size returns width and height as a vector.
func (t *Texture) Size() mgl32.Vec2 {
	return mgl32.Vec2{float32(t.width), float32(t.height)}
}

// GPUTexture returns the underlying texture handle.
func (t *Texture) GPUTexture() gpu.Texture { return t.texture }

// View returns the texture view.
func (t *Texture) View() gpu.TextureView { return t.view }

// Sampler returns the sampler.
func (t *Texture) Sampler() gpu.Sampler { return t.sampler }

// BindGroup returns the bind group on the "texture" layout.
func (t *Texture) BindGroup() gpu.BindGroup { return t.bindGroup }

// Replace moves the GPU resources of next into t and releases t's old ones.
// Every holder of t sees the new image on its next draw. next must not be used
// afterwards.
func (t *Texture) Replace(next *Texture) {
	old := *t
	t.texture, t.view, t.sampler = next.texture, next.view, next.sampler
	t.sizeBuffer, t.bindGroup = next.sizeBuffer, next.bindGroup
	t.width, t.height = next.width, next.height
	*next = Texture{ctx: next.ctx, label: next.label}
	old.Destroy()
}

// Destroy releases the GPU resources. The view and sampler are released with
// the texture.
func (t *Texture) Destroy() {
	_ = t.ctx.Do(func(dev gpu.Device, _ gpu.Queue) error {
		if t.bindGroup != nil {
			dev.DestroyBindGroup(t.bindGroup)
		}
		if t.sizeBuffer != nil {
			dev.DestroyBuffer(t.sizeBuffer)
		}
		if t.texture != nil {
			dev.DestroyTexture(t.texture)
		}
		return nil
	})
	t.bindGroup, t.sizeBuffer, t.texture, t.view, t.sampler = nil, nil, nil, nil, nil
}

// NewPlaceholderTexture returns the 1x1 white texture bound for untextured draws.
func NewPlaceholderTexture(ctx *Context) (*Texture, error) {
	return NewSolidTexture(ctx, White, "placeholder")
}
