package halgpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"go.uber.org/zap"

	"github.com/Faultbox/quadra/internal/engine/gpu"
)

// rowAlignment is the required bytes-per-row alignment of texture copies.
const rowAlignment = 256

// PresentFunc shows a rendered frame, typically by blitting it to a window.
type PresentFunc func(img *image.RGBA) error

// Surface is an offscreen render target read back after every frame.
type Surface struct {
	dev     *Device
	cfg     gpu.SurfaceConfig
	present PresentFunc

	target  hal.Texture
	view    hal.TextureView
	staging hal.Buffer
	stride  uint32

	last   *image.RGBA
	frames int
}

var _ gpu.Surface = (*Surface)(nil)

// NewSurface returns an unconfigured surface. present may be nil for
// headless rendering.
func NewSurface(dev *Device, present PresentFunc) *Surface {
	return &Surface{dev: dev, present: present}
}

// Configure recreates the render target and staging buffer at the new size.
func (s *Surface) Configure(cfg gpu.SurfaceConfig) error {
	if cfg.Width == 0 || cfg.Height == 0 {
		return fmt.Errorf("halgpu: %w", hal.ErrZeroArea)
	}
	s.release()

	raw := s.dev.raw
	target, err := raw.CreateTexture(&hal.TextureDescriptor{
		Label:         "surface target",
		Size:          hal.Extent3D{Width: cfg.Width, Height: cfg.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        textureFormat(cfg.Format),
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("halgpu: surface target: %w", mapError(err))
	}

	view, err := raw.CreateTextureView(target, &hal.TextureViewDescriptor{
		Label:           "surface target view",
		Format:          textureFormat(cfg.Format),
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		raw.DestroyTexture(target)
		return fmt.Errorf("halgpu: surface view: %w", mapError(err))
	}

	stride := (cfg.Width*4 + rowAlignment - 1) / rowAlignment * rowAlignment
	staging, err := raw.CreateBuffer(&hal.BufferDescriptor{
		Label: "surface readback",
		Size:  uint64(stride) * uint64(cfg.Height),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		raw.DestroyTextureView(view)
		raw.DestroyTexture(target)
		return fmt.Errorf("halgpu: surface readback buffer: %w", mapError(err))
	}

	s.cfg = cfg
	s.target, s.view, s.staging, s.stride = target, view, staging, stride
	s.dev.log.Debug("surface configured",
		zap.Uint32("width", cfg.Width),
		zap.Uint32("height", cfg.Height),
		zap.Uint32("stride", stride),
	)
	return nil
}

func (s *Surface) release() {
	raw := s.dev.raw
	if s.staging != nil {
		raw.DestroyBuffer(s.staging)
		s.staging = nil
	}
	if s.view != nil {
		raw.DestroyTextureView(s.view)
		s.view = nil
	}
	if s.target != nil {
		raw.DestroyTexture(s.target)
		s.target = nil
	}
}

// Destroy releases the render target.
func (s *Surface) Destroy() {
	s.release()
	s.cfg = gpu.SurfaceConfig{}
}

// Acquire starts command encoding for the next frame.
func (s *Surface) Acquire() (gpu.Frame, error) {
	if s.target == nil {
		return nil, gpu.ErrSurfaceOutdated
	}
	enc, err := s.dev.raw.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "frame"})
	if err != nil {
		return nil, mapError(err)
	}
	if err := enc.BeginEncoding("frame"); err != nil {
		return nil, mapError(err)
	}
	return &Frame{surface: s, enc: enc}, nil
}

// Frames returns the number of presented frames.
func (s *Surface) Frames() int { return s.frames }

// Snapshot returns a copy of the last presented frame, or nil before the first.
func (s *Surface) Snapshot() *image.RGBA {
	if s.last == nil {
		return nil
	}
	img := image.NewRGBA(s.last.Rect)
	copy(img.Pix, s.last.Pix)
	return img
}

// Frame records one pass over the surface target.
type Frame struct {
	surface *Surface
	enc     hal.CommandEncoder
	pass    *Pass
}

// BeginPass clears the target to clear and starts recording draws.
func (f *Frame) BeginPass(clear [4]float32) gpu.RenderPass {
	raw := f.enc.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "main pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    f.surface.view,
			LoadOp:  gputypes.LoadOpClear,
			StoreOp: gputypes.StoreOpStore,
			ClearValue: gputypes.Color{
				R: float64(clear[0]),
				G: float64(clear[1]),
				B: float64(clear[2]),
				A: float64(clear[3]),
			},
		}},
	})
	f.pass = &Pass{raw: raw}
	return f.pass
}

// Present submits the frame, waits for it, reads the target back and hands
// it to the present callback.
func (f *Frame) Present() error {
	s := f.surface
	if f.pass != nil {
		f.pass.End()
	}

	f.enc.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.target,
		Range: hal.TextureRange{
			Aspect:          gputypes.TextureAspectAll,
			MipLevelCount:   1,
			ArrayLayerCount: 1,
		},
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	f.enc.CopyTextureToBuffer(s.target, s.staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{BytesPerRow: s.stride, RowsPerImage: s.cfg.Height},
		TextureBase:  hal.ImageCopyTexture{Texture: s.target, Aspect: gputypes.TextureAspectAll},
		Size:         hal.Extent3D{Width: s.cfg.Width, Height: s.cfg.Height, DepthOrArrayLayers: 1},
	}})

	cmd, err := f.enc.EndEncoding()
	if err != nil {
		return mapError(err)
	}
	defer s.dev.raw.FreeCommandBuffer(cmd)

	if _, err := s.dev.queue.raw.Submit([]hal.CommandBuffer{cmd}); err != nil {
		return mapError(err)
	}
	if err := s.dev.raw.WaitIdle(); err != nil {
		return mapError(err)
	}

	img, err := s.readback()
	if err != nil {
		return err
	}
	s.last = img
	s.frames++

	if s.present != nil {
		return s.present(img)
	}
	return nil
}

// readback copies the staging buffer into a tightly packed RGBA image.
func (s *Surface) readback() (*image.RGBA, error) {
	w, h := int(s.cfg.Width), int(s.cfg.Height)
	size := uint64(s.stride) * uint64(h)

	m, err := s.dev.raw.MapBuffer(s.staging, 0, size)
	if err != nil {
		return nil, fmt.Errorf("halgpu: map readback: %w", mapError(err))
	}
	src := unsafe.Slice((*byte)(m.Ptr), size)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+w*4], src[y*int(s.stride):])
	}
	if err := s.dev.raw.UnmapBuffer(s.staging); err != nil {
		return nil, fmt.Errorf("halgpu: unmap readback: %w", mapError(err))
	}

	if s.cfg.Format == gpu.FormatBGRA8Unorm {
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+2] = img.Pix[i+2], img.Pix[i]
		}
	}
	return img, nil
}
