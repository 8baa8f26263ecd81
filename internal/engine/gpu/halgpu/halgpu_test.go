package halgpu

import (
	"errors"
	"image"
	"testing"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/noop"

	"github.com/Faultbox/quadra/internal/engine/gpu"
)

func openNoop(t *testing.T) *Device {
	t.Helper()
	dev, err := Open(gputypes.BackendEmpty, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(dev.Destroy)
	return dev
}

func rawBytes(t *testing.T, dev *Device, b *Buffer) []byte {
	t.Helper()
	m, err := dev.Raw().MapBuffer(b.Raw(), 0, b.alloc)
	if err != nil {
		t.Fatalf("MapBuffer: %v", err)
	}
	defer dev.Raw().UnmapBuffer(b.Raw())
	return append([]byte(nil), unsafe.Slice((*byte)(m.Ptr), b.alloc)...)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(gputypes.BackendBrowserWebGPU, nil)
	if !errors.Is(err, hal.ErrBackendNotFound) {
		t.Fatalf("Open: got %v, want ErrBackendNotFound", err)
	}
}

func TestBufferContentsArePadded(t *testing.T) {
	dev := openNoop(t)
	buf, err := dev.CreateBuffer(&gpu.BufferDescriptor{
		Label:    "indices",
		Usage:    gpu.BufferUsageIndex,
		Contents: []byte{1, 2, 3, 4, 5, 6},
	})
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	b := buf.(*Buffer)
	if b.Size() != 6 {
		t.Errorf("Size: got %d, want 6", b.Size())
	}
	if b.alloc != 8 {
		t.Errorf("alloc: got %d, want 8", b.alloc)
	}

	got := rawBytes(t, dev, b)
	want := []byte{1, 2, 3, 4, 5, 6, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("contents: got %v, want %v", got, want)
		}
	}
}

func TestWriteBuffer(t *testing.T) {
	dev := openNoop(t)
	buf, _ := dev.CreateBuffer(&gpu.BufferDescriptor{Label: "u", Size: 8, Usage: gpu.BufferUsageUniform})

	dev.Queue().WriteBuffer(buf, 4, []byte{7, 7, 7, 7})

	got := rawBytes(t, dev, buf.(*Buffer))
	if got[3] != 0 || got[4] != 7 || got[7] != 7 {
		t.Errorf("contents: got %v", got)
	}
}

func TestWriteBufferOverrunPanics(t *testing.T) {
	dev := openNoop(t)
	buf, _ := dev.CreateBuffer(&gpu.BufferDescriptor{Label: "u", Size: 8, Usage: gpu.BufferUsageUniform})

	defer func() {
		if recover() == nil {
			t.Error("expected panic on overrun")
		}
	}()
	dev.Queue().WriteBuffer(buf, 4, make([]byte, 8))
}

func TestUnalignedInteriorWriteFails(t *testing.T) {
	dev := openNoop(t)
	buf, _ := dev.CreateBuffer(&gpu.BufferDescriptor{Label: "v", Size: 12, Usage: gpu.BufferUsageVertex})

	if err := dev.Queue().write(buf.(*Buffer), 0, []byte{1, 2, 3}); err == nil {
		t.Error("expected error for padded write that does not reach the end")
	}
	if err := dev.Queue().write(buf.(*Buffer), 2, []byte{1, 2}); err == nil {
		t.Error("expected error for unaligned offset")
	}
}

func TestZeroSizedResourcesFail(t *testing.T) {
	dev := openNoop(t)
	if _, err := dev.CreateBuffer(&gpu.BufferDescriptor{Label: "empty"}); err == nil {
		t.Error("CreateBuffer: expected error for zero size")
	}
	if _, err := dev.CreateTexture(&gpu.TextureDescriptor{Label: "empty"}); !errors.Is(err, hal.ErrZeroArea) {
		t.Errorf("CreateTexture: got %v, want ErrZeroArea", err)
	}
}

func TestWriteTextureSizeMismatchPanics(t *testing.T) {
	dev := openNoop(t)
	tex, err := dev.CreateTexture(&gpu.TextureDescriptor{Label: "t", Width: 2, Height: 2})
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	dev.Queue().WriteTexture(tex, make([]byte, 16))

	defer func() {
		if recover() == nil {
			t.Error("expected panic on short texture data")
		}
	}()
	dev.Queue().WriteTexture(tex, make([]byte, 4))
}

func TestBindGroupResources(t *testing.T) {
	dev := openNoop(t)
	layout, err := dev.CreateBindGroupLayout(&gpu.BindGroupLayoutDescriptor{
		Label: "texture",
		Entries: []gpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gpu.StageFragment, Type: gpu.BindingTexture, Name: "tex"},
			{Binding: 1, Visibility: gpu.StageFragment, Type: gpu.BindingSampler, Name: "samp"},
			{Binding: 2, Visibility: gpu.StageFragment, Type: gpu.BindingUniform, Name: "tex_size"},
		},
	})
	if err != nil {
		t.Fatalf("CreateBindGroupLayout: %v", err)
	}
	if n := len(layout.Entries()); n != 3 {
		t.Fatalf("Entries: got %d, want 3", n)
	}

	tex, _ := dev.CreateTexture(&gpu.TextureDescriptor{Label: "t", Width: 1, Height: 1})
	view, _ := dev.CreateTextureView(tex)
	samp, _ := dev.CreateSampler(&gpu.SamplerDescriptor{Label: "s", MagFilter: gpu.FilterLinear})
	size, _ := dev.CreateBuffer(&gpu.BufferDescriptor{Label: "size", Size: 8, Usage: gpu.BufferUsageUniform})

	bg, err := dev.CreateBindGroup(&gpu.BindGroupDescriptor{
		Label:  "t bind group",
		Layout: layout,
		Entries: []gpu.BindGroupEntry{
			{Binding: 0, View: view},
			{Binding: 1, Sampler: samp},
			{Binding: 2, Buffer: size},
		},
	})
	if err != nil {
		t.Fatalf("CreateBindGroup: %v", err)
	}
	if bg.Layout() != layout {
		t.Error("bind group does not report its layout")
	}
	if view.Texture() != tex {
		t.Error("view does not report its texture")
	}

	_, err = dev.CreateBindGroup(&gpu.BindGroupDescriptor{
		Label:   "broken",
		Layout:  layout,
		Entries: []gpu.BindGroupEntry{{Binding: 0}},
	})
	if err == nil {
		t.Error("expected error for entry without resource")
	}
}

func TestPipelineRejectsEmptyShader(t *testing.T) {
	dev := openNoop(t)
	_, err := dev.CreateRenderPipeline(&gpu.RenderPipelineDescriptor{Label: "empty"})
	if err == nil {
		t.Fatal("expected error for empty WGSL")
	}
}

func TestSurfaceLifecycle(t *testing.T) {
	dev := openNoop(t)

	var presented *image.RGBA
	s := NewSurface(dev, func(img *image.RGBA) error {
		presented = img
		return nil
	})

	if _, err := s.Acquire(); !errors.Is(err, gpu.ErrSurfaceOutdated) {
		t.Fatalf("Acquire before Configure: got %v, want ErrSurfaceOutdated", err)
	}
	if err := s.Configure(gpu.SurfaceConfig{}); err == nil {
		t.Fatal("Configure: expected error for zero size")
	}
	if err := s.Configure(gpu.SurfaceConfig{Width: 10, Height: 3}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if s.stride != 256 {
		t.Errorf("stride: got %d, want 256", s.stride)
	}
	if s.Snapshot() != nil {
		t.Error("Snapshot before first frame should be nil")
	}

	frame, err := s.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	pass := frame.BeginPass([4]float32{0, 0, 1, 1})
	pass.End()
	pass.End()
	if err := frame.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}

	if presented == nil {
		t.Fatal("present callback not called")
	}
	if got := presented.Bounds().Size(); got != image.Pt(10, 3) {
		t.Errorf("frame size: got %v, want 10x3", got)
	}
	if s.Frames() != 1 {
		t.Errorf("Frames: got %d, want 1", s.Frames())
	}
	if snap := s.Snapshot(); snap == nil || snap == presented {
		t.Error("Snapshot should return a copy of the last frame")
	}
}

func TestPresentErrorPropagates(t *testing.T) {
	dev := openNoop(t)
	want := errors.New("window gone")
	s := NewSurface(dev, func(*image.RGBA) error { return want })
	if err := s.Configure(gpu.SurfaceConfig{Width: 1, Height: 1}); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	frame, _ := s.Acquire()
	frame.BeginPass([4]float32{})
	if err := frame.Present(); !errors.Is(err, want) {
		t.Errorf("Present: got %v, want %v", err, want)
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		in   error
		want error
	}{
		{hal.ErrDeviceOutOfMemory, gpu.ErrOutOfMemory},
		{hal.ErrSurfaceLost, gpu.ErrSurfaceLost},
		{hal.ErrDeviceLost, gpu.ErrSurfaceLost},
		{hal.ErrSurfaceOutdated, gpu.ErrSurfaceOutdated},
		{hal.ErrTimeout, gpu.ErrSurfaceTimeout},
		{hal.ErrNotReady, gpu.ErrSurfaceTimeout},
	}
	for _, tt := range tests {
		got := mapError(tt.in)
		if !errors.Is(got, tt.want) {
			t.Errorf("mapError(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if !errors.Is(got, tt.in) {
			t.Errorf("mapError(%v) lost the original error", tt.in)
		}
	}
	if mapError(nil) != nil {
		t.Error("mapError(nil) should be nil")
	}
}
