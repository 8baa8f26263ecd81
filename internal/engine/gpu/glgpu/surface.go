package glgpu

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/quadra/internal/engine/gpu"
)

// Swapper presents the default framebuffer. *window.Window implements it.
type Swapper interface {
	SwapBuffers()
	SetVSync(on bool)
}

// Surface is the window's default framebuffer.
type Surface struct {
	win Swapper
	cfg gpu.SurfaceConfig
}

var _ gpu.Surface = (*Surface)(nil)

// NewSurface wraps the window owning the current GL context.
func NewSurface(win Swapper) *Surface {
	return &Surface{win: win}
}

// Configure sets the viewport and swap interval.
func (s *Surface) Configure(cfg gpu.SurfaceConfig) error {
	if cfg.Width == 0 || cfg.Height == 0 {
		return fmt.Errorf("glgpu: surface size must be positive")
	}
	s.cfg = cfg
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	s.win.SetVSync(cfg.VSync)
	return nil
}

// Acquire returns the default framebuffer as a frame.
func (s *Surface) Acquire() (gpu.Frame, error) {
	if s.cfg.Width == 0 {
		return nil, gpu.ErrSurfaceOutdated
	}
	return &Frame{surface: s}, nil
}

// Snapshot reads the back buffer into an image with the first row at the top.
// Call it after the pass ended and before Present.
func (s *Surface) Snapshot() *image.RGBA {
	w, h := int(s.cfg.Width), int(s.cfg.Height)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))

	// GL rows start at the bottom
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
	return img
}

// Frame is one pass over the default framebuffer.
type Frame struct {
	surface *Surface
	pass    *Pass
}

// BeginPass clears the default framebuffer.
func (f *Frame) BeginPass(clear [4]float32) gpu.RenderPass {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(f.surface.cfg.Width), int32(f.surface.cfg.Height))
	gl.ClearColor(clear[0], clear[1], clear[2], clear[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
	f.pass = &Pass{}
	return f.pass
}

// Present swaps the window buffers and reports pending GL errors.
func (f *Frame) Present() error {
	if err := checkError("frame"); err != nil {
		return err
	}
	f.surface.win.SwapBuffers()
	return nil
}
