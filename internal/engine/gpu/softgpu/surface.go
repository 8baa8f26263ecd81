package softgpu

import (
	"errors"
	"image"
	"sync"

	"github.com/Faultbox/quadra/internal/engine/gpu"
)

// Surface is an off-screen framebuffer. Presented frames can be read back
// with Snapshot.
type Surface struct {
	mu       sync.Mutex
	cfg      gpu.SurfaceConfig
	back     *image.RGBA
	front    *image.RGBA
	failures []error
	frames   int
}

var _ gpu.Surface = (*Surface)(nil)

// NewSurface returns an unconfigured surface.
func NewSurface() *Surface {
	return &Surface{}
}

// Configure resizes the framebuffer. Contents are discarded.
func (s *Surface) Configure(cfg gpu.SurfaceConfig) error {
	if cfg.Width == 0 || cfg.Height == 0 {
		return errors.New("softgpu: surface size must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.back = image.NewRGBA(image.Rect(0, 0, int(cfg.Width), int(cfg.Height)))
	s.front = nil
	return nil
}

// Config returns the current configuration.
func (s *Surface) Config() gpu.SurfaceConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// FailNext queues errors returned by the next Acquire calls, one per call.
func (s *Surface) FailNext(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, errs...)
}

// Presented returns the number of frames presented so far.
func (s *Surface) Presented() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Snapshot returns a copy of the last presented frame, or nil.
func (s *Surface) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.front == nil {
		return nil
	}
	out := image.NewRGBA(s.front.Bounds())
	copy(out.Pix, s.front.Pix)
	return out
}

// Acquire returns the back buffer as a frame.
func (s *Surface) Acquire() (gpu.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.failures) > 0 {
		err := s.failures[0]
		s.failures = s.failures[1:]
		return nil, err
	}
	if s.back == nil {
		return nil, gpu.ErrSurfaceOutdated
	}
	return &Frame{surface: s, target: s.back}, nil
}

// Frame is one acquired back buffer.
type Frame struct {
	surface *Surface
	target  *image.RGBA
	pass    *Pass
}

// BeginPass clears the back buffer and starts recording.
func (f *Frame) BeginPass(clear [4]float32) gpu.RenderPass {
	c := [4]uint8{toByte(clear[0]), toByte(clear[1]), toByte(clear[2]), toByte(clear[3])}
	for i := 0; i < len(f.target.Pix); i += 4 {
		copy(f.target.Pix[i:i+4], c[:])
	}
	f.pass = NewPass(f.target)
	return f.pass
}

// Pass returns the pass started by BeginPass.
func (f *Frame) Pass() *Pass { return f.pass }

// Present publishes the back buffer.
func (f *Frame) Present() error {
	if f.pass != nil && !f.pass.Ended() {
		return errors.New("softgpu: present before the render pass ended")
	}
	s := f.surface
	s.mu.Lock()
	defer s.mu.Unlock()
	front := image.NewRGBA(f.target.Bounds())
	copy(front.Pix, f.target.Pix)
	s.front = front
	s.frames++
	return nil
}
