package game

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	_ "github.com/gogpu/wgpu/hal/vulkan" // registers the Vulkan hal backend
	"go.uber.org/zap"

	"github.com/Faultbox/quadra/internal/config"
	"github.com/Faultbox/quadra/internal/engine/gpu"
	"github.com/Faultbox/quadra/internal/engine/gpu/glgpu"
	"github.com/Faultbox/quadra/internal/engine/gpu/halgpu"
	"github.com/Faultbox/quadra/internal/engine/gpu/softgpu"
	"github.com/Faultbox/quadra/internal/engine/window"
)

// Surface is a gpu.Surface whose last frame can be read back.
type Surface interface {
	gpu.Surface
	Snapshot() *image.RGBA
}

// backend bundles the device objects of one rendering backend.
type backend struct {
	name    string
	device  gpu.Device
	queue   gpu.Queue
	surface Surface

	// present shows a CPU-side frame after the renderer presented it; nil
	// when the surface presents by itself.
	present func() error
	destroy func()
}

// windowMode returns how the window must be created for a backend.
func windowMode(name string) window.Mode {
	if name == config.BackendGL {
		return window.ModeOpenGL
	}
	return window.ModeSoftware
}

// openBackend creates the device for cfg.Graphics.Backend. win is nil in
// headless runs.
func openBackend(name string, win *window.Window, log *zap.Logger) (*backend, error) {
	switch name {
	case config.BackendGL:
		if win == nil {
			return nil, fmt.Errorf("backend %s needs a window", name)
		}
		dev, queue, err := glgpu.New(log.Named("gl"))
		if err != nil {
			return nil, err
		}
		return &backend{
			name:    name,
			device:  dev,
			queue:   queue,
			surface: glgpu.NewSurface(win),
			destroy: dev.Destroy,
		}, nil

	case config.BackendVulkan:
		dev, err := halgpu.Open(gputypes.BackendVulkan, log.Named("vulkan"))
		if err != nil {
			return nil, err
		}
		var present halgpu.PresentFunc
		if win != nil {
			present = win.PresentRGBA
		}
		surface := halgpu.NewSurface(dev, present)
		return &backend{
			name:    name,
			device:  dev,
			queue:   dev.Queue(),
			surface: surface,
			destroy: func() {
				surface.Destroy()
				dev.Destroy()
			},
		}, nil

	case config.BackendSoft:
		dev := softgpu.New()
		surface := softgpu.NewSurface()
		b := &backend{
			name:    name,
			device:  dev,
			queue:   dev.Queue(),
			surface: surface,
			destroy: dev.Destroy,
		}
		if win != nil {
			b.present = func() error {
				if img := surface.Snapshot(); img != nil {
					return win.PresentRGBA(img)
				}
				return nil
			}
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown backend %q", name)
}
