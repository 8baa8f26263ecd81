// Package window handles the SDL2 window, its presentation modes and event
// translation.
package window

import (
	"fmt"
	"image"
	"runtime"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/quadra/internal/engine/input"
)

func init() {
	// OpenGL and SDL calls must be made from the main thread
	runtime.LockOSThread()
}

// Mode selects how frames reach the window.
type Mode int

const (
	// ModeOpenGL creates an OpenGL 4.1 core context; frames are shown with SwapBuffers.
	ModeOpenGL Mode = iota
	// ModeSoftware blits CPU images with PresentRGBA.
	ModeSoftware
)

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	Mode       Mode
}

// Window wraps an SDL2 window and, in ModeOpenGL, its GL context.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	log       *zap.Logger
}

// New creates a new window. A nil logger discards output.
func New(cfg Config, log *zap.Logger) (*Window, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Window{
		config: cfg,
		log:    log,
	}

	log.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	flags := uint32(sdl.WINDOW_RESIZABLE)
	if cfg.Mode == ModeOpenGL {
		// OpenGL 4.1 Core Profile (max supported on macOS)
		sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
		sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
		sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
		sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
		flags |= sdl.WINDOW_OPENGL
	}
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	if cfg.Mode == ModeOpenGL {
		w.glContext, err = w.sdlWindow.GLCreateContext()
		if err != nil {
			w.sdlWindow.Destroy()
			sdl.Quit()
			return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
		}
		w.SetVSync(cfg.VSync)
	}

	log.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)
	return w, nil
}

// SetVSync toggles the swap interval of the GL context.
func (w *Window) SetVSync(on bool) {
	if w.glContext == nil {
		return
	}
	interval := 0
	if on {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		w.log.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	w.log.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// SwapBuffers swaps the OpenGL buffers.
func (w *Window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// PresentRGBA copies img into the window surface, scaled to fit.
func (w *Window) PresentRGBA(img *image.RGBA) error {
	if len(img.Pix) == 0 {
		return nil
	}
	dst, err := w.sdlWindow.GetSurface()
	if err != nil {
		return fmt.Errorf("window surface: %w", err)
	}
	b := img.Bounds()
	src, err := sdl.CreateRGBSurfaceWithFormatFrom(unsafe.Pointer(&img.Pix[0]),
		int32(b.Dx()), int32(b.Dy()), 32, int32(img.Stride), uint32(sdl.PIXELFORMAT_ABGR8888))
	if err != nil {
		return fmt.Errorf("wrap frame: %w", err)
	}
	defer src.Free()

	if err := src.BlitScaled(nil, dst, nil); err != nil {
		return fmt.Errorf("blit frame: %w", err)
	}
	return w.sdlWindow.UpdateSurface()
}

// GetSize returns the current window size.
func (w *Window) GetSize() (int, int) {
	width, height := w.sdlWindow.GetSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

// PollEvents drains the SDL queue into in.
func (w *Window) PollEvents(in *input.Input) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e, ok := translate(event); ok {
			in.Push(e)
		}
	}
}

func translate(event sdl.Event) (input.Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return input.Event{Type: input.EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED {
			return input.Event{
				Type:   input.EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		ev := input.Event{Key: input.Key(e.Keysym.Scancode), Repeat: e.Repeat != 0}
		switch e.Type {
		case sdl.KEYDOWN:
			ev.Type = input.EventKeyDown
		case sdl.KEYUP:
			ev.Type = input.EventKeyUp
		default:
			return input.Event{}, false
		}
		return ev, true

	case *sdl.MouseMotionEvent:
		return input.Event{
			Type:   input.EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
		}, true

	case *sdl.MouseButtonEvent:
		ev := input.Event{MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}
		if e.Type == sdl.MOUSEBUTTONDOWN {
			ev.Type = input.EventMouseDown
		} else {
			ev.Type = input.EventMouseUp
		}
		return ev, true

	case *sdl.MouseWheelEvent:
		return input.Event{Type: input.EventMouseWheel, WheelY: int(e.Y)}, true
	}
	return input.Event{}, false
}
