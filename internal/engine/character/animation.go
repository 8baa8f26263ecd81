package character

import (
	"github.com/Faultbox/quadra/pkg/math"
)

// DefaultFrameTime is the default time each frame stays on screen, in seconds.
const DefaultFrameTime = 0.20

// Animation cycles through sprite-sheet cells at a fixed frame time.
type Animation struct {
	frames    []math.Rect
	frameTime float32
	current   int
	elapsed   float32
}

// NewAnimation copies frames. A non-positive frameTime uses DefaultFrameTime.
func NewAnimation(frames []math.Rect, frameTime float32) *Animation {
	if frameTime <= 0 {
		frameTime = DefaultFrameTime
	}
	return &Animation{
		frames:    append([]math.Rect(nil), frames...),
		frameTime: frameTime,
	}
}

// Strip returns n cells of size w×h laid out left to right from (x, y).
func Strip(x, y, w, h float32, n int) []math.Rect {
	cells := make([]math.Rect, n)
	for i := range cells {
		cells[i] = math.Rect{X: x + float32(i)*w, Y: y, Width: w, Height: h}
	}
	return cells
}

// Update accumulates dt (seconds) and reports whether the frame advanced.
// At most one frame advances per call; the last frame wraps to the first.
func (a *Animation) Update(dt float32) bool {
	if len(a.frames) == 0 {
		return false
	}
	a.elapsed += dt
	if a.elapsed <= a.frameTime {
		return false
	}
	a.elapsed -= a.frameTime
	a.current++
	if a.current >= len(a.frames) {
		a.current = 0
	}
	return true
}

// Frame returns the current cell. ok is false for an animation without frames.
func (a *Animation) Frame() (r math.Rect, ok bool) {
	if len(a.frames) == 0 {
		return math.Rect{}, false
	}
	return a.frames[a.current], true
}

// Index returns the current frame number.
func (a *Animation) Index() int { return a.current }

// Len returns the number of frames.
func (a *Animation) Len() int { return len(a.frames) }

// FrameTime returns the seconds per frame.
func (a *Animation) FrameTime() float32 { return a.frameTime }

// Reset rewinds to the first frame.
func (a *Animation) Reset() {
	a.current = 0
	a.elapsed = 0
}
