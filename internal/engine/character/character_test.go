package character

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/quadra/pkg/math"
)

func TestStrip(t *testing.T) {
	cells := Strip(0, 36, 33, 36, 4)
	if len(cells) != 4 {
		t.Fatalf("len: got %d, want 4", len(cells))
	}
	want := math.Rect{X: 99, Y: 36, Width: 33, Height: 36}
	if cells[3] != want {
		t.Errorf("cell 3: got %+v, want %+v", cells[3], want)
	}
}

func TestAnimationAdvancesAndWraps(t *testing.T) {
	a := NewAnimation(Strip(0, 0, 10, 10, 3), 0.2)

	if a.Update(0.2) {
		t.Error("frame must not advance at exactly the frame time")
	}
	if !a.Update(0.05) {
		t.Fatal("frame should advance once the frame time is exceeded")
	}
	if a.Index() != 1 {
		t.Errorf("Index: got %d, want 1", a.Index())
	}

	a.Update(0.25)
	if !a.Update(0.25) {
		t.Fatal("expected advance")
	}
	if a.Index() != 0 {
		t.Errorf("Index after wrap: got %d, want 0", a.Index())
	}
	frame, ok := a.Frame()
	if !ok || frame.X != 0 {
		t.Errorf("Frame: got %+v, %v", frame, ok)
	}
}

func TestAnimationResetAndEmpty(t *testing.T) {
	a := NewAnimation(Strip(0, 0, 10, 10, 2), 0)
	if a.FrameTime() != DefaultFrameTime {
		t.Errorf("FrameTime: got %v, want default", a.FrameTime())
	}
	a.Update(1)
	a.Reset()
	if a.Index() != 0 {
		t.Errorf("Index after Reset: got %d", a.Index())
	}

	empty := NewAnimation(nil, 0.1)
	if empty.Update(1) {
		t.Error("empty animation must not advance")
	}
	if _, ok := empty.Frame(); ok {
		t.Error("empty animation has no frame")
	}
}

func TestDirection(t *testing.T) {
	tests := []struct {
		dx, dy float32
		want   Direction
		vec    mgl32.Vec2
	}{
		{-1, 0, Left, mgl32.Vec2{-1, 0}},
		{1, 1, Right, mgl32.Vec2{1, 0}},
		{0, 1, Down, mgl32.Vec2{0, 1}},
		{0, -1, Up, mgl32.Vec2{0, -1}},
		{0, 0, None, mgl32.Vec2{}},
	}
	for _, tt := range tests {
		got := FromAxis(tt.dx, tt.dy)
		if got != tt.want {
			t.Errorf("FromAxis(%v,%v): got %v, want %v", tt.dx, tt.dy, got, tt.want)
		}
		if v := got.Vector(); v != tt.vec {
			t.Errorf("%v.Vector(): got %v, want %v", got, v, tt.vec)
		}
	}
	if Direction(42).String() != "unknown" {
		t.Error("out-of-range direction should be unknown")
	}
}

func TestStep(t *testing.T) {
	area := math.Rect{X: 0, Y: 0, Width: 100, Height: 100}

	next, moved := Step(mgl32.Vec2{50, 50}, Right, 200, 0.1, area)
	if !moved || next != (mgl32.Vec2{70, 50}) {
		t.Errorf("Step right: got %v, %v", next, moved)
	}

	next, moved = Step(mgl32.Vec2{5, 50}, Left, 200, 0.1, area)
	if moved || next != (mgl32.Vec2{5, 50}) {
		t.Errorf("Step out of area: got %v, %v", next, moved)
	}

	if _, moved := Step(mgl32.Vec2{}, None, 200, 1, nil); moved {
		t.Error("None must not move")
	}
}

func TestClamp(t *testing.T) {
	bounds := math.Rect{Width: 100, Height: 50}
	got := Clamp(mgl32.Vec2{95, -3}, 10, 10, bounds)
	if got != (mgl32.Vec2{90, 0}) {
		t.Errorf("Clamp: got %v, want [90 0]", got)
	}
}

func TestAnimator(t *testing.T) {
	an := NewAnimator()
	an.Set(Down, NewAnimation(Strip(0, 0, 33, 36, 4), 0.2))
	an.Set(Left, NewAnimation(Strip(0, 36, 33, 36, 4), 0.2))

	if an.Facing() != Down || an.Walking() {
		t.Fatalf("initial: facing %v walking %v", an.Facing(), an.Walking())
	}

	frame, changed := an.Update(Left, 0.1)
	if !changed || frame.Y != 36 || frame.X != 0 {
		t.Errorf("turn left: got %+v changed=%v", frame, changed)
	}

	frame, changed = an.Update(Left, 0.15)
	if !changed || frame.X != 33 {
		t.Errorf("walk left: got %+v changed=%v", frame, changed)
	}

	frame, changed = an.Update(None, 0.1)
	if !changed || frame.X != 0 || an.Walking() {
		t.Errorf("stop: got %+v changed=%v walking=%v", frame, changed, an.Walking())
	}
	if an.Facing() != Left {
		t.Errorf("facing after stop: got %v, want left", an.Facing())
	}

	if _, changed := an.Update(None, 0.1); changed {
		t.Error("standing still twice should not change the frame")
	}
}
