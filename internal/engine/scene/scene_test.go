package scene

import (
	"errors"
	"strings"
	"testing"

	"github.com/Faultbox/quadra/internal/engine/gpu"
	"github.com/Faultbox/quadra/internal/engine/input"
)

type recorder struct {
	calls []string
}

func (r *recorder) add(s string) { r.calls = append(r.calls, s) }

func (r *recorder) String() string { return strings.Join(r.calls, " ") }

type fakeScene struct {
	name     string
	rec      *recorder
	consume  bool
	enterErr error
	exitErr  error
	onUpdate func()
}

func (s *fakeScene) Enter() error {
	s.rec.add("enter:" + s.name)
	return s.enterErr
}

func (s *fakeScene) Exit() error {
	s.rec.add("exit:" + s.name)
	return s.exitErr
}

func (s *fakeScene) Update(float32) error {
	s.rec.add("update:" + s.name)
	if s.onUpdate != nil {
		s.onUpdate()
	}
	return nil
}

func (s *fakeScene) HandleEvent(input.Event) bool {
	s.rec.add("event:" + s.name)
	return s.consume
}

func (s *fakeScene) Draw(gpu.RenderPass) {
	s.rec.add("draw:" + s.name)
}

func TestChangesAreDeferred(t *testing.T) {
	rec := &recorder{}
	m := NewManager(nil)

	m.Push(&fakeScene{name: "a", rec: rec})
	if m.Len() != 0 || m.Pending() != 1 {
		t.Fatalf("before Update: len %d pending %d", m.Len(), m.Pending())
	}
	if err := m.Update(0.016); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got, want := rec.String(), "enter:a update:a"; got != want {
		t.Errorf("calls: got %q, want %q", got, want)
	}
}

func TestOnlyTopUpdatesAllDraw(t *testing.T) {
	rec := &recorder{}
	m := NewManager(nil)
	m.Push(&fakeScene{name: "world", rec: rec})
	m.Push(&fakeScene{name: "hud", rec: rec})
	m.Update(0)
	rec.calls = nil

	m.Update(0)
	m.Draw(nil)
	if got, want := rec.String(), "update:hud draw:world draw:hud"; got != want {
		t.Errorf("calls: got %q, want %q", got, want)
	}
}

func TestReplacePopClear(t *testing.T) {
	rec := &recorder{}
	m := NewManager(nil)
	m.Push(&fakeScene{name: "a", rec: rec})
	m.Push(&fakeScene{name: "b", rec: rec})
	m.Replace(&fakeScene{name: "c", rec: rec})
	m.Update(0)

	if got, want := rec.String(), "enter:a enter:b exit:b enter:c update:c"; got != want {
		t.Errorf("replace: got %q, want %q", got, want)
	}

	rec.calls = nil
	m.Pop()
	m.Update(0)
	if got, want := rec.String(), "exit:c update:a"; got != want {
		t.Errorf("pop: got %q, want %q", got, want)
	}

	rec.calls = nil
	m.Clear()
	m.Pop() // popping an empty stack is a no-op
	m.Update(0)
	if got, want := rec.String(), "exit:a"; got != want {
		t.Errorf("clear: got %q, want %q", got, want)
	}
	if m.Top() != nil {
		t.Error("stack should be empty")
	}
}

func TestTransitionFromUpdateWaitsForNextFrame(t *testing.T) {
	rec := &recorder{}
	m := NewManager(nil)
	next := &fakeScene{name: "next", rec: rec}
	first := &fakeScene{name: "first", rec: rec}
	first.onUpdate = func() { m.Replace(next) }

	m.Push(first)
	m.Update(0)
	if m.Top() != first {
		t.Fatal("replace requested during Update must not apply immediately")
	}
	m.Update(0)
	if m.Top() != next {
		t.Fatal("replace should apply on the following Update")
	}
}

func TestHandleEventTopDown(t *testing.T) {
	rec := &recorder{}
	m := NewManager(nil)
	m.Push(&fakeScene{name: "world", rec: rec, consume: true})
	m.Push(&fakeScene{name: "hud", rec: rec})
	m.Update(0)
	rec.calls = nil

	if !m.HandleEvent(input.Event{Type: input.EventKeyDown}) {
		t.Error("event should be consumed by the world scene")
	}
	if got, want := rec.String(), "event:hud event:world"; got != want {
		t.Errorf("calls: got %q, want %q", got, want)
	}
}

func TestEnterErrorKeepsLaterChanges(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("boom")
	m := NewManager(nil)
	m.Push(&fakeScene{name: "bad", rec: rec, enterErr: boom})
	m.Push(&fakeScene{name: "next", rec: rec})

	err := m.Update(0)
	if !errors.Is(err, boom) {
		t.Fatalf("Update: got %v, want %v", err, boom)
	}
	if m.Len() != 0 {
		t.Errorf("failed scene must not be pushed, len %d", m.Len())
	}
	if strings.Contains(rec.String(), "next") {
		t.Errorf("changes after a failure must wait: %q", rec.String())
	}
	if m.Pending() != 1 {
		t.Fatalf("Pending: got %d, want 1", m.Pending())
	}

	if err := m.Update(0); err != nil {
		t.Fatalf("second Update: %v", err)
	}
	if m.Len() != 1 || m.Pending() != 0 {
		t.Errorf("after retry: len %d pending %d, want 1/0", m.Len(), m.Pending())
	}
	if got := rec.String(); got != "enter:bad enter:next update:next" {
		t.Errorf("calls: got %q", got)
	}
}

func TestCloseCollectsExitErrors(t *testing.T) {
	rec := &recorder{}
	e1, e2 := errors.New("e1"), errors.New("e2")
	m := NewManager(nil)
	m.Push(&fakeScene{name: "a", rec: rec, exitErr: e1})
	m.Push(&fakeScene{name: "b", rec: rec, exitErr: e2})
	m.Update(0)

	err := m.Close()
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Errorf("Close: got %v, want both exit errors", err)
	}
	if m.Len() != 0 {
		t.Errorf("Len after Close: got %d", m.Len())
	}
}
