// Package scene implements a stack of scenes with deferred transitions.
//
// Push, Pop, Replace and Clear only queue a change. Changes are applied in
// order at the start of the next Update, so a scene may request a transition
// from inside its own Update or HandleEvent.
package scene

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/quadra/internal/engine/gfx"
	"github.com/Faultbox/quadra/internal/engine/gpu"
	"github.com/Faultbox/quadra/internal/engine/input"
)

// Scene is one layer of the application: a menu, the playfield, an overlay.
type Scene interface {
	// Enter is called when the scene becomes part of the stack.
	Enter() error

	// Exit is called when the scene leaves the stack.
	Exit() error

	// Update advances the scene by dt seconds. Only the top scene updates.
	Update(dt float32) error

	// HandleEvent reports whether the event was consumed.
	HandleEvent(e input.Event) bool

	// Draw records the scene into the frame's pass.
	Draw(pass gpu.RenderPass)
}

type action int

const (
	actionPush action = iota
	actionPop
	actionReplace
	actionClear
)

func (a action) String() string {
	return [...]string{"push", "pop", "replace", "clear"}[a]
}

type change struct {
	action action
	scene  Scene
}

// Manager owns the scene stack. It is not safe for concurrent use; drive it
// from the main loop.
type Manager struct {
	log     *zap.Logger
	stack   []Scene
	pending []change
}

var _ gfx.Drawable = (*Manager)(nil)

// NewManager creates an empty manager.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{log: log}
}

// Push queues s to be placed on top of the stack.
func (m *Manager) Push(s Scene) {
	m.pending = append(m.pending, change{action: actionPush, scene: s})
}

// Pop queues removal of the top scene.
func (m *Manager) Pop() {
	m.pending = append(m.pending, change{action: actionPop})
}

// Replace queues swapping the top scene for s.
func (m *Manager) Replace(s Scene) {
	m.pending = append(m.pending, change{action: actionReplace, scene: s})
}

// Clear queues removal of every scene.
func (m *Manager) Clear() {
	m.pending = append(m.pending, change{action: actionClear})
}

// Len returns the number of scenes on the stack.
func (m *Manager) Len() int { return len(m.stack) }

// Pending returns the number of queued changes.
func (m *Manager) Pending() int { return len(m.pending) }

// Top returns the top scene, or nil.
func (m *Manager) Top() Scene {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

// Update applies queued changes, then updates the top scene. If a change
// fails, the changes after it stay queued for the next Update.
func (m *Manager) Update(dt float32) error {
	if err := m.apply(); err != nil {
		return err
	}
	if top := m.Top(); top != nil {
		return top.Update(dt)
	}
	return nil
}

// HandleEvent offers e to scenes from the top down until one consumes it.
func (m *Manager) HandleEvent(e input.Event) bool {
	for i := len(m.stack) - 1; i >= 0; i-- {
		if m.stack[i].HandleEvent(e) {
			return true
		}
	}
	return false
}

// Draw draws every scene from the bottom up.
func (m *Manager) Draw(pass gpu.RenderPass) {
	for _, s := range m.stack {
		s.Draw(pass)
	}
}

// Close exits every scene and drops queued changes.
func (m *Manager) Close() error {
	m.pending = nil
	return m.popAll()
}

func (m *Manager) apply() error {
	changes := m.pending
	m.pending = nil

	for i, c := range changes {
		m.log.Debug("scene change", zap.Stringer("action", c.action), zap.Int("depth", len(m.stack)))

		var err error
		switch c.action {
		case actionPush:
			err = m.push(c.scene)
		case actionPop:
			err = m.pop()
		case actionReplace:
			if err = m.pop(); err == nil {
				err = m.push(c.scene)
			}
		case actionClear:
			err = m.popAll()
		}
		if err != nil {
			// unapplied changes go ahead of any queued meanwhile
			m.pending = append(changes[i+1:len(changes):len(changes)], m.pending...)
			return fmt.Errorf("scene %s: %w", c.action, err)
		}
	}
	return nil
}

func (m *Manager) push(s Scene) error {
	if err := s.Enter(); err != nil {
		return err
	}
	m.stack = append(m.stack, s)
	return nil
}

func (m *Manager) pop() error {
	top := m.Top()
	if top == nil {
		return nil
	}
	m.stack[len(m.stack)-1] = nil
	m.stack = m.stack[:len(m.stack)-1]
	return top.Exit()
}

func (m *Manager) popAll() error {
	var err error
	for len(m.stack) > 0 {
		err = multierr.Append(err, m.pop())
	}
	return err
}
