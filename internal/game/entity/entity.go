// Package entity implements the actors of the demo world.
package entity

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/quadra/internal/engine/gfx"
	"github.com/Faultbox/quadra/pkg/math"
)

// State represents the current state of an entity.
type State uint8

const (
	StateIdle State = iota
	StateWalking
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWalking:
		return "walking"
	default:
		return "unknown"
	}
}

// Entity is anything the world updates and draws every frame.
type Entity interface {
	gfx.Drawable

	ID() uint32
	Name() string
	State() State
	Position() mgl32.Vec2
	Bounds() math.Rect
	Update(dt float32)
	Destroy()
}

var nextID atomic.Uint32

// NewID returns a process-unique entity id, starting at 1.
func NewID() uint32 {
	return nextID.Add(1)
}

// Base carries the identity shared by all entities.
type Base struct {
	id    uint32
	name  string
	state State
}

// NewBase allocates an id for an entity named name.
func NewBase(name string) Base {
	return Base{id: NewID(), name: name}
}

// ID returns the entity id.
func (b *Base) ID() uint32 { return b.id }

// Name returns the display name.
func (b *Base) Name() string { return b.name }

// State returns the current state.
func (b *Base) State() State { return b.state }
