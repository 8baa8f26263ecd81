// Package input collects window events for the game loop.
package input

// EventType identifies an input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Key is a physical key. Values are USB HID usage IDs, the numbering SDL
// uses for scancodes.
type Key uint32

const (
	KeyUnknown Key = 0
	KeyA       Key = 4
	KeyD       Key = 7
	KeyS       Key = 22
	KeyW       Key = 26
	KeyReturn  Key = 40
	KeyEscape  Key = 41
	KeySpace   Key = 44
	KeyF12     Key = 69
	KeyRight   Key = 79
	KeyLeft    Key = 80
	KeyDown    Key = 81
	KeyUp      Key = 82
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
	WheelY int
}

// Input accumulates one frame of events and tracks held keys.
type Input struct {
	events []Event
	held   map[Key]bool
	mouseX int
	mouseY int
	quit   bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[Key]bool),
	}
}

// Begin clears the events of the previous frame. Held keys persist.
func (i *Input) Begin() {
	i.events = i.events[:0]
}

// Push records e and updates held-key and pointer state.
func (i *Input) Push(e Event) {
	switch e.Type {
	case EventQuit:
		i.quit = true
	case EventKeyDown:
		i.held[e.Key] = true
	case EventKeyUp:
		delete(i.held, e.Key)
	case EventMouseMove, EventMouseDown, EventMouseUp:
		i.mouseX, i.mouseY = e.MouseX, e.MouseY
	}
	i.events = append(i.events, e)
}

// Events returns the events pushed since Begin.
func (i *Input) Events() []Event {
	return i.events
}

// QuitRequested reports whether a quit event was received.
func (i *Input) QuitRequested() bool {
	return i.quit
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(key Key) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key && !e.Repeat {
			return true
		}
	}
	return false
}

// IsKeyDown reports whether key is currently held.
func (i *Input) IsKeyDown(key Key) bool {
	return i.held[key]
}

// Mouse returns the last pointer position.
func (i *Input) Mouse() (int, int) {
	return i.mouseX, i.mouseY
}

// Axis returns the movement direction from WASD and the arrow keys, each
// component in {-1, 0, 1}. Screen y grows downwards.
func (i *Input) Axis() (dx, dy float32) {
	if i.held[KeyA] || i.held[KeyLeft] {
		dx--
	}
	if i.held[KeyD] || i.held[KeyRight] {
		dx++
	}
	if i.held[KeyW] || i.held[KeyUp] {
		dy--
	}
	if i.held[KeyS] || i.held[KeyDown] {
		dy++
	}
	return dx, dy
}
