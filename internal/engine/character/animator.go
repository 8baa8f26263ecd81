// Package character provides sprite-sheet animation and four-way movement
// for walking characters.
package character

import "github.com/Faultbox/quadra/pkg/math"

// Animator holds one walk animation per direction and tracks which one plays.
// Standing still keeps the last facing and rewinds its animation.
type Animator struct {
	walks   map[Direction]*Animation
	facing  Direction
	walking bool
}

// NewAnimator starts facing down.
func NewAnimator() *Animator {
	return &Animator{walks: make(map[Direction]*Animation), facing: Down}
}

// Set registers the animation for dir.
func (a *Animator) Set(dir Direction, anim *Animation) {
	a.walks[dir] = anim
}

// Facing returns the direction of the current animation.
func (a *Animator) Facing() Direction { return a.facing }

// Walking reports whether the last update moved the character.
func (a *Animator) Walking() bool { return a.walking }

// Current returns the animation for the facing direction, or nil.
func (a *Animator) Current() *Animation { return a.walks[a.facing] }

// Update switches to dir and advances its animation by dt. A change of
// direction restarts the new animation. It returns the cell to show and
// whether it differs from the previous update.
func (a *Animator) Update(dir Direction, dt float32) (frame math.Rect, changed bool) {
	if dir == None {
		if a.walking {
			a.walking = false
			if cur := a.Current(); cur != nil {
				cur.Reset()
				changed = true
			}
		}
		frame, _ = a.frame()
		return frame, changed
	}

	if dir != a.facing || !a.walking {
		changed = dir != a.facing
		a.facing = dir
		a.walking = true
		if cur := a.Current(); cur != nil {
			cur.Reset()
		}
	}
	if cur := a.Current(); cur != nil && cur.Update(dt) {
		changed = true
	}
	frame, _ = a.frame()
	return frame, changed
}

func (a *Animator) frame() (math.Rect, bool) {
	cur := a.Current()
	if cur == nil {
		return math.Rect{}, false
	}
	return cur.Frame()
}
