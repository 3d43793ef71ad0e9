// Package scene owns a set of bodies and advances them together.
//
// A tick runs in two phases: every body integrates its motion first, then
// every body resolves its collisions. Contacts seen by the motion phase are
// therefore always the ones recorded at the end of the previous tick.
package scene

import (
	"sort"

	"github.com/san-kum/boxsim/internal/physics"
)

// Runnable is called at the start of every tick, before any body moves.
type Runnable func(s *Scene, dt float64)

type Scene struct {
	bodies    []*physics.Body
	runnables []Runnable
	drawOrder []*physics.Body
	time      float64
	steps     int
}

func New(bodies ...*physics.Body) *Scene {
	s := &Scene{}
	for _, b := range bodies {
		s.Add(b)
	}
	return s
}

// Add attaches b to the scene and enables it. Adding a body twice is a no-op.
func (s *Scene) Add(b *physics.Body) {
	if b == nil || s.index(b) >= 0 {
		return
	}
	s.bodies = append(s.bodies, b)
	b.SetSceneObjects(s)
	b.SetUpdatable(true)
	s.sortDrawOrder()
}

// Remove detaches b and disables it. It reports whether b was a member.
func (s *Scene) Remove(b *physics.Body) bool {
	i := s.index(b)
	if i < 0 {
		return false
	}
	s.bodies = append(s.bodies[:i], s.bodies[i+1:]...)
	b.SetSceneObjects(nil)
	b.SetUpdatable(false)
	s.sortDrawOrder()
	return true
}

// Bodies returns the members in insertion order, which is also tick order.
// The slice is shared with the scene and must not be modified.
func (s *Scene) Bodies() []*physics.Body { return s.bodies }

func (s *Scene) Len() int { return len(s.bodies) }

// Find returns the first body with the given name.
func (s *Scene) Find(name string) (*physics.Body, bool) {
	for _, b := range s.bodies {
		if b.Name() == name {
			return b, true
		}
	}
	return nil, false
}

func (s *Scene) AddRunnable(r Runnable) { s.runnables = append(s.runnables, r) }

// Time is the simulated time accumulated by Tick.
func (s *Scene) Time() float64 { return s.time }

func (s *Scene) Steps() int { return s.steps }

// Tick advances the scene by dt seconds.
func (s *Scene) Tick(dt float64) {
	for _, r := range s.runnables {
		r(s, dt)
	}
	for _, b := range s.bodies {
		b.TickMotion(dt)
	}
	for _, b := range s.bodies {
		b.TickCollisions()
	}
	s.time += dt
	s.steps++
	s.sortDrawOrder()
}

// DrawOrder returns the bodies sorted from high to low Z as of the last
// tick. Ties keep insertion order.
func (s *Scene) DrawOrder() []*physics.Body {
	out := make([]*physics.Body, len(s.drawOrder))
	copy(out, s.drawOrder)
	return out
}

func (s *Scene) sortDrawOrder() {
	s.drawOrder = append(s.drawOrder[:0], s.bodies...)
	sort.SliceStable(s.drawOrder, func(i, j int) bool {
		return s.drawOrder[i].Position().Z() > s.drawOrder[j].Position().Z()
	})
}

func (s *Scene) index(b *physics.Body) int {
	for i, o := range s.bodies {
		if o == b {
			return i
		}
	}
	return -1
}
