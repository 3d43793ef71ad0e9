package physics

import (
	"math"

	"github.com/san-kum/boxsim/internal/geom"
)

// TickCollisions recomputes this body's contacts against every other
// updatable member of its scene and pushes it out of bodies it moved into.
// Bookkeeping is one-directional: the other body records its side of the
// contact when its own TickCollisions runs.
func (b *Body) TickCollisions() {
	if !b.updatable || b.scene == nil {
		return
	}
	b.resetCollisions()
	for _, other := range b.scene.Bodies() {
		if other == b || !other.updatable || !b.box.Overlaps(other.box) {
			continue
		}
		if b.IsCollidable() {
			b.collide(other)
		} else {
			b.overlapping.add(other)
		}
	}
}

func (b *Body) resetCollisions() {
	for _, set := range b.collidingObjects {
		set.clear()
	}
	b.overlapping.clear()
	b.specialCollisions.clear()
}

// contactSide picks the side of b with the smallest penetration into other.
// ok is false when two or more sides touch exactly, as the contact normal is
// then ambiguous.
func (b *Body) contactSide(other *Body) (side geom.Side, distance float64, ok bool) {
	pen := b.box.Penetrations(other.box)
	side, distance = geom.Left, pen[geom.Left]
	zeros := 0
	for _, s := range geom.Sides {
		if pen[s] < distance {
			side, distance = s, pen[s]
		}
		if pen[s] == 0 {
			zeros++
		}
	}
	return side, distance, zeros <= 1
}

func (b *Body) collide(other *Body) {
	side, distance, ok := b.contactSide(other)
	if !ok {
		return
	}

	if !b.collidableSides.Has(side) || !other.collidableSides.Has(side.Opposite()) {
		b.overlapping.add(other)
		return
	}

	axis := side.NormalAxis()
	v := b.velocity[axis]
	if b.kinematicAxes.Has(axis) && sign(v) == side.Sign() {
		vo := other.velocity[axis]
		if sign(vo) == -sign(v) && !other.specialCollisions.contains(b) {
			// Both bodies moved into the gap; take back only our share.
			if rel := v - vo; rel != 0 {
				distance *= v / rel
			}
			b.specialCollisions.add(other)
		}
		b.pushBack(distance, v)
	}
	b.collidingObjects[side].add(other)
}

// pushBack undoes the fraction of this tick's motion that covered distance
// along an axis moving at axisVelocity, on every kinematic axis.
func (b *Body) pushBack(distance, axisVelocity float64) {
	if axisVelocity == 0 {
		return
	}
	ratio := math.Abs(distance / axisVelocity)
	for _, a := range b.kinematicAxes.Slice() {
		b.box.Position[a] -= b.velocity[a] * ratio
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
