package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/boxsim/internal/geom"
)

// TickMotion advances velocity and position by dt seconds. The stages run in
// order and each reads the velocity left by the previous one.
func (b *Body) TickMotion(dt float64) {
	if !b.updatable || b.kinematicAxes.Empty() {
		return
	}
	b.deltaTime = dt
	b.applyAcceleration()
	b.applyFriction()
	b.applyDrag()
	b.applyMomentum()
	b.applyTerminalVelocity()
	b.applyVelocity()
}

func (b *Body) applyAcceleration() {
	for _, a := range b.kinematicAxes.Slice() {
		b.velocity[a] += b.acceleration[a] + b.gravity[a]*b.deltaTime
	}
}

// applyFriction slows motion tangential to every contact face. Friction from
// a face whose normal is on one axis acts on the other two.
func (b *Body) applyFriction() {
	f := b.friction()
	for _, a := range b.kinematicAxes.Slice() {
		o1, o2 := a.Others()
		b.velocity[a] = towardZero(b.velocity[a], f[o1]+f[o2])
	}
}

func (b *Body) friction() mgl64.Vec3 {
	var out mgl64.Vec3
	for _, side := range b.CollidingSides() {
		axis := side.NormalAxis()
		if !b.kinematicAxes.Has(axis) {
			continue
		}

		f := 0.0
		count := 0
		for _, other := range b.collidingObjects[side].items {
			if !other.updatable {
				continue
			}
			f += other.roughness[side] * math.Abs(b.velocity[axis]-other.velocity[axis])
			count++
		}

		if count > 0 {
			out[axis] += (f + b.roughness[side]) / float64(count+1) * b.stackedMass(side) * b.deltaTime
		}
	}
	return out
}

// stackedMass sums the mass of b and every body transitively resting on it
// against side: contacts on the opposite face, then their contacts, and so on.
// Only updatable bodies kinematic on the side's normal axis are followed.
func (b *Body) stackedMass(side geom.Side) float64 {
	axis := side.NormalAxis()
	opposite := side.Opposite()

	total := 0.0
	queue := []*Body{b}
	visited := make(map[*Body]struct{})

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if _, ok := visited[cur]; ok {
			continue
		}
		visited[cur] = struct{}{}
		total += cur.mass

		for _, next := range cur.collidingObjects[opposite].items {
			if _, ok := visited[next]; ok {
				continue
			}
			if next.updatable && next.kinematicAxes.Has(axis) {
				queue = append(queue, next)
			}
		}
	}
	return total
}

func (b *Body) applyDrag() {
	for _, a := range b.kinematicAxes.Slice() {
		v := b.velocity[a]
		if v == 0 {
			continue
		}
		d := b.drag[geom.SideFromNormal(a, v)] * b.box.FaceArea(a) * b.deltaTime * math.Abs(v)
		b.velocity[a] = towardZero(v, d)
	}
}

// applyMomentum exchanges velocity with pushable bodies in the direction of
// motion and stops against bodies that cannot be pushed.
func (b *Body) applyMomentum() {
	b.skipMomentum = 0
	for _, a := range b.kinematicAxes.Slice() {
		v := b.velocity[a]
		side := geom.SideFromNormal(a, v)
		if side == geom.NoSide {
			continue
		}

		for _, other := range b.collidingObjects[side].items {
			if !other.updatable {
				continue
			}
			if !other.kinematicAxes.Has(a) || !other.pushableAxes.Has(a) {
				v = 0
				b.skipMomentum = b.skipMomentum.Add(a)
				continue
			}

			sum := b.mass + other.mass
			if sum <= 0 {
				continue
			}
			diff := b.mass - other.mass
			v1, v2 := v, other.velocity[a]
			v = diff/sum*v1 + 2*other.mass/sum*v2
			if !other.skipMomentum.Has(a) {
				other.velocity[a] = -diff/sum*v2 + 2*b.mass/sum*v1
			}
		}
		b.velocity[a] = v
	}
}

func (b *Body) applyTerminalVelocity() {
	for _, a := range b.kinematicAxes.Slice() {
		limit := b.terminalVelocity[a]
		if limit > 0 {
			b.velocity[a] = math.Max(-limit, math.Min(limit, b.velocity[a]))
		}
	}
}

func (b *Body) applyVelocity() {
	for _, a := range b.kinematicAxes.Slice() {
		b.box.Position[a] += b.velocity[a] * b.deltaTime
	}
}

// towardZero reduces |v| by amount without changing its sign.
func towardZero(v, amount float64) float64 {
	switch {
	case v < 0:
		return math.Min(v+amount, 0)
	case v > 0:
		return math.Max(v-amount, 0)
	}
	return v
}
