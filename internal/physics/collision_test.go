package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/boxsim/internal/geom"
)

func TestFallingBoxLandsOnFloor(t *testing.T) {
	floor := New(WithName("floor"), WithKinematic())
	box := New(WithName("box"), WithPosition(mgl64.Vec3{0, 1, 0}))
	attach(floor, box)

	tick(0.01, floor, box)

	if vy := box.Velocity().Y(); vy >= 0 {
		t.Errorf("vy after first tick = %f, want negative", vy)
	}
	if !box.IsCollidingWith(floor, geom.Bottom) {
		t.Error("box should collide with floor on its bottom side")
	}
	if !floor.IsCollidingWith(box, geom.Top) {
		t.Error("floor should collide with box on its top side")
	}
	if !near(box.Position().Y(), 1) {
		t.Errorf("box penetrated floor: y = %f", box.Position().Y())
	}

	tick(0.01, floor, box)

	if vy := box.Velocity().Y(); vy != 0 {
		t.Errorf("vy after second tick = %f, want 0", vy)
	}
	if !near(box.Position().Y(), 1) {
		t.Errorf("box kept falling: y = %f", box.Position().Y())
	}
}

func TestNonCollidableOnlyOverlaps(t *testing.T) {
	ghost := New(WithName("ghost"), WithCollidable(), WithGravity(mgl64.Vec3{}))
	solid := New(WithName("solid"), WithPosition(mgl64.Vec3{0.5, 0, 0}), WithGravity(mgl64.Vec3{}),
		WithVelocity(mgl64.Vec3{-1, 0, 0}))
	attach(ghost, solid)

	for i := 0; i < 3; i++ {
		tick(0.01, ghost, solid)
	}

	if len(solid.CollidingObjects()) != 0 || ghost.IsColliding() {
		t.Error("non-collidable body must never be a hard contact")
	}
	if !solid.IsOverlapping(ghost) || !ghost.IsOverlapping(solid) {
		t.Error("bodies should report overlap in both directions")
	}
}

func TestMismatchedCollidableSidesOverlap(t *testing.T) {
	floor := New(WithKinematic(), WithCollidable(geom.Left, geom.Right))
	box := New(WithPosition(mgl64.Vec3{0, 0.9, 0}))
	attach(floor, box)

	box.TickCollisions()

	if box.IsColliding() {
		t.Error("floor top is not collidable; contact should downgrade")
	}
	if !box.IsOverlapping(floor) {
		t.Error("expected overlap record")
	}
	if box.Position().Y() != 0.9 {
		t.Errorf("overlap should not correct position, y = %f", box.Position().Y())
	}
}

func TestAmbiguousContactSkipped(t *testing.T) {
	a := New(WithKinematic())
	b := New(WithKinematic(), WithPosition(mgl64.Vec3{1, 1, 0}))
	attach(a, b)

	a.TickCollisions()

	if a.IsColliding() || a.IsOverlapping() {
		t.Error("edge contact with two zero penetrations should be ignored")
	}
}

func TestSelfIsExcluded(t *testing.T) {
	a := New()
	attach(a)
	a.TickCollisions()

	if a.IsColliding() || a.IsOverlapping() {
		t.Error("body collided with itself")
	}
}

func TestDisabledBodyIgnored(t *testing.T) {
	floor := New(WithKinematic())
	box := New(WithPosition(mgl64.Vec3{0, 0.9, 0}))
	attach(floor, box)

	floor.SetUpdatable(false)
	box.TickCollisions()
	if box.IsColliding() || box.IsOverlapping() {
		t.Error("disabled body should not be a collision partner")
	}

	floor.SetUpdatable(true)
	box.SetUpdatable(false)
	box.TickCollisions()
	if box.IsColliding() {
		t.Error("disabled body should not tick collisions")
	}
}

func TestDetachedBodySkipsCollisions(t *testing.T) {
	a := New()
	a.TickCollisions()
	if a.IsColliding() {
		t.Error("detached body should not collide")
	}
}

func TestCollisionStateIsRecomputed(t *testing.T) {
	floor := New(WithKinematic())
	box := New(WithKinematic(), WithPosition(mgl64.Vec3{0, 1, 0}))
	attach(floor, box)

	box.TickCollisions()
	if !box.IsCollidingOn(geom.Bottom) {
		t.Fatal("expected contact")
	}

	box.SetPosition(mgl64.Vec3{0, 5, 0})
	box.TickCollisions()
	if box.IsColliding() {
		t.Error("stale contact kept after bodies separated")
	}
}

func TestCollisionQueries(t *testing.T) {
	floor := New(WithName("floor"), WithKinematic(), WithSize(10, 1, 10))
	wall := New(WithName("wall"), WithKinematic(), WithPosition(mgl64.Vec3{1, 1.5, 0}), WithSize(1, 2, 10))
	box := New(WithName("box"), WithKinematic(), WithPosition(mgl64.Vec3{0, 1, 0}))
	attach(floor, wall, box)

	box.TickCollisions()

	if !box.IsCollidingOn(geom.Bottom, geom.Right) {
		t.Errorf("colliding sides = %v", box.CollidingSides())
	}
	if box.IsCollidingOn(geom.Bottom, geom.Top) {
		t.Error("top should not be in contact")
	}
	if got := box.CollidingSides(); len(got) != 2 || got[0] != geom.Right || got[1] != geom.Bottom {
		t.Errorf("CollidingSides() = %v", got)
	}
	if got := box.CollidingObjects(geom.Bottom); len(got) != 1 || got[0] != floor {
		t.Errorf("CollidingObjects(bottom) = %v", got)
	}
	if got := box.CollidingObjects(); len(got) != 2 {
		t.Errorf("CollidingObjects() returned %d bodies, want 2", len(got))
	}
	if box.IsCollidingWith(floor, geom.Right) {
		t.Error("floor reported on wrong side")
	}
}
