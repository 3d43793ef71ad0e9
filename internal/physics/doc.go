// Package physics simulates axis-aligned boxes that can move, collide, push
// each other and rest on one another.
//
// A [Body] is configured with options and advanced in two phases by its
// scene:
//
//   - [Body.TickMotion] applies acceleration and gravity, friction from
//     touching faces, drag, momentum exchange and finally velocity.
//   - [Body.TickCollisions] finds the faces touching other members of the
//     scene and pushes the body back out of anything it moved into.
//
// Every body must finish TickMotion before any body runs TickCollisions.
//
//	floor := physics.New(physics.WithKinematic(), physics.WithSize(10, 1, 10))
//	crate := physics.New(physics.WithPosition(mgl64.Vec3{0, 3, 0}))
//
// Bodies only see each other through a [Membership], normally a scene.
package physics
