package physics_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/boxsim/internal/geom"
	"github.com/san-kum/boxsim/internal/physics"
)

type world []*physics.Body

func (w world) Bodies() []*physics.Body { return w }

func (w world) step(dt float64, n int) {
	for i := 0; i < n; i++ {
		for _, b := range w {
			b.TickMotion(dt)
		}
		for _, b := range w {
			b.TickCollisions()
		}
	}
}

func newWorld(bodies ...*physics.Body) world {
	w := world(bodies)
	for _, b := range w {
		b.SetSceneObjects(w)
	}
	return w
}

var _ = Describe("Body", func() {
	const dt = 0.01

	Context("stacked on a static floor", func() {
		var (
			floor, lower, upper *physics.Body
			w                   world
		)

		BeforeEach(func() {
			floor = physics.New(physics.WithName("floor"), physics.WithKinematic(), physics.WithSize(10, 1, 10))
			lower = physics.New(physics.WithName("lower"), physics.WithPosition(mgl64.Vec3{0, 1.2, 0}))
			upper = physics.New(physics.WithName("upper"), physics.WithPosition(mgl64.Vec3{0, 2.6, 0}))
			w = newWorld(floor, lower, upper)
		})

		It("settles into a resting stack", func() {
			w.step(dt, 300)

			Expect(lower.Position().Y()).To(BeNumerically("~", 1, 1e-3))
			Expect(upper.Position().Y()).To(BeNumerically("~", 2, 1e-3))
			Expect(lower.IsCollidingWith(floor, geom.Bottom)).To(BeTrue())
			Expect(upper.IsCollidingWith(lower, geom.Bottom)).To(BeTrue())
		})

		It("records contacts from both sides after a full tick", func() {
			w.step(dt, 300)

			Expect(lower.IsCollidingWith(upper, geom.Top)).To(BeTrue())
			Expect(floor.IsCollidingWith(lower, geom.Top)).To(BeTrue())
		})

		It("never sinks into the floor", func() {
			for i := 0; i < 200; i++ {
				w.step(dt, 1)
				Expect(lower.Box().Min().Y()).To(BeNumerically(">=", floor.Box().Max().Y()-1e-6))
			}
		})
	})

	Context("pushing along the ground", func() {
		It("transfers motion to a resting crate", func() {
			noGravity := mgl64.Vec3{}
			pusher := physics.New(physics.WithGravity(noGravity), physics.WithDrag(0),
				physics.WithVelocity(mgl64.Vec3{2, 0, 0}))
			crate := physics.New(physics.WithGravity(noGravity), physics.WithDrag(0),
				physics.WithPosition(mgl64.Vec3{1.5, 0, 0}))
			w := newWorld(pusher, crate)

			w.step(dt, 60)

			Expect(crate.Velocity().X()).To(BeNumerically(">", 0))
			Expect(pusher.Velocity().X()).To(BeNumerically("<", 2))
			Expect(crate.Box().Min().X()).To(BeNumerically(">=", pusher.Box().Max().X()-1e-6))
		})

		It("stops against an immovable wall", func() {
			mover := physics.New(physics.WithGravity(mgl64.Vec3{}), physics.WithDrag(0),
				physics.WithVelocity(mgl64.Vec3{3, 0, 0}))
			wall := physics.New(physics.WithKinematic(), physics.WithPosition(mgl64.Vec3{2, 0, 0}))
			w := newWorld(mover, wall)

			w.step(dt, 100)

			Expect(mover.Velocity().X()).To(BeZero())
			Expect(mover.Position().X()).To(BeNumerically("~", 1, 1e-6))
			Expect(mover.IsCollidingWith(wall, geom.Right)).To(BeTrue())
		})
	})

	Context("with no collidable sides", func() {
		It("passes through other bodies", func() {
			floor := physics.New(physics.WithKinematic())
			ghost := physics.New(physics.WithCollidable(), physics.WithPosition(mgl64.Vec3{0, 1, 0}))
			w := newWorld(floor, ghost)

			w.step(dt, 50)

			Expect(ghost.Position().Y()).To(BeNumerically("<", 1))
			Expect(floor.CollidingObjects()).NotTo(ContainElement(ghost))
		})
	})

	Context("when disabled", func() {
		It("is neither ticked nor collided with", func() {
			floor := physics.New(physics.WithKinematic())
			box := physics.New(physics.WithPosition(mgl64.Vec3{0, 3, 0}))
			w := newWorld(floor, box)
			box.SetUpdatable(false)

			w.step(dt, 100)

			Expect(box.Position()).To(Equal(mgl64.Vec3{0, 3, 0}))
			Expect(floor.IsColliding()).To(BeFalse())
		})
	})
})
