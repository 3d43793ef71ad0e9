package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/boxsim/internal/geom"
	"github.com/san-kum/boxsim/internal/physics"
)

func TestAddRemove(t *testing.T) {
	a := physics.New(physics.WithName("a"))
	b := physics.New(physics.WithName("b"))
	s := New(a, b)

	s.Add(a)
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	if !s.Remove(a) {
		t.Fatal("Remove(a) = false")
	}
	if a.Updatable() {
		t.Error("removed body should be disabled")
	}
	if s.Remove(a) {
		t.Error("second Remove should report false")
	}
	if got := s.Bodies(); len(got) != 1 || got[0] != b {
		t.Errorf("Bodies() = %v", got)
	}

	a.TickCollisions()
	if a.IsColliding() || a.IsOverlapping() {
		t.Error("detached body should not see former members")
	}
}

func TestFind(t *testing.T) {
	s := New(physics.New(physics.WithName("floor")), physics.New(physics.WithName("crate")))

	if b, ok := s.Find("crate"); !ok || b.Name() != "crate" {
		t.Errorf("Find(crate) = %v, %v", b, ok)
	}
	if _, ok := s.Find("missing"); ok {
		t.Error("Find(missing) should fail")
	}
}

func TestTickRecordsContactsBothWays(t *testing.T) {
	floor := physics.New(physics.WithName("floor"), physics.WithKinematic(), physics.WithSize(10, 1, 10))
	box := physics.New(physics.WithName("box"), physics.WithPosition(mgl64.Vec3{0, 1, 0}))
	s := New(floor, box)

	s.Tick(0.01)

	if !box.IsCollidingWith(floor, geom.Bottom) {
		t.Error("box should rest on floor")
	}
	if !floor.IsCollidingWith(box, geom.Top) {
		t.Error("floor should carry box")
	}
	if s.Steps() != 1 || s.Time() != 0.01 {
		t.Errorf("steps=%d time=%f", s.Steps(), s.Time())
	}
}

func TestTickOrder(t *testing.T) {
	body := physics.New(physics.WithGravity(mgl64.Vec3{}), physics.WithDrag(0))
	s := New(body)

	var seen []float64
	s.AddRunnable(func(s *Scene, dt float64) {
		seen = append(seen, body.Position().X())
		body.SetVelocity(mgl64.Vec3{1, 0, 0})
	})

	s.Tick(0.5)
	s.Tick(0.5)

	if len(seen) != 2 || seen[0] != 0 || seen[1] != 0.5 {
		t.Errorf("runnable saw positions %v, want [0 0.5]", seen)
	}
	if x := body.Position().X(); x != 1 {
		t.Errorf("x = %f, want 1", x)
	}
}

func TestDrawOrder(t *testing.T) {
	back := physics.New(physics.WithName("back"), physics.WithPosition(mgl64.Vec3{0, 0, 5}), physics.WithKinematic())
	mid1 := physics.New(physics.WithName("mid1"), physics.WithKinematic())
	front := physics.New(physics.WithName("front"), physics.WithPosition(mgl64.Vec3{0, 0, -5}), physics.WithKinematic())
	mid2 := physics.New(physics.WithName("mid2"), physics.WithPosition(mgl64.Vec3{3, 0, 0}), physics.WithKinematic())
	s := New(mid1, front, back, mid2)

	s.Tick(0.01)

	want := []string{"back", "mid1", "mid2", "front"}
	got := s.DrawOrder()
	for i, b := range got {
		if b.Name() != want[i] {
			t.Fatalf("DrawOrder()[%d] = %s, want %s", i, b.Name(), want[i])
		}
	}
	if s.Bodies()[0] != mid1 {
		t.Error("draw order must not change tick order")
	}
}

func BenchmarkTick(b *testing.B) {
	s := New(physics.New(physics.WithKinematic(), physics.WithSize(50, 1, 50)))
	for i := 0; i < 25; i++ {
		x := float64(i%5)*2 - 4
		z := float64(i/5)*2 - 4
		s.Add(physics.New(physics.WithPosition(mgl64.Vec3{x, 1 + float64(i%3), z})))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Tick(0.01)
	}
}
