package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/boxsim/internal/geom"
	"github.com/san-kum/boxsim/internal/physics"
	"github.com/san-kum/boxsim/internal/scene"
)

// BodyState is a snapshot of one body at the end of a tick.
type BodyState struct {
	Name     string     `json:"name"`
	Position mgl64.Vec3 `json:"position"`
	Velocity mgl64.Vec3 `json:"velocity"`
	Size     mgl64.Vec3 `json:"size"`
	Contacts []string   `json:"contacts,omitempty"`
}

type Frame struct {
	Time   float64     `json:"time"`
	Bodies []BodyState `json:"bodies"`
}

// Capture snapshots every body of s in tick order.
func Capture(s *scene.Scene) Frame {
	f := Frame{Time: s.Time(), Bodies: make([]BodyState, 0, s.Len())}
	for _, b := range s.Bodies() {
		f.Bodies = append(f.Bodies, captureBody(b))
	}
	return f
}

func captureBody(b *physics.Body) BodyState {
	bs := BodyState{
		Name:     b.Name(),
		Position: b.Position(),
		Velocity: b.Velocity(),
		Size:     b.Box().Size(),
	}
	for _, o := range b.CollidingObjects() {
		bs.Contacts = append(bs.Contacts, o.Name())
	}
	return bs
}

// IsValid reports whether every position and velocity is finite.
func (f Frame) IsValid() bool {
	for _, b := range f.Bodies {
		for i := 0; i < 3; i++ {
			if !finite(b.Position[i]) || !finite(b.Velocity[i]) {
				return false
			}
		}
	}
	return true
}

// Body returns the state of the named body.
func (f Frame) Body(name string) (BodyState, bool) {
	for _, b := range f.Bodies {
		if b.Name == name {
			return b, true
		}
	}
	return BodyState{}, false
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

type Metric interface {
	Name() string
	Observe(s *scene.Scene, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s *scene.Scene, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      5.0,
		ValidateState: true,
	}
}

// Steps is the number of ticks Run takes for this config.
func (c Config) Steps() int { return int(math.Round(c.Duration / c.Dt)) }

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Series extracts one coordinate of a body's position over the run. Frames
// where the body is missing are skipped.
func (r *Result) Series(name string, axis geom.Axis) []float64 {
	out := make([]float64, 0, len(r.Frames))
	for _, f := range r.Frames {
		if b, ok := f.Body(name); ok {
			out = append(out, b.Position[axis])
		}
	}
	return out
}

// Times returns the timestamp of every frame.
func (r *Result) Times() []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.Time
	}
	return out
}
