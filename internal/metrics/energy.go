package metrics

import (
	"math"

	"github.com/san-kum/boxsim/internal/scene"
	"github.com/san-kum/boxsim/internal/sim"
)

// KineticEnergy is the mean over all steps of the scene's total ½mv².
type KineticEnergy struct {
	name    string
	samples int
	total   float64
	last    float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(s *scene.Scene, t float64) {
	e.last = TotalKineticEnergy(s)
	e.total += e.last
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

// Last is the energy seen at the most recent step.
func (e *KineticEnergy) Last() float64 { return e.last }

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.last = 0
	e.samples = 0
}

// TotalKineticEnergy sums ½mv² over the updatable bodies of s.
func TotalKineticEnergy(s *scene.Scene) float64 {
	total := 0.0
	for _, b := range s.Bodies() {
		if !b.Updatable() {
			continue
		}
		v := b.Velocity()
		total += 0.5 * b.Mass() * v.Dot(v)
	}
	return total
}

type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(s *scene.Scene, t float64) {
	for _, b := range s.Bodies() {
		p.peak = math.Max(p.peak, b.Velocity().Len())
	}
}

func (p *PeakSpeed) Value() float64 { return p.peak }

func (p *PeakSpeed) Reset() { p.peak = 0 }

// Default returns a fresh instance of every metric in this package.
func Default() []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewPeakSpeed(),
		NewContacts(),
		NewPenetration(),
		NewStability(0.01),
	}
}
