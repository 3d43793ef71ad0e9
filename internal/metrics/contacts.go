package metrics

import (
	"math"

	"github.com/san-kum/boxsim/internal/physics"
	"github.com/san-kum/boxsim/internal/scene"
)

// Contacts is the mean number of touching body pairs per step. A pair counts
// once even when both bodies record the contact.
type Contacts struct {
	name    string
	samples int
	total   int
}

func NewContacts() *Contacts {
	return &Contacts{name: "contacts"}
}

func (c *Contacts) Name() string { return c.name }

func (c *Contacts) Observe(s *scene.Scene, t float64) {
	c.total += len(contactPairs(s))
	c.samples++
}

func (c *Contacts) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.total) / float64(c.samples)
}

func (c *Contacts) Reset() {
	c.total = 0
	c.samples = 0
}

// Penetration is the deepest overlap left between touching bodies after
// collision resolution, over all steps.
type Penetration struct {
	name string
	max  float64
}

func NewPenetration() *Penetration {
	return &Penetration{name: "penetration"}
}

func (p *Penetration) Name() string { return p.name }

func (p *Penetration) Observe(s *scene.Scene, t float64) {
	for _, pair := range contactPairs(s) {
		p.max = math.Max(p.max, depth(pair[0], pair[1]))
	}
}

func (p *Penetration) Value() float64 { return p.max }

func (p *Penetration) Reset() { p.max = 0 }

func depth(a, b *physics.Body) float64 {
	if !a.Box().Overlaps(b.Box()) {
		return 0
	}
	pen := a.Box().Penetrations(b.Box())
	d := pen[0]
	for _, v := range pen[1:] {
		d = math.Min(d, v)
	}
	return d
}

func contactPairs(s *scene.Scene) [][2]*physics.Body {
	type key struct{ a, b *physics.Body }
	seen := make(map[key]struct{})
	var pairs [][2]*physics.Body
	for _, a := range s.Bodies() {
		for _, b := range a.CollidingObjects() {
			if _, ok := seen[key{b, a}]; ok {
				continue
			}
			if _, ok := seen[key{a, b}]; ok {
				continue
			}
			seen[key{a, b}] = struct{}{}
			pairs = append(pairs, [2]*physics.Body{a, b})
		}
	}
	return pairs
}
