package geom

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis indexes a component of an mgl64.Vec3.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

// Axes lists every axis in component order.
var Axes = [3]Axis{X, Y, Z}

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// Others returns the two axes perpendicular to a.
func (a Axis) Others() (Axis, Axis) {
	switch a {
	case X:
		return Y, Z
	case Y:
		return X, Z
	default:
		return X, Y
	}
}

// Get reads the component of v on axis a.
func Get(v mgl64.Vec3, a Axis) float64 {
	return v[a]
}

// With returns a copy of v with the component on axis a replaced.
func With(v mgl64.Vec3, a Axis, value float64) mgl64.Vec3 {
	v[a] = value
	return v
}

// AxisSet is a bitmask of axes.
type AxisSet uint8

// AllAxes contains X, Y and Z.
const AllAxes AxisSet = 1<<X | 1<<Y | 1<<Z

// NewAxisSet builds a set from the given axes.
func NewAxisSet(axes ...Axis) AxisSet {
	var s AxisSet
	for _, a := range axes {
		s |= 1 << a
	}
	return s
}

func (s AxisSet) Has(a Axis) bool { return s&(1<<a) != 0 }

// HasAll reports whether every given axis is in the set.
func (s AxisSet) HasAll(axes ...Axis) bool {
	for _, a := range axes {
		if !s.Has(a) {
			return false
		}
	}
	return true
}

func (s AxisSet) Empty() bool { return s == 0 }

func (s AxisSet) Add(a Axis) AxisSet { return s | 1<<a }

// Slice returns the members in X, Y, Z order.
func (s AxisSet) Slice() []Axis {
	out := make([]Axis, 0, 3)
	for _, a := range Axes {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s AxisSet) String() string {
	var b strings.Builder
	for _, a := range s.Slice() {
		b.WriteString(a.String())
	}
	return b.String()
}

// ParseAxisSet reads strings such as "xyz", "xz" or "" (empty set).
func ParseAxisSet(str string) (AxisSet, error) {
	var s AxisSet
	for _, r := range strings.ToLower(strings.TrimSpace(str)) {
		switch r {
		case 'x':
			s = s.Add(X)
		case 'y':
			s = s.Add(Y)
		case 'z':
			s = s.Add(Z)
		case ' ', ',':
		default:
			return 0, fmt.Errorf("unknown axis %q in %q", r, str)
		}
	}
	return s, nil
}
