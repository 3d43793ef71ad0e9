package geom

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Side is one of the six faces of a box.
type Side int

const (
	Left Side = iota
	Right
	Bottom
	Top
	Back
	Front
)

// NoSide is returned by SideFromNormal for a zero direction.
const NoSide Side = -1

// Sides lists the faces in penetration-scan order.
var Sides = [6]Side{Left, Right, Bottom, Top, Back, Front}

var sideNames = [6]string{"left", "right", "bottom", "top", "back", "front"}

func (s Side) String() string {
	if s < Left || s > Front {
		return "none"
	}
	return sideNames[s]
}

// ParseSide accepts the lower-case face names.
func ParseSide(name string) (Side, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range sideNames {
		if n == name {
			return Side(i), nil
		}
	}
	return NoSide, fmt.Errorf("unknown side %q", name)
}

// Opposite returns the face across the box.
func (s Side) Opposite() Side {
	return s ^ 1
}

// NormalAxis is the axis the face's outward normal lies on.
func (s Side) NormalAxis() Axis {
	return Axis(s / 2)
}

// Sign is -1 for left/bottom/back and +1 for right/top/front.
func (s Side) Sign() float64 {
	if s%2 == 0 {
		return -1
	}
	return 1
}

// Normal is the outward unit normal of the face.
func (s Side) Normal() mgl64.Vec3 {
	var n mgl64.Vec3
	n[s.NormalAxis()] = s.Sign()
	return n
}

// SideFromNormal maps an axis and a direction to the face pointing that way.
// A zero direction has no face.
func SideFromNormal(a Axis, direction float64) Side {
	switch {
	case direction < 0:
		return Side(a * 2)
	case direction > 0:
		return Side(a*2 + 1)
	}
	return NoSide
}

// SideSet is a bitmask of faces.
type SideSet uint8

// AllSides contains all six faces.
const AllSides SideSet = 1<<6 - 1

func NewSideSet(sides ...Side) SideSet {
	var s SideSet
	for _, side := range sides {
		s |= 1 << side
	}
	return s
}

// Valid reports whether s is one of the six faces.
func (s Side) Valid() bool { return s >= Left && s <= Front }

func (s SideSet) Has(side Side) bool {
	if !side.Valid() {
		return false
	}
	return s&(1<<side) != 0
}

// HasAll reports whether every given side is in the set.
func (s SideSet) HasAll(sides ...Side) bool {
	for _, side := range sides {
		if !s.Has(side) {
			return false
		}
	}
	return true
}

func (s SideSet) Empty() bool { return s == 0 }

// Slice returns members in Sides order.
func (s SideSet) Slice() []Side {
	out := make([]Side, 0, 6)
	for _, side := range Sides {
		if s.Has(side) {
			out = append(out, side)
		}
	}
	return out
}

// ParseSideSet reads face names; "all" and "none" are shorthands.
func ParseSideSet(names []string) (SideSet, error) {
	var s SideSet
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "all":
			s = AllSides
			continue
		case "none":
			continue
		}
		side, err := ParseSide(n)
		if err != nil {
			return 0, err
		}
		s |= 1 << side
	}
	return s, nil
}
