package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box is an axis-aligned box positioned by its center.
type Box struct {
	Position mgl64.Vec3
	Width    float64
	Height   float64
	Depth    float64
}

// NewBox returns a box at the origin with the given dimensions.
func NewBox(width, height, depth float64) Box {
	return Box{Width: width, Height: height, Depth: depth}
}

// Size returns width, height and depth as a vector.
func (b Box) Size() mgl64.Vec3 {
	return mgl64.Vec3{b.Width, b.Height, b.Depth}
}

func (b Box) Min() mgl64.Vec3 {
	return b.Position.Sub(b.Size().Mul(0.5))
}

func (b Box) Max() mgl64.Vec3 {
	return b.Position.Add(b.Size().Mul(0.5))
}

// Overlaps reports whether the boxes intersect on all three axes.
// Touching faces count as overlapping.
func (b Box) Overlaps(other Box) bool {
	aMin, aMax := b.Min(), b.Max()
	bMin, bMax := other.Min(), other.Max()
	return aMax.X() >= bMin.X() && aMin.X() <= bMax.X() &&
		aMax.Y() >= bMin.Y() && aMin.Y() <= bMax.Y() &&
		aMax.Z() >= bMin.Z() && aMin.Z() <= bMax.Z()
}

// FaceArea is the area of the faces whose normal lies on axis a.
func (b Box) FaceArea(a Axis) float64 {
	switch a {
	case X:
		return b.Height * b.Depth
	case Y:
		return b.Width * b.Depth
	default:
		return b.Width * b.Height
	}
}

// Penetrations returns, per side of b, the distance between that face and the
// facing face of other, in Sides order.
func (b Box) Penetrations(other Box) [6]float64 {
	aMin, aMax := b.Min(), b.Max()
	bMin, bMax := other.Min(), other.Max()
	var out [6]float64
	for _, a := range Axes {
		out[a*2] = math.Abs(aMin[a] - bMax[a])
		out[a*2+1] = math.Abs(aMax[a] - bMin[a])
	}
	return out
}
