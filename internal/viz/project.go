package viz

import (
	"math"

	"github.com/san-kum/boxsim/internal/physics"
)

// Projection maps world X/Y onto canvas pixels, keeping one scale for both
// axes so boxes keep their shape.
type Projection struct {
	minX, minY float64
	scale      float64
	pixelH     int
}

// Fit returns a projection that shows every body with a margin of one unit
// on each side.
func Fit(bodies []*physics.Body, pixelW, pixelH int) Projection {
	if len(bodies) == 0 || pixelW <= 1 || pixelH <= 1 {
		return Projection{scale: 1, pixelH: pixelH}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, b := range bodies {
		lo, hi := b.Box().Min(), b.Box().Max()
		minX, maxX = math.Min(minX, lo.X()), math.Max(maxX, hi.X())
		minY, maxY = math.Min(minY, lo.Y()), math.Max(maxY, hi.Y())
	}
	minX, minY = minX-1, minY-1
	maxX, maxY = maxX+1, maxY+1

	scale := math.Min(float64(pixelW-1)/(maxX-minX), float64(pixelH-1)/(maxY-minY))
	return Projection{minX: minX, minY: minY, scale: scale, pixelH: pixelH}
}

// Point converts world coordinates to a pixel. Y grows downward on screen.
func (p Projection) Point(x, y float64) (int, int) {
	px := int(math.Round((x - p.minX) * p.scale))
	py := p.pixelH - 1 - int(math.Round((y-p.minY)*p.scale))
	return px, py
}

// Rect returns the pixel corners of b's X/Y face.
func (p Projection) Rect(b *physics.Body) (x0, y0, x1, y1 int) {
	lo, hi := b.Box().Min(), b.Box().Max()
	x0, y0 = p.Point(lo.X(), hi.Y())
	x1, y1 = p.Point(hi.X(), lo.Y())
	return x0, y0, x1, y1
}
