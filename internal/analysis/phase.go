package analysis

import (
	"strings"

	"github.com/san-kum/boxsim/internal/geom"
	"github.com/san-kum/boxsim/internal/sim"
)

type Point struct{ X, Y float64 }

// PhasePortrait holds position (X) against velocity (Y) of one body along
// one axis.
type PhasePortrait struct {
	Body   string
	Axis   geom.Axis
	Points []Point
}

// NewPhasePortrait reads the trajectory of body from result. It returns nil
// when the body never appears.
func NewPhasePortrait(result *sim.Result, body string, axis geom.Axis) *PhasePortrait {
	portrait := &PhasePortrait{
		Body:   body,
		Axis:   axis,
		Points: make([]Point, 0, len(result.Frames)),
	}
	for _, f := range result.Frames {
		if b, ok := f.Body(body); ok {
			portrait.Points = append(portrait.Points, Point{X: b.Position[axis], Y: b.Velocity[axis]})
		}
	}
	if len(portrait.Points) == 0 {
		return nil
	}
	return portrait
}

// ASCII plots the portrait on a width by height character grid.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	// pad by 10% so extremes don't sit on the border
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	toCol := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	toRow := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	// zero velocity line
	if minY <= 0 && minY+rangeY >= 0 {
		row := toRow(0)
		for col := 0; col < width; col++ {
			canvas[row][col] = '─'
		}
	}

	for _, pt := range p.Points {
		row, col := toRow(pt.Y), toCol(pt.X)
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
