package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/boxsim/internal/analysis"
	"github.com/san-kum/boxsim/internal/sim"
)

const (
	background  = "#0a0a0a"
	boxFill     = "#1f6f3f"
	contactFill = "#b8860b"
	stroke      = "#00ff00"
)

type bounds struct{ minX, minY, maxX, maxY float64 }

func (b bounds) pad(frac, min float64) bounds {
	dx := math.Max((b.maxX-b.minX)*frac, min)
	dy := math.Max((b.maxY-b.minY)*frac, min)
	return bounds{b.minX - dx, b.minY - dy, b.maxX + dx, b.maxY + dy}
}

// fit maps world coordinates into a width x height viewport with one scale
// for both axes. Y grows downward in SVG.
func (b bounds) fit(width, height int) func(x, y float64) (float64, float64) {
	scale := math.Min(float64(width)/(b.maxX-b.minX), float64(height)/(b.maxY-b.minY))
	return func(x, y float64) (float64, float64) {
		return (x - b.minX) * scale, float64(height) - (y-b.minY)*scale
	}
}

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// FrameToSVG draws the X/Y face of every body in f, far bodies first.
// Bodies touching something are highlighted.
func FrameToSVG(f sim.Frame, width, height int) string {
	if len(f.Bodies) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	bodies := append([]sim.BodyState(nil), f.Bodies...)
	sort.SliceStable(bodies, func(i, j int) bool {
		return bodies[i].Position.Z() > bodies[j].Position.Z()
	})

	bb := bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, b := range bodies {
		lo := b.Position.Sub(b.Size.Mul(0.5))
		hi := b.Position.Add(b.Size.Mul(0.5))
		bb.minX, bb.maxX = math.Min(bb.minX, lo.X()), math.Max(bb.maxX, hi.X())
		bb.minY, bb.maxY = math.Min(bb.minY, lo.Y()), math.Max(bb.maxY, hi.Y())
	}
	project := bb.pad(0, 1).fit(width, height)

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, "<g stroke=\"%s\" stroke-width=\"1\">\n", stroke)

	for _, b := range bodies {
		x0, y0 := project(b.Position.X()-b.Size.X()/2, b.Position.Y()+b.Size.Y()/2)
		x1, y1 := project(b.Position.X()+b.Size.X()/2, b.Position.Y()-b.Size.Y()/2)
		fill := boxFill
		if len(b.Contacts) > 0 {
			fill = contactFill
		}
		fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"><title>%s</title></rect>
`, x0, y0, x1-x0, y1-y0, fill, b.Name)
	}

	fmt.Fprintf(&sb, "</g>\n<text x=\"4\" y=\"14\" fill=\"%s\" font-family=\"monospace\" font-size=\"12\">t=%.3f</text>\n</svg>", stroke, f.Time)
	return sb.String()
}

// TrajectoryToSVG draws points as a single polyline.
func TrajectoryToSVG(points []analysis.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	bb := bounds{points[0].X, points[0].Y, points[0].X, points[0].Y}
	for _, p := range points {
		bb.minX, bb.maxX = math.Min(bb.minX, p.X), math.Max(bb.maxX, p.X)
		bb.minY, bb.maxY = math.Min(bb.minY, p.Y), math.Max(bb.maxY, p.Y)
	}
	project := bb.pad(0.1, 1e-3).fit(width, height)

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)

	for i, p := range points {
		x, y := project(p.X, p.Y)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
