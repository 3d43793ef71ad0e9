package export

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/boxsim/internal/analysis"
	"github.com/san-kum/boxsim/internal/sim"
)

func TestFrameToSVG(t *testing.T) {
	f := sim.Frame{
		Time: 1.5,
		Bodies: []sim.BodyState{
			{Name: "near", Position: mgl64.Vec3{0, 1, -2}, Size: mgl64.Vec3{1, 1, 1}},
			{Name: "floor", Position: mgl64.Vec3{0, 0, 0}, Size: mgl64.Vec3{10, 1, 10}, Contacts: []string{"box"}},
			{Name: "far", Position: mgl64.Vec3{2, 1, 3}, Size: mgl64.Vec3{1, 1, 1}},
		},
	}

	svg := FrameToSVG(f, 400, 300)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not a complete svg document")
	}
	if n := strings.Count(svg, "<rect x="); n != 3 {
		t.Errorf("got %d body rects, want 3", n)
	}
	if strings.Index(svg, "<title>far</title>") > strings.Index(svg, "<title>near</title>") {
		t.Error("far body should be drawn before near body")
	}
	if !strings.Contains(svg, contactFill) {
		t.Error("body in contact should be highlighted")
	}
	if !strings.Contains(svg, "t=1.500") {
		t.Error("missing time label")
	}
}

func TestFrameToSVGEmpty(t *testing.T) {
	if FrameToSVG(sim.Frame{}, 100, 100) != "" {
		t.Error("empty frame should give empty output")
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	pts := []analysis.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}
	svg := TrajectoryToSVG(pts, 200, 100, "#ff0000")
	if strings.Count(svg, " L") != 2 {
		t.Errorf("path should have 2 line segments: %s", svg)
	}
	if !strings.Contains(svg, `stroke="#ff0000"`) {
		t.Error("stroke color not applied")
	}
	if TrajectoryToSVG(pts[:1], 10, 10, "#fff") != "" {
		t.Error("single point should give empty output")
	}

	flat := []analysis.Point{{X: 0, Y: 2}, {X: 0, Y: 2}}
	if strings.Contains(TrajectoryToSVG(flat, 10, 10, "#fff"), "NaN") {
		t.Error("degenerate bounds produced NaN")
	}
}
