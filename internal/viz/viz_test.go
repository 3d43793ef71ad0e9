package viz

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/boxsim/internal/physics"
	"github.com/san-kum/boxsim/internal/scene"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("cell 0 = %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("cell 1 = %U", c.Grid[0][1])
	}
	if !c.IsSet(3, 3) || c.IsSet(1, 1) || c.IsSet(9, 9) {
		t.Error("IsSet mismatch")
	}

	c.Clear()
	if c.String() != "⠀⠀\n" {
		t.Errorf("cleared canvas = %q", c.String())
	}
}

func TestCanvasRect(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawRect(1, 1, 5, 6)

	for _, p := range [][2]int{{1, 1}, {5, 1}, {5, 6}, {1, 6}, {3, 1}, {1, 4}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("outline missing %v", p)
		}
	}
	if c.IsSet(3, 3) {
		t.Error("outline should be hollow")
	}

	c.FillRect(5, 6, 1, 1)
	if !c.IsSet(3, 3) {
		t.Error("fill should cover the interior")
	}
}

func TestFit(t *testing.T) {
	floor := physics.New(physics.WithKinematic(), physics.WithSize(8, 1, 1))
	box := physics.New(physics.WithPosition(mgl64.Vec3{0, 2, 0}))

	p := Fit([]*physics.Body{floor, box}, 101, 51)

	// world spans x -5..5 and y -1.5..3.5 including margins
	if x, y := p.Point(-5, -1.5); x != 0 || y != 50 {
		t.Errorf("bottom-left = (%d, %d)", x, y)
	}
	if x, y := p.Point(5, 3.5); x != 100 || y != 0 {
		t.Errorf("top-right = (%d, %d)", x, y)
	}

	x0, y0, x1, y1 := p.Rect(box)
	if x0 >= x1 || y0 >= y1 {
		t.Errorf("rect corners out of order: %d %d %d %d", x0, y0, x1, y1)
	}
}

func testBuilder(fail *bool) Builder {
	return func() (*scene.Scene, error) {
		if fail != nil && *fail {
			return nil, errors.New("broken")
		}
		return scene.New(
			physics.New(physics.WithName("floor"), physics.WithKinematic(), physics.WithSize(10, 1, 10)),
			physics.New(physics.WithName("box"), physics.WithPosition(mgl64.Vec3{0, 3, 0})),
		), nil
	}
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelPauseStepReset(t *testing.T) {
	m, err := NewModel("drop", 0.01, testBuilder(nil))
	if err != nil {
		t.Fatal(err)
	}

	next, _ := m.Update(TickMsg{})
	m = next.(Model)
	if m.scene.Steps() != 1 {
		t.Fatalf("steps = %d after tick", m.scene.Steps())
	}

	m = press(m, " ")
	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	if m.running || m.scene.Steps() != 1 {
		t.Errorf("paused model advanced: running=%v steps=%d", m.running, m.scene.Steps())
	}

	m = press(m, "n")
	if m.scene.Steps() != 2 {
		t.Errorf("step key did not advance: %d", m.scene.Steps())
	}

	m = press(m, "r")
	if m.scene.Steps() != 0 || len(m.energyHistory) != 0 {
		t.Error("reset should rebuild the scene")
	}
}

func TestModelSelectAndPush(t *testing.T) {
	m, _ := NewModel("drop", 0.01, testBuilder(nil))

	m = press(m, "tab")
	if m.selected != 1 {
		t.Fatalf("selected = %d", m.selected)
	}
	m = press(m, "right")
	box, _ := m.scene.Find("box")
	if box.Velocity().X() != pushSpeed {
		t.Errorf("push gave v = %v", box.Velocity())
	}

	m = press(m, "tab")
	if m.selected != 0 {
		t.Errorf("selection should wrap, got %d", m.selected)
	}
}

func TestModelReloadFailureKeepsScene(t *testing.T) {
	fail := false
	m, _ := NewModel("drop", 0.01, testBuilder(&fail))
	before := m.scene

	fail = true
	next, _ := m.Update(ReloadMsg{Path: "scene.yaml"})
	m = next.(Model)
	if m.scene != before || m.err == nil {
		t.Error("failed reload should keep the scene and record the error")
	}
	if !strings.Contains(m.View(), "broken") {
		t.Error("view should show the reload error")
	}

	fail = false
	next, _ = m.Update(ReloadMsg{Path: "scene.yaml"})
	m = next.(Model)
	if m.scene == before || m.err != nil {
		t.Error("successful reload should swap the scene")
	}
}

func TestModelView(t *testing.T) {
	m, _ := NewModel("drop", 0.01, testBuilder(nil))
	for i := 0; i < 5; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}

	view := m.View()
	for _, want := range []string{"DROP", "RUNNING", "floor", "box"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
