package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/boxsim/internal/metrics"
	"github.com/san-kum/boxsim/internal/scene"
	"github.com/san-kum/boxsim/internal/watch"
)

const (
	width           = 64
	height          = 22
	historyCapacity = 300
	pushSpeed       = 2.0
	frameRate       = 60
)

type TickMsg time.Time

// ReloadMsg asks the model to rebuild its scene, typically because the scene
// file changed.
type ReloadMsg struct{ Path string }

// Builder creates a fresh scene. It is called on start, on reset and on
// reload.
type Builder func() (*scene.Scene, error)

type Model struct {
	name          string
	build         Builder
	scene         *scene.Scene
	dt            float64
	canvas        *Canvas
	running       bool
	selected      int
	energyHistory []float64
	err           error
	watcher       *watch.Watcher
}

func NewModel(name string, dt float64, build Builder) (Model, error) {
	sc, err := build()
	if err != nil {
		return Model{}, err
	}
	return Model{
		name:          name,
		build:         build,
		scene:         sc,
		dt:            dt,
		canvas:        NewCanvas(width, height),
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
	}, nil
}

// WithWatcher makes the model rebuild its scene whenever w reports a change.
func (m Model) WithWatcher(w *watch.Watcher) Model {
	m.watcher = w
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func waitForChange(w *watch.Watcher) tea.Cmd {
	return func() tea.Msg {
		path, ok := <-w.Events
		if !ok {
			return nil
		}
		return ReloadMsg{Path: path}
	}
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return tea.Batch(tick(), waitForChange(m.watcher))
	}
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "space":
			m.running = !m.running
		case "n", ".":
			if !m.running {
				m.step()
			}
		case "r":
			m.reset()
		case "tab":
			if n := m.scene.Len(); n > 0 {
				m.selected = (m.selected + 1) % n
			}
		case "left", "h":
			m.push(mgl64.Vec3{-pushSpeed, 0, 0})
		case "right", "l":
			m.push(mgl64.Vec3{pushSpeed, 0, 0})
		case "up", "k":
			m.push(mgl64.Vec3{0, pushSpeed, 0})
		case "down", "j":
			m.push(mgl64.Vec3{0, -pushSpeed, 0})
		}
	case ReloadMsg:
		m.reset()
		if m.watcher != nil {
			return m, waitForChange(m.watcher)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.scene.Tick(m.dt)
	m.energyHistory = append(m.energyHistory, metrics.TotalKineticEnergy(m.scene))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

// reset rebuilds the scene. A failed build keeps the old scene and shows the
// error.
func (m *Model) reset() {
	sc, err := m.build()
	if err != nil {
		m.err = err
		return
	}
	m.scene, m.err = sc, nil
	m.energyHistory = m.energyHistory[:0]
	if m.selected >= sc.Len() {
		m.selected = 0
	}
}

func (m *Model) push(dv mgl64.Vec3) {
	bodies := m.scene.Bodies()
	if m.selected >= len(bodies) {
		return
	}
	b := bodies[m.selected]
	b.SetVelocity(b.Velocity().Add(dv))
}

func (m *Model) draw() {
	m.canvas.Clear()
	bodies := m.scene.Bodies()
	proj := Fit(bodies, m.canvas.PixelWidth(), m.canvas.PixelHeight())
	// far to near so nearer outlines are drawn last
	order := m.scene.DrawOrder()
	for i := len(order) - 1; i >= 0; i-- {
		x0, y0, x1, y1 := proj.Rect(order[i])
		m.canvas.DrawRect(x0, y0, x1, y1)
	}
	if m.selected < len(bodies) {
		m.canvas.FillRect(proj.Rect(bodies[m.selected]))
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	if m.running {
		s.WriteString(runningStyle.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(pausedStyle.Render("PAUSED") + "\n\n")
	}
	if m.err != nil {
		s.WriteString(errorStyle.Render(m.err.Error()) + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.scene.Time())) + "\n")
	s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d", m.scene.Steps())) + "\n\n")

	for i, b := range m.scene.Bodies() {
		p, v := b.Position(), b.Velocity()
		line := fmt.Sprintf("%-8s (%5.2f,%5.2f) v=%5.2f", b.Name(), p.X(), p.Y(), v.Len())
		switch {
		case i == m.selected:
			s.WriteString(selectedStyle.Render("> "+line) + "\n")
		case b.IsColliding():
			s.WriteString("  " + contactStyle.Render(line) + "\n")
		default:
			s.WriteString("  " + valueStyle.Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("SP:Pause N:Step R:Reset Q:Quit\nTab:Select ←↑↓→:Push"))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}
