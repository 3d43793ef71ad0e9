package stream

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/boxsim/internal/scene"
	"github.com/san-kum/boxsim/internal/sim"
)

type Conn interface {
	Send([]byte) error
	Close() error
}

// Join registers a client. The hub replies with its ID and sends it a
// welcome and the current state.
type Join struct {
	Conn  Conn
	Reply chan<- string
}

type Leave struct {
	ClientID string
}

type Control struct {
	ClientID string
	Msg      ControlMsg
}

// Reload swaps in a freshly built scene, for example after its config file
// changed on disk.
type Reload struct {
	Name  string
	Build func() (*scene.Scene, error)
}

// Hub owns one scene, ticks it at a fixed rate and broadcasts snapshots to
// every connected client. All state is confined to the Run goroutine; other
// goroutines talk to it through Inbox.
type Hub struct {
	Inbox chan any

	name           string
	dt             float64
	tickHz         int
	broadcastEvery int
	build          func() (*scene.Scene, error)
	scene          *scene.Scene
	tick           int
	paused         bool
	clients        map[string]Conn
	nextID         int
	quit           chan struct{}
	stopOnce       sync.Once
}

// NewHub builds the first scene immediately. dt is the simulated time per
// tick and need not match the wall clock tick rate.
func NewHub(name string, dt float64, build func() (*scene.Scene, error)) (*Hub, error) {
	sc, err := build()
	if err != nil {
		return nil, fmt.Errorf("build scene %s: %w", name, err)
	}
	broadcastEvery := DefaultTickHz / DefaultBroadcastHz
	if broadcastEvery <= 0 {
		broadcastEvery = 1
	}
	return &Hub{
		Inbox:          make(chan any, 256),
		name:           name,
		dt:             dt,
		tickHz:         DefaultTickHz,
		broadcastEvery: broadcastEvery,
		build:          build,
		scene:          sc,
		clients:        make(map[string]Conn),
		nextID:         1,
		quit:           make(chan struct{}),
	}, nil
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

// send delivers cmd to the Run loop. It reports false once the hub has
// stopped.
func (h *Hub) send(cmd any) bool {
	select {
	case h.Inbox <- cmd:
		return true
	case <-h.quit:
		return false
	}
}

// join registers c and waits for its ID. It reports false when the hub stops
// first.
func (h *Hub) join(c Conn) (string, bool) {
	reply := make(chan string, 1)
	if !h.send(Join{Conn: c, Reply: reply}) {
		return "", false
	}
	select {
	case id := <-reply:
		return id, true
	case <-h.quit:
		return "", false
	}
}

func (h *Hub) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(h.tickHz))
	defer ticker.Stop()

	for {
		select {
		case <-h.quit:
			for id := range h.clients {
				h.removeClient(id)
			}
			return
		case cmd := <-h.Inbox:
			h.handleCommand(cmd)
		case <-ticker.C:
			if h.paused {
				continue
			}
			h.step()
			if h.tick%h.broadcastEvery == 0 {
				h.broadcastState()
			}
		}
	}
}

func (h *Hub) step() {
	h.scene.Tick(h.dt)
	h.tick++
}

func (h *Hub) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		id := fmt.Sprintf("c%d", h.nextID)
		h.nextID++
		h.clients[id] = c.Conn
		if b, err := Encode(MsgWelcome, Welcome{ClientID: id, Scene: h.name, Dt: h.dt}); err == nil {
			_ = c.Conn.Send(b)
		}
		h.sendStateTo(c.Conn)
		c.Reply <- id
	case Leave:
		h.removeClient(c.ClientID)
	case Control:
		if _, ok := h.clients[c.ClientID]; !ok {
			return
		}
		h.applyControl(c.Msg)
	case Reload:
		sc, err := c.Build()
		if err != nil {
			log.Printf("reload %s: %v", c.Name, err)
			return
		}
		h.name, h.build, h.scene, h.tick = c.Name, c.Build, sc, 0
		h.broadcastState()
	}
}

func (h *Hub) applyControl(msg ControlMsg) {
	switch msg.Cmd {
	case CmdPause:
		h.paused = true
	case CmdResume:
		h.paused = false
	case CmdStep:
		h.step()
	case CmdReset:
		sc, err := h.build()
		if err != nil {
			log.Printf("reset %s: %v", h.name, err)
			return
		}
		h.scene, h.tick = sc, 0
	case CmdPush:
		b, ok := h.scene.Find(msg.Body)
		if !ok {
			return
		}
		b.SetVelocity(b.Velocity().Add(mgl64.Vec3(msg.Velocity)))
	default:
		return
	}
	h.broadcastState()
}

func (h *Hub) removeClient(id string) {
	if c, ok := h.clients[id]; ok {
		_ = c.Close()
	}
	delete(h.clients, id)
}

func (h *Hub) snapshot() Snapshot {
	return Snapshot{Tick: h.tick, Paused: h.paused, Frame: sim.Capture(h.scene)}
}

func (h *Hub) broadcastState() {
	b, err := Encode(MsgState, h.snapshot())
	if err != nil {
		return
	}

	var failed []string
	for id, c := range h.clients {
		if err := c.Send(b); err != nil {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		h.removeClient(id)
	}
}

func (h *Hub) sendStateTo(c Conn) {
	b, err := Encode(MsgState, h.snapshot())
	if err != nil {
		return
	}
	_ = c.Send(b)
}
