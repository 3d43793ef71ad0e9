package stream

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
)

var upgrader = websocket.Upgrader{
	// any origin may watch; the stream carries no secrets
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn serializes writes; gorilla connections allow one concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) Send(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

func (c *wsConn) Close() error { return c.conn.Close() }

// Handler upgrades requests to websockets and attaches them to h.
func Handler(h *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		c := &wsConn{conn: conn}

		conn.SetReadLimit(1 << 16)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		id, ok := h.join(c)
		if !ok {
			_ = c.Close()
			return
		}
		log.Printf("client %s connected from %s", id, r.RemoteAddr)

		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(pingPeriod)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := c.ping(); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Println("read:", err)
				}
				break
			}
			env, err := DecodeEnvelope(msg)
			if err != nil || env.T != MsgControl {
				continue
			}
			ctrl, err := DecodePayload[ControlMsg](env)
			if err != nil {
				log.Printf("client %s: bad control: %v", id, err)
				continue
			}
			if !h.send(Control{ClientID: id, Msg: ctrl}) {
				break
			}
		}

		h.send(Leave{ClientID: id})
		log.Printf("client %s disconnected", id)
	}
}

// Serve runs the hub and an HTTP server with the websocket endpoint at /ws.
func Serve(addr string, h *Hub) error {
	go h.Run()
	defer h.Stop()

	mux := http.NewServeMux()
	mux.Handle("/ws", Handler(h))
	log.Printf("listening on %s (ws endpoint: /ws)", addr)
	return http.ListenAndServe(addr, mux)
}
