package stream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestServerRoundTrip(t *testing.T) {
	h := startHub(t)
	srv := httptest.NewServer(Handler(h))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	read := func(want string) Envelope {
		t.Helper()
		for {
			_ = conn.SetReadDeadline(time.Now().Add(time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			env, err := DecodeEnvelope(msg)
			if err != nil {
				t.Fatal(err)
			}
			if env.T == want {
				return env
			}
		}
	}

	read(MsgWelcome)

	b, err := Encode(MsgControl, ControlMsg{Cmd: CmdPause})
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 100; i++ {
		snap, err := DecodePayload[Snapshot](read(MsgState))
		if err != nil {
			t.Fatal(err)
		}
		if snap.Paused {
			return
		}
	}
	t.Fatal("hub never reported paused")
}

func TestServerStoppedHubReleasesHandler(t *testing.T) {
	h, err := NewHub("float", 0.01, floatingBox)
	if err != nil {
		t.Fatal(err)
	}
	h.Stop()
	h.Stop()

	done := make(chan struct{})
	handler := Handler(h)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(done)
		handler(w, r)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler still blocked after the hub stopped")
	}

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("connection to a stopped hub should be closed")
	}
}
