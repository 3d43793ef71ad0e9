package stream

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/san-kum/boxsim/internal/sim"
)

const (
	MsgWelcome = "welcome"
	MsgState   = "state"
	MsgControl = "control"
)

const (
	DefaultTickHz      = 60
	DefaultBroadcastHz = 30
)

// Control commands a client may send.
const (
	CmdPause  = "pause"
	CmdResume = "resume"
	CmdReset  = "reset"
	CmdStep   = "step"
	CmdPush   = "push"
)

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

type Welcome struct {
	ClientID string  `json:"client_id"`
	Scene    string  `json:"scene"`
	Dt       float64 `json:"dt"`
}

// Snapshot is the state payload broadcast to every client.
type Snapshot struct {
	Tick   int  `json:"tick"`
	Paused bool `json:"paused"`
	sim.Frame
}

// ControlMsg changes the running scene. Push adds Velocity to the named body.
type ControlMsg struct {
	Cmd      string     `json:"cmd"`
	Body     string     `json:"body,omitempty"`
	Velocity [3]float64 `json:"velocity,omitempty"`
}

var (
	errEmptyType    = errors.New("stream: empty envelope type")
	errEmptyPayload = errors.New("stream: empty payload")
)

func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, errEmptyType
	}
	if payload == nil {
		return nil, errEmptyPayload
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("decode envelope: %w", errEmptyPayload)
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	return e, nil
}

func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}
