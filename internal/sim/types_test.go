package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestFrame_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		body  BodyState
		valid bool
	}{
		{"zeros", BodyState{}, true},
		{"normal", BodyState{Position: mgl64.Vec3{1, 2, 3}, Velocity: mgl64.Vec3{-1, 0, 4}}, true},
		{"NaN position", BodyState{Position: mgl64.Vec3{1, math.NaN(), 0}}, false},
		{"+Inf velocity", BodyState{Velocity: mgl64.Vec3{0, 0, math.Inf(1)}}, false},
		{"-Inf position", BodyState{Position: mgl64.Vec3{math.Inf(-1), 0, 0}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Frame{Bodies: []BodyState{{}, tt.body}}
			if got := f.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestConfigSteps(t *testing.T) {
	tests := []struct {
		cfg  Config
		want int
	}{
		{Config{Dt: 0.01, Duration: 1}, 100},
		{Config{Dt: 0.1, Duration: 0.3}, 3},
		{Config{Dt: 0.25, Duration: 1.1}, 4},
	}
	for _, tt := range tests {
		if got := tt.cfg.Steps(); got != tt.want {
			t.Errorf("Steps(%+v) = %d, want %d", tt.cfg, got, tt.want)
		}
	}
}

func TestSimError(t *testing.T) {
	err := SimError{Time: 1.5, Step: 150, Wrapped: ErrInvalidState}
	expected := "step 150 (t=1.5000): sim: invalid state (NaN or Inf detected)"
	if err.Error() != expected {
		t.Errorf("SimError.Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimError should unwrap to its cause")
	}
}

func TestFrameBody(t *testing.T) {
	f := Frame{Bodies: []BodyState{{Name: "a"}, {Name: "b", Position: mgl64.Vec3{1, 2, 3}}}}

	if b, ok := f.Body("b"); !ok || b.Position.Z() != 3 {
		t.Errorf("Body(b) = %+v, %v", b, ok)
	}
	if _, ok := f.Body("c"); ok {
		t.Error("Body(c) should not be found")
	}
}
