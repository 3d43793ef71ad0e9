package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState indicates a body position or velocity became NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a non-positive timestep or duration.
	ErrInvalidConfig = errors.New("sim: invalid config")
)

// SimError wraps an error with the step it happened at.
type SimError struct {
	Time    float64
	Step    int
	Wrapped error
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e SimError) Unwrap() error { return e.Wrapped }
