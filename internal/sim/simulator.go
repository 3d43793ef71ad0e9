package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/boxsim/internal/scene"
)

type Simulator struct {
	metrics   []Metric
	observers []Observer
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run ticks sc for cfg.Duration and records a frame before the first tick and
// after every tick. On cancellation the frames recorded so far are returned
// with the context error.
func (s *Simulator) Run(ctx context.Context, sc *scene.Scene, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	result := &Result{
		Frames:  make([]Frame, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Frames = append(result.Frames, Capture(sc))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		sc.Tick(cfg.Dt)
		t := sc.Time()

		for _, m := range s.metrics {
			m.Observe(sc, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(sc, t)
		}

		frame := Capture(sc)
		if cfg.ValidateState && !frame.IsValid() {
			result.Errors = append(result.Errors, SimError{Time: t, Step: i, Wrapped: ErrInvalidState})
			break
		}

		result.StepsTaken++
		result.Frames = append(result.Frames, frame)
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	return nil
}

// RunWithCallback ticks sc until cfg.Duration elapses, the context is done,
// or callback returns false. The callback sees the scene before each tick.
func (s *Simulator) RunWithCallback(ctx context.Context, sc *scene.Scene, cfg Config, callback func(*scene.Scene, float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	steps := cfg.Steps()
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(sc, sc.Time()) {
			return nil
		}

		sc.Tick(cfg.Dt)
		for _, obs := range s.observers {
			obs.OnStep(sc, sc.Time())
		}

		if cfg.ValidateState && !Capture(sc).IsValid() {
			return SimError{Time: sc.Time(), Step: i, Wrapped: ErrInvalidState}
		}
	}

	return nil
}
