package config

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/boxsim/internal/geom"
	"github.com/san-kum/boxsim/internal/physics"
	"github.com/san-kum/boxsim/internal/scene"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 5.0
)

var (
	ErrNoBodies    = errors.New("config: scene has no bodies")
	ErrInvalidBody = errors.New("config: invalid body")
)

// Vec is a YAML friendly [x, y, z] triple.
type Vec [3]float64

func (v Vec) Vec3() mgl64.Vec3 { return mgl64.Vec3(v) }

// Faces is a per-face coefficient. In YAML it is either one number for all
// six faces or a list of six in left, right, bottom, top, back, front order.
type Faces []float64

// Uniform returns Faces with v on every face.
func Uniform(v float64) Faces { return Faces{v} }

func (f *Faces) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := node.Decode(&v); err != nil {
			return err
		}
		*f = Faces{v}
		return nil
	case yaml.SequenceNode:
		var vs []float64
		if err := node.Decode(&vs); err != nil {
			return err
		}
		if len(vs) != 6 {
			return fmt.Errorf("line %d: want 6 face values, got %d", node.Line, len(vs))
		}
		*f = vs
		return nil
	}
	return fmt.Errorf("line %d: want a number or a list of 6 numbers", node.Line)
}

func (f Faces) MarshalYAML() (any, error) {
	if len(f) == 1 {
		return f[0], nil
	}
	return []float64(f), nil
}

// perSide expands f to one value per face.
func (f Faces) perSide() ([6]float64, error) {
	var out [6]float64
	switch len(f) {
	case 1:
		for i := range out {
			out[i] = f[0]
		}
	case 6:
		copy(out[:], f)
	default:
		return out, fmt.Errorf("want 1 or 6 face values, got %d", len(f))
	}
	return out, nil
}

type Config struct {
	Name     string       `yaml:"name"`
	Dt       float64      `yaml:"dt"`
	Duration float64      `yaml:"duration"`
	Seed     int64        `yaml:"seed"`
	Jitter   float64      `yaml:"jitter,omitempty"`
	Gravity  *Vec         `yaml:"gravity,omitempty"`
	Bodies   []BodyConfig `yaml:"bodies"`
}

// BodyConfig describes one box. Nil fields keep the physics defaults.
type BodyConfig struct {
	Name             string   `yaml:"name"`
	Position         Vec      `yaml:"position"`
	Size             *Vec     `yaml:"size,omitempty"`
	Velocity         *Vec     `yaml:"velocity,omitempty"`
	Acceleration     *Vec     `yaml:"acceleration,omitempty"`
	Gravity          *Vec     `yaml:"gravity,omitempty"`
	Mass             *float64 `yaml:"mass,omitempty"`
	Drag             Faces    `yaml:"drag,omitempty"`
	Roughness        Faces    `yaml:"roughness,omitempty"`
	Collidable       []string `yaml:"collidable,omitempty"`
	Kinematic        *string  `yaml:"kinematic,omitempty"`
	Pushable         *string  `yaml:"pushable,omitempty"`
	TerminalVelocity *Vec     `yaml:"terminal_velocity,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:     "drop",
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Bodies: []BodyConfig{
			Static("floor", Vec{0, 0, 0}, Vec{20, 1, 20}),
			Box("box", Vec{0, 3, 0}),
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{Dt: DefaultDt, Duration: DefaultDuration}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if c.Jitter < 0 {
		return fmt.Errorf("jitter must not be negative, got %f", c.Jitter)
	}
	if len(c.Bodies) == 0 {
		return ErrNoBodies
	}
	names := make(map[string]struct{}, len(c.Bodies))
	for i, bc := range c.Bodies {
		if _, err := bc.options(nil); err != nil {
			return fmt.Errorf("body %d (%s): %w", i, bc.Name, err)
		}
		if bc.Name == "" {
			continue
		}
		if _, dup := names[bc.Name]; dup {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidBody, bc.Name)
		}
		names[bc.Name] = struct{}{}
	}
	return nil
}

// Build creates a scene from the config. Bodies that can move are displaced
// by up to Jitter on every kinematic axis, drawn from a source seeded with
// Seed, so equal configs always build equal scenes.
func (c *Config) Build() (*scene.Scene, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(c.Seed))
	s := scene.New()
	for i, bc := range c.Bodies {
		opts, err := bc.options(c.Gravity)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		b := physics.New(opts...)
		if b.Name() == "" {
			b.SetName(fmt.Sprintf("body%d", i))
		}
		if c.Jitter > 0 {
			p := b.Position()
			for _, a := range b.KinematicAxes().Slice() {
				p[a] += (rng.Float64()*2 - 1) * c.Jitter
			}
			b.SetPosition(p)
		}
		s.Add(b)
	}
	return s, nil
}

// Steps is the number of ticks a run of Duration takes.
func (c *Config) Steps() int { return int(c.Duration / c.Dt) }

func (bc BodyConfig) options(sceneGravity *Vec) ([]physics.Option, error) {
	opts := []physics.Option{
		physics.WithName(bc.Name),
		physics.WithPosition(bc.Position.Vec3()),
	}

	if bc.Size != nil {
		s := *bc.Size
		if s[0] <= 0 || s[1] <= 0 || s[2] <= 0 {
			return nil, fmt.Errorf("%w: size must be positive, got %v", ErrInvalidBody, s)
		}
		opts = append(opts, physics.WithSize(s[0], s[1], s[2]))
	}
	if bc.Velocity != nil {
		opts = append(opts, physics.WithVelocity(bc.Velocity.Vec3()))
	}
	if bc.Acceleration != nil {
		opts = append(opts, physics.WithAcceleration(bc.Acceleration.Vec3()))
	}
	switch {
	case bc.Gravity != nil:
		opts = append(opts, physics.WithGravity(bc.Gravity.Vec3()))
	case sceneGravity != nil:
		opts = append(opts, physics.WithGravity(sceneGravity.Vec3()))
	}
	if bc.Mass != nil {
		opts = append(opts, physics.WithMass(*bc.Mass))
	}
	if bc.Drag != nil {
		drag, err := bc.Drag.perSide()
		if err != nil {
			return nil, fmt.Errorf("%w: drag: %w", ErrInvalidBody, err)
		}
		opts = append(opts, physics.WithDragAll(drag))
	}
	if bc.Roughness != nil {
		roughness, err := bc.Roughness.perSide()
		if err != nil {
			return nil, fmt.Errorf("%w: roughness: %w", ErrInvalidBody, err)
		}
		opts = append(opts, physics.WithRoughnessAll(roughness))
	}
	if bc.Collidable != nil {
		sides, err := geom.ParseSideSet(bc.Collidable)
		if err != nil {
			return nil, fmt.Errorf("%w: collidable: %w", ErrInvalidBody, err)
		}
		opts = append(opts, physics.WithCollidable(sides.Slice()...))
	}
	if bc.Kinematic != nil {
		axes, err := geom.ParseAxisSet(*bc.Kinematic)
		if err != nil {
			return nil, fmt.Errorf("%w: kinematic: %w", ErrInvalidBody, err)
		}
		opts = append(opts, physics.WithKinematic(axes.Slice()...))
	}
	if bc.Pushable != nil {
		axes, err := geom.ParseAxisSet(*bc.Pushable)
		if err != nil {
			return nil, fmt.Errorf("%w: pushable: %w", ErrInvalidBody, err)
		}
		opts = append(opts, physics.WithPushable(axes.Slice()...))
	}
	if bc.TerminalVelocity != nil {
		opts = append(opts, physics.WithTerminalVelocity(bc.TerminalVelocity.Vec3()))
	}
	return opts, nil
}

// Box is a default unit crate at pos.
func Box(name string, pos Vec) BodyConfig {
	return BodyConfig{Name: name, Position: pos}
}

// Static is an immovable box, such as a floor or wall.
func Static(name string, pos, size Vec) BodyConfig {
	none := ""
	return BodyConfig{Name: name, Position: pos, Size: &size, Kinematic: &none}
}
