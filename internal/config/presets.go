package config

import "sort"

func ptr[T any](v T) *T { return &v }

var floor = Static("floor", Vec{0, 0, 0}, Vec{20, 1, 20})

var Presets = map[string]*Config{
	"drop": {
		Name: "drop", Dt: 0.01, Duration: 3,
		Bodies: []BodyConfig{
			floor,
			Box("box", Vec{0, 4, 0}),
		},
	},
	"stack": {
		Name: "stack", Dt: 0.01, Duration: 5,
		Bodies: []BodyConfig{
			floor,
			Box("bottom", Vec{0, 1.2, 0}),
			Box("middle", Vec{0, 2.6, 0}),
			Box("top", Vec{0, 4, 0}),
		},
	},
	"push": {
		Name: "push", Dt: 0.01, Duration: 4,
		Bodies: []BodyConfig{
			floor,
			{Name: "pusher", Position: Vec{-2, 1, 0}, Velocity: &Vec{6, 0, 0}, Mass: ptr(2.0)},
			Box("crate", Vec{0, 1, 0}),
			Static("wall", Vec{6, 2, 0}, Vec{1, 3, 20}),
		},
	},
	"collide": {
		Name: "collide", Dt: 0.005, Duration: 3,
		Gravity: &Vec{0, 0, 0},
		Bodies: []BodyConfig{
			{Name: "left", Position: Vec{-3, 0, 0}, Velocity: &Vec{3, 0, 0}, Drag: Uniform(0)},
			{Name: "right", Position: Vec{3, 0, 0}, Velocity: &Vec{-3, 0, 0}, Drag: Uniform(0), Mass: ptr(3.0)},
		},
	},
	"pile": {
		Name: "pile", Dt: 0.01, Duration: 6, Seed: 7, Jitter: 0.3,
		Bodies: []BodyConfig{
			floor,
			Box("a", Vec{-1, 2, 0}),
			Box("b", Vec{1, 2, 0}),
			Box("c", Vec{0, 4, 0}),
			Box("d", Vec{0, 6, 1}),
			{Name: "e", Position: Vec{0, 8, -1}, TerminalVelocity: &Vec{0, 6, 0}},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Bodies = append([]BodyConfig(nil), p.Bodies...)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
