package config

// Presets mirror the scenarios the simulator is normally run with:
// an empty tunnel for calibration, bluff-body and airfoil tunnels,
// and the radiator test section.
var Presets = map[string]func() *Config{
	"tunnel": Default,

	"cylinder": func() *Config {
		c := Default()
		c.Flow.Walls = "noslip"
		c.Obstacles = []ObstacleConfig{
			{Kind: "circle", X: 1.2, Y: 1.0, Radius: 0.15},
		}
		return c
	},

	"airfoil": func() *Config {
		c := Default()
		c.Obstacles = []ObstacleConfig{
			{Kind: "airfoil", X: 1.2, Y: 1.0, Chord: 0.6, Thickness: 0.12, AngleDeg: 8},
		}
		return c
	},

	"radiator": func() *Config {
		c := Default()
		c.Radiator = &RadiatorConfig{
			X: 2.0, Y: 1.0,
			Width: 0.08, Height: 0.6,
			AngleDeg:   15,
			Porosity:   0.7,
			Resistance: 2e5,
		}
		return c
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

// ListPresets returns the preset names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
