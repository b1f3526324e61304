// Package config loads, validates and materializes simulation
// scenarios. A scenario is a YAML document (or a named preset)
// describing the grid, fluid, inflow, obstacles and the radiator
// under test.
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/mkarlsen/radflow/internal/grid"
	"github.com/mkarlsen/radflow/internal/obstacle"
	"github.com/mkarlsen/radflow/internal/solver"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt        = 1.0 / 60.0
	DefaultSteps     = 1200
	DefaultDensity   = 1.225  // air, kg/m^3
	DefaultViscosity = 1.8e-5 // air, Pa*s
	DefaultInflow    = 10.0   // m/s
)

type Config struct {
	Grid      GridConfig       `yaml:"grid"`
	Fluid     FluidConfig      `yaml:"fluid"`
	Flow      FlowConfig       `yaml:"flow"`
	Step      StepConfig       `yaml:"step"`
	Obstacles []ObstacleConfig `yaml:"obstacles"`
	Radiator  *RadiatorConfig  `yaml:"radiator"`
}

type GridConfig struct {
	NX     int     `yaml:"nx"`
	NY     int     `yaml:"ny"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type FluidConfig struct {
	Density   float64 `yaml:"density"`
	Viscosity float64 `yaml:"viscosity"`
}

type FlowConfig struct {
	InflowSpeed float64 `yaml:"inflow_speed"`
	Walls       string  `yaml:"walls"` // "noslip" or "symmetry"
	SmokeInflow bool    `yaml:"smoke_inflow"`
}

type StepConfig struct {
	Dt            float64 `yaml:"dt"`
	Steps         int     `yaml:"steps"`
	PressureIters int     `yaml:"pressure_iters"`
	Tolerance     float64 `yaml:"tolerance"`
	OverRelax     float64 `yaml:"over_relaxation"`
}

type ObstacleConfig struct {
	Kind      string  `yaml:"kind"` // "circle" or "airfoil"
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Radius    float64 `yaml:"radius"`
	Chord     float64 `yaml:"chord"`
	Thickness float64 `yaml:"thickness"`
	AngleDeg  float64 `yaml:"angle_degrees"`
}

type RadiatorConfig struct {
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	AngleDeg   float64 `yaml:"angle_degrees"`
	Porosity   float64 `yaml:"porosity"`
	Resistance float64 `yaml:"resistance"`
}

// Default is an empty wind tunnel: uniform inflow, symmetry walls,
// smoke seeded at the inlet.
func Default() *Config {
	return &Config{
		Grid:  GridConfig{NX: 200, NY: 100, Width: 4.0, Height: 2.0},
		Fluid: FluidConfig{Density: DefaultDensity, Viscosity: DefaultViscosity},
		Flow:  FlowConfig{InflowSpeed: DefaultInflow, Walls: "symmetry", SmokeInflow: true},
		Step: StepConfig{
			Dt:            DefaultDt,
			Steps:         DefaultSteps,
			PressureIters: 20,
			Tolerance:     1e-6,
			OverRelax:     1.9,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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
	if _, err := c.BuildGrid(); err != nil {
		return err
	}
	if c.Fluid.Density <= 0 {
		return fmt.Errorf("fluid density must be positive, got %g", c.Fluid.Density)
	}
	if c.Step.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Step.Dt)
	}
	if c.Flow.Walls != "" && c.Flow.Walls != "noslip" && c.Flow.Walls != "symmetry" {
		return fmt.Errorf("walls must be \"noslip\" or \"symmetry\", got %q", c.Flow.Walls)
	}
	for i := range c.Obstacles {
		if _, err := c.Obstacles[i].build(); err != nil {
			return fmt.Errorf("obstacle %d: %w", i, err)
		}
	}
	return nil
}

func (c *Config) BuildGrid() (*grid.Grid, error) {
	return grid.New(c.Grid.NX, c.Grid.NY, c.Grid.Width, c.Grid.Height)
}

// BuildObstacles materializes the full obstacle list, radiator
// included.
func (c *Config) BuildObstacles() ([]obstacle.Obstacle, error) {
	obs := make([]obstacle.Obstacle, 0, len(c.Obstacles)+1)
	for i := range c.Obstacles {
		o, err := c.Obstacles[i].build()
		if err != nil {
			return nil, fmt.Errorf("obstacle %d: %w", i, err)
		}
		obs = append(obs, o)
	}
	if c.Radiator != nil {
		obs = append(obs, c.BuildRadiator())
	}
	return obs, nil
}

// BuildRadiator returns the matrix obstacle; only meaningful when the
// scenario declares one.
func (c *Config) BuildRadiator() obstacle.Obstacle {
	r := c.Radiator
	return obstacle.PorousMatrix(r.X, r.Y, r.Width, r.Height,
		r.AngleDeg*math.Pi/180, r.Porosity, r.Resistance)
}

func (c *Config) BuildConditions() solver.Conditions {
	walls := solver.WallNoSlip
	if c.Flow.Walls == "symmetry" {
		walls = solver.WallSymmetry
	}
	return solver.Conditions{
		InflowSpeed: c.Flow.InflowSpeed,
		Density:     c.Fluid.Density,
		Viscosity:   c.Fluid.Viscosity,
		TopBottom:   walls,
		SmokeInflow: c.Flow.SmokeInflow,
	}
}

func (c *Config) BuildParams() solver.Params {
	p := solver.DefaultParams()
	if c.Step.PressureIters > 0 {
		p.PressureIters = c.Step.PressureIters
	}
	if c.Step.Tolerance > 0 {
		p.Tolerance = c.Step.Tolerance
	}
	if c.Step.OverRelax > 0 {
		p.OverRelax = c.Step.OverRelax
	}
	return p
}

// BuildSolver assembles a ready-to-step solver from the scenario.
func (c *Config) BuildSolver() (*solver.Solver, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	g, err := c.BuildGrid()
	if err != nil {
		return nil, err
	}
	obs, err := c.BuildObstacles()
	if err != nil {
		return nil, err
	}
	return solver.New(g, obs, c.BuildConditions(), c.BuildParams())
}

func (o *ObstacleConfig) build() (obstacle.Obstacle, error) {
	angle := o.AngleDeg * math.Pi / 180
	switch o.Kind {
	case "circle":
		return obstacle.Circle(o.X, o.Y, o.Radius), nil
	case "airfoil":
		return obstacle.Airfoil(o.X, o.Y, o.Chord, o.Thickness, angle), nil
	default:
		return obstacle.Obstacle{}, fmt.Errorf("unknown obstacle kind %q", o.Kind)
	}
}
