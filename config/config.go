package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigidbridge/physics"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid config")

type Config struct {
	Physics PhysicsConfig `yaml:"physics"`
	Bridge  BridgeConfig  `yaml:"bridge"`
	Log     LogConfig     `yaml:"log"`
	Run     RunConfig     `yaml:"run"`
}

type PhysicsConfig struct {
	Gravity            [3]float64 `yaml:"gravity"`
	TimeStep           float64    `yaml:"time_step"`
	Iterations         int        `yaml:"iterations"`
	Damping            float64    `yaml:"damping"`
	SleepTimeThreshold float64    `yaml:"sleep_time_threshold"`
	CollisionSlop      float64    `yaml:"collision_slop"`
}

type BridgeConfig struct {
	SyncRotation bool `yaml:"sync_rotation"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

type RunConfig struct {
	// Scene is a scene file on disk or the name of an embedded scene.
	Scene string `yaml:"scene"`
	// Frames is the number of ticks the headless runner executes.
	Frames int `yaml:"frames"`
	// Window opens an ebiten window instead of running headless.
	Window bool `yaml:"window"`
	// Watch reloads the scene when its file changes.
	Watch bool `yaml:"watch"`
	// ReportEvery logs every body's pose each N ticks. Zero disables it.
	ReportEvery int `yaml:"report_every"`
}

// Default mirrors physics.DefaultConfig and runs the embedded cube scene
// for five simulated seconds.
func Default() Config {
	p := physics.DefaultConfig()
	return Config{
		Physics: PhysicsConfig{
			Gravity:            [3]float64{p.Gravity.X(), p.Gravity.Y(), p.Gravity.Z()},
			TimeStep:           p.TimeStep,
			Iterations:         p.Iterations,
			Damping:            p.Damping,
			SleepTimeThreshold: -1,
			CollisionSlop:      p.CollisionSlop,
		},
		Bridge: BridgeConfig{SyncRotation: true},
		Log:    LogConfig{Level: "info", Encoding: "console"},
		Run: RunConfig{
			Scene:       "cube.yaml",
			Frames:      300,
			ReportEvery: 60,
		},
	}
}

// Load reads a YAML file over Default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := decode(bytes.NewReader(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c Config) Validate() error {
	p := c.Physics
	for _, g := range p.Gravity {
		if math.IsNaN(g) || math.IsInf(g, 0) {
			return fmt.Errorf("physics.gravity must be finite: %w", ErrInvalidConfig)
		}
	}
	if !(p.TimeStep > 0) || math.IsInf(p.TimeStep, 0) {
		return fmt.Errorf("physics.time_step must be positive: %w", ErrInvalidConfig)
	}
	if p.Iterations <= 0 {
		return fmt.Errorf("physics.iterations must be positive: %w", ErrInvalidConfig)
	}
	if !(p.Damping > 0 && p.Damping <= 1) {
		return fmt.Errorf("physics.damping must be in (0, 1]: %w", ErrInvalidConfig)
	}
	if p.CollisionSlop < 0 || math.IsNaN(p.CollisionSlop) {
		return fmt.Errorf("physics.collision_slop must not be negative: %w", ErrInvalidConfig)
	}
	if c.Run.Frames < 0 {
		return fmt.Errorf("run.frames must not be negative: %w", ErrInvalidConfig)
	}
	if c.Run.ReportEvery < 0 {
		return fmt.Errorf("run.report_every must not be negative: %w", ErrInvalidConfig)
	}
	return nil
}

// RegistryConfig converts the physics section into registry settings. A
// negative sleep threshold disables sleeping.
func (c Config) RegistryConfig() physics.Config {
	p := c.Physics
	sleep := p.SleepTimeThreshold
	if sleep < 0 {
		sleep = cp.INFINITY
	}
	return physics.Config{
		Gravity:            mgl64.Vec3{p.Gravity[0], p.Gravity[1], p.Gravity[2]},
		TimeStep:           p.TimeStep,
		Iterations:         p.Iterations,
		Damping:            p.Damping,
		SleepTimeThreshold: sleep,
		CollisionSlop:      p.CollisionSlop,
	}
}
