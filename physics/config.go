package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

const (
	DefaultTimeStep   = 1.0 / 60.0
	DefaultIterations = 10
)

// Config holds the parameters applied to every Step. A SleepTimeThreshold
// of cp.INFINITY disables sleeping.
type Config struct {
	Gravity            mgl64.Vec3
	TimeStep           float64
	Iterations         int
	Damping            float64
	SleepTimeThreshold float64
	CollisionSlop      float64
}

func DefaultConfig() Config {
	return Config{
		Gravity:            mgl64.Vec3{0, -9.81, 0},
		TimeStep:           DefaultTimeStep,
		Iterations:         DefaultIterations,
		Damping:            1,
		SleepTimeThreshold: cp.INFINITY,
		CollisionSlop:      0.01,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if !finite(c.TimeStep) || c.TimeStep <= 0 {
		c.TimeStep = def.TimeStep
	}
	if c.Iterations <= 0 {
		c.Iterations = def.Iterations
	}
	if !finite(c.Damping) || c.Damping <= 0 || c.Damping > 1 {
		c.Damping = def.Damping
	}
	// cp only skips its sleep pass for exactly cp.INFINITY
	if math.IsNaN(c.SleepTimeThreshold) || c.SleepTimeThreshold <= 0 || math.IsInf(c.SleepTimeThreshold, 1) {
		c.SleepTimeThreshold = def.SleepTimeThreshold
	}
	if !finite(c.CollisionSlop) || c.CollisionSlop < 0 {
		c.CollisionSlop = def.CollisionSlop
	}
	if !finiteVec(c.Gravity) {
		c.Gravity = def.Gravity
	}
	return c
}
