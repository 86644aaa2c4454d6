package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigidbridge/physics"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultMatchesRegistryDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, physics.DefaultConfig(), cfg.RegistryConfig())
	require.True(t, cfg.Bridge.SyncRotation)
	require.Equal(t, "cube.yaml", cfg.Run.Scene)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeConfig(t, `
physics:
  gravity: [0, -1.62, 0]
  time_step: 0.01
  sleep_time_threshold: 0.5
bridge:
  sync_rotation: false
run:
  frames: 42
  window: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 42, cfg.Run.Frames)
	require.True(t, cfg.Run.Window)
	require.False(t, cfg.Bridge.SyncRotation)
	// untouched keys keep their defaults
	require.Equal(t, physics.DefaultIterations, cfg.Physics.Iterations)
	require.Equal(t, "info", cfg.Log.Level)

	reg := cfg.RegistryConfig()
	require.Equal(t, mgl64.Vec3{0, -1.62, 0}, reg.Gravity)
	require.Equal(t, 0.01, reg.TimeStep)
	require.Equal(t, 0.5, reg.SleepTimeThreshold)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		invalid bool
	}{
		{"unknown_key", "physics:\n  gravty: [0, 0, 0]\n", false},
		{"bad_yaml", "physics: [", false},
		{"zero_time_step", "physics:\n  time_step: 0\n", true},
		{"negative_iterations", "physics:\n  iterations: -3\n", true},
		{"damping_above_one", "physics:\n  damping: 1.5\n", true},
		{"negative_frames", "run:\n  frames: -1\n", true},
		{"negative_report", "run:\n  report_every: -1\n", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, c.body))
			require.Error(t, err)
			if c.invalid {
				require.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestNegativeSleepThresholdDisablesSleeping(t *testing.T) {
	cfg := Default()
	require.Equal(t, -1.0, cfg.Physics.SleepTimeThreshold)
	require.Equal(t, cp.INFINITY, cfg.RegistryConfig().SleepTimeThreshold)

	cfg.Physics.SleepTimeThreshold = 2
	require.Equal(t, 2.0, cfg.RegistryConfig().SleepTimeThreshold)
}

func TestValidateRejectsNonFiniteGravity(t *testing.T) {
	cfg := Default()
	cfg.Physics.Gravity[1] = math.NaN()
	require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}
