package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/rigidbridge/config"
	"github.com/milk9111/rigidbridge/ecs"
	"github.com/milk9111/rigidbridge/ecs/component"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func findEntity(t *testing.T, g *Game, name string) ecs.Entity {
	t.Helper()
	for _, e := range g.world.Query(component.NameComponent.Kind()) {
		if n, _ := ecs.Get(g.world, e, component.NameComponent); string(n) == name {
			return e
		}
	}
	t.Fatalf("no entity named %q", name)
	return 0
}

func TestHeadlessRunSettlesCube(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cfg := config.Default()
	cfg.Run.Frames = 300
	cfg.Run.ReportEvery = 100

	g, err := NewGame(cfg, zap.New(core))
	require.NoError(t, err)
	defer g.Close()

	require.NoError(t, g.RunHeadless(context.Background()))
	require.Equal(t, 300, g.frames)
	require.Equal(t, uint64(300), g.physics.Registry().Steps())

	cube := findEntity(t, g, "cube")
	tr, ok := ecs.Get(g.world, cube, component.TransformComponent)
	require.True(t, ok)
	require.InDelta(t, 1.0, tr.Position.Y(), 0.05)

	require.Equal(t, 2*3, logs.FilterMessage("pose").Len())
	require.Equal(t, 2, logs.FilterMessage("final pose").Len())
	require.NotZero(t, logs.FilterMessage("contact").Len())
}

func TestHeadlessRunStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Run.Frames = 1000

	g, err := NewGame(cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, g.RunHeadless(ctx))
	require.Zero(t, g.frames)
}

func TestHeadlessRunNeedsABound(t *testing.T) {
	cfg := config.Default()
	cfg.Run.Frames = 0

	g, err := NewGame(cfg, nil)
	require.NoError(t, err)
	require.Error(t, g.RunHeadless(context.Background()))
}

func TestNewGameRejectsBrokenScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("objects: [{collider: {shape: sphere, radius: -1}}]"), 0o644))

	cfg := config.Default()
	cfg.Run.Scene = path
	_, err := NewGame(cfg, nil)
	require.Error(t, err)
}

func TestWatchedSceneReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
objects:
  - name: ground
    body: {kind: static}
    collider: {shape: plane}
`), 0o644))

	cfg := config.Default()
	cfg.Run.Scene = path
	cfg.Run.Watch = true
	g, err := NewGame(cfg, nil)
	require.NoError(t, err)
	defer g.Close()
	require.NotNil(t, g.watcher)
	require.Equal(t, 1, g.physics.Registry().Len())

	require.NoError(t, os.WriteFile(path, []byte(`
objects:
  - name: ground
    body: {kind: static}
    collider: {shape: plane}
  - name: ball
    transform: {position: [0, 3, 0]}
    collider: {shape: sphere, radius: 0.5}
`), 0o644))
	later := time.Now().Add(time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	deadline := time.Now().Add(5 * time.Second)
	for g.physics.Registry().Len() != 2 && time.Now().Before(deadline) {
		g.Tick()
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, 2, g.physics.Registry().Len())
	findEntity(t, g, "ball")
}

func TestReloadSkipsUnchangedScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "still.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
objects:
  - name: ball
    collider: {shape: sphere, radius: 0.5}
`), 0o644))

	cfg := config.Default()
	cfg.Run.Scene = path
	cfg.Run.Watch = true
	g, err := NewGame(cfg, nil)
	require.NoError(t, err)
	defer g.Close()

	ball := findEntity(t, g, "ball")
	require.False(t, g.reloadIfChanged())
	require.True(t, g.world.IsAlive(ball), "unchanged file keeps the scene")

	later := time.Now().Add(time.Second)
	require.NoError(t, os.Chtimes(path, later, later))
	require.True(t, g.reloadIfChanged())
	require.False(t, g.world.IsAlive(ball))
	require.NotEqual(t, ball, findEntity(t, g, "ball"))
	require.False(t, g.reloadIfChanged())
}
