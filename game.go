package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/rigidbridge/config"
	"github.com/milk9111/rigidbridge/ecs"
	"github.com/milk9111/rigidbridge/ecs/component"
	"github.com/milk9111/rigidbridge/ecs/system"
	"github.com/milk9111/rigidbridge/physics"
	"github.com/milk9111/rigidbridge/scene"
	"go.uber.org/zap"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Game struct {
	frames    int
	maxFrames int

	cfg       config.Config
	log       *zap.Logger
	world     *ecs.World
	scheduler *ecs.Scheduler
	physics   *system.PhysicsSystem
	report    *system.ReportSystem

	scenePath string
	sceneMod  time.Time
	watcher   *scene.Watcher
}

func NewGame(cfg config.Config, logger *zap.Logger) (*Game, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := physics.New(cfg.RegistryConfig(), logger.Named("physics"))
	ps := system.NewPhysicsSystem(registry,
		system.WithRotationSync(cfg.Bridge.SyncRotation),
		system.WithLogger(logger.Named("bridge")),
	)
	report := system.NewReportSystem(logger.Named("report"), cfg.Run.ReportEvery)

	// physics runs before anything reading poses
	scheduler := ecs.NewScheduler(
		system.NewTTLSystem(),
		ps,
		system.NewBoundsSystem(logger.Named("bounds")),
		system.NewCameraSystem(),
		report,
		system.NewPhysicsDebugSystem(registry),
	)

	g := &Game{
		maxFrames: cfg.Run.Frames,
		cfg:       cfg,
		log:       logger,
		world:     ecs.NewWorld(),
		scheduler: scheduler,
		physics:   ps,
		report:    report,
		scenePath: cfg.Run.Scene,
	}

	spec, err := scene.LoadSceneSpec(g.scenePath)
	if err != nil {
		return nil, err
	}
	if _, err := scene.Spawn(g.world, ps, spec); err != nil {
		return nil, err
	}
	logger.Info("scene loaded",
		zap.String("scene", g.scenePath),
		zap.Int("bodies", registry.Len()),
	)

	if cfg.Run.Watch {
		if err := g.watch(); err != nil {
			logger.Warn("scene watch disabled", zap.Error(err))
		}
		g.sceneMod, _ = scene.ModTime(g.scenePath)
	}

	return g, nil
}

// watch follows the scene's directory. Embedded scenes are watched through
// their on-disk copies under scene.Dir.
func (g *Game) watch() error {
	dir := filepath.FromSlash(scene.Dir)
	if info, err := os.Stat(g.scenePath); err == nil && !info.IsDir() {
		dir = filepath.Dir(g.scenePath)
	} else {
		g.scenePath = filepath.Join(dir, filepath.Base(g.scenePath))
	}
	w, err := scene.NewWatcher(dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	g.watcher = w
	g.log.Info("watching scene", zap.String("dir", dir))
	return nil
}

// Tick applies pending scene reloads and then runs every system once.
func (g *Game) Tick() {
	g.pollReload()
	g.scheduler.Update(g.world)
	g.frames++
}

func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if scene.SameFile(name, g.scenePath) {
				g.reloadIfChanged()
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.log.Warn("scene watch error", zap.Error(err))
			}
		default:
			return
		}
	}
}

// reloadIfChanged respawns the scene when its file's modification time moved
// since the last load. Editors often emit several events per save.
func (g *Game) reloadIfChanged() bool {
	mod, ok := scene.ModTime(g.scenePath)
	if !ok || mod.Equal(g.sceneMod) {
		return false
	}
	g.sceneMod = mod
	if _, err := scene.Reload(g.world, g.physics, g.scenePath); err != nil {
		g.log.Warn("scene reload failed", zap.String("scene", g.scenePath), zap.Error(err))
		return false
	}
	g.log.Info("scene reloaded",
		zap.String("scene", g.scenePath),
		zap.Int("bodies", g.physics.Registry().Len()),
	)
	return true
}

// RunHeadless ticks until the configured frame count is reached or ctx is
// done. With a zero frame count it runs until ctx is done. Watched scenes
// are paced at the simulation time step so edits show up in real time.
func (g *Game) RunHeadless(ctx context.Context) error {
	var pace <-chan time.Time
	if g.watcher != nil {
		ticker := time.NewTicker(time.Duration(g.cfg.RegistryConfig().TimeStep * float64(time.Second)))
		defer ticker.Stop()
		pace = ticker.C
	} else if g.maxFrames <= 0 {
		return fmt.Errorf("headless run needs run.frames or run.watch")
	}

	for g.maxFrames <= 0 || g.frames < g.maxFrames {
		if err := ctx.Err(); err != nil {
			break
		}
		if pace != nil {
			select {
			case <-ctx.Done():
				continue
			case <-pace:
			}
		}
		g.Tick()
	}

	g.logFinalPoses()
	return nil
}

func (g *Game) logFinalPoses() {
	registry := g.physics.Registry()
	g.log.Info("run finished",
		zap.Int("frames", g.frames),
		zap.Uint64("steps", registry.Steps()),
		zap.Float64("time", registry.Time()),
	)
	for _, e := range g.world.Query(component.ModelComponent.Kind(), component.TransformComponent.Kind()) {
		t, _ := ecs.Get(g.world, e, component.TransformComponent)
		name, _ := ecs.Get(g.world, e, component.NameComponent)
		g.log.Info("final pose",
			zap.String("entity", string(name)),
			zap.Float64("x", t.Position.X()),
			zap.Float64("y", t.Position.Y()),
			zap.Float64("z", t.Position.Z()),
		)
	}
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) Update() error {
	if g.maxFrames > 0 && g.frames >= g.maxFrames {
		g.logFinalPoses()
		return ebiten.Termination
	}
	g.Tick()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scheduler.Draw(g.world, screen)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.2f", ebiten.ActualFPS()), 10, baseHeight-20)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
