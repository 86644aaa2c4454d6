package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/milk9111/rigidbridge/ecs"
	"github.com/milk9111/rigidbridge/ecs/system"
	"github.com/milk9111/rigidbridge/logging"
	"github.com/milk9111/rigidbridge/physics"
	"github.com/milk9111/rigidbridge/scene"
	"go.uber.org/zap"
)

// scenecheck loads scene files, spawns them into a fresh registry and
// steps them for a while, reporting scenes that fail to build or whose
// dynamic bodies are still moving at the end.
func main() {
	frames := flag.Int("frames", 600, "ticks to simulate per scene")
	restSpeed := flag.Float64("rest-speed", 0.05, "speed below which a body counts as resting")
	logLevel := flag.String("log-level", "warn", "debug, info, warn or error")
	flag.Parse()

	logger, err := logging.New(*logLevel, "console")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	names := flag.Args()
	if len(names) == 0 {
		names = []string{scene.DefaultScene}
	}

	failed := 0
	for _, name := range names {
		if err := check(name, *frames, *restSpeed, logger); err != nil {
			fmt.Printf("FAIL %s: %v\n", name, err)
			failed++
			continue
		}
		fmt.Printf("ok   %s\n", name)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func check(name string, frames int, restSpeed float64, logger *zap.Logger) error {
	spec, err := scene.LoadSceneSpec(name)
	if err != nil {
		return err
	}

	w := ecs.NewWorld()
	registry := physics.New(physics.DefaultConfig(), logger.Named("physics"))
	ps := system.NewPhysicsSystem(registry, system.WithLogger(logger.Named("bridge")))
	sched := ecs.NewScheduler(system.NewTTLSystem(), ps, system.NewBoundsSystem(logger.Named("bounds")))

	if _, err := scene.Spawn(w, ps, spec); err != nil {
		return err
	}
	for i := 0; i < frames; i++ {
		sched.Update(w)
	}

	moving := 0
	registry.Bodies(func(h physics.BodyHandle, st physics.BodyState) {
		if st.Kind != physics.BodyDynamic || st.Sleeping {
			return
		}
		if st.LinearVelocity.Len() > restSpeed {
			logger.Warn("body still moving",
				zap.Stringer("body", h),
				zap.Float64("speed", st.LinearVelocity.Len()),
			)
			moving++
		}
	})
	if moving > 0 {
		return fmt.Errorf("%d bodies still moving after %d ticks", moving, frames)
	}
	return nil
}
