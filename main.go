package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/rigidbridge/config"
	"github.com/milk9111/rigidbridge/logging"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults apply when empty)")
	sceneName := flag.String("scene", "", "scene file on disk or embedded scene name")
	frames := flag.Int("frames", 0, "number of ticks to run (0 with -watch or -window runs until stopped)")
	window := flag.Bool("window", false, "open a debug window instead of running headless")
	watch := flag.Bool("watch", false, "reload the scene when its file changes")
	reportEvery := flag.Int("report-every", 0, "log every body's pose each N ticks")
	noRotation := flag.Bool("no-rotation", false, "copy translation only into transforms")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	// flags given explicitly override the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scene":
			cfg.Run.Scene = *sceneName
		case "frames":
			cfg.Run.Frames = *frames
		case "window":
			cfg.Run.Window = *window
		case "watch":
			cfg.Run.Watch = *watch
		case "report-every":
			cfg.Run.ReportEvery = *reportEvery
		case "no-rotation":
			cfg.Bridge.SyncRotation = !*noRotation
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	game, err := NewGame(cfg, logger)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	defer game.Close()

	if cfg.Run.Window {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
		ebiten.SetWindowSize(baseWidth, baseHeight)
		ebiten.SetWindowTitle("rigidbridge")
		ebiten.SetTPS(int(1/cfg.RegistryConfig().TimeStep + 0.5))
		return ebiten.RunGame(game)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return game.RunHeadless(ctx)
}
