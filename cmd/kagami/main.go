package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kagami-vn/engine/internal/config"
	"github.com/kagami-vn/engine/internal/core/spatial"
	"github.com/kagami-vn/engine/internal/data"
	"github.com/kagami-vn/engine/internal/platform"
	"github.com/kagami-vn/engine/internal/resource"
	"github.com/kagami-vn/engine/internal/scripting"
	"github.com/kagami-vn/engine/internal/system"
	"github.com/kagami-vn/engine/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

var errQuit = errors.New("quit")

func run() error {
	cfgPath := "config/engine.toml"
	if p := os.Getenv("KAGAMI_CONFIG"); p != "" {
		cfgPath = p
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "path to the engine config")
	profMode := flag.String("profile", "", "write a cpu or mem profile to the working directory")
	flag.Parse()

	switch *profMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", *profMode)
	}

	// 1. Load config
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = config.Default()
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()
	log.Info("starting", zap.String("config", cfgPath), zap.String("title", cfg.Window.Title))

	// 3. Terminal
	term, err := platform.OpenTerminal()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer term.Close()

	width, height := cfg.Window.Width, cfg.Window.Height
	if width <= 0 || height <= 0 {
		width, height = term.Size()
	}

	// 4. World
	w := world.New(world.Options{
		Width:            width,
		Height:           height,
		Workers:          cfg.Workers.Size,
		ParallelMessages: cfg.Workers.ParallelMessages,
	}, log.Named("world"))
	defer w.Close()
	cam := w.Camera()
	cam.Zoom, cam.OffsetX, cam.OffsetY = cfg.Camera.Zoom, cfg.Camera.OffsetX, cfg.Camera.OffsetY

	// 5. Assets and scene
	assets := resource.NewManager(cfg.Paths.Assets, log.Named("assets"))
	defer assets.Close()

	if cfg.Paths.Scene != "" {
		scene, err := data.LoadScene(cfg.Paths.Scene)
		if err != nil {
			return fmt.Errorf("load scene: %w", err)
		}
		w.SpawnScene(scene, assets)
	}

	// 6. Systems, registered in the order they run each frame
	scripts, err := scripting.NewEngine(w, cfg.Paths.Scripts, log.Named("lua"))
	if err != nil {
		return fmt.Errorf("init scripting: %w", err)
	}
	defer scripts.Close()

	input := platform.NewInputState()
	w.AddSystem(system.NewButtonSystem(w, input))
	w.AddSystem(scripts)
	w.AddSystem(system.NewMotionSystem(w))
	w.AddSystem(system.NewContactSystem(w, spatial.FromRect(0, 0, float32(width), float32(height))))
	w.AddSystem(system.NewAnimationSystem(w))
	w.AddSystem(system.NewSpriteSystem(w, cfg.Workers.ParallelDraw))
	w.AddSystem(system.NewLabelSystem(w))

	// 7. Audio
	if cfg.Audio.Enabled {
		audio := platform.NewAudio(cfg.Audio.SampleRate, log.Named("audio"))
		if err := audio.Open(); err != nil {
			log.Warn("audio disabled", zap.Error(err))
		} else {
			defer audio.Close()
			if cfg.Audio.Music != "" {
				if song, err := assets.Song(cfg.Audio.Music); err == nil {
					if _, err := audio.Play(song.Get(), true); err != nil {
						log.Warn("music not played", zap.Error(err))
					}
					defer song.Release()
				}
			}
		}
	}

	// 8. Game loop
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events := term.Events(ctx)
	clock := platform.NewClock(cfg.Loop.MaxDelta)
	ticker := time.NewTicker(cfg.Loop.TickRate)
	defer ticker.Stop()

	log.Info("game loop started",
		zap.Duration("tick", cfg.Loop.TickRate),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("systems", len(w.Systems())),
	)

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := handleEvent(w, input, ev, cfg.Window); err != nil {
				log.Info("quit requested", zap.Uint64("frame", w.Frame()))
				return nil
			}
		case <-ticker.C:
			input.BeginFrame()
			w.Update(clock.Tick())
			if err := w.Draw(term); err != nil {
				return fmt.Errorf("present frame %d: %w", w.Frame(), err)
			}
			if cfg.Loop.MaxFrames > 0 && w.Frame() >= uint64(cfg.Loop.MaxFrames) {
				log.Info("frame limit reached", zap.Int("frames", cfg.Loop.MaxFrames))
				return nil
			}
		}
	}
}

// handleEvent routes one terminal event. It returns errQuit on q or Esc.
func handleEvent(w *world.World, input *platform.InputState, ev tcell.Event, win config.WindowConfig) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		if win.Width <= 0 || win.Height <= 0 {
			w.Resize(ev.Size())
		}
		return nil
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || (ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return errQuit
		}
	}
	input.HandleEvent(ev)
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// stdout belongs to the screen
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	} else {
		zapCfg.OutputPaths = []string{"stderr"}
	}

	return zapCfg.Build()
}
