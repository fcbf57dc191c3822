package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Window  WindowConfig  `toml:"window"`
	Loop    LoopConfig    `toml:"loop"`
	Workers WorkersConfig `toml:"workers"`
	Camera  CameraConfig  `toml:"camera"`
	Logging LoggingConfig `toml:"logging"`
	Audio   AudioConfig   `toml:"audio"`
	Paths   PathsConfig   `toml:"paths"`
}

type WindowConfig struct {
	Width  int    `toml:"width"`  // canvas cells; 0 = terminal size
	Height int    `toml:"height"` // canvas cells; 0 = terminal size
	Title  string `toml:"title"`
}

type LoopConfig struct {
	TickRate  time.Duration `toml:"tick_rate"`
	MaxDelta  time.Duration `toml:"max_delta"`
	MaxFrames int           `toml:"max_frames"` // 0 = run until quit
}

type WorkersConfig struct {
	Size             int  `toml:"size"` // 0 = runtime.NumCPU()
	ParallelMessages bool `toml:"parallel_messages"`
	ParallelDraw     bool `toml:"parallel_draw"`
}

type CameraConfig struct {
	Zoom    float32 `toml:"zoom"`
	OffsetX float32 `toml:"offset_x"`
	OffsetY float32 `toml:"offset_y"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // log destination; the terminal is busy drawing
}

type AudioConfig struct {
	Enabled    bool   `toml:"enabled"`
	SampleRate int    `toml:"sample_rate"`
	Music      string `toml:"music"` // asset name; empty plays nothing
}

type PathsConfig struct {
	Assets  string `toml:"assets"`
	Scene   string `toml:"scene"`
	Scripts string `toml:"scripts"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Loop.TickRate <= 0 {
		return nil, fmt.Errorf("config %s: loop.tick_rate must be positive", path)
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no file exists.
func Default() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Title: "kagami",
		},
		Loop: LoopConfig{
			TickRate: 16 * time.Millisecond,
			MaxDelta: 100 * time.Millisecond,
		},
		Workers: WorkersConfig{
			ParallelMessages: true,
		},
		Camera: CameraConfig{
			Zoom: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "kagami.log",
		},
		Audio: AudioConfig{
			Enabled:    false,
			SampleRate: 44100,
		},
		Paths: PathsConfig{
			Assets:  "assets",
			Scene:   "data/scene.yaml",
			Scripts: "scripts",
		},
	}
}
