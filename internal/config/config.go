// Package config loads cubescene settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load.
const (
	EnvConfig  = "CUBESCENE_CONFIG"
	EnvOrder   = "CUBESCENE_ORDER"
	EnvJournal = "CUBESCENE_JOURNAL"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the root configuration.
type Config struct {
	Puzzle    PuzzleConfig    `yaml:"puzzle"`
	Animation AnimationConfig `yaml:"animation"`
	Camera    CameraConfig    `yaml:"camera"`
	Scramble  ScrambleConfig  `yaml:"scramble"`
	Journal   JournalConfig   `yaml:"journal"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	SmartCube SmartCubeConfig `yaml:"smartcube"`
}

type PuzzleConfig struct {
	Order int `yaml:"order"`
}

type AnimationConfig struct {
	Speed       int    `yaml:"speed"`
	LetterSpeed int    `yaml:"letter_speed"`
	Easing      string `yaml:"easing"`
}

type CameraConfig struct {
	Speed int `yaml:"speed"`
}

type ScrambleConfig struct {
	Length int   `yaml:"length"`
	Seed   int64 `yaml:"seed"`
}

type JournalConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type SmartCubeConfig struct {
	Device      string `yaml:"device"`
	ScanSeconds int    `yaml:"scan_seconds"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Puzzle:    PuzzleConfig{Order: 3},
		Animation: AnimationConfig{Speed: 30, LetterSpeed: 10, Easing: "quintic"},
		Camera:    CameraConfig{Speed: 30},
		Scramble:  ScrambleConfig{Length: 25},
		Log:       LogConfig{Level: "info", Format: "text"},
		SmartCube: SmartCubeConfig{ScanSeconds: 30},
	}
}

// Load reads a YAML file over the defaults. If path is empty the
// CUBESCENE_CONFIG variable is tried, and without either the defaults are
// returned. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvOrder); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Puzzle.Order = n
		}
	}
	if v := os.Getenv(EnvJournal); v != "" {
		c.Journal.Path = v
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Puzzle.Order < 2 {
		return fmt.Errorf("%w: puzzle.order must be at least 2, got %d", ErrInvalidConfig, c.Puzzle.Order)
	}
	if c.Animation.Speed < 1 || c.Animation.LetterSpeed < 1 {
		return fmt.Errorf("%w: animation speeds must be at least 1 frame", ErrInvalidConfig)
	}
	if c.Camera.Speed < 1 {
		return fmt.Errorf("%w: camera.speed must be at least 1 frame", ErrInvalidConfig)
	}
	switch c.Animation.Easing {
	case "", "quintic", "linear", "spring":
	default:
		return fmt.Errorf("%w: unknown easing %q", ErrInvalidConfig, c.Animation.Easing)
	}
	if c.Scramble.Length < 1 {
		return fmt.Errorf("%w: scramble.length must be positive", ErrInvalidConfig)
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
