package stagehand

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config holds navigator settings. It is read from TOML and may be
// overridden by STAGEHAND_* environment variables.
//
//	transition_time  = "300ms"
//	enter_transition = "slide-left"
//	exit_transition  = "slide-left"
//	width            = 640
//	height           = 480
//	log_level        = "info"
type Config struct {
	Title           string        `toml:"title"            env:"STAGEHAND_TITLE"`
	Width           int           `toml:"width"            env:"STAGEHAND_WIDTH"`
	Height          int           `toml:"height"           env:"STAGEHAND_HEIGHT"`
	TPS             int           `toml:"tps"              env:"STAGEHAND_TPS"`
	TransitionTime  time.Duration `toml:"transition_time"  env:"STAGEHAND_TRANSITION_TIME"`
	EnterTransition string        `toml:"enter_transition" env:"STAGEHAND_ENTER_TRANSITION"`
	ExitTransition  string        `toml:"exit_transition"  env:"STAGEHAND_EXIT_TRANSITION"`
	LogLevel        string        `toml:"log_level"        env:"STAGEHAND_LOG_LEVEL"`
	Debug           bool          `toml:"debug"            env:"STAGEHAND_DEBUG"`
}

// Default settings.
const (
	DefaultTransitionTime = 300 * time.Millisecond
	DefaultWidth          = 640
	DefaultHeight         = 480
	DefaultTPS            = 60
)

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Title:           "stagehand",
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		TPS:             DefaultTPS,
		TransitionTime:  DefaultTransitionTime,
		EnterTransition: "slide-left",
		ExitTransition:  "slide-left",
		LogLevel:        "info",
	}
}

// ParseConfig decodes TOML on top of DefaultConfig and validates the result.
// Keys absent from data keep their defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("parse config: unknown key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads the TOML file at path (defaults when path is empty),
// applies environment overrides and validates.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		if cfg, err = ParseConfig(data); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields whose STAGEHAND_* variable is set.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks ranges and transition names.
func (c Config) Validate() error {
	if c.TransitionTime < 0 {
		return fmt.Errorf("config: %w", ErrInvalidTransitionTime)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: screen size %dx%d must be positive", c.Width, c.Height)
	}
	if c.TPS < 0 {
		return fmt.Errorf("config: tps %d must not be negative", c.TPS)
	}
	if _, err := c.enterTransition(); err != nil {
		return fmt.Errorf("config: enter_transition: %w", err)
	}
	if _, err := c.exitTransition(); err != nil {
		return fmt.Errorf("config: exit_transition: %w", err)
	}
	return nil
}

func (c Config) enterTransition() (Transition, error) {
	return TransitionByName(c.EnterTransition, float64(c.Width), float64(c.Height))
}

func (c Config) exitTransition() (Transition, error) {
	return TransitionByName(c.ExitTransition, float64(c.Width), float64(c.Height))
}
