// Package config loads tool settings from the environment, after reading an
// optional .env file from the working directory.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrParsingConfig is returned when environment variables cannot be
	// parsed into a Config.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrInvalidConfig is returned when parsed values are out of range.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config holds every setting the commands read from the environment.
type Config struct {
	LogLevel  string `env:"FSM_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"FSM_LOG_FORMAT" envDefault:"text"`

	// Examples is how many example strings info and regex commands print.
	Examples int `env:"FSM_EXAMPLES" envDefault:"10"`
	// Seed drives random sampling; zero picks a fresh seed per run.
	Seed uint64 `env:"FSM_SEED" envDefault:"0"`

	PNGWidth  int `env:"FSM_PNG_WIDTH" envDefault:"800"`
	PNGHeight int `env:"FSM_PNG_HEIGHT" envDefault:"600"`

	// MaxEliminationStates bounds the machines toregex will eliminate;
	// the result can grow exponentially in the state count.
	MaxEliminationStates int `env:"FSM_MAX_ELIMINATION_STATES" envDefault:"2000"`
}

// Load reads .env (if present) and then the process environment. Variables
// already set in the environment win over .env.
func Load() (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()
	return parse(env.Options{})
}

// LoadFrom parses settings from the given variables only.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: FSM_LOG_FORMAT must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.Examples < 0 {
		return fmt.Errorf("%w: FSM_EXAMPLES must not be negative", ErrInvalidConfig)
	}
	if c.PNGWidth <= 0 || c.PNGHeight <= 0 {
		return fmt.Errorf("%w: PNG size must be positive, got %dx%d", ErrInvalidConfig, c.PNGWidth, c.PNGHeight)
	}
	if c.MaxEliminationStates <= 0 {
		return fmt.Errorf("%w: FSM_MAX_ELIMINATION_STATES must be positive", ErrInvalidConfig)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: FSM_LOG_LEVEL: %v", ErrInvalidConfig, err)
	}
	return level, nil
}

// Logger builds the structured logger the commands use, writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
