package worker

import (
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/petrijr/exclusive/pkg/api"
)

// Config holds the settings of a Worker.
type Config struct {
	// Name identifies the worker in logs, observer callbacks and journals.
	// Empty means a random "worker-<uuid>" name.
	Name string

	// MaxTasksPerSecond caps the task start rate. Zero means unlimited.
	MaxTasksPerSecond float64

	// Observer receives lifecycle callbacks. Nil means api.NoopObserver.
	Observer api.Observer

	// Logger is used for the worker's own diagnostics. Nil means
	// slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns an unthrottled configuration with a random name.
func DefaultConfig() Config {
	return Config{
		Name:     "worker-" + uuid.NewString(),
		Observer: api.NoopObserver{},
		Logger:   slog.Default(),
	}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	r := c.MaxTasksPerSecond
	if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return api.ErrInvalidRate
	}
	return nil
}

// Option customizes a Config.
type Option func(*Config)

// WithName sets the worker name.
func WithName(name string) Option {
	return func(cfg *Config) {
		if name != "" {
			cfg.Name = name
		}
	}
}

// WithMaxTasksPerSecond limits how many tasks the worker starts per second.
// Zero disables rate limiting.
func WithMaxTasksPerSecond(rate float64) Option {
	return func(cfg *Config) {
		cfg.MaxTasksPerSecond = rate
	}
}

// WithObserver sets the observer. Use api.NewCompositeObserver to attach
// several.
func WithObserver(obs api.Observer) Option {
	return func(cfg *Config) {
		if obs != nil {
			cfg.Observer = obs
		}
	}
}

// WithLogger sets the logger used for the worker's own diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) {
		if logger != nil {
			cfg.Logger = logger
		}
	}
}

func buildConfig(opts []Option) (Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg, cfg.Validate()
}
