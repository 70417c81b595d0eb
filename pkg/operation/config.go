package operation

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultName is used when an operation is not named.
	DefaultName = "unknown"

	// DefaultTimeout bounds a single attempt.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries caps manual and automatic retries.
	DefaultMaxRetries = 3
)

// Config holds the recognized controller settings. Zero values fall back to the
// defaults above.
type Config struct {
	Name       string        `json:"name" yaml:"name"`
	Timeout    time.Duration `json:"timeout" yaml:"timeout"`
	MaxRetries int           `json:"maxRetries" yaml:"maxRetries"`
	AutoRetry  bool          `json:"autoRetry" yaml:"autoRetry"`
	// RetryDelay, when positive, replaces the delay suggested by classification.
	RetryDelay time.Duration `json:"retryDelay" yaml:"retryDelay"`
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	return Config{
		Name:       DefaultName,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
	}
}

func (c Config) normalize() Config {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	return c
}

// Option is a functional option for configuring a Controller.
type Option func(*options)

type options struct {
	cfg        Config
	logger     *slog.Logger
	registerer prometheus.Registerer
}

// WithConfig replaces the whole configuration. Options applied after it still win.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithName sets the operation name used in logs, metrics and errors.
func WithName(name string) Option {
	return func(o *options) { o.cfg.Name = name }
}

// WithTimeout bounds each attempt. Non-positive values mean DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.cfg.Timeout = d }
}

// WithMaxRetries caps the retry counter.
func WithMaxRetries(n int) Option {
	return func(o *options) { o.cfg.MaxRetries = n }
}

// WithAutoRetry enables automatic retry of retryable failures.
func WithAutoRetry(enabled bool) Option {
	return func(o *options) { o.cfg.AutoRetry = enabled }
}

// WithRetryDelay overrides the classification delay before automatic retries.
func WithRetryDelay(d time.Duration) Option {
	return func(o *options) { o.cfg.RetryDelay = d }
}

// WithLogger sets the logger. The process default logger is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRegisterer enables Prometheus metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}
