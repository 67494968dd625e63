package swf

import "go.uber.org/zap"

// Config controls container decoding.
type Config struct {
	// MaxBodySize caps the decompressed size of a compressed body so that a
	// small file cannot expand without bound. Default: 512 MiB.
	MaxBodySize int64

	// Lazy skips eager index validation of embedded modules. Queries still
	// bounds-check at the point of use. Default: false.
	Lazy bool

	// SkipModules leaves DoABC bytecode undecoded. The tag's Bytecode is
	// still split out. Default: false.
	SkipModules bool

	// Logger overrides the package logger for one parse.
	Logger *zap.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxBodySize: 512 << 20,
	}
}

// Option configures a parse.
type Option func(*Config)

// WithMaxBodySize sets the decompressed body cap.
func WithMaxBodySize(n int64) Option {
	return func(c *Config) { c.MaxBodySize = n }
}

// WithLazyValidation defers module index validation to query time.
func WithLazyValidation() Option {
	return func(c *Config) { c.Lazy = true }
}

// WithoutModules disables bytecode module decoding.
func WithoutModules() Option {
	return func(c *Config) { c.SkipModules = true }
}

// WithLogger uses l for this parse instead of the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

func newConfig(opts []Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = Logger()
	}
	return cfg
}
