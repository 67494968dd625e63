package abc

import "go.uber.org/zap"

// Config controls how a module is decoded.
type Config struct {
	// Lazy skips the cross-table index pass after decoding. Queries still
	// bounds-check every index they resolve. Default: false.
	Lazy bool

	// Logger receives debug output for this parse. Nil uses the package
	// logger.
	Logger *zap.Logger
}

// DefaultConfig returns a Config that validates eagerly.
func DefaultConfig() Config {
	return Config{}
}
