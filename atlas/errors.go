package atlas

import "errors"

// Sentinel errors for the atlas package.
var (
	// ErrNilBackend is returned by New when no texture backend is given.
	ErrNilBackend = errors.New("atlas: nil texture backend")

	// ErrNilReposition is returned by New when no reposition callback is given.
	ErrNilReposition = errors.New("atlas: nil reposition callback")
)

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}
