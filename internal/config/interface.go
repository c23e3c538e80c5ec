package config

import (
	"context"
	"errors"
)

// ErrInvalidConfig marks every error caused by malformed configuration, as
// opposed to structural problems of the job graph it describes.
var ErrInvalidConfig = errors.New("invalid configuration")

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given paths and translates it into
	// the format-agnostic model. Errors wrap ErrInvalidConfig.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
