package style

import "github.com/cockroachdb/errors"

var (
	// ErrConfigLoad is returned when a configuration source is missing or malformed.
	ErrConfigLoad = errors.New("failed to load style configuration")

	// ErrPresetNotFound is returned when a named preset is not bundled.
	ErrPresetNotFound = errors.New("style preset not found")
)
