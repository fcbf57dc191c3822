package resource

import "errors"

var (
	// ErrNotLoaded is returned when a loader produced no usable asset.
	ErrNotLoaded = errors.New("resource: not loaded")
	// ErrEmptyPath is returned for loads without a path.
	ErrEmptyPath = errors.New("resource: empty path")
)
