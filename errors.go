package imgzip

import "errors"

var (
	// ErrNoExtension is returned when the output filename cannot be derived
	// because the source image path has no extension.
	ErrNoExtension = errors.New("source image has no extension")
)
