package renderer

import "errors"

var (
	ErrNoPixels         = errors.New("renderer: viewport has no pixels")
	ErrViewportMismatch = errors.New("renderer: camera viewport does not match renderer size")
)
