package errors

import "errors"

var (
	ErrNotFound = errors.New("display image not found")

	ErrInvalidID = errors.New("invalid image ID format")

	ErrUnsupportedType = errors.New("unsupported image type")
)
