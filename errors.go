package paint

import "errors"

// Errors reported by canvas operations. Compare with errors.Is.
var (
	// ErrInvalidDimension is returned for non-finite or non-positive sizes.
	ErrInvalidDimension = errors.New("paint: invalid dimension")

	// ErrIndexOutOfRange is returned when a layer index is outside the stack.
	ErrIndexOutOfRange = errors.New("paint: layer index out of range")

	// ErrSizeMismatch is returned when a pixel frame does not match width*height*4.
	ErrSizeMismatch = errors.New("paint: pixel frame size mismatch")

	// ErrDecodeFailure is returned for an imported image that could not be decoded.
	ErrDecodeFailure = errors.New("paint: image decode failed")

	// ErrCorruptRecord is returned when a history record violates its own
	// invariants. It is the only error a host should treat as fatal.
	ErrCorruptRecord = errors.New("paint: corrupt history record")
)
