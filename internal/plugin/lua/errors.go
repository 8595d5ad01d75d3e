package lua

import "errors"

// Errors for unit operations.
var (
	// ErrUnitClosed is returned when operating on a closed unit.
	ErrUnitClosed = errors.New("lua unit is closed")

	// ErrNotFunction is returned when a value expected to be callable is not.
	ErrNotFunction = errors.New("value is not a lua function")
)
