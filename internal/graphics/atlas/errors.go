package atlas

import "errors"

var (
	// ErrNoFit is returned when no free rectangle in the tree can hold the request.
	ErrNoFit = errors.New("atlas: no free rectangle fits")

	// ErrInvalidSize is returned for non-positive requests or atlas sizes.
	ErrInvalidSize = errors.New("atlas: invalid size")
)
