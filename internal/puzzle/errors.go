package puzzle

import "errors"

// Errors
var (
	ErrGridInvariant = errors.New("puzzle: grid invariant violated")
	ErrRotating      = errors.New("puzzle: a rotation is in progress")
	ErrInvalidOrder  = errors.New("puzzle: order must be at least 2")
	ErrInvalidLayer  = errors.New("puzzle: layer out of range")
	ErrNoSolver      = errors.New("puzzle: no solver configured")
)
