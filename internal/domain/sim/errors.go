package sim

import "errors"

var (
	// ErrValidation marks a malformed athlete profile.
	ErrValidation = errors.New("invalid athlete profile")
	// ErrComputation marks an internal arithmetic dead end, such as a goal
	// scale with a zero denominator.
	ErrComputation = errors.New("simulation computation failed")
)
