package service

import (
	"errors"

	"github.com/okian/roxpace/internal/domain/sim"
)

// ErrFieldFull is returned when the tracked-competitor cap is reached.
var ErrFieldFull = errors.New("competitor field full")

// errorKind buckets simulation failures for metrics labels.
func errorKind(err error) string {
	switch {
	case errors.Is(err, sim.ErrValidation):
		return "validation"
	case errors.Is(err, sim.ErrComputation):
		return "computation"
	default:
		return "internal"
	}
}
