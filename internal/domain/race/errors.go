package race

import "errors"

var (
	// ErrNoRaceSelected is returned when a live action needs a selected race.
	ErrNoRaceSelected = errors.New("no race selected")
	// ErrInvalidTransition marks a live-status change the machine forbids.
	ErrInvalidTransition = errors.New("invalid race transition")
)
