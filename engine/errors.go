package engine

import "errors"

var (
	ErrUnknownModel      = errors.New("unknown model")
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrInvalidOption     = errors.New("invalid option")
	// ErrTimeMismatch means a slice handed to an event does not sit at the
	// event's time. It indicates a scheduling bug, not bad input.
	ErrTimeMismatch = errors.New("slice time does not match event time")
	// ErrNumerical is returned when a price or one of its derivatives is
	// not finite.
	ErrNumerical   = errors.New("non-finite result")
	ErrUnsupported = errors.New("operation not supported by instrument")
)
