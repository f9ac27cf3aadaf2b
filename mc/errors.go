package mc

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingParameter is returned when a variant requires a field that
	// is absent from the parameter pool.
	ErrMissingParameter = errors.New("missing parameter")
	// ErrNoEvents is returned when an instrument declares no events.
	ErrNoEvents = errors.New("no events defined")
	// ErrTimeNotScheduled means an event time could not be found in the merged schedule.
	ErrTimeNotScheduled = errors.New("time not in schedule")
	// ErrNotInitialized is returned by PopulateGrids before Initialize.
	ErrNotInitialized = errors.New("model not initialized")
	// ErrInvalidPaths is returned by PopulateGrids for a non-positive path count.
	ErrInvalidPaths = errors.New("number of paths must be positive")
)

// MissingParameterError names the absent key and the variant asking for it.
type MissingParameterError struct {
	Owner string
	Name  string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("%s: missing parameter %q", e.Owner, e.Name)
}

func (e *MissingParameterError) Unwrap() error {
	return ErrMissingParameter
}
