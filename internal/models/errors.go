package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrNotFound          = errors.New("record not found")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrNoGames           = errors.New("no usable games in slate")
	ErrInvalidConfidence = errors.New("invalid confidence assignment")
	ErrCapacityExceeded  = errors.New("pending game count exceeds enumeration capacity")
	ErrEmptyField        = errors.New("field composition is empty")
)

// CapacityError reports a scenario enumeration that was refused because the
// number of pending games is above the configured ceiling.
type CapacityError struct {
	Pending int
	Limit   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%d pending games exceeds limit of %d (%d scenarios)", e.Pending, e.Limit, uint64(1)<<uint(min(e.Pending, 63)))
}

// Unwrap allows errors.Is(err, ErrCapacityExceeded).
func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}
