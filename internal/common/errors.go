package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Illegal state-machine transition requested by a caller.
	ErrIllegalTransition = errors.New("illegal state transition")
)
