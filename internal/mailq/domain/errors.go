package domain

import "errors"

var (
	// ErrJobNotFound is returned when a job id does not exist in the queue.
	ErrJobNotFound = errors.New("email job not found")

	// ErrUnknownEmailType is returned when metadata is decoded for a type
	// outside the known template families.
	ErrUnknownEmailType = errors.New("unknown email type")
)
