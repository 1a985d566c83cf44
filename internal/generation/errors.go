package generation

import "errors"

var (
	// ErrUnavailable indicates the generation service could not be reached.
	ErrUnavailable = errors.New("generation service unavailable")

	// ErrBadStatus indicates the generation service answered with a
	// non-success HTTP status.
	ErrBadStatus = errors.New("generation service returned non-success status")

	// ErrMalformedOutput indicates the service response could not be parsed
	// into a structured program, even after JSON recovery.
	ErrMalformedOutput = errors.New("malformed generation output")

	// ErrRetryExhausted indicates all retry attempts have been used up.
	ErrRetryExhausted = errors.New("generation retry attempts exhausted")
)
