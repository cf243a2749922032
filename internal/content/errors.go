package content

import "errors"

var (
	// ErrRateLimitExceeded is the only failure that crosses the Acquire
	// boundary to callers.
	ErrRateLimitExceeded = errors.New("content rate limit exceeded")

	// ErrGeneratorUnavailable marks provider errors, timeouts, and refusals.
	// Always recovered internally via fallback.
	ErrGeneratorUnavailable = errors.New("generator unavailable")

	// ErrMalformedOutput marks generator output that failed shape validation.
	// Treated the same as ErrGeneratorUnavailable by callers.
	ErrMalformedOutput = errors.New("malformed generator output")
)
