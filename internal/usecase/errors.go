package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// Provider fetch classification. RateLimited and Validation are
	// terminal; the others mark transient classes that were retried and
	// exhausted inside the gateway.
	ErrRateLimited         = errors.New("provider rate limited")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrNetwork             = errors.New("network failure")
	ErrTimeout             = errors.New("request timed out")
	ErrValidation          = errors.New("event failed validation")

	ErrPersistence = errors.New("persistence failure")
)
