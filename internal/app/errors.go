package app

import "errors"

// Sentinel errors for common application errors
var (
	ErrNotConfigured   = errors.New("notion access is not configured")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrPartialFailure  = errors.New("some entries failed")
)
