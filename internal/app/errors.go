package app

import "errors"

// Sentinel errors for common application errors
var (
	ErrNoUser          = errors.New("no user configured")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotInitialized  = errors.New("app not initialized")
	ErrOffline         = errors.New("offline and nothing cached")
)
