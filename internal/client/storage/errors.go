package storage

import "errors"

// Common client storage errors
var (
	// ErrKeyNotFound indicates that nothing is stored under the requested key
	ErrKeyNotFound = errors.New("key not found")

	// ErrTokenNotFound indicates that no access token has been stored
	ErrTokenNotFound = errors.New("access token not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
