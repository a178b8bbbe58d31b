package storage

import "errors"

// Common storage errors
var (
	// ErrDocumentNotFound indicates that the document does not exist
	ErrDocumentNotFound = errors.New("document not found")

	// ErrBlobNotFound indicates that no blob is stored under the key
	ErrBlobNotFound = errors.New("blob not found")

	// ErrIdempotencyConflict indicates that an idempotency key was reused for a different request
	ErrIdempotencyConflict = errors.New("idempotency key reused for a different request")

	// ErrInvalidOrderBy indicates that the order_by value cannot be used
	ErrInvalidOrderBy = errors.New("invalid order_by")

	// ErrUnknownAction indicates a write action other than create, update or delete
	ErrUnknownAction = errors.New("unknown write action")
)
