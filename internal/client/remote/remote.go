// Package remote defines the contract of the remote document store the
// sync engine delivers to.
package remote

import (
	"context"
	"errors"

	"github.com/iudanet/keepsake/internal/models"
)

//go:generate moq -out store_mock.go . Store

// ErrPermanent marks a rejection that will fail the same way on every retry
var ErrPermanent = errors.New("permanent remote rejection")

// IsPermanent reports whether err must not be retried
func IsPermanent(err error) bool {
	return errors.Is(err, ErrPermanent)
}

// Permanent wraps err so that IsPermanent reports true for it
func Permanent(err error) error {
	if err == nil || IsPermanent(err) {
		return err
	}
	return &permanentError{err: err}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() []error { return []error{e.err, ErrPermanent} }

// QueryOptions narrows a collection query
type QueryOptions struct {
	OrderBy    string
	Descending bool
	Limit      int
}

// Store is the remote document store
type Store interface {
	// Query returns the documents of collection
	Query(ctx context.Context, collection string, opts QueryOptions) ([]models.Record, error)

	// Create writes a new document
	Create(ctx context.Context, collection, id string, fields map[string]any) error

	// Update merges fields into an existing document
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete removes a document; deleting a missing document succeeds
	Delete(ctx context.Context, collection, id string) error

	// PutBlob uploads binary content and returns a reference to it
	PutBlob(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type idempotencyKey struct{}

// WithIdempotencyKey attaches the client key that the store deduplicates
// a write on
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKey{}, key)
}

// IdempotencyKey returns the key attached by WithIdempotencyKey
func IdempotencyKey(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(idempotencyKey{}).(string)
	return key, ok && key != ""
}
