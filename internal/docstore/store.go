// Package docstore defines the document store collaborator: documents
// addressed by slash-separated paths, point reads and writes, and live queries
// that push a full result set whenever the underlying collection changes.
package docstore

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrAlreadyExists    = errors.New("document already exists")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnavailable      = errors.New("document store unavailable")
	ErrInvalidPath      = errors.New("invalid document path")
	ErrClosed           = errors.New("document store closed")
)

// Fields is the content of a document. Values are strings, float64, int64,
// bool, time.Time, nil, or ServerTimestamp on write.
type Fields map[string]any

// Document is a stored document and its location.
type Document struct {
	// Path is the full document path, e.g. churches/c1/finance/f1.
	Path string
	// ID is the last path segment.
	ID     string
	Fields Fields

	CreateTime time.Time
	UpdateTime time.Time
}

// SetOptions configures Set.
type SetOptions struct {
	// Merge keeps fields of an existing document that are not being written.
	Merge bool
}

// SetOption mutates SetOptions.
type SetOption func(*SetOptions)

// Merge makes Set merge into an existing document instead of replacing it.
func Merge() SetOption {
	return func(o *SetOptions) { o.Merge = true }
}

// ApplySetOptions folds opts into a SetOptions value.
func ApplySetOptions(opts ...SetOption) SetOptions {
	var o SetOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Snapshot is one push of a live query. Err is set when the query failed; the
// subscription stays attached and a later change may deliver documents again.
type Snapshot struct {
	Documents []*Document
	Err       error
}

// Subscription is an attached live query. Close detaches it; once Close
// returns no delivery is running and none will start. Close waits for an
// in-flight delivery, so a handler must not close its own subscription.
// Close is idempotent.
type Subscription interface {
	Close()
}

// Store is the document store contract.
type Store interface {
	// Get returns the document at path, or ErrNotFound.
	Get(ctx context.Context, path string) (*Document, error)

	// Set writes fields at path, replacing the document unless Merge is given.
	Set(ctx context.Context, path string, fields Fields, opts ...SetOption) error

	// Create writes fields at path only if no document is there yet, and
	// returns ErrAlreadyExists otherwise. The check and the write are atomic.
	Create(ctx context.Context, path string, fields Fields) error

	// Update merges fields into an existing document, or returns ErrNotFound.
	Update(ctx context.Context, path string, fields Fields) error

	// Delete removes the document at path. Deleting an absent document is not an error.
	Delete(ctx context.Context, path string) error

	// Query runs q once.
	Query(ctx context.Context, q Query) ([]*Document, error)

	// Subscribe attaches a live query. The handler receives the current result
	// immediately and again after every change to q.Collection. Handlers for one
	// subscription never run concurrently; ordering across subscriptions is
	// unspecified. The subscription also ends when ctx is done.
	Subscribe(ctx context.Context, q Query, handler func(Snapshot)) (Subscription, error)

	// Close releases the store's resources and detaches all subscriptions.
	Close() error
}
