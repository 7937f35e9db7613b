// Package storage provides typed repositories over the document store.
//
// Each aggregate has explicit encode functions so optional values are written
// as null, and a shared mapstructure decoder that reads documents from any
// backend (Firestore returns int64 and time.Time, the JSON backends float64
// and tagged times).
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/mmynk/ekkora/internal/docstore"
)

// Repository is the typed access layer for every Ekkora document.
// It holds no state besides the store, so one value is shared by all callers.
type Repository struct {
	docs docstore.Store
}

// New creates a Repository over docs.
func New(docs docstore.Store) *Repository {
	return &Repository{docs: docs}
}

// Docs exposes the underlying store for live queries.
func (r *Repository) Docs() docstore.Store {
	return r.docs
}

// Close releases the underlying store.
func (r *Repository) Close() error {
	return r.docs.Close()
}

// decode copies document fields into a model using its `doc` tags.
func decode(fields docstore.Fields, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "doc",
		WeaklyTypedInput: true,
		Result:           out,
		// Explicit nulls are skipped, leaving the zero value.
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(fields)); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// getDoc returns nil, nil when the document does not exist.
func (r *Repository) getDoc(ctx context.Context, path string) (*docstore.Document, error) {
	doc, err := r.docs.Get(ctx, path)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeDocs[T any](docs []*docstore.Document, setID func(*T, string)) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := decode(d.Fields, &v); err != nil {
			return nil, fmt.Errorf("%s: %w", d.Path, err)
		}
		if setID != nil {
			setID(&v, d.ID)
		}
		out = append(out, v)
	}
	return out, nil
}

// nullable stores empty strings as null.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
