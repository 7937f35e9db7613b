// Package memory provides an in-process implementation of docstore.Store.
// It is used for development and tests; data does not survive a restart.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mmynk/ekkora/internal/docstore"
)

// Ensure Store implements docstore.Store
var _ docstore.Store = (*Store)(nil)

// Store keeps documents in a map keyed by path.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*docstore.Document
	hub  *docstore.Hub
	now  func() time.Time
}

// New creates an empty store.
func New() *Store {
	s := &Store{
		docs: make(map[string]*docstore.Document),
		now:  func() time.Time { return time.Now().UTC() },
	}
	s.hub = docstore.NewHub(s.Query)
	return s
}

// Get returns a copy of the document at path.
func (s *Store) Get(ctx context.Context, path string) (*docstore.Document, error) {
	if _, _, err := docstore.Split(path); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[path]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return doc.Clone(), nil
}

// Set writes a document, merging when requested.
func (s *Store) Set(ctx context.Context, path string, fields docstore.Fields, opts ...docstore.SetOption) error {
	collection, id, err := docstore.Split(path)
	if err != nil {
		return err
	}
	o := docstore.ApplySetOptions(opts...)
	now := s.now()
	resolved := docstore.ResolveTimestamps(fields, now)

	s.mu.Lock()
	existing, ok := s.docs[path]
	doc := &docstore.Document{Path: path, ID: id, Fields: resolved, CreateTime: now, UpdateTime: now}
	if ok {
		doc.CreateTime = existing.CreateTime
		if o.Merge {
			doc.Fields = docstore.MergeFields(existing.Fields, resolved)
		}
	}
	s.docs[path] = doc
	s.mu.Unlock()

	s.hub.Notify(collection)
	return nil
}

// Create inserts a document unless the path is taken.
func (s *Store) Create(ctx context.Context, path string, fields docstore.Fields) error {
	collection, id, err := docstore.Split(path)
	if err != nil {
		return err
	}
	now := s.now()

	s.mu.Lock()
	if _, ok := s.docs[path]; ok {
		s.mu.Unlock()
		return docstore.ErrAlreadyExists
	}
	s.docs[path] = &docstore.Document{
		Path:       path,
		ID:         id,
		Fields:     docstore.ResolveTimestamps(fields, now),
		CreateTime: now,
		UpdateTime: now,
	}
	s.mu.Unlock()

	s.hub.Notify(collection)
	return nil
}

// Update merges fields into an existing document.
func (s *Store) Update(ctx context.Context, path string, fields docstore.Fields) error {
	collection, _, err := docstore.Split(path)
	if err != nil {
		return err
	}
	now := s.now()

	s.mu.Lock()
	existing, ok := s.docs[path]
	if !ok {
		s.mu.Unlock()
		return docstore.ErrNotFound
	}
	updated := existing.Clone()
	updated.Fields = docstore.MergeFields(existing.Fields, docstore.ResolveTimestamps(fields, now))
	updated.UpdateTime = now
	s.docs[path] = updated
	s.mu.Unlock()

	s.hub.Notify(collection)
	return nil
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, path string) error {
	collection, _, err := docstore.Split(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	_, existed := s.docs[path]
	delete(s.docs, path)
	s.mu.Unlock()

	if existed {
		s.hub.Notify(collection)
	}
	return nil
}

// Query scans the collection and applies q.
func (s *Store) Query(ctx context.Context, q docstore.Query) ([]*docstore.Document, error) {
	if !docstore.ValidCollection(q.Collection) {
		return nil, docstore.ErrInvalidPath
	}
	prefix := q.Collection + "/"

	s.mu.RLock()
	var docs []*docstore.Document
	for path, doc := range s.docs {
		if !strings.HasPrefix(path, prefix) || strings.Contains(path[len(prefix):], "/") {
			continue
		}
		docs = append(docs, doc.Clone())
	}
	s.mu.RUnlock()

	return docstore.Apply(q, docs), nil
}

// Subscribe attaches a live query.
func (s *Store) Subscribe(ctx context.Context, q docstore.Query, handler func(docstore.Snapshot)) (docstore.Subscription, error) {
	return s.hub.Subscribe(ctx, q, handler)
}

// Subscriptions returns the number of attached live queries.
func (s *Store) Subscriptions() int {
	return s.hub.Active()
}

// Close detaches all live queries.
func (s *Store) Close() error {
	s.hub.Close()
	return nil
}
