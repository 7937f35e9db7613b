// Package firestore adapts Cloud Firestore to docstore.Store. Live queries
// use Firestore's native snapshot listeners.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mmynk/ekkora/internal/docstore"
)

var _ docstore.Store = (*Store)(nil)

// Store implements docstore.Store over a Firestore client.
type Store struct {
	client *firestore.Client

	mu   sync.Mutex
	subs map[*subscription]struct{}
}

// New opens the Firestore client of app.
func New(ctx context.Context, app *firebase.App) (*Store, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firestore client: %w", err)
	}
	return NewFromClient(client), nil
}

// NewFromClient wraps an existing client. The store takes ownership of it.
func NewFromClient(client *firestore.Client) *Store {
	return &Store{client: client, subs: make(map[*subscription]struct{})}
}

func (s *Store) Get(ctx context.Context, path string) (*docstore.Document, error) {
	ref, err := s.doc(path)
	if err != nil {
		return nil, err
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, translate(err, "failed to get document")
	}
	return toDocument(snap), nil
}

func (s *Store) Set(ctx context.Context, path string, fields docstore.Fields, opts ...docstore.SetOption) error {
	ref, err := s.doc(path)
	if err != nil {
		return err
	}
	var setOpts []firestore.SetOption
	if docstore.ApplySetOptions(opts...).Merge {
		setOpts = append(setOpts, firestore.MergeAll)
	}
	if _, err := ref.Set(ctx, toFirestore(fields), setOpts...); err != nil {
		return translate(err, "failed to write document")
	}
	return nil
}

func (s *Store) Create(ctx context.Context, path string, fields docstore.Fields) error {
	ref, err := s.doc(path)
	if err != nil {
		return err
	}
	if _, err := ref.Create(ctx, toFirestore(fields)); err != nil {
		return translate(err, "failed to create document")
	}
	return nil
}

func (s *Store) Update(ctx context.Context, path string, fields docstore.Fields) error {
	ref, err := s.doc(path)
	if err != nil {
		return err
	}
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range toFirestore(fields) {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	if _, err := ref.Update(ctx, updates); err != nil {
		return translate(err, "failed to update document")
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	ref, err := s.doc(path)
	if err != nil {
		return err
	}
	if _, err := ref.Delete(ctx); err != nil {
		return translate(err, "failed to delete document")
	}
	return nil
}

func (s *Store) Query(ctx context.Context, q docstore.Query) ([]*docstore.Document, error) {
	fq, err := s.query(q)
	if err != nil {
		return nil, err
	}
	snaps, err := fq.Documents(ctx).GetAll()
	if err != nil {
		return nil, translate(err, "failed to query documents")
	}
	docs := make([]*docstore.Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, toDocument(snap))
	}
	return docs, nil
}

// Subscribe attaches a Firestore snapshot listener.
func (s *Store) Subscribe(ctx context.Context, q docstore.Query, handler func(docstore.Snapshot)) (docstore.Subscription, error) {
	fq, err := s.query(q)
	if err != nil {
		return nil, err
	}

	sctx, cancel := context.WithCancel(ctx)
	sub := &subscription{store: s, cancel: cancel, iter: fq.Snapshots(sctx)}

	s.mu.Lock()
	if s.subs == nil {
		s.mu.Unlock()
		cancel()
		sub.iter.Stop()
		return nil, docstore.ErrClosed
	}
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	go sub.loop(sctx, handler)
	return sub, nil
}

// Close detaches every listener and closes the client.
func (s *Store) Close() error {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for sub := range subs {
		sub.Close()
	}
	return s.client.Close()
}

func (s *Store) doc(path string) (*firestore.DocumentRef, error) {
	if _, _, err := docstore.Split(path); err != nil {
		return nil, err
	}
	ref := s.client.Doc(path)
	if ref == nil {
		return nil, docstore.ErrInvalidPath
	}
	return ref, nil
}

func (s *Store) query(q docstore.Query) (firestore.Query, error) {
	if !docstore.ValidCollection(q.Collection) {
		return firestore.Query{}, docstore.ErrInvalidPath
	}
	col := s.client.Collection(q.Collection)
	if col == nil {
		return firestore.Query{}, docstore.ErrInvalidPath
	}

	fq := col.Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, string(f.Op), f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Descending {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}
	return fq, nil
}

type subscription struct {
	store  *Store
	cancel context.CancelFunc
	iter   *firestore.QuerySnapshotIterator
	closed atomic.Bool

	delivering sync.Mutex
}

func (sub *subscription) loop(ctx context.Context, handler func(docstore.Snapshot)) {
	defer sub.Close()
	for {
		qs, err := sub.iter.Next()
		if sub.closed.Load() || ctx.Err() != nil || errors.Is(err, iterator.Done) {
			return
		}
		if err != nil {
			sub.deliver(handler, docstore.Snapshot{Err: translate(err, "live query failed")})
			// The listener does not recover after an error.
			return
		}

		snaps, err := qs.Documents.GetAll()
		if err != nil {
			if !sub.deliver(handler, docstore.Snapshot{Err: translate(err, "failed to read snapshot")}) {
				return
			}
			continue
		}
		docs := make([]*docstore.Document, 0, len(snaps))
		for _, snap := range snaps {
			docs = append(docs, toDocument(snap))
		}
		if !sub.deliver(handler, docstore.Snapshot{Documents: docs}) {
			return
		}
	}
}

func (sub *subscription) deliver(handler func(docstore.Snapshot), snap docstore.Snapshot) bool {
	sub.delivering.Lock()
	defer sub.delivering.Unlock()
	if sub.closed.Load() {
		return false
	}
	handler(snap)
	return true
}

func (sub *subscription) Close() {
	if sub.closed.Swap(true) {
		return
	}
	sub.cancel()
	sub.iter.Stop()

	sub.store.mu.Lock()
	delete(sub.store.subs, sub)
	sub.store.mu.Unlock()

	sub.delivering.Lock()
	sub.delivering.Unlock()
}

func toDocument(snap *firestore.DocumentSnapshot) *docstore.Document {
	return &docstore.Document{
		Path:       relativePath(snap.Ref),
		ID:         snap.Ref.ID,
		Fields:     docstore.Fields(snap.Data()),
		CreateTime: snap.CreateTime.UTC(),
		UpdateTime: snap.UpdateTime.UTC(),
	}
}

// relativePath strips the projects/{p}/databases/{d}/documents/ prefix.
func relativePath(ref *firestore.DocumentRef) string {
	var segments []string
	for doc := ref; doc != nil; {
		segments = append([]string{doc.ID}, segments...)
		col := doc.Parent
		if col == nil {
			break
		}
		segments = append([]string{col.ID}, segments...)
		doc = col.Parent
	}
	return strings.Join(segments, "/")
}

func toFirestore(fields docstore.Fields) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if docstore.IsServerTimestamp(v) {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}

func translate(err error, msg string) error {
	switch status.Code(err) {
	case codes.NotFound:
		return docstore.ErrNotFound
	case codes.AlreadyExists:
		return docstore.ErrAlreadyExists
	case codes.PermissionDenied, codes.Unauthenticated:
		return fmt.Errorf("%w: %s: %w", docstore.ErrPermissionDenied, msg, err)
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return fmt.Errorf("%w: %s: %w", docstore.ErrUnavailable, msg, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
