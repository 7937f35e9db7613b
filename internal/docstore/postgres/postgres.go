// Package postgres provides a PostgreSQL-backed implementation of
// docstore.Store. Documents live in one JSONB table keyed by path.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmynk/ekkora/internal/docstore"
	"github.com/mmynk/ekkora/internal/docstore/jsondoc"
)

var _ docstore.Store = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    path TEXT PRIMARY KEY,
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    data JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection);
`

const selectColumns = "SELECT path, id, data, created_at, updated_at FROM documents"

// Store implements docstore.Store on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
	hub  *docstore.Hub
	now  func() time.Time
}

// New connects to dsn and ensures the schema exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	s := &Store{pool: pool, now: func() time.Time { return time.Now().UTC() }}
	s.hub = docstore.NewHub(s.Query)
	return s, nil
}

// Close detaches live queries and closes the pool.
func (s *Store) Close() error {
	s.hub.Close()
	s.pool.Close()
	return nil
}

func (s *Store) Get(ctx context.Context, path string) (*docstore.Document, error) {
	if _, _, err := docstore.Split(path); err != nil {
		return nil, err
	}
	return getDocument(ctx, s.pool, path, false)
}

func (s *Store) Set(ctx context.Context, path string, fields docstore.Fields, opts ...docstore.SetOption) error {
	collection, id, err := docstore.Split(path)
	if err != nil {
		return err
	}
	o := docstore.ApplySetOptions(opts...)
	now := s.now()
	resolved := docstore.ResolveTimestamps(fields, now)

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if o.Merge {
			existing, err := getDocument(ctx, tx, path, true)
			if err != nil && !errors.Is(err, docstore.ErrNotFound) {
				return err
			}
			if existing != nil {
				resolved = docstore.MergeFields(existing.Fields, resolved)
			}
		}
		data, err := jsondoc.Encode(resolved)
		if err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO documents (path, collection, id, data, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $5)
			 ON CONFLICT (path) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
			path, collection, id, string(data), now,
		)
		if err != nil {
			return fmt.Errorf("%w: failed to write document: %w", docstore.ErrUnavailable, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.hub.Notify(collection)
	return nil
}

func (s *Store) Create(ctx context.Context, path string, fields docstore.Fields) error {
	collection, id, err := docstore.Split(path)
	if err != nil {
		return err
	}
	now := s.now()
	data, err := jsondoc.Encode(docstore.ResolveTimestamps(fields, now))
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO documents (path, collection, id, data, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 ON CONFLICT (path) DO NOTHING`,
		path, collection, id, string(data), now,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to create document: %w", docstore.ErrUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrAlreadyExists
	}

	s.hub.Notify(collection)
	return nil
}

func (s *Store) Update(ctx context.Context, path string, fields docstore.Fields) error {
	collection, _, err := docstore.Split(path)
	if err != nil {
		return err
	}
	now := s.now()

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		existing, err := getDocument(ctx, tx, path, true)
		if err != nil {
			return err
		}
		data, err := jsondoc.Encode(docstore.MergeFields(existing.Fields, docstore.ResolveTimestamps(fields, now)))
		if err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
		if _, err := tx.Exec(ctx,
			"UPDATE documents SET data = $1, updated_at = $2 WHERE path = $3",
			string(data), now, path,
		); err != nil {
			return fmt.Errorf("%w: failed to update document: %w", docstore.ErrUnavailable, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.hub.Notify(collection)
	return nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	collection, _, err := docstore.Split(path)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, "DELETE FROM documents WHERE path = $1", path)
	if err != nil {
		return fmt.Errorf("%w: failed to delete document: %w", docstore.ErrUnavailable, err)
	}
	if tag.RowsAffected() > 0 {
		s.hub.Notify(collection)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, q docstore.Query) ([]*docstore.Document, error) {
	if !docstore.ValidCollection(q.Collection) {
		return nil, docstore.ErrInvalidPath
	}
	rows, err := s.pool.Query(ctx, selectColumns+" WHERE collection = $1", q.Collection)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query documents: %w", docstore.ErrUnavailable, err)
	}
	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*docstore.Document, error) {
		return scanDocument(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan documents: %w", err)
	}
	return docstore.Apply(q, docs), nil
}

func (s *Store) Subscribe(ctx context.Context, q docstore.Query, handler func(docstore.Snapshot)) (docstore.Subscription, error) {
	return s.hub.Subscribe(ctx, q, handler)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getDocument(ctx context.Context, q querier, path string, forUpdate bool) (*docstore.Document, error) {
	query := selectColumns + " WHERE path = $1"
	if forUpdate {
		query += " FOR UPDATE"
	}
	doc, err := scanDocument(q.QueryRow(ctx, query, path))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get document: %w", docstore.ErrUnavailable, err)
	}
	return doc, nil
}

func scanDocument(row pgx.Row) (*docstore.Document, error) {
	var (
		doc  docstore.Document
		data []byte
	)
	if err := row.Scan(&doc.Path, &doc.ID, &data, &doc.CreateTime, &doc.UpdateTime); err != nil {
		return nil, err
	}
	fields, err := jsondoc.Decode(data)
	if err != nil {
		return nil, err
	}
	doc.Fields = fields
	doc.CreateTime = doc.CreateTime.UTC()
	doc.UpdateTime = doc.UpdateTime.UTC()
	return &doc, nil
}
