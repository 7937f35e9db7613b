// Package sqlite provides a SQLite-backed implementation of docstore.Store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/ekkora/internal/docstore"
	"github.com/mmynk/ekkora/internal/docstore/jsondoc"
)

// Ensure Store implements docstore.Store
var _ docstore.Store = (*Store)(nil)

// Store implements docstore.Store on a single SQLite table. Live queries are
// driven by an in-process hub, so only writes made through this Store are
// observed.
type Store struct {
	db  *sql.DB
	hub *docstore.Hub
	now func() time.Time
}

// New creates a Store with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; avoids SQLITE_BUSY between the hub and request goroutines.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	s := &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
	s.hub = docstore.NewHub(s.Query)
	return s, nil
}

// Close detaches live queries and closes the database connection.
func (s *Store) Close() error {
	s.hub.Close()
	return s.db.Close()
}

// Get retrieves a document by path.
func (s *Store) Get(ctx context.Context, path string) (*docstore.Document, error) {
	if _, _, err := docstore.Split(path); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx,
		"SELECT path, id, data, created_at, updated_at FROM documents WHERE path = ?",
		path,
	)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get document: %w", docstore.ErrUnavailable, err)
	}
	return doc, nil
}

// Set writes a document, merging into the existing one when requested.
func (s *Store) Set(ctx context.Context, path string, fields docstore.Fields, opts ...docstore.SetOption) error {
	collection, id, err := docstore.Split(path)
	if err != nil {
		return err
	}
	o := docstore.ApplySetOptions(opts...)
	now := s.now()
	resolved := docstore.ResolveTimestamps(fields, now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", docstore.ErrUnavailable, err)
	}
	defer tx.Rollback()

	if o.Merge {
		existing, err := getTx(ctx, tx, path)
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

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (path, collection, id, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		path, collection, id, string(data), now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to write document: %w", docstore.ErrUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit transaction: %w", docstore.ErrUnavailable, err)
	}

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
	data, err := jsondoc.Encode(docstore.ResolveTimestamps(fields, now))
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (path, collection, id, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO NOTHING`,
		path, collection, id, string(data), now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to create document: %w", docstore.ErrUnavailable, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("%w: failed to create document: %w", docstore.ErrUnavailable, err)
	} else if n == 0 {
		return docstore.ErrAlreadyExists
	}

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

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", docstore.ErrUnavailable, err)
	}
	defer tx.Rollback()

	existing, err := getTx(ctx, tx, path)
	if err != nil {
		return err
	}

	data, err := jsondoc.Encode(docstore.MergeFields(existing.Fields, docstore.ResolveTimestamps(fields, now)))
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE documents SET data = ?, updated_at = ? WHERE path = ?",
		string(data), now.UnixNano(), path,
	); err != nil {
		return fmt.Errorf("%w: failed to update document: %w", docstore.ErrUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit transaction: %w", docstore.ErrUnavailable, err)
	}

	s.hub.Notify(collection)
	return nil
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, path string) error {
	collection, _, err := docstore.Split(path)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("%w: failed to delete document: %w", docstore.ErrUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.hub.Notify(collection)
	}
	return nil
}

// Query loads the collection and applies q in memory.
func (s *Store) Query(ctx context.Context, q docstore.Query) ([]*docstore.Document, error) {
	if !docstore.ValidCollection(q.Collection) {
		return nil, docstore.ErrInvalidPath
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT path, id, data, created_at, updated_at FROM documents WHERE collection = ?",
		q.Collection,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query documents: %w", docstore.ErrUnavailable, err)
	}
	defer rows.Close()

	var docs []*docstore.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return docstore.Apply(q, docs), nil
}

// Subscribe attaches a live query.
func (s *Store) Subscribe(ctx context.Context, q docstore.Query, handler func(docstore.Snapshot)) (docstore.Subscription, error) {
	return s.hub.Subscribe(ctx, q, handler)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*docstore.Document, error) {
	var (
		doc                  docstore.Document
		data                 string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&doc.Path, &doc.ID, &data, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	fields, err := jsondoc.Decode([]byte(data))
	if err != nil {
		return nil, err
	}
	doc.Fields = fields
	doc.CreateTime = time.Unix(0, createdAt).UTC()
	doc.UpdateTime = time.Unix(0, updatedAt).UTC()
	return &doc, nil
}

func getTx(ctx context.Context, tx *sql.Tx, path string) (*docstore.Document, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT path, id, data, created_at, updated_at FROM documents WHERE path = ?",
		path,
	)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get document: %w", docstore.ErrUnavailable, err)
	}
	return doc, nil
}
