// Package storetest holds the behavioral contract every docstore.Store
// backend must satisfy. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mmynk/ekkora/internal/docstore"
)

// Factory returns a fresh, empty store. Cleanup is the caller's concern.
type Factory func(t *testing.T) docstore.Store

// Run executes the contract against stores created by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get missing returns ErrNotFound", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, docstore.UserPath("nobody"))
		if !errors.Is(err, docstore.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Set then Get round-trips values", func(t *testing.T) {
		s := newStore(t)
		date := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
		path := docstore.FinancePath("c1", "f1")
		err := s.Set(ctx, path, docstore.Fields{
			"type":      "income",
			"amount":    100.5,
			"note":      nil,
			"date":      date,
			"createdAt": docstore.ServerTimestamp,
		})
		if err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		doc, err := s.Get(ctx, path)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if doc.ID != "f1" || doc.Path != path {
			t.Errorf("unexpected identity: %q %q", doc.ID, doc.Path)
		}
		if doc.Fields["type"] != "income" {
			t.Errorf("type = %v", doc.Fields["type"])
		}
		if c, ok := docstore.Compare(doc.Fields["amount"], 100.5); !ok || c != 0 {
			t.Errorf("amount = %v", doc.Fields["amount"])
		}
		if v, present := doc.Fields["note"]; !present || v != nil {
			t.Errorf("note = %v (present %v), want explicit nil", v, present)
		}
		got, ok := doc.Fields["date"].(time.Time)
		if !ok || !got.Equal(date) {
			t.Errorf("date = %#v, want %v", doc.Fields["date"], date)
		}
		if _, ok := doc.Fields["createdAt"].(time.Time); !ok {
			t.Errorf("createdAt should be resolved to a time, got %#v", doc.Fields["createdAt"])
		}
	})

	t.Run("Set without merge replaces, with merge keeps", func(t *testing.T) {
		s := newStore(t)
		path := docstore.UserPath("u1")
		mustSet(t, s, path, docstore.Fields{"email": "a@b.c", "churchId": nil})
		mustSet(t, s, path, docstore.Fields{"displayName": "Ana"}, docstore.Merge())

		doc := mustGet(t, s, path)
		if doc.Fields["email"] != "a@b.c" || doc.Fields["displayName"] != "Ana" {
			t.Errorf("merge lost fields: %v", doc.Fields)
		}

		mustSet(t, s, path, docstore.Fields{"displayName": "Bia"})
		doc = mustGet(t, s, path)
		if _, ok := doc.Fields["email"]; ok {
			t.Errorf("replace kept old field: %v", doc.Fields)
		}
	})

	t.Run("Create never overwrites", func(t *testing.T) {
		s := newStore(t)
		path := docstore.UserPath("u1")
		if err := s.Create(ctx, path, docstore.Fields{"churchId": nil, "createdAt": docstore.ServerTimestamp}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		mustSet(t, s, path, docstore.Fields{"churchId": "c1"}, docstore.Merge())

		err := s.Create(ctx, path, docstore.Fields{"churchId": nil})
		if !errors.Is(err, docstore.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
		if doc := mustGet(t, s, path); doc.Fields["churchId"] != "c1" {
			t.Errorf("churchId = %v, want c1", doc.Fields["churchId"])
		}
	})

	t.Run("Concurrent Create has one winner", func(t *testing.T) {
		s := newStore(t)
		path := docstore.IdentityPath("ana@example.com")

		const writers = 8
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				err := s.Create(ctx, path, docstore.Fields{"writer": int64(i)})
				if err != nil && !errors.Is(err, docstore.ErrAlreadyExists) {
					t.Errorf("Create failed: %v", err)
					return
				}
				if err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()
		if wins != 1 {
			t.Errorf("%d writers won, want 1", wins)
		}
	})

	t.Run("Update requires existing document", func(t *testing.T) {
		s := newStore(t)
		err := s.Update(ctx, docstore.ChurchPath("missing"), docstore.Fields{"name": "x"})
		if !errors.Is(err, docstore.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}

		path := docstore.ChurchPath("c1")
		mustSet(t, s, path, docstore.Fields{"name": "Old", "city": "Recife"})
		if err := s.Update(ctx, path, docstore.Fields{"name": "New"}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		doc := mustGet(t, s, path)
		if doc.Fields["name"] != "New" || doc.Fields["city"] != "Recife" {
			t.Errorf("unexpected fields after update: %v", doc.Fields)
		}
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		s := newStore(t)
		path := docstore.CategoryPath("c1", "income_dizimo")
		mustSet(t, s, path, docstore.Fields{"name": "Dízimo"})
		if err := s.Delete(ctx, path); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if err := s.Delete(ctx, path); err != nil {
			t.Fatalf("second Delete failed: %v", err)
		}
		if _, err := s.Get(ctx, path); !errors.Is(err, docstore.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("Query is scoped to one collection", func(t *testing.T) {
		s := newStore(t)
		mustSet(t, s, docstore.FinancePath("c1", "a"), docstore.Fields{"amount": 1.0})
		mustSet(t, s, docstore.FinancePath("c1", "b"), docstore.Fields{"amount": 3.0})
		mustSet(t, s, docstore.FinancePath("c2", "c"), docstore.Fields{"amount": 2.0})
		mustSet(t, s, docstore.ChurchPath("c1"), docstore.Fields{"amount": 9.0})

		docs, err := s.Query(ctx, docstore.From(docstore.FinanceCollection("c1")).Order("amount", true))
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(docs) != 2 || docs[0].ID != "b" || docs[1].ID != "a" {
			t.Errorf("unexpected result: %d docs", len(docs))
		}
	})

	t.Run("Subscribe delivers initial and changed snapshots", func(t *testing.T) {
		s := newStore(t)
		collection := docstore.CategoriesCollection("c1")
		snapshots := make(chan docstore.Snapshot, 16)
		sub, err := s.Subscribe(ctx, docstore.From(collection).Order("name", false), func(snap docstore.Snapshot) {
			snapshots <- snap
		})
		if err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
		defer sub.Close()

		first := WaitFor(t, snapshots, func(s docstore.Snapshot) bool { return s.Err == nil })
		if len(first.Documents) != 0 {
			t.Fatalf("expected empty initial snapshot, got %d docs", len(first.Documents))
		}

		mustSet(t, s, docstore.Join(collection, "x"), docstore.Fields{"name": "Oferta"})
		WaitFor(t, snapshots, func(s docstore.Snapshot) bool { return len(s.Documents) == 1 })

		mustSet(t, s, docstore.FinancePath("c1", "f1"), docstore.Fields{"amount": 1.0})
		if err := s.Delete(ctx, docstore.Join(collection, "x")); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		WaitFor(t, snapshots, func(s docstore.Snapshot) bool { return s.Err == nil && len(s.Documents) == 0 })
	})

	t.Run("Closed subscription stops delivering", func(t *testing.T) {
		s := newStore(t)
		collection := docstore.PeopleCollection("c1")
		snapshots := make(chan docstore.Snapshot, 16)
		sub, err := s.Subscribe(ctx, docstore.From(collection), func(snap docstore.Snapshot) {
			snapshots <- snap
		})
		if err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
		WaitFor(t, snapshots, func(docstore.Snapshot) bool { return true })

		sub.Close()
		sub.Close()
		mustSet(t, s, docstore.Join(collection, "p1"), docstore.Fields{"name": "Ana"})

		select {
		case snap := <-snapshots:
			t.Fatalf("unexpected snapshot after Close: %d docs", len(snap.Documents))
		case <-time.After(200 * time.Millisecond):
		}
	})
}

// WaitFor receives snapshots until match returns true or a timeout elapses.
func WaitFor(t *testing.T, ch <-chan docstore.Snapshot, match func(docstore.Snapshot) bool) docstore.Snapshot {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case snap := <-ch:
			if match(snap) {
				return snap
			}
		case <-timeout:
			t.Fatal("timed out waiting for snapshot")
			return docstore.Snapshot{}
		}
	}
}

func mustSet(t *testing.T, s docstore.Store, path string, fields docstore.Fields, opts ...docstore.SetOption) {
	t.Helper()
	if err := s.Set(context.Background(), path, fields, opts...); err != nil {
		t.Fatalf("Set(%s) failed: %v", path, err)
	}
}

func mustGet(t *testing.T, s docstore.Store, path string) *docstore.Document {
	t.Helper()
	doc, err := s.Get(context.Background(), path)
	if err != nil {
		t.Fatalf("Get(%s) failed: %v", path, err)
	}
	return doc
}
