package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/ekkora/internal/docstore"
	"github.com/mmynk/ekkora/internal/models"
)

// CreateEntry stores a new finance entry and assigns its ID.
func (r *Repository) CreateEntry(ctx context.Context, churchID string, e *models.FinanceEntry) error {
	e.ID = uuid.New().String()
	fields := entryFields(e)
	fields["createdByUid"] = e.CreatedByUID
	fields["createdAt"] = docstore.ServerTimestamp

	if err := r.docs.Set(ctx, docstore.FinancePath(churchID, e.ID), fields); err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	return nil
}

// GetEntry returns a finance entry, or nil if it does not exist.
func (r *Repository) GetEntry(ctx context.Context, churchID, entryID string) (*models.FinanceEntry, error) {
	doc, err := r.getDoc(ctx, docstore.FinancePath(churchID, entryID))
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	if doc == nil {
		return nil, nil
	}

	var e models.FinanceEntry
	if err := decode(doc.Fields, &e); err != nil {
		return nil, err
	}
	e.ID = doc.ID
	return &e, nil
}

// UpdateEntry overwrites the editable fields of an existing entry.
func (r *Repository) UpdateEntry(ctx context.Context, churchID string, e *models.FinanceEntry) error {
	if err := r.docs.Update(ctx, docstore.FinancePath(churchID, e.ID), entryFields(e)); err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return nil
}

// DeleteEntry removes a finance entry.
func (r *Repository) DeleteEntry(ctx context.Context, churchID, entryID string) error {
	if err := r.docs.Delete(ctx, docstore.FinancePath(churchID, entryID)); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

func entryFields(e *models.FinanceEntry) docstore.Fields {
	return docstore.Fields{
		"type":      string(e.Type),
		"amount":    e.Amount,
		"category":  e.Category,
		"note":      nullable(e.Note),
		"date":      e.Date,
		"updatedAt": docstore.ServerTimestamp,
	}
}

// FinanceQuery selects entries dated within [from, to], newest first.
// A zero bound leaves that side open.
func FinanceQuery(churchID string, from, to time.Time) docstore.Query {
	q := docstore.From(docstore.FinanceCollection(churchID)).Order("date", true)
	if !from.IsZero() {
		q = q.Where("date", docstore.Gte, from)
	}
	if !to.IsZero() {
		q = q.Where("date", docstore.Lte, to)
	}
	return q
}

// DecodeEntries converts finance documents.
func DecodeEntries(docs []*docstore.Document) ([]models.FinanceEntry, error) {
	return decodeDocs(docs, func(e *models.FinanceEntry, id string) { e.ID = id })
}

// ListEntries returns the entries of churchID dated within [from, to].
func (r *Repository) ListEntries(ctx context.Context, churchID string, from, to time.Time) ([]models.FinanceEntry, error) {
	docs, err := r.docs.Query(ctx, FinanceQuery(churchID, from, to))
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return DecodeEntries(docs)
}
