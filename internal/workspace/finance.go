package workspace

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmynk/ekkora/internal/access"
	"github.com/mmynk/ekkora/internal/apperr"
	"github.com/mmynk/ekkora/internal/calculator"
	"github.com/mmynk/ekkora/internal/docstore"
	"github.com/mmynk/ekkora/internal/models"
	"github.com/mmynk/ekkora/internal/storage"
)

// EntryInput is the editable content of a finance entry as entered.
type EntryInput struct {
	Type     string
	Amount   float64
	Category string
	Note     string
	// Date is a YYYY-MM-DD calendar day.
	Date string
}

// validate checks the input and converts it to an entry without an ID.
func (in EntryInput) validate() (*models.FinanceEntry, error) {
	t, err := models.ParseEntryType(in.Type)
	if err != nil {
		return nil, apperr.Validationf("%v", err)
	}
	if in.Date == "" {
		return nil, apperr.Validationf("date is required")
	}
	date, err := calculator.EntryDate(in.Date)
	if err != nil {
		return nil, apperr.Validationf("%v", err)
	}
	if !(in.Amount > 0) {
		return nil, apperr.Validationf("amount must be greater than zero")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return nil, apperr.Validationf("category is required")
	}
	return &models.FinanceEntry{
		Type:     t,
		Amount:   in.Amount,
		Category: category,
		Note:     strings.TrimSpace(in.Note),
		Date:     date,
	}, nil
}

// resolveCategory replaces a category name the church does not have with the
// fallback category.
func (w *Workspace) resolveCategory(ctx context.Context, e *models.FinanceEntry) error {
	if e.Category == models.FallbackCategory {
		return nil
	}
	c, err := w.repo.GetCategory(ctx, w.sess.ChurchID(), storage.CategoryID(e.Type, e.Category))
	if err != nil {
		return err
	}
	if c == nil {
		e.Category = models.FallbackCategory
	} else {
		e.Category = c.Name
	}
	return nil
}

// CreateEntry validates and stores a new ledger entry.
func (w *Workspace) CreateEntry(ctx context.Context, in EntryInput) (*models.FinanceEntry, error) {
	if err := w.sess.Require(access.WriteFinance); err != nil {
		return nil, err
	}
	e, err := in.validate()
	if err != nil {
		return nil, err
	}
	if err := w.resolveCategory(ctx, e); err != nil {
		return nil, err
	}
	e.CreatedByUID = w.sess.UID()

	if err := w.repo.CreateEntry(ctx, w.sess.ChurchID(), e); err != nil {
		return nil, err
	}
	w.logger.Info("finance entry created", "church_id", w.sess.ChurchID(), "entry_id", e.ID, "type", e.Type)
	return w.repo.GetEntry(ctx, w.sess.ChurchID(), e.ID)
}

// UpdateEntry replaces the editable fields of an existing entry.
func (w *Workspace) UpdateEntry(ctx context.Context, entryID string, in EntryInput) (*models.FinanceEntry, error) {
	if err := w.sess.Require(access.WriteFinance); err != nil {
		return nil, err
	}
	if entryID == "" {
		return nil, apperr.Validationf("entry id is required")
	}
	e, err := in.validate()
	if err != nil {
		return nil, err
	}

	existing, err := w.repo.GetEntry(ctx, w.sess.ChurchID(), entryID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFoundf("entry %s not found", entryID)
	}
	if err := w.resolveCategory(ctx, e); err != nil {
		return nil, err
	}
	e.ID = entryID

	if err := w.repo.UpdateEntry(ctx, w.sess.ChurchID(), e); err != nil {
		return nil, err
	}
	return w.repo.GetEntry(ctx, w.sess.ChurchID(), entryID)
}

// DeleteEntry removes a ledger entry.
func (w *Workspace) DeleteEntry(ctx context.Context, entryID string) error {
	if err := w.sess.Require(access.WriteFinance); err != nil {
		return err
	}
	if entryID == "" {
		return apperr.Validationf("entry id is required")
	}
	return w.repo.DeleteEntry(ctx, w.sess.ChurchID(), entryID)
}

// ListEntries returns the entries dated within r matching search, newest first.
func (w *Workspace) ListEntries(ctx context.Context, r calculator.Range, search string) ([]models.FinanceEntry, error) {
	entries, err := w.repo.ListEntries(ctx, w.sess.ChurchID(), r.From, r.To)
	if err != nil {
		return nil, err
	}
	return calculator.Filter(entries, search), nil
}

// WatchEntries attaches a live view of the entries dated within r matching
// search, newest first.
func (w *Workspace) WatchEntries(
	ctx context.Context,
	r calculator.Range,
	search string,
	onChange func([]models.FinanceEntry, error),
) (*View[[]models.FinanceEntry], error) {
	q := storage.FinanceQuery(w.sess.ChurchID(), r.From, r.To)
	return watch(ctx, w, "finance", q, func(docs []*docstore.Document) ([]models.FinanceEntry, error) {
		entries, err := storage.DecodeEntries(docs)
		if err != nil {
			return nil, fmt.Errorf("failed to decode entries: %w", err)
		}
		return calculator.Filter(entries, search), nil
	}, onChange)
}

// CurrentMonth returns the calendar month containing now in the workspace's
// location.
func (w *Workspace) CurrentMonth() calculator.Range {
	return calculator.MonthRange(w.today())
}

// ParseRange reads a YYYY-MM-DD range in the workspace's location. Empty
// bounds default to the current month.
func (w *Workspace) ParseRange(from, to string) (calculator.Range, error) {
	month := w.CurrentMonth()
	if from == "" {
		from = month.From.Format(calculator.DateLayout)
	}
	if to == "" {
		to = month.To.Format(calculator.DateLayout)
	}
	r, err := calculator.ParseRange(from, to, w.loc)
	if err != nil {
		return calculator.Range{}, apperr.Validationf("%v", err)
	}
	return r, nil
}
