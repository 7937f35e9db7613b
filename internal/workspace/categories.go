package workspace

import (
	"context"
	"strings"

	"github.com/mmynk/ekkora/internal/access"
	"github.com/mmynk/ekkora/internal/apperr"
	"github.com/mmynk/ekkora/internal/docstore"
	"github.com/mmynk/ekkora/internal/models"
	"github.com/mmynk/ekkora/internal/storage"
)

// CreateCategory adds a category. Creating a name that already exists for the
// type returns the existing category.
func (w *Workspace) CreateCategory(ctx context.Context, entryType, name string) (*models.Category, error) {
	if err := w.sess.Require(access.WriteCategory); err != nil {
		return nil, err
	}
	t, err := models.ParseEntryType(entryType)
	if err != nil {
		return nil, apperr.Validationf("%v", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validationf("category name is required")
	}
	if storage.CategoryID(t, name) == string(t)+"_" {
		return nil, apperr.Validationf("category name %q has no usable characters", name)
	}

	c := &models.Category{Type: t, Name: name, CreatedByUID: w.sess.UID()}
	if existing, err := w.repo.GetCategory(ctx, w.sess.ChurchID(), storage.CategoryID(t, name)); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}
	if err := w.repo.PutCategory(ctx, w.sess.ChurchID(), c); err != nil {
		return nil, err
	}
	return w.repo.GetCategory(ctx, w.sess.ChurchID(), c.ID)
}

// DeleteCategory removes a category. Entries that use it keep their label.
func (w *Workspace) DeleteCategory(ctx context.Context, categoryID string) error {
	if err := w.sess.Require(access.WriteCategory); err != nil {
		return err
	}
	if categoryID == "" {
		return apperr.Validationf("category id is required")
	}
	return w.repo.DeleteCategory(ctx, w.sess.ChurchID(), categoryID)
}

// ListCategories returns the church's categories ordered by name, optionally
// restricted to one type.
func (w *Workspace) ListCategories(ctx context.Context, entryType string) ([]models.Category, error) {
	t, err := optionalType(entryType)
	if err != nil {
		return nil, err
	}
	cats, err := w.repo.ListCategories(ctx, w.sess.ChurchID())
	if err != nil {
		return nil, err
	}
	return categoriesOfType(cats, t), nil
}

// WatchCategories attaches a live view of the church's categories.
func (w *Workspace) WatchCategories(
	ctx context.Context,
	entryType string,
	onChange func([]models.Category, error),
) (*View[[]models.Category], error) {
	t, err := optionalType(entryType)
	if err != nil {
		return nil, err
	}
	q := storage.CategoriesQuery(w.sess.ChurchID())
	return watch(ctx, w, "categories", q, func(docs []*docstore.Document) ([]models.Category, error) {
		cats, err := storage.DecodeCategories(docs)
		if err != nil {
			return nil, err
		}
		return categoriesOfType(cats, t), nil
	}, onChange)
}

func optionalType(s string) (models.EntryType, error) {
	if s == "" {
		return "", nil
	}
	t, err := models.ParseEntryType(s)
	if err != nil {
		return "", apperr.Validationf("%v", err)
	}
	return t, nil
}

func categoriesOfType(cats []models.Category, t models.EntryType) []models.Category {
	if t == "" {
		return cats
	}
	out := make([]models.Category, 0, len(cats))
	for _, c := range cats {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}
