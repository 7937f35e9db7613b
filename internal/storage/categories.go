package storage

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/mmynk/ekkora/internal/docstore"
	"github.com/mmynk/ekkora/internal/models"
)

// CategoryID derives the document ID of a category so that the same name and
// type always land on the same document. "Dízimo Mensal" as income becomes
// income_dizimo_mensal.
func CategoryID(t models.EntryType, name string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.ToLower(strings.TrimSpace(name)),
	)
	if err != nil {
		folded = strings.ToLower(name)
	}

	var b strings.Builder
	b.WriteString(string(t))
	b.WriteByte('_')
	b.WriteString(strings.Join(strings.Fields(folded), "_"))

	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return -1
	}, b.String())
}

// PutCategory creates the category, or merges into the existing one of the same ID.
func (r *Repository) PutCategory(ctx context.Context, churchID string, c *models.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	c.ID = CategoryID(c.Type, c.Name)
	err := r.docs.Set(ctx, docstore.CategoryPath(churchID, c.ID), docstore.Fields{
		"type":         string(c.Type),
		"name":         c.Name,
		"createdByUid": c.CreatedByUID,
		"createdAt":    docstore.ServerTimestamp,
	}, docstore.Merge())
	if err != nil {
		return fmt.Errorf("failed to put category: %w", err)
	}
	return nil
}

// GetCategory returns a category by ID, or nil if absent.
func (r *Repository) GetCategory(ctx context.Context, churchID, categoryID string) (*models.Category, error) {
	doc, err := r.getDoc(ctx, docstore.CategoryPath(churchID, categoryID))
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if doc == nil {
		return nil, nil
	}

	var c models.Category
	if err := decode(doc.Fields, &c); err != nil {
		return nil, err
	}
	c.ID = doc.ID
	return &c, nil
}

// DeleteCategory removes a category. Entries keep their category label.
func (r *Repository) DeleteCategory(ctx context.Context, churchID, categoryID string) error {
	if err := r.docs.Delete(ctx, docstore.CategoryPath(churchID, categoryID)); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// CategoriesQuery selects a church's categories ordered by name.
func CategoriesQuery(churchID string) docstore.Query {
	return docstore.From(docstore.CategoriesCollection(churchID)).Order("name", false)
}

// DecodeCategories converts category documents.
func DecodeCategories(docs []*docstore.Document) ([]models.Category, error) {
	return decodeDocs(docs, func(c *models.Category, id string) { c.ID = id })
}

// ListCategories returns the categories of churchID.
func (r *Repository) ListCategories(ctx context.Context, churchID string) ([]models.Category, error) {
	docs, err := r.docs.Query(ctx, CategoriesQuery(churchID))
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return DecodeCategories(docs)
}
