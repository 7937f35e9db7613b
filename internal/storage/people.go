package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/ekkora/internal/docstore"
	"github.com/mmynk/ekkora/internal/models"
)

// CreatePerson stores a new registry record and assigns its ID.
func (r *Repository) CreatePerson(ctx context.Context, churchID string, p *models.Person) error {
	p.ID = uuid.New().String()
	fields := personFields(p)
	fields["createdByUid"] = p.CreatedByUID
	fields["createdAt"] = docstore.ServerTimestamp

	if err := r.docs.Set(ctx, docstore.PersonPath(churchID, p.ID), fields); err != nil {
		return fmt.Errorf("failed to create person: %w", err)
	}
	return nil
}

// GetPerson returns a person, or nil if absent.
func (r *Repository) GetPerson(ctx context.Context, churchID, personID string) (*models.Person, error) {
	doc, err := r.getDoc(ctx, docstore.PersonPath(churchID, personID))
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	if doc == nil {
		return nil, nil
	}

	var p models.Person
	if err := decode(doc.Fields, &p); err != nil {
		return nil, err
	}
	p.ID = doc.ID
	return &p, nil
}

// UpdatePerson overwrites the registry fields of an existing person.
func (r *Repository) UpdatePerson(ctx context.Context, churchID string, p *models.Person) error {
	if err := r.docs.Update(ctx, docstore.PersonPath(churchID, p.ID), personFields(p)); err != nil {
		return fmt.Errorf("failed to update person: %w", err)
	}
	return nil
}

// DeletePerson removes a person.
func (r *Repository) DeletePerson(ctx context.Context, churchID, personID string) error {
	if err := r.docs.Delete(ctx, docstore.PersonPath(churchID, personID)); err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return nil
}

func personFields(p *models.Person) docstore.Fields {
	status := p.Status
	if status == "" {
		status = models.DefaultPersonStatus
	}
	return docstore.Fields{
		"name":        strings.TrimSpace(p.Name),
		"birthDate":   nullable(p.BirthDate),
		"phone":       nullable(p.Phone),
		"email":       nullable(strings.ToLower(strings.TrimSpace(p.Email))),
		"baptismDate": nullable(p.BaptismDate),
		"status":      status,
		"address":     nullable(p.Address),
		"notes":       nullable(p.Notes),
		"updatedAt":   docstore.ServerTimestamp,
	}
}

// PeopleQuery selects a church's people ordered by name.
func PeopleQuery(churchID string) docstore.Query {
	return docstore.From(docstore.PeopleCollection(churchID)).Order("name", false)
}

// DecodePeople converts person documents.
func DecodePeople(docs []*docstore.Document) ([]models.Person, error) {
	return decodeDocs(docs, func(p *models.Person, id string) { p.ID = id })
}

// ListPeople returns the registry of churchID.
func (r *Repository) ListPeople(ctx context.Context, churchID string) ([]models.Person, error) {
	docs, err := r.docs.Query(ctx, PeopleQuery(churchID))
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	return DecodePeople(docs)
}
