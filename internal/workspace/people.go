package workspace

import (
	"context"
	"strings"
	"time"

	"github.com/mmynk/ekkora/internal/access"
	"github.com/mmynk/ekkora/internal/apperr"
	"github.com/mmynk/ekkora/internal/calculator"
	"github.com/mmynk/ekkora/internal/docstore"
	"github.com/mmynk/ekkora/internal/models"
	"github.com/mmynk/ekkora/internal/storage"
)

// PersonInput is the editable content of a registry record.
type PersonInput struct {
	Name        string
	BirthDate   string
	Phone       string
	Email       string
	BaptismDate string
	Status      string
	Address     string
	Notes       string
}

func (in PersonInput) validate() (*models.Person, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validationf("name is required")
	}
	for label, d := range map[string]string{"birth date": in.BirthDate, "baptism date": in.BaptismDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(calculator.DateLayout, d); err != nil {
			return nil, apperr.Validationf("invalid %s %q", label, d)
		}
	}
	return &models.Person{
		Name:        name,
		BirthDate:   in.BirthDate,
		Phone:       strings.TrimSpace(in.Phone),
		Email:       strings.TrimSpace(in.Email),
		BaptismDate: in.BaptismDate,
		Status:      strings.TrimSpace(in.Status),
		Address:     strings.TrimSpace(in.Address),
		Notes:       strings.TrimSpace(in.Notes),
	}, nil
}

// CreatePerson adds a registry record.
func (w *Workspace) CreatePerson(ctx context.Context, in PersonInput) (*models.Person, error) {
	if err := w.sess.Require(access.WritePeople); err != nil {
		return nil, err
	}
	p, err := in.validate()
	if err != nil {
		return nil, err
	}
	p.CreatedByUID = w.sess.UID()
	if err := w.repo.CreatePerson(ctx, w.sess.ChurchID(), p); err != nil {
		return nil, err
	}
	return w.repo.GetPerson(ctx, w.sess.ChurchID(), p.ID)
}

// UpdatePerson replaces the fields of an existing record.
func (w *Workspace) UpdatePerson(ctx context.Context, personID string, in PersonInput) (*models.Person, error) {
	if err := w.sess.Require(access.WritePeople); err != nil {
		return nil, err
	}
	if personID == "" {
		return nil, apperr.Validationf("person id is required")
	}
	p, err := in.validate()
	if err != nil {
		return nil, err
	}
	existing, err := w.repo.GetPerson(ctx, w.sess.ChurchID(), personID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFoundf("person %s not found", personID)
	}
	p.ID = personID
	if err := w.repo.UpdatePerson(ctx, w.sess.ChurchID(), p); err != nil {
		return nil, err
	}
	return w.repo.GetPerson(ctx, w.sess.ChurchID(), personID)
}

// DeletePerson removes a registry record.
func (w *Workspace) DeletePerson(ctx context.Context, personID string) error {
	if err := w.sess.Require(access.WritePeople); err != nil {
		return err
	}
	if personID == "" {
		return apperr.Validationf("person id is required")
	}
	return w.repo.DeletePerson(ctx, w.sess.ChurchID(), personID)
}

// ListPeople returns the registry ordered by name, filtered by search.
func (w *Workspace) ListPeople(ctx context.Context, search string) ([]models.Person, error) {
	people, err := w.repo.ListPeople(ctx, w.sess.ChurchID())
	if err != nil {
		return nil, err
	}
	return FilterPeople(people, search), nil
}

// WatchPeople attaches a live view of the registry filtered by search.
func (w *Workspace) WatchPeople(ctx context.Context, search string, onChange func([]models.Person, error)) (*View[[]models.Person], error) {
	q := storage.PeopleQuery(w.sess.ChurchID())
	return watch(ctx, w, "people", q, func(docs []*docstore.Document) ([]models.Person, error) {
		people, err := storage.DecodePeople(docs)
		if err != nil {
			return nil, err
		}
		return FilterPeople(people, search), nil
	}, onChange)
}

// Age returns the age of p today in the workspace's location, or -1.
func (w *Workspace) Age(p models.Person) int {
	return p.Age(w.today())
}

// FilterPeople keeps people whose name, contact, status, address or notes
// contain search, ignoring case.
func FilterPeople(people []models.Person, search string) []models.Person {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return people
	}
	var out []models.Person
	for _, p := range people {
		hay := strings.ToLower(strings.Join([]string{p.Name, p.Phone, p.Email, p.Status, p.Address, p.Notes}, " "))
		if strings.Contains(hay, search) {
			out = append(out, p)
		}
	}
	return out
}
