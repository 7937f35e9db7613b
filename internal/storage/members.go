package storage

import (
	"context"
	"fmt"

	"github.com/mmynk/ekkora/internal/docstore"
	"github.com/mmynk/ekkora/internal/models"
)

// GetMember returns the membership of uid in churchID, or nil if absent.
func (r *Repository) GetMember(ctx context.Context, churchID, uid string) (*models.Membership, error) {
	doc, err := r.getDoc(ctx, docstore.MemberPath(churchID, uid))
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if doc == nil {
		return nil, nil
	}

	var m models.Membership
	if err := decode(doc.Fields, &m); err != nil {
		return nil, err
	}
	m.ChurchID = churchID
	if m.UID == "" {
		m.UID = doc.ID
	}
	return &m, nil
}

// PutMember creates or replaces a membership.
func (r *Repository) PutMember(ctx context.Context, m *models.Membership) error {
	fields := docstore.Fields{
		"uid":       m.UID,
		"role":      string(m.Role),
		"name":      m.Name,
		"email":     m.Email,
		"updatedAt": docstore.ServerTimestamp,
	}
	if m.CreatedAt.IsZero() {
		fields["createdAt"] = docstore.ServerTimestamp
	}
	if err := r.docs.Set(ctx, docstore.MemberPath(m.ChurchID, m.UID), fields, docstore.Merge()); err != nil {
		return fmt.Errorf("failed to put member: %w", err)
	}
	return nil
}

// DeleteMember removes a membership.
func (r *Repository) DeleteMember(ctx context.Context, churchID, uid string) error {
	if err := r.docs.Delete(ctx, docstore.MemberPath(churchID, uid)); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}

// MembersQuery selects a church's members ordered by name.
func MembersQuery(churchID string) docstore.Query {
	return docstore.From(docstore.MembersCollection(churchID)).Order("name", false)
}

// DecodeMembers converts member documents of churchID.
func DecodeMembers(churchID string, docs []*docstore.Document) ([]models.Membership, error) {
	return decodeDocs(docs, func(m *models.Membership, id string) {
		m.ChurchID = churchID
		if m.UID == "" {
			m.UID = id
		}
	})
}

// ListMembers returns every member of churchID.
func (r *Repository) ListMembers(ctx context.Context, churchID string) ([]models.Membership, error) {
	docs, err := r.docs.Query(ctx, MembersQuery(churchID))
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return DecodeMembers(churchID, docs)
}
