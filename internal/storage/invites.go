package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmynk/ekkora/internal/docstore"
	"github.com/mmynk/ekkora/internal/models"
)

// GetIndexInvite reads the global invite mirror for email, or nil.
func (r *Repository) GetIndexInvite(ctx context.Context, email string) (*models.Invite, error) {
	if email == "" {
		return nil, nil
	}
	return r.getInvite(ctx, docstore.InviteIndexPath(strings.ToLower(email)))
}

// GetChurchInvite reads the church-scoped invite mirror, or nil.
func (r *Repository) GetChurchInvite(ctx context.Context, churchID, email string) (*models.Invite, error) {
	if email == "" {
		return nil, nil
	}
	inv, err := r.getInvite(ctx, docstore.InvitePath(churchID, strings.ToLower(email)))
	if inv != nil && inv.ChurchID == "" {
		inv.ChurchID = churchID
	}
	return inv, err
}

func (r *Repository) getInvite(ctx context.Context, path string) (*models.Invite, error) {
	doc, err := r.getDoc(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	if doc == nil {
		return nil, nil
	}

	var inv models.Invite
	if err := decode(doc.Fields, &inv); err != nil {
		return nil, err
	}
	if inv.Email == "" {
		inv.Email = doc.ID
	}
	return &inv, nil
}

// PutInvite writes a pending invite to both mirrors, church first.
func (r *Repository) PutInvite(ctx context.Context, inv *models.Invite) error {
	email := strings.ToLower(inv.Email)
	fields := docstore.Fields{
		"email":         email,
		"churchId":      inv.ChurchID,
		"role":          string(inv.Role),
		"status":        string(models.InvitePending),
		"invitedByUid":  inv.InvitedByUID,
		"acceptedByUid": nil,
		"acceptedAt":    nil,
		"createdAt":     docstore.ServerTimestamp,
		"updatedAt":     docstore.ServerTimestamp,
	}
	if err := r.docs.Set(ctx, docstore.InvitePath(inv.ChurchID, email), fields, docstore.Merge()); err != nil {
		return fmt.Errorf("failed to write church invite: %w", err)
	}
	if err := r.docs.Set(ctx, docstore.InviteIndexPath(email), fields, docstore.Merge()); err != nil {
		return fmt.Errorf("failed to write invite index: %w", err)
	}
	return nil
}

func acceptedFields(uid string) docstore.Fields {
	return docstore.Fields{
		"status":        string(models.InviteAccepted),
		"acceptedByUid": uid,
		"acceptedAt":    docstore.ServerTimestamp,
		"updatedAt":     docstore.ServerTimestamp,
	}
}

// MarkChurchInviteAccepted flips the church mirror to accepted.
func (r *Repository) MarkChurchInviteAccepted(ctx context.Context, churchID, email, uid string) error {
	path := docstore.InvitePath(churchID, strings.ToLower(email))
	if err := r.docs.Set(ctx, path, acceptedFields(uid), docstore.Merge()); err != nil {
		return fmt.Errorf("failed to accept church invite: %w", err)
	}
	return nil
}

// MarkIndexInviteAccepted flips the global mirror to accepted.
func (r *Repository) MarkIndexInviteAccepted(ctx context.Context, email, uid string) error {
	path := docstore.InviteIndexPath(strings.ToLower(email))
	if err := r.docs.Set(ctx, path, acceptedFields(uid), docstore.Merge()); err != nil {
		return fmt.Errorf("failed to accept invite index: %w", err)
	}
	return nil
}

// InvitesQuery selects a church's invites, newest first.
func InvitesQuery(churchID string) docstore.Query {
	return docstore.From(docstore.InvitesCollection(churchID)).Order("createdAt", true)
}

// ListInvites returns the church-scoped invite mirrors of churchID.
func (r *Repository) ListInvites(ctx context.Context, churchID string) ([]models.Invite, error) {
	docs, err := r.docs.Query(ctx, InvitesQuery(churchID))
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	return decodeDocs(docs, func(inv *models.Invite, id string) {
		if inv.Email == "" {
			inv.Email = id
		}
		if inv.ChurchID == "" {
			inv.ChurchID = churchID
		}
	})
}
