package workspace

import (
	"context"
	"net/mail"
	"strings"

	"github.com/mmynk/ekkora/internal/access"
	"github.com/mmynk/ekkora/internal/apperr"
	"github.com/mmynk/ekkora/internal/docstore"
	"github.com/mmynk/ekkora/internal/identity"
	"github.com/mmynk/ekkora/internal/models"
	"github.com/mmynk/ekkora/internal/storage"
)

// Invite offers membership of the church to email with role. Both invite
// mirrors are written; inviting the same email again refreshes the offer.
func (w *Workspace) Invite(ctx context.Context, email, role string) (*models.Invite, error) {
	if err := w.sess.Require(access.ManageMembers); err != nil {
		return nil, err
	}
	email = identity.NormalizeEmail(email)
	if email == "" {
		return nil, apperr.Validationf("email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, apperr.Validationf("invalid email %q", email)
	}
	r, err := models.ParseRole(strings.TrimSpace(role))
	if err != nil {
		return nil, apperr.Validationf("%v", err)
	}

	inv := &models.Invite{
		Email:        email,
		ChurchID:     w.sess.ChurchID(),
		Role:         r,
		Status:       models.InvitePending,
		InvitedByUID: w.sess.UID(),
	}
	if err := w.repo.PutInvite(ctx, inv); err != nil {
		return nil, err
	}
	w.logger.Info("invite created", "church_id", w.sess.ChurchID(), "email", email, "role", r)
	return w.repo.GetChurchInvite(ctx, w.sess.ChurchID(), email)
}

// RemoveMember deletes a membership and releases the removed user's profile
// from the church so their next session lands on onboarding. Members cannot
// remove themselves and the owner cannot be removed.
func (w *Workspace) RemoveMember(ctx context.Context, uid string) error {
	if err := w.sess.Require(access.ManageMembers); err != nil {
		return err
	}
	if uid == "" {
		return apperr.Validationf("member uid is required")
	}
	if uid == w.sess.UID() {
		return apperr.Validationf("you cannot remove yourself")
	}
	if uid == w.sess.Church.OwnerUID {
		return apperr.Validationf("the church owner cannot be removed")
	}
	if err := w.repo.DeleteMember(ctx, w.sess.ChurchID(), uid); err != nil {
		return err
	}
	unbound, err := w.repo.UnbindProfile(ctx, uid, w.sess.ChurchID())
	if err != nil {
		return err
	}
	w.logger.Info("member removed", "church_id", w.sess.ChurchID(), "uid", uid, "unbound", unbound)
	return nil
}

// ListMembers returns the church's members ordered by name.
func (w *Workspace) ListMembers(ctx context.Context) ([]models.Membership, error) {
	return w.repo.ListMembers(ctx, w.sess.ChurchID())
}

// WatchMembers attaches a live view of the church's members.
func (w *Workspace) WatchMembers(ctx context.Context, onChange func([]models.Membership, error)) (*View[[]models.Membership], error) {
	churchID := w.sess.ChurchID()
	return watch(ctx, w, "members", storage.MembersQuery(churchID), func(docs []*docstore.Document) ([]models.Membership, error) {
		return storage.DecodeMembers(churchID, docs)
	}, onChange)
}

// ListInvites returns the church's invites, newest first. Accepted invites
// are included unless pendingOnly is set.
func (w *Workspace) ListInvites(ctx context.Context, pendingOnly bool) ([]models.Invite, error) {
	if err := w.sess.Require(access.ManageMembers); err != nil {
		return nil, err
	}
	invites, err := w.repo.ListInvites(ctx, w.sess.ChurchID())
	if err != nil {
		return nil, err
	}
	if !pendingOnly {
		return invites, nil
	}
	out := invites[:0]
	for _, inv := range invites {
		if inv.Pending() {
			out = append(out, inv)
		}
	}
	return out, nil
}
