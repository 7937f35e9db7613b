package session

import (
	"context"
	"fmt"

	"github.com/mmynk/ekkora/internal/identity"
	"github.com/mmynk/ekkora/internal/models"
)

// AcceptInvite attaches id to the invite's church. The steps are not
// transactional; each one checks before it writes, so re-running after a
// partial failure finishes the job without duplicating anything. The index
// mirror is flipped last: while it is still pending the acceptance is
// considered unfinished.
func AcceptInvite(ctx context.Context, store Store, id *identity.Identity, inv *models.Invite) error {
	return acceptInvite(ctx, store, id, inv, func() error { return nil })
}

// acceptInvite runs the acceptance steps, calling between after each store
// round-trip so the caller can abandon the run.
func acceptInvite(ctx context.Context, store Store, id *identity.Identity, inv *models.Invite, between func() error) error {
	email := id.NormalizedEmail()
	churchID := inv.ChurchID

	member, err := store.GetMember(ctx, churchID, id.UID)
	if err := step(err, between); err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if member == nil {
		err = store.PutMember(ctx, &models.Membership{
			ChurchID: churchID,
			UID:      id.UID,
			Role:     inv.Role,
			Name:     displayName(id, nil),
			Email:    email,
		})
		if err := step(err, between); err != nil {
			return fmt.Errorf("failed to create membership: %w", err)
		}
	}

	profile, err := store.GetProfile(ctx, id.UID)
	if err := step(err, between); err != nil {
		return fmt.Errorf("failed to check profile: %w", err)
	}
	if profile == nil || profile.ChurchID != churchID {
		err = store.BindProfile(ctx, id.UID, churchID)
		if err := step(err, between); err != nil {
			return fmt.Errorf("failed to bind profile: %w", err)
		}
	}

	churchInvite, err := store.GetChurchInvite(ctx, churchID, email)
	if err := step(err, between); err != nil {
		return fmt.Errorf("failed to check church invite: %w", err)
	}
	if churchInvite.Pending() {
		err = store.MarkChurchInviteAccepted(ctx, churchID, email, id.UID)
		if err := step(err, between); err != nil {
			return err
		}
	}

	index, err := store.GetIndexInvite(ctx, email)
	if err := step(err, between); err != nil {
		return fmt.Errorf("failed to check invite index: %w", err)
	}
	if index.Pending() && index.ChurchID == churchID {
		err = store.MarkIndexInviteAccepted(ctx, email, id.UID)
		if err := step(err, between); err != nil {
			return err
		}
	}
	return nil
}

func step(err error, between func() error) error {
	if err != nil {
		return err
	}
	return between()
}
