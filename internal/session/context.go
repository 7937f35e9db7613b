package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/ekkora/internal/access"
	"github.com/mmynk/ekkora/internal/apperr"
	"github.com/mmynk/ekkora/internal/identity"
	"github.com/mmynk/ekkora/internal/models"
)

// ErrNotMember means the profile is bound to a church that has no membership
// for it, typically after the member was removed.
var ErrNotMember = errors.New("not a member")

// Context is the resolved session for one workspace: who is signed in, which
// church they are bound to, and their role there. It is loaded once when a
// workspace opens and passed explicitly to everything that needs it.
type Context struct {
	Identity identity.Identity
	Profile  *models.UserProfile
	Church   *models.Church
	Role     models.Role
}

// UID returns the signed-in identity ID.
func (c *Context) UID() string { return c.Identity.UID }

// ChurchID returns the tenant ID of the workspace.
func (c *Context) ChurchID() string { return c.Church.ID }

// Can reports whether the session's role allows action.
func (c *Context) Can(action access.Action) bool {
	return c != nil && access.Allowed(c.Role, action)
}

// Require returns a permission error when the role does not allow action.
func (c *Context) Require(action access.Action) error {
	if c == nil {
		return apperr.Permissionf("no active session")
	}
	return access.Require(c.Role, action)
}

// Load builds the workspace context for a bound profile. The owner's
// membership is repaired as admin if it went missing; anyone else without a
// membership is rejected.
func Load(ctx context.Context, store Store, id *identity.Identity, profile *models.UserProfile) (*Context, error) {
	if !profile.Bound() {
		return nil, apperr.NotFoundf("profile %s is not bound to a church", id.UID)
	}

	church, err := store.GetChurch(ctx, profile.ChurchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load church: %w", err)
	}
	if church == nil {
		return nil, apperr.NotFoundf("church %s not found", profile.ChurchID)
	}

	member, err := store.GetMember(ctx, church.ID, id.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}
	if member == nil {
		if church.OwnerUID != id.UID {
			return nil, apperr.Wrap(apperr.Permission, ErrNotMember, "church "+church.ID)
		}
		member = &models.Membership{
			ChurchID: church.ID,
			UID:      id.UID,
			Role:     models.RoleAdmin,
			Name:     displayName(id, profile),
			Email:    id.NormalizedEmail(),
		}
		if err := store.PutMember(ctx, member); err != nil {
			return nil, fmt.Errorf("failed to repair owner membership: %w", err)
		}
	}

	return &Context{Identity: *id, Profile: profile, Church: church, Role: member.Role}, nil
}

// Open reads the profile of id and loads its workspace context.
func Open(ctx context.Context, store Store, id *identity.Identity) (*Context, error) {
	if id == nil {
		return nil, apperr.Permissionf("no active session")
	}
	profile, err := store.GetProfile(ctx, id.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, apperr.NotFoundf("profile %s not found", id.UID)
	}
	return Load(ctx, store, id, profile)
}

func displayName(id *identity.Identity, profile *models.UserProfile) string {
	if id.DisplayName != "" {
		return id.DisplayName
	}
	if profile != nil && profile.DisplayName != "" {
		return profile.DisplayName
	}
	return id.NormalizedEmail()
}
