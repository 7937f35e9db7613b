package workspace

import (
	"context"
	"math"
	"strings"

	"github.com/mmynk/ekkora/internal/access"
	"github.com/mmynk/ekkora/internal/apperr"
	"github.com/mmynk/ekkora/internal/identity"
	"github.com/mmynk/ekkora/internal/models"
	"github.com/mmynk/ekkora/internal/money"
	"github.com/mmynk/ekkora/internal/storage"
)

// ChurchInput is the descriptive content of a church.
type ChurchInput struct {
	Name  string
	City  string
	State string
}

func (in ChurchInput) normalize() (ChurchInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	if in.Name == "" {
		return in, apperr.Validationf("church name is required")
	}
	return in, nil
}

// CreateChurch onboards the caller as the owner of a new church whose ID is
// the caller's UID. The owner gets an admin membership and the profile is
// bound to the church. A caller who can still enter their bound church gets a
// conflict; one bound to a church that no longer exists, or that no longer
// counts them as a member, is rebound.
func CreateChurch(ctx context.Context, repo *storage.Repository, id *identity.Identity, in ChurchInput) (*models.Church, error) {
	if id == nil {
		return nil, apperr.Permissionf("no active session")
	}
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	profile, err := repo.GetProfile(ctx, id.UID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		// Create-only: a concurrent resolution may have written it already.
		if err := repo.CreateProfile(ctx, id.UID, id.NormalizedEmail(), id.DisplayName); err != nil {
			return nil, err
		}
	} else if profile.Bound() {
		existing, err := repo.GetChurch(ctx, profile.ChurchID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			member, err := repo.GetMember(ctx, existing.ID, id.UID)
			if err != nil {
				return nil, err
			}
			if member != nil || existing.OwnerUID == id.UID {
				return nil, apperr.Conflictf("already bound to church %s", profile.ChurchID)
			}
		}
	}

	church := &models.Church{ID: id.UID, Name: in.Name, City: in.City, State: in.State, OwnerUID: id.UID}
	if err := repo.CreateChurch(ctx, church); err != nil {
		return nil, err
	}

	name := id.DisplayName
	if name == "" {
		name = "Admin"
	}
	owner := &models.Membership{
		ChurchID: church.ID,
		UID:      id.UID,
		Role:     models.RoleAdmin,
		Name:     name,
		Email:    id.NormalizedEmail(),
	}
	if err := repo.PutMember(ctx, owner); err != nil {
		return nil, err
	}
	if err := repo.BindProfile(ctx, id.UID, church.ID); err != nil {
		return nil, err
	}
	return repo.GetChurch(ctx, church.ID)
}

// Church returns the workspace's church.
func (w *Workspace) Church() *models.Church {
	return w.sess.Church
}

// UpdateChurch changes the church's name, city and state.
func (w *Workspace) UpdateChurch(ctx context.Context, in ChurchInput) (*models.Church, error) {
	if err := w.sess.Require(access.EditChurch); err != nil {
		return nil, err
	}
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	if err := w.repo.UpdateChurch(ctx, w.sess.ChurchID(), in.Name, in.City, in.State, w.sess.UID()); err != nil {
		return nil, err
	}
	church, err := w.repo.GetChurch(ctx, w.sess.ChurchID())
	if err != nil {
		return nil, err
	}
	if church != nil {
		w.sess.Church = church
	}
	return church, nil
}

// UpdatePreferences stores the caller's monthly income goal and display
// currency. Preferences belong to the profile, so every role may change them.
func UpdatePreferences(ctx context.Context, repo *storage.Repository, id *identity.Identity, monthlyTarget float64, currency string) (*models.UserProfile, error) {
	if id == nil {
		return nil, apperr.Permissionf("no active session")
	}
	if math.IsNaN(monthlyTarget) || math.IsInf(monthlyTarget, 0) || monthlyTarget < 0 {
		return nil, apperr.Validationf("monthly target must be zero or positive")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = models.DefaultCurrency
	}
	if !money.Valid(currency) {
		return nil, apperr.Validationf("unknown currency %q", currency)
	}

	profile, err := repo.GetProfile(ctx, id.UID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperr.NotFoundf("profile %s not found", id.UID)
	}
	if err := repo.UpdatePreferences(ctx, id.UID, monthlyTarget, currency); err != nil {
		return nil, err
	}
	return repo.GetProfile(ctx, id.UID)
}
