package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mmynk/ekkora/internal/docstore"
	"github.com/mmynk/ekkora/internal/models"
)

// GetProfile returns the profile of uid, or nil if the profile does not exist.
func (r *Repository) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	doc, err := r.getDoc(ctx, docstore.UserPath(uid))
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if doc == nil {
		return nil, nil
	}

	var p models.UserProfile
	if err := decode(doc.Fields, &p); err != nil {
		return nil, err
	}
	if p.UID == "" {
		p.UID = uid
	}
	return &p, nil
}

// CreateProfile writes a new unbound profile. An existing profile is left
// untouched, so concurrent first resolutions cannot clear a binding made by
// one of them.
func (r *Repository) CreateProfile(ctx context.Context, uid, email, displayName string) error {
	err := r.docs.Create(ctx, docstore.UserPath(uid), docstore.Fields{
		"uid":           uid,
		"email":         strings.ToLower(email),
		"displayName":   displayName,
		"churchId":      nil,
		"monthlyTarget": 0.0,
		"currency":      models.DefaultCurrency,
		"createdAt":     docstore.ServerTimestamp,
		"updatedAt":     docstore.ServerTimestamp,
	})
	if err != nil && !errors.Is(err, docstore.ErrAlreadyExists) {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// BindProfile attaches the profile of uid to churchID.
func (r *Repository) BindProfile(ctx context.Context, uid, churchID string) error {
	err := r.docs.Set(ctx, docstore.UserPath(uid), docstore.Fields{
		"churchId":  churchID,
		"updatedAt": docstore.ServerTimestamp,
	}, docstore.Merge())
	if err != nil {
		return fmt.Errorf("failed to bind profile: %w", err)
	}
	return nil
}

// UnbindProfile clears the church binding of uid if it still points at
// churchID. It reports whether the profile was changed.
func (r *Repository) UnbindProfile(ctx context.Context, uid, churchID string) (bool, error) {
	profile, err := r.GetProfile(ctx, uid)
	if err != nil {
		return false, err
	}
	if profile == nil || profile.ChurchID != churchID {
		return false, nil
	}
	err = r.docs.Set(ctx, docstore.UserPath(uid), docstore.Fields{
		"churchId":  nil,
		"updatedAt": docstore.ServerTimestamp,
	}, docstore.Merge())
	if err != nil {
		return false, fmt.Errorf("failed to unbind profile: %w", err)
	}
	return true, nil
}

// UpdatePreferences stores the dashboard goal and display currency.
func (r *Repository) UpdatePreferences(ctx context.Context, uid string, monthlyTarget float64, currency string) error {
	err := r.docs.Set(ctx, docstore.UserPath(uid), docstore.Fields{
		"monthlyTarget": monthlyTarget,
		"currency":      currency,
		"updatedAt":     docstore.ServerTimestamp,
	}, docstore.Merge())
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}
	return nil
}
