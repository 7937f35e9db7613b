package storage

import (
	"context"
	"fmt"

	"github.com/mmynk/ekkora/internal/docstore"
	"github.com/mmynk/ekkora/internal/models"
)

// GetChurch returns the church, or nil if it does not exist.
func (r *Repository) GetChurch(ctx context.Context, churchID string) (*models.Church, error) {
	doc, err := r.getDoc(ctx, docstore.ChurchPath(churchID))
	if err != nil {
		return nil, fmt.Errorf("failed to get church: %w", err)
	}
	if doc == nil {
		return nil, nil
	}

	var c models.Church
	if err := decode(doc.Fields, &c); err != nil {
		return nil, err
	}
	c.ID = doc.ID
	return &c, nil
}

// CreateChurch writes a new church document.
func (r *Repository) CreateChurch(ctx context.Context, church *models.Church) error {
	err := r.docs.Set(ctx, docstore.ChurchPath(church.ID), docstore.Fields{
		"name":      church.Name,
		"city":      church.City,
		"state":     church.State,
		"ownerUid":  church.OwnerUID,
		"createdAt": docstore.ServerTimestamp,
		"updatedAt": docstore.ServerTimestamp,
		"updatedBy": church.OwnerUID,
	})
	if err != nil {
		return fmt.Errorf("failed to create church: %w", err)
	}
	return nil
}

// UpdateChurch changes the church's descriptive fields.
func (r *Repository) UpdateChurch(ctx context.Context, churchID, name, city, state, updatedBy string) error {
	err := r.docs.Update(ctx, docstore.ChurchPath(churchID), docstore.Fields{
		"name":      name,
		"city":      city,
		"state":     state,
		"updatedAt": docstore.ServerTimestamp,
		"updatedBy": updatedBy,
	})
	if err != nil {
		return fmt.Errorf("failed to update church: %w", err)
	}
	return nil
}
