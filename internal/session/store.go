package session

import (
	"context"

	"github.com/mmynk/ekkora/internal/models"
	"github.com/mmynk/ekkora/internal/storage"
)

// Store is the slice of the repository the resolver needs.
type Store interface {
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
	CreateProfile(ctx context.Context, uid, email, displayName string) error
	BindProfile(ctx context.Context, uid, churchID string) error

	GetChurch(ctx context.Context, churchID string) (*models.Church, error)

	GetMember(ctx context.Context, churchID, uid string) (*models.Membership, error)
	PutMember(ctx context.Context, m *models.Membership) error

	GetIndexInvite(ctx context.Context, email string) (*models.Invite, error)
	GetChurchInvite(ctx context.Context, churchID, email string) (*models.Invite, error)
	MarkChurchInviteAccepted(ctx context.Context, churchID, email, uid string) error
	MarkIndexInviteAccepted(ctx context.Context, email, uid string) error
}

var _ Store = (*storage.Repository)(nil)
