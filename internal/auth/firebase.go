package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"

	"github.com/mmynk/ekkora/internal/identity"
)

var _ TokenVerifier = (*FirebaseVerifier)(nil)

// FirebaseVerifier accepts Firebase Authentication ID tokens, so browser
// clients signed in with the Firebase SDK can call the API directly.
type FirebaseVerifier struct {
	client *firebaseauth.Client
}

// NewFirebaseVerifier creates a verifier from a Firebase app.
func NewFirebaseVerifier(ctx context.Context, app *firebase.App) (*FirebaseVerifier, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

// Verify implements TokenVerifier.
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*identity.Identity, error) {
	t, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email, _ := t.Claims["email"].(string)
	name, _ := t.Claims["name"].(string)
	return &identity.Identity{UID: t.UID, Email: identity.NormalizeEmail(email), DisplayName: name}, nil
}
